// Package observability reports solve and display events to registered hooks.
//
// A solve event fires each time a ratio is evaluated against a rectangle. A
// display event fires for every xrandr invocation, including skipped dry-run
// ones. The xrpex binary registers hooks that log these events; with nothing
// registered they are dropped.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSolveHooks(&mySolveHooks{})
//	    observability.SetDisplayHooks(&myDisplayHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	out, err := exec.Run(ctx, "xrandr", args...)
//	observability.Display().OnCommand(ctx, observability.OpCreate, n, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// Display operations reported to DisplayHooks.
const (
	OpList   = "list"
	OpDelete = "delete"
	OpCreate = "create"
)

// =============================================================================
// Solve Hooks
// =============================================================================

// SolveHooks receives events from evaluating ratio expressions.
type SolveHooks interface {
	// OnSolve records one evaluation of ratio on rect. cells is the number of
	// partitions, zero when err is set.
	OnSolve(ctx context.Context, ratio, rect string, cells int, duration time.Duration, err error)
}

// =============================================================================
// Display Hooks
// =============================================================================

// DisplayHooks receives events from the display manager.
type DisplayHooks interface {
	// OnCommand records one display command. monitors is the number of
	// monitors listed, deleted or created.
	OnCommand(ctx context.Context, op string, monitors int, duration time.Duration, err error)

	// OnDryRun records a command that was logged instead of executed.
	OnDryRun(ctx context.Context, op string, monitors int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSolveHooks is a no-op implementation of SolveHooks.
type NoopSolveHooks struct{}

func (NoopSolveHooks) OnSolve(context.Context, string, string, int, time.Duration, error) {}

// NoopDisplayHooks is a no-op implementation of DisplayHooks.
type NoopDisplayHooks struct{}

func (NoopDisplayHooks) OnCommand(context.Context, string, int, time.Duration, error) {}
func (NoopDisplayHooks) OnDryRun(context.Context, string, int)                        {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	solveHooks   SolveHooks   = NoopSolveHooks{}
	displayHooks DisplayHooks = NoopDisplayHooks{}
	hooksMu      sync.RWMutex
)

// SetSolveHooks registers custom solve hooks.
// This should be called once at application startup.
func SetSolveHooks(h SolveHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		solveHooks = h
	}
}

// SetDisplayHooks registers custom display hooks.
// This should be called once at application startup.
func SetDisplayHooks(h DisplayHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		displayHooks = h
	}
}

// Solve returns the registered solve hooks.
func Solve() SolveHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return solveHooks
}

// Display returns the registered display hooks.
func Display() DisplayHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return displayHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	solveHooks = NoopSolveHooks{}
	displayHooks = NoopDisplayHooks{}
}
