// Package cli implements the xrpex command-line interface.
//
// This package provides commands for splitting a monitor into virtual
// monitors with xrandr, undoing such a split, and solving ratio expressions
// offline. The CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - apply: Split a monitor according to a ratio expression
//   - reset: Remove the virtual monitors created by apply
//   - monitors: List connected monitors
//   - eval: Solve a ratio on a rectangle and print the layout
//   - preview: Draw a solved layout as SVG or DOT
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so helpers can log without a CLI handle.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/xrpex/xrpex/pkg/observability"
)

// newLogger returns a logger stamping each line with "15:04:05.00".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times a display change for the summary line logged by apply.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Applied 3 monitors (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches the command logger so solve and display helpers can
// log without a CLI handle.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger set by withLogger, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// LogHooks reports solve and display events to a logger at debug level.
type LogHooks struct {
	logger *log.Logger
}

var (
	_ observability.SolveHooks   = LogHooks{}
	_ observability.DisplayHooks = LogHooks{}
)

// NewLogHooks returns hooks that log to l.
func NewLogHooks(l *log.Logger) LogHooks {
	return LogHooks{logger: l}
}

func (h LogHooks) OnSolve(_ context.Context, ratio, rect string, cells int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("solve failed", "ratio", ratio, "rect", rect, "err", err)
		return
	}
	h.logger.Debug("solved", "ratio", ratio, "rect", rect, "cells", cells, "took", d.Round(time.Microsecond))
}

func (h LogHooks) OnCommand(_ context.Context, op string, monitors int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("xrandr failed", "op", op, "err", err)
		return
	}
	h.logger.Debug("xrandr", "op", op, "monitors", monitors, "took", d.Round(time.Millisecond))
}

func (h LogHooks) OnDryRun(_ context.Context, op string, monitors int) {
	h.logger.Debug("xrandr skipped", "op", op, "monitors", monitors)
}
