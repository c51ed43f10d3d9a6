// Package monitortest provides an in-memory X display for tests of code
// that drives xrandr through a monitor.Executor.
//
// A [Display] answers --listmonitors the way X RandR does: an output is
// listed as an automatic "+" monitor until a --setmonitor claims it, and
// from then on only the virtual monitors layered over it are listed.
//
//	d := monitortest.NewDisplay(monitortest.Output{Name: "DP-1", Width: 1920, Height: 1080, Primary: true})
//	x := monitor.NewXrandr(monitor.WithExecutor(d))
package monitortest

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// Output is a connected output with its automatic monitor geometry.
type Output struct {
	Name          string
	Width, Height uint32
	X, Y          uint32
	Primary       bool
}

type virtualMonitor struct {
	name          string
	width, height uint32
	x, y          uint32
	output        string
}

// Display is a fake X server. It is safe for concurrent use.
type Display struct {
	mu      sync.Mutex
	outputs []Output
	virtual []virtualMonitor
	calls   [][]string

	// Err, when set, fails every mutating call without changing state.
	Err error
}

// NewDisplay returns a display with the given outputs and no virtual
// monitors.
func NewDisplay(outputs ...Output) *Display {
	return &Display{outputs: slices.Clone(outputs)}
}

// Run implements monitor.Executor.
func (d *Display) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(args) == 1 && args[0] == "--listmonitors" {
		return []byte(d.listing()), nil
	}
	d.calls = append(d.calls, append([]string{name}, args...))
	if d.Err != nil {
		return nil, d.Err
	}

	next, err := d.mutate(args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	d.virtual = next
	return nil, nil
}

// Calls returns every mutating invocation, binary first.
func (d *Display) Calls() [][]string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.calls)
}

// Listing returns what xrandr --listmonitors would print now.
func (d *Display) Listing() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.listing()
}

var geometryRe = regexp.MustCompile(`^(\d+)/\d+x(\d+)/\d+\+(\d+)\+(\d+)$`)

// mutate applies args to a copy of the virtual monitors so a bad argument
// leaves the display untouched.
func (d *Display) mutate(args []string) ([]virtualMonitor, error) {
	next := slices.Clone(d.virtual)
	for i := 0; i < len(args); {
		switch args[i] {
		case "--delmonitor":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("--delmonitor: missing name")
			}
			name := args[i+1]
			j := slices.IndexFunc(next, func(v virtualMonitor) bool { return v.name == name })
			if j < 0 {
				return nil, fmt.Errorf("--delmonitor: unknown monitor %s", name)
			}
			next = slices.Delete(next, j, j+1)
			i += 2
		case "--setmonitor":
			if i+3 >= len(args) {
				return nil, fmt.Errorf("--setmonitor: missing arguments")
			}
			v, err := d.parseSetMonitor(args[i+1], args[i+2], args[i+3])
			if err != nil {
				return nil, err
			}
			next = slices.DeleteFunc(next, func(o virtualMonitor) bool { return o.name == v.name })
			next = append(next, v)
			i += 4
		default:
			return nil, fmt.Errorf("unsupported argument %q", args[i])
		}
	}
	return next, nil
}

func (d *Display) parseSetMonitor(name, geometry, output string) (virtualMonitor, error) {
	m := geometryRe.FindStringSubmatch(geometry)
	if m == nil {
		return virtualMonitor{}, fmt.Errorf("--setmonitor %s: bad geometry %q", name, geometry)
	}
	if !slices.ContainsFunc(d.outputs, func(o Output) bool { return o.Name == output }) {
		return virtualMonitor{}, fmt.Errorf("--setmonitor %s: unknown output %s", name, output)
	}
	var n [4]uint32
	for k := range n {
		v, err := strconv.ParseUint(m[k+1], 10, 32)
		if err != nil {
			return virtualMonitor{}, fmt.Errorf("--setmonitor %s: %w", name, err)
		}
		n[k] = uint32(v)
	}
	return virtualMonitor{name: name, width: n[0], height: n[1], x: n[2], y: n[3], output: output}, nil
}

func (d *Display) listing() string {
	claimed := make(map[string]bool)
	for _, v := range d.virtual {
		claimed[v.output] = true
	}

	var lines []string
	for _, o := range d.outputs {
		if claimed[o.Name] {
			continue
		}
		flags := "+"
		if o.Primary {
			flags += "*"
		}
		lines = append(lines, fmt.Sprintf("%s%s %d/0x%d/0+%d+%d  %s", flags, o.Name, o.Width, o.Height, o.X, o.Y, o.Name))
	}
	for _, v := range d.virtual {
		lines = append(lines, fmt.Sprintf("%s %d/0x%d/1+%d+%d  %s", v.name, v.width, v.height, v.x, v.y, v.output))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Monitors: %d\n", len(lines))
	for i, line := range lines {
		fmt.Fprintf(&b, " %d: %s\n", i, line)
	}
	return b.String()
}
