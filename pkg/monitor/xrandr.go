package monitor

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/xrpex/xrpex/pkg/observability"
	"github.com/xrpex/xrpex/pkg/rpex"
)

// DefaultBinary is the xrandr executable looked up on PATH.
const DefaultBinary = "xrandr"

// Executor runs an external command and returns its standard output.
type Executor interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecFunc adapts a function to the Executor interface.
type ExecFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// Run calls f.
func (f ExecFunc) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return f(ctx, name, args...)
}

// Exec runs commands with os/exec. Standard error is folded into the
// returned error when the command fails.
var Exec Executor = ExecFunc(runCommand)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return out, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return out, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// Xrandr manages virtual monitors with the xrandr command.
type Xrandr struct {
	exec   Executor
	binary string
	dryRun bool
	logger *log.Logger
}

// Option configures an Xrandr manager.
type Option func(*Xrandr)

// WithExecutor replaces the command runner.
func WithExecutor(e Executor) Option {
	return func(x *Xrandr) { x.exec = e }
}

// WithBinary sets the xrandr executable. Empty keeps the default.
func WithBinary(path string) Option {
	return func(x *Xrandr) {
		if path != "" {
			x.binary = path
		}
	}
}

// WithDryRun logs commands that change monitors instead of running them.
// Listing monitors still runs xrandr.
func WithDryRun(dryRun bool) Option {
	return func(x *Xrandr) { x.dryRun = dryRun }
}

// WithLogger sets the logger for issued commands.
func WithLogger(l *log.Logger) Option {
	return func(x *Xrandr) { x.logger = l }
}

// NewXrandr returns a Manager backed by xrandr.
func NewXrandr(opts ...Option) *Xrandr {
	x := &Xrandr{exec: Exec, binary: DefaultBinary}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

var _ Manager = (*Xrandr)(nil)

// Monitors runs xrandr --listmonitors and restores outputs hidden by a split.
func (x *Xrandr) Monitors(ctx context.Context) ([]Monitor, error) {
	start := time.Now()
	out, err := x.exec.Run(ctx, x.binary, "--listmonitors")
	if err != nil {
		observability.Display().OnCommand(ctx, observability.OpList, 0, time.Since(start), err)
		return nil, fmt.Errorf("list monitors: %w", err)
	}
	monitors, err := ParseListMonitors(out)
	observability.Display().OnCommand(ctx, observability.OpList, len(monitors), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return RestoreParents(monitors), nil
}

// Reset deletes every virtual monitor created for parent with a single
// xrandr invocation.
func (x *Xrandr) Reset(ctx context.Context, parent string) error {
	monitors, err := x.Monitors(ctx)
	if err != nil {
		return err
	}

	var args []string
	for _, m := range monitors {
		if m.Managed(parent) {
			args = append(args, "--delmonitor", m.Name)
		}
	}
	if len(args) == 0 {
		x.debug("no virtual monitors to delete", "parent", parent)
		return nil
	}
	if err := x.run(ctx, observability.OpDelete, args); err != nil {
		return fmt.Errorf("delete monitors of %s: %w", parent, err)
	}
	return nil
}

// Apply resets parent and then creates one virtual monitor per partition
// of ratio evaluated against the parent's resolution.
func (x *Xrandr) Apply(ctx context.Context, parent string, ratio rpex.IndeterminateSumsInRatio) (Monitor, error) {
	if err := x.Reset(ctx, parent); err != nil {
		return Monitor{}, err
	}

	monitors, err := x.Monitors(ctx)
	if err != nil {
		return Monitor{}, err
	}
	m, err := Find(monitors, parent)
	if err != nil {
		return Monitor{}, err
	}

	args, err := SetMonitorArgs(m, ratio)
	if err != nil {
		return Monitor{}, err
	}
	if err := x.run(ctx, observability.OpCreate, args); err != nil {
		return Monitor{}, fmt.Errorf("create monitors on %s: %w", parent, err)
	}
	return m, nil
}

// SetMonitorArgs evaluates ratio on m and returns the xrandr arguments that
// create one virtual monitor per partition. Offsets are relative to m's
// origin in the X screen.
func SetMonitorArgs(m Monitor, ratio rpex.IndeterminateSumsInRatio) ([]string, error) {
	if ratio.Dims() != 2 {
		return nil, fmt.Errorf("monitor ratio must be two-dimensional, got %d", ratio.Dims())
	}
	solved, scale, err := ratio.Evaluate(m.Resolution)
	if err != nil {
		return nil, fmt.Errorf("evaluate %s on %s: %w", ratio, m.Resolution, err)
	}

	args := make([]string, 0, 4*solved.Len())
	for p := range solved.Partitions() {
		px := p.Scaled(scale)
		x, y := px.Position[0], px.Position[1]
		args = append(args,
			"--setmonitor",
			VirtualName(m.Name, x, y),
			Geometry(px.Size[0], px.Size[1], m.Origin[0]+x, m.Origin[1]+y),
			m.Name,
		)
	}
	return args, nil
}

// run issues one mutating xrandr call. Every monitor takes a fixed number
// of arguments, so the count is derived from args.
func (x *Xrandr) run(ctx context.Context, op string, args []string) error {
	n := len(args) / argsPerMonitor[op]
	if x.dryRun {
		x.info("dry run", "cmd", x.binary+" "+strings.Join(args, " "))
		observability.Display().OnDryRun(ctx, op, n)
		return nil
	}
	x.debug("exec", "op", op, "monitors", n)
	start := time.Now()
	_, err := x.exec.Run(ctx, x.binary, args...)
	observability.Display().OnCommand(ctx, op, n, time.Since(start), err)
	return err
}

var argsPerMonitor = map[string]int{
	observability.OpDelete: 2, // --delmonitor name
	observability.OpCreate: 4, // --setmonitor name geometry parent
}

func (x *Xrandr) debug(msg string, kv ...any) {
	if x.logger != nil {
		x.logger.Debug(msg, kv...)
	}
}

func (x *Xrandr) info(msg string, kv ...any) {
	if x.logger != nil {
		x.logger.Info(msg, kv...)
	}
}

// ===== --listmonitors parsing =====

// " 0: +*DP-1 1920/527x1080/296+0+0  DP-1"
var listMonitorsRe = regexp.MustCompile(
	`^\s*\d+:\s+(\+?)(\*?)(\S+)\s+(\d+)/\d+x(\d+)/\d+\+(-?\d+)\+(-?\d+)`)

// ErrMalformedListing is returned for xrandr output that cannot be parsed.
var ErrMalformedListing = errors.New("malformed xrandr --listmonitors output")

// ParseListMonitors parses the output of xrandr --listmonitors.
func ParseListMonitors(out []byte) ([]Monitor, error) {
	var monitors []Monitor
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "Monitors:") {
			continue
		}
		m := listMonitorsRe.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedListing, line)
		}

		width, err1 := strconv.ParseUint(m[4], 10, 32)
		height, err2 := strconv.ParseUint(m[5], 10, 32)
		x, err3 := strconv.ParseUint(m[6], 10, 32)
		y, err4 := strconv.ParseUint(m[7], 10, 32)
		if err := errors.Join(err1, err2, err3, err4); err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrMalformedListing, line, err)
		}
		res, err := rpex.NewHyperRectangle(uint32(width), uint32(height))
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrMalformedListing, line, err)
		}

		monitors = append(monitors, Monitor{
			Name:       m[3],
			Resolution: res,
			Origin:     [2]uint32{uint32(x), uint32(y)},
			Primary:    m[2] == "*",
			Virtual:    m[1] == "",
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return monitors, nil
}
