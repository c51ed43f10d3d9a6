package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/xrpex/xrpex/internal/config"
	"github.com/xrpex/xrpex/pkg/errors"
	"github.com/xrpex/xrpex/pkg/layout"
	"github.com/xrpex/xrpex/pkg/monitor"
	"github.com/xrpex/xrpex/pkg/monitor/monitortest"
)

type testEnv struct {
	display *monitortest.Display
	seeded  int
	out     *bytes.Buffer
	errOut  *bytes.Buffer
}

// setup isolates the test from the user's config and environment and
// captures styled output. The display has DP-1 (primary) and HDMI-1, with
// DP-1 already split into a 640px and a 1280px column, so DP-1 itself is
// hidden from --listmonitors.
func setup(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(config.MonitorEnv, "")

	d := monitortest.NewDisplay(
		monitortest.Output{Name: "DP-1", Width: 1920, Height: 1080, Primary: true},
		monitortest.Output{Name: "HDMI-1", Width: 2560, Height: 1440, X: 1920},
	)
	_, err := d.Run(context.Background(), "xrandr",
		"--setmonitor", "DP-1-XRPEX-0-0", "640/0x1080/1+0+0", "DP-1",
		"--setmonitor", "DP-1-XRPEX-640-0", "1280/0x1080/1+640+0", "DP-1")
	if err != nil {
		t.Fatal(err)
	}

	env := &testEnv{display: d, seeded: len(d.Calls()), out: &bytes.Buffer{}, errOut: &bytes.Buffer{}}
	oldOut, oldErr := stdout, stderr
	stdout, stderr = env.out, env.errOut
	t.Cleanup(func() { stdout, stderr = oldOut, oldErr })
	return env
}

// calls returns the xrandr arguments of every mutating call made by the
// commands under test.
func (e *testEnv) calls() [][]string {
	var out [][]string
	for _, c := range e.display.Calls()[e.seeded:] {
		out = append(out, c[1:])
	}
	return out
}

func (e *testEnv) run(args ...string) error {
	return e.runWith(New(io.Discard, LogInfo), args...)
}

func (e *testEnv) runWith(c *CLI, args ...string) error {
	c.Interactive = func() bool { return false }
	c.NewManager = func(_ config.Config, dryRun bool, logger *log.Logger) monitor.Manager {
		return monitor.NewXrandr(
			monitor.WithExecutor(e.display),
			monitor.WithDryRun(dryRun),
			monitor.WithLogger(logger),
		)
	}
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	return root.ExecuteContext(context.Background())
}

func wantCode(t *testing.T, err error, code errors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	if got := errors.GetCode(err); got != code {
		t.Errorf("error code = %s, want %s (err: %v)", got, code, err)
	}
}

// =============================================================================
// eval
// =============================================================================

func TestEvalJSON(t *testing.T) {
	env := setup(t)

	if err := env.run("eval", "1+2:", "--rect", "1920x1080", "-f", "json"); err != nil {
		t.Fatalf("eval error: %v", err)
	}

	l, err := layout.Unmarshal(env.out.Bytes(), layout.FormatJSON)
	if err != nil {
		t.Fatalf("output is not a valid layout: %v\n%s", err, env.out.String())
	}
	if l.Solved != "16+32:27" {
		t.Errorf("Solved = %q, want %q", l.Solved, "16+32:27")
	}
	if l.Scale != 40 {
		t.Errorf("Scale = %d, want 40", l.Scale)
	}
	if len(l.Cells) != 2 {
		t.Fatalf("got %d cells, want 2", len(l.Cells))
	}
	if got := joinDims(l.Cells[1].PixelSize); got != "1280x1080" {
		t.Errorf("second cell = %s, want 1280x1080", got)
	}
}

func TestEvalYAML(t *testing.T) {
	env := setup(t)

	if err := env.run("eval", ":1+1", "--rect", "800x600", "--format", "yaml"); err != nil {
		t.Fatalf("eval error: %v", err)
	}
	l, err := layout.Unmarshal(env.out.Bytes(), layout.FormatYAML)
	if err != nil {
		t.Fatalf("output is not a valid layout: %v\n%s", err, env.out.String())
	}
	if len(l.Cells) != 2 || l.Cells[1].PixelPosition[1] != 300 {
		t.Errorf("unexpected cells: %+v", l.Cells)
	}
}

func TestEvalText(t *testing.T) {
	env := setup(t)

	if err := env.run("eval", "1+2:", "-r", "1920x1080"); err != nil {
		t.Fatalf("eval error: %v", err)
	}
	out := env.out.String()
	for _, want := range []string{"16+32:27", "1920x1080", "1280x1080", "+640+0"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestEvalThreeAxes(t *testing.T) {
	env := setup(t)

	if err := env.run("eval", "1+1:+:4", "--rect", "4x8x8", "-f", "json"); err != nil {
		t.Fatalf("eval error: %v", err)
	}
	l, err := layout.Unmarshal(env.out.Bytes(), layout.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Cells) != 4 {
		t.Errorf("got %d cells, want 4", len(l.Cells))
	}
}

func TestEvalMonitor(t *testing.T) {
	env := setup(t)

	if err := env.run("eval", "1+1:", "-m", "HDMI-1", "-f", "json"); err != nil {
		t.Fatalf("eval error: %v", err)
	}
	l, err := layout.Unmarshal(env.out.Bytes(), layout.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if got := joinDims(l.Rectangle); got != "2560x1440" {
		t.Errorf("Rectangle = %s, want 2560x1440", got)
	}
	if len(env.calls()) != 0 {
		t.Errorf("eval must not change monitors, got %v", env.calls())
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"no rectangle", []string{"eval", "1:"}, errors.ErrCodeInvalidInput},
		{"rect and monitor", []string{"eval", "1:", "-r", "10x10", "-m", "DP-1"}, errors.ErrCodeInvalidInput},
		{"zero length", []string{"eval", "1:", "-r", "0x10"}, errors.ErrCodeInvalidRectangle},
		{"bad ratio", []string{"eval", "1+a:", "-r", "10x10"}, errors.ErrCodeInvalidRatio},
		{"too many axes", []string{"eval", "1:1:1", "-r", "10x10"}, errors.ErrCodeInvalidRatio},
		{"unequal scales", []string{"eval", "1:1", "-r", "1920x1080"}, errors.ErrCodeUnequalScales},
		{"does not divide", []string{"eval", "7:", "-r", "1920x1080"}, errors.ErrCodeDoesNotDivide},
		{"bad format", []string{"eval", "1:", "-r", "10x10", "-f", "xml"}, errors.ErrCodeInvalidFormat},
		{"unknown monitor", []string{"eval", "1:", "-m", "VGA-1"}, errors.ErrCodeMonitorNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setup(t)
			wantCode(t, env.run(tt.args...), tt.code)
		})
	}
}

func TestEvalOutputAndPreview(t *testing.T) {
	env := setup(t)
	dir := t.TempDir()
	layoutPath := filepath.Join(dir, "split.yaml")
	dotPath := filepath.Join(dir, "split.dot")

	if err := env.run("eval", "1+2+1:", "-r", "1600x900", "-o", layoutPath); err != nil {
		t.Fatalf("eval error: %v", err)
	}
	if !strings.Contains(env.out.String(), layoutPath) {
		t.Errorf("eval should report the written file:\n%s", env.out.String())
	}

	if err := env.run("preview", "--layout", layoutPath, "-o", dotPath); err != nil {
		t.Fatalf("preview error: %v", err)
	}
	data, err := os.ReadFile(dotPath)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(string(data), "pos="); got != 3 {
		t.Errorf("preview has %d cells, want 3:\n%s", got, data)
	}
}

func TestPreviewErrors(t *testing.T) {
	env := setup(t)

	wantCode(t, env.run("preview"), errors.ErrCodeInvalidInput)
	wantCode(t, env.run("preview", "1:", "--layout", "x.json"), errors.ErrCodeInvalidInput)
	wantCode(t, env.run("preview", "--layout", filepath.Join(t.TempDir(), "missing.json")), errors.ErrCodeFileNotFound)
	wantCode(t, env.run("preview", "1:1:1", "-r", "2x2x2", "-o", "x.dot"), errors.ErrCodeUnsupported)
}

// =============================================================================
// apply / reset / monitors
// =============================================================================

func TestApply(t *testing.T) {
	env := setup(t)

	if err := env.run("apply", "1+1:", "-m", "HDMI-1"); err != nil {
		t.Fatalf("apply error: %v", err)
	}
	if len(env.calls()) != 1 {
		t.Fatalf("got %d xrandr calls, want 1: %v", len(env.calls()), env.calls())
	}
	args := strings.Join(env.calls()[0], " ")
	want := "--setmonitor HDMI-1-XRPEX-0-0 1280/0x1440/1+1920+0 HDMI-1 " +
		"--setmonitor HDMI-1-XRPEX-1280-0 1280/0x1440/1+3200+0 HDMI-1"
	if args != want {
		t.Errorf("xrandr args = %q, want %q", args, want)
	}
	if out := env.out.String(); !strings.Contains(out, "HDMI-1-XRPEX-1280-0") {
		t.Errorf("output should list created monitors:\n%s", out)
	}
}

func TestApplyMonitorFromEnv(t *testing.T) {
	env := setup(t)
	t.Setenv(config.MonitorEnv, "DP-1")

	if err := env.run("apply", ":1+1"); err != nil {
		t.Fatalf("apply error: %v", err)
	}
	// delete old split, then create the new one
	if len(env.calls()) != 2 {
		t.Fatalf("got %d xrandr calls, want 2: %v", len(env.calls()), env.calls())
	}
	if env.calls()[0][0] != "--delmonitor" {
		t.Errorf("first call = %v, want --delmonitor", env.calls()[0])
	}
}

func TestApplyFromConfig(t *testing.T) {
	env := setup(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := "monitor = \"HDMI-1\"\ndry_run = true\ndefault_ratio = \"1+1:\"\n"
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := env.run("apply", "--config", path); err != nil {
		t.Fatalf("apply error: %v", err)
	}
	if len(env.calls()) != 0 {
		t.Errorf("dry run changed monitors: %v", env.calls())
	}
	if out := env.out.String(); !strings.Contains(out, "dry run") {
		t.Errorf("output should mention dry run:\n%s", out)
	}
}

func TestApplyErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"no monitor", []string{"apply", "1:"}, errors.ErrCodeInvalidMonitor},
		{"bad monitor name", []string{"apply", "1:", "-m", "DP 1"}, errors.ErrCodeInvalidMonitor},
		{"unknown monitor", []string{"apply", "1:", "-m", "VGA-1"}, errors.ErrCodeMonitorNotFound},
		{"no ratio", []string{"apply", "-m", "DP-1"}, errors.ErrCodeInvalidInput},
		{"bad ratio", []string{"apply", "1", "-m", "DP-1"}, errors.ErrCodeInvalidRatio},
		{"unsolvable", []string{"apply", "7:", "-m", "DP-1"}, errors.ErrCodeDoesNotDivide},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setup(t)
			wantCode(t, env.run(tt.args...), tt.code)
			if len(env.calls()) != 0 {
				t.Errorf("failed apply changed monitors: %v", env.calls())
			}
		})
	}
}

func TestReset(t *testing.T) {
	env := setup(t)

	if err := env.run("reset", "-m", "DP-1"); err != nil {
		t.Fatalf("reset error: %v", err)
	}
	want := "--delmonitor DP-1-XRPEX-0-0 --delmonitor DP-1-XRPEX-640-0"
	if len(env.calls()) != 1 || strings.Join(env.calls()[0], " ") != want {
		t.Errorf("xrandr calls = %v, want [%s]", env.calls(), want)
	}
	if out := env.out.String(); !strings.Contains(out, "Removed 2") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestResetNothing(t *testing.T) {
	env := setup(t)

	if err := env.run("reset", "-m", "HDMI-1"); err != nil {
		t.Fatalf("reset error: %v", err)
	}
	if len(env.calls()) != 0 {
		t.Errorf("reset without virtual monitors called xrandr: %v", env.calls())
	}
	if out := env.out.String(); !strings.Contains(out, "No virtual monitors") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestMonitors(t *testing.T) {
	env := setup(t)

	if err := env.run("monitors"); err != nil {
		t.Fatalf("monitors error: %v", err)
	}
	out := env.out.String()
	for _, want := range []string{"DP-1", "1920x1080", "split", "2560x1440", "+1920+0", "DP-1-XRPEX-640-0"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	env.out.Reset()
	if err := env.run("monitors", "--physical"); err != nil {
		t.Fatalf("monitors error: %v", err)
	}
	out = env.out.String()
	if strings.Contains(out, "XRPEX") {
		t.Errorf("--physical should hide virtual monitors:\n%s", out)
	}
	if !strings.Contains(out, "DP-1") {
		t.Errorf("--physical should keep the split parent:\n%s", out)
	}
}

func TestApplyAgainAfterSplit(t *testing.T) {
	env := setup(t)

	if err := env.run("apply", "1+1:", "-m", "DP-1"); err != nil {
		t.Fatalf("first apply error: %v", err)
	}
	if err := env.run("apply", ":1+2", "-m", "DP-1"); err != nil {
		t.Fatalf("second apply error: %v", err)
	}

	got := env.display.Listing()
	for _, want := range []string{"DP-1-XRPEX-0-0 1920/0x360/1+0+0", "DP-1-XRPEX-0-360 1920/0x720/1+0+360"} {
		if !strings.Contains(got, want) {
			t.Errorf("listing missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "DP-1-XRPEX-960-0") || strings.Contains(got, "+*DP-1") {
		t.Errorf("earlier split left behind:\n%s", got)
	}
	if !strings.Contains(env.out.String(), "DP-1-XRPEX-0-360") {
		t.Errorf("output should list created monitors:\n%s", env.out.String())
	}
}

func TestApplyDryRunAfterSplit(t *testing.T) {
	env := setup(t)

	if err := env.run("apply", "1+1+1:", "-m", "DP-1", "--dry-run"); err != nil {
		t.Fatalf("apply error: %v", err)
	}
	if len(env.calls()) != 0 {
		t.Errorf("dry run changed monitors: %v", env.calls())
	}
	if !strings.Contains(env.out.String(), "DP-1-XRPEX-1280-0") {
		t.Errorf("output should list planned monitors:\n%s", env.out.String())
	}
}

func TestEvalMonitorAfterSplit(t *testing.T) {
	env := setup(t)

	if err := env.run("eval", "1+1:", "-m", "DP-1", "-f", "json"); err != nil {
		t.Fatalf("eval error: %v", err)
	}
	l, err := layout.Unmarshal(env.out.Bytes(), layout.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if got := joinDims(l.Rectangle); got != "1920x1080" {
		t.Errorf("Rectangle = %s, want 1920x1080", got)
	}
}

func TestResetShowsParentAgain(t *testing.T) {
	env := setup(t)

	if err := env.run("reset", "-m", "DP-1"); err != nil {
		t.Fatalf("reset error: %v", err)
	}
	if got := env.display.Listing(); !strings.Contains(got, "+*DP-1 1920/0x1080/0+0+0") {
		t.Errorf("DP-1 should be listed again after reset:\n%s", got)
	}
}

// =============================================================================
// config
// =============================================================================

func TestConfigInit(t *testing.T) {
	env := setup(t)
	path := filepath.Join(t.TempDir(), "xrpex", "config.toml")

	if err := env.run("config", "init", "--config", path); err != nil {
		t.Fatalf("config init error: %v", err)
	}
	if _, err := config.ReadFile(path); err != nil {
		t.Fatalf("written config does not load: %v", err)
	}

	env.out.Reset()
	if err := env.run("config", "init", "--config", path); err != nil {
		t.Fatalf("second config init error: %v", err)
	}
	if !strings.Contains(env.out.String(), "already exists") {
		t.Errorf("second init should warn:\n%s", env.out.String())
	}
}

func TestConfigShow(t *testing.T) {
	env := setup(t)
	t.Setenv(config.MonitorEnv, "DP-1")

	if err := env.run("config", "show"); err != nil {
		t.Fatalf("config show error: %v", err)
	}
	out := env.out.String()
	if !strings.Contains(out, "DP-1") || !strings.Contains(out, config.MonitorEnv) {
		t.Errorf("config show should report the env override:\n%s", out)
	}
}

func TestInvalidConfig(t *testing.T) {
	env := setup(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("bogus = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	wantCode(t, env.run("monitors", "--config", path), errors.ErrCodeInvalidConfig)
}

func TestPrintError(t *testing.T) {
	env := setup(t)

	PrintError(errors.New(errors.ErrCodeInvalidMonitor, "no monitor given"))
	out := env.errOut.String()
	if !strings.Contains(out, "no monitor given") || !strings.Contains(out, "[INVALID_MONITOR]") {
		t.Errorf("PrintError() = %q", out)
	}
}
