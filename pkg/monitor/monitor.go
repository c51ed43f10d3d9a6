// Package monitor splits physical displays into virtual monitors.
//
// A [Manager] lists the connected displays and realizes a solved ratio
// expression as a set of virtual monitors layered over a parent display.
// Virtual monitors created by this package are named
//
//	{parent}-XRPEX-{x}-{y}
//
// where x and y are the pixel offsets of the partition inside the parent,
// so [Manager.Reset] can find and remove them again.
//
// [Xrandr] is the only implementation. It shells out to the xrandr
// command through an [Executor]; package monitortest provides an
// in-memory display to put behind it in tests.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xrpex/xrpex/pkg/rpex"
)

// NameInfix separates the parent name from the partition offsets in the
// names of managed virtual monitors.
const NameInfix = "-XRPEX"

// ErrNoMonitor is returned when the requested parent monitor is not connected.
var ErrNoMonitor = errors.New("monitor not found")

// Monitor is a display known to the X server.
type Monitor struct {
	// Name is the output name, e.g. "DP-1".
	Name string

	// Resolution is the size in pixels.
	Resolution rpex.HyperRectangle

	// Origin is the top-left corner in the X screen.
	Origin [2]uint32

	// Primary is set for the primary monitor.
	Primary bool

	// Virtual is set for monitors that are not backed by a single output,
	// including the ones this package creates.
	Virtual bool

	// Hidden is set for an output that the X server stopped listing once
	// virtual monitors were layered over it. Its geometry is the bounding
	// box of those virtual monitors.
	Hidden bool
}

// Managed reports whether m is a virtual monitor created for parent.
func (m Monitor) Managed(parent string) bool {
	return strings.HasPrefix(m.Name, parent+NameInfix)
}

// ParentName returns the parent of a managed virtual monitor name.
func ParentName(name string) (string, bool) {
	i := strings.LastIndex(name, NameInfix+"-")
	if i <= 0 {
		return "", false
	}
	return name[:i], true
}

// RestoreParents appends a Hidden entry for every parent that has managed
// virtual monitors but is missing from monitors. X RandR drops an output's
// automatic monitor from the listing while other monitors claim it, so a
// split display would otherwise vanish until it is reset.
func RestoreParents(monitors []Monitor) []Monitor {
	listed := make(map[string]bool, len(monitors))
	for _, m := range monitors {
		listed[m.Name] = true
	}

	var order []string
	boxes := make(map[string]*box)
	for _, m := range monitors {
		if !m.Virtual || m.Resolution.Dims() != 2 {
			continue
		}
		parent, ok := ParentName(m.Name)
		if !ok || listed[parent] {
			continue
		}
		b, seen := boxes[parent]
		if !seen {
			b = newBox(m)
			boxes[parent] = b
			order = append(order, parent)
			continue
		}
		b.extend(m)
	}

	for _, parent := range order {
		b := boxes[parent]
		res, err := rpex.NewHyperRectangle(b.maxX-b.minX, b.maxY-b.minY)
		if err != nil {
			continue
		}
		monitors = append(monitors, Monitor{
			Name:       parent,
			Resolution: res,
			Origin:     [2]uint32{b.minX, b.minY},
			Hidden:     true,
		})
	}
	return monitors
}

type box struct {
	minX, minY, maxX, maxY uint32
}

func newBox(m Monitor) *box {
	return &box{
		minX: m.Origin[0],
		minY: m.Origin[1],
		maxX: m.Origin[0] + m.Resolution.Length(0),
		maxY: m.Origin[1] + m.Resolution.Length(1),
	}
}

func (b *box) extend(m Monitor) {
	o := newBox(m)
	b.minX, b.minY = min(b.minX, o.minX), min(b.minY, o.minY)
	b.maxX, b.maxY = max(b.maxX, o.maxX), max(b.maxY, o.maxY)
}

// Manager creates and removes virtual monitors.
type Manager interface {
	// Monitors lists every monitor, physical and virtual. Outputs hidden
	// by a split are included with Hidden set.
	Monitors(ctx context.Context) ([]Monitor, error)

	// Reset deletes every virtual monitor created for parent.
	// It is a no-op when there are none.
	Reset(ctx context.Context, parent string) error

	// Apply splits parent according to ratio, replacing any earlier split,
	// and returns the parent as it was found after the reset.
	Apply(ctx context.Context, parent string, ratio rpex.IndeterminateSumsInRatio) (Monitor, error)
}

// Find returns the monitor called name, or ErrNoMonitor.
func Find(monitors []Monitor, name string) (Monitor, error) {
	for _, m := range monitors {
		if m.Name == name {
			return m, nil
		}
	}
	return Monitor{}, fmt.Errorf("%w: %s", ErrNoMonitor, name)
}

// VirtualName returns the name of the virtual monitor at the given pixel
// offset inside parent.
func VirtualName(parent string, x, y uint32) string {
	return parent + NameInfix + "-" + strconv.FormatUint(uint64(x), 10) + "-" + strconv.FormatUint(uint64(y), 10)
}

// Geometry formats a partition for xrandr --setmonitor. Physical sizes are
// unknown for virtual monitors, so the millimetre fields are 0 and 1.
func Geometry(width, height, x, y uint32) string {
	return fmt.Sprintf("%d/0x%d/1+%d+%d", width, height, x, y)
}
