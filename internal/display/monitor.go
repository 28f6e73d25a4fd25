// Package display tracks the output layout: where each monitor sits in the
// shared layout space and the bounding box they form together.
package display

import (
	"slices"

	"github.com/bnema/waydock/internal/logger"
	"github.com/bnema/waydock/internal/toolkit"
)

// Monitor represents a physical display
type Monitor struct {
	ID      string
	Name    string
	X       int // Position in layout coordinate space
	Y       int
	Width   int
	Height  int
	Primary bool
	Scale   float64
}

// Bounds returns the monitor's boundaries
func (m *Monitor) Bounds() (x1, y1, x2, y2 int) {
	return m.X, m.Y, m.X + m.Width, m.Y + m.Height
}

// Contains checks if a point is within this monitor
func (m *Monitor) Contains(x, y int) bool {
	return x >= m.X && x < m.X+m.Width && y >= m.Y && y < m.Y+m.Height
}

// Box returns the monitor's rectangle.
func (m *Monitor) Box() toolkit.Box {
	return toolkit.Box{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height}
}

// Layout arranges monitors left to right in the order they were added,
// top-aligned at y=0, the way automatic output placement does.
type Layout struct {
	monitors []*Monitor
	box      toolkit.Box
}

// NewLayout returns an empty layout.
func NewLayout() *Layout {
	return &Layout{}
}

// AddAuto appends a monitor to the right of the existing ones. It reports
// whether the combined bounding box changed.
func (l *Layout) AddAuto(name string, width, height int, scale float64) (*Monitor, bool) {
	if m := l.GetMonitor(name); m != nil {
		return m, l.Resize(name, width, height)
	}
	if scale <= 0 {
		scale = 1
	}
	m := &Monitor{
		ID:     name,
		Name:   name,
		Width:  width,
		Height: height,
		Scale:  scale,
	}
	l.monitors = append(l.monitors, m)
	return m, l.arrange()
}

// Resize changes a monitor's size, e.g. after a mode change.
func (l *Layout) Resize(name string, width, height int) bool {
	m := l.GetMonitor(name)
	if m == nil || (m.Width == width && m.Height == height) {
		return false
	}
	m.Width, m.Height = width, height
	return l.arrange()
}

// Remove drops a monitor and closes the gap it leaves.
func (l *Layout) Remove(name string) bool {
	n := len(l.monitors)
	l.monitors = slices.DeleteFunc(l.monitors, func(m *Monitor) bool { return m.Name == name })
	if len(l.monitors) == n {
		return false
	}
	return l.arrange()
}

// arrange packs monitors and recomputes the bounding box.
func (l *Layout) arrange() bool {
	x := 0
	var box toolkit.Box
	for _, m := range l.monitors {
		m.X, m.Y = x, 0
		x += m.Width
		box = box.Union(m.Box())
	}
	determinePrimaryMonitor(l.monitors)

	changed := box != l.box
	if changed {
		logger.Debug("Output layout changed", "from", l.box, "to", box, "monitors", len(l.monitors))
	}
	l.box = box
	return changed
}

// Box returns the combined bounding box of all monitors; it is empty when
// no monitor is connected.
func (l *Layout) Box() toolkit.Box {
	return l.box
}

// GetMonitors returns all monitors in layout order
func (l *Layout) GetMonitors() []*Monitor {
	return l.monitors
}

// GetMonitor returns the monitor with the given name
func (l *Layout) GetMonitor(name string) *Monitor {
	for _, m := range l.monitors {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// GetPrimaryMonitor returns the primary monitor
func (l *Layout) GetPrimaryMonitor() *Monitor {
	for _, m := range l.monitors {
		if m.Primary {
			return m
		}
	}
	// Fallback to first monitor
	if len(l.monitors) > 0 {
		return l.monitors[0]
	}
	return nil
}

// GetMonitorAt returns the monitor containing the given coordinates
func (l *Layout) GetMonitorAt(x, y int) *Monitor {
	for _, m := range l.monitors {
		if m.Contains(x, y) {
			return m
		}
	}
	return nil
}

// Edge represents screen edges
type Edge int

const (
	EdgeNone Edge = iota
	EdgeLeft
	EdgeRight
	EdgeTop
	EdgeBottom
)

func (e Edge) String() string {
	switch e {
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	case EdgeTop:
		return "top"
	case EdgeBottom:
		return "bottom"
	default:
		return "none"
	}
}

// HoverEdge classifies a pointer x coordinate against the left and right
// margins of box. Points strictly inside the margin band count.
func HoverEdge(box toolkit.Box, x float64, margin int) Edge {
	if x < float64(box.X+margin) {
		return EdgeLeft
	}
	if x > float64(box.X+box.Width-margin) {
		return EdgeRight
	}
	return EdgeNone
}

// determinePrimaryMonitor sets the primary monitor based on position
// The monitor at position (0,0) is considered primary, with fallback to first monitor
func determinePrimaryMonitor(monitors []*Monitor) {
	for _, monitor := range monitors {
		monitor.Primary = false
	}

	for _, monitor := range monitors {
		if monitor.X == 0 && monitor.Y == 0 {
			monitor.Primary = true
			return
		}
	}

	if len(monitors) > 0 {
		monitors[0].Primary = true
	}
}
