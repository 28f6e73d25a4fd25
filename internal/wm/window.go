package wm

import (
	"slices"
	"strings"

	"github.com/bnema/waydock/internal/display"
	"github.com/bnema/waydock/internal/toolkit"
)

// ShellAppID marks the desktop shell: any app id containing it is treated
// as the full-output background window.
const ShellAppID = "workspace"

// savedGeometry is a position and size to come back to.
type savedGeometry struct {
	x, y          int
	width, height int
}

// Window is a managed toplevel.
type Window struct {
	handle   Handle
	toplevel toolkit.Toplevel
	tree     toolkit.SceneTree

	mapped     bool
	docked     display.Edge
	maximized  bool
	fullscreen bool

	beforeMaximize   savedGeometry
	beforeFullscreen savedGeometry
}

func (w *Window) Handle() Handle { return w.handle }

func (w *Window) AppID() string { return w.toplevel.AppID() }

func (w *Window) Title() string { return w.toplevel.Title() }

// Docked returns the dock side, EdgeNone when floating.
func (w *Window) Docked() display.Edge { return w.docked }

func (w *Window) Maximized() bool { return w.maximized }

func (w *Window) Fullscreen() bool { return w.fullscreen }

func (w *Window) Mapped() bool { return w.mapped }

// Position returns the scene position of the window.
func (w *Window) Position() (int, int) { return w.tree.Position() }

// IsShell reports whether the window is the desktop shell.
func (w *Window) IsShell() bool {
	return strings.Contains(w.toplevel.AppID(), ShellAppID)
}

// promote moves w to the head of the stacking list.
func (s *Server) promote(w *Window) {
	s.stack = slices.DeleteFunc(s.stack, func(o *Window) bool { return o == w })
	s.stack = slices.Insert(s.stack, 0, w)
}

func (s *Server) unlink(w *Window) {
	s.stack = slices.DeleteFunc(s.stack, func(o *Window) bool { return o == w })
}

// lookup finds the window record for a toplevel.
func (s *Server) lookup(tl toolkit.Toplevel) *Window {
	if tl == nil {
		return nil
	}
	h, ok := s.byToplevel[tl]
	if !ok {
		return nil
	}
	w, _ := s.windows.get(h)
	return w
}

// Window resolves a handle to a live, mapped window.
func (s *Server) Window(h Handle) (*Window, bool) {
	w, ok := s.windows.get(h)
	if !ok || !w.mapped {
		return nil, false
	}
	return w, true
}

// Windows returns the mapped windows, most recently focused first.
func (s *Server) Windows() []*Window {
	return slices.Clone(s.stack)
}

// Focused returns the window holding keyboard focus, or nil.
func (s *Server) Focused() *Window { return s.focused }
