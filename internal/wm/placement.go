package wm

import (
	"github.com/bnema/waydock/internal/display"
	"github.com/bnema/waydock/internal/logger"
	"github.com/bnema/waydock/internal/toolkit"
)

// Placement defaults, in layout pixels.
const (
	FloatingX      = 560
	FloatingY      = 240
	FloatingWidth  = 800
	FloatingHeight = 600

	// Docked windows keep rendering at this size so thumbnails stay useful.
	DockedWidth  = 1280
	DockedHeight = 720

	fallbackWidth  = 1920
	fallbackHeight = 1080
)

// outputBox is the combined output bounding box, with a fallback size
// while no output is present.
func (s *Server) outputBox() toolkit.Box {
	box := s.layout.Box()
	if box.Width <= 0 {
		box.Width = fallbackWidth
	}
	if box.Height <= 0 {
		box.Height = fallbackHeight
	}
	return box
}

// dock parks w off-screen on side. Docking a window already on that side is
// a no-op.
func (s *Server) dock(w *Window, side display.Edge) bool {
	if side != display.EdgeLeft && side != display.EdgeRight {
		return false
	}
	if w.docked == side {
		return false
	}
	if s.grab.window == w {
		s.resetGrab()
	}

	box := s.outputBox()
	w.docked = side
	w.toplevel.SetSize(DockedWidth, DockedHeight)
	// One pixel stays on screen so the client keeps receiving frame events.
	w.tree.SetPosition(box.X+box.Width-1, box.Y+box.Height-1)
	w.tree.LowerToBottom()
	s.unfocus(w)
	w.toplevel.SetActivated(false)
	w.toplevel.ScheduleConfigure()

	logger.Debugf("Docked window %s on the %s", w.handle, side)
	return true
}

// undock brings a docked window back to its maximized or floating place.
func (s *Server) undock(w *Window) bool {
	if w.docked == display.EdgeNone {
		return false
	}
	w.docked = display.EdgeNone
	if err := s.thumbs.Remove(w.handle.String()); err != nil {
		logger.Debugf("Failed to remove thumbnail for %s: %v", w.handle, err)
	}

	if w.maximized {
		box := s.outputBox()
		w.toplevel.SetSize(box.Width, box.Height)
		w.tree.SetPosition(box.X, box.Y)
	} else {
		w.toplevel.SetSize(FloatingWidth, FloatingHeight)
		w.tree.SetPosition(FloatingX, FloatingY)
	}
	w.tree.RaiseToTop()
	s.focus(w)
	w.toplevel.ScheduleConfigure()

	logger.Debugf("Undocked window %s", w.handle)
	return true
}

// maximize fills the output with w, remembering where it was.
func (s *Server) maximize(w *Window) bool {
	if !w.toplevel.Initialized() || w.maximized {
		return false
	}
	if w.docked != display.EdgeNone {
		s.undock(w)
	}

	x, y := w.tree.Position()
	geo := w.toplevel.Geometry()
	w.beforeMaximize = savedGeometry{x: x, y: y, width: geo.Width, height: geo.Height}
	if w.beforeMaximize.width <= 0 {
		w.beforeMaximize.width = FloatingWidth
	}
	if w.beforeMaximize.height <= 0 {
		w.beforeMaximize.height = FloatingHeight
	}

	box := s.outputBox()
	w.toplevel.SetSize(box.Width, box.Height)
	w.tree.SetPosition(box.X, box.Y)
	w.toplevel.SetMaximized(true)
	w.maximized = true

	w.tree.RaiseToTop()
	s.focus(w)
	w.toplevel.ScheduleConfigure()
	return true
}

// restore undoes maximize.
func (s *Server) restore(w *Window) bool {
	if !w.toplevel.Initialized() || !w.maximized {
		return false
	}

	w.toplevel.SetMaximized(false)
	w.maximized = false

	// A docked window stays parked; undocking will float it.
	if w.docked == display.EdgeNone {
		saved := w.beforeMaximize
		w.toplevel.SetSize(saved.width, saved.height)
		w.tree.SetPosition(saved.x, saved.y)
		w.tree.RaiseToTop()
		s.focus(w)
	}
	w.toplevel.ScheduleConfigure()
	return true
}

// setFullscreen enters or leaves fullscreen. Stacking and focus are left
// alone.
func (s *Server) setFullscreen(w *Window, on bool) bool {
	if !w.toplevel.Initialized() || w.fullscreen == on {
		return false
	}

	if on {
		x, y := w.tree.Position()
		geo := w.toplevel.Geometry()
		w.beforeFullscreen = savedGeometry{x: x, y: y, width: geo.Width, height: geo.Height}

		box := s.outputBox()
		w.toplevel.SetSize(box.Width, box.Height)
		w.tree.SetPosition(box.X, box.Y)
	} else {
		saved := w.beforeFullscreen
		width, height := saved.width, saved.height
		if width <= 0 {
			width = FloatingWidth
		}
		if height <= 0 {
			height = FloatingHeight
		}
		w.toplevel.SetSize(width, height)
		w.tree.SetPosition(saved.x, saved.y)
	}

	w.toplevel.SetFullscreen(on)
	w.fullscreen = on
	w.toplevel.ScheduleConfigure()
	return true
}

// fitsOutput reports whether w should track the output size.
func (w *Window) fitsOutput() bool {
	return w.IsShell() || w.maximized || w.fullscreen
}

// applyLayout resizes the shell, maximized and fullscreen windows to the
// current output box and moves docked windows to the new corner.
func (s *Server) applyLayout() {
	box := s.outputBox()
	for _, w := range s.stack {
		if w.docked != display.EdgeNone {
			w.tree.SetPosition(box.X+box.Width-1, box.Y+box.Height-1)
			continue
		}
		if !w.fitsOutput() {
			continue
		}
		w.toplevel.SetSize(box.Width, box.Height)
		w.tree.SetPosition(box.X, box.Y)
		w.toplevel.ScheduleConfigure()
	}
}
