package wm

import (
	"github.com/bnema/waydock/internal/display"
	"github.com/bnema/waydock/internal/logger"
	"github.com/bnema/waydock/internal/toolkit"
)

// HoverMargin is the width of the screen band that arms a dock while a
// window is dragged.
const HoverMargin = 40

// Mode returns the current pointer interaction state.
func (s *Server) Mode() CursorMode { return s.grab.mode }

// Hover returns the edge the dragged window is armed to dock on.
func (s *Server) Hover() display.Edge { return s.hover }

func (s *Server) handlePointerMotion(ev toolkit.PointerMotion) {
	s.cursor.Move(ev.Device, ev.DX, ev.DY)
	s.processMotion(ev.TimeMsec)
}

func (s *Server) handlePointerMotionAbsolute(ev toolkit.PointerMotionAbsolute) {
	s.cursor.WarpAbsolute(ev.Device, ev.X, ev.Y)
	s.processMotion(ev.TimeMsec)
}

func (s *Server) handlePointerButton(ev toolkit.PointerButton) {
	s.seat.NotifyPointerButton(ev.TimeMsec, ev.Button, ev.State)

	if ev.State == toolkit.ButtonReleased {
		if s.grab.mode == CursorMove && s.grab.window != nil {
			s.endMove()
			return
		}
		s.resetGrab()
		return
	}

	if w := s.windowAtCursor(); w != nil {
		s.focus(w)
	}
}

func (s *Server) handlePointerAxis(ev toolkit.PointerAxis) {
	s.seat.NotifyPointerAxis(ev.TimeMsec, ev.Orientation, ev.Delta, ev.DeltaDiscrete, ev.Source)
}

func (s *Server) handlePointerFrame(toolkit.PointerFrame) {
	s.seat.NotifyPointerFrame()
}

// handleRequestSetCursor honours cursor images only from the client that
// has pointer focus.
func (s *Server) handleRequestSetCursor(ev toolkit.RequestSetCursor) {
	focused := s.seat.PointerFocusClient()
	if focused == nil || focused != ev.Client {
		return
	}
	s.cursor.SetSurface(ev.Surface, ev.HotspotX, ev.HotspotY)
}

func (s *Server) handleRequestSetSelection(ev toolkit.RequestSetSelection) {
	s.seat.SetSelection(ev.Source, ev.Serial)
}

func (s *Server) windowAtCursor() *Window {
	hit, ok := s.scene.SurfaceAt(s.cursor.X(), s.cursor.Y())
	if !ok {
		return nil
	}
	return s.lookup(hit.Toplevel)
}

func (s *Server) processMotion(timeMsec uint32) {
	switch s.grab.mode {
	case CursorMove:
		s.processMove()
		return
	case CursorResize:
		s.processResize()
		return
	}

	hit, ok := s.scene.SurfaceAt(s.cursor.X(), s.cursor.Y())
	if !ok || hit.Toplevel == nil {
		s.cursor.SetXCursor("default")
	}
	if ok && hit.Surface != nil {
		s.seat.NotifyPointerEnter(hit.Surface, hit.SX, hit.SY)
		s.seat.NotifyPointerMotion(timeMsec, hit.SX, hit.SY)
		return
	}
	s.seat.ClearPointerFocus()
}

func (s *Server) processMove() {
	w := s.grab.window
	w.tree.SetPosition(int(s.cursor.X()-s.grab.x), int(s.cursor.Y()-s.grab.y))

	edge := display.HoverEdge(s.outputBox(), s.cursor.X(), HoverMargin)
	if edge != s.hover {
		s.hover = edge
		s.exportState()
	}
}

func (s *Server) processResize() {
	w := s.grab.window
	borderX := s.cursor.X() - s.grab.x
	borderY := s.cursor.Y() - s.grab.y

	left := s.grab.box.X
	right := s.grab.box.X + s.grab.box.Width
	top := s.grab.box.Y
	bottom := s.grab.box.Y + s.grab.box.Height

	edges := s.grab.edges
	if edges.Has(toolkit.EdgeTop) {
		top = int(borderY)
		if top >= bottom {
			top = bottom - 1
		}
	} else if edges.Has(toolkit.EdgeBottom) {
		bottom = int(borderY)
		if bottom <= top {
			bottom = top + 1
		}
	}
	if edges.Has(toolkit.EdgeLeft) {
		left = int(borderX)
		if left >= right {
			left = right - 1
		}
	} else if edges.Has(toolkit.EdgeRight) {
		right = int(borderX)
		if right <= left {
			right = left + 1
		}
	}

	geo := w.toplevel.Geometry()
	w.tree.SetPosition(left-geo.X, top-geo.Y)
	w.toplevel.SetSize(right-left, bottom-top)
}

// beginInteractive starts a move or resize of w. A grab already in progress
// is dropped first.
func (s *Server) beginInteractive(w *Window, mode CursorMode, edges toolkit.Edges) {
	if s.grab.window != nil {
		s.resetGrab()
	}

	x, y := w.tree.Position()
	s.grab = grab{mode: mode, window: w}

	switch mode {
	case CursorMove:
		s.grab.x = s.cursor.X() - float64(x)
		s.grab.y = s.cursor.Y() - float64(y)
	case CursorResize:
		geo := w.toplevel.Geometry()
		borderX := x + geo.X
		if edges.Has(toolkit.EdgeRight) {
			borderX += geo.Width
		}
		borderY := y + geo.Y
		if edges.Has(toolkit.EdgeBottom) {
			borderY += geo.Height
		}
		s.grab.x = s.cursor.X() - float64(borderX)
		s.grab.y = s.cursor.Y() - float64(borderY)
		s.grab.box = toolkit.Box{X: geo.X + x, Y: geo.Y + y, Width: geo.Width, Height: geo.Height}
		s.grab.edges = edges
	}
	logger.Debugf("Began %s of window %s", mode, w.handle)
}

// endMove finishes a drag, docking the window if an edge was armed.
func (s *Server) endMove() {
	w, side := s.grab.window, s.hover
	s.grab = grab{}
	s.hover = display.EdgeNone

	switch side {
	case display.EdgeLeft, display.EdgeRight:
		s.dock(w, side)
	}
	s.exportState()
}

// resetGrab returns to passthrough. An armed hover is disarmed and
// exported.
func (s *Server) resetGrab() {
	s.grab = grab{}
	if s.hover != display.EdgeNone {
		s.hover = display.EdgeNone
		s.exportState()
	}
}
