package wm

import (
	"github.com/bnema/waydock/internal/display"
	"github.com/bnema/waydock/internal/logger"
	"github.com/bnema/waydock/internal/toolkit"
)

func (s *Server) handleNewToplevel(ev toolkit.NewToplevel) {
	tl := ev.Toplevel
	if tl == nil {
		return
	}
	if _, exists := s.byToplevel[tl]; exists {
		return
	}

	tree := s.scene.CreateSurfaceTree(nil, tl)
	tl.SetData(tree)

	w := &Window{toplevel: tl, tree: tree}
	w.handle = s.windows.insert(w)
	s.byToplevel[tl] = w.handle
	logger.Debugf("New toplevel %s (%s)", w.handle, tl.AppID())
}

func (s *Server) handleNewPopup(ev toolkit.NewPopup) {
	popup := ev.Popup
	if popup == nil || popup.Parent() == nil {
		return
	}
	parent, ok := popup.Parent().Data().(toolkit.SceneTree)
	if !ok {
		logger.Warn("Popup parent has no scene tree, ignoring popup")
		return
	}
	popup.SetData(s.scene.CreateSurfaceTree(parent, popup))
}

func (s *Server) handlePopupCommit(ev toolkit.PopupCommit) {
	if ev.Popup.InitialCommit() {
		ev.Popup.ScheduleConfigure()
	}
}

func (s *Server) handlePopupDestroy(toolkit.PopupDestroy) {}

func (s *Server) handleMap(ev toolkit.ToplevelMap) {
	w := s.lookup(ev.Toplevel)
	if w == nil || w.mapped {
		return
	}

	w.mapped = true
	w.docked = display.EdgeNone
	s.stack = append([]*Window{w}, s.stack...)

	if w.IsShell() {
		box := s.outputBox()
		w.toplevel.SetSize(box.Width, box.Height)
		w.tree.SetPosition(box.X, box.Y)
		s.focus(w)
		return
	}

	w.toplevel.SetSize(FloatingWidth, FloatingHeight)
	w.tree.SetPosition(FloatingX, FloatingY)
	s.focus(w)
	s.exportState()
}

func (s *Server) handleUnmap(ev toolkit.ToplevelUnmap) {
	w := s.lookup(ev.Toplevel)
	if w == nil || !w.mapped {
		return
	}
	s.forget(w)
	s.exportState()
}

// forget drops every reference the session holds to a mapped window.
func (s *Server) forget(w *Window) {
	if s.grab.window == w {
		s.resetGrab()
	}
	if w.docked != display.EdgeNone {
		if err := s.thumbs.Remove(w.handle.String()); err != nil {
			logger.Debugf("Failed to remove thumbnail for %s: %v", w.handle, err)
		}
	}
	if s.focused == w {
		s.focused = nil
		s.seat.ClearKeyboardFocus()
	}
	s.unlink(w)
	w.mapped = false
}

func (s *Server) handleCommit(ev toolkit.ToplevelCommit) {
	w := s.lookup(ev.Toplevel)
	if w == nil {
		return
	}
	if w.toplevel.InitialCommit() {
		// Let the client pick its own size.
		w.toplevel.SetSize(0, 0)
		return
	}
	if w.docked != display.EdgeNone {
		s.captureThumbnail(w)
	}
}

func (s *Server) handleToplevelDestroy(ev toolkit.ToplevelDestroy) {
	w := s.lookup(ev.Toplevel)
	if w == nil {
		return
	}
	if w.mapped {
		s.forget(w)
		s.exportState()
	}
	delete(s.byToplevel, w.toplevel)
	s.windows.remove(w.handle)
	logger.Debugf("Destroyed toplevel %s", w.handle)
}

// captureThumbnail copies the current buffer of a docked window to its
// thumbnail file. Buffers without CPU access are skipped.
func (s *Server) captureThumbnail(w *Window) {
	buf, ok := w.toplevel.Buffer()
	if !ok {
		return
	}
	px, err := buf.BeginDataAccess()
	if err != nil {
		return
	}
	defer buf.EndDataAccess()

	if err := s.thumbs.Write(w.handle.String(), px.Data, buf.Width(), buf.Height(), px.Stride); err != nil {
		logger.Debugf("Failed to write thumbnail for %s: %v", w.handle, err)
	}
}

func (s *Server) handleRequestMove(ev toolkit.RequestMove) {
	if w := s.interactiveTarget(ev.Toplevel); w != nil {
		s.beginInteractive(w, CursorMove, toolkit.EdgeNone)
	}
}

func (s *Server) handleRequestResize(ev toolkit.RequestResize) {
	if w := s.interactiveTarget(ev.Toplevel); w != nil {
		s.beginInteractive(w, CursorResize, ev.Edges)
	}
}

// interactiveTarget returns the window a move or resize request may act
// on. The shell and docked windows stay where they are.
func (s *Server) interactiveTarget(tl toolkit.Toplevel) *Window {
	w := s.lookup(tl)
	if w == nil || !w.mapped || w.IsShell() || w.docked != display.EdgeNone {
		return nil
	}
	return w
}

func (s *Server) handleRequestMaximize(ev toolkit.RequestMaximize) {
	w := s.lookup(ev.Toplevel)
	if w == nil || !w.toplevel.Initialized() {
		return
	}

	var changed bool
	if w.toplevel.Requested().Maximized {
		changed = s.maximize(w)
	} else {
		changed = s.restore(w)
	}
	if changed {
		s.exportState()
	}
}

func (s *Server) handleRequestFullscreen(ev toolkit.RequestFullscreen) {
	w := s.lookup(ev.Toplevel)
	if w == nil {
		return
	}
	s.setFullscreen(w, w.toplevel.Requested().Fullscreen)
}
