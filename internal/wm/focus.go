package wm

import (
	"github.com/bnema/waydock/internal/display"
	"github.com/bnema/waydock/internal/logger"
)

// focus gives w the keyboard, raises it and moves it to the head of the
// stacking list. Docked windows never take focus.
func (s *Server) focus(w *Window) {
	if w == nil || !w.mapped || w.docked != display.EdgeNone {
		return
	}
	if s.focused == w {
		return
	}

	if prev := s.focused; prev != nil {
		prev.toplevel.SetActivated(false)
	}

	w.tree.RaiseToTop()
	s.promote(w)
	w.toplevel.SetActivated(true)
	s.focused = w

	if kb, ok := s.seat.Keyboard(); ok {
		s.seat.NotifyKeyboardEnter(w.toplevel.Surface(), kb.PressedKeycodes(), kb.Modifiers())
	}
	logger.Debugf("Focused window %s (%s)", w.handle, w.AppID())
}

// unfocus drops keyboard focus if w holds it.
func (s *Server) unfocus(w *Window) {
	if s.focused != w {
		return
	}
	w.toplevel.SetActivated(false)
	s.focused = nil
	s.seat.ClearKeyboardFocus()
}

// cycleFocus brings the least recently focused floating window forward.
func (s *Server) cycleFocus() {
	if len(s.stack) < 2 {
		return
	}
	for i := len(s.stack) - 1; i >= 0; i-- {
		if w := s.stack[i]; w.docked == display.EdgeNone {
			s.focus(w)
			return
		}
	}
}
