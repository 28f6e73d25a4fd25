package wm

import (
	"slices"

	"github.com/bnema/waydock/internal/logger"
	"github.com/bnema/waydock/internal/toolkit"
)

const (
	keyRepeatRate  = 25
	keyRepeatDelay = 600
)

func (s *Server) handleNewInput(ev toolkit.NewInput) {
	dev := ev.Device
	if dev == nil {
		return
	}

	switch dev.Type() {
	case toolkit.InputDeviceKeyboard:
		kb, ok := dev.Keyboard()
		if !ok {
			logger.Warnf("Keyboard device %s has no keyboard state", dev.Name())
			break
		}
		if err := kb.SetDefaultKeymap(); err != nil {
			logger.Errorf("Failed to set keymap for %s: %v", dev.Name(), err)
			break
		}
		kb.SetRepeatInfo(keyRepeatRate, keyRepeatDelay)
		s.seat.SetKeyboard(kb)
		s.keyboards = append(s.keyboards, kb)
		logger.Infof("Added keyboard %s", dev.Name())
	case toolkit.InputDevicePointer:
		s.cursor.AttachInputDevice(dev)
		logger.Infof("Added pointer %s", dev.Name())
	default:
		logger.Debugf("Ignoring %s device %s", dev.Type(), dev.Name())
	}

	s.updateCapabilities()
}

func (s *Server) handleInputDestroy(ev toolkit.InputDestroy) {
	if ev.Device == nil || ev.Device.Type() != toolkit.InputDeviceKeyboard {
		return
	}
	kb, ok := ev.Device.Keyboard()
	if !ok {
		return
	}
	s.keyboards = slices.DeleteFunc(s.keyboards, func(k toolkit.Keyboard) bool { return k == kb })
	logger.Infof("Removed keyboard %s", ev.Device.Name())

	// The seat must not keep a keyboard whose device is gone.
	if current, ok := s.seat.Keyboard(); ok && current == kb {
		if n := len(s.keyboards); n > 0 {
			s.seat.SetKeyboard(s.keyboards[n-1])
		} else {
			s.seat.SetKeyboard(nil)
		}
	}
	s.updateCapabilities()
}

// updateCapabilities advertises a pointer always and a keyboard while one
// is attached.
func (s *Server) updateCapabilities() {
	caps := toolkit.CapPointer
	if len(s.keyboards) > 0 {
		caps |= toolkit.CapKeyboard
	}
	s.seat.SetCapabilities(caps)
}

func (s *Server) handleModifiers(ev toolkit.KeyboardModifiers) {
	s.seat.SetKeyboard(ev.Keyboard)
	s.seat.NotifyKeyboardModifiers(ev.Keyboard.Modifiers())
}

func (s *Server) handleKey(ev toolkit.KeyboardKey) {
	kb := ev.Keyboard
	handled := false

	if kb.Modifiers()&toolkit.ModAlt != 0 && ev.State == toolkit.KeyPressed {
		for _, sym := range kb.Keysyms(ev.Keycode) {
			if s.handleKeybinding(sym) {
				handled = true
			}
		}
	}

	if !handled {
		s.seat.SetKeyboard(kb)
		s.seat.NotifyKeyboardKey(ev.TimeMsec, ev.Keycode, ev.State)
	}
}

// handleKeybinding runs compositor shortcuts. These are Alt+key.
func (s *Server) handleKeybinding(sym toolkit.Keysym) bool {
	switch sym {
	case toolkit.KeysymEscape:
		s.Terminate()
	case toolkit.KeysymF1:
		s.cycleFocus()
	default:
		return false
	}
	return true
}
