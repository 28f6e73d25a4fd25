package headless

import (
	"slices"

	"github.com/bnema/waydock/internal/toolkit"
)

// Device is a virtual input device.
type Device struct {
	name     string
	typ      toolkit.InputDeviceType
	keyboard *Keyboard
}

// NewKeyboardDevice creates a keyboard device with the default key table.
func NewKeyboardDevice(name string) *Device {
	d := &Device{name: name, typ: toolkit.InputDeviceKeyboard}
	d.keyboard = &Keyboard{
		device: d,
		keysyms: map[uint32][]toolkit.Keysym{
			1:  {toolkit.KeysymEscape},
			59: {toolkit.KeysymF1},
		},
	}
	return d
}

// NewPointerDevice creates a pointer device.
func NewPointerDevice(name string) *Device {
	return &Device{name: name, typ: toolkit.InputDevicePointer}
}

func (d *Device) Name() string                  { return d.name }
func (d *Device) Type() toolkit.InputDeviceType { return d.typ }

func (d *Device) Keyboard() (toolkit.Keyboard, bool) {
	if d.keyboard == nil {
		return nil, false
	}
	return d.keyboard, true
}

// HeadlessKeyboard returns the concrete keyboard, or nil for pointers.
func (d *Device) HeadlessKeyboard() *Keyboard { return d.keyboard }

// Keyboard is a virtual keyboard with a fixed keycode to keysym table.
type Keyboard struct {
	device  *Device
	keysyms map[uint32][]toolkit.Keysym
	mods    toolkit.Modifiers
	pressed []uint32

	keymapSet   bool
	repeatRate  int32
	repeatDelay int32
}

func (k *Keyboard) Device() toolkit.InputDevice { return k.device }

func (k *Keyboard) SetDefaultKeymap() error {
	k.keymapSet = true
	return nil
}

func (k *Keyboard) SetRepeatInfo(rate, delay int32) {
	k.repeatRate = rate
	k.repeatDelay = delay
}

func (k *Keyboard) Keysyms(keycode uint32) []toolkit.Keysym {
	return k.keysyms[keycode]
}

func (k *Keyboard) Modifiers() toolkit.Modifiers { return k.mods }

func (k *Keyboard) PressedKeycodes() []uint32 {
	return append([]uint32(nil), k.pressed...)
}

// KeymapSet reports whether SetDefaultKeymap was called.
func (k *Keyboard) KeymapSet() bool { return k.keymapSet }

// RepeatInfo returns the last repeat settings.
func (k *Keyboard) RepeatInfo() (rate, delay int32) { return k.repeatRate, k.repeatDelay }

// Bind maps keycode to keysyms.
func (k *Keyboard) Bind(keycode uint32, syms ...toolkit.Keysym) {
	k.keysyms[keycode] = syms
}

// SetModifiers changes the modifier state and returns the matching event.
func (k *Keyboard) SetModifiers(mods toolkit.Modifiers) toolkit.KeyboardModifiers {
	k.mods = mods
	return toolkit.KeyboardModifiers{Keyboard: k}
}

// Press marks keycode as held and returns the key event.
func (k *Keyboard) Press(keycode uint32) toolkit.KeyboardKey {
	if !slices.Contains(k.pressed, keycode) {
		k.pressed = append(k.pressed, keycode)
	}
	return toolkit.KeyboardKey{Keyboard: k, Keycode: keycode, State: toolkit.KeyPressed}
}

// Release clears keycode and returns the key event.
func (k *Keyboard) Release(keycode uint32) toolkit.KeyboardKey {
	k.pressed = slices.DeleteFunc(k.pressed, func(c uint32) bool { return c == keycode })
	return toolkit.KeyboardKey{Keyboard: k, Keycode: keycode, State: toolkit.KeyReleased}
}
