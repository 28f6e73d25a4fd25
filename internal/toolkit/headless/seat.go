package headless

import (
	"github.com/bnema/waydock/internal/toolkit"
)

// KeyNotice is a key event forwarded to the focused client.
type KeyNotice struct {
	Keycode uint32
	State   toolkit.KeyState
}

// ButtonNotice is a button event forwarded to the focused client.
type ButtonNotice struct {
	Button uint32
	State  toolkit.ButtonState
}

// Seat records everything the compositor sends to clients.
type Seat struct {
	caps     toolkit.Capabilities
	keyboard toolkit.Keyboard

	keyboardFocus toolkit.Surface
	enterKeys     []uint32
	enterMods     toolkit.Modifiers
	keys          []KeyNotice
	mods          []toolkit.Modifiers

	pointerFocus toolkit.Surface
	pointerX     float64
	pointerY     float64
	buttons      []ButtonNotice
	axes         int
	frames       int

	selection toolkit.DataSource
}

func NewSeat() *Seat { return &Seat{} }

func (s *Seat) SetCapabilities(caps toolkit.Capabilities) { s.caps = caps }

// SetKeyboard makes keyboard the active one; nil detaches it.
func (s *Seat) SetKeyboard(keyboard toolkit.Keyboard) {
	if kb, ok := keyboard.(*Keyboard); ok && kb == nil {
		keyboard = nil
	}
	s.keyboard = keyboard
}

func (s *Seat) Keyboard() (toolkit.Keyboard, bool) {
	return s.keyboard, s.keyboard != nil
}

func (s *Seat) KeyboardFocus() toolkit.Surface { return s.keyboardFocus }

func (s *Seat) NotifyKeyboardEnter(surface toolkit.Surface, keycodes []uint32, mods toolkit.Modifiers) {
	s.keyboardFocus = surface
	s.enterKeys = append([]uint32(nil), keycodes...)
	s.enterMods = mods
}

func (s *Seat) ClearKeyboardFocus() { s.keyboardFocus = nil }

func (s *Seat) NotifyKeyboardKey(_ uint32, keycode uint32, state toolkit.KeyState) {
	s.keys = append(s.keys, KeyNotice{Keycode: keycode, State: state})
}

func (s *Seat) NotifyKeyboardModifiers(mods toolkit.Modifiers) {
	s.mods = append(s.mods, mods)
}

func (s *Seat) PointerFocusClient() toolkit.Client {
	if s.pointerFocus == nil {
		return nil
	}
	return s.pointerFocus.Client()
}

func (s *Seat) NotifyPointerEnter(surface toolkit.Surface, sx, sy float64) {
	s.pointerFocus = surface
	s.pointerX, s.pointerY = sx, sy
}

func (s *Seat) NotifyPointerMotion(_ uint32, sx, sy float64) {
	s.pointerX, s.pointerY = sx, sy
}

func (s *Seat) ClearPointerFocus() { s.pointerFocus = nil }

func (s *Seat) NotifyPointerButton(_ uint32, button uint32, state toolkit.ButtonState) {
	s.buttons = append(s.buttons, ButtonNotice{Button: button, State: state})
}

func (s *Seat) NotifyPointerAxis(uint32, toolkit.AxisOrientation, float64, int32, toolkit.AxisSource) {
	s.axes++
}

func (s *Seat) NotifyPointerFrame() { s.frames++ }

func (s *Seat) SetSelection(source toolkit.DataSource, _ uint32) { s.selection = source }

// Capabilities returns the advertised capabilities.
func (s *Seat) Capabilities() toolkit.Capabilities { return s.caps }

// EnterState returns the key state sent with the last keyboard enter.
func (s *Seat) EnterState() ([]uint32, toolkit.Modifiers) { return s.enterKeys, s.enterMods }

// Keys returns forwarded key events.
func (s *Seat) Keys() []KeyNotice { return s.keys }

// ModifierUpdates returns forwarded modifier states.
func (s *Seat) ModifierUpdates() []toolkit.Modifiers { return s.mods }

// PointerFocus returns the surface with pointer focus and the last
// surface-local position.
func (s *Seat) PointerFocus() (toolkit.Surface, float64, float64) {
	return s.pointerFocus, s.pointerX, s.pointerY
}

// Buttons returns forwarded button events.
func (s *Seat) Buttons() []ButtonNotice { return s.buttons }

// AxisCount is the number of forwarded axis events.
func (s *Seat) AxisCount() int { return s.axes }

// FrameCount is the number of forwarded pointer frames.
func (s *Seat) FrameCount() int { return s.frames }

// Selection returns the current selection source.
func (s *Seat) Selection() toolkit.DataSource { return s.selection }

// Cursor is a virtual cursor clamped to its constraint box.
type Cursor struct {
	x, y     float64
	box      toolkit.Box
	image    string
	surface  toolkit.Surface
	hotspotX int32
	hotspotY int32
	attached []toolkit.InputDevice
}

func NewCursor() *Cursor { return &Cursor{} }

func (c *Cursor) X() float64 { return c.x }
func (c *Cursor) Y() float64 { return c.y }

func (c *Cursor) Move(_ toolkit.InputDevice, dx, dy float64) {
	c.Warp(c.x+dx, c.y+dy)
}

func (c *Cursor) WarpAbsolute(_ toolkit.InputDevice, x, y float64) {
	if c.box.Empty() {
		c.Warp(x, y)
		return
	}
	c.Warp(float64(c.box.X)+x*float64(c.box.Width), float64(c.box.Y)+y*float64(c.box.Height))
}

// Warp places the cursor at layout coordinates, clamped to the box.
func (c *Cursor) Warp(x, y float64) {
	if !c.box.Empty() {
		x = min(max(x, float64(c.box.X)), float64(c.box.X+c.box.Width-1))
		y = min(max(y, float64(c.box.Y)), float64(c.box.Y+c.box.Height-1))
	}
	c.x, c.y = x, y
}

func (c *Cursor) AttachInputDevice(device toolkit.InputDevice) {
	c.attached = append(c.attached, device)
}

func (c *Cursor) ConstrainTo(box toolkit.Box) { c.box = box }

func (c *Cursor) SetXCursor(name string) {
	c.image = name
	c.surface = nil
}

func (c *Cursor) SetSurface(surface toolkit.Surface, hotspotX, hotspotY int32) {
	c.surface = surface
	c.hotspotX, c.hotspotY = hotspotX, hotspotY
	c.image = ""
}

// Image returns the xcursor name, or "" when a client surface is shown.
func (c *Cursor) Image() string { return c.image }

// ImageSurface returns the client cursor surface, if any.
func (c *Cursor) ImageSurface() toolkit.Surface { return c.surface }

// Attached returns the devices attached to the cursor.
func (c *Cursor) Attached() []toolkit.InputDevice { return c.attached }

// Constraint returns the current constraint box.
func (c *Cursor) Constraint() toolkit.Box { return c.box }
