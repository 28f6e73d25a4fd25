// Package toolkit describes the windowing toolkit the compositor core drives.
//
// Rendering, buffer allocation, output modesetting, protocol marshalling and
// scene-graph compositing all live behind these interfaces. The core only
// consumes the events in events.go and calls the methods below.
package toolkit

import (
	"time"
)

// InputDeviceType identifies the kind of an input device
type InputDeviceType int

const (
	InputDeviceKeyboard InputDeviceType = iota
	InputDevicePointer
	InputDeviceTouch
	InputDeviceTablet
	InputDeviceSwitch
)

func (t InputDeviceType) String() string {
	switch t {
	case InputDeviceKeyboard:
		return "keyboard"
	case InputDevicePointer:
		return "pointer"
	case InputDeviceTouch:
		return "touch"
	case InputDeviceTablet:
		return "tablet"
	case InputDeviceSwitch:
		return "switch"
	default:
		return "unknown"
	}
}

// InputDevice is a physical or virtual input device announced by the backend.
type InputDevice interface {
	Name() string
	Type() InputDeviceType
	// Keyboard returns the keyboard side of the device, if it has one.
	Keyboard() (Keyboard, bool)
}

// Keysym is an XKB keysym.
type Keysym uint32

const (
	KeysymEscape Keysym = 0xff1b
	KeysymF1     Keysym = 0xffbe
)

// Modifiers is the XKB modifier mask in wlroots bit order.
type Modifiers uint32

const (
	ModShift Modifiers = 1 << iota
	ModCaps
	ModCtrl
	ModAlt
	ModMod2
	ModMod3
	ModLogo
	ModMod5
)

type KeyState int

const (
	KeyReleased KeyState = iota
	KeyPressed
)

type ButtonState int

const (
	ButtonReleased ButtonState = iota
	ButtonPressed
)

// Keyboard is the keyboard half of an input device.
type Keyboard interface {
	Device() InputDevice
	// SetDefaultKeymap compiles and installs the default XKB keymap.
	SetDefaultKeymap() error
	SetRepeatInfo(rate, delay int32)
	// Keysyms translates a libinput keycode into the keysyms it currently
	// produces. Implementations add the XKB offset of 8 themselves.
	Keysyms(keycode uint32) []Keysym
	Modifiers() Modifiers
	PressedKeycodes() []uint32
}

// Client is a connected protocol client.
type Client interface {
	PID() int
}

// Surface is a client surface.
type Surface interface {
	Client() Client
}

// DataSource is an opaque clipboard selection source.
type DataSource interface{}

// PixelData is a CPU mapping of a client buffer. Stride is the byte distance
// between rows and may exceed Width*4.
type PixelData struct {
	Data   []byte
	Format uint32
	Stride int
}

// Buffer is the buffer currently attached to a surface.
type Buffer interface {
	Width() int
	Height() int
	BeginDataAccess() (PixelData, error)
	EndDataAccess()
}

// XDGSurface is the shell role shared by toplevels and popups.
type XDGSurface interface {
	Surface() Surface
	// Initialized reports whether the base surface finished its initial setup.
	Initialized() bool
	// InitialCommit reports whether the commit in flight is the first one.
	InitialCommit() bool
	// Geometry is the client-reported window geometry relative to the
	// surface origin.
	Geometry() Box
	ScheduleConfigure()
	// Data and SetData hold the scene tree created for the surface so popups
	// can find their parent's tree.
	Data() any
	SetData(data any)
}

// ToplevelRequest is the state a client last asked for.
type ToplevelRequest struct {
	Maximized  bool
	Fullscreen bool
}

// Toplevel is an application window.
type Toplevel interface {
	XDGSurface
	AppID() string
	Title() string
	Requested() ToplevelRequest
	SetActivated(activated bool)
	SetMaximized(maximized bool)
	SetFullscreen(fullscreen bool)
	SetSize(width, height int)
	// SendClose asks the client to close; the client decides when to unmap.
	SendClose()
	// Buffer returns the currently attached buffer, if any.
	Buffer() (Buffer, bool)
}

// Popup is a transient surface parented to another xdg surface.
type Popup interface {
	XDGSurface
	Parent() XDGSurface
}

// SceneTree is a node subtree in the scene graph.
type SceneTree interface {
	Position() (x, y int)
	SetPosition(x, y int)
	RaiseToTop()
	LowerToBottom()
}

// Hit is the result of a scene hit-test.
type Hit struct {
	Surface Surface
	// Toplevel owns the surface tree containing Surface, or is nil.
	Toplevel Toplevel
	SX       float64
	SY       float64
}

// Scene is the scene graph owned by the toolkit.
type Scene interface {
	// CreateSurfaceTree creates the subtree rendering surface. A nil parent
	// attaches it to the root.
	CreateSurfaceTree(parent SceneTree, surface XDGSurface) SceneTree
	SurfaceAt(lx, ly float64) (Hit, bool)
	// AttachOutput creates the scene output for output at the given layout
	// position.
	AttachOutput(output Output, x, y int) error
	DetachOutput(output Output)
	// RenderOutput commits a frame for output and sends frame-done.
	RenderOutput(output Output, now time.Time) error
}

// Capabilities advertised by the seat.
type Capabilities uint32

const (
	CapPointer Capabilities = 1 << iota
	CapKeyboard
	CapTouch
)

// AxisOrientation of a scroll event
type AxisOrientation int

const (
	AxisVertical AxisOrientation = iota
	AxisHorizontal
)

// AxisSource of a scroll event
type AxisSource int

const (
	AxisSourceWheel AxisSource = iota
	AxisSourceFinger
	AxisSourceContinuous
	AxisSourceWheelTilt
)

// Seat aggregates input devices presented to clients as one focus target.
type Seat interface {
	SetCapabilities(caps Capabilities)
	SetKeyboard(keyboard Keyboard)
	Keyboard() (Keyboard, bool)
	KeyboardFocus() Surface
	NotifyKeyboardEnter(surface Surface, keycodes []uint32, mods Modifiers)
	ClearKeyboardFocus()
	NotifyKeyboardKey(timeMsec uint32, keycode uint32, state KeyState)
	NotifyKeyboardModifiers(mods Modifiers)

	PointerFocusClient() Client
	NotifyPointerEnter(surface Surface, sx, sy float64)
	NotifyPointerMotion(timeMsec uint32, sx, sy float64)
	ClearPointerFocus()
	NotifyPointerButton(timeMsec uint32, button uint32, state ButtonState)
	NotifyPointerAxis(timeMsec uint32, orientation AxisOrientation, delta float64, deltaDiscrete int32, source AxisSource)
	NotifyPointerFrame()

	SetSelection(source DataSource, serial uint32)
}

// Cursor tracks the pointer position in layout coordinates.
type Cursor interface {
	X() float64
	Y() float64
	Move(device InputDevice, dx, dy float64)
	// WarpAbsolute moves to normalized (0..1) coordinates of the constraint box.
	WarpAbsolute(device InputDevice, x, y float64)
	AttachInputDevice(device InputDevice)
	// ConstrainTo limits cursor motion to box.
	ConstrainTo(box Box)
	SetXCursor(name string)
	SetSurface(surface Surface, hotspotX, hotspotY int32)
}

// OutputMode is a display mode.
type OutputMode struct {
	Width   int
	Height  int
	Refresh int // mHz
}

// OutputState is a requested output configuration.
type OutputState struct {
	Enabled bool
	Mode    *OutputMode
	Scale   float64
}

// Output is a display.
type Output interface {
	Name() string
	// Enable initialises rendering, selects the preferred mode and commits.
	Enable() error
	CommitState(state OutputState) error
	Mode() OutputMode
	Scale() float64
}

// Backend is an opened toolkit session.
type Backend interface {
	// Start starts the backend. New outputs and inputs are announced as
	// events once it is running.
	Start() error
	Events() <-chan Event
	// Socket is the client socket name, exported to children as
	// WAYLAND_DISPLAY.
	Socket() string
	Scene() Scene
	Seat() Seat
	Cursor() Cursor
	Close() error
}
