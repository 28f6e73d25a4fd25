package toolkit

// EventKind identifies one of the events a backend can deliver. The set is
// closed; the compositor keeps one handler per kind.
type EventKind int

const (
	EventNewInput EventKind = iota
	EventInputDestroy
	EventKeyboardKey
	EventKeyboardModifiers
	EventPointerMotion
	EventPointerMotionAbsolute
	EventPointerButton
	EventPointerAxis
	EventPointerFrame
	EventRequestSetCursor
	EventRequestSetSelection
	EventNewOutput
	EventOutputFrame
	EventOutputRequestState
	EventOutputDestroy
	EventNewToplevel
	EventNewPopup
	EventToplevelMap
	EventToplevelUnmap
	EventToplevelCommit
	EventToplevelDestroy
	EventRequestMove
	EventRequestResize
	EventRequestMaximize
	EventRequestFullscreen
	EventPopupCommit
	EventPopupDestroy
)

var eventKindNames = [...]string{
	EventNewInput:              "new_input",
	EventInputDestroy:          "input_destroy",
	EventKeyboardKey:           "keyboard_key",
	EventKeyboardModifiers:     "keyboard_modifiers",
	EventPointerMotion:         "pointer_motion",
	EventPointerMotionAbsolute: "pointer_motion_absolute",
	EventPointerButton:         "pointer_button",
	EventPointerAxis:           "pointer_axis",
	EventPointerFrame:          "pointer_frame",
	EventRequestSetCursor:      "request_set_cursor",
	EventRequestSetSelection:   "request_set_selection",
	EventNewOutput:             "new_output",
	EventOutputFrame:           "output_frame",
	EventOutputRequestState:    "output_request_state",
	EventOutputDestroy:         "output_destroy",
	EventNewToplevel:           "new_toplevel",
	EventNewPopup:              "new_popup",
	EventToplevelMap:           "toplevel_map",
	EventToplevelUnmap:         "toplevel_unmap",
	EventToplevelCommit:        "toplevel_commit",
	EventToplevelDestroy:       "toplevel_destroy",
	EventRequestMove:           "request_move",
	EventRequestResize:         "request_resize",
	EventRequestMaximize:       "request_maximize",
	EventRequestFullscreen:     "request_fullscreen",
	EventPopupCommit:           "popup_commit",
	EventPopupDestroy:          "popup_destroy",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventKindNames) {
		return "unknown"
	}
	return eventKindNames[k]
}

// Event is delivered by a backend on its event channel.
type Event interface {
	Kind() EventKind
}

type NewInput struct {
	Device InputDevice
}

type InputDestroy struct {
	Device InputDevice
}

type KeyboardKey struct {
	Keyboard Keyboard
	TimeMsec uint32
	Keycode  uint32
	State    KeyState
}

type KeyboardModifiers struct {
	Keyboard Keyboard
}

// PointerMotion is a relative motion delta.
type PointerMotion struct {
	Device   InputDevice
	TimeMsec uint32
	DX       float64
	DY       float64
}

// PointerMotionAbsolute carries normalized (0..1) coordinates.
type PointerMotionAbsolute struct {
	Device   InputDevice
	TimeMsec uint32
	X        float64
	Y        float64
}

type PointerButton struct {
	Device   InputDevice
	TimeMsec uint32
	Button   uint32
	State    ButtonState
}

type PointerAxis struct {
	Device        InputDevice
	TimeMsec      uint32
	Orientation   AxisOrientation
	Delta         float64
	DeltaDiscrete int32
	Source        AxisSource
}

type PointerFrame struct{}

type RequestSetCursor struct {
	Client   Client
	Surface  Surface
	HotspotX int32
	HotspotY int32
}

type RequestSetSelection struct {
	Source DataSource
	Serial uint32
}

type NewOutput struct {
	Output Output
}

type OutputFrame struct {
	Output Output
}

type OutputRequestState struct {
	Output Output
	State  OutputState
}

type OutputDestroy struct {
	Output Output
}

type NewToplevel struct {
	Toplevel Toplevel
}

type NewPopup struct {
	Popup Popup
}

type ToplevelMap struct {
	Toplevel Toplevel
}

type ToplevelUnmap struct {
	Toplevel Toplevel
}

type ToplevelCommit struct {
	Toplevel Toplevel
}

type ToplevelDestroy struct {
	Toplevel Toplevel
}

type RequestMove struct {
	Toplevel Toplevel
	Serial   uint32
}

type RequestResize struct {
	Toplevel Toplevel
	Serial   uint32
	Edges    Edges
}

type RequestMaximize struct {
	Toplevel Toplevel
}

type RequestFullscreen struct {
	Toplevel Toplevel
}

type PopupCommit struct {
	Popup Popup
}

type PopupDestroy struct {
	Popup Popup
}

func (NewInput) Kind() EventKind              { return EventNewInput }
func (InputDestroy) Kind() EventKind          { return EventInputDestroy }
func (KeyboardKey) Kind() EventKind           { return EventKeyboardKey }
func (KeyboardModifiers) Kind() EventKind     { return EventKeyboardModifiers }
func (PointerMotion) Kind() EventKind         { return EventPointerMotion }
func (PointerMotionAbsolute) Kind() EventKind { return EventPointerMotionAbsolute }
func (PointerButton) Kind() EventKind         { return EventPointerButton }
func (PointerAxis) Kind() EventKind           { return EventPointerAxis }
func (PointerFrame) Kind() EventKind          { return EventPointerFrame }
func (RequestSetCursor) Kind() EventKind      { return EventRequestSetCursor }
func (RequestSetSelection) Kind() EventKind   { return EventRequestSetSelection }
func (NewOutput) Kind() EventKind             { return EventNewOutput }
func (OutputFrame) Kind() EventKind           { return EventOutputFrame }
func (OutputRequestState) Kind() EventKind    { return EventOutputRequestState }
func (OutputDestroy) Kind() EventKind         { return EventOutputDestroy }
func (NewToplevel) Kind() EventKind           { return EventNewToplevel }
func (NewPopup) Kind() EventKind              { return EventNewPopup }
func (ToplevelMap) Kind() EventKind           { return EventToplevelMap }
func (ToplevelUnmap) Kind() EventKind         { return EventToplevelUnmap }
func (ToplevelCommit) Kind() EventKind        { return EventToplevelCommit }
func (ToplevelDestroy) Kind() EventKind       { return EventToplevelDestroy }
func (RequestMove) Kind() EventKind           { return EventRequestMove }
func (RequestResize) Kind() EventKind         { return EventRequestResize }
func (RequestMaximize) Kind() EventKind       { return EventRequestMaximize }
func (RequestFullscreen) Kind() EventKind     { return EventRequestFullscreen }
func (PopupCommit) Kind() EventKind           { return EventPopupCommit }
func (PopupDestroy) Kind() EventKind          { return EventPopupDestroy }
