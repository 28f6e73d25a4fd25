// Package headless is an in-memory toolkit backend. It renders nothing;
// outputs are virtual and clients are fakes driven by the caller. The run
// command uses it when no hardware backend is available and every compositor
// test drives the core through it.
package headless

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/bnema/waydock/internal/toolkit"
)

// Name is the name the backend registers under.
const Name = "headless"

const eventBuffer = 256

func init() {
	toolkit.Register(Name, func(opts toolkit.Options) (toolkit.Backend, error) {
		return New(opts)
	})
}

// Backend is the headless toolkit session.
type Backend struct {
	mu      sync.Mutex
	started bool
	closed  bool

	events chan toolkit.Event
	modes  []toolkit.OutputMode

	scene  *Scene
	seat   *Seat
	cursor *Cursor

	outputs  []*Output
	keyboard *Device
	pointer  *Device
}

// New creates a backend. Each entry of opts.Outputs becomes a virtual output
// announced on Start.
func New(opts toolkit.Options) (*Backend, error) {
	modes := make([]toolkit.OutputMode, 0, len(opts.Outputs))
	for _, spec := range opts.Outputs {
		mode, err := ParseMode(spec)
		if err != nil {
			return nil, err
		}
		modes = append(modes, mode)
	}

	return &Backend{
		events: make(chan toolkit.Event, eventBuffer),
		modes:  modes,
		scene:  NewScene(),
		seat:   NewSeat(),
		cursor: NewCursor(),
	}, nil
}

// ParseMode parses "WIDTHxHEIGHT" or "WIDTHxHEIGHT@HZ".
func ParseMode(spec string) (toolkit.OutputMode, error) {
	refresh := 60000
	size := spec
	if at := strings.IndexByte(spec, '@'); at >= 0 {
		hz, err := strconv.ParseFloat(spec[at+1:], 64)
		if err != nil || hz <= 0 {
			return toolkit.OutputMode{}, fmt.Errorf("invalid refresh rate in output mode %q", spec)
		}
		refresh = int(hz * 1000)
		size = spec[:at]
	}

	w, h, ok := strings.Cut(size, "x")
	if !ok {
		return toolkit.OutputMode{}, fmt.Errorf("invalid output mode %q: expected WIDTHxHEIGHT", spec)
	}
	width, err := strconv.Atoi(w)
	if err != nil || width <= 0 {
		return toolkit.OutputMode{}, fmt.Errorf("invalid width in output mode %q", spec)
	}
	height, err := strconv.Atoi(h)
	if err != nil || height <= 0 {
		return toolkit.OutputMode{}, fmt.Errorf("invalid height in output mode %q", spec)
	}
	return toolkit.OutputMode{Width: width, Height: height, Refresh: refresh}, nil
}

// Start announces the virtual outputs plus one keyboard and one pointer.
func (b *Backend) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return fmt.Errorf("headless backend is closed")
	}
	if b.started {
		return nil
	}
	b.started = true

	for i, mode := range b.modes {
		out := NewOutput(fmt.Sprintf("HEADLESS-%d", i+1), mode)
		b.outputs = append(b.outputs, out)
		b.events <- toolkit.NewOutput{Output: out}
	}

	b.keyboard = NewKeyboardDevice("headless-keyboard")
	b.pointer = NewPointerDevice("headless-pointer")
	b.events <- toolkit.NewInput{Device: b.keyboard}
	b.events <- toolkit.NewInput{Device: b.pointer}
	return nil
}

func (b *Backend) Events() <-chan toolkit.Event { return b.events }

func (b *Backend) Socket() string { return "wayland-headless" }

func (b *Backend) Scene() toolkit.Scene { return b.scene }

func (b *Backend) Seat() toolkit.Seat { return b.seat }

func (b *Backend) Cursor() toolkit.Cursor { return b.cursor }

// Emit queues an event as if a client or device produced it. It reports
// false when the queue is full or the backend is closed.
func (b *Backend) Emit(ev toolkit.Event) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return false
	}
	select {
	case b.events <- ev:
		return true
	default:
		return false
	}
}

// Outputs returns the virtual outputs created by Start.
func (b *Backend) Outputs() []*Output {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*Output(nil), b.outputs...)
}

// Keyboard returns the virtual keyboard created by Start, or nil.
func (b *Backend) Keyboard() *Device {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.keyboard
}

// Pointer returns the virtual pointer created by Start, or nil.
func (b *Backend) Pointer() *Device {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pointer
}

// HeadlessScene exposes the concrete scene for inspection.
func (b *Backend) HeadlessScene() *Scene { return b.scene }

// HeadlessSeat exposes the concrete seat for inspection.
func (b *Backend) HeadlessSeat() *Seat { return b.seat }

// HeadlessCursor exposes the concrete cursor for inspection.
func (b *Backend) HeadlessCursor() *Cursor { return b.cursor }

func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	close(b.events)
	return nil
}
