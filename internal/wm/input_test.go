package wm

import (
	"testing"

	"github.com/bnema/waydock/internal/display"
	"github.com/bnema/waydock/internal/toolkit"
	"github.com/bnema/waydock/internal/toolkit/headless"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	keycodeEscape = 1
	keycodeF1     = 59
	keycodeA      = 30
)

func TestKeyboardSetup(t *testing.T) {
	h := newHarness(t)
	seat := h.backend.HeadlessSeat()

	assert.True(t, h.kb.KeymapSet())
	rate, delay := h.kb.RepeatInfo()
	assert.Equal(t, int32(25), rate)
	assert.Equal(t, int32(600), delay)
	assert.Equal(t, toolkit.CapPointer|toolkit.CapKeyboard, seat.Capabilities())

	kb, ok := seat.Keyboard()
	require.True(t, ok)
	assert.Equal(t, toolkit.Keyboard(h.kb), kb)
	assert.Equal(t, []toolkit.InputDevice{h.pointer}, h.backend.HeadlessCursor().Attached())

	h.server.Dispatch(toolkit.InputDestroy{Device: h.kb.Device()})
	assert.Equal(t, toolkit.CapPointer, seat.Capabilities())
}

func TestPointerOnlySeat(t *testing.T) {
	backend, err := headless.New(toolkit.Options{})
	require.NoError(t, err)
	server, err := New(backend, Options{})
	require.NoError(t, err)

	server.Dispatch(toolkit.NewInput{Device: headless.NewPointerDevice("mouse")})
	assert.Equal(t, toolkit.CapPointer, backend.HeadlessSeat().Capabilities())
}

func TestKeysAreForwarded(t *testing.T) {
	h := newHarness(t)
	seat := h.backend.HeadlessSeat()

	h.server.Dispatch(h.kb.Press(keycodeA))
	h.server.Dispatch(h.kb.Release(keycodeA))
	assert.Equal(t, []headless.KeyNotice{
		{Keycode: keycodeA, State: toolkit.KeyPressed},
		{Keycode: keycodeA, State: toolkit.KeyReleased},
	}, seat.Keys())

	// Without Alt, Escape goes to the client.
	h.server.Dispatch(h.kb.Press(keycodeEscape))
	assert.False(t, h.server.Terminated())
	assert.Len(t, seat.Keys(), 3)

	// Alt with an unbound key is forwarded too.
	h.server.Dispatch(h.kb.SetModifiers(toolkit.ModAlt))
	h.server.Dispatch(h.kb.Press(keycodeA))
	assert.Len(t, seat.Keys(), 4)
	assert.Equal(t, []toolkit.Modifiers{toolkit.ModAlt}, seat.ModifierUpdates())
}

func TestAltEscapeTerminates(t *testing.T) {
	h := newHarness(t)
	h.server.Dispatch(h.kb.SetModifiers(toolkit.ModAlt | toolkit.ModShift))
	h.server.Dispatch(h.kb.Press(keycodeEscape))

	assert.True(t, h.server.Terminated())
	assert.Empty(t, h.backend.HeadlessSeat().Keys(), "bindings are consumed")

	// A second request is harmless.
	assert.NotPanics(t, h.server.Terminate)

	// Releases are never bindings.
	h.server.Dispatch(h.kb.Release(keycodeEscape))
	assert.Len(t, h.backend.HeadlessSeat().Keys(), 1)
}

func TestAltF1CyclesFocus(t *testing.T) {
	t.Run("single window is consumed without change", func(t *testing.T) {
		h := newHarness(t)
		_, w := h.open("foot", "term")
		h.server.Dispatch(h.kb.SetModifiers(toolkit.ModAlt))
		h.server.Dispatch(h.kb.Press(keycodeF1))

		assert.Equal(t, w, h.server.Focused())
		assert.Empty(t, h.backend.HeadlessSeat().Keys())
	})

	t.Run("least recent window comes forward", func(t *testing.T) {
		h := newHarness(t)
		tlA, a := h.open("a", "A")
		_, b := h.open("b", "B")
		_, c := h.open("c", "C")
		require.Equal(t, []*Window{c, b, a}, h.server.Windows())

		h.server.Dispatch(h.kb.SetModifiers(toolkit.ModAlt))
		h.server.Dispatch(h.kb.Press(keycodeF1))

		assert.Equal(t, a, h.server.Focused())
		assert.True(t, tlA.Activated())
		assert.Equal(t, []*Window{a, c, b}, h.server.Windows())
	})

	t.Run("docked windows are skipped", func(t *testing.T) {
		h := newHarness(t)
		_, a := h.open("a", "A")
		_, b := h.open("b", "B")
		_, c := h.open("c", "C")
		h.server.dock(a, display.EdgeLeft)

		h.server.Dispatch(h.kb.SetModifiers(toolkit.ModAlt))
		h.server.Dispatch(h.kb.Press(keycodeF1))
		assert.Equal(t, b, h.server.Focused())
		assert.Equal(t, []*Window{b, c, a}, h.server.Windows())
	})
}

func TestKeyboardFocusCarriesPressedKeys(t *testing.T) {
	h := newHarness(t)
	h.kb.Press(keycodeA)
	h.kb.SetModifiers(toolkit.ModCtrl)

	h.open("foot", "term")
	keys, mods := h.backend.HeadlessSeat().EnterState()
	assert.Equal(t, []uint32{keycodeA}, keys)
	assert.Equal(t, toolkit.ModCtrl, mods)
}

func TestUnpluggedKeyboardLeavesSeat(t *testing.T) {
	h := newHarness(t)
	seat := h.backend.HeadlessSeat()
	h.kb.Press(keycodeA)
	h.kb.SetModifiers(toolkit.ModCtrl)

	h.server.Dispatch(toolkit.InputDestroy{Device: h.kb.Device()})
	_, ok := seat.Keyboard()
	assert.False(t, ok)
	assert.Equal(t, toolkit.CapPointer, seat.Capabilities())

	h.open("foot", "term")
	assert.Nil(t, seat.KeyboardFocus(), "no keyboard, no enter")
	keys, mods := seat.EnterState()
	assert.Empty(t, keys)
	assert.Zero(t, mods)
}

func TestUnplugSwitchesToRemainingKeyboard(t *testing.T) {
	tests := []struct {
		name   string
		unplug func(first, second *headless.Keyboard) *headless.Keyboard
		want   func(first, second *headless.Keyboard) *headless.Keyboard
	}{
		{
			name:   "active keyboard unplugged",
			unplug: func(_, second *headless.Keyboard) *headless.Keyboard { return second },
			want:   func(first, _ *headless.Keyboard) *headless.Keyboard { return first },
		},
		{
			name:   "idle keyboard unplugged",
			unplug: func(first, _ *headless.Keyboard) *headless.Keyboard { return first },
			want:   func(_, second *headless.Keyboard) *headless.Keyboard { return second },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			seat := h.backend.HeadlessSeat()

			dev := headless.NewKeyboardDevice("usb-kb")
			h.server.Dispatch(toolkit.NewInput{Device: dev})
			second := dev.HeadlessKeyboard()

			gone := tt.unplug(h.kb, second)
			gone.Press(keycodeA)
			h.server.Dispatch(toolkit.InputDestroy{Device: gone.Device()})

			kb, ok := seat.Keyboard()
			require.True(t, ok)
			assert.Equal(t, toolkit.Keyboard(tt.want(h.kb, second)), kb)
			assert.Equal(t, toolkit.CapPointer|toolkit.CapKeyboard, seat.Capabilities())

			tl, _ := h.open("foot", "term")
			assert.Equal(t, tl.Surface(), seat.KeyboardFocus())
			keys, _ := seat.EnterState()
			assert.Empty(t, keys, "the unplugged keyboard's keys are not carried")
		})
	}
}
