package ui

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/waydock/internal/ipc"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	submitted []ipc.Request
	err       error
}

func (f *fakeSource) Watch(ctx context.Context) (<-chan ipc.Snapshot, error) {
	return make(chan ipc.Snapshot), nil
}

func (f *fakeSource) Submit(req ipc.Request) error {
	f.submitted = append(f.submitted, req)
	return f.err
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestMonitor(t *testing.T) (*MonitorModel, *fakeSource) {
	t.Helper()
	src := &fakeSource{}
	m := NewMonitorModel(src, make(chan ipc.Snapshot))
	m.Update(SnapshotMsg(sampleSnapshot()))
	return m, src
}

func TestMonitorWaitsForSnapshot(t *testing.T) {
	updates := make(chan ipc.Snapshot, 1)
	m := NewMonitorModel(&fakeSource{}, updates)
	assert.Contains(t, m.View(), "Waiting for the compositor")

	updates <- sampleSnapshot()
	msg := m.waitForSnapshot()()
	snap, ok := msg.(SnapshotMsg)
	require.True(t, ok)
	assert.Equal(t, 4, ipc.Snapshot(snap).Len())

	close(updates)
	assert.IsType(t, StreamClosedMsg{}, m.waitForSnapshot()())
}

func TestMonitorSelection(t *testing.T) {
	m, _ := newTestMonitor(t)
	assert.Equal(t, "0.1", m.Selected(), "first window is selected")

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "1.1", m.Selected())
	m.Update(runes("j"))
	m.Update(runes("j"))
	m.Update(runes("j"))
	assert.Equal(t, "3.2", m.Selected(), "selection stops at the last window")
	m.Update(runes("k"))
	assert.Equal(t, "2.1", m.Selected())

	// The selection follows the window across snapshots.
	snap := sampleSnapshot()
	snap.Active, snap.DockedLeft = append(snap.Active, snap.DockedLeft[0]), nil
	m.Update(SnapshotMsg(snap))
	assert.Equal(t, "2.1", m.Selected())

	// And falls back to the first window when it goes away.
	m.Update(SnapshotMsg(sampleSnapshot()))
	empty := sampleSnapshot()
	empty.DockedLeft = nil
	m.Update(SnapshotMsg(empty))
	assert.Equal(t, "0.1", m.Selected())

	m.Update(SnapshotMsg(ipc.NewSnapshot()))
	assert.Empty(t, m.Selected())
}

func TestMonitorActions(t *testing.T) {
	tests := []struct {
		key  tea.KeyMsg
		want ipc.Action
	}{
		{key: runes("h"), want: ipc.ActionDockLeft},
		{key: tea.KeyMsg{Type: tea.KeyRight}, want: ipc.ActionDockRight},
		{key: runes("u"), want: ipc.ActionUndock},
		{key: runes("m"), want: ipc.ActionMaximize},
		{key: runes("r"), want: ipc.ActionRestore},
		{key: runes("x"), want: ipc.ActionClose},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			m, src := newTestMonitor(t)
			cmd, quit := m.handleKey(tt.key)
			require.False(t, quit)
			require.NotNil(t, cmd)

			msg := cmd()
			require.Equal(t, []ipc.Request{{Action: tt.want, ID: "0.1"}}, src.submitted)

			m.Update(msg)
			assert.Contains(t, m.View(), tt.want.Description())
		})
	}
}

func TestMonitorActionFailure(t *testing.T) {
	m, src := newTestMonitor(t)
	src.err = errors.New("boom")

	cmd, _ := m.handleKey(runes("x"))
	require.NotNil(t, cmd)
	m.Update(cmd())
	assert.Contains(t, m.View(), "CLOSE failed: boom")
}

func TestMonitorActionWithoutSelection(t *testing.T) {
	src := &fakeSource{}
	m := NewMonitorModel(src, make(chan ipc.Snapshot))
	m.Update(SnapshotMsg(ipc.NewSnapshot()))

	cmd, quit := m.handleKey(runes("h"))
	assert.Nil(t, cmd)
	assert.False(t, quit)
	assert.Empty(t, src.submitted)
	assert.Contains(t, m.View(), "No window selected")
}

func TestMonitorQuitAndHelp(t *testing.T) {
	m, _ := newTestMonitor(t)

	_, quit := m.handleKey(runes("?"))
	assert.False(t, quit)
	assert.True(t, m.help.ShowAll)

	_, quit = m.handleKey(runes("q"))
	assert.True(t, quit)
	_, quit = m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, quit)
}

func TestMonitorStreamClosed(t *testing.T) {
	m, _ := newTestMonitor(t)
	m.Update(StreamClosedMsg{})
	view := m.View()
	assert.Contains(t, view, "Compositor went away")
	assert.Contains(t, view, IconWarning)
	assert.Equal(t, "warning", m.messageType)
	assert.Contains(t, view, "foot", "the last snapshot stays visible")
}

func TestMonitorLiveIndicator(t *testing.T) {
	m := NewMonitorModel(&fakeSource{}, make(chan ipc.Snapshot))
	assert.Equal(t, SubtleStyle.Render(IconActive), m.liveIndicator())

	m.Update(SnapshotMsg(sampleSnapshot()))
	assert.Equal(t, SuccessStyle.Render(IconActive), m.liveIndicator())
	assert.Contains(t, m.View(), m.liveIndicator())

	m.Update(StreamClosedMsg{})
	assert.Equal(t, ErrorStyle.Render(IconActive), m.liveIndicator())
}

func TestMonitorWindowSize(t *testing.T) {
	m, _ := newTestMonitor(t)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.windowWidth)
	assert.Equal(t, 120, m.help.Width)
}
