package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/waydock/internal/ipc"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const messageLifetime = 4 * time.Second

// SnapshotMsg carries a fresh workspace snapshot into the monitor.
type SnapshotMsg ipc.Snapshot

// StreamClosedMsg reports that the snapshot stream ended.
type StreamClosedMsg struct{}

// ActionResultMsg reports the outcome of a submitted action.
type ActionResultMsg struct {
	Request ipc.Request
	Err     error
}

// MonitorModel is the live workspace view. Snapshots arrive on updates and
// actions go out through the source.
type MonitorModel struct {
	source  Source
	updates <-chan ipc.Snapshot

	snapshot ipc.Snapshot
	received bool
	closed   bool
	selected string

	keys    KeyMap
	help    help.Model
	spinner spinner.Model

	message       string
	messageType   string // "info", "warning", "error", "success"
	messageExpiry time.Time

	windowWidth  int
	windowHeight int
}

// NewMonitorModel creates a monitor reading from updates.
func NewMonitorModel(source Source, updates <-chan ipc.Snapshot) *MonitorModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorSecondary)

	return &MonitorModel{
		source:       source,
		updates:      updates,
		snapshot:     ipc.NewSnapshot(),
		keys:         DefaultKeyMap,
		help:         help.New(),
		spinner:      s,
		windowWidth:  80,
		windowHeight: 24,
	}
}

// Init starts the spinner and the first wait on the stream.
func (m *MonitorModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForSnapshot())
}

func (m *MonitorModel) waitForSnapshot() tea.Cmd {
	updates := m.updates
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return StreamClosedMsg{}
		}
		return SnapshotMsg(snap)
	}
}

func (m *MonitorModel) submit(req ipc.Request) tea.Cmd {
	source := m.source
	return func() tea.Msg {
		return ActionResultMsg{Request: req, Err: source.Submit(req)}
	}
}

// Update handles messages for the monitor.
func (m *MonitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if cmd, quit := m.handleKey(msg); quit {
			return m, tea.Quit
		} else if cmd != nil {
			cmds = append(cmds, cmd)
		}

	case SnapshotMsg:
		m.snapshot = ipc.Snapshot(msg)
		m.received = true
		m.keepSelection()
		cmds = append(cmds, m.waitForSnapshot())

	case StreamClosedMsg:
		m.closed = true
		m.SetMessage("warning", "Compositor went away")

	case ActionResultMsg:
		if msg.Err != nil {
			m.SetMessage("error", fmt.Sprintf("%s failed: %v", msg.Request.Action, msg.Err))
		} else {
			m.SetMessage("success", msg.Request.Action.Description())
		}

	case spinner.TickMsg:
		if !m.received && !m.closed {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.help.Width = msg.Width
	}

	if !m.messageExpiry.IsZero() && time.Now().After(m.messageExpiry) {
		m.message = ""
		m.messageType = ""
		m.messageExpiry = time.Time{}
	}

	return m, tea.Batch(cmds...)
}

func (m *MonitorModel) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return nil, true
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
	default:
		action, ok := m.actionFor(msg)
		if !ok {
			return nil, false
		}
		if m.selected == "" {
			m.SetMessage("warning", "No window selected")
			return nil, false
		}
		return m.submit(ipc.Request{Action: action, ID: m.selected}), false
	}
	return nil, false
}

func (m *MonitorModel) actionFor(msg tea.KeyMsg) (ipc.Action, bool) {
	bindings := []struct {
		binding key.Binding
		action  ipc.Action
	}{
		{m.keys.DockLeft, ipc.ActionDockLeft},
		{m.keys.DockRight, ipc.ActionDockRight},
		{m.keys.Undock, ipc.ActionUndock},
		{m.keys.Maximize, ipc.ActionMaximize},
		{m.keys.Restore, ipc.ActionRestore},
		{m.keys.Close, ipc.ActionClose},
	}
	for _, b := range bindings {
		if key.Matches(msg, b.binding) {
			return b.action, true
		}
	}
	return 0, false
}

// order lists the ids in display order.
func (m *MonitorModel) order() []string {
	var ids []string
	for _, sec := range Sections(m.snapshot) {
		for _, e := range sec.Entries {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

func (m *MonitorModel) moveSelection(delta int) {
	ids := m.order()
	if len(ids) == 0 {
		m.selected = ""
		return
	}
	idx := 0
	for i, id := range ids {
		if id == m.selected {
			idx = i + delta
			break
		}
	}
	idx = max(0, min(idx, len(ids)-1))
	m.selected = ids[idx]
}

// keepSelection follows the selected window across snapshots and falls back
// to the first one when it disappears.
func (m *MonitorModel) keepSelection() {
	if _, ok := m.snapshot.Find(m.selected); ok {
		return
	}
	m.selected = ""
	if ids := m.order(); len(ids) > 0 {
		m.selected = ids[0]
	}
}

// Selected returns the id of the highlighted window.
func (m *MonitorModel) Selected() string {
	return m.selected
}

// Snapshot returns the last snapshot received.
func (m *MonitorModel) Snapshot() ipc.Snapshot {
	return m.snapshot
}

// SetMessage sets a temporary message
func (m *MonitorModel) SetMessage(msgType, message string) {
	m.message = message
	m.messageType = msgType
	m.messageExpiry = time.Now().Add(messageLifetime)
}

// View renders the monitor.
func (m *MonitorModel) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("waydock"))
	b.WriteString(" ")
	b.WriteString(m.liveIndicator())
	b.WriteString(" ")
	b.WriteString(SubtleStyle.Render(fmt.Sprintf("%d windows", m.snapshot.Len())))
	b.WriteString("\n")
	b.WriteString(CreateSeparator(min(m.windowWidth, 60), ""))
	b.WriteString("\n")

	switch {
	case !m.received && !m.closed:
		b.WriteString(BoxStyle.Render(m.spinner.View() + " Waiting for the compositor..."))
		b.WriteString("\n")
	default:
		b.WriteString(RenderSnapshot(m.snapshot, m.selected))
	}

	if m.message != "" {
		b.WriteString("\n")
		switch m.messageType {
		case "error":
			b.WriteString(FormatStatus(false, m.message))
		case "success":
			b.WriteString(FormatStatus(true, m.message))
		case "warning":
			b.WriteString(WarningStyle.Render(IconWarning + " " + m.message))
		default:
			b.WriteString(InfoStyle.Render(m.message))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// liveIndicator is green while snapshots arrive, red once the stream ended.
func (m *MonitorModel) liveIndicator() string {
	switch {
	case m.closed:
		return ErrorStyle.Render(IconActive)
	case m.received:
		return SuccessStyle.Render(IconActive)
	default:
		return SubtleStyle.Render(IconActive)
	}
}

// RunMonitor subscribes to source and runs the monitor until the user quits
// or ctx is cancelled.
func RunMonitor(ctx context.Context, source Source, opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	updates, err := source.Watch(ctx)
	if err != nil {
		return err
	}

	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	p := tea.NewProgram(NewMonitorModel(source, updates), opts...)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("monitor failed: %w", err)
	}
	return nil
}
