// Package wm is the window-management core: it reacts to backend events,
// keeps the window registry and exchanges state with the desktop shell.
package wm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/bnema/waydock/internal/display"
	"github.com/bnema/waydock/internal/ipc"
	"github.com/bnema/waydock/internal/logger"
	"github.com/bnema/waydock/internal/thumbnail"
	"github.com/bnema/waydock/internal/toolkit"
	"github.com/spf13/afero"
)

const (
	// DefaultPollInterval is how often the action file is checked.
	DefaultPollInterval = 100 * time.Millisecond

	callTimeout = 2 * time.Second
)

var (
	ErrNoSuchWindow = errors.New("no such window")
	ErrNotRunning   = errors.New("compositor is not running")
	ErrBusy         = errors.New("compositor did not answer in time")
)

// Options configures a Server.
type Options struct {
	// Fs backs the state, action and thumbnail files. Defaults to the OS.
	Fs afero.Fs
	// IPCDir holds the exchange files. Defaults to /tmp.
	IPCDir string
	// StartupCommand is run through /bin/sh once the backend is up.
	StartupCommand string
	PollInterval   time.Duration
}

// CursorMode is the pointer interaction state.
type CursorMode int

const (
	CursorPassthrough CursorMode = iota
	CursorMove
	CursorResize
)

func (m CursorMode) String() string {
	switch m {
	case CursorPassthrough:
		return "passthrough"
	case CursorMove:
		return "move"
	case CursorResize:
		return "resize"
	default:
		return fmt.Sprintf("CursorMode(%d)", int(m))
	}
}

// grab is the state of an interactive move or resize.
type grab struct {
	mode   CursorMode
	window *Window
	x, y   float64
	box    toolkit.Box
	edges  toolkit.Edges
}

// Server is the compositor session. Every field is owned by the goroutine
// running Run; other goroutines go through call.
type Server struct {
	backend toolkit.Backend
	scene   toolkit.Scene
	seat    toolkit.Seat
	cursor  toolkit.Cursor
	layout  *display.Layout
	outputs map[string]toolkit.Output

	windows    arena
	byToplevel map[toolkit.Toplevel]Handle
	stack      []*Window
	focused    *Window
	keyboards  []toolkit.Keyboard

	grab  grab
	hover display.Edge

	bridge    *ipc.Bridge
	thumbs    *thumbnail.Writer
	publisher func(ipc.Snapshot)

	startupCommand string
	pollInterval   time.Duration

	handlers map[toolkit.EventKind]func(toolkit.Event)
	calls    chan func()
	stopped  chan struct{}
	quit     chan struct{}
	quitting bool
}

// New builds a session on top of backend. The backend is not started until Run.
func New(backend toolkit.Backend, opts Options) (*Server, error) {
	if backend == nil {
		return nil, errors.New("backend is required")
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.IPCDir == "" {
		opts.IPCDir = os.TempDir()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	s := &Server{
		backend:        backend,
		scene:          backend.Scene(),
		seat:           backend.Seat(),
		cursor:         backend.Cursor(),
		layout:         display.NewLayout(),
		outputs:        make(map[string]toolkit.Output),
		byToplevel:     make(map[toolkit.Toplevel]Handle),
		bridge:         ipc.NewBridge(opts.Fs, opts.IPCDir),
		thumbs:         thumbnail.NewWriter(opts.Fs, opts.IPCDir),
		startupCommand: opts.StartupCommand,
		pollInterval:   opts.PollInterval,
		calls:          make(chan func()),
		stopped:        make(chan struct{}),
		quit:           make(chan struct{}),
	}
	s.handlers = s.eventHandlers()
	return s, nil
}

// on adapts a typed handler to the dispatch table.
func on[E toolkit.Event](fn func(E)) func(toolkit.Event) {
	return func(ev toolkit.Event) {
		typed, ok := ev.(E)
		if !ok {
			logger.Warnf("Dropping %s event with unexpected type %T", ev.Kind(), ev)
			return
		}
		fn(typed)
	}
}

func (s *Server) eventHandlers() map[toolkit.EventKind]func(toolkit.Event) {
	return map[toolkit.EventKind]func(toolkit.Event){
		toolkit.EventNewInput:              on(s.handleNewInput),
		toolkit.EventInputDestroy:          on(s.handleInputDestroy),
		toolkit.EventKeyboardKey:           on(s.handleKey),
		toolkit.EventKeyboardModifiers:     on(s.handleModifiers),
		toolkit.EventPointerMotion:         on(s.handlePointerMotion),
		toolkit.EventPointerMotionAbsolute: on(s.handlePointerMotionAbsolute),
		toolkit.EventPointerButton:         on(s.handlePointerButton),
		toolkit.EventPointerAxis:           on(s.handlePointerAxis),
		toolkit.EventPointerFrame:          on(s.handlePointerFrame),
		toolkit.EventRequestSetCursor:      on(s.handleRequestSetCursor),
		toolkit.EventRequestSetSelection:   on(s.handleRequestSetSelection),
		toolkit.EventNewOutput:             on(s.handleNewOutput),
		toolkit.EventOutputFrame:           on(s.handleOutputFrame),
		toolkit.EventOutputRequestState:    on(s.handleOutputRequestState),
		toolkit.EventOutputDestroy:         on(s.handleOutputDestroy),
		toolkit.EventNewToplevel:           on(s.handleNewToplevel),
		toolkit.EventNewPopup:              on(s.handleNewPopup),
		toolkit.EventToplevelMap:           on(s.handleMap),
		toolkit.EventToplevelUnmap:         on(s.handleUnmap),
		toolkit.EventToplevelCommit:        on(s.handleCommit),
		toolkit.EventToplevelDestroy:       on(s.handleToplevelDestroy),
		toolkit.EventRequestMove:           on(s.handleRequestMove),
		toolkit.EventRequestResize:         on(s.handleRequestResize),
		toolkit.EventRequestMaximize:       on(s.handleRequestMaximize),
		toolkit.EventRequestFullscreen:     on(s.handleRequestFullscreen),
		toolkit.EventPopupCommit:           on(s.handlePopupCommit),
		toolkit.EventPopupDestroy:          on(s.handlePopupDestroy),
	}
}

// Dispatch runs the handler for one backend event.
func (s *Server) Dispatch(ev toolkit.Event) {
	if ev == nil {
		return
	}
	handler, ok := s.handlers[ev.Kind()]
	if !ok {
		logger.Debugf("No handler for %s", ev.Kind())
		return
	}
	handler(ev)
}

// SetPublisher registers a hook called with every exported snapshot.
func (s *Server) SetPublisher(fn func(ipc.Snapshot)) {
	s.publisher = fn
}

// Bridge exposes the file exchange used with the shell.
func (s *Server) Bridge() *ipc.Bridge { return s.bridge }

// Socket returns the display socket name clients should connect to.
func (s *Server) Socket() string { return s.backend.Socket() }

// Terminate asks the event loop to stop.
func (s *Server) Terminate() {
	if s.quitting {
		return
	}
	s.quitting = true
	close(s.quit)
}

// Terminated reports whether Terminate was called.
func (s *Server) Terminated() bool { return s.quitting }

// Run starts the backend and processes events until ctx is cancelled, the
// backend closes its event stream or Terminate is called.
func (s *Server) Run(ctx context.Context) error {
	defer close(s.stopped)

	if err := s.backend.Start(); err != nil {
		return fmt.Errorf("failed to start backend: %w", err)
	}
	logger.Infof("Running compositor on WAYLAND_DISPLAY=%s", s.backend.Socket())

	s.prepareExchange()

	if s.startupCommand != "" {
		if err := s.launch(s.startupCommand); err != nil {
			logger.Errorf("Failed to launch startup command: %v", err)
		}
	}

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	events := s.backend.Events()
	for {
		select {
		case <-ctx.Done():
			logger.Info("Context cancelled, shutting down")
			return nil
		case <-s.quit:
			logger.Info("Terminate requested, shutting down")
			return nil
		case ev, ok := <-events:
			if !ok {
				logger.Info("Backend event stream closed")
				return nil
			}
			s.Dispatch(ev)
		case fn := <-s.calls:
			fn()
		case <-ticker.C:
			s.PollActions()
		}
	}
}

// prepareExchange removes leftovers from a previous session and publishes
// the initial, empty state.
func (s *Server) prepareExchange() {
	if n, err := s.thumbs.CleanStale(); err != nil {
		logger.Warnf("Failed to clean stale thumbnails: %v", err)
	} else if n > 0 {
		logger.Debugf("Removed %d stale thumbnail files", n)
	}
	if err := s.bridge.ClearAction(); err != nil {
		logger.Warnf("Failed to clear pending action: %v", err)
	}
	s.exportState()
}

// launch runs command in the background with the display socket exported.
func (s *Server) launch(command string) error {
	cmd := exec.Command("/bin/sh", "-c", command)
	cmd.Env = append(os.Environ(), "WAYLAND_DISPLAY="+s.backend.Socket())
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return err
	}
	logger.Infof("Started %q (pid %d)", command, cmd.Process.Pid)

	go func() {
		if err := cmd.Wait(); err != nil {
			logger.Debugf("Startup command exited: %v", err)
		}
	}()
	return nil
}

// call runs fn on the event loop and waits for it.
func (s *Server) call(fn func()) error {
	done := make(chan struct{})
	wrapped := func() {
		defer close(done)
		fn()
	}

	select {
	case s.calls <- wrapped:
	case <-s.stopped:
		return ErrNotRunning
	case <-time.After(callTimeout):
		return ErrBusy
	}
	<-done
	return nil
}
