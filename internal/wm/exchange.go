package wm

import (
	"fmt"

	"github.com/bnema/waydock/internal/display"
	"github.com/bnema/waydock/internal/ipc"
	"github.com/bnema/waydock/internal/logger"
)

// Snapshot describes the windows as the shell sees them.
func (s *Server) Snapshot() ipc.Snapshot {
	snap := ipc.NewSnapshot()
	switch s.hover {
	case display.EdgeLeft:
		snap.Hover = ipc.HoverLeft
	case display.EdgeRight:
		snap.Hover = ipc.HoverRight
	}

	for _, w := range s.stack {
		entry := ipc.NewEntry(w.handle.String(), w.AppID(), w.Title(), w.maximized)
		switch w.docked {
		case display.EdgeLeft:
			snap.DockedLeft = append(snap.DockedLeft, entry)
		case display.EdgeRight:
			snap.DockedRight = append(snap.DockedRight, entry)
		default:
			if !w.IsShell() {
				snap.Active = append(snap.Active, entry)
			}
		}
	}
	return snap
}

// exportState writes the snapshot for the shell and pushes it to socket
// subscribers.
func (s *Server) exportState() {
	snap := s.Snapshot()
	if err := s.bridge.WriteState(snap); err != nil {
		logger.Debugf("Failed to write workspace state: %v", err)
	}
	if s.publisher != nil {
		s.publisher(snap)
	}
}

// PollActions consumes a pending action file, if any.
func (s *Server) PollActions() {
	req, ok, err := s.bridge.TakeAction()
	if !ok {
		if err != nil {
			logger.Debugf("Failed to read action file: %v", err)
		}
		return
	}
	if err != nil {
		logger.Debugf("Ignoring action: %v", err)
		return
	}
	if err := s.Apply(req); err != nil {
		logger.Debugf("Action %s failed: %v", req, err)
	}
}

// Apply runs one shell action against the window it names and exports the
// resulting state.
func (s *Server) Apply(req ipc.Request) error {
	h, err := ParseHandle(req.ID)
	if err != nil {
		return err
	}
	w, ok := s.Window(h)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchWindow, req.ID)
	}

	switch req.Action {
	case ipc.ActionDockLeft:
		s.dock(w, display.EdgeLeft)
	case ipc.ActionDockRight:
		s.dock(w, display.EdgeRight)
	case ipc.ActionUndock:
		s.undock(w)
	case ipc.ActionMaximize:
		s.maximize(w)
	case ipc.ActionRestore:
		s.restore(w)
	case ipc.ActionClose:
		w.toplevel.SendClose()
	default:
		return fmt.Errorf("%w: %s", ipc.ErrUnknownAction, req.Action)
	}

	logger.Debugf("Applied %s to %s", req.Action, w.handle)
	s.exportState()
	return nil
}

// HandleState answers a socket state query from the event loop.
func (s *Server) HandleState() (ipc.Snapshot, error) {
	var snap ipc.Snapshot
	if err := s.call(func() { snap = s.Snapshot() }); err != nil {
		return ipc.Snapshot{}, err
	}
	return snap, nil
}

// HandleAction applies a socket action on the event loop.
func (s *Server) HandleAction(req ipc.Request) error {
	var applyErr error
	if err := s.call(func() { applyErr = s.Apply(req) }); err != nil {
		return err
	}
	return applyErr
}

var _ ipc.Handler = (*Server)(nil)
