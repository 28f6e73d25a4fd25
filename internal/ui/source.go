package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bnema/waydock/internal/ipc"
	"github.com/bnema/waydock/internal/logger"
	"github.com/fsnotify/fsnotify"
)

// Source feeds the monitor with snapshots and carries its actions back to
// the compositor.
type Source interface {
	// Watch streams snapshots until ctx is done. The channel is closed when
	// the stream ends.
	Watch(ctx context.Context) (<-chan ipc.Snapshot, error)
	Submit(req ipc.Request) error
}

// SocketSource talks to a running compositor over its socket.
type SocketSource struct {
	client *ipc.Client
}

// NewSocketSource wraps an ipc client.
func NewSocketSource(client *ipc.Client) *SocketSource {
	return &SocketSource{client: client}
}

func (s *SocketSource) Watch(ctx context.Context) (<-chan ipc.Snapshot, error) {
	return s.client.Subscribe(ctx)
}

func (s *SocketSource) Submit(req ipc.Request) error {
	return s.client.Do(req)
}

// FileSource follows the exported state file and submits through the action
// file. It needs the bridge to sit on the OS filesystem since changes are
// picked up with inotify.
type FileSource struct {
	bridge *ipc.Bridge
}

// NewFileSource wraps a file bridge.
func NewFileSource(bridge *ipc.Bridge) *FileSource {
	return &FileSource{bridge: bridge}
}

func (s *FileSource) Submit(req ipc.Request) error {
	return s.bridge.SubmitAction(req)
}

// Watch sends the current state, if any, and then a fresh read every time the
// state file is replaced. Exports are renamed into place, so the interesting
// events are creates; plain writes are honoured for editors and tests.
func (s *FileSource) Watch(ctx context.Context) (<-chan ipc.Snapshot, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(s.bridge.Dir()); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", s.bridge.Dir(), err)
	}

	out := make(chan ipc.Snapshot)
	go func() {
		defer close(out)
		defer watcher.Close()

		send := func() bool {
			snap, err := s.bridge.ReadState()
			if err != nil {
				if !errors.Is(err, os.ErrNotExist) {
					logger.Debugf("Skipping unreadable state: %v", err)
				}
				return true
			}
			select {
			case out <- snap:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !send() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != ipc.StateFileName {
					continue
				}
				if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
					continue
				}
				if !send() {
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warnf("State watcher error: %v", err)
			}
		}
	}()
	return out, nil
}

// Connect prefers the compositor socket and falls back to the files when
// client is nil or the socket does not answer.
func Connect(client *ipc.Client, bridge *ipc.Bridge) Source {
	if client != nil && client.IsRunning() {
		return NewSocketSource(client)
	}
	logger.Debug("Socket unavailable, following the state file", "dir", bridge.Dir())
	return NewFileSource(bridge)
}
