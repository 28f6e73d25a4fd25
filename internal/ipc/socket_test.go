package ipc

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockHandler implements Handler for testing
type MockHandler struct {
	mu       sync.Mutex
	state    Snapshot
	requests []Request
	err      error
}

func (m *MockHandler) HandleState() (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return Snapshot{}, m.err
	}
	return m.state, nil
}

func (m *MockHandler) HandleAction(req Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.requests = append(m.requests, req)
	return nil
}

func startServer(t *testing.T, handler Handler) (*SocketServer, *Client) {
	t.Helper()

	// Unix socket paths are length-limited; keep them short.
	dir, err := os.MkdirTemp("", "wd")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	path := filepath.Join(dir, "s.sock")
	server, err := NewSocketServer(path, handler)
	require.NoError(t, err)
	require.NoError(t, server.Start())
	t.Cleanup(server.Stop)

	client, err := NewClient(path)
	require.NoError(t, err)
	client.SetTimeout(2 * time.Second)
	return server, client
}

func TestSocketServerStartStop(t *testing.T) {
	server, _ := startServer(t, &MockHandler{})

	_, err := os.Stat(server.Path())
	require.NoError(t, err, "socket file should exist")

	// Starting again should not error
	assert.NoError(t, server.Start())

	server.Stop()
	_, err = os.Stat(server.Path())
	assert.True(t, os.IsNotExist(err), "socket file should be cleaned up")

	// Stopping again should not panic
	server.Stop()
}

func TestSocketStateAndAction(t *testing.T) {
	handler := &MockHandler{state: NewSnapshot()}
	handler.state.DockedRight = append(handler.state.DockedRight, NewEntry("3.1", "mpv", "video", false))
	_, client := startServer(t, handler)

	snap, err := client.State()
	require.NoError(t, err)
	assert.Equal(t, handler.state, snap)
	assert.True(t, client.IsRunning())

	require.NoError(t, client.Do(Request{Action: ActionUndock, ID: "3.1"}))
	handler.mu.Lock()
	assert.Equal(t, []Request{{Action: ActionUndock, ID: "3.1"}}, handler.requests)
	handler.mu.Unlock()
}

func TestSocketHandlerErrors(t *testing.T) {
	handler := &MockHandler{err: errors.New("no such window")}
	_, client := startServer(t, handler)

	_, err := client.State()
	assert.ErrorContains(t, err, "no such window")

	err = client.Do(Request{Action: ActionClose, ID: "1.1"})
	assert.ErrorContains(t, err, "no such window")
}

func TestSocketSubscribe(t *testing.T) {
	handler := &MockHandler{state: NewSnapshot()}
	server, client := startServer(t, handler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, err := client.Subscribe(ctx)
	require.NoError(t, err)

	select {
	case snap := <-updates:
		assert.Zero(t, snap.Len(), "first frame is the current state")
	case <-time.After(2 * time.Second):
		t.Fatal("no initial snapshot")
	}

	next := NewSnapshot()
	next.Hover = HoverLeft
	require.Eventually(t, func() bool {
		server.Publish(next)
		select {
		case snap := <-updates:
			return snap.Hover == HoverLeft
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-updates:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestClientNotRunning(t *testing.T) {
	client, err := NewClient(filepath.Join(t.TempDir(), "missing.sock"))
	require.NoError(t, err)

	_, err = client.State()
	assert.ErrorIs(t, err, ErrNotRunning)
	assert.False(t, client.IsRunning())
}

func TestDefaultSocketPath(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	path, err := DefaultSocketPath()
	require.NoError(t, err)
	assert.Equal(t, "/run/user/1000/waydock.sock", path)

	t.Setenv("XDG_RUNTIME_DIR", "")
	path, err = DefaultSocketPath()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path))
	assert.Contains(t, path, "/tmp/waydock-")
}
