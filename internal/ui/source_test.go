package ui

import (
	"context"
	"testing"
	"time"

	"github.com/bnema/waydock/internal/ipc"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan ipc.Snapshot) ipc.Snapshot {
	t.Helper()
	select {
	case snap, ok := <-ch:
		require.True(t, ok, "stream closed")
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot received")
		return ipc.Snapshot{}
	}
}

func TestFileSourceWatch(t *testing.T) {
	bridge := ipc.NewBridge(afero.NewOsFs(), t.TempDir())
	require.NoError(t, bridge.WriteState(sampleSnapshot()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := NewFileSource(bridge)
	updates, err := src.Watch(ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, receive(t, updates).Len(), "current state is sent first")

	next := ipc.NewSnapshot()
	next.Hover = ipc.HoverLeft
	require.NoError(t, bridge.WriteState(next))

	// Several events may fire for one replacement; wait for the new content.
	require.Eventually(t, func() bool {
		select {
		case snap := <-updates:
			return snap.Hover == ipc.HoverLeft && snap.Len() == 0
		default:
			return false
		}
	}, 2*time.Second, 5*time.Millisecond)

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

func TestFileSourceWithoutState(t *testing.T) {
	dir := t.TempDir()
	bridge := ipc.NewBridge(afero.NewOsFs(), dir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, err := NewFileSource(bridge).Watch(ctx)
	require.NoError(t, err)

	select {
	case <-updates:
		t.Fatal("nothing to send before the first export")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, bridge.WriteState(sampleSnapshot()))
	assert.Equal(t, 4, receive(t, updates).Len())
}

func TestFileSourceMissingDir(t *testing.T) {
	bridge := ipc.NewBridge(afero.NewOsFs(), "/nonexistent/waydock")
	_, err := NewFileSource(bridge).Watch(context.Background())
	assert.Error(t, err)
}

func TestFileSourceSubmit(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/tmp", 0755))
	bridge := ipc.NewBridge(fs, "/tmp")

	req := ipc.Request{Action: ipc.ActionMaximize, ID: "0.1"}
	require.NoError(t, NewFileSource(bridge).Submit(req))

	got, ok, err := bridge.TakeAction()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, req, got)
}

func TestConnectFallsBackToFiles(t *testing.T) {
	bridge := ipc.NewBridge(afero.NewMemMapFs(), "/tmp")
	assert.IsType(t, &FileSource{}, Connect(nil, bridge))

	client, err := ipc.NewClient(t.TempDir() + "/missing.sock")
	require.NoError(t, err)
	assert.IsType(t, &FileSource{}, Connect(client, bridge))
}
