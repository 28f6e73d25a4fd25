package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/bnema/waydock/internal/config"
	"github.com/bnema/waydock/internal/ipc"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs the root command with fresh global state and returns
// what it printed.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	reset := func() {
		viper.Reset()
		config.Set(nil)
		config.SetConfigPath("")
		configPath, logLevel, stateJSON = "", "", false
		_ = configInitCmd.Flags().Set("force", "false")
	}
	reset()
	t.Cleanup(reset)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// isolate points config, state and socket lookups at temp dirs.
func isolate(t *testing.T) (configHome, ipcDir string) {
	t.Helper()
	configHome = t.TempDir()
	ipcDir = t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("WAYDOCK_IPC_DIR", ipcDir)
	t.Setenv("WAYDOCK_IPC_SOCKET", "false")
	chdirTemp(t, t.TempDir())
	return configHome, ipcDir
}

func TestConfigInit(t *testing.T) {
	configHome, _ := isolate(t)
	path := filepath.Join(configHome, "waydock", "waydock.toml")

	t.Run("creates config file when it doesn't exist", func(t *testing.T) {
		_, err := executeCommand(t, "config", "init")
		require.NoError(t, err)
		_, err = os.Stat(path)
		assert.NoError(t, err, "config file was not created")
	})

	require.NoError(t, os.WriteFile(path, []byte("test = true\n"), 0644))

	t.Run("doesn't overwrite existing config without force", func(t *testing.T) {
		_, err := executeCommand(t, "config", "init")
		require.NoError(t, err)
		content, _ := os.ReadFile(path)
		assert.Equal(t, "test = true\n", string(content))
	})

	t.Run("overwrites with force flag", func(t *testing.T) {
		_, err := executeCommand(t, "config", "init", "--force")
		require.NoError(t, err)
		content, _ := os.ReadFile(path)
		assert.Contains(t, string(content), "[compositor]")
	})
}

func TestConfigShow(t *testing.T) {
	isolate(t)

	out, err := executeCommand(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "[compositor]")
	assert.Contains(t, out, "headless")
	assert.Contains(t, out, "Whitelist Only: true")
}

func TestConfigWhitelist(t *testing.T) {
	isolate(t)

	_, err := executeCommand(t, "config", "whitelist", "add", "SHA256:abc")
	require.NoError(t, err)

	out, err := executeCommand(t, "config", "whitelist", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "1. SHA256:abc")

	_, err = executeCommand(t, "config", "whitelist", "remove", "SHA256:abc")
	require.NoError(t, err)

	out, err = executeCommand(t, "config", "whitelist", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No SSH keys in whitelist")

	_, err = executeCommand(t, "config", "whitelist", "remove", "SHA256:abc")
	assert.Error(t, err)
}

func TestInvalidConfigFails(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("[compositor\n"), 0644))

	_, err := executeCommand(t, "--config", path, "config", "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestUnknownLogLevel(t *testing.T) {
	isolate(t)
	_, err := executeCommand(t, "--log-level", "chatty", "version")
	assert.ErrorContains(t, err, "unknown log level")
}

func TestVersion(t *testing.T) {
	isolate(t)
	out, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "waydock "+Version))
}

func TestState(t *testing.T) {
	_, ipcDir := isolate(t)

	_, err := executeCommand(t, "state")
	assert.ErrorContains(t, err, "no workspace state found")

	snap := ipc.NewSnapshot()
	snap.Active = []ipc.Entry{{ID: "0.1", Name: "foot", Title: "term"}}
	snap.DockedRight = []ipc.Entry{{ID: "1.3", Name: "mpv", Title: "video"}}
	require.NoError(t, ipc.NewBridge(afero.NewOsFs(), ipcDir).WriteState(snap))

	out, err := executeCommand(t, "state")
	require.NoError(t, err)
	assert.Contains(t, out, "foot")
	assert.Contains(t, out, "Docked right (1)")

	out, err = executeCommand(t, "state", "--json")
	require.NoError(t, err)
	decoded, err := ipc.DecodeSnapshot([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, snap, decoded)
}

func TestActionFile(t *testing.T) {
	_, ipcDir := isolate(t)
	bridge := ipc.NewBridge(afero.NewOsFs(), ipcDir)

	out, err := executeCommand(t, "action", "dock_left", "0.1")
	require.NoError(t, err)
	assert.Contains(t, out, "Queued DOCK_LEFT 0.1")

	req, ok, err := bridge.TakeAction()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ipc.Request{Action: ipc.ActionDockLeft, ID: "0.1"}, req)

	_, err = executeCommand(t, "action", "SHRINK", "0.1")
	assert.ErrorIs(t, err, ipc.ErrUnknownAction)

	_, err = executeCommand(t, "action", "CLOSE")
	assert.Error(t, err)
}

type recordingHandler struct {
	mu       sync.Mutex
	requests []ipc.Request
	err      error
}

func (h *recordingHandler) HandleState() (ipc.Snapshot, error) {
	snap := ipc.NewSnapshot()
	snap.Active = []ipc.Entry{{ID: "4.2", Name: "socket-app", Title: "live"}}
	return snap, nil
}

func (h *recordingHandler) HandleAction(req ipc.Request) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests = append(h.requests, req)
	return h.err
}

func TestSocketPreferred(t *testing.T) {
	_, ipcDir := isolate(t)
	socketPath := filepath.Join(t.TempDir(), "waydock.sock")
	t.Setenv("WAYDOCK_IPC_SOCKET", "true")
	t.Setenv("WAYDOCK_IPC_SOCKET_PATH", socketPath)

	handler := &recordingHandler{}
	sock, err := ipc.NewSocketServer(socketPath, handler)
	require.NoError(t, err)
	require.NoError(t, sock.Start())
	defer sock.Stop()

	out, err := executeCommand(t, "state")
	require.NoError(t, err)
	assert.Contains(t, out, "socket-app")

	out, err = executeCommand(t, "action", "MAXIMIZE", "4.2")
	require.NoError(t, err)
	assert.Contains(t, out, ipc.ActionMaximize.Description())
	handler.mu.Lock()
	assert.Equal(t, []ipc.Request{{Action: ipc.ActionMaximize, ID: "4.2"}}, handler.requests)
	handler.mu.Unlock()

	exists, _ := afero.Exists(afero.NewOsFs(), filepath.Join(ipcDir, ipc.ActionFileName))
	assert.False(t, exists, "no action file when the socket answered")

	// A refusal is reported instead of falling back to the file.
	handler.mu.Lock()
	handler.err = assert.AnError
	handler.mu.Unlock()
	_, err = executeCommand(t, "action", "CLOSE", "9.9")
	assert.Error(t, err)
	exists, _ = afero.Exists(afero.NewOsFs(), filepath.Join(ipcDir, ipc.ActionFileName))
	assert.False(t, exists)
}

// chdirTemp changes the working directory to dir for the duration of the
// test, restoring it on cleanup (equivalent of testing.T.Chdir, Go 1.24+).
func chdirTemp(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}
