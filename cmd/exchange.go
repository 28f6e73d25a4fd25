package cmd

import (
	"errors"

	"github.com/bnema/waydock/internal/config"
	"github.com/bnema/waydock/internal/ipc"
	"github.com/bnema/waydock/internal/logger"
	"github.com/spf13/afero"
)

// newBridge opens the state/action files in the configured directory.
func newBridge() *ipc.Bridge {
	return ipc.NewBridge(afero.NewOsFs(), config.Get().IPC.Dir)
}

// newClient returns a socket client, or nil when the socket is disabled.
func newClient() *ipc.Client {
	cfg := config.Get()
	if !cfg.IPC.Socket {
		return nil
	}
	client, err := ipc.NewClient(cfg.IPC.SocketPath)
	if err != nil {
		logger.Debugf("No socket client: %v", err)
		return nil
	}
	return client
}

// fetchState asks the compositor first and falls back to the last export.
func fetchState() (ipc.Snapshot, error) {
	if client := newClient(); client != nil {
		snap, err := client.State()
		if err == nil {
			return snap, nil
		}
		logger.Debugf("Socket state failed, reading the state file: %v", err)
	}
	return newBridge().ReadState()
}

// submitAction applies req through the socket when the compositor answers
// there and through the action file otherwise. A refusal from a running
// compositor is returned as is.
func submitAction(req ipc.Request) (viaSocket bool, err error) {
	if client := newClient(); client != nil {
		err := client.Do(req)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, ipc.ErrNotRunning) {
			return true, err
		}
		logger.Debug("Compositor socket not answering, writing the action file")
	}
	return false, newBridge().SubmitAction(req)
}
