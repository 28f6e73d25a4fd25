package ipc

import (
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/spf13/afero"
)

// Well-known file names inside the IPC directory.
const (
	StateFileName  = "workspace_state.json"
	ActionFileName = "dock_action.txt"
)

// Bridge is the file side of the workspace channel: the compositor publishes
// snapshots to the state file and consumes one record at a time from the
// action file. The shell does the reverse.
type Bridge struct {
	fs  afero.Fs
	dir string
}

// NewBridge returns a bridge rooted at dir.
func NewBridge(fs afero.Fs, dir string) *Bridge {
	return &Bridge{fs: fs, dir: dir}
}

// Dir is the directory holding the channel files.
func (b *Bridge) Dir() string { return b.dir }

func (b *Bridge) StatePath() string { return path.Join(b.dir, StateFileName) }

func (b *Bridge) ActionPath() string { return path.Join(b.dir, ActionFileName) }

// WriteState replaces the state file. Readers see the old or the new
// document, never a partial one.
func (b *Bridge) WriteState(s Snapshot) error {
	data, err := s.Encode()
	if err != nil {
		return err
	}
	return writeAtomic(b.fs, b.StatePath(), data)
}

// ReadState parses the state file. A missing file wraps os.ErrNotExist.
func (b *Bridge) ReadState() (Snapshot, error) {
	data, err := afero.ReadFile(b.fs, b.StatePath())
	if err != nil {
		return Snapshot{}, err
	}
	return DecodeSnapshot(data)
}

// TakeAction consumes the pending action record. The file is deleted
// whenever it existed, even if its content does not parse, so a bad record
// is never reprocessed. ok is false when no record was pending.
func (b *Bridge) TakeAction() (req Request, ok bool, err error) {
	data, err := afero.ReadFile(b.fs, b.ActionPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Request{}, false, nil
		}
		return Request{}, false, fmt.Errorf("reading action file: %w", err)
	}
	if err := b.fs.Remove(b.ActionPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Request{}, false, fmt.Errorf("removing action file: %w", err)
	}

	req, err = ParseRequest(string(data))
	if err != nil {
		return Request{}, true, err
	}
	return req, true, nil
}

// SubmitAction writes a record for the compositor to pick up on its next
// poll, replacing any record still pending.
func (b *Bridge) SubmitAction(req Request) error {
	return writeAtomic(b.fs, b.ActionPath(), []byte(req.String()+"\n"))
}

// ClearAction removes a pending record. Idempotent.
func (b *Bridge) ClearAction() error {
	if err := b.fs.Remove(b.ActionPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing action file: %w", err)
	}
	return nil
}

// writeAtomic writes data next to target, syncs it and renames it into
// place.
func writeAtomic(fs afero.Fs, target string, data []byte) error {
	temporaryPath := target + ".tmp"

	file, err := fs.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		fs.Remove(temporaryPath)
		return fmt.Errorf("writing temporary file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		fs.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary file: %w", err)
	}
	if err := file.Close(); err != nil {
		fs.Remove(temporaryPath)
		return fmt.Errorf("closing temporary file: %w", err)
	}

	if err := fs.Rename(temporaryPath, target); err != nil {
		fs.Remove(temporaryPath)
		return fmt.Errorf("renaming %s into place: %w", path.Base(target), err)
	}
	return nil
}
