package ipc

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownAction is returned for an action name outside the vocabulary.
	ErrUnknownAction = errors.New("unknown action")
	// ErrMalformedAction is returned for a record that is not "<ACTION> <id>".
	ErrMalformedAction = errors.New("malformed action record")
)

// Action is a window operation the shell can request.
type Action int

const (
	ActionDockLeft Action = iota + 1
	ActionDockRight
	ActionUndock
	ActionMaximize
	ActionRestore
	ActionClose
)

// maxActionName bounds the action word the way the reader always has.
const maxActionName = 31

var actionNames = map[Action]string{
	ActionDockLeft:  "DOCK_LEFT",
	ActionDockRight: "DOCK_RIGHT",
	ActionUndock:    "UNDOCK",
	ActionMaximize:  "MAXIMIZE",
	ActionRestore:   "RESTORE",
	ActionClose:     "CLOSE",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Description is a short human label used by the CLI.
func (a Action) Description() string {
	switch a {
	case ActionDockLeft:
		return "Dock to the left panel"
	case ActionDockRight:
		return "Dock to the right panel"
	case ActionUndock:
		return "Bring back from the dock"
	case ActionMaximize:
		return "Maximize over all outputs"
	case ActionRestore:
		return "Restore from maximized"
	case ActionClose:
		return "Ask the client to close"
	default:
		return ""
	}
}

// Actions returns the full vocabulary in display order.
func Actions() []Action {
	return []Action{ActionDockLeft, ActionDockRight, ActionUndock, ActionMaximize, ActionRestore, ActionClose}
}

// ParseAction parses an action name. Matching is exact.
func ParseAction(name string) (Action, error) {
	for a, n := range actionNames {
		if n == name {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

// Request is one pending action against a window.
type Request struct {
	Action Action `json:"action"`
	ID     string `json:"id"`
}

// ParseRequest parses a "<ACTION> <id>" record. Only the first line counts
// and anything after the id is ignored.
func ParseRequest(record string) (Request, error) {
	line, _, _ := strings.Cut(record, "\n")
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Request{}, fmt.Errorf("%w: %q", ErrMalformedAction, line)
	}
	if len(fields[0]) > maxActionName {
		return Request{}, fmt.Errorf("%w: action name too long", ErrMalformedAction)
	}

	action, err := ParseAction(fields[0])
	if err != nil {
		return Request{}, err
	}
	return Request{Action: action, ID: fields[1]}, nil
}

// String formats the request as an action record.
func (r Request) String() string {
	return r.Action.String() + " " + r.ID
}

// MarshalText encodes the action by name so JSON frames stay readable.
func (a Action) MarshalText() ([]byte, error) {
	if _, ok := actionNames[a]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAction, int(a))
	}
	return []byte(a.String()), nil
}

func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
