package ipc

import (
	"encoding/json"
	"fmt"
)

// Hover values as they appear in the state file.
const (
	HoverNone  = 0
	HoverLeft  = 1
	HoverRight = 2
)

// Fallbacks for windows that never set an app id or title.
const (
	UnknownName  = "Unknown"
	UnknownTitle = "Unknown Window"
)

// Entry describes one window in a snapshot.
type Entry struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Title     string `json:"title"`
	Maximized bool   `json:"maximized"`
}

// NewEntry builds an entry, substituting the fallbacks for empty strings.
func NewEntry(id, appID, title string, maximized bool) Entry {
	if appID == "" {
		appID = UnknownName
	}
	if title == "" {
		title = UnknownTitle
	}
	return Entry{ID: id, Name: appID, Title: title, Maximized: maximized}
}

// Snapshot is the workspace state published for the shell. Lists are in
// stacking order, most recently focused first.
type Snapshot struct {
	Hover       int     `json:"hover"`
	Active      []Entry `json:"active"`
	DockedLeft  []Entry `json:"docked_left"`
	DockedRight []Entry `json:"docked_right"`
}

// NewSnapshot returns an empty snapshot whose lists encode as [].
func NewSnapshot() Snapshot {
	return Snapshot{
		Active:      []Entry{},
		DockedLeft:  []Entry{},
		DockedRight: []Entry{},
	}
}

// Find returns the entry with id from any list.
func (s Snapshot) Find(id string) (Entry, bool) {
	for _, list := range [][]Entry{s.Active, s.DockedLeft, s.DockedRight} {
		for _, e := range list {
			if e.ID == id {
				return e, true
			}
		}
	}
	return Entry{}, false
}

// Len is the number of windows in the snapshot.
func (s Snapshot) Len() int {
	return len(s.Active) + len(s.DockedLeft) + len(s.DockedRight)
}

// Encode renders the snapshot as the indented JSON document the shell reads.
func (s Snapshot) Encode() ([]byte, error) {
	if s.Active == nil {
		s.Active = []Entry{}
	}
	if s.DockedLeft == nil {
		s.DockedLeft = []Entry{}
	}
	if s.DockedRight == nil {
		s.DockedRight = []Entry{}
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling workspace state: %w", err)
	}
	return append(data, '\n'), nil
}

// DecodeSnapshot parses a state document.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	s := NewSnapshot()
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("parsing workspace state: %w", err)
	}
	return s, nil
}
