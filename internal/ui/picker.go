package ui

import (
	"errors"
	"fmt"
	"slices"

	"github.com/bnema/waydock/internal/ipc"
	"github.com/charmbracelet/huh"
)

// ErrNoWindows is returned when there is nothing to pick from.
var ErrNoWindows = errors.New("no windows in the workspace")

// ActionsFor lists the actions that make sense for the window id in snap.
func ActionsFor(snap ipc.Snapshot, id string) []ipc.Action {
	switch {
	case slices.ContainsFunc(snap.DockedLeft, hasID(id)):
		return []ipc.Action{ipc.ActionUndock, ipc.ActionDockRight, ipc.ActionClose}
	case slices.ContainsFunc(snap.DockedRight, hasID(id)):
		return []ipc.Action{ipc.ActionUndock, ipc.ActionDockLeft, ipc.ActionClose}
	}

	entry, ok := snap.Find(id)
	if !ok {
		return nil
	}
	actions := []ipc.Action{ipc.ActionDockLeft, ipc.ActionDockRight}
	if entry.Maximized {
		actions = append(actions, ipc.ActionRestore)
	} else {
		actions = append(actions, ipc.ActionMaximize)
	}
	return append(actions, ipc.ActionClose)
}

func hasID(id string) func(ipc.Entry) bool {
	return func(e ipc.Entry) bool { return e.ID == id }
}

// WindowOptions builds the window choices in display order.
func WindowOptions(snap ipc.Snapshot) []huh.Option[string] {
	var options []huh.Option[string]
	for _, sec := range Sections(snap) {
		for _, e := range sec.Entries {
			label := fmt.Sprintf("%s  %s - %s (%s)", e.ID, e.Name, e.Title, sec.Title)
			options = append(options, huh.NewOption(label, e.ID))
		}
	}
	return options
}

// NewActionForm builds the two-step picker writing into req.
func NewActionForm(snap ipc.Snapshot, req *ipc.Request) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select a window").
				Options(WindowOptions(snap)...).
				Value(&req.ID),
		),
		huh.NewGroup(
			huh.NewSelect[ipc.Action]().
				Title("Select an action").
				OptionsFunc(func() []huh.Option[ipc.Action] {
					var options []huh.Option[ipc.Action]
					for _, a := range ActionsFor(snap, req.ID) {
						options = append(options, huh.NewOption(a.Description(), a))
					}
					return options
				}, &req.ID).
				Value(&req.Action),
		),
	)
}

// PickAction asks the user for a window and an action against it.
func PickAction(snap ipc.Snapshot) (ipc.Request, error) {
	if snap.Len() == 0 {
		return ipc.Request{}, ErrNoWindows
	}

	var req ipc.Request
	if err := NewActionForm(snap, &req).Run(); err != nil {
		return ipc.Request{}, fmt.Errorf("selection cancelled: %w", err)
	}
	return req, nil
}
