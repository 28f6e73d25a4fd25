package ui

import (
	"fmt"
	"strings"

	"github.com/bnema/waydock/internal/ipc"
)

// Section is one list of a snapshot as shown to the user.
type Section struct {
	Title   string
	Entries []ipc.Entry
}

// Sections returns the snapshot lists in display order.
func Sections(snap ipc.Snapshot) []Section {
	return []Section{
		{Title: "Active", Entries: snap.Active},
		{Title: "Docked left", Entries: snap.DockedLeft},
		{Title: "Docked right", Entries: snap.DockedRight},
	}
}

// HoverLabel describes the hover indicator, or "" when nothing is dragged
// over an edge.
func HoverLabel(hover int) string {
	switch hover {
	case ipc.HoverLeft:
		return IconLeft + " dropping on the left"
	case ipc.HoverRight:
		return "dropping on the right " + IconRight
	default:
		return ""
	}
}

// RenderEntry renders one window line.
func RenderEntry(e ipc.Entry, selected bool) string {
	line := IDStyle.Render(e.ID) + NameStyle.Render(e.Name) + " " + TextStyle.Render(e.Title)
	if e.Maximized {
		line += " " + MaximizedBadge
	}
	if selected {
		return SelectedStyle.Render(IconCursor) + " " + line
	}
	return "  " + line
}

// RenderSnapshot renders the whole workspace. The entry whose id matches
// selected is highlighted.
func RenderSnapshot(snap ipc.Snapshot, selected string) string {
	var b strings.Builder

	if label := HoverLabel(snap.Hover); label != "" {
		b.WriteString(HoverStyle.Render(label))
		b.WriteString("\n\n")
	}

	for i, sec := range Sections(snap) {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(SubheaderStyle.Render(fmt.Sprintf("%s (%d)", sec.Title, len(sec.Entries))))
		b.WriteString("\n")
		if len(sec.Entries) == 0 {
			b.WriteString(SubtleStyle.Render("  none"))
			b.WriteString("\n")
			continue
		}
		for _, e := range sec.Entries {
			b.WriteString(RenderEntry(e, e.ID == selected))
			b.WriteString("\n")
		}
	}

	return b.String()
}
