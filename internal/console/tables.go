package console

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/vk/tamigo/internal/analyzer"
	"github.com/vk/tamigo/internal/savestore"
)

// RenderReport writes the analyzer report as tables, one per entity kind,
// followed by the unreachable code warnings.
func RenderReport(w io.Writer, r *analyzer.Report) {
	labels := table.NewWriter()
	labels.SetTitle("Labels")
	labels.AppendHeader(table.Row{"Name", "Kind", "Used", "Defined at"})
	for _, e := range r.Locations {
		kind := "action"
		if e.IsLocation {
			kind = "location"
		}
		labels.AppendRow(table.Row{e.Name, kind, yesNo(e.Used), where(e.File, e.Line)})
	}
	fmt.Fprintln(w, labels.Render())

	for _, group := range []struct {
		title   string
		entries []analyzer.Entry
	}{
		{"Variables", r.Variables},
		{"Items", r.Items},
		{"Characters", r.Characters},
	} {
		t := table.NewWriter()
		t.SetTitle(group.title)
		t.AppendHeader(table.Row{"Name", "Used", "Defined at"})
		for _, e := range group.entries {
			t.AppendRow(table.Row{e.Name, yesNo(e.Used), where(e.File, e.Line)})
		}
		fmt.Fprintln(w, t.Render())
	}

	for _, warn := range r.Unreachable {
		fmt.Fprintf(w, "warning: unreachable code at %s\n", where(warn.File, warn.Line))
	}
}

// RenderSlots writes save slots as a numbered table with their age
// relative to now.
func RenderSlots(w io.Writer, slots []savestore.Slot, now time.Time) {
	if len(slots) == 0 {
		fmt.Fprintln(w, "No saved games.")
		return
	}
	t := table.NewWriter()
	t.SetTitle("Saved games")
	t.AppendHeader(table.Row{"#", "Saved", "Age"})
	for i, slot := range slots {
		t.AppendRow(table.Row{i + 1, slot.Name(), humanize.RelTime(slot.Time(), now, "ago", "from now")})
	}
	fmt.Fprintln(w, t.Render())
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func where(file string, line int) string {
	return fmt.Sprintf("%s:%d", file, line+1)
}
