package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	LevelTrace slog.Level = slog.LevelInfo + 1
)

func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// PrintSummary renders the relay tree, the node placement and the timing
// budget of a run as tables.
func PrintSummary(w io.Writer, a *Artifacts) {
	topo := a.Topology

	relayTable := table.NewWriter()
	relayTable.SetTitle(fmt.Sprintf("Relay tree (%d relay nodes)", topo.RelayCount()))
	relayTable.AppendHeader(table.Row{"Branch", "Children", "Depth"})
	branches := topo.Branches()
	for _, id := range topo.BranchIDs() {
		relayTable.AppendRow(table.Row{id, joinInts(branches[id]), topo.Depth(id)})
	}
	if len(branches) == 0 {
		relayTable.AppendRow(table.Row{0, "-", 0})
	}
	fmt.Fprintln(w, relayTable.Render())
	fmt.Fprintln(w)

	nodeTable := table.NewWriter()
	nodeTable.SetTitle("Config nodes")
	nodeTable.AppendHeader(table.Row{"ID", "Name", "Width", "Default", "Relay", "Writes", "References"})
	writes := make(map[int]int)
	for _, op := range a.Plan {
		writes[op.NodeID]++
	}
	for _, c := range topo.Configs {
		refs := "-"
		if seq, ok := a.Reference[c.ID]; ok {
			refs = fmt.Sprintf("%d", len(seq))
		}
		nodeTable.AppendRow(table.Row{c.ID, c.Name, c.Width, c.Default.String(), c.Relay, writes[c.ID], refs})
	}
	fmt.Fprintln(w, nodeTable.Render())
	fmt.Fprintln(w)

	budgetTable := table.NewWriter()
	budgetTable.SetTitle("Timing budget")
	budgetTable.AppendRows([]table.Row{
		{"Test vector bits", a.Budget.VectorLen},
		{"Shift chain length", a.Budget.ShiftChainLen},
		{"Relay hops", a.Budget.RelayHops},
		{"Cycles", a.Budget.Cycles},
		{"Simulation time", a.Budget.SimTime},
	})
	fmt.Fprintln(w, budgetTable.Render())
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ", ")
}
