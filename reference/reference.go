// Package reference derives the value sequences each configuration node must
// visibly pass through while the test vector is applied.
package reference

import (
	"sort"

	"github.com/sarchlab/cfgnet/bits"
	"github.com/sarchlab/cfgnet/testplan"
	"github.com/sarchlab/cfgnet/topology"
)

// Table maps a configuration node id to its expected value sequence. The
// first entry is the node's default and adjacent entries always differ.
// Nodes the plan never writes have no entry.
type Table map[int][]bits.Vector

// Build walks the plan in order. A write that repeats the node's current
// value is not observable at the node output and is dropped.
func Build(topo *topology.Topology, plan testplan.Plan) (Table, error) {
	table := make(Table)

	for i, op := range plan {
		node, ok := topo.Config(op.NodeID)
		if !ok {
			return nil, &testplan.UnknownNodeError{NodeID: op.NodeID, Index: i, Line: op.Line}
		}

		seq, seen := table[op.NodeID]
		switch {
		case !seen && op.Value.Equal(node.Default):
			table[op.NodeID] = []bits.Vector{node.Default}
		case !seen:
			table[op.NodeID] = []bits.Vector{node.Default, op.Value}
		case !seq[len(seq)-1].Equal(op.Value):
			table[op.NodeID] = append(seq, op.Value)
		}
	}

	return table, nil
}

// IDs returns the node ids present in the table, ascending.
func (t Table) IDs() []int {
	ids := make([]int, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
