// Package testplan produces the ordered list of configuration writes that a
// run applies to the network.
package testplan

import (
	"fmt"
	"math/rand/v2"

	"github.com/sarchlab/cfgnet/bits"
	"github.com/sarchlab/cfgnet/protocol"
	"github.com/sarchlab/cfgnet/topology"
)

// WriteOp writes Value into the configuration node NodeID.
type WriteOp struct {
	NodeID int
	Value  bits.Vector

	// Line is the plan file line the write was read from, 0 otherwise.
	Line int
}

// Plan is an ordered list of writes. Order is both execution order and the
// order in which the network takes the packets in.
type Plan []WriteOp

// UnknownNodeError indicates a write to a node the topology does not declare.
type UnknownNodeError struct {
	NodeID int

	// Index is the position of the write in the plan.
	Index int

	// Line is the plan file line of the write, 0 when unknown.
	Line int
}

func (e *UnknownNodeError) Error() string {
	msg := fmt.Sprintf("test %d writes unknown config node id %d", e.Index, e.NodeID)
	if e.Line > 0 {
		msg = fmt.Sprintf("test file line %d: %s", e.Line, msg)
	}
	return msg
}

// Generate draws n writes. Each picks a node uniformly among the declared
// configuration nodes and then a value uniformly over the node's full width.
func Generate(r *rand.Rand, topo *topology.Topology, n int) (Plan, error) {
	if n < 0 {
		return nil, fmt.Errorf("number of tests must not be negative, got %d", n)
	}
	if n > 0 && len(topo.Configs) == 0 {
		return nil, fmt.Errorf("cannot generate %d tests: no config nodes declared", n)
	}

	plan := make(Plan, 0, n)
	for i := 0; i < n; i++ {
		node := topo.Configs[r.IntN(len(topo.Configs))]
		plan = append(plan, WriteOp{
			NodeID: node.ID,
			Value:  bits.Random(r, node.Width),
		})
	}

	return plan, nil
}

// Load accepts an externally supplied plan. Every write must target a
// declared node with a value of exactly that node's width.
func Load(topo *topology.Topology, ops []WriteOp) (Plan, error) {
	plan := make(Plan, 0, len(ops))
	for i, op := range ops {
		node, ok := topo.Config(op.NodeID)
		if !ok {
			return nil, &UnknownNodeError{NodeID: op.NodeID, Index: i, Line: op.Line}
		}
		if op.Value.Width() != node.Width {
			return nil, &protocol.FieldOverflowError{
				Field:  "value",
				NodeID: op.NodeID,
				Value:  op.Value.Width(),
				Limit:  node.Width,
			}
		}
		plan = append(plan, op)
	}

	return plan, nil
}
