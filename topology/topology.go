// Package topology builds the relay tree of a configuration network and
// places configuration nodes on it.
package topology

import (
	"sort"

	"github.com/sarchlab/cfgnet/bits"
)

// NoParent is the parent id of the root relay.
const NoParent = -1

// RelayNode is a pass-through hop of the distribution tree.
type RelayNode struct {
	ID       int
	Parent   int
	Children []int
}

// ConfigNode is a leaf register holding one fixed-width value.
type ConfigNode struct {
	ID      int
	Name    string
	Width   int
	Default bits.Vector
	Relay   int
}

// Topology is an immutable relay tree with configuration nodes attached.
type Topology struct {
	Relays  []RelayNode
	Configs []ConfigNode

	byID map[int]int
}

// New assembles a topology from already validated nodes. Relay ids must be
// dense and each parent must precede its child.
func New(relays []RelayNode, configs []ConfigNode) *Topology {
	t := &Topology{
		Relays:  relays,
		Configs: configs,
		byID:    make(map[int]int, len(configs)),
	}

	for i, c := range configs {
		t.byID[c.ID] = i
	}

	return t
}

// RelayCount returns the number of relay nodes.
func (t *Topology) RelayCount() int {
	return len(t.Relays)
}

// Config returns the configuration node with the given id.
func (t *Topology) Config(id int) (ConfigNode, bool) {
	i, ok := t.byID[id]
	if !ok {
		return ConfigNode{}, false
	}
	return t.Configs[i], true
}

// ConfigIDs returns the configuration node ids in declaration order.
func (t *Topology) ConfigIDs() []int {
	ids := make([]int, len(t.Configs))
	for i, c := range t.Configs {
		ids[i] = c.ID
	}
	return ids
}

// Branches maps every relay with children to its children, both ascending.
func (t *Topology) Branches() map[int][]int {
	out := make(map[int][]int)
	for _, r := range t.Relays {
		if len(r.Children) > 0 {
			out[r.ID] = append([]int(nil), r.Children...)
		}
	}
	return out
}

// BranchIDs returns the keys of Branches in ascending order.
func (t *Topology) BranchIDs() []int {
	ids := make([]int, 0)
	for _, r := range t.Relays {
		if len(r.Children) > 0 {
			ids = append(ids, r.ID)
		}
	}
	sort.Ints(ids)
	return ids
}

// Depth returns the number of relay hops from the root to the relay; the
// root has depth 0.
func (t *Topology) Depth(relay int) int {
	d := 0
	for t.Relays[relay].Parent != NoParent {
		relay = t.Relays[relay].Parent
		d++
	}
	return d
}

// AttachedTo returns the ids of configuration nodes placed on the relay.
func (t *Topology) AttachedTo(relay int) []int {
	var ids []int
	for _, c := range t.Configs {
		if c.Relay == relay {
			ids = append(ids, c.ID)
		}
	}
	return ids
}
