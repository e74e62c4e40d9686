package topology

import (
	"log/slog"
	"math/rand/v2"
)

// DefaultMaxRelays bounds the size of a synthesized relay tree.
const DefaultMaxRelays = 16

// Builder can build topologies.
type Builder struct {
	rng       *rand.Rand
	maxRelays int
}

// NewBuilder returns a builder with the default relay bound.
func NewBuilder() Builder {
	return Builder{
		maxRelays: DefaultMaxRelays,
	}
}

// WithRand sets the generator used for every random choice.
func (b Builder) WithRand(r *rand.Rand) Builder {
	b.rng = r
	return b
}

// WithMaxRelays sets the largest relay count a synthesized tree may have.
func (b Builder) WithMaxRelays(n int) Builder {
	if n < 1 {
		panic("a relay tree needs at least one node")
	}
	b.maxRelays = n
	return b
}

// Build validates the spec and resolves every random placement. Relays are
// resolved first, then configuration nodes in declaration order, so a given
// generator state always yields the same topology.
func (b Builder) Build(spec Spec) (*Topology, error) {
	if b.rng == nil {
		panic("topology builder needs a random generator")
	}

	relays, err := b.buildRelays(spec.Relays)
	if err != nil {
		return nil, err
	}

	configs, err := b.placeConfigs(spec.Configs, len(relays))
	if err != nil {
		return nil, err
	}

	for _, c := range configs {
		slog.Debug("ConfigNodePlaced", "ID", c.ID, "Name", c.Name, "Relay", c.Relay)
	}

	return New(relays, configs), nil
}

func (b Builder) buildRelays(decls []RelayDecl) ([]RelayNode, error) {
	if len(decls) == 0 {
		return b.synthesizeRelays(), nil
	}

	relays := make([]RelayNode, 0, len(decls))
	for _, d := range decls {
		if d.ID != len(relays) {
			return nil, specErrorf(d.Line,
				"relay id %d is not consecutive, expected %d", d.ID, len(relays))
		}

		if d.ID == 0 {
			relays = append(relays, RelayNode{ID: 0, Parent: NoParent})
			continue
		}

		parent := d.Parent.ID
		if d.Parent.Random {
			parent = b.rng.IntN(len(relays))
		} else if parent < 0 || parent >= len(relays) {
			return nil, specErrorf(d.Line,
				"relay %d parent %d out of range, only %d relays defined",
				d.ID, parent, len(relays))
		}

		relays = attach(relays, d.ID, parent)
	}

	return relays, nil
}

// synthesizeRelays grows a tree by attaching each new relay to a uniformly
// chosen existing one, which keeps the tree connected and rooted at 0.
func (b Builder) synthesizeRelays() []RelayNode {
	n := b.rng.IntN(b.maxRelays) + 1

	relays := []RelayNode{{ID: 0, Parent: NoParent}}
	for id := 1; id < n; id++ {
		relays = attach(relays, id, b.rng.IntN(id))
	}

	slog.Info("RelayTreeSynthesized", "Relays", n)

	return relays
}

func attach(relays []RelayNode, id, parent int) []RelayNode {
	relays = append(relays, RelayNode{ID: id, Parent: parent})
	relays[parent].Children = append(relays[parent].Children, id)
	return relays
}

func (b Builder) placeConfigs(decls []ConfigDecl, relayCount int) ([]ConfigNode, error) {
	configs := make([]ConfigNode, 0, len(decls))
	seen := make(map[int]bool, len(decls))

	for _, d := range decls {
		if d.ID < 0 {
			return nil, specErrorf(d.Line, "config node id %d is negative", d.ID)
		}
		if seen[d.ID] {
			return nil, specErrorf(d.Line, "config node id %d declared twice", d.ID)
		}
		seen[d.ID] = true

		if d.Width < 1 {
			return nil, specErrorf(d.Line,
				"config node %d data width %d must be at least 1", d.ID, d.Width)
		}
		if d.Default.Width() != d.Width {
			return nil, specErrorf(d.Line,
				"config node %d default %s is %d bits wide, expected %d",
				d.ID, d.Default, d.Default.Width(), d.Width)
		}

		relay := d.Attach.ID
		if d.Attach.Random {
			relay = b.rng.IntN(relayCount)
		} else if relay < 0 || relay >= relayCount {
			return nil, specErrorf(d.Line,
				"config node %d branch id %d doesn't exist, number of relay nodes is %d",
				d.ID, relay, relayCount)
		}

		configs = append(configs, ConfigNode{
			ID:      d.ID,
			Name:    d.Name,
			Width:   d.Width,
			Default: d.Default,
			Relay:   relay,
		})
	}

	return configs, nil
}
