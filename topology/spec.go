package topology

import (
	"fmt"

	"github.com/sarchlab/cfgnet/bits"
)

// Placement selects a relay node either explicitly or at random.
type Placement struct {
	Random bool
	ID     int
}

// RandomPlacement asks the builder to pick a relay uniformly at random.
func RandomPlacement() Placement {
	return Placement{Random: true}
}

// At places a node on the given relay.
func At(id int) Placement {
	return Placement{ID: id}
}

func (p Placement) String() string {
	if p.Random {
		return "x"
	}
	return fmt.Sprintf("%d", p.ID)
}

// RelayDecl declares one relay node. The parent of relay 0 is ignored.
type RelayDecl struct {
	ID     int
	Parent Placement
	Line   int
}

// ConfigDecl declares one configuration node and its attachment point.
type ConfigDecl struct {
	ID      int
	Attach  Placement
	Name    string
	Width   int
	Default bits.Vector
	Line    int
}

// Spec is the declarative description of a configuration network. A Spec
// without relays asks the builder to synthesize a random relay tree.
type Spec struct {
	Relays  []RelayDecl
	Configs []ConfigDecl
}
