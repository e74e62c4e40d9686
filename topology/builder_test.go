package topology_test

import (
	"errors"
	"math/rand/v2"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cfgnet/bits"
	"github.com/sarchlab/cfgnet/topology"
)

func config(id int, attach topology.Placement, width int) topology.ConfigDecl {
	return topology.ConfigDecl{
		ID:      id,
		Attach:  attach,
		Name:    "cfg",
		Width:   width,
		Default: bits.Zeros(width),
	}
}

func expectSpecError(err error) *topology.SpecError {
	var specErr *topology.SpecError
	ExpectWithOffset(1, errors.As(err, &specErr)).To(BeTrue(), "got %v", err)
	return specErr
}

var _ = Describe("Builder", func() {
	var builder topology.Builder

	BeforeEach(func() {
		builder = topology.NewBuilder().WithRand(rand.New(rand.NewPCG(42, 0)))
	})

	Context("synthetic mode", func() {
		It("always builds a dense tree rooted at 0", func() {
			for seed := uint64(0); seed < 200; seed++ {
				topo, err := topology.NewBuilder().
					WithRand(rand.New(rand.NewPCG(seed, seed))).
					Build(topology.Spec{})
				Expect(err).NotTo(HaveOccurred())

				n := topo.RelayCount()
				Expect(n).To(BeNumerically(">=", 1))
				Expect(n).To(BeNumerically("<=", topology.DefaultMaxRelays))
				Expect(topo.Relays[0].Parent).To(Equal(topology.NoParent))
				for i, r := range topo.Relays {
					Expect(r.ID).To(Equal(i))
					if i > 0 {
						Expect(r.Parent).To(BeNumerically("<", r.ID))
						Expect(r.Parent).To(BeNumerically(">=", 0))
					}
				}
			}
		})

		It("honors the relay bound", func() {
			topo, err := builder.WithMaxRelays(1).Build(topology.Spec{})
			Expect(err).NotTo(HaveOccurred())
			Expect(topo.RelayCount()).To(Equal(1))
		})

		It("is reproducible for a given seed", func() {
			spec := topology.Spec{Configs: []topology.ConfigDecl{
				config(1, topology.RandomPlacement(), 4),
				config(2, topology.RandomPlacement(), 9),
			}}
			a, err := topology.NewBuilder().WithRand(rand.New(rand.NewPCG(9, 9))).Build(spec)
			Expect(err).NotTo(HaveOccurred())
			b, err := topology.NewBuilder().WithRand(rand.New(rand.NewPCG(9, 9))).Build(spec)
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Relays).To(Equal(b.Relays))
			Expect(a.Configs).To(Equal(b.Configs))
		})
	})

	Context("declarative mode", func() {
		It("wires explicit parents and records children", func() {
			spec := topology.Spec{
				Relays: []topology.RelayDecl{
					{ID: 0},
					{ID: 1, Parent: topology.At(0)},
					{ID: 2, Parent: topology.At(0)},
					{ID: 3, Parent: topology.At(2)},
				},
				Configs: []topology.ConfigDecl{config(7, topology.At(3), 8)},
			}

			topo, err := builder.Build(spec)
			Expect(err).NotTo(HaveOccurred())
			Expect(topo.Branches()).To(Equal(map[int][]int{0: {1, 2}, 2: {3}}))
			Expect(topo.BranchIDs()).To(Equal([]int{0, 2}))
			Expect(topo.Depth(3)).To(Equal(2))
			Expect(topo.Depth(0)).To(Equal(0))
			Expect(topo.AttachedTo(3)).To(Equal([]int{7}))

			node, ok := topo.Config(7)
			Expect(ok).To(BeTrue())
			Expect(node.Relay).To(Equal(3))
		})

		It("resolves random parents among earlier relays", func() {
			spec := topology.Spec{Relays: []topology.RelayDecl{
				{ID: 0},
				{ID: 1, Parent: topology.RandomPlacement()},
				{ID: 2, Parent: topology.RandomPlacement()},
				{ID: 3, Parent: topology.RandomPlacement()},
			}}
			topo, err := builder.Build(spec)
			Expect(err).NotTo(HaveOccurred())
			Expect(topo.Relays[1].Parent).To(Equal(0))
			for _, r := range topo.Relays[1:] {
				Expect(r.Parent).To(BeNumerically("<", r.ID))
			}
		})

		It("rejects non-consecutive relay ids", func() {
			spec := topology.Spec{Relays: []topology.RelayDecl{
				{ID: 0, Line: 1},
				{ID: 2, Parent: topology.At(0), Line: 2},
			}}
			_, err := builder.Build(spec)
			Expect(expectSpecError(err).Line).To(Equal(2))
		})

		It("rejects a spec that does not start at relay 0", func() {
			_, err := builder.Build(topology.Spec{Relays: []topology.RelayDecl{{ID: 1}}})
			expectSpecError(err)
		})

		It("rejects parents that are not yet defined", func() {
			spec := topology.Spec{Relays: []topology.RelayDecl{
				{ID: 0},
				{ID: 1, Parent: topology.At(1), Line: 5},
			}}
			_, err := builder.Build(spec)
			specErr := expectSpecError(err)
			Expect(specErr.Line).To(Equal(5))
			Expect(specErr.Error()).To(ContainSubstring("line 5"))
		})

		It("rejects an attachment beyond the relay count", func() {
			spec := topology.Spec{
				Relays:  []topology.RelayDecl{{ID: 0}, {ID: 1, Parent: topology.At(0)}},
				Configs: []topology.ConfigDecl{config(3, topology.At(2), 4)},
			}
			_, err := builder.Build(spec)
			Expect(expectSpecError(err).Message).To(ContainSubstring("branch id 2"))
		})

		It("rejects duplicate config ids", func() {
			spec := topology.Spec{Configs: []topology.ConfigDecl{
				config(3, topology.At(0), 4),
				config(3, topology.At(0), 4),
			}}
			_, err := builder.Build(spec)
			expectSpecError(err)
		})

		It("rejects a default of the wrong width", func() {
			decl := config(3, topology.At(0), 4)
			decl.Default = bits.MustParse("101")
			_, err := builder.Build(topology.Spec{Configs: []topology.ConfigDecl{decl}})
			expectSpecError(err)
		})

		It("places random attachments on any relay including the root", func() {
			spec := topology.Spec{Relays: []topology.RelayDecl{
				{ID: 0},
				{ID: 1, Parent: topology.At(0)},
				{ID: 2, Parent: topology.At(1)},
			}}
			for i := 0; i < 64; i++ {
				spec.Configs = append(spec.Configs, config(i, topology.RandomPlacement(), 1))
			}

			topo, err := builder.Build(spec)
			Expect(err).NotTo(HaveOccurred())

			seen := map[int]bool{}
			for _, c := range topo.Configs {
				Expect(c.Relay).To(BeNumerically(">=", 0))
				Expect(c.Relay).To(BeNumerically("<", 3))
				seen[c.Relay] = true
			}
			Expect(seen).To(HaveLen(3))
		})
	})
})
