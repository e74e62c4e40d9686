package core_test

import (
	"bytes"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cfgnet/bits"
	"github.com/sarchlab/cfgnet/core"
	"github.com/sarchlab/cfgnet/testplan"
	"github.com/sarchlab/cfgnet/timing"
	"github.com/sarchlab/cfgnet/topology"
)

func sampleSpec() topology.Spec {
	return topology.Spec{
		Relays: []topology.RelayDecl{
			{ID: 0},
			{ID: 1, Parent: topology.At(0)},
			{ID: 2, Parent: topology.RandomPlacement()},
		},
		Configs: []topology.ConfigDecl{
			{ID: 3, Attach: topology.At(1), Name: "mode", Width: 4, Default: bits.MustParse("0101")},
			{ID: 10, Attach: topology.RandomPlacement(), Name: "gain", Width: 12, Default: bits.Zeros(12)},
			{ID: 11, Attach: topology.RandomPlacement(), Name: "unused", Width: 1, Default: bits.MustParse("1")},
		},
	}
}

var _ = Describe("Generator", func() {
	It("produces consistent artifacts", func() {
		g := core.NewBuilder().WithSeed(1).Build()

		topo, err := g.BuildTopology(sampleSpec())
		Expect(err).NotTo(HaveOccurred())
		plan, err := g.GeneratePlan(topo, 25)
		Expect(err).NotTo(HaveOccurred())

		a, err := g.Synthesize(topo, plan)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.Bitstream.Packets).To(HaveLen(25))
		Expect(a.Budget.VectorLen).To(Equal(a.Bitstream.Len()))
		Expect(a.Budget.SimTime).To(Equal(
			timing.DefaultParams().BaseTime + a.Budget.Cycles*timing.DefaultParams().ClockPeriod))

		for id, seq := range a.Reference {
			node, ok := topo.Config(id)
			Expect(ok).To(BeTrue())
			Expect(seq[0]).To(Equal(node.Default))
		}
	})

	It("is reproducible for a seed", func() {
		run := func() *core.Artifacts {
			g := core.NewBuilder().WithSeed(77).Build()
			topo, err := g.BuildTopology(sampleSpec())
			Expect(err).NotTo(HaveOccurred())
			plan, err := g.GeneratePlan(topo, 10)
			Expect(err).NotTo(HaveOccurred())
			a, err := g.Synthesize(topo, plan)
			Expect(err).NotTo(HaveOccurred())
			return a
		}

		a, b := run(), run()
		Expect(a.Topology.Configs).To(Equal(b.Topology.Configs))
		Expect(a.Bitstream.Bits).To(Equal(b.Bitstream.Bits))
		Expect(a.Reference).To(Equal(b.Reference))
	})

	It("reproduces its outputs from a saved plan file", func() {
		g := core.NewBuilder().WithSeed(5).Build()
		topo, err := g.BuildTopology(sampleSpec())
		Expect(err).NotTo(HaveOccurred())
		plan, err := g.GeneratePlan(topo, 30)
		Expect(err).NotTo(HaveOccurred())
		original, err := g.Synthesize(topo, plan)
		Expect(err).NotTo(HaveOccurred())

		path := filepath.Join(GinkgoT().TempDir(), "config_test.in")
		Expect(testplan.WriteFile(path, plan)).To(Succeed())
		ops, err := testplan.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())

		loaded, err := g.LoadPlan(topo, ops)
		Expect(err).NotTo(HaveOccurred())
		replayed, err := g.Synthesize(topo, loaded)
		Expect(err).NotTo(HaveOccurred())

		Expect(replayed.Bitstream.Bits.String()).To(Equal(original.Bitstream.Bits.String()))
		Expect(replayed.Reference).To(Equal(original.Reference))
		Expect(replayed.Budget).To(Equal(original.Budget))
	})

	It("rejects an empty relay bound when configured", func() {
		Expect(func() { core.NewBuilder().WithMaxRelays(0) }).
			To(PanicWith("a relay tree needs at least one node"))
		Expect(func() { core.NewBuilder().WithMaxRelays(1) }).NotTo(Panic())
	})

	It("prints a summary", func() {
		g := core.NewBuilder().WithSeed(3).Build()
		topo, err := g.BuildTopology(sampleSpec())
		Expect(err).NotTo(HaveOccurred())
		plan, err := g.LoadPlan(topo, []testplan.WriteOp{{NodeID: 3, Value: bits.MustParse("1111")}})
		Expect(err).NotTo(HaveOccurred())
		a, err := g.Synthesize(topo, plan)
		Expect(err).NotTo(HaveOccurred())

		var buf bytes.Buffer
		core.PrintSummary(&buf, a)
		Expect(buf.String()).To(ContainSubstring("0101"))
		Expect(buf.String()).To(ContainSubstring("mode"))
		Expect(buf.String()).To(ContainSubstring("Simulation time"))
	})
})
