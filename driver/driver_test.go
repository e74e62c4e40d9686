package driver

import (
	"math/rand/v2"

	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/cfgnet/bits"
	"github.com/sarchlab/cfgnet/bitstream"
	"github.com/sarchlab/cfgnet/protocol"
	"github.com/sarchlab/cfgnet/reference"
	"github.com/sarchlab/cfgnet/testplan"
	"github.com/sarchlab/cfgnet/timing"
	"github.com/sarchlab/cfgnet/topology"
)

func twoLevelTopology() *topology.Topology {
	return topology.New(
		[]topology.RelayNode{
			{ID: 0, Parent: topology.NoParent, Children: []int{1}},
			{ID: 1, Parent: 0, Children: []int{2}},
			{ID: 2, Parent: 1},
		},
		[]topology.ConfigNode{
			{ID: 1, Width: 4, Default: bits.MustParse("0000"), Relay: 0},
			{ID: 2, Width: 12, Default: bits.MustParse("111100001111"), Relay: 2},
			{ID: 3, Width: 1, Default: bits.MustParse("0"), Relay: 1},
		},
	)
}

var _ = Describe("Driver", func() {
	var (
		mockCtrl *gomock.Controller
		sink     *MockBitSink
		engine   sim.Engine
		driver   *Driver
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		sink = NewMockBitSink(mockCtrl)
		engine = sim.NewSerialEngine()
		driver = MakeBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			WithSink(sink).
			Build("Driver")
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("shifts one bit per tick from the preamble end", func() {
		bs := &bitstream.Bitstream{
			Bits:     bits.MustParse("0111"),
			ResetLen: 2,
		}
		driver.Load(bs)

		gomock.InOrder(
			sink.EXPECT().ShiftIn(true, 0),
			sink.EXPECT().ShiftIn(true, 1),
			sink.EXPECT().ShiftIn(true, 2),
			sink.EXPECT().ShiftIn(false, 3),
		)

		for i := 0; i < 4; i++ {
			Expect(driver.Tick()).To(BeTrue())
		}
		Expect(driver.Tick()).To(BeFalse())
		Expect(driver.Done()).To(BeTrue())
		Expect(driver.Shifted()).To(Equal(4))
	})

	It("runs to completion on the engine", func() {
		bs := &bitstream.Bitstream{Bits: bits.Ones(protocol.ResetLen), ResetLen: protocol.ResetLen}
		driver.Load(bs)

		sink.EXPECT().ShiftIn(true, gomock.Any()).Times(protocol.ResetLen)

		driver.Start()
		Expect(engine.Run()).To(Succeed())
		Expect(driver.Done()).To(BeTrue())
	})
})

var _ = Describe("Network", func() {
	var topo *topology.Topology

	BeforeEach(func() {
		topo = twoLevelTopology()
	})

	It("ignores traffic before the reset pulse", func() {
		net := NewNetwork(topo)
		for i := 0; i < protocol.ResetLen-1; i++ {
			net.ShiftIn(true, i)
		}
		net.ShiftIn(false, protocol.ResetLen)
		Expect(net.Synced()).To(BeFalse())
		Expect(net.History(1)).To(BeEmpty())
	})

	It("observes the same sequences as the reference table", func() {
		plan := testplan.Plan{
			{NodeID: 1, Value: bits.MustParse("0000")},
			{NodeID: 2, Value: bits.MustParse("000000000001")},
			{NodeID: 1, Value: bits.MustParse("1010")},
			{NodeID: 1, Value: bits.MustParse("1010")},
			{NodeID: 2, Value: bits.MustParse("111100001111")},
			{NodeID: 1, Value: bits.MustParse("0000")},
		}
		bs, err := bitstream.Assemble(topo, plan)
		Expect(err).NotTo(HaveOccurred())
		ref, err := reference.Build(topo, plan)
		Expect(err).NotTo(HaveOccurred())

		net, err := Run(topo, bs, 1*sim.GHz)
		Expect(err).NotTo(HaveOccurred())
		Expect(net.Synced()).To(BeTrue())
		Expect(net.Packets()).To(Equal(len(plan)))
		Expect(net.Unclaimed()).To(BeZero())
		Expect(net.Pending()).To(BeZero())

		for _, id := range ref.IDs() {
			Expect(net.Observed(id)).To(Equal(ref[id]), "node %d", id)
		}
		Expect(net.Observed(3)).To(Equal([]bits.Vector{bits.MustParse("0")}))
	})

	It("delays each node by its relay depth", func() {
		plan := testplan.Plan{{NodeID: 2, Value: bits.MustParse("000000000001")}}
		bs, err := bitstream.Assemble(topo, plan)
		Expect(err).NotTo(HaveOccurred())

		net, err := Run(topo, bs, 1*sim.GHz)
		Expect(err).NotTo(HaveOccurred())

		h := net.History(2)
		Expect(h).To(HaveLen(2))
		// reset completes on cycle ResetLen-1, node 2 sits two hops down
		Expect(h[0].Cycle).To(Equal(protocol.ResetLen - 1 + 2 + 1))
		Expect(h[1].Cycle).To(Equal(bs.Len() - 1 + 2 + 1))
	})

	It("finishes within the relay delay of the last shifted bit", func() {
		r := rand.New(rand.NewPCG(21, 22))
		plan, err := testplan.Generate(r, topo, 40)
		Expect(err).NotTo(HaveOccurred())
		bs, err := bitstream.Assemble(topo, plan)
		Expect(err).NotTo(HaveOccurred())

		net, err := Run(topo, bs, 1*sim.GHz)
		Expect(err).NotTo(HaveOccurred())

		Expect(net.LastChange()).To(BeNumerically("<=", bs.Len()+topo.RelayCount()-1))

		budget := timing.Estimate(topo, bs.Len(), timing.DefaultParams())
		Expect(budget.Cycles - net.LastChange()).To(
			BeNumerically(">", budget.ShiftChainLen))
	})

	It("counts packets for unknown nodes without failing", func() {
		other := topology.New(
			[]topology.RelayNode{{ID: 0, Parent: topology.NoParent}},
			[]topology.ConfigNode{{ID: 9, Width: 4, Default: bits.Zeros(4)}},
		)
		bs, err := bitstream.Assemble(topo, testplan.Plan{{NodeID: 1, Value: bits.MustParse("0001")}})
		Expect(err).NotTo(HaveOccurred())

		net, err := Run(other, bs, 1*sim.GHz)
		Expect(err).NotTo(HaveOccurred())
		Expect(net.Unclaimed()).To(Equal(1))
		Expect(net.Observed(9)).To(HaveLen(1))
	})

	It("reports framing errors", func() {
		net := NewNetwork(topo)
		// valid marker, frame bit, then a length field of 5
		header := bits.MustParse("00000101" + "0" + "10").LSBFirst()
		stream := append(bits.Ones(protocol.ResetLen).LSBFirst(), header...)
		for i, b := range stream {
			net.ShiftIn(b, i)
		}
		Expect(net.Err()).To(HaveOccurred())
	})
})
