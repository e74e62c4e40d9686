// Package core runs the stimulus generation pipeline: topology, test plan,
// bitstream, reference table and timing budget.
package core

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/sarchlab/cfgnet/bitstream"
	"github.com/sarchlab/cfgnet/reference"
	"github.com/sarchlab/cfgnet/testplan"
	"github.com/sarchlab/cfgnet/timing"
	"github.com/sarchlab/cfgnet/topology"
)

// Artifacts is everything one run produces for the rendering layer.
type Artifacts struct {
	Topology  *topology.Topology
	Plan      testplan.Plan
	Bitstream *bitstream.Bitstream
	Reference reference.Table
	Budget    timing.Budget
}

// Generator threads one random generator through every component. It is not
// safe for concurrent use.
type Generator struct {
	rng         *rand.Rand
	params      timing.Params
	topoBuilder topology.Builder
}

// BuildTopology resolves a declarative spec into a topology.
func (g *Generator) BuildTopology(spec topology.Spec) (*topology.Topology, error) {
	topo, err := g.topoBuilder.Build(spec)
	if err != nil {
		return nil, err
	}

	slog.Info("TopologyBuilt",
		"Relays", topo.RelayCount(),
		"Configs", len(topo.Configs))

	return topo, nil
}

// GeneratePlan draws n random writes.
func (g *Generator) GeneratePlan(topo *topology.Topology, n int) (testplan.Plan, error) {
	plan, err := testplan.Generate(g.rng, topo, n)
	if err != nil {
		return nil, err
	}

	slog.Info("PlanGenerated", "Tests", len(plan))

	return plan, nil
}

// LoadPlan validates an externally supplied plan.
func (g *Generator) LoadPlan(topo *topology.Topology, ops []testplan.WriteOp) (testplan.Plan, error) {
	plan, err := testplan.Load(topo, ops)
	if err != nil {
		return nil, err
	}

	slog.Info("PlanLoaded", "Tests", len(plan))

	return plan, nil
}

// Synthesize assembles the bitstream, the reference table and the timing
// budget for a plan. It draws no random numbers.
func (g *Generator) Synthesize(topo *topology.Topology, plan testplan.Plan) (*Artifacts, error) {
	bs, err := bitstream.Assemble(topo, plan)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble test vector: %w", err)
	}

	ref, err := reference.Build(topo, plan)
	if err != nil {
		return nil, fmt.Errorf("failed to build reference table: %w", err)
	}

	budget := timing.Estimate(topo, bs.Len(), g.params)

	for i, p := range bs.Packets {
		Trace("PacketEncoded", "Index", i, "Node", plan[i].NodeID, "Bits", p.Width())
	}
	slog.Info("TestVectorAssembled",
		"Bits", bs.Len(),
		"Packets", len(bs.Packets),
		"ShiftChain", budget.ShiftChainLen,
		"SimTime", budget.SimTime)

	return &Artifacts{
		Topology:  topo,
		Plan:      plan,
		Bitstream: bs,
		Reference: ref,
		Budget:    budget,
	}, nil
}
