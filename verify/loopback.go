package verify

import (
	"fmt"

	"github.com/sarchlab/cfgnet/bits"
	"github.com/sarchlab/cfgnet/driver"
	"github.com/sarchlab/cfgnet/reference"
	"github.com/sarchlab/cfgnet/timing"
)

// CheckLoopback compares what the network model observed with the reference
// table and the timing budget.
//
// The network model delivers a write once its packet has left the driver and
// crossed the relays, so its last change is at most VectorLen+RelayCount-1.
// The budget also reserves ShiftChainLen cycles for the node shift registers,
// which the model does not have. The TIMING check is therefore a sanity bound
// on the budget: it fires only for a budget shorter than the model's delivery
// time.
func CheckLoopback(ref reference.Table, net *driver.Network, budget timing.Budget) []Issue {
	var issues []Issue

	if !net.Synced() {
		return append(issues, newIssue(IssueMismatch, "Network never saw the reset pulse"))
	}

	for _, id := range ref.IDs() {
		issues = append(issues, compareSequence(id, ref[id], net)...)
	}

	if n := net.Unclaimed(); n > 0 {
		issue := newIssue(IssueMismatch, fmt.Sprintf("%d packets were not claimed by any config node", n))
		issue.Details = map[string]interface{}{"unclaimed": n}
		issues = append(issues, issue)
	}
	if n := net.Pending(); n > 0 {
		issue := newIssue(IssueMismatch, fmt.Sprintf("%d trailing bits do not form a complete packet", n))
		issue.Details = map[string]interface{}{"pending": n}
		issues = append(issues, issue)
	}

	for _, id := range ref.IDs() {
		for _, o := range net.History(id) {
			if o.Cycle < budget.Cycles {
				continue
			}
			issue := newIssue(IssueTiming, fmt.Sprintf(
				"Config node %d changed to %s at cycle %d, budget ends at cycle %d",
				id, o.Value, o.Cycle, budget.Cycles))
			issue.NodeID = id
			issue.Cycle = o.Cycle
			issue.Details = map[string]interface{}{
				"observed_cycle": o.Cycle,
				"budget_cycles":  budget.Cycles,
			}
			issues = append(issues, issue)
		}
	}

	return issues
}

func compareSequence(id int, want []bits.Vector, net *driver.Network) []Issue {
	got := net.History(id)

	n := len(want)
	if len(got) < n {
		n = len(got)
	}
	for i := 0; i < n; i++ {
		if got[i].Value.Equal(want[i]) {
			continue
		}
		issue := newIssue(IssueMismatch, fmt.Sprintf(
			"Config node %d: change %d is %s, expected %s", id, i, got[i].Value, want[i]))
		issue.NodeID = id
		issue.Cycle = got[i].Cycle
		issue.Details = map[string]interface{}{
			"index":    i,
			"expected": want[i].String(),
			"actual":   got[i].Value.String(),
		}
		return []Issue{issue}
	}

	if len(got) != len(want) {
		issue := newIssue(IssueMismatch, fmt.Sprintf(
			"Config node %d: observed %d values, expected %d", id, len(got), len(want)))
		issue.NodeID = id
		issue.Details = map[string]interface{}{
			"expected_len": len(want),
			"actual_len":   len(got),
		}
		return []Issue{issue}
	}

	return nil
}
