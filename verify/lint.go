package verify

import (
	"fmt"

	"github.com/sarchlab/cfgnet/protocol"
	"github.com/sarchlab/cfgnet/testplan"
	"github.com/sarchlab/cfgnet/topology"
)

// lengthMargin flags packets whose length leaves less than one data frame of
// headroom in the length field.
const lengthMargin = protocol.DataFrameLen + protocol.FrameBitSize

// RunLint performs static checks on a topology and the plan that targets it.
// It validates structure (STRUCT) and plan coverage (COVERAGE). Returns a list
// of issues found, or an empty list if no issues.
func RunLint(topo *topology.Topology, plan testplan.Plan) []Issue {
	var issues []Issue

	// STRUCT: every config node must be addressable by one packet
	for _, c := range topo.Configs {
		if c.ID > protocol.MaxID {
			issue := newIssue(IssueStruct, fmt.Sprintf(
				"Config node %d cannot be addressed by a %d-bit id field", c.ID, protocol.IDWidth))
			issue.NodeID = c.ID
			issue.Relay = c.Relay
			issue.Details = map[string]interface{}{"limit": protocol.MaxID}
			issues = append(issues, issue)
		}

		length := protocol.PacketLen(c.Width)
		switch {
		case length > protocol.MaxPacketLen:
			issue := newIssue(IssueStruct, fmt.Sprintf(
				"Config node %d: a %d-bit value needs a %d-bit packet, the length field holds at most %d",
				c.ID, c.Width, length, protocol.MaxPacketLen))
			issue.NodeID = c.ID
			issue.Relay = c.Relay
			issue.Details = map[string]interface{}{"width": c.Width, "packet_len": length}
			issues = append(issues, issue)
		case length > protocol.MaxPacketLen-lengthMargin:
			issue := newIssue(IssueStruct, fmt.Sprintf(
				"Config node %d: %d-bit packet is within %d bits of the length field limit",
				c.ID, length, protocol.MaxPacketLen-length))
			issue.NodeID = c.ID
			issue.Relay = c.Relay
			issue.Details = map[string]interface{}{"width": c.Width, "packet_len": length}
			issues = append(issues, issue)
		}
	}

	// STRUCT: a leaf relay with no config node only lengthens the chain
	for _, r := range topo.Relays {
		if len(r.Children) > 0 || len(topo.AttachedTo(r.ID)) > 0 {
			continue
		}
		issue := newIssue(IssueStruct, fmt.Sprintf(
			"Relay %d is a leaf with no config node attached", r.ID))
		issue.Relay = r.ID
		issue.Details = map[string]interface{}{"depth": topo.Depth(r.ID)}
		issues = append(issues, issue)
	}

	// COVERAGE: untouched nodes have no reference sequence to check against
	written := make(map[int]int)
	for _, op := range plan {
		written[op.NodeID]++
	}
	for _, c := range topo.Configs {
		if written[c.ID] > 0 {
			continue
		}
		issue := newIssue(IssueCoverage, fmt.Sprintf(
			"Config node %d (%s) is never written and has no reference sequence", c.ID, c.Name))
		issue.NodeID = c.ID
		issue.Relay = c.Relay
		issues = append(issues, issue)
	}

	return issues
}
