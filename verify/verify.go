// Package verify provides self-checks for generated configuration network
// stimulus.
//
// It implements two complementary stages:
//
// 1. Static Lint (lint.go): checks on the topology and the test plan before
// any bits are shifted
//   - STRUCT checks: node ids and packet lengths the codec cannot carry,
//     leaf relays with nothing behind them
//   - COVERAGE checks: config nodes the plan never writes
//
// 2. Loopback check (loopback.go): replays the test vector through the
// behavioral network model of package driver and compares every observed
// value sequence with the reference table
//   - MISMATCH: a node passed through other values than expected, or the
//     stream left bits nobody consumed
//   - TIMING: a node changed after the estimated cycle budget
//
// # Usage Example
//
//	artifacts, _ := generator.Synthesize(topo, plan)
//	report := verify.GenerateReport(artifacts, 1*sim.GHz, true)
//	report.WriteReport(os.Stdout)
//	if !report.Passed() {
//	    atexit.Exit(1)
//	}
package verify

// IssueType categorizes issues.
type IssueType string

const (
	IssueStruct   IssueType = "STRUCT"   // topology the network cannot carry
	IssueCoverage IssueType = "COVERAGE" // plan leaves nodes untested
	IssueMismatch IssueType = "MISMATCH" // loopback disagrees with the reference
	IssueTiming   IssueType = "TIMING"   // loopback exceeds the cycle budget
)

// Issue represents a single finding.
type Issue struct {
	Type    IssueType              // STRUCT, COVERAGE, MISMATCH or TIMING
	NodeID  int                    // Config node id (-1 if not applicable)
	Relay   int                    // Relay id (-1 if not applicable)
	Cycle   int                    // Configuration clock cycle (-1 if not applicable)
	Message string                 // Human-readable description
	Details map[string]interface{} // Additional structured data
}

func newIssue(t IssueType, msg string) Issue {
	return Issue{
		Type:    t,
		NodeID:  -1,
		Relay:   -1,
		Cycle:   -1,
		Message: msg,
	}
}

// Filter returns the issues of one type.
func Filter(issues []Issue, t IssueType) []Issue {
	var out []Issue
	for _, issue := range issues {
		if issue.Type == t {
			out = append(out, issue)
		}
	}
	return out
}
