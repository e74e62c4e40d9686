package verify

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/cfgnet/core"
	"github.com/sarchlab/cfgnet/driver"
)

// VerificationReport represents a complete verification report
type VerificationReport struct {
	Artifacts *core.Artifacts

	LintIssues     []Issue
	StructIssues   []Issue
	CoverageIssues []Issue

	LoopbackRan    bool
	LoopbackErr    error
	LoopbackIssues []Issue
	MismatchIssues []Issue
	TimingIssues   []Issue
	LastChange     int
}

// GenerateReport runs lint and, when loopback is set, replays the vector
// through the network model at the given configuration clock.
func GenerateReport(a *core.Artifacts, freq sim.Freq, loopback bool) *VerificationReport {
	report := &VerificationReport{Artifacts: a}

	report.LintIssues = RunLint(a.Topology, a.Plan)
	report.StructIssues = Filter(report.LintIssues, IssueStruct)
	report.CoverageIssues = Filter(report.LintIssues, IssueCoverage)

	if !loopback {
		return report
	}

	report.LoopbackRan = true
	net, err := driver.Run(a.Topology, a.Bitstream, freq)
	if err != nil {
		report.LoopbackErr = err
		return report
	}

	report.LastChange = net.LastChange()
	report.LoopbackIssues = CheckLoopback(a.Reference, net, a.Budget)
	report.MismatchIssues = Filter(report.LoopbackIssues, IssueMismatch)
	report.TimingIssues = Filter(report.LoopbackIssues, IssueTiming)

	return report
}

// Passed reports whether the loopback found nothing that would make the
// testbench fail. Lint issues are advisory.
func (r *VerificationReport) Passed() bool {
	return r.LoopbackErr == nil && len(r.LoopbackIssues) == 0
}

// WriteReport writes a formatted report to a writer
func (r *VerificationReport) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)
	dash := strings.Repeat("-", 60)
	a := r.Artifacts

	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "CONFIGURATION NETWORK STIMULUS REPORT")
	fmt.Fprintln(w, separator)

	fmt.Fprintf(w, "\n✓ %d relay nodes, %d config nodes, %d tests\n",
		a.Topology.RelayCount(), len(a.Topology.Configs), len(a.Plan))
	fmt.Fprintf(w, "  - test vector: %d bits in %d packets\n",
		a.Bitstream.Len(), len(a.Bitstream.Packets))
	fmt.Fprintf(w, "  - budget: %d cycles, sim time %d\n", a.Budget.Cycles, a.Budget.SimTime)

	// STAGE 1: LINT
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 1: STATIC LINT CHECKS")
	fmt.Fprintln(w, separator)

	if len(r.LintIssues) == 0 {
		fmt.Fprintln(w, "✓ No lint issues found!")
	} else {
		fmt.Fprintf(w, "⚠ Found %d lint issues:\n", len(r.LintIssues))
		writeIssues(w, dash, "STRUCT ISSUES", r.StructIssues)
		writeIssues(w, dash, "COVERAGE ISSUES", r.CoverageIssues)
	}

	// STAGE 2: LOOPBACK
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 2: LOOPBACK CHECK")
	fmt.Fprintln(w, separator)

	switch {
	case !r.LoopbackRan:
		fmt.Fprintln(w, "- Loopback disabled")
	case r.LoopbackErr != nil:
		fmt.Fprintf(w, "⚠ Loopback error: %v\n", r.LoopbackErr)
	case len(r.LoopbackIssues) == 0:
		fmt.Fprintf(w, "✓ All %d reference sequences observed, last change at cycle %d\n",
			len(a.Reference), r.LastChange)
	default:
		fmt.Fprintf(w, "⚠ Found %d loopback issues:\n", len(r.LoopbackIssues))
		writeIssues(w, dash, "MISMATCH ISSUES", r.MismatchIssues)
		writeIssues(w, dash, "TIMING ISSUES", r.TimingIssues)
	}

	// STAGE 3: SUMMARY
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "VERIFICATION SUMMARY")
	fmt.Fprintln(w, separator)

	fmt.Fprintf(w, "Lint Result: %d issues detected (%d STRUCT, %d COVERAGE)\n",
		len(r.LintIssues), len(r.StructIssues), len(r.CoverageIssues))
	loopStatus := "SKIPPED"
	switch {
	case r.LoopbackErr != nil:
		loopStatus = "FAILED: " + r.LoopbackErr.Error()
	case r.LoopbackRan && len(r.LoopbackIssues) > 0:
		loopStatus = fmt.Sprintf("FAILED: %d MISMATCH, %d TIMING",
			len(r.MismatchIssues), len(r.TimingIssues))
	case r.LoopbackRan:
		loopStatus = "SUCCESS"
	}
	fmt.Fprintf(w, "Loopback Result: %s\n", loopStatus)

	switch {
	case !r.LoopbackRan:
		fmt.Fprintln(w, "\n- STIMULUS NOT REPLAYED")
	case r.Passed():
		fmt.Fprintln(w, "\n✓ STIMULUS PASSED ALL CHECKS")
	default:
		fmt.Fprintln(w, "\n⚠ STIMULUS FAILED VERIFICATION")
	}

	fmt.Fprintln(w)
}

func writeIssues(w io.Writer, dash, title string, issues []Issue) {
	if len(issues) == 0 {
		return
	}

	fmt.Fprintf(w, "\n%s (%d):\n", title, len(issues))
	fmt.Fprintln(w, dash)
	for _, issue := range issues {
		fmt.Fprintf(w, "  [node=%d relay=%d cycle=%d] %s\n",
			issue.NodeID, issue.Relay, issue.Cycle, issue.Message)
	}
}

// SaveReportToFile saves the report to a file
func (r *VerificationReport) SaveReportToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	r.WriteReport(file)
	return nil
}
