// Command cfgnet-tb generates the stimulus files of the configuration network
// testbench.
//
//	cfgnet-tb [options] -w <testfile> <number of tests>
//	cfgnet-tb [options] -r <testfile>
//
// -w draws random writes and stores them in testfile so they can be edited.
// -r reads testfile and writes the test vector and the probe file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/cfgnet/artifact"
	"github.com/sarchlab/cfgnet/config"
	"github.com/sarchlab/cfgnet/core"
	"github.com/sarchlab/cfgnet/manifest"
	"github.com/sarchlab/cfgnet/netspec"
	"github.com/sarchlab/cfgnet/testplan"
	"github.com/sarchlab/cfgnet/topology"
	"github.com/sarchlab/cfgnet/verify"
)

func main() {
	atexit.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	configPath string
	specPath   string
	seed       uint64
	writePath  string
	readPath   string
	count      int
	noLoopback bool
	quiet      bool
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "cfgnet-tb: configuration network testbench generator")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  cfgnet-tb [options] -w <testfile> <number of tests>")
	fmt.Fprintln(w, "  cfgnet-tb [options] -r <testfile>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  -c <file>       run configuration (YAML)")
	fmt.Fprintln(w, "  -spec <file>    network description, overrides paths.spec")
	fmt.Fprintln(w, "  -seed <n>       random seed, overrides seed")
	fmt.Fprintln(w, "  -no-loopback    skip the loopback check")
	fmt.Fprintln(w, "  -q              do not print the summary tables")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - use the same seed for -w and -r when the description places nodes with x")
	fmt.Fprintln(w, "  - seed 0 picks a seed from the clock; the chosen seed is logged")
}

func parseArgs(args []string, errOut io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("cfgnet-tb", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() { printUsage(errOut) }
	fs.StringVar(&opts.configPath, "c", "", "run configuration")
	fs.StringVar(&opts.specPath, "spec", "", "network description")
	fs.Uint64Var(&opts.seed, "seed", 0, "random seed")
	fs.StringVar(&opts.writePath, "w", "", "test file to generate")
	fs.StringVar(&opts.readPath, "r", "", "test file to read")
	fs.BoolVar(&opts.noLoopback, "no-loopback", false, "skip the loopback check")
	fs.BoolVar(&opts.quiet, "q", false, "do not print the summary tables")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	switch {
	case opts.writePath != "" && opts.readPath != "":
		return opts, errors.New("-w and -r are exclusive")
	case opts.writePath != "":
		if fs.NArg() != 1 {
			return opts, errors.New("-w expects the number of tests")
		}
		n, err := strconv.Atoi(fs.Arg(0))
		if err != nil || n < 0 {
			return opts, fmt.Errorf("invalid number of tests %q", fs.Arg(0))
		}
		opts.count = n
	case opts.readPath != "":
		if fs.NArg() != 0 {
			return opts, fmt.Errorf("unexpected argument %q", fs.Arg(0))
		}
	default:
		return opts, errors.New("expects -w or -r")
	}

	return opts, nil
}

func loadConfig(opts options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		cfg, err = config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
	}

	if opts.specPath != "" {
		cfg.Paths.Spec = opts.specPath
	}
	if opts.seed != 0 {
		cfg.Seed = opts.seed
	}
	if opts.noLoopback {
		cfg.Loopback = false
	}

	return cfg, nil
}

func setupLogging(cfg *config.Config, errOut io.Writer) error {
	level, err := cfg.Level()
	if err != nil {
		return err
	}

	var w io.Writer = errOut
	if cfg.Paths.Log != "" {
		f, err := os.Create(cfg.Paths.Log)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		atexit.Register(func() { _ = f.Close() })
		w = f
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))

	return nil
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}
	if args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printUsage(out)
		return 0
	}

	opts, err := parseArgs(args, errOut)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(errOut, "cfgnet-tb: %v\n\n", err)
			printUsage(errOut)
		}
		return 2
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(errOut, "cfgnet-tb: %v\n", err)
		return 1
	}
	if err := setupLogging(cfg, errOut); err != nil {
		fmt.Fprintf(errOut, "cfgnet-tb: %v\n", err)
		return 1
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	slog.Info("SeedChosen", "Seed", seed)

	gen := core.NewBuilder().
		WithSeed(seed).
		WithTiming(cfg.TimingParams()).
		WithMaxRelays(cfg.MaxRelays).
		Build()

	spec, err := netspec.Load(cfg.Paths.Spec)
	if err != nil {
		fmt.Fprintf(errOut, "cfgnet-tb: %v\n", err)
		return 1
	}
	topo, err := gen.BuildTopology(spec)
	if err != nil {
		fmt.Fprintf(errOut, "cfgnet-tb: %v\n", err)
		return 1
	}

	if opts.writePath != "" {
		err = writeTests(gen, topo, opts, out)
	} else {
		err = generate(gen, topo, cfg, seed, opts, out, errOut)
	}
	if err != nil {
		fmt.Fprintf(errOut, "cfgnet-tb: %v\n", err)
		return 1
	}

	return 0
}

func writeTests(gen *core.Generator, topo *topology.Topology, opts options, out io.Writer) error {
	plan, err := gen.GeneratePlan(topo, opts.count)
	if err != nil {
		return err
	}
	if err := testplan.WriteFile(opts.writePath, plan); err != nil {
		return err
	}

	if !opts.quiet {
		if err := testplan.Write(out, plan); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "%d sets of random test id and data are generated and written into %s\n",
		len(plan), opts.writePath)

	return nil
}

func generate(
	gen *core.Generator,
	topo *topology.Topology,
	cfg *config.Config,
	seed uint64,
	opts options,
	out, errOut io.Writer,
) error {
	ops, err := testplan.ReadFile(opts.readPath)
	if err != nil {
		return err
	}
	plan, err := gen.LoadPlan(topo, ops)
	if err != nil {
		return err
	}
	a, err := gen.Synthesize(topo, plan)
	if err != nil {
		return err
	}

	if err := artifact.WriteVectorFile(cfg.Paths.Vector, a.Bitstream); err != nil {
		return err
	}
	if err := artifact.WriteProbeFile(cfg.Paths.Probe, a.Reference); err != nil {
		return err
	}

	report := verify.GenerateReport(a, cfg.Freq(), cfg.Loopback)
	if cfg.Paths.Report != "" {
		if err := report.SaveReportToFile(cfg.Paths.Report); err != nil {
			return err
		}
	}

	if cfg.Paths.Manifest != "" {
		if err := writeManifest(cfg, seed, a); err != nil {
			return err
		}
	}

	if !opts.quiet {
		core.PrintSummary(out, a)
	}
	fmt.Fprintf(out, "test vector: %d bits written into %s, probe written into %s, simulation time %d\n",
		a.Bitstream.Len(), cfg.Paths.Vector, cfg.Paths.Probe, a.Budget.SimTime)

	if !report.Passed() {
		report.WriteReport(errOut)
		return errors.New("verification failed")
	}

	return nil
}

func writeManifest(cfg *config.Config, seed uint64, a *core.Artifacts) error {
	m := &manifest.Manifest{
		Seed:       seed,
		Relays:     a.Topology.RelayCount(),
		Configs:    len(a.Topology.Configs),
		Tests:      len(a.Plan),
		VectorBits: a.Bitstream.Len(),
		SimTime:    a.Budget.SimTime,
	}

	files := []struct{ name, path string }{
		{"vector", cfg.Paths.Vector},
		{"probe", cfg.Paths.Probe},
		{"report", cfg.Paths.Report},
	}
	for _, f := range files {
		if f.path == "" {
			continue
		}
		if err := m.Add(f.name, f.path); err != nil {
			return err
		}
	}

	if err := m.Save(cfg.Paths.Manifest); err != nil {
		return err
	}
	slog.Info("ManifestSaved", "Path", cfg.Paths.Manifest, "Artifacts", len(m.Artifacts))

	return nil
}
