package cmd

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/fiberseq/firetools/coverage"
	"github.com/fiberseq/firetools/encoding/fasta"
	"github.com/fiberseq/firetools/interval"
	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"v.io/x/lib/cmdline"
)

type coverageFlags struct {
	chroms      string
	reference   string
	keepChroms  string
	exclude     string
	regions     string
	oneBasedBED bool
	minCoverage float64
	withinNSD   float64
	out         coverage.OutputPaths
}

// allowedChroms returns the -chroms list if set, otherwise the sequences of
// -reference matching -keep-chromosomes.
func allowedChroms(ctx context.Context, f coverageFlags) ([]string, error) {
	if f.chroms != "" {
		return strings.Split(f.chroms, ","), nil
	}
	if f.reference == "" {
		return nil, errors.E(errors.Invalid, "coverage: one of -chroms or -reference is required")
	}
	keep, err := regexp.Compile(f.keepChroms)
	if err != nil {
		return nil, errors.E(errors.Invalid, err, "coverage: -keep-chromosomes")
	}
	entries, err := fasta.ReadIndexFromPath(ctx, f.reference)
	if err != nil {
		return nil, err
	}
	chroms := fasta.SeqNames(entries, keep)
	log.Printf("coverage: %d of %d reference sequence(s) match %q", len(chroms), len(entries), f.keepChroms)
	return chroms, nil
}

func runCoverage(ctx context.Context, f coverageFlags, bedgraphPath string) error {
	if f.out.Median == "" || f.out.Min == "" || f.out.Max == "" {
		return errors.E(errors.Invalid, "coverage: -median-out, -min-out and -max-out are required")
	}
	opts := coverage.DefaultOpts
	opts.MinCoverage = f.minCoverage
	opts.WithinNSD = f.withinNSD
	var err error
	if opts.Chroms, err = allowedChroms(ctx, f); err != nil {
		return err
	}
	if f.exclude != "" {
		exclude, err := interval.NewBEDUnionFromPath(f.exclude, interval.NewBEDOpts{OneBasedInput: f.oneBasedBED})
		if err != nil {
			return errors.E(err, "coverage: -exclude", f.exclude)
		}
		opts.Exclude = &exclude
	}
	if f.regions != "" {
		if opts.Outside, err = coverage.ReadRegions(f.regions, f.oneBasedBED); err != nil {
			return err
		}
	}
	records, err := coverage.ReadRecords(ctx, bedgraphPath)
	if err != nil {
		return err
	}
	summary, err := coverage.Estimate(records, opts)
	if err != nil {
		return err
	}
	return summary.Write(ctx, f.out)
}

func newCmdCoverage() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "coverage",
		Short:    "Estimate the median coverage and the accepted coverage band",
		ArgsName: "bedgraph",
		Long: `
Reads a headerless chrom/start/end/depth table (optionally gzipped) and writes
the length-weighted median depth, and the minimum and maximum accepted depth,
each to its own file as a single integer.

Fails if the median depth is below 5.`,
	}
	f := coverageFlags{}
	cmd.Flags.StringVar(&f.chroms, "chroms", "", "Comma-separated chromosomes to use. Takes precedence over -reference")
	cmd.Flags.StringVar(&f.reference, "reference", "", "Reference FASTA or .fai; its sequences matching -keep-chromosomes are used")
	cmd.Flags.StringVar(&f.keepChroms, "keep-chromosomes", ".*", "Regular expression selecting reference sequences")
	cmd.Flags.StringVar(&f.exclude, "exclude", "", "Optional BED of regions; intervals overlapping them are ignored")
	cmd.Flags.StringVar(&f.regions, "regions", "", "Optional BED of regions; only intervals lying entirely within them are used")
	cmd.Flags.BoolVar(&f.oneBasedBED, "one-based-bed", false, "Read -exclude and -regions as one-based, closed intervals")
	cmd.Flags.Float64Var(&f.minCoverage, "min-coverage", coverage.DefaultOpts.MinCoverage, "Floor of the minimum accepted coverage")
	cmd.Flags.Float64Var(&f.withinNSD, "coverage-within-n-sd", coverage.DefaultOpts.WithinNSD, "Half-width of the accepted coverage band, in standard deviations (sqrt(median))")
	cmd.Flags.StringVar(&f.out.Median, "median-out", "", "Output path of the median coverage")
	cmd.Flags.StringVar(&f.out.Min, "min-out", "", "Output path of the minimum accepted coverage")
	cmd.Flags.StringVar(&f.out.Max, "max-out", "", "Output path of the maximum accepted coverage")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("coverage takes one bedgraph argument, but got %v", argv)
		}
		return runCoverage(vcontext.Background(), f, argv[0])
	})
	return cmd
}
