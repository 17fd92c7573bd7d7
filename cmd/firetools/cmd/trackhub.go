package cmd

import (
	"context"
	"fmt"

	"github.com/fiberseq/firetools/coverage"
	"github.com/fiberseq/firetools/trackhub"
	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/vcontext"
	"v.io/x/lib/cmdline"
)

type trackhubFlags struct {
	opts         trackhub.Opts
	coverageFile string
}

func runTrackhub(ctx context.Context, f trackhubFlags) error {
	opts := f.opts
	if f.coverageFile != "" {
		avg, err := coverage.ReadScalar(ctx, f.coverageFile)
		if err != nil {
			return err
		}
		opts.AverageCoverage = avg
	}
	return trackhub.Generate(ctx, opts)
}

func newCmdTrackhub() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "trackhub",
		Short: "Write the genome browser track hub files",
	}
	f := trackhubFlags{opts: trackhub.DefaultOpts}
	cmd.Flags.StringVar(&f.opts.Dir, "dir", "", "Track hub directory")
	cmd.Flags.StringVar(&f.opts.Reference, "reference", "", "Reference genome name, e.g. hg38 or T2Tv2.0")
	cmd.Flags.StringVar(&f.opts.Sample, "sample", "", "Sample name")
	cmd.Flags.StringVar(&f.opts.Email, "email", "", "Contact email of the hub")
	cmd.Flags.Int64Var(&f.opts.AverageCoverage, "average-coverage", trackhub.DefaultOpts.AverageCoverage, "Typical coverage of the sample")
	cmd.Flags.StringVar(&f.coverageFile, "coverage-file", "", "Median coverage file written by 'firetools coverage'; overrides -average-coverage")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 0 {
			return fmt.Errorf("trackhub takes no arguments, but got %v", argv)
		}
		return runTrackhub(vcontext.Background(), f)
	})
	return cmd
}
