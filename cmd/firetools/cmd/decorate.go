package cmd

import (
	"fmt"

	"github.com/fiberseq/firetools/bed12"
	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/vcontext"
	"v.io/x/lib/cmdline"
)

func newCmdDecorate() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "decorate",
		Short:    "Convert FIRE element calls into decorated BED12",
		ArgsName: "features",
		Long: `
Reads a feature table with a '#ct st en fiber score strand ... color ... HP'
header ("-" for stdin) and writes one BED12 line per fiber to -out and the
linker and FIRE decorations to -decorators. Outputs ending in .gz are
BGZF-compressed.`,
	}
	decorators := cmd.Flags.String("decorators", bed12.Stdio, "Output path of the decorator lines; - for stdout")
	out := cmd.Flags.String("out", "", "Output path of the fiber lines; - for stdout")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("decorate takes one features argument, but got %v", argv)
		}
		if *out == "" {
			return fmt.Errorf("decorate: -out is required")
		}
		if *out == bed12.Stdio && *decorators == bed12.Stdio {
			return fmt.Errorf("decorate: -out and -decorators can't both be stdout")
		}
		return bed12.FormatPaths(vcontext.Background(), argv[0], *decorators, *out)
	})
	return cmd
}
