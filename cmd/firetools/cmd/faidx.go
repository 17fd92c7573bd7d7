package cmd

import (
	"context"
	"fmt"

	"github.com/fiberseq/firetools/encoding/fasta"
	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
	"v.io/x/lib/cmdline"
)

func runFaidx(ctx context.Context, fastaPath, faiPath string) (err error) {
	in, err := file.Open(ctx, fastaPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := in.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	out, err := file.Create(ctx, faiPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fasta.GenerateIndex(out.Writer(ctx), in.Reader(ctx))
}

func newCmdFaidx() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "faidx",
		Short:    "Index an uncompressed FASTA, like 'samtools faidx'",
		ArgsName: "fasta [fai]",
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		switch len(argv) {
		case 1:
			return runFaidx(vcontext.Background(), argv[0], argv[0]+".fai")
		case 2:
			return runFaidx(vcontext.Background(), argv[0], argv[1])
		}
		return fmt.Errorf("faidx takes fasta [fai], but got %v", argv)
	})
	return cmd
}
