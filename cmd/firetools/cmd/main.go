package cmd

import (
	"v.io/x/lib/cmdline"
)

func Run() {
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(
		&cmdline.Command{
			Name:     "firetools",
			Short:    "Post-processing tools for FIRE fiber-seq runs",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdCoverage(),
				newCmdDecorate(),
				newCmdTrackhub(),
				newCmdFaidx(),
			},
		})
}
