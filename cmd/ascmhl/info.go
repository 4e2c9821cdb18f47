package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/pomfort/ascmhl/internal/engine"
)

var infoCommand = &cobra.Command{
	Use:   "info ROOT_PATH",
	Short: "Print information from an ascmhl history",
	Args:  cobra.ExactArgs(1),
	Run:   infoMain,
}

func infoMain(command *cobra.Command, arguments []string) {
	root, err := resolveRoot(arguments[0])
	if err != nil {
		fail(err)
	}

	report, err := engine.Info(root)
	if err != nil {
		fail(err)
	}

	printInfo(report, 0)
}

func printInfo(report *engine.InfoReport, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Printf("%s%s\n", indent, report.RootPath)
	for _, gen := range report.Generations {
		fmt.Printf(
			"%s  generation %d: %s files, %s directories, created %s by %s@%s\n",
			indent,
			gen.Number,
			humanize.Comma(int64(gen.MediaFileCount)),
			humanize.Comma(int64(gen.DirectoryCount)),
			gen.Creator.CreationDate.Format("2006-01-02 15:04:05"),
			gen.Creator.ToolName,
			gen.Creator.HostName,
		)
	}
	for _, child := range report.Children {
		printInfo(&child, depth+1)
	}
}
