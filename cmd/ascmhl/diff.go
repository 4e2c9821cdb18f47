package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pomfort/ascmhl/internal/engine"
)

var diffConfiguration struct {
	ignore         []string
	ignoreSpecFile string
}

var diffCommand = &cobra.Command{
	Use:   "diff ROOT_PATH",
	Short: "Quickly compare a folder with its ascmhl history without hashing",
	Long: `Diff compares files in the file system with records in the ascmhl history.
Unlike verify, no hash values are computed or compared: only existence is
checked. Missing files or additional files are reported as errors.`,
	Args: cobra.ExactArgs(1),
	Run:  diffMain,
}

func init() {
	flags := diffCommand.Flags()
	flags.StringSliceVarP(&diffConfiguration.ignore, "ignore", "i", nil, "A file pattern to ignore (repeatable)")
	flags.StringVarP(&diffConfiguration.ignoreSpecFile, "ignore-spec", "I", "", "A file containing multiple ignore patterns")
}

func diffMain(command *cobra.Command, arguments []string) {
	root, err := resolveRoot(arguments[0])
	if err != nil {
		fail(err)
	}

	report, err := engine.Diff(root, engine.DiffOptions{
		AdHocIgnorePatterns: diffConfiguration.ignore,
		IgnorePatternFile:   diffConfiguration.ignoreSpecFile,
	})
	if _, ok := err.(*engine.NoHistoryError); ok {
		fail(err)
	}

	if report != nil {
		for _, path := range report.NewFiles {
			warning(fmt.Sprintf("found new file %s", path))
		}
		for _, path := range report.MissingFiles {
			warning(fmt.Sprintf("missing file %s", path))
		}
	}

	if err != nil {
		fail(err)
	}
}
