package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pomfort/ascmhl/internal/engine"
)

var verifyConfiguration struct {
	ignore         []string
	ignoreSpecFile string
}

var verifyCommand = &cobra.Command{
	Use:   "verify ROOT_PATH",
	Short: "Verify a folder against its full ascmhl history",
	Long: `Verify traverses ROOT_PATH, hashes every file, and compares the result
against the records in the ascmhl history. Missing files and additional files
are reported as errors. No new generation is created.`,
	Args: cobra.ExactArgs(1),
	Run:  verifyMain,
}

func init() {
	flags := verifyCommand.Flags()
	flags.StringSliceVarP(&verifyConfiguration.ignore, "ignore", "i", nil, "A file pattern to ignore (repeatable)")
	flags.StringVarP(&verifyConfiguration.ignoreSpecFile, "ignore-spec", "I", "", "A file containing multiple ignore patterns")
}

func verifyMain(command *cobra.Command, arguments []string) {
	root, err := resolveRoot(arguments[0])
	if err != nil {
		fail(err)
	}

	report, err := engine.Verify(root, engine.VerifyOptions{
		AdHocIgnorePatterns: verifyConfiguration.ignore,
		IgnorePatternFile:   verifyConfiguration.ignoreSpecFile,
	})
	if _, ok := err.(*engine.NoHistoryError); ok {
		fail(err)
	}

	if report != nil {
		for _, path := range report.NewFiles {
			warning(fmt.Sprintf("found new file %s", path))
		}
		for _, m := range report.Mismatches {
			warning(fmt.Sprintf(
				"hash mismatch for %s: algorithm %s expected %s, got %s",
				m.RelativePath, m.Algorithm, m.Expected, m.Actual,
			))
		}
		for _, path := range report.MissingFiles {
			warning(fmt.Sprintf("missing file %s", path))
		}
		fmt.Printf("verified %d file(s)\n", report.Verified)
	}

	if err != nil {
		fail(err)
	}
}
