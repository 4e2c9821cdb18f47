package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pomfort/ascmhl/internal/engine"
	"github.com/pomfort/ascmhl/internal/history"
	"github.com/pomfort/ascmhl/internal/version"
)

var sealConfiguration struct {
	hashFormats       []string
	noDirectoryHashes bool
	ignore            []string
	ignoreSpecFile    string
}

var sealCommand = &cobra.Command{
	Use:   "seal ROOT_PATH",
	Short: "Create a new generation for a folder hierarchy",
	Long: `Seal hashes all files below ROOT_PATH and creates a new generation in the
ascmhl history with records for all hashed files, comparing against hashes
stored in previous generations where available.`,
	Args: cobra.ExactArgs(1),
	Run:  sealMain,
}

func init() {
	flags := sealCommand.Flags()
	flags.StringSliceVarP(&sealConfiguration.hashFormats, "hash-format", "H", nil, "Hash algorithm(s) to use (repeatable)")
	flags.BoolVarP(&sealConfiguration.noDirectoryHashes, "no-directory-hashes", "n", false, "Skip creation of directory hashes")
	flags.StringSliceVarP(&sealConfiguration.ignore, "ignore", "i", nil, "A file pattern to ignore (repeatable)")
	flags.StringVarP(&sealConfiguration.ignoreSpecFile, "ignore-spec", "I", "", "A file containing multiple ignore patterns")
}

func sealMain(command *cobra.Command, arguments []string) {
	root, err := resolveRoot(arguments[0])
	if err != nil {
		fail(err)
	}

	defaults, err := loadDefaults()
	if err != nil {
		fail(err)
	}

	algorithms, err := parseAlgorithms(sealConfiguration.hashFormats, defaults)
	if err != nil {
		fail(err)
	}

	ignoreSpecFile := sealConfiguration.ignoreSpecFile
	if ignoreSpecFile == "" {
		ignoreSpecFile = defaults.IgnorePatternFile
	}

	report, err := engine.Seal(root, engine.SealOptions{
		Algorithms:          algorithms,
		SkipDirectoryHashes: sealConfiguration.noDirectoryHashes,
		AdHocIgnorePatterns: sealConfiguration.ignore,
		IgnorePatternFile:   ignoreSpecFile,
		ProcessType:         "in-place",
		Creator:             history.NewCreatorInfo(version.ToolName, version.String()),
		Logger:              newLogger(),
	})
	if _, isMismatch := err.(*history.HashMismatchSummaryError); err != nil && !isMismatch {
		fail(err)
	}

	if report != nil {
		for _, list := range report.HashLists {
			fmt.Printf("wrote generation %d for %s\n", list.GenerationNumber, list.RootPath)
		}
	}
	if err != nil {
		fail(err)
	}
}
