package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pomfort/ascmhl/internal/version"
)

var rootConfiguration struct {
	// verbose enables debug-level logging output.
	verbose bool
	// configPath points at an optional YAML defaults file.
	configPath string
	// showVersion prints the tool version and exits.
	showVersion bool
}

var rootCommand = &cobra.Command{
	Use:   "ascmhl",
	Short: "ascmhl creates and verifies an append-only, multi-algorithm hash history for a directory tree",
	Run: func(command *cobra.Command, arguments []string) {
		if rootConfiguration.showVersion {
			fmt.Println(version.String())
			return
		}
		command.Help()
	},
}

func init() {
	flags := rootCommand.PersistentFlags()
	flags.BoolVarP(&rootConfiguration.verbose, "verbose", "v", false, "Verbose output")
	flags.StringVar(&rootConfiguration.configPath, "config", "", "Path to a YAML defaults file")

	rootCommand.Flags().BoolVarP(&rootConfiguration.showVersion, "version", "V", false, "Show version information")

	cobra.EnableCommandSorting = false

	rootCommand.AddCommand(
		sealCommand,
		verifyCommand,
		diffCommand,
		infoCommand,
	)
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		os.Exit(1)
	}
}
