package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// warning prints a warning message to standard error, following the
// teacher's cmd/error.go.
func warning(message string) {
	fmt.Fprintln(color.Error, color.YellowString("Warning:"), message)
}

// fail prints an error message to standard error and terminates the process
// with a non-zero exit code.
func fail(err error) {
	fmt.Fprintln(os.Stderr, color.RedString("Error:"), err)
	os.Exit(1)
}
