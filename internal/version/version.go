// Package version records this tool's own name and version, recorded into
// every generation's CreatorInfo (spec §3), grounded on the teacher's
// pkg/mutagen/version.go.
package version

import "fmt"

const (
	// ToolName identifies this implementation in CreatorInfo.ToolName.
	ToolName = "ascmhl-go"

	// Major is the current major version.
	Major = 0
	// Minor is the current minor version.
	Minor = 1
	// Patch is the current patch version.
	Patch = 0
)

// String renders the full dotted version string.
func String() string {
	return fmt.Sprintf("%d.%d.%d", Major, Minor, Patch)
}
