package history

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/pomfort/ascmhl/internal/ignore"
)

// SidecarName is the per-root directory holding generation files (spec §6).
// It is also the name always appended to the built-in ignore defaults so
// that a history never traverses into its own sidecar.
const SidecarName = ignore.DefaultSidecarName

// GenerationFileExtension is the file extension used for persisted
// generation files.
const GenerationFileExtension = ".mhl"

// ChainFileName is the name of the optional chain file listing generation
// files together with their own self-referencing digests (spec §6).
const ChainFileName = "chain.txt"

// generationFilePattern matches "<basename>_<YYYY-MM-DD>_<HHMMSS>_<NNNN>.mhl".
var generationFilePattern = regexp.MustCompile(`^(.+)_(\d{4}-\d{2}-\d{2})_(\d{6})_(\d{4})\.mhl$`)

// sidecarPath returns the path to the sidecar directory for a tree rooted at
// root.
func sidecarPath(root string) string {
	return filepath.Join(root, SidecarName)
}

// generationFileName builds the file name for a new generation of the tree
// rooted at root, following the naming convention in spec §6.
func generationFileName(root string, generationNumber uint32, timestamp time.Time) string {
	base := filepath.Base(filepath.Clean(root))
	return fmt.Sprintf(
		"%s_%s_%s_%04d%s",
		base,
		timestamp.Format("2006-01-02"),
		timestamp.Format("150405"),
		generationNumber,
		GenerationFileExtension,
	)
}

// generationFileInfo is one parsed entry from a sidecar directory listing.
type generationFileInfo struct {
	path             string
	generationNumber uint32
}

// listGenerationFiles enumerates and parses the generation file names present
// in a sidecar directory, sorted by generation number ascending.
func listGenerationFiles(sidecar string) ([]generationFileInfo, error) {
	entries, err := os.ReadDir(sidecar)
	if err != nil {
		return nil, fmt.Errorf("unable to read sidecar directory: %w", err)
	}

	var files []generationFileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := generationFilePattern.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		var generationNumber uint32
		if _, err := fmt.Sscanf(match[4], "%d", &generationNumber); err != nil {
			return nil, fmt.Errorf("unable to parse generation number from %s: %w", entry.Name(), err)
		}
		files = append(files, generationFileInfo{
			path:             filepath.Join(sidecar, entry.Name()),
			generationNumber: generationNumber,
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].generationNumber < files[j].generationNumber
	})

	return files, nil
}

// hasSidecar reports whether directory root contains a sidecar folder.
func hasSidecar(root string) bool {
	info, err := os.Stat(sidecarPath(root))
	return err == nil && info.IsDir()
}
