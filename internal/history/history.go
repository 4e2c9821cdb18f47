// Package history implements the generation/history model (spec §4.5): a
// tree of HashLists rooted at a sealed directory, composed with nested child
// histories for subdirectories that contain their own sidecar. There is no
// direct analog in the teacher (mutagen has no append-only generation
// history); the load/lookup shape is grounded on the teacher's
// ReverseLookupMap-over-a-Cache idiom in pkg/synchronization/core/cache.go
// ("accumulate entries, look prior state up by path") and on the Python
// original's HashListFolderManager / MHLHistory module structure
// (original_source/src/mhl/hash_folder.py).
package history

import (
	"fmt"
	"path"
	"strings"

	"github.com/pomfort/ascmhl/internal/generation"
	"github.com/pomfort/ascmhl/internal/hashing"
	"github.com/pomfort/ascmhl/internal/mhlxml"
)

// History is the tree of hash lists rooted at one sealed directory, along
// with any nested child histories for subdirectories that carry their own
// sidecar (spec §3, §4.5).
type History struct {
	// RootPath is the absolute path this history is rooted at.
	RootPath string
	// Generations is ordered by GenerationNumber ascending.
	Generations []*generation.HashList
	// Children maps a subdirectory's path (relative to RootPath, forward
	// slashes) to the History rooted there.
	Children map[string]*History
}

// GenerationGapError reports that generation numbers loaded from a sidecar
// were not contiguous starting at 1 (spec §7).
type GenerationGapError struct {
	Sidecar  string
	Expected uint32
	Found    uint32
}

func (e *GenerationGapError) Error() string {
	return fmt.Sprintf("generation gap in %s: expected generation %d, found %d", e.Sidecar, e.Expected, e.Found)
}

// Load reads the History rooted at root from disk, including any nested
// child histories, and validates generation contiguity at every level (spec
// §4.5, §7).
func Load(root string) (*History, error) {
	h := &History{RootPath: root, Children: make(map[string]*History)}

	if hasSidecar(root) {
		generations, err := loadGenerations(root)
		if err != nil {
			return nil, err
		}
		h.Generations = generations
	}

	if err := h.loadChildren(root, ""); err != nil {
		return nil, err
	}

	return h, nil
}

// loadGenerations reads and validates every generation file in root's
// sidecar.
func loadGenerations(root string) ([]*generation.HashList, error) {
	sidecar := sidecarPath(root)
	files, err := listGenerationFiles(sidecar)
	if err != nil {
		return nil, err
	}

	lists := make([]*generation.HashList, 0, len(files))
	var expected uint32 = 1
	for _, file := range files {
		data, err := readFile(file.path)
		if err != nil {
			return nil, fmt.Errorf("unable to read generation file %s: %w", file.path, err)
		}
		list, err := mhlxml.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("malformed generation file %s: %w", file.path, err)
		}
		if list.GenerationNumber != expected {
			return nil, &GenerationGapError{Sidecar: sidecar, Expected: expected, Found: list.GenerationNumber}
		}
		if err := list.EnsureValid(); err != nil {
			return nil, fmt.Errorf("invalid generation file %s: %w", file.path, err)
		}
		lists = append(lists, list)
		expected++
	}

	return lists, nil
}

// loadChildren recursively discovers nested sidecars beneath root,
// attaching each as a child History keyed by its path relative to the
// original (outermost) root. relativePath is the path of root itself
// relative to that outermost root.
func (h *History) loadChildren(dir, relativePath string) error {
	entries, err := readDirSorted(dir)
	if err != nil {
		return fmt.Errorf("unable to scan for nested histories in %s: %w", dir, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == SidecarName {
			continue
		}
		childAbsolute := path.Join(dir, entry.Name())
		childRelative := joinRelative(relativePath, entry.Name())

		if hasSidecar(childAbsolute) {
			child := &History{RootPath: childAbsolute, Children: make(map[string]*History)}
			generations, err := loadGenerations(childAbsolute)
			if err != nil {
				return err
			}
			child.Generations = generations
			if err := child.loadChildren(childAbsolute, ""); err != nil {
				return err
			}
			h.Children[childRelative] = child
			continue
		}

		if err := h.loadChildren(childAbsolute, childRelative); err != nil {
			return err
		}
	}

	return nil
}

// FindHistoryForPath walks from h downward, at each step choosing the child
// whose key is the longest proper prefix of relativePath, and returns the
// deepest History that encloses relativePath along with the remaining path
// relative to that History's root (spec §4.5).
func (h *History) FindHistoryForPath(relativePath string) (*History, string) {
	current := h
	remaining := relativePath

	for {
		var bestKey string
		for key := range current.Children {
			if isPrefixOf(key, remaining) && len(key) > len(bestKey) {
				bestKey = key
			}
		}
		if bestKey == "" {
			return current, remaining
		}
		current = current.Children[bestKey]
		remaining = strings.TrimPrefix(remaining, bestKey)
		remaining = strings.TrimPrefix(remaining, "/")
	}
}

// isPrefixOf reports whether prefix is a path-segment-aligned prefix of p.
func isPrefixOf(prefix, p string) bool {
	if prefix == p {
		return true
	}
	return strings.HasPrefix(p, prefix+"/")
}

// LatestGenerationNumber returns the highest generation number loaded for
// this History, or 0 if none exist yet.
func (h *History) LatestGenerationNumber() uint32 {
	if len(h.Generations) == 0 {
		return 0
	}
	return h.Generations[len(h.Generations)-1].GenerationNumber
}

// LatestIgnorePatterns returns the ignore patterns stored in the newest
// generation, or an empty slice if there are no generations yet (spec
// §4.5).
func (h *History) LatestIgnorePatterns() []string {
	if len(h.Generations) == 0 {
		return nil
	}
	return h.Generations[len(h.Generations)-1].Process.IgnorePatterns
}

// FindOriginalHashEntryForPath scans generations in ascending order and
// returns the first HashEntry with action Original for relativePath, if any
// (spec §4.5).
func (h *History) FindOriginalHashEntryForPath(relativePath string) (*generation.HashEntry, bool) {
	for _, list := range h.Generations {
		mediaHash, ok := list.MediaHashForPath(relativePath)
		if !ok {
			continue
		}
		for _, entry := range mediaHash.Entries {
			if entry.Action == generation.ActionOriginal {
				e := entry
				return &e, true
			}
		}
	}
	return nil, false
}

// FindLatestHashEntryForPathAndAlgorithm scans generations in descending
// (most recent first) order and returns the most recent HashEntry recorded
// for relativePath in algorithm a, if any.
func (h *History) FindLatestHashEntryForPathAndAlgorithm(relativePath string, a hashing.Algorithm) (*generation.HashEntry, bool) {
	for i := len(h.Generations) - 1; i >= 0; i-- {
		mediaHash, ok := h.Generations[i].MediaHashForPath(relativePath)
		if !ok {
			continue
		}
		if entry, ok := mediaHash.EntryForAlgorithm(a); ok {
			e := entry
			return &e, true
		}
	}
	return nil, false
}

// FindExistingHashFormatsForPath returns the union of algorithms ever
// recorded for relativePath in any prior generation of this History (spec
// §4.5).
func (h *History) FindExistingHashFormatsForPath(relativePath string) []hashing.Algorithm {
	seen := make(map[hashing.Algorithm]bool)
	for _, list := range h.Generations {
		mediaHash, ok := list.MediaHashForPath(relativePath)
		if !ok {
			continue
		}
		for _, entry := range mediaHash.Entries {
			seen[entry.Value.Algorithm] = true
		}
	}
	algorithms := make([]hashing.Algorithm, 0, len(seen))
	for a := range seen {
		algorithms = append(algorithms, a)
	}
	return algorithms
}

// HasAnyRecordForPath reports whether any generation in this History has
// ever recorded a MediaHash for relativePath, regardless of algorithm. It is
// used to determine whether a newly recorded entry is the path's Original
// entry (spec §4.6, step 4).
func (h *History) HasAnyRecordForPath(relativePath string) bool {
	for _, list := range h.Generations {
		if _, ok := list.MediaHashForPath(relativePath); ok {
			return true
		}
	}
	return false
}

// SetOfFilePaths returns the union of relative file paths recorded across
// all generations of this History (spec §4.5). Files are never implicitly
// removed from history (spec §8, S6), so this is simply every path ever
// seen.
func (h *History) SetOfFilePaths() map[string]bool {
	paths := make(map[string]bool)
	for _, list := range h.Generations {
		for _, mediaHash := range list.MediaHashes {
			paths[mediaHash.RelativePath] = true
		}
	}
	return paths
}
