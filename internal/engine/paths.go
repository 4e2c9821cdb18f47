package engine

import (
	"path/filepath"
	"sort"

	"github.com/pomfort/ascmhl/internal/history"
)

// joinRelative joins a forward-slash relative path with a new name
// component.
func joinRelative(relativePath, name string) string {
	if relativePath == "" {
		return name
	}
	return relativePath + "/" + name
}

// relativeToRoot renders absPath as a forward-slash path relative to root, or
// "" if absPath is root itself.
func relativeToRoot(root, absPath string) (string, error) {
	rel, err := filepath.Rel(root, absPath)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		rel = ""
	}
	return rel, nil
}

// collectFilePaths gathers every relative file path recorded across h and
// all of its nested child histories, expressed relative to h itself (spec
// §4.5: completeness checks span the whole history tree, not just its root
// sidecar).
func collectFilePaths(h *history.History, prefix string, out map[string]bool) {
	for p := range h.SetOfFilePaths() {
		out[joinRelative(prefix, p)] = true
	}
	for key, child := range h.Children {
		collectFilePaths(child, joinRelative(prefix, key), out)
	}
}

// sortedKeys returns the keys of a set map in lexicographic order, for
// deterministic report output.
func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
