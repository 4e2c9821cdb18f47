package history

import (
	"os"
	"sort"
)

// readFile reads the full contents of path.
func readFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// readDirSorted reads dir's entries sorted lexicographically by name, for
// deterministic child-history discovery order.
func readDirSorted(dir string) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// joinRelative joins a forward-slash relative path with a new name
// component.
func joinRelative(relativePath, name string) string {
	if relativePath == "" {
		return name
	}
	return relativePath + "/" + name
}
