// Package mhltraverse implements the post-order, lexicographically sorted,
// ignore-aware directory walk described in spec §4.4, grounded on the
// recursive scanner in the teacher's pkg/synchronization/core/scan.go
// (simplified here since this spec has no bidirectional reconciliation,
// executability, or Unicode-decomposition concerns to track per entry).
package mhltraverse

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pomfort/ascmhl/internal/ignore"
)

// Child describes one traversed filesystem entry relative to its parent
// folder.
type Child struct {
	// Name is the entry's base name.
	Name string
	// IsDir indicates whether the entry is a directory.
	IsDir bool
}

// Folder is one post-order visitation: an absolute folder path and the
// lexicographically sorted, ignore-filtered list of its immediate children.
type Folder struct {
	// AbsolutePath is the folder's absolute filesystem path.
	AbsolutePath string
	// RelativePath is the folder's path relative to the synchronization
	// root, using forward slashes. Empty for the root itself.
	RelativePath string
	// Children is the sorted list of non-excluded immediate children.
	Children []Child
}

// Visitor receives each Folder in post-order as the tree is walked: a
// directory's Folder is emitted only after every descendant directory's
// Folder has been emitted.
type Visitor func(Folder) error

// Walk performs a post-order, lexicographically sorted, ignore-aware walk of
// root, invoking visit once for every non-ignored directory (including root
// itself). Symbolic links that point to regular files are followed; symlink
// loops are broken by tracking visited real (device, inode) pairs.
func Walk(root string, matcher *ignore.Matcher, visit Visitor) error {
	w := &walker{root: root, matcher: matcher, visited: make(map[visitKey]bool)}
	return w.walk("", visit)
}

type visitKey struct {
	device uint64
	inode  uint64
}

type walker struct {
	root    string
	matcher *ignore.Matcher
	visited map[visitKey]bool
}

// walk recursively visits the directory at relativePath (relative to
// w.root), emitting its Folder after all of its subdirectories have been
// visited (post-order).
func (w *walker) walk(relativePath string, visit Visitor) error {
	absolutePath := filepath.Join(w.root, filepath.FromSlash(relativePath))

	info, err := os.Lstat(absolutePath)
	if err != nil {
		return fmt.Errorf("unable to stat %s: %w", absolutePath, err)
	}
	if key, ok := deviceInodeKey(info); ok {
		if w.visited[key] {
			return nil
		}
		w.visited[key] = true
	}

	entries, err := os.ReadDir(absolutePath)
	if err != nil {
		return fmt.Errorf("unable to read directory %s: %w", absolutePath, err)
	}

	names := make([]string, 0, len(entries))
	kinds := make(map[string]bool, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		isDir, resolvedErr := w.resolveIsDir(filepath.Join(absolutePath, name), entry)
		if resolvedErr != nil {
			// Broken symlinks and similar anomalies are skipped rather than
			// aborting the whole walk: hashing failures are reported
			// per-file (spec §7), not structural.
			continue
		}

		childRelative := joinRelative(relativePath, name)
		status := w.matcher.Matches(childRelative, isDir)
		if status == ignore.StatusIgnored {
			continue
		}

		names = append(names, name)
		kinds[name] = isDir
	}
	sort.Strings(names)

	children := make([]Child, 0, len(names))
	for _, name := range names {
		isDir := kinds[name]
		children = append(children, Child{Name: name, IsDir: isDir})
		if isDir {
			if err := w.walk(joinRelative(relativePath, name), visit); err != nil {
				return err
			}
		}
	}

	return visit(Folder{
		AbsolutePath: absolutePath,
		RelativePath: relativePath,
		Children:     children,
	})
}

// resolveIsDir determines whether path denotes a directory, following a
// symbolic link to a regular file or directory but never to anything else.
func (w *walker) resolveIsDir(path string, entry os.DirEntry) (bool, error) {
	if entry.Type()&os.ModeSymlink == 0 {
		return entry.IsDir(), nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	if !info.Mode().IsRegular() && !info.IsDir() {
		return false, fmt.Errorf("symlink target is neither file nor directory: %s", path)
	}
	return info.IsDir(), nil
}

// joinRelative joins a forward-slash relative path with a new name
// component.
func joinRelative(relativePath, name string) string {
	if relativePath == "" {
		return name
	}
	return relativePath + "/" + name
}
