package aggregate

import (
	"strings"

	"github.com/pomfort/ascmhl/internal/hashing"
)

// DirectoryContentHashContext accumulates (relative_path, content_digest)
// pairs observed for every file beneath a directory tree and computes the
// aggregated content hash for any prefix within it (spec §4.2, "directory
// content hash"). It is not safe for concurrent use.
type DirectoryContentHashContext struct {
	algorithm hashing.Algorithm
	entries   []contentEntry
}

type contentEntry struct {
	path   string
	digest string
}

// NewDirectoryContentHashContext creates a content hash context that hashes
// with algorithm a.
func NewDirectoryContentHashContext(a hashing.Algorithm) *DirectoryContentHashContext {
	return &DirectoryContentHashContext{algorithm: a}
}

// Add records the content digest for a single file at relativePath.
func (c *DirectoryContentHashContext) Add(relativePath, digest string) {
	c.entries = append(c.entries, contentEntry{relativePath, digest})
}

// DigestForPrefix computes the aggregate content digest of every file whose
// relative path has prefix as a path prefix. An empty prefix selects every
// recorded entry.
func (c *DirectoryContentHashContext) DigestForPrefix(prefix string) (string, error) {
	var digests []string
	for _, e := range c.entries {
		if prefix == "" || isPathPrefix(prefix, e.path) {
			digests = append(digests, e.digest)
		}
	}
	return DigestForDigestList(digests, c.algorithm)
}

// isPathPrefix reports whether prefix denotes a path-segment-aligned prefix
// of path (i.e. prefix itself, or prefix followed by a '/').
func isPathPrefix(prefix, path string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}

// directoryStructureNode represents one child (file or subdirectory)
// contributing to a DirectoryStructureHashContext.
type directoryStructureNode struct {
	nameDigest      string
	structureDigest string // empty for files
	isDir           bool
}

// DirectoryStructureHashContext accumulates the name/structure digests of a
// directory's immediate children and computes that directory's structure
// hash (spec §4.2, "directory structure hash"). One context exists per
// directory and is built bottom-up during post-order traversal: a
// subdirectory's own structure hash is computed first and then folded into
// its parent's context via AddSubdirectory.
type DirectoryStructureHashContext struct {
	algorithm hashing.Algorithm
	children  []directoryStructureNode
}

// NewDirectoryStructureHashContext creates a structure hash context that
// hashes with algorithm a.
func NewDirectoryStructureHashContext(a hashing.Algorithm) *DirectoryStructureHashContext {
	return &DirectoryStructureHashContext{algorithm: a}
}

// AddFile records a file child by its basename.
func (c *DirectoryStructureHashContext) AddFile(basename string) {
	c.children = append(c.children, directoryStructureNode{
		nameDigest: hashing.HashString(basename, c.algorithm),
	})
}

// AddSubdirectory records a subdirectory child by its basename and its own,
// already-computed structure digest.
func (c *DirectoryStructureHashContext) AddSubdirectory(basename, structureDigest string) {
	c.children = append(c.children, directoryStructureNode{
		nameDigest:      hashing.HashString(basename, c.algorithm),
		structureDigest: structureDigest,
		isDir:           true,
	})
}

// Digest computes the structure hash: the digest-list reduction of the
// flattened list of name hashes for files, and name-hash-then-structure-hash
// pairs for subdirectories (spec §4.2).
func (c *DirectoryStructureHashContext) Digest() (string, error) {
	var flattened []string
	for _, child := range c.children {
		if child.isDir {
			continue
		}
		flattened = append(flattened, child.nameDigest)
	}
	for _, child := range c.children {
		if !child.isDir {
			continue
		}
		flattened = append(flattened, child.nameDigest, child.structureDigest)
	}
	return DigestForDigestList(flattened, c.algorithm)
}
