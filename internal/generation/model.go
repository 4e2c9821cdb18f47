// Package generation defines the logical data model for one generation (spec
// §3): hash entries, media hashes, directory hashes, creator and process
// metadata, and the hash list that ties them together for a single sealed
// snapshot of a tree.
package generation

import (
	"encoding/xml"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pomfort/ascmhl/internal/hashing"
)

// UnknownElement preserves a single XML child element this reader doesn't
// recognize, captured verbatim (name, attributes, and inner content) so that
// a later Encode can re-emit it unchanged on a read-modify-write cycle (spec
// §4.7: "Any fields unknown to the decoder are preserved verbatim on
// re-encode").
type UnknownElement struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Content string     `xml:",innerxml"`
}

// Action records what a HashEntry means within the generation that contains
// it (spec §3).
type Action uint8

const (
	// ActionOriginal marks the first time a path was ever recorded, in any
	// algorithm.
	ActionOriginal Action = iota
	// ActionVerified marks a re-hash that matched a prior entry.
	ActionVerified
	// ActionFailed marks a re-hash that differed from a prior entry.
	ActionFailed
	// ActionNew marks a new algorithm added for an already-known path, or a
	// first algorithm for a brand new path that is not itself the Original
	// entry (spec §4.6, case 2).
	ActionNew
)

// String renders the action using the persisted attribute values.
func (a Action) String() string {
	switch a {
	case ActionOriginal:
		return "original"
	case ActionVerified:
		return "verified"
	case ActionFailed:
		return "failed"
	case ActionNew:
		return "new"
	default:
		return "unknown"
	}
}

// HashValue pairs an algorithm with its canonical digest string (spec §3).
type HashValue struct {
	Algorithm hashing.Algorithm
	Digest    string
}

// HashEntry is one algorithm's hash for a MediaHash, along with the action
// it represents in the generation that recorded it (spec §3).
type HashEntry struct {
	Value  HashValue
	Action Action
}

// MediaHash records size, modification time, and one or more content hashes
// for a single file (spec §3).
type MediaHash struct {
	// RelativePath is forward-slash normalized, never absolute, never empty,
	// and never begins with "./".
	RelativePath string
	SizeBytes    int64
	LastModified time.Time
	Entries      []HashEntry
}

// EntryForAlgorithm returns the HashEntry for algorithm a, if present.
func (m *MediaHash) EntryForAlgorithm(a hashing.Algorithm) (HashEntry, bool) {
	for _, e := range m.Entries {
		if e.Value.Algorithm == a {
			return e, true
		}
	}
	return HashEntry{}, false
}

// AddOrReplaceEntry inserts entry, replacing any existing entry for the same
// algorithm (spec §3: "at most one entry per algorithm").
func (m *MediaHash) AddOrReplaceEntry(entry HashEntry) {
	for i, e := range m.Entries {
		if e.Value.Algorithm == entry.Value.Algorithm {
			m.Entries[i] = entry
			return
		}
	}
	m.Entries = append(m.Entries, entry)
}

// SortedEntries returns a copy of m.Entries ordered by algorithm priority,
// highest first, for deterministic serialization (spec §4.7).
func (m *MediaHash) SortedEntries() []HashEntry {
	sorted := append([]HashEntry(nil), m.Entries...)
	sort.Slice(sorted, func(i, j int) bool {
		return hashing.SortOrder(sorted[i].Value.Algorithm) < hashing.SortOrder(sorted[j].Value.Algorithm)
	})
	return sorted
}

// EnsureValid validates the invariants a MediaHash must satisfy (spec §3).
func (m *MediaHash) EnsureValid() error {
	if m.RelativePath == "" {
		return errors.New("empty relative path")
	}
	if strings.HasPrefix(m.RelativePath, "/") {
		return errors.New("relative path must not be absolute")
	}
	if strings.HasPrefix(m.RelativePath, "./") {
		return errors.New("relative path must not start with ./")
	}
	seen := make(map[hashing.Algorithm]bool, len(m.Entries))
	for _, e := range m.Entries {
		if seen[e.Value.Algorithm] {
			return fmt.Errorf("duplicate hash entry for algorithm %s on path %s", e.Value.Algorithm, m.RelativePath)
		}
		seen[e.Value.Algorithm] = true
	}
	return nil
}

// DirectoryHash records the aggregated hash for a single (directory,
// algorithm) pair (spec §3).
type DirectoryHash struct {
	RelativePath string
	LastModified time.Time
	Value        HashValue
}

// CreatorInfo is immutable per generation (spec §3).
type CreatorInfo struct {
	CreationDate time.Time
	HostName     string
	ToolName     string
	ToolVersion  string
	// ProcessID identifies the sealing run that produced this
	// generation, shared by every sidecar a single Session.Commit call
	// touches. Unlike GenerationNumber, which is scoped to one sidecar, this
	// lets a later reader tell that generations written to several nested
	// histories in the same run belong together.
	ProcessID string
	// Unknown holds any creatorInfo child elements this reader didn't
	// recognize, preserved for re-encoding (spec §4.7).
	Unknown []UnknownElement
}

// ProcessInfo records the process type and the ignore patterns in effect
// when the generation was created, so that future verifications can
// reconstruct identical exclusion semantics (spec §3).
type ProcessInfo struct {
	ProcessType    string
	IgnorePatterns []string
	// Unknown holds any processInfo child elements this reader didn't
	// recognize, preserved for re-encoding (spec §4.7).
	Unknown []UnknownElement
}

// HashList is the logical representation of one generation (spec §3).
type HashList struct {
	GenerationNumber uint32
	Creator          CreatorInfo
	Process          ProcessInfo
	MediaHashes      []MediaHash
	DirectoryHashes  []DirectoryHash
	RootPath         string
	// Unknown holds any top-level hashlist child elements this reader didn't
	// recognize, preserved for re-encoding (spec §4.7).
	Unknown []UnknownElement
}

// MediaHashForPath returns the MediaHash recorded for relativePath in this
// generation, if any.
func (h *HashList) MediaHashForPath(relativePath string) (*MediaHash, bool) {
	for i := range h.MediaHashes {
		if h.MediaHashes[i].RelativePath == relativePath {
			return &h.MediaHashes[i], true
		}
	}
	return nil, false
}

// EnsureValid validates the invariants a HashList must satisfy (spec §3).
func (h *HashList) EnsureValid() error {
	if h.GenerationNumber < 1 {
		return errors.New("generation number must be at least 1")
	}
	seen := make(map[string]bool, len(h.MediaHashes))
	for i := range h.MediaHashes {
		if err := h.MediaHashes[i].EnsureValid(); err != nil {
			return err
		}
		path := h.MediaHashes[i].RelativePath
		if seen[path] {
			return fmt.Errorf("duplicate media hash for path %s", path)
		}
		seen[path] = true
	}
	return nil
}

// SortedMediaHashes returns a copy of h.MediaHashes ordered lexicographically
// by relative path, for deterministic serialization (spec §4.7).
func (h *HashList) SortedMediaHashes() []MediaHash {
	sorted := append([]MediaHash(nil), h.MediaHashes...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].RelativePath < sorted[j].RelativePath
	})
	return sorted
}

// SortedDirectoryHashes returns a copy of h.DirectoryHashes ordered
// lexicographically by relative path, for deterministic serialization (spec
// §4.7).
func (h *HashList) SortedDirectoryHashes() []DirectoryHash {
	sorted := append([]DirectoryHash(nil), h.DirectoryHashes...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].RelativePath < sorted[j].RelativePath
	})
	return sorted
}
