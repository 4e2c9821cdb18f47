package history

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/pomfort/ascmhl/internal/generation"
	"github.com/pomfort/ascmhl/internal/hashing"
	"github.com/pomfort/ascmhl/internal/ignore"
	"github.com/pomfort/ascmhl/internal/logging"
)

// Session is the transactional builder described in spec §4.6: it
// accumulates new hash entries against a read-only History, cross-verifies
// them against prior generations, and commits one new generation per
// sidecar touched, atomically. A Session must not be reused after Commit;
// Commit consumes it.
//
// Grounded on the teacher's builder-with-one-terminal-method idiom (e.g.
// pkg/synchronization/core/cache.go's ReverseLookupMap construction) and on
// the Python original's MHLGenerationCreationSession
// (original_source/mhl/commands.py, commit_session/seal_file_path).
type Session struct {
	root    *History
	pending map[*History]*generation.HashList
	matcher *ignore.Matcher
	logger  *logging.Logger

	// mismatches accumulates non-fatal HashMismatch errors encountered
	// during the session, surfaced as a fatal summary at commit (spec §7).
	mismatches []error
	committed  bool
}

// NewSession creates a Session that accumulates against root, using matcher
// for the ignore patterns that will be persisted into the new generation's
// ProcessInfo.
func NewSession(root *History, matcher *ignore.Matcher, logger *logging.Logger) *Session {
	return &Session{
		root:    root,
		pending: make(map[*History]*generation.HashList),
		matcher: matcher,
		logger:  logger,
	}
}

// pendingFor returns (creating if necessary) the pending HashList for owner.
func (s *Session) pendingFor(owner *History) *generation.HashList {
	if list, ok := s.pending[owner]; ok {
		return list
	}
	list := &generation.HashList{RootPath: owner.RootPath}
	s.pending[owner] = list
	return list
}

// AppendFileHash records a newly computed file digest, cross-verifying it
// against prior generations of the owning history (spec §4.6). It returns
// ok = false if a prior entry existed for this exact algorithm and the
// digest did not match; the entry is recorded either way so the divergence
// is preserved in history.
func (s *Session) AppendFileHash(absPath string, size int64, mtime time.Time, algorithm hashing.Algorithm, digest string) (bool, error) {
	if s.committed {
		return false, fmt.Errorf("session already committed")
	}

	owner, relativePath, err := s.resolve(absPath)
	if err != nil {
		return false, err
	}

	action := generation.ActionNew
	ok := true

	if prior, found := owner.FindLatestHashEntryForPathAndAlgorithm(relativePath, algorithm); found {
		if prior.Value.Digest == digest {
			action = generation.ActionVerified
		} else {
			action = generation.ActionFailed
			ok = false
			err := fmt.Errorf(
				"hash mismatch for %s: algorithm %s expected %s, got %s",
				relativePath, algorithm, prior.Value.Digest, digest,
			)
			s.mismatches = append(s.mismatches, err)
			if s.logger != nil {
				s.logger.Error(err.Error())
			}
		}
	}

	pending := s.pendingFor(owner)
	isFirstEverRecord := !owner.HasAnyRecordForPath(relativePath)
	if mediaHash, exists := pending.MediaHashForPath(relativePath); exists && len(mediaHash.Entries) > 0 {
		// An earlier call within this same session already recorded the
		// path's Original entry.
		isFirstEverRecord = false
	}
	if isFirstEverRecord {
		action = generation.ActionOriginal
	}

	entry := generation.HashEntry{
		Value:  generation.HashValue{Algorithm: algorithm, Digest: digest},
		Action: action,
	}

	mediaHash, exists := pending.MediaHashForPath(relativePath)
	if !exists {
		pending.MediaHashes = append(pending.MediaHashes, generation.MediaHash{
			RelativePath: relativePath,
			SizeBytes:    size,
			LastModified: mtime,
			Entries:      []generation.HashEntry{entry},
		})
	} else {
		mediaHash.SizeBytes = size
		mediaHash.LastModified = mtime
		mediaHash.AddOrReplaceEntry(entry)
	}

	return ok, nil
}

// AppendDirectoryHash records a directory's aggregated hash in the pending
// HashList owning that folder (spec §4.6). No verification against prior
// directory hashes is performed, per spec.
func (s *Session) AppendDirectoryHash(absFolder string, mtime time.Time, algorithm hashing.Algorithm, digest string) error {
	if s.committed {
		return fmt.Errorf("session already committed")
	}

	owner, relativePath, err := s.resolve(absFolder)
	if err != nil {
		return err
	}

	pending := s.pendingFor(owner)
	pending.DirectoryHashes = append(pending.DirectoryHashes, generation.DirectoryHash{
		RelativePath: relativePath,
		LastModified: mtime,
		Value:        generation.HashValue{Algorithm: algorithm, Digest: digest},
	})

	return nil
}

// Mismatches returns the HashMismatch errors accumulated so far.
func (s *Session) Mismatches() []error {
	return append([]error(nil), s.mismatches...)
}

// resolve finds the History owning absPath and absPath's path relative to
// that History's root, using forward slashes.
func (s *Session) resolve(absPath string) (*History, string, error) {
	relativeToRoot, err := filepath.Rel(s.root.RootPath, absPath)
	if err != nil {
		return nil, "", fmt.Errorf("path %s is not under root %s: %w", absPath, s.root.RootPath, err)
	}
	relativeToRoot = filepath.ToSlash(relativeToRoot)
	if relativeToRoot == "." {
		relativeToRoot = ""
	}

	owner, remaining := s.root.FindHistoryForPath(relativeToRoot)
	return owner, remaining, nil
}

// Commit assigns each pending HashList the next sequential generation
// number within its sidecar, attaches creator and process info, serializes
// it, writes it atomically to disk, and installs it into the in-memory
// History. Commit is best-effort sequential: on the first write failure it
// returns immediately, leaving any already-written sidecars in place (spec
// §4.6, §5).
func (s *Session) Commit(creator generation.CreatorInfo, processType string) ([]*generation.HashList, error) {
	if s.committed {
		return nil, fmt.Errorf("session already committed")
	}
	s.committed = true

	patterns := s.matcher.Patterns()

	var committed []*generation.HashList
	for owner, pending := range s.pending {
		if len(pending.MediaHashes) == 0 && len(pending.DirectoryHashes) == 0 {
			continue
		}

		pending.GenerationNumber = owner.LatestGenerationNumber() + 1
		pending.Creator = creator
		pending.Process = generation.ProcessInfo{ProcessType: processType, IgnorePatterns: patterns}

		if err := pending.EnsureValid(); err != nil {
			return committed, fmt.Errorf("invalid pending generation for %s: %w", owner.RootPath, err)
		}

		if err := writeGeneration(owner.RootPath, pending, creator.CreationDate); err != nil {
			return committed, fmt.Errorf("unable to write generation for %s: %w", owner.RootPath, err)
		}

		owner.Generations = append(owner.Generations, pending)
		committed = append(committed, pending)
	}

	if len(s.mismatches) > 0 {
		return committed, &HashMismatchSummaryError{Count: len(s.mismatches), Errors: s.mismatches}
	}

	return committed, nil
}

// HashMismatchSummaryError is returned from Commit when one or more files
// failed cross-algorithm verification during the session (spec §7): the
// session still processes and commits every file, but the caller is told
// the run was not clean.
type HashMismatchSummaryError struct {
	Count  int
	Errors []error
}

func (e *HashMismatchSummaryError) Error() string {
	return fmt.Sprintf("%d hash mismatch(es) detected during sealing", e.Count)
}
