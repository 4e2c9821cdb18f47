package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pomfort/ascmhl/internal/aggregate"
	"github.com/pomfort/ascmhl/internal/generation"
	"github.com/pomfort/ascmhl/internal/hashing"
	"github.com/pomfort/ascmhl/internal/history"
	"github.com/pomfort/ascmhl/internal/ignore"
	"github.com/pomfort/ascmhl/internal/logging"
	"github.com/pomfort/ascmhl/internal/mhltraverse"
)

// SealOptions configures a Seal run.
type SealOptions struct {
	// Algorithms are the hash formats to record for every file. Directory
	// hashes are recorded in every one of them as well.
	Algorithms []hashing.Algorithm
	// SkipDirectoryHashes omits DirectoryHash computation entirely (spec
	// §4.2, "skip creation of directory hashes" in the original tool).
	SkipDirectoryHashes bool
	// AdHocIgnorePatterns are merged ahead of the sidecar's built-in defaults
	// (spec §4.3).
	AdHocIgnorePatterns []string
	// IgnorePatternFile is an optional newline-separated pattern file.
	IgnorePatternFile string
	// ProcessType is recorded in ProcessInfo (e.g. "in-place", "tool").
	ProcessType string
	Creator     generation.CreatorInfo
	Logger      *logging.Logger
}

// SealReport summarizes one Seal run.
type SealReport struct {
	HashLists  []*generation.HashList
	Mismatches []error
}

// Seal traverses rootPath, hashes every non-ignored file with every
// requested algorithm, aggregates per-directory content and structure
// hashes, and commits one new generation per sidecar touched (spec §2's
// "create" data flow; original_source/mhl/commands.py,
// create_for_folder_subcommand).
func Seal(rootPath string, opts SealOptions) (*SealReport, error) {
	if len(opts.Algorithms) == 0 {
		return nil, fmt.Errorf("at least one hashing algorithm is required")
	}

	existing, err := history.Load(rootPath)
	if err != nil {
		return nil, fmt.Errorf("unable to load existing history: %w", err)
	}

	matcher, err := ignore.Resolve(existing.LatestIgnorePatterns(), opts.AdHocIgnorePatterns, opts.IgnorePatternFile)
	if err != nil {
		return nil, fmt.Errorf("unable to resolve ignore patterns: %w", err)
	}

	session := history.NewSession(existing, matcher, opts.Logger)

	contentContexts := make(map[hashing.Algorithm]*aggregate.DirectoryContentHashContext, len(opts.Algorithms))
	for _, a := range opts.Algorithms {
		contentContexts[a] = aggregate.NewDirectoryContentHashContext(a)
	}
	// structureDigests[folderRelativePath][algorithm] holds a folder's own
	// structure digest once computed, so its parent can fold it in (spec
	// §4.2: structure hashes are built bottom-up during the post-order walk).
	structureDigests := make(map[string]map[hashing.Algorithm]string)

	walkErr := mhltraverse.Walk(rootPath, matcher, func(folder mhltraverse.Folder) error {
		var structureContexts map[hashing.Algorithm]*aggregate.DirectoryStructureHashContext
		if !opts.SkipDirectoryHashes {
			structureContexts = make(map[hashing.Algorithm]*aggregate.DirectoryStructureHashContext, len(opts.Algorithms))
			for _, a := range opts.Algorithms {
				structureContexts[a] = aggregate.NewDirectoryStructureHashContext(a)
			}
		}

		for _, child := range folder.Children {
			childAbsolute := filepath.Join(folder.AbsolutePath, child.Name)
			childRelative := joinRelative(folder.RelativePath, child.Name)

			if child.IsDir {
				if !opts.SkipDirectoryHashes {
					for _, a := range opts.Algorithms {
						structureContexts[a].AddSubdirectory(child.Name, structureDigests[childRelative][a])
					}
				}
				continue
			}

			if err := sealFile(session, existing, rootPath, childAbsolute, opts.Algorithms, contentContexts, childRelative); err != nil {
				return err
			}
			if !opts.SkipDirectoryHashes {
				for _, a := range opts.Algorithms {
					structureContexts[a].AddFile(child.Name)
				}
			}
		}

		if opts.SkipDirectoryHashes {
			return nil
		}

		info, err := os.Stat(folder.AbsolutePath)
		if err != nil {
			return fmt.Errorf("unable to stat folder %s: %w", folder.AbsolutePath, err)
		}

		perAlgorithm := make(map[hashing.Algorithm]string, len(opts.Algorithms))
		for _, a := range opts.Algorithms {
			contentDigest, err := contentContexts[a].DigestForPrefix(folder.RelativePath)
			if err != nil {
				return fmt.Errorf("unable to compute directory content hash for %s: %w", folder.RelativePath, err)
			}
			if err := session.AppendDirectoryHash(folder.AbsolutePath, info.ModTime(), a, contentDigest); err != nil {
				return err
			}

			structureDigest, err := structureContexts[a].Digest()
			if err != nil {
				return fmt.Errorf("unable to compute directory structure hash for %s: %w", folder.RelativePath, err)
			}
			perAlgorithm[a] = structureDigest
		}
		structureDigests[folder.RelativePath] = perAlgorithm

		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	lists, commitErr := session.Commit(opts.Creator, opts.ProcessType)
	report := &SealReport{HashLists: lists, Mismatches: session.Mismatches()}
	if commitErr != nil {
		return report, commitErr
	}
	return report, nil
}

// sealFile hashes one file and appends the results to session, implementing
// the cross-algorithm verification protocol from spec §4.6: when every
// requested algorithm is new to this path but the path already carries
// entries under other algorithms, one of those other algorithms is
// re-hashed first as a guard; the newly requested algorithms are recorded
// only if that guard verifies, so that a corrupted file never silently
// "freshens" its hash under an algorithm the history can't yet check.
func sealFile(
	session *history.Session,
	existing *history.History,
	rootPath, absPath string,
	algorithms []hashing.Algorithm,
	contentContexts map[hashing.Algorithm]*aggregate.DirectoryContentHashContext,
	relativePath string,
) error {
	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("unable to stat %s: %w", absPath, err)
	}

	rootRelative, err := relativeToRoot(rootPath, absPath)
	if err != nil {
		return err
	}
	owner, ownerRelative := existing.FindHistoryForPath(rootRelative)
	existingFormats := owner.FindExistingHashFormatsForPath(ownerRelative)

	var already, fresh []hashing.Algorithm
	for _, a := range algorithms {
		if contains(existingFormats, a) {
			already = append(already, a)
		} else {
			fresh = append(fresh, a)
		}
	}

	appendOne := func(a hashing.Algorithm, contribute bool) (bool, error) {
		digest, err := hashing.HashFile(absPath, a)
		if err != nil {
			return false, fmt.Errorf("unable to hash %s: %w", absPath, err)
		}
		ok, err := session.AppendFileHash(absPath, info.Size(), info.ModTime(), a, digest)
		if err != nil {
			return false, err
		}
		if contribute {
			if ctx, exists := contentContexts[a]; exists {
				ctx.Add(relativePath, digest)
			}
		}
		return ok, nil
	}

	guardOK := true
	for _, a := range already {
		ok, err := appendOne(a, true)
		if err != nil {
			return err
		}
		if !ok {
			guardOK = false
		}
	}

	if len(already) == 0 && len(fresh) > 0 && len(existingFormats) > 0 {
		ok, err := appendOne(preferredAlgorithm(existingFormats), false)
		if err != nil {
			return err
		}
		guardOK = ok
	}

	if !guardOK {
		return nil
	}
	for _, a := range fresh {
		if _, err := appendOne(a, true); err != nil {
			return err
		}
	}

	return nil
}

// contains reports whether target appears in algorithms.
func contains(algorithms []hashing.Algorithm, target hashing.Algorithm) bool {
	for _, a := range algorithms {
		if a == target {
			return true
		}
	}
	return false
}

// preferredAlgorithm returns the highest corruption-detection-priority
// algorithm present in candidates (spec §3's total order).
func preferredAlgorithm(candidates []hashing.Algorithm) hashing.Algorithm {
	best := candidates[0]
	for _, a := range candidates[1:] {
		if best.Less(a) {
			best = a
		}
	}
	return best
}
