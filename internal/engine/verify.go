package engine

import (
	"fmt"
	"path/filepath"

	"github.com/pomfort/ascmhl/internal/hashing"
	"github.com/pomfort/ascmhl/internal/history"
	"github.com/pomfort/ascmhl/internal/ignore"
	"github.com/pomfort/ascmhl/internal/mhltraverse"
)

// VerifyOptions configures a Verify run.
type VerifyOptions struct {
	AdHocIgnorePatterns []string
	IgnorePatternFile   string
}

// Mismatch describes one file whose current content hash disagrees with its
// originally recorded hash.
type Mismatch struct {
	RelativePath string
	Algorithm    hashing.Algorithm
	Expected     string
	Actual       string
}

// VerifyReport summarizes one Verify run (spec §2's "verify" data flow).
type VerifyReport struct {
	NewFiles     []string
	MissingFiles []string
	Mismatches   []Mismatch
	Verified     int
}

// Verify hashes every non-ignored file under rootPath with the algorithm of
// its recorded Original entry and compares, without creating a new
// generation (original_source/mhl/commands.py,
// verify_entire_folder_against_full_history_subcommand). It never mutates
// history on disk.
func Verify(rootPath string, opts VerifyOptions) (*VerifyReport, error) {
	existing, err := history.Load(rootPath)
	if err != nil {
		return nil, fmt.Errorf("unable to load existing history: %w", err)
	}
	if len(existing.Generations) == 0 {
		return nil, &NoHistoryError{Root: rootPath}
	}

	notFound := make(map[string]bool)
	collectFilePaths(existing, "", notFound)

	matcher, err := ignore.Resolve(existing.LatestIgnorePatterns(), opts.AdHocIgnorePatterns, opts.IgnorePatternFile)
	if err != nil {
		return nil, fmt.Errorf("unable to resolve ignore patterns: %w", err)
	}

	report := &VerifyReport{}

	walkErr := mhltraverse.Walk(rootPath, matcher, func(folder mhltraverse.Folder) error {
		for _, child := range folder.Children {
			if child.IsDir {
				// New directory detection is not implemented, matching this
				// module's Open Question decision: a directory with no
				// recorded hash is silently skipped rather than flagged.
				continue
			}

			relative := joinRelative(folder.RelativePath, child.Name)
			delete(notFound, relative)

			owner, ownerRelative := existing.FindHistoryForPath(relative)
			original, found := owner.FindOriginalHashEntryForPath(ownerRelative)
			if !found {
				report.NewFiles = append(report.NewFiles, relative)
				continue
			}

			absolute := filepath.Join(folder.AbsolutePath, child.Name)
			actual, err := hashing.HashFile(absolute, original.Value.Algorithm)
			if err != nil {
				return fmt.Errorf("unable to hash %s: %w", absolute, err)
			}
			if actual == original.Value.Digest {
				report.Verified++
				continue
			}
			report.Mismatches = append(report.Mismatches, Mismatch{
				RelativePath: relative,
				Algorithm:    original.Value.Algorithm,
				Expected:     original.Value.Digest,
				Actual:       actual,
			})
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	report.MissingFiles = sortedKeys(notFound)

	switch {
	case len(report.Mismatches) > 0:
		return report, &VerificationFailedError{Count: len(report.Mismatches)}
	case len(report.NewFiles) > 0:
		return report, &NewFilesFoundError{Paths: report.NewFiles}
	case len(report.MissingFiles) > 0:
		return report, &MissingFilesError{Paths: report.MissingFiles}
	default:
		return report, nil
	}
}
