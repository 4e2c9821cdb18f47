package engine

import (
	"fmt"

	"github.com/pomfort/ascmhl/internal/history"
	"github.com/pomfort/ascmhl/internal/ignore"
	"github.com/pomfort/ascmhl/internal/mhltraverse"
)

// DiffOptions configures a Diff run.
type DiffOptions struct {
	AdHocIgnorePatterns []string
	IgnorePatternFile   string
}

// DiffReport summarizes one Diff run: which paths exist only in the file
// system and which exist only in history. Unlike Verify, no content is
// hashed.
type DiffReport struct {
	NewFiles     []string
	MissingFiles []string
}

// Diff compares a tree's file existence against its recorded history without
// computing any hashes (spec §2's "diff" data flow; original_source's
// diff_entire_folder_against_full_history_subcommand, which the module's doc
// comment describes as "quickly compare files in the file system with
// records in the ASC MHL history... no hash values are created and
// compared").
func Diff(rootPath string, opts DiffOptions) (*DiffReport, error) {
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

	report := &DiffReport{}

	walkErr := mhltraverse.Walk(rootPath, matcher, func(folder mhltraverse.Folder) error {
		for _, child := range folder.Children {
			relative := joinRelative(folder.RelativePath, child.Name)
			delete(notFound, relative)
			if child.IsDir {
				continue
			}

			owner, ownerRelative := existing.FindHistoryForPath(relative)
			if !owner.HasAnyRecordForPath(ownerRelative) {
				report.NewFiles = append(report.NewFiles, relative)
			}
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	report.MissingFiles = sortedKeys(notFound)

	switch {
	case len(report.NewFiles) > 0:
		return report, &NewFilesFoundError{Paths: report.NewFiles}
	case len(report.MissingFiles) > 0:
		return report, &MissingFilesError{Paths: report.MissingFiles}
	default:
		return report, nil
	}
}
