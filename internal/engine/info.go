package engine

import (
	"fmt"

	"github.com/pomfort/ascmhl/internal/generation"
	"github.com/pomfort/ascmhl/internal/history"
)

// GenerationSummary reports per-generation counts for the info command
// (original_source/mhl/commands.py's info subcommand).
type GenerationSummary struct {
	Number         uint32
	Creator        generation.CreatorInfo
	ProcessType    string
	MediaFileCount int
	DirectoryCount int
}

// InfoReport summarizes an entire history tree, including nested child
// histories.
type InfoReport struct {
	RootPath    string
	Generations []GenerationSummary
	Children    []InfoReport
}

// Info reads the history rooted at rootPath and its nested child histories,
// without touching the file system tree being described (spec §2's "info"
// data flow).
func Info(rootPath string) (*InfoReport, error) {
	h, err := history.Load(rootPath)
	if err != nil {
		return nil, fmt.Errorf("unable to load existing history: %w", err)
	}
	return summarize(h), nil
}

func summarize(h *history.History) *InfoReport {
	report := &InfoReport{RootPath: h.RootPath}
	for _, list := range h.Generations {
		report.Generations = append(report.Generations, GenerationSummary{
			Number:         list.GenerationNumber,
			Creator:        list.Creator,
			ProcessType:    list.Process.ProcessType,
			MediaFileCount: len(list.MediaHashes),
			DirectoryCount: len(list.DirectoryHashes),
		})
	}
	for _, child := range h.Children {
		report.Children = append(report.Children, *summarize(child))
	}
	return report
}
