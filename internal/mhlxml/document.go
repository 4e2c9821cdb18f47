// Package mhlxml encodes and decodes a single generation (HashList) to and
// from its persisted XML representation (spec §4.7, §6). The wire format
// itself is an external collaborator (spec §1 lists "the on-disk XML
// serialization format beyond the logical fields it must carry" as out of
// scope), so this package only needs to carry the logical field list
// faithfully. Decode tolerates unrecognized child elements instead of
// failing on them (a generation file written by a newer tool version must
// still be readable) and records them on the returned generation.HashList;
// Encode re-emits those recorded elements verbatim, so a read-modify-write
// cycle preserves fields this package doesn't itself understand.
package mhlxml

import (
	"encoding/xml"
	"fmt"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/pomfort/ascmhl/internal/generation"
	"github.com/pomfort/ascmhl/internal/hashing"
)

// timeLayout is ISO-8601 with seconds precision and an explicit time zone
// offset (spec §4.7).
const timeLayout = "2006-01-02T15:04:05-07:00"

type document struct {
	XMLName          xml.Name                    `xml:"hashlist"`
	GenerationNumber uint32                      `xml:"generationNumber,attr"`
	Creator          creatorXML                  `xml:"creatorInfo"`
	Process          processXML                  `xml:"processInfo"`
	MediaHashes      []mediaHashXML              `xml:"hashes>hash"`
	DirectoryHashes  []directoryXML              `xml:"directoryHashes>hash"`
	Unknown          []generation.UnknownElement `xml:",any"`
}

type creatorXML struct {
	CreationDate string                      `xml:"creationDate"`
	HostName     string                      `xml:"hostName"`
	ToolName     string                      `xml:"tool>name"`
	ToolVersion  string                      `xml:"tool>version"`
	ProcessID    string                      `xml:"processID,omitempty"`
	Unknown      []generation.UnknownElement `xml:",any"`
}

type processXML struct {
	ProcessType    string                      `xml:"processType"`
	IgnorePatterns []string                    `xml:"ignorePatterns>pattern"`
	Unknown        []generation.UnknownElement `xml:",any"`
}

type mediaHashXML struct {
	Path         string     `xml:"path,attr"`
	Size         int64      `xml:"size,attr"`
	LastModified string     `xml:"lastModificationDate,attr"`
	Entries      []entryXML `xml:",any"`
}

type entryXML struct {
	XMLName xml.Name
	Action  string `xml:"action,attr"`
	Digest  string `xml:",chardata"`
}

type directoryXML struct {
	Path         string `xml:"path,attr"`
	LastModified string `xml:"lastModificationDate,attr"`
	Algorithm    string `xml:"hashformat,attr"`
	Digest       string `xml:",chardata"`
}

// Encode renders list as its canonical, deterministically ordered XML
// representation (spec §4.7: media hashes by path, entries within a media
// hash by algorithm priority, directory hashes by path, timestamps as
// ISO-8601 with seconds and time zone, paths forward-slash and
// NFC-normalized).
func Encode(list *generation.HashList) ([]byte, error) {
	doc := document{
		GenerationNumber: list.GenerationNumber,
		Creator: creatorXML{
			CreationDate: list.Creator.CreationDate.Format(timeLayout),
			HostName:     list.Creator.HostName,
			ToolName:     list.Creator.ToolName,
			ToolVersion:  list.Creator.ToolVersion,
			ProcessID:    list.Creator.ProcessID,
		},
		Process: processXML{
			ProcessType:    list.Process.ProcessType,
			IgnorePatterns: list.Process.IgnorePatterns,
		},
	}
	doc.Unknown = list.Unknown
	doc.Creator.Unknown = list.Creator.Unknown
	doc.Process.Unknown = list.Process.Unknown

	for _, mediaHash := range list.SortedMediaHashes() {
		entries := make([]entryXML, 0, len(mediaHash.Entries))
		for _, entry := range mediaHash.SortedEntries() {
			entries = append(entries, entryXML{
				XMLName: xml.Name{Local: entry.Value.Algorithm.String()},
				Action:  entry.Action.String(),
				Digest:  entry.Value.Digest,
			})
		}
		doc.MediaHashes = append(doc.MediaHashes, mediaHashXML{
			Path:         norm.NFC.String(mediaHash.RelativePath),
			Size:         mediaHash.SizeBytes,
			LastModified: mediaHash.LastModified.Format(timeLayout),
			Entries:      entries,
		})
	}

	for _, directoryHash := range list.SortedDirectoryHashes() {
		doc.DirectoryHashes = append(doc.DirectoryHashes, directoryXML{
			Path:         norm.NFC.String(directoryHash.RelativePath),
			LastModified: directoryHash.LastModified.Format(timeLayout),
			Algorithm:    directoryHash.Value.Algorithm.String(),
			Digest:       directoryHash.Value.Digest,
		})
	}

	header := []byte(xml.Header)
	body, err := xml.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("unable to marshal hash list: %w", err)
	}
	return append(header, body...), nil
}

// Decode parses data into a HashList.
func Decode(data []byte) (*generation.HashList, error) {
	var doc document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unable to parse generation file: %w", err)
	}

	creationDate, err := time.Parse(timeLayout, doc.Creator.CreationDate)
	if err != nil {
		return nil, fmt.Errorf("unable to parse creation date: %w", err)
	}

	list := &generation.HashList{
		GenerationNumber: doc.GenerationNumber,
		Creator: generation.CreatorInfo{
			CreationDate: creationDate,
			HostName:     doc.Creator.HostName,
			ToolName:     doc.Creator.ToolName,
			ToolVersion:  doc.Creator.ToolVersion,
			ProcessID:    doc.Creator.ProcessID,
			Unknown:      doc.Creator.Unknown,
		},
		Process: generation.ProcessInfo{
			ProcessType:    doc.Process.ProcessType,
			IgnorePatterns: doc.Process.IgnorePatterns,
			Unknown:        doc.Process.Unknown,
		},
		Unknown: doc.Unknown,
	}

	for _, mh := range doc.MediaHashes {
		lastModified, err := time.Parse(timeLayout, mh.LastModified)
		if err != nil {
			return nil, fmt.Errorf("unable to parse modification time for %s: %w", mh.Path, err)
		}
		mediaHash := generation.MediaHash{
			RelativePath: mh.Path,
			SizeBytes:    mh.Size,
			LastModified: lastModified,
		}
		for _, e := range mh.Entries {
			var algorithm hashing.Algorithm
			if err := algorithm.UnmarshalText([]byte(e.XMLName.Local)); err != nil {
				return nil, fmt.Errorf("unable to parse hash entry for %s: %w", mh.Path, err)
			}
			action, err := parseAction(e.Action)
			if err != nil {
				return nil, fmt.Errorf("unable to parse hash entry action for %s: %w", mh.Path, err)
			}
			mediaHash.Entries = append(mediaHash.Entries, generation.HashEntry{
				Value:  generation.HashValue{Algorithm: algorithm, Digest: e.Digest},
				Action: action,
			})
		}
		list.MediaHashes = append(list.MediaHashes, mediaHash)
	}

	for _, dh := range doc.DirectoryHashes {
		lastModified, err := time.Parse(timeLayout, dh.LastModified)
		if err != nil {
			return nil, fmt.Errorf("unable to parse modification time for directory %s: %w", dh.Path, err)
		}
		var algorithm hashing.Algorithm
		if err := algorithm.UnmarshalText([]byte(dh.Algorithm)); err != nil {
			return nil, fmt.Errorf("unable to parse directory hash algorithm for %s: %w", dh.Path, err)
		}
		list.DirectoryHashes = append(list.DirectoryHashes, generation.DirectoryHash{
			RelativePath: dh.Path,
			LastModified: lastModified,
			Value:        generation.HashValue{Algorithm: algorithm, Digest: dh.Digest},
		})
	}

	return list, nil
}

func parseAction(s string) (generation.Action, error) {
	switch s {
	case "original":
		return generation.ActionOriginal, nil
	case "verified":
		return generation.ActionVerified, nil
	case "failed":
		return generation.ActionFailed, nil
	case "new":
		return generation.ActionNew, nil
	default:
		return 0, fmt.Errorf("unknown action: %s", s)
	}
}
