// Package config loads optional YAML-based defaults for the ascmhl tool,
// grounded on the teacher's global configuration loader
// (pkg/configuration/global) and its humanize-backed ByteSize type
// (pkg/configuration/size.go).
package config

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/pomfort/ascmhl/internal/hashing"
)

// ByteSize supports both numeric and human-friendly ("500MB") YAML scalars,
// following the teacher's configuration.ByteSize.
type ByteSize uint64

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *ByteSize) UnmarshalYAML(value *yaml.Node) error {
	var text string
	if err := value.Decode(&text); err != nil {
		return err
	}
	parsed, err := humanize.ParseBytes(text)
	if err != nil {
		return fmt.Errorf("invalid byte size %q: %w", text, err)
	}
	*s = ByteSize(parsed)
	return nil
}

// Defaults holds the defaults applied when a CLI invocation doesn't
// override them explicitly.
type Defaults struct {
	// Algorithm is the hashing algorithm used for new entries when none is
	// specified on the command line.
	Algorithm string `yaml:"algorithm"`
	// IgnorePatternFile is a path to a default newline-separated ignore
	// pattern file, merged in per spec §4.3.
	IgnorePatternFile string `yaml:"ignorePatternFile"`
	// MinimumLoggedFileSize is parsed from the defaults file as a byte size.
	// No component reads it, so it does not change logging output.
	MinimumLoggedFileSize ByteSize `yaml:"minimumLoggedFileSize"`
}

// DefaultAlgorithm returns the configured default algorithm, falling back to
// C4 (spec §3's highest-priority algorithm) if unset or invalid.
func (d *Defaults) DefaultAlgorithm() hashing.Algorithm {
	var a hashing.Algorithm
	if err := a.UnmarshalText([]byte(d.Algorithm)); err != nil {
		return hashing.AlgorithmC4
	}
	return a
}

// Load reads and parses a YAML defaults file at path. A missing file yields
// zero-value Defaults rather than an error, since the defaults file is
// always optional.
func Load(path string) (*Defaults, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Defaults{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("unable to read configuration file: %w", err)
	}

	var d Defaults
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("unable to parse configuration file: %w", err)
	}
	return &d, nil
}
