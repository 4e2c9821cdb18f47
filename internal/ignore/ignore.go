// Package ignore implements gitignore-style pattern matching used to exclude
// paths from traversal and hashing (spec §4.3), grounded on the teacher's
// Mutagen-syntax ignorer (pkg/synchronization/core/ignore/mutagen), which
// itself wraps github.com/bmatcuk/doublestar/v4.
package ignore

import (
	"bufio"
	"fmt"
	"os"
	pathpkg "path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultSidecarName is the sidecar folder name that is always appended to
// the ignore list so that a history never ignores itself incorrectly by
// matching its own sidecar as ordinary content, and conversely is never
// accidentally excluded from its own default exclusion.
const DefaultSidecarName = "ascmhl"

// defaultPatterns are always appended after the caller-, file-, and
// history-supplied patterns (spec §4.3).
var defaultPatterns = []string{".DS_Store", DefaultSidecarName + "/"}

// Status encodes the ignoredness of a path after matching, mirroring the
// teacher's three-state ignore.IgnoreStatus
// (pkg/synchronization/core/ignore/ignore.go).
type Status uint8

const (
	// StatusNominal indicates the path is neither explicitly ignored nor
	// explicitly unignored.
	StatusNominal Status = iota
	// StatusIgnored indicates the path is explicitly ignored.
	StatusIgnored
	// StatusUnignored indicates the path is explicitly unignored by a
	// negated pattern.
	StatusUnignored
)

// pattern represents one parsed ignore pattern.
type pattern struct {
	negated       bool
	directoryOnly bool
	matchLeaf     bool
	glob          string
}

// parsePattern validates and parses a single ignore pattern, following the
// same negation/anchoring/directory-only rules as the teacher's
// newIgnorePattern.
func parsePattern(raw string) (*pattern, error) {
	if raw == "" {
		return nil, fmt.Errorf("empty pattern")
	}

	negated := false
	if raw[0] == '!' {
		negated = true
		raw = raw[1:]
	}
	if raw == "" {
		return nil, fmt.Errorf("negated empty pattern")
	}

	raw = cleanPreservingTrailingSlash(raw)
	if raw == "/" || raw == "//" {
		return nil, fmt.Errorf("root pattern not allowed: %s", raw)
	}

	absolute := false
	if raw[0] == '/' {
		absolute = true
		raw = raw[1:]
	}

	directoryOnly := false
	if len(raw) > 0 && raw[len(raw)-1] == '/' {
		directoryOnly = true
		raw = raw[:len(raw)-1]
	}

	containsSlash := strings.IndexByte(raw, '/') >= 0

	if _, err := doublestar.Match(raw, "a"); err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", raw, err)
	}

	return &pattern{
		negated:       negated,
		directoryOnly: directoryOnly,
		matchLeaf:     !absolute && !containsSlash,
		glob:          raw,
	}, nil
}

// cleanPreservingTrailingSlash is path.Clean that preserves a trailing
// slash, needed because directory-only markers live in that trailing slash.
func cleanPreservingTrailingSlash(path string) string {
	trailingSlash := len(path) > 1 && path[len(path)-1] == '/'
	cleaned := pathpkg.Clean(path)
	if trailingSlash && !strings.HasSuffix(cleaned, "/") {
		return cleaned + "/"
	}
	return cleaned
}

// matches reports whether p matches path, which is a directory if directory
// is true.
func (p *pattern) matches(path string, directory bool) bool {
	if p.directoryOnly && !directory {
		return false
	}
	if match, _ := doublestar.Match(p.glob, path); match {
		return true
	}
	if p.matchLeaf && path != "" {
		if match, _ := doublestar.Match(p.glob, pathpkg.Base(path)); match {
			return true
		}
	}
	return false
}

// Matcher evaluates ignore status for paths under a synchronization root. It
// is not safe for concurrent use.
type Matcher struct {
	patterns     []*pattern
	negatedCount uint
	rawPatterns  []string // as supplied, for ProcessInfo persistence
}

// Compile parses patterns into a Matcher. Patterns are evaluated in the
// order given, so later patterns take precedence over earlier ones, matching
// gitignore semantics.
func Compile(patterns []string) (*Matcher, error) {
	parsed := make([]*pattern, 0, len(patterns))
	var negatedCount uint
	for _, raw := range patterns {
		p, err := parsePattern(raw)
		if err != nil {
			return nil, fmt.Errorf("unable to parse pattern %q: %w", raw, err)
		}
		parsed = append(parsed, p)
		if p.negated {
			negatedCount++
		}
	}
	return &Matcher{patterns: parsed, negatedCount: negatedCount, rawPatterns: append([]string(nil), patterns...)}, nil
}

// Patterns returns the raw pattern strings the matcher was compiled from, in
// order, for persistence in ProcessInfo.
func (m *Matcher) Patterns() []string {
	return append([]string(nil), m.rawPatterns...)
}

// Matches determines the ignore status of relativePath (forward-slash
// separated, relative to the synchronization root).
func (m *Matcher) Matches(relativePath string, directory bool) Status {
	status := StatusNominal
	remainingNegated := m.negatedCount

	for _, p := range m.patterns {
		if status == StatusIgnored && remainingNegated == 0 {
			break
		}
		if p.negated {
			remainingNegated--
			if status == StatusUnignored {
				continue
			}
		} else if status == StatusIgnored {
			continue
		}

		if !p.matches(relativePath, directory) {
			continue
		}
		if p.negated {
			status = StatusUnignored
		} else {
			status = StatusIgnored
		}
	}

	return status
}

// Resolve merges the three pattern sources described in spec §4.3 — the
// previous generation's stored patterns, ad hoc patterns supplied by the
// caller, and patterns read from a newline-separated file — and appends the
// built-in defaults, then compiles the result into a Matcher.
func Resolve(priorPatterns, adHocPatterns []string, patternFilePath string) (*Matcher, error) {
	var merged []string
	merged = append(merged, priorPatterns...)
	merged = append(merged, adHocPatterns...)

	if patternFilePath != "" {
		fromFile, err := readPatternFile(patternFilePath)
		if err != nil {
			return nil, err
		}
		merged = append(merged, fromFile...)
	}

	merged = append(merged, defaultPatterns...)

	return Compile(merged)
}

// readPatternFile reads newline-separated ignore patterns from path,
// skipping blank lines and '#'-prefixed comments.
func readPatternFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open ignore pattern file: %w", err)
	}
	defer file.Close()

	var patterns []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("unable to read ignore pattern file: %w", err)
	}

	return patterns, nil
}
