package ignore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMatcherLeafPattern(t *testing.T) {
	m, err := Compile([]string{"*.tmp"})
	if err != nil {
		t.Fatalf("unable to compile: %v", err)
	}

	if m.Matches("foo.tmp", false) != StatusIgnored {
		t.Error("expected foo.tmp to be ignored")
	}
	if m.Matches("sub/foo.tmp", false) != StatusIgnored {
		t.Error("expected an unanchored single-segment pattern to match at any depth")
	}
	if m.Matches("foo.mov", false) != StatusNominal {
		t.Error("expected foo.mov not to match *.tmp")
	}
}

func TestMatcherAnchoredPattern(t *testing.T) {
	m, err := Compile([]string{"/build"})
	if err != nil {
		t.Fatalf("unable to compile: %v", err)
	}

	if m.Matches("build", false) != StatusIgnored {
		t.Error("expected top-level build to be ignored")
	}
	if m.Matches("sub/build", false) != StatusNominal {
		t.Error("expected an anchored pattern not to match a nested path of the same name")
	}
}

func TestMatcherDirectoryOnlyPattern(t *testing.T) {
	m, err := Compile([]string{"build/"})
	if err != nil {
		t.Fatalf("unable to compile: %v", err)
	}

	if m.Matches("build", true) != StatusIgnored {
		t.Error("expected build/ to match a directory named build")
	}
	if m.Matches("build", false) != StatusNominal {
		t.Error("expected build/ not to match a file named build")
	}
}

func TestMatcherNegationOverridesEarlierPattern(t *testing.T) {
	m, err := Compile([]string{"*.tmp", "!keep.tmp"})
	if err != nil {
		t.Fatalf("unable to compile: %v", err)
	}

	if m.Matches("discard.tmp", false) != StatusIgnored {
		t.Error("expected discard.tmp to be ignored")
	}
	if m.Matches("keep.tmp", false) != StatusUnignored {
		t.Error("expected keep.tmp to be unignored by the negated pattern")
	}
}

func TestMatcherLaterPatternWins(t *testing.T) {
	m, err := Compile([]string{"!important.tmp", "*.tmp"})
	if err != nil {
		t.Fatalf("unable to compile: %v", err)
	}

	if m.Matches("important.tmp", false) != StatusIgnored {
		t.Error("expected a later non-negated pattern to re-ignore a previously unignored path")
	}
}

func TestCompileRejectsEmptyPattern(t *testing.T) {
	if _, err := Compile([]string{""}); err == nil {
		t.Fatal("expected an error compiling an empty pattern")
	}
	if _, err := Compile([]string{"!"}); err == nil {
		t.Fatal("expected an error compiling a negated-empty pattern")
	}
}

func TestPatternsReturnsRawInput(t *testing.T) {
	raw := []string{"*.tmp", "!keep.tmp", "/build/"}
	m, err := Compile(raw)
	if err != nil {
		t.Fatalf("unable to compile: %v", err)
	}
	got := m.Patterns()
	if len(got) != len(raw) {
		t.Fatalf("got %d patterns, expected %d", len(got), len(raw))
	}
	for i, p := range raw {
		if got[i] != p {
			t.Errorf("pattern %d: got %q, expected %q", i, got[i], p)
		}
	}
}

func TestResolveMergesThreeSourcesAndDefaults(t *testing.T) {
	dir := t.TempDir()
	patternFile := filepath.Join(dir, "ignore.txt")
	contents := "# a comment\n\n*.cache\n!keep.cache\n"
	if err := os.WriteFile(patternFile, []byte(contents), 0o644); err != nil {
		t.Fatalf("unable to write pattern file: %v", err)
	}

	m, err := Resolve([]string{"*.tmp"}, []string{"*.bak"}, patternFile)
	if err != nil {
		t.Fatalf("unable to resolve: %v", err)
	}

	if m.Matches("a.tmp", false) != StatusIgnored {
		t.Error("expected a prior-generation pattern to be applied")
	}
	if m.Matches("a.bak", false) != StatusIgnored {
		t.Error("expected an ad hoc pattern to be applied")
	}
	if m.Matches("a.cache", false) != StatusIgnored {
		t.Error("expected a pattern-file pattern to be applied")
	}
	if m.Matches("keep.cache", false) != StatusUnignored {
		t.Error("expected the pattern file's negation to be applied")
	}
	if m.Matches(".DS_Store", false) != StatusIgnored {
		t.Error("expected the built-in .DS_Store default to be applied")
	}
	if m.Matches(DefaultSidecarName, true) != StatusIgnored {
		t.Error("expected the built-in sidecar default to be applied")
	}
	if m.Matches("readme.txt", false) != StatusNominal {
		t.Error("expected an unrelated path not to match any pattern")
	}
}

func TestResolveSidecarDefaultMatchesAtAnyDepth(t *testing.T) {
	m, err := Resolve(nil, nil, "")
	if err != nil {
		t.Fatalf("unable to resolve: %v", err)
	}
	if m.Matches(DefaultSidecarName, true) != StatusIgnored {
		t.Error("expected the sidecar default to match at the traversal root")
	}
	if m.Matches("Subproject/"+DefaultSidecarName, true) != StatusIgnored {
		t.Error("expected the sidecar default to also match a nested child history's sidecar")
	}
}

func TestResolveWithoutPatternFile(t *testing.T) {
	m, err := Resolve(nil, nil, "")
	if err != nil {
		t.Fatalf("unable to resolve: %v", err)
	}
	if m.Matches(".DS_Store", false) != StatusIgnored {
		t.Error("expected built-in defaults even with no caller-supplied patterns")
	}
}

func TestResolveRejectsMissingPatternFile(t *testing.T) {
	if _, err := Resolve(nil, nil, filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("expected an error resolving a missing pattern file")
	}
}
