package history

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/pomfort/ascmhl/internal/generation"
	"github.com/pomfort/ascmhl/internal/hashing"
	"github.com/pomfort/ascmhl/internal/ignore"
)

func testMatcher(t *testing.T) *ignore.Matcher {
	t.Helper()
	m, err := ignore.Resolve(nil, nil, "")
	if err != nil {
		t.Fatalf("unable to resolve matcher: %v", err)
	}
	return m
}

func TestAppendFileHashClassifiesOriginalWhenPathNeverSeen(t *testing.T) {
	root := &History{RootPath: "/test/root", Children: map[string]*History{}}
	s := NewSession(root, testMatcher(t), nil)

	ok, err := s.AppendFileHash(filepath.Join(root.RootPath, "original.mov"), 10, time.Now(), hashing.AlgorithmMD5, "digest")
	if err != nil {
		t.Fatalf("unable to append: %v", err)
	}
	if !ok {
		t.Error("expected ok=true for a first-ever record")
	}

	pending := s.pendingFor(root)
	mh, found := pending.MediaHashForPath("original.mov")
	if !found {
		t.Fatal("expected a pending media hash for original.mov")
	}
	entry, _ := mh.EntryForAlgorithm(hashing.AlgorithmMD5)
	if entry.Action != generation.ActionOriginal {
		t.Errorf("expected action Original, got %v", entry.Action)
	}
}

func TestAppendFileHashClassifiesVerifiedOnMatchingDigest(t *testing.T) {
	root := priorHistoryWithMD5Entry(t, "verified.mov", "v-digest")
	s := NewSession(root, testMatcher(t), nil)

	ok, err := s.AppendFileHash(filepath.Join(root.RootPath, "verified.mov"), 10, time.Now(), hashing.AlgorithmMD5, "v-digest")
	if err != nil {
		t.Fatalf("unable to append: %v", err)
	}
	if !ok {
		t.Error("expected ok=true for a matching digest")
	}

	pending := s.pendingFor(root)
	mh, _ := pending.MediaHashForPath("verified.mov")
	entry, _ := mh.EntryForAlgorithm(hashing.AlgorithmMD5)
	if entry.Action != generation.ActionVerified {
		t.Errorf("expected action Verified, got %v", entry.Action)
	}
	if len(s.Mismatches()) != 0 {
		t.Errorf("expected no mismatches, got %v", s.Mismatches())
	}
}

func TestAppendFileHashClassifiesFailedOnDivergingDigest(t *testing.T) {
	root := priorHistoryWithMD5Entry(t, "failed.mov", "f-old")
	s := NewSession(root, testMatcher(t), nil)

	ok, err := s.AppendFileHash(filepath.Join(root.RootPath, "failed.mov"), 10, time.Now(), hashing.AlgorithmMD5, "f-new")
	if err != nil {
		t.Fatalf("unable to append: %v", err)
	}
	if ok {
		t.Error("expected ok=false for a diverging digest")
	}

	pending := s.pendingFor(root)
	mh, _ := pending.MediaHashForPath("failed.mov")
	entry, _ := mh.EntryForAlgorithm(hashing.AlgorithmMD5)
	if entry.Action != generation.ActionFailed {
		t.Errorf("expected action Failed, got %v", entry.Action)
	}
	if len(s.Mismatches()) != 1 {
		t.Fatalf("expected one recorded mismatch, got %d", len(s.Mismatches()))
	}
}

func TestAppendFileHashClassifiesNewForAdditionalAlgorithm(t *testing.T) {
	root := priorHistoryWithMD5Entry(t, "new-algo.mov", "md5-digest")
	s := NewSession(root, testMatcher(t), nil)

	ok, err := s.AppendFileHash(filepath.Join(root.RootPath, "new-algo.mov"), 10, time.Now(), hashing.AlgorithmSHA1, "sha-digest")
	if err != nil {
		t.Fatalf("unable to append: %v", err)
	}
	if !ok {
		t.Error("expected ok=true, a new algorithm is not a mismatch")
	}

	pending := s.pendingFor(root)
	mh, _ := pending.MediaHashForPath("new-algo.mov")
	entry, _ := mh.EntryForAlgorithm(hashing.AlgorithmSHA1)
	if entry.Action != generation.ActionNew {
		t.Errorf("expected action New, got %v", entry.Action)
	}
}

func priorHistoryWithMD5Entry(t *testing.T, relativePath, digest string) *History {
	t.Helper()
	return &History{
		RootPath: "/test/root",
		Children: map[string]*History{},
		Generations: []*generation.HashList{
			{
				GenerationNumber: 1,
				MediaHashes: []generation.MediaHash{
					{
						RelativePath: relativePath,
						Entries: []generation.HashEntry{
							{Value: generation.HashValue{Algorithm: hashing.AlgorithmMD5, Digest: digest}, Action: generation.ActionOriginal},
						},
					},
				},
			},
		},
	}
}

func TestAppendFileHashRejectsAfterCommit(t *testing.T) {
	root := &History{RootPath: t.TempDir(), Children: map[string]*History{}}
	s := NewSession(root, testMatcher(t), nil)
	if _, err := s.Commit(generation.CreatorInfo{CreationDate: time.Now(), ToolName: "ascmhl-go"}, "in-place"); err != nil {
		t.Fatalf("unable to commit: %v", err)
	}
	if _, err := s.AppendFileHash(filepath.Join(root.RootPath, "a.mov"), 1, time.Now(), hashing.AlgorithmMD5, "d"); err == nil {
		t.Error("expected AppendFileHash to reject use after Commit")
	}
}

func TestAppendDirectoryHashRecordsPendingEntry(t *testing.T) {
	root := &History{RootPath: "/test/root", Children: map[string]*History{}}
	s := NewSession(root, testMatcher(t), nil)

	if err := s.AppendDirectoryHash(filepath.Join(root.RootPath, "clips"), time.Now(), hashing.AlgorithmC4, "dir-digest"); err != nil {
		t.Fatalf("unable to append directory hash: %v", err)
	}

	pending := s.pendingFor(root)
	if len(pending.DirectoryHashes) != 1 || pending.DirectoryHashes[0].RelativePath != "clips" {
		t.Errorf("expected one directory hash for \"clips\", got %+v", pending.DirectoryHashes)
	}
}

func TestResolveRoutesToChildHistoryOwner(t *testing.T) {
	root := &History{
		RootPath: "/test/root",
		Children: map[string]*History{
			"clips": {RootPath: "/test/root/clips", Children: map[string]*History{}},
		},
	}
	s := NewSession(root, testMatcher(t), nil)

	owner, relativePath, err := s.resolve(filepath.Join(root.RootPath, "clips", "a.mov"))
	if err != nil {
		t.Fatalf("unable to resolve: %v", err)
	}
	if owner != root.Children["clips"] {
		t.Error("expected the nested \"clips\" history to own the path")
	}
	if relativePath != "a.mov" {
		t.Errorf("expected relative path \"a.mov\", got %q", relativePath)
	}
}

func TestCommitAssignsSequentialGenerationNumberAndPersists(t *testing.T) {
	root := &History{RootPath: t.TempDir(), Children: map[string]*History{}}
	s := NewSession(root, testMatcher(t), nil)

	if _, err := s.AppendFileHash(filepath.Join(root.RootPath, "a.mov"), 10, time.Now(), hashing.AlgorithmMD5, "digest"); err != nil {
		t.Fatalf("unable to append: %v", err)
	}

	committed, err := s.Commit(generation.CreatorInfo{CreationDate: time.Now(), ToolName: "ascmhl-go", HostName: "test"}, "in-place")
	if err != nil {
		t.Fatalf("unable to commit: %v", err)
	}
	if len(committed) != 1 {
		t.Fatalf("expected one committed generation, got %d", len(committed))
	}
	if committed[0].GenerationNumber != 1 {
		t.Errorf("expected generation number 1, got %d", committed[0].GenerationNumber)
	}

	reloaded, err := Load(root.RootPath)
	if err != nil {
		t.Fatalf("unable to reload: %v", err)
	}
	if len(reloaded.Generations) != 1 {
		t.Fatalf("expected one persisted generation, got %d", len(reloaded.Generations))
	}
	if _, ok := reloaded.Generations[0].MediaHashForPath("a.mov"); !ok {
		t.Error("expected a.mov to be present in the reloaded generation")
	}
}

func TestCommitReturnsSummaryErrorOnMismatch(t *testing.T) {
	root := priorHistoryWithMD5Entry(t, "a.mov", "old-digest")
	root.RootPath = t.TempDir()
	if err := writeGeneration(root.RootPath, root.Generations[0], time.Now()); err != nil {
		t.Fatalf("unable to seed prior generation: %v", err)
	}
	reloaded, err := Load(root.RootPath)
	if err != nil {
		t.Fatalf("unable to load seeded history: %v", err)
	}

	s := NewSession(reloaded, testMatcher(t), nil)
	if _, err := s.AppendFileHash(filepath.Join(reloaded.RootPath, "a.mov"), 10, time.Now(), hashing.AlgorithmMD5, "new-digest"); err != nil {
		t.Fatalf("unable to append: %v", err)
	}

	_, err = s.Commit(generation.CreatorInfo{CreationDate: time.Now(), ToolName: "ascmhl-go", HostName: "test"}, "in-place")
	var summary *HashMismatchSummaryError
	if !errors.As(err, &summary) {
		t.Fatalf("expected a *HashMismatchSummaryError, got %T: %v", err, err)
	}
	if summary.Count != 1 {
		t.Errorf("expected 1 mismatch, got %d", summary.Count)
	}
}

func TestCommitSkipsOwnersWithNoPendingEntries(t *testing.T) {
	root := &History{RootPath: t.TempDir(), Children: map[string]*History{}}
	s := NewSession(root, testMatcher(t), nil)

	committed, err := s.Commit(generation.CreatorInfo{CreationDate: time.Now(), ToolName: "ascmhl-go"}, "in-place")
	if err != nil {
		t.Fatalf("unable to commit: %v", err)
	}
	if len(committed) != 0 {
		t.Errorf("expected no committed generations when nothing was appended, got %d", len(committed))
	}
}

func TestCommitIsSingleUse(t *testing.T) {
	root := &History{RootPath: t.TempDir(), Children: map[string]*History{}}
	s := NewSession(root, testMatcher(t), nil)
	if _, err := s.Commit(generation.CreatorInfo{CreationDate: time.Now(), ToolName: "ascmhl-go"}, "in-place"); err != nil {
		t.Fatalf("unable to commit: %v", err)
	}
	if _, err := s.Commit(generation.CreatorInfo{CreationDate: time.Now(), ToolName: "ascmhl-go"}, "in-place"); err == nil {
		t.Error("expected a second Commit call to fail")
	}
}
