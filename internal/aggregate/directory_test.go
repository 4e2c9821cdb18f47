package aggregate

import (
	"testing"

	"github.com/pomfort/ascmhl/internal/hashing"
)

func TestDirectoryContentHashContextPrefix(t *testing.T) {
	ctx := NewDirectoryContentHashContext(hashing.AlgorithmC4)
	for _, path := range []string{"foo/alfa", "foo/bravo", "foo/charlie"} {
		ctx.Add(path, hashing.HashString(path, hashing.AlgorithmC4))
	}

	fooOnly, err := DigestForList([]string{"foo/alfa", "foo/bravo", "foo/charlie"}, hashing.AlgorithmC4)
	if err != nil {
		t.Fatalf("unable to reduce reference list: %v", err)
	}

	got, err := ctx.DigestForPrefix("foo")
	if err != nil {
		t.Fatalf("unable to compute prefix digest: %v", err)
	}
	if got != fooOnly {
		t.Errorf("got %q, expected %q", got, fooOnly)
	}
}

func TestDirectoryContentHashContextPrefixIsSegmentAligned(t *testing.T) {
	ctx := NewDirectoryContentHashContext(hashing.AlgorithmC4)
	ctx.Add("foo/alfa", hashing.HashString("foo/alfa", hashing.AlgorithmC4))
	ctx.Add("foxtrot/bravo", hashing.HashString("foxtrot/bravo", hashing.AlgorithmC4))

	got, err := ctx.DigestForPrefix("foo")
	if err != nil {
		t.Fatalf("unable to compute prefix digest: %v", err)
	}
	want, err := DigestForList([]string{"foo/alfa"}, hashing.AlgorithmC4)
	if err != nil {
		t.Fatalf("unable to reduce reference digest: %v", err)
	}
	if got != want {
		t.Errorf("prefix \"foo\" must not match \"foxtrot/bravo\": got %q, expected %q", got, want)
	}
}

func TestDirectoryContentHashContextIrrelevantChangeIsStable(t *testing.T) {
	base := NewDirectoryContentHashContext(hashing.AlgorithmC4)
	for _, path := range []string{"foo/alfa", "foo/bravo", "foo/charlie", "delta"} {
		base.Add(path, hashing.HashString(path, hashing.AlgorithmC4))
	}
	baseDigest, err := base.DigestForPrefix("foo")
	if err != nil {
		t.Fatalf("unable to compute base digest: %v", err)
	}

	changed := NewDirectoryContentHashContext(hashing.AlgorithmC4)
	for _, path := range []string{"foo/alfa", "foo/bravo", "foo/charlie", "XXXXX"} {
		changed.Add(path, hashing.HashString(path, hashing.AlgorithmC4))
	}
	changedDigest, err := changed.DigestForPrefix("foo")
	if err != nil {
		t.Fatalf("unable to compute changed digest: %v", err)
	}

	if baseDigest != changedDigest {
		t.Errorf("a change outside the \"foo\" prefix must not affect its digest: %q != %q", baseDigest, changedDigest)
	}
}

// TestDirectoryStructureHashContextKnownVectors exercises spec §8, S3.
func TestDirectoryStructureHashContextKnownVectors(t *testing.T) {
	clips := NewDirectoryStructureHashContext(hashing.AlgorithmC4)
	for _, name := range []string{"test1.mov", "test2.mov", "test3.mov"} {
		clips.AddFile(name)
	}
	clipsDigest, err := clips.Digest()
	if err != nil {
		t.Fatalf("unable to compute Clips structure digest: %v", err)
	}
	const expectedClips = "c41xTCdZYBC4whNcooFZqRCCLJDqEWEs6ihSnnpH3Yd5J7MWqonJPyn4VobFzXPSSFNAXFwRJupWTWAqACX2j9mtf9"
	if clipsDigest != expectedClips {
		t.Fatalf("Clips structure digest: got %q, expected %q", clipsDigest, expectedClips)
	}

	parent := NewDirectoryStructureHashContext(hashing.AlgorithmC4)
	parent.AddFile("sidecar1.txt")
	parent.AddFile("sidecar2.txt")
	parent.AddSubdirectory("Clips", clipsDigest)
	parentDigest, err := parent.Digest()
	if err != nil {
		t.Fatalf("unable to compute parent structure digest: %v", err)
	}
	const expectedParent = "c42yDGyeBFynf3idEHmKcScECfhwuVgAyZ8xVE9XLXyD2F35Ma8hPWAZKzHALLBChxNXY7ceMZRVBaEP3PYRp9MEEZ"
	if parentDigest != expectedParent {
		t.Errorf("parent structure digest: got %q, expected %q", parentDigest, expectedParent)
	}
}

func TestDirectoryStructureHashContextChangedFilenameDiffers(t *testing.T) {
	const clipsDigest = "c41xTCdZYBC4whNcooFZqRCCLJDqEWEs6ihSnnpH3Yd5J7MWqonJPyn4VobFzXPSSFNAXFwRJupWTWAqACX2j9mtf9"

	original := NewDirectoryStructureHashContext(hashing.AlgorithmC4)
	original.AddFile("sidecar1.txt")
	original.AddFile("sidecar2.txt")
	original.AddSubdirectory("Clips", clipsDigest)
	originalDigest, err := original.Digest()
	if err != nil {
		t.Fatalf("unable to compute original digest: %v", err)
	}

	renamed := NewDirectoryStructureHashContext(hashing.AlgorithmC4)
	renamed.AddFile("sidecar1.txt")
	renamed.AddFile("XXXX.txt")
	renamed.AddSubdirectory("Clips", clipsDigest)
	renamedDigest, err := renamed.Digest()
	if err != nil {
		t.Fatalf("unable to compute renamed digest: %v", err)
	}

	if originalDigest == renamedDigest {
		t.Error("renaming a child file must change the parent structure digest")
	}
}

func TestDirectoryStructureHashContextChangedSubdirectoryDigestDiffers(t *testing.T) {
	original := NewDirectoryStructureHashContext(hashing.AlgorithmC4)
	original.AddFile("sidecar1.txt")
	original.AddFile("sidecar2.txt")
	original.AddSubdirectory("Clips", "c41xTCdZYBC4whNcooFZqRCCLJDqEWEs6ihSnnpH3Yd5J7MWqonJPyn4VobFzXPSSFNAXFwRJupWTWAqACX2j9mtf9")
	originalDigest, err := original.Digest()
	if err != nil {
		t.Fatalf("unable to compute original digest: %v", err)
	}

	changed := NewDirectoryStructureHashContext(hashing.AlgorithmC4)
	changed.AddFile("sidecar1.txt")
	changed.AddFile("sidecar2.txt")
	changed.AddSubdirectory("Clips", "c43dTiFV5DxAhFqNLoAzapJeJHa7uxTBmAJrZrT9m7vWJfwKency65SHLpVYLer84Bx91V2HEGboVdfFV7LG2dk1AZ")
	changedDigest, err := changed.Digest()
	if err != nil {
		t.Fatalf("unable to compute changed digest: %v", err)
	}

	if originalDigest == changedDigest {
		t.Error("changing a subdirectory's structure digest must change the parent structure digest")
	}
}
