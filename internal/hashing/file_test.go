package hashing

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHashBytesEmptyMatchesEmptyDigest(t *testing.T) {
	for _, a := range All() {
		if got := HashBytes(nil, a); got != a.EmptyDigest() {
			t.Errorf("%v: hashing empty bytes gave %q, expected EmptyDigest() %q", a, got, a.EmptyDigest())
		}
	}
}

func TestHashFileStreamsAcrossChunkBoundary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "large.bin")

	data := make([]byte, chunkSize+12345)
	for i := range data {
		data[i] = byte(i)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("unable to write fixture: %v", err)
	}

	streamed, err := HashFile(path, AlgorithmSHA1)
	if err != nil {
		t.Fatalf("unable to hash file: %v", err)
	}
	direct := HashBytes(data, AlgorithmSHA1)

	if streamed != direct {
		t.Errorf("streamed hash %q does not match direct hash %q", streamed, direct)
	}
}

func TestHashFileMissing(t *testing.T) {
	if _, err := HashFile(filepath.Join(t.TempDir(), "missing"), AlgorithmMD5); err == nil {
		t.Fatal("expected an error hashing a missing file")
	}
}

func TestHashStringMatchesHashBytes(t *testing.T) {
	for _, a := range All() {
		if got, want := HashString("ascmhl", a), HashBytes([]byte("ascmhl"), a); got != want {
			t.Errorf("%v: HashString gave %q, expected %q", a, got, want)
		}
	}
}
