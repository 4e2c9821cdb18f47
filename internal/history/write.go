package history

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pomfort/ascmhl/internal/generation"
	"github.com/pomfort/ascmhl/internal/hashing"
	"github.com/pomfort/ascmhl/internal/mhlxml"
)

// temporaryNamePrefix marks intermediate files used during atomic writes,
// grounded on the teacher's atomicWriteTemporaryNamePrefix convention in
// pkg/filesystem/atomic.go.
const temporaryNamePrefix = ".ascmhl-write-"

// writeGeneration serializes list and writes it to root's sidecar directory
// using a temporary-file-then-rename sequence, so that a crash during commit
// never leaves a partially-written generation file visible (spec §5). It
// also appends the new file's C4 self-reference digest to the sidecar's
// chain file.
func writeGeneration(root string, list *generation.HashList, timestamp time.Time) error {
	sidecar := sidecarPath(root)
	if err := os.MkdirAll(sidecar, 0o755); err != nil {
		return fmt.Errorf("unable to create sidecar directory: %w", err)
	}

	data, err := mhlxml.Encode(list)
	if err != nil {
		return err
	}

	name := generationFileName(root, list.GenerationNumber, timestamp)
	target := filepath.Join(sidecar, name)

	if err := writeFileAtomic(target, data, 0o644); err != nil {
		return err
	}

	selfDigest := hashing.HashBytes(data, hashing.AlgorithmC4)
	if err := appendChainEntry(sidecar, name, selfDigest); err != nil {
		return err
	}

	return nil
}

// writeFileAtomic writes data to path via an intermediate temporary file
// swapped into place with a rename, following the teacher's
// WriteFileAtomic in pkg/filesystem/atomic.go.
func writeFileAtomic(path string, data []byte, permissions os.FileMode) error {
	temporary, err := os.CreateTemp(filepath.Dir(path), temporaryNamePrefix)
	if err != nil {
		return fmt.Errorf("unable to create temporary file: %w", err)
	}
	temporaryName := temporary.Name()

	if _, err := temporary.Write(data); err != nil {
		temporary.Close()
		os.Remove(temporaryName)
		return fmt.Errorf("unable to write temporary file: %w", err)
	}
	if err := temporary.Close(); err != nil {
		os.Remove(temporaryName)
		return fmt.Errorf("unable to close temporary file: %w", err)
	}
	if err := os.Chmod(temporaryName, permissions); err != nil {
		os.Remove(temporaryName)
		return fmt.Errorf("unable to set temporary file permissions: %w", err)
	}
	if err := os.Rename(temporaryName, path); err != nil {
		os.Remove(temporaryName)
		return fmt.Errorf("unable to rename temporary file into place: %w", err)
	}

	return nil
}

// appendChainEntry appends one line to the sidecar's chain file recording a
// generation file's name and its own C4 self-reference digest (spec §6,
// "Reference algorithm: C4 is mandatory for the self-referencing digests").
func appendChainEntry(sidecar, generationFileName, digest string) error {
	chainPath := filepath.Join(sidecar, ChainFileName)
	file, err := os.OpenFile(chainPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("unable to open chain file: %w", err)
	}
	defer file.Close()

	line := fmt.Sprintf("%s %s %s\n", generationFileName, hashing.AlgorithmC4, digest)
	if _, err := file.WriteString(line); err != nil {
		return fmt.Errorf("unable to append chain entry: %w", err)
	}
	return nil
}
