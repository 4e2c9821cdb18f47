package hashing

import (
	"fmt"
	"io"
	"os"
)

// chunkSize is the read buffer size used when streaming file content into a
// hasher. This is a hard contract, not an optimization: very large media
// files must never be loaded whole into memory (spec §4.1).
const chunkSize = 1 << 20 // 1 MiB

// HashFile computes the digest of the file at path using algorithm a,
// streaming its content in fixed-size chunks.
func HashFile(path string, a Algorithm) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("unable to open file: %w", err)
	}
	defer file.Close()

	hasher := a.Factory()()
	buffer := make([]byte, chunkSize)
	for {
		n, readErr := file.Read(buffer)
		if n > 0 {
			if _, err := hasher.Write(buffer[:n]); err != nil {
				return "", fmt.Errorf("unable to update hash: %w", err)
			}
		}
		if readErr == io.EOF {
			break
		} else if readErr != nil {
			return "", fmt.Errorf("unable to read file: %w", readErr)
		}
	}

	return EncodeDigest(a, hasher.Sum(nil)), nil
}

// HashBytes computes the digest of an in-memory byte sequence using
// algorithm a. Used for hashing path components and small synthetic inputs
// during directory aggregation (spec §4.2).
func HashBytes(data []byte, a Algorithm) string {
	hasher := a.Factory()()
	hasher.Write(data)
	return EncodeDigest(a, hasher.Sum(nil))
}

// HashString is a convenience wrapper around HashBytes for UTF-8 strings.
func HashString(s string, a Algorithm) string {
	return HashBytes([]byte(s), a)
}
