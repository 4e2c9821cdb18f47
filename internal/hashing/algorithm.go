// Package hashing provides streaming implementations of the content hashing
// algorithms used to identify file content: MD5, SHA-1, XXH32, XXH64, and C4.
package hashing

import (
	"crypto/md5"
	"crypto/sha1"
	"fmt"
	"hash"

	"github.com/OneOfOne/xxhash"
)

// Algorithm is a closed enumeration of the supported content hashing
// algorithms. It is closed because persistence of generation files requires
// knowing the full algorithm set in advance.
type Algorithm uint8

const (
	// AlgorithmMD5 identifies the MD5 algorithm.
	AlgorithmMD5 Algorithm = iota
	// AlgorithmSHA1 identifies the SHA-1 algorithm.
	AlgorithmSHA1
	// AlgorithmXXH32 identifies the 32-bit xxHash algorithm.
	AlgorithmXXH32
	// AlgorithmXXH64 identifies the 64-bit xxHash algorithm.
	AlgorithmXXH64
	// AlgorithmC4 identifies the C4 (SHA-512 + base-58) algorithm.
	AlgorithmC4
)

// priority orders algorithms by their ability to detect corruption, highest
// first. It is used both for deterministic display ordering and for
// selecting which existing algorithm to cross-verify against when a file has
// entries in more than one.
var priority = map[Algorithm]int{
	AlgorithmC4:    4,
	AlgorithmSHA1:  3,
	AlgorithmMD5:   2,
	AlgorithmXXH64: 1,
	AlgorithmXXH32: 0,
}

// String returns the canonical lowercase name for the algorithm, used both
// for display and for the persisted representation.
func (a Algorithm) String() string {
	switch a {
	case AlgorithmMD5:
		return "md5"
	case AlgorithmSHA1:
		return "sha1"
	case AlgorithmXXH32:
		return "xxh32"
	case AlgorithmXXH64:
		return "xxh64"
	case AlgorithmC4:
		return "c4"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.MarshalText.
func (a Algorithm) MarshalText() ([]byte, error) {
	if !a.Supported() {
		return nil, fmt.Errorf("unsupported hashing algorithm: %d", a)
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.UnmarshalText.
func (a *Algorithm) UnmarshalText(textBytes []byte) error {
	switch string(textBytes) {
	case "md5":
		*a = AlgorithmMD5
	case "sha1":
		*a = AlgorithmSHA1
	case "xxh32":
		*a = AlgorithmXXH32
	case "xxh64":
		*a = AlgorithmXXH64
	case "c4":
		*a = AlgorithmC4
	default:
		return fmt.Errorf("unknown hashing algorithm specification: %s", string(textBytes))
	}
	return nil
}

// Supported indicates whether or not a is one of the defined algorithm
// values.
func (a Algorithm) Supported() bool {
	switch a {
	case AlgorithmMD5, AlgorithmSHA1, AlgorithmXXH32, AlgorithmXXH64, AlgorithmC4:
		return true
	default:
		return false
	}
}

// Less reports whether a has strictly lower corruption-detection priority
// than other, implementing the total order from spec §3:
// C4 > SHA1 > MD5 > XXH64 > XXH32.
func (a Algorithm) Less(other Algorithm) bool {
	return priority[a] < priority[other]
}

// Factory returns a constructor for a new hash.Hash implementing this
// algorithm. It panics for an unsupported algorithm, mirroring the teacher's
// Algorithm.Factory in pkg/synchronization/hashing/algorithm.go.
func (a Algorithm) Factory() func() hash.Hash {
	switch a {
	case AlgorithmMD5:
		return md5.New
	case AlgorithmSHA1:
		return sha1.New
	case AlgorithmXXH32:
		return func() hash.Hash { return xxhash.New32() }
	case AlgorithmXXH64:
		return func() hash.Hash { return xxhash.New64() }
	case AlgorithmC4:
		return newC4Hash
	default:
		panic("unsupported hashing algorithm")
	}
}

// EmptyDigest returns the canonical digest string for hashing an empty byte
// sequence with this algorithm, used as the aggregation base case (spec
// §4.2, edge case).
func (a Algorithm) EmptyDigest() string {
	h := a.Factory()()
	return EncodeDigest(a, h.Sum(nil))
}

// SortOrder returns a's position in the deterministic ordering used when
// multiple HashEntry values exist for the same MediaHash (spec §7,
// serializer): algorithm priority, highest first.
func SortOrder(a Algorithm) int {
	return -priority[a]
}

// All returns every supported algorithm in spec-defined priority order,
// highest priority first.
func All() []Algorithm {
	return []Algorithm{AlgorithmC4, AlgorithmSHA1, AlgorithmMD5, AlgorithmXXH64, AlgorithmXXH32}
}
