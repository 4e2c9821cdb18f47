// Package aggregate implements the pairwise digest-reduction trees used to
// fold a multiset of content digests into a single directory-level digest
// (spec §4.2). Reduction is order-insensitive and deduplicating: the result
// depends only on the set of input digests, which is what makes directory
// hashes comparable across platforms with different filesystem enumeration
// order.
package aggregate

import (
	"sort"

	"github.com/pomfort/ascmhl/internal/hashing"
)

// leftSlotSize is the width, in bytes, that the first digest of a folded
// pair is zero-padded up to before the second digest is appended. C4's
// 64-byte digest fills it exactly, leaving no padding; shorter digests
// (MD5, SHA-1, XXH32, XXH64) are right-padded with zeros to this width. The
// second digest is appended after the padding at its own natural length,
// unpadded.
const leftSlotSize = 64

// DigestForDigestList reduces a list of digest strings, all produced with
// algorithm a, to a single aggregate digest.
//
// Algorithm (spec §4.2):
//  1. Sort inputs lexicographically and remove exact duplicates.
//  2. While more than one digest remains, split into ordered pairs (the last
//     element is carried unchanged if the count is odd); for each pair,
//     lexicographically sort the pair, decode both digests to raw bytes, and
//     fold them into a buffer built as: the first digest, zero-padded on the
//     right up to 64 bytes, followed immediately by the second digest at its
//     own length (not itself padded) — then rehash the buffer with algorithm
//     a. For a 64-byte digest (C4) this reduces to plain concatenation; for
//     shorter digests the buffer is 64+len(digest) bytes, not a fixed 128.
//     The carried odd element is appended to the new list after the paired
//     results.
//  3. The sole remaining element is the aggregate.
//
// An empty input list reduces to a's canonical empty-string digest.
func DigestForDigestList(digests []string, a Algorithm) (string, error) {
	current := sortDedupe(digests)
	if len(current) == 0 {
		return hashing.Algorithm(a).EmptyDigest(), nil
	}

	for len(current) > 1 {
		var odd string
		haveOdd := len(current)%2 == 1
		if haveOdd {
			odd = current[len(current)-1]
			current = current[:len(current)-1]
		}

		next := make([]string, 0, len(current)/2+1)
		for i := 0; i < len(current); i += 2 {
			left, right := current[i], current[i+1]
			if right < left {
				left, right = right, left
			}

			leftRaw, err := hashing.DecodeDigest(hashing.Algorithm(a), left)
			if err != nil {
				return "", err
			}
			rightRaw, err := hashing.DecodeDigest(hashing.Algorithm(a), right)
			if err != nil {
				return "", err
			}

			padding := leftSlotSize - len(leftRaw)
			if padding < 0 {
				padding = 0
			}
			buffer := make([]byte, 0, leftSlotSize+len(rightRaw))
			buffer = append(buffer, leftRaw...)
			buffer = append(buffer, make([]byte, padding)...)
			buffer = append(buffer, rightRaw...)

			next = append(next, hashing.HashBytes(buffer, hashing.Algorithm(a)))
		}

		if haveOdd {
			next = append(next, odd)
		}
		current = next
	}

	return current[0], nil
}

// DigestForList reduces a list of UTF-8 strings (not digests) to a single
// aggregate digest in algorithm a: each string is first sorted, deduplicated,
// and hashed, then the resulting digest list is reduced with
// DigestForDigestList (spec §4.2, "string-list reduction").
func DigestForList(values []string, a Algorithm) (string, error) {
	unique := sortDedupe(values)
	digests := make([]string, len(unique))
	for i, v := range unique {
		digests[i] = hashing.HashString(v, hashing.Algorithm(a))
	}
	return DigestForDigestList(digests, a)
}

// Algorithm is a local alias of hashing.Algorithm so that callers outside
// this package's direct concerns don't need to import hashing just to name
// an algorithm constant when calling into aggregate.
type Algorithm = hashing.Algorithm

// sortDedupe returns values sorted lexicographically with exact duplicates
// removed, without mutating the input slice.
func sortDedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	sorted := append([]string(nil), values...)
	sort.Strings(sorted)

	result := sorted[:1]
	for _, v := range sorted[1:] {
		if v != result[len(result)-1] {
			result = append(result, v)
		}
	}
	return result
}
