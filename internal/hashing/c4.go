package hashing

import (
	"crypto/sha512"
	"hash"
)

// c4Alphabet is the 58-character alphabet used for C4 identifiers. It
// excludes '0', 'O', 'I', and 'l' to avoid visual ambiguity, following the
// convention the teacher follows for its own Base62 alphabet in
// pkg/encoding/base62.go.
const c4Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// c4DigestLength is the length, in bytes, of a SHA-512 digest.
const c4DigestLength = 64

// c4EncodedLength is the length of the base-58 portion of a C4 identifier,
// left-padded with the zero digit ('1') as needed.
const c4EncodedLength = 88

// c4Prefix is the literal prefix every C4 identifier carries.
const c4Prefix = "c4"

// newC4Hash returns a plain SHA-512 hash.Hash. Its Sum yields the raw 64-byte
// SHA-512 digest (the form aggregation concatenates); the C4 text form is
// produced separately by EncodeDigest.
func newC4Hash() hash.Hash {
	return sha512.New()
}
