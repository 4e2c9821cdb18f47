package hashing

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/eknkc/basex"
)

// base58 is the C4 base-58 encoder, grounded on the teacher's own use of
// eknkc/basex for Base62 identifier encoding in pkg/encoding/base62.go.
var base58 *basex.Encoding

func init() {
	encoding, err := basex.NewEncoding(c4Alphabet)
	if err != nil {
		panic("unable to initialize C4 base-58 encoder")
	}
	base58 = encoding
}

// EncodeDigest renders raw hash output bytes as the canonical digest string
// for algorithm a: lowercase hex for MD5/SHA-1/XXH32/XXH64, and the "c4"
// prefix plus zero-padded base-58 for C4 (spec §3).
func EncodeDigest(a Algorithm, raw []byte) string {
	if a == AlgorithmC4 {
		encoded := base58.Encode(raw)
		if pad := c4EncodedLength - len(encoded); pad > 0 {
			encoded = strings.Repeat("1", pad) + encoded
		}
		return c4Prefix + encoded
	}
	return hex.EncodeToString(raw)
}

// DecodeDigest parses a canonical digest string back into its raw byte form,
// the inverse of EncodeDigest, required by the aggregation engine (spec
// §4.2) to concatenate raw digest bytes for pairwise rehashing.
func DecodeDigest(a Algorithm, digest string) ([]byte, error) {
	if a == AlgorithmC4 {
		if !strings.HasPrefix(digest, c4Prefix) {
			return nil, fmt.Errorf("c4 digest missing prefix: %s", digest)
		}
		raw, err := base58.Decode(strings.TrimPrefix(digest, c4Prefix))
		if err != nil {
			return nil, fmt.Errorf("unable to decode c4 digest: %w", err)
		}
		if len(raw) > c4DigestLength {
			return nil, fmt.Errorf("decoded c4 digest too long: %d bytes", len(raw))
		}
		if len(raw) < c4DigestLength {
			padded := make([]byte, c4DigestLength)
			copy(padded[c4DigestLength-len(raw):], raw)
			raw = padded
		}
		return raw, nil
	}
	raw, err := hex.DecodeString(digest)
	if err != nil {
		return nil, fmt.Errorf("unable to decode hex digest: %w", err)
	}
	return raw, nil
}
