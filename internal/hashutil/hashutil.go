// Package hashutil provides the stable content hashing used to derive
// résumé-source fingerprints and the match-engine version string.
// blake2b is used instead of a cryptographic-grade SHA-2 since no
// security property is required here, only stability and low collision
// risk for small payloads.
package hashutil

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Sum returns a short, stable hex digest of data.
func Sum(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])[:32]
}

// SumString is Sum over a string.
func SumString(s string) string {
	return Sum([]byte(s))
}

// Fold combines several already-stable strings (e.g. component hashes)
// into one digest, order-sensitive, used to build composite version
// strings such as the match engine's current version identifier.
func Fold(parts ...string) string {
	return SumString(strings.Join(parts, "\x1f"))
}
