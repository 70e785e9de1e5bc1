package hasher

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the hex-encoded SHA-256 of s. Used for token digests stored
// in the revocation list, never for passwords.
func Hash(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

func Verify(value, hash string) bool {
	return Hash(value) == hash
}
