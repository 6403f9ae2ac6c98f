package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// SourceKey generates a cache key for a block's schematic source.
// The key format is: source:<slug>
func SourceKey(slug string) string {
	return fmt.Sprintf("source:%s", slug)
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
