package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Key generates a cache key by hashing the components.
// The key format is: kind:sha256(json(parts)).
func Key(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return kind + ":" + hex.EncodeToString(hash[:])
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
