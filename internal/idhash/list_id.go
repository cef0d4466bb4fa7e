// Package idhash derives deterministic identifiers by hashing domain fields.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeListID computes a deterministic wallet-list identifier using SHA256.
// Formula: SHA256(name|created_at_unix)
// Returns hex-encoded hash (64 characters).
func ComputeListID(name string, createdAt int64) string {
	data := fmt.Sprintf("%s|%d", name, createdAt)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
