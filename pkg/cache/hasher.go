// Package cache provides content-hashing helpers for handler definitions:
// registry.go stamps every parsed definition with a ShortHash of its raw
// source so two definition files with identical content are recognizable
// as such without a full byte comparison.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// QuickHash быстрый хеш для произвольных данных
func QuickHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ShortHash короткий хеш (16 символов)
func ShortHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}
