// Package cache provides byte-level caching for fetched pages and a typed
// cache for parsed policy rulesets.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for byte-level caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from a URL or path
func Key(source string) string {
	hash := sha256.Sum256([]byte(source))
	return "veridian:v1:" + hex.EncodeToString(hash[:])
}
