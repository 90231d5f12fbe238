package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching. Values are stored as given, not
// encoded, so callers must not mutate a value after storing it.
type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from the given parts (e.g., mode, source text, target text)
func Key(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return "acctdiff:v1:" + hex.EncodeToString(h.Sum(nil))
}
