package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Key derives the cache key for a search query.
//
// The query is normalized (trimmed, lowercased) before hashing so that
// identical queries differing only in case or surrounding whitespace share
// a cache entry. The digest is stable across runs and fixed-length;
// collisions are cryptographically negligible.
func Key(query string) string {
	normalized := strings.ToLower(strings.TrimSpace(query))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
