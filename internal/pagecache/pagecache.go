// Package pagecache caches fetched page bodies between runs so repeated
// crawls against unchanged remote content skip the network.
package pagecache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Cache stores fetched page bodies keyed by URL
type Cache interface {
	Get(url string) ([]byte, bool)
	Set(url string, body []byte) error
	Clear() error
}

// key hashes a URL into a stable cache key
func key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return "caselink:v1:" + hex.EncodeToString(sum[:])
}
