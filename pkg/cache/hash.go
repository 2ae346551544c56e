package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Hash computes the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Key joins parts with "/" after escaping any "/" inside them, so that
// ("8.3", "2") and ("8", "3/2") yield different keys.
func Key(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = strings.ReplaceAll(strings.ReplaceAll(p, "%", "%25"), "/", "%2F")
	}
	return strings.Join(escaped, "/")
}
