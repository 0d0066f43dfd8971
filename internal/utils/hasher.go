package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Hash returns the hex SHA-256 of s with whitespace runs collapsed, so drafts
// that differ only in spacing or line breaks share one key.
func Hash(s string) string {
	normalized := strings.Join(strings.Fields(s), " ")
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
