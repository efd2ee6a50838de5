package util

import (
	"crypto/sha256"
	"encoding/base32"
	"strings"
)

var keyEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// HashUserKey maps a user id to a stable lowercase path segment so that raw
// ids never appear in storage keys.
func HashUserKey(userID string) string {
	sum := sha256.Sum256([]byte(userID))
	return strings.ToLower(keyEncoding.EncodeToString(sum[:20]))
}
