package util

import (
	"crypto/sha256"
	"encoding/hex"
)

const shortDigestLen = 12

// HashText returns the hex SHA-256 digest of s. Journal entries carry it in place of the feedback text.
func HashText(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// ShortDigest trims a hex digest to a prefix that is enough to correlate log lines with journal rows.
func ShortDigest(digest string) string {
	if len(digest) <= shortDigestLen {
		return digest
	}
	return digest[:shortDigestLen]
}
