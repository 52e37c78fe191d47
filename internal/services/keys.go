package services

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// NormalizeLanguageCode lowercases and trims a language code, substituting
// fallback when the code is empty.
func NormalizeLanguageCode(code, fallback string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return fallback
	}
	return code
}

// NormalizeKey trims a translation key. Empty input normalizes to "".
func NormalizeKey(key string) string {
	return strings.TrimSpace(key)
}

// HashKey returns the MD5 hex digest of the trimmed key. MD5 matches the
// key_hash values already persisted by earlier generations of the admin
// backend, so existing rows keep resolving.
func HashKey(key string) string {
	sum := md5.Sum([]byte(NormalizeKey(key)))
	return hex.EncodeToString(sum[:])
}
