package utils

import (
	"crypto/rand"
	"strings"
)

const passwordCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

// RandomPassword returns a lowercase-alphanumeric password of the given
// length, e.g. "abc123xy".
func RandomPassword(length int) (string, error) {
	buffer := make([]byte, length)
	if _, err := rand.Read(buffer); err != nil {
		return "", err
	}
	out := make([]byte, length)
	for i, b := range buffer {
		out[i] = passwordCharset[int(b)%len(passwordCharset)]
	}
	return string(out), nil
}

// NormalizeIdentifier canonicalizes a login identifier. External ids are
// upper-cased codes; the legacy email alias stays lower-case.
func NormalizeIdentifier(identifier string) string {
	trimmed := strings.TrimSpace(identifier)
	if strings.Contains(trimmed, "@") {
		return strings.ToLower(trimmed)
	}
	return strings.ToUpper(trimmed)
}
