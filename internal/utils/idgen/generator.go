// Package idgen produces opaque prefixed identifiers for rows the client
// names itself, such as conversation ids.
package idgen

import (
	"crypto/rand"
	"fmt"
)

// Lowercase alphanumerics only: the ids end up in URL paths and equality
// filters, so no characters that need escaping.
const idCharset = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateSecureID returns "<prefix>_<length random chars>" drawn from
// idCharset via crypto/rand.
func GenerateSecureID(prefix string, length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = idCharset[int(b)%len(idCharset)]
	}
	return prefix + "_" + string(buf), nil
}
