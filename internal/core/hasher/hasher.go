// Package hasher computes the content digests recorded for generated files.
package hasher

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Prefix marks the digest algorithm in recorded hashes.
const Prefix = "sha256:"

// CalculateSHA256 computes the SHA256 hash of the given content
// and returns it in the format "sha256:<hex_hash>".
func CalculateSHA256(content []byte) (string, error) {
	h := sha256.New()
	if _, err := h.Write(content); err != nil {
		return "", fmt.Errorf("failed to write content to hasher: %w", err)
	}
	return Prefix + hex.EncodeToString(h.Sum(nil)), nil
}

// Matches reports whether content hashes to digest. Digests recorded with
// another algorithm never match.
func Matches(content []byte, digest string) bool {
	if !strings.HasPrefix(digest, Prefix) {
		return false
	}
	sum, err := CalculateSHA256(content)
	if err != nil {
		return false
	}
	return strings.EqualFold(sum, digest)
}
