// Package auth provides credential utilities: API token generation,
// admin password hashing and admin session tokens.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// tokenBytes is the entropy of a generated API token. 32 bytes gives
// 256 bits, hex encoded to 64 characters.
const tokenBytes = 32

// NewToken generates a new opaque API token.
func NewToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// QuickHash returns a truncated SHA256 hash of the input.
// Used to derive rate-limit keys without storing raw tokens in Redis.
// NOT a credential hash.
func QuickHash(input string) string {
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:16])
}
