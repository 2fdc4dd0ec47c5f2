package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

const oneTimeTokenBytes = 32

// GenerateOneTimeToken produces a random single-use token. The raw value is
// handed to the user (via email link); only the hash is ever persisted.
func GenerateOneTimeToken() (raw string, hash string, err error) {
	bytes := make([]byte, oneTimeTokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", "", fmt.Errorf("generating one-time token: %w", err)
	}
	raw = hex.EncodeToString(bytes)
	return raw, HashOneTimeToken(raw), nil
}

// HashOneTimeToken derives the storable hash of a presented raw token.
func HashOneTimeToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// VerifyOneTimeToken compares a presented raw token against the stored hash in
// constant time.
func VerifyOneTimeToken(raw, storedHash string) bool {
	if raw == "" || storedHash == "" {
		return false
	}
	computed := HashOneTimeToken(raw)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}
