package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	apiKeyPrefix = "ktp_"
	apiKeyBytes  = 24 // 192 bits of entropy
)

// GenerateAPIKey creates a new extension API key for the given key record ID.
// The plaintext carries the ID so authentication can look up one stored hash
// instead of comparing against every key; only the hash is stored.
//
// Format: ktp_<keyID>.<secret>
func GenerateAPIKey(keyID string) (plaintext, hash string, err error) {
	b := make([]byte, apiKeyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("generate api key: %w", err)
	}
	plaintext = apiKeyPrefix + keyID + "." + base64.RawURLEncoding.EncodeToString(b)

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", "", fmt.Errorf("hash api key: %w", err)
	}
	return plaintext, string(hashBytes), nil
}

// ParseAPIKeyID extracts the key record ID from a presented key.
// Key IDs never contain a dot, so the first separator is unambiguous.
func ParseAPIKeyID(presented string) (string, bool) {
	rest, ok := strings.CutPrefix(presented, apiKeyPrefix)
	if !ok {
		return "", false
	}
	keyID, _, ok := strings.Cut(rest, ".")
	if !ok || keyID == "" {
		return "", false
	}
	return keyID, true
}

// VerifyAPIKey reports whether the presented key matches the stored hash.
func VerifyAPIKey(hash, presented string) bool {
	if !strings.HasPrefix(presented, apiKeyPrefix) {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(presented)) == nil
}
