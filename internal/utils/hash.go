package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

const tokenBytes = 32

// GenerateToken returns a fixed-length hex token from crypto/rand.
func GenerateToken() (string, error) {
	buffer := make([]byte, tokenBytes)
	if _, err := rand.Read(buffer); err != nil {
		return "", err
	}
	return hex.EncodeToString(buffer), nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
