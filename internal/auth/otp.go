package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	codeMin   = 100000
	codeRange = 900000
)

// GenerateCode returns a 6-digit code drawn uniformly from [100000, 999999].
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeRange))
	if err != nil {
		return "", fmt.Errorf("read random code: %w", err)
	}
	return fmt.Sprintf("%d", codeMin+n.Int64()), nil
}

// NormalizeEmail trims and lowercases an email so it can be used as a key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
