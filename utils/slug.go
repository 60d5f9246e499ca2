package utils

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
)

// GenerateSlug returns a random uppercase alphanumeric slug of length n,
// used for QR code short links when the admin does not pick one.
func GenerateSlug(n int) (string, error) {
	// 5 bits per base32 character
	randomBytes := make([]byte, (n*5+7)/8)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", err
	}

	slug := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes)
	slug = strings.ToUpper(slug)
	if len(slug) > n {
		slug = slug[:n]
	}
	return slug, nil
}
