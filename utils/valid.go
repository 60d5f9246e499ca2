// utils/valid.go
package utils

import (
	"errors"
	"html"
	"regexp"
	"strings"
	"unicode"
)

var (
	scriptRegex   = regexp.MustCompile(`(?i)<script[^>]*>.*?</script>`)
	phoneRegex    = regexp.MustCompile(`[^\d+]`)
	usernameRegex = regexp.MustCompile(`^[A-Za-z0-9._-]{3,64}$`)
)

// SanitizeInput sanitizes user input to prevent XSS and injection attacks
func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)

	// Remove any potential script tags before escaping
	input = scriptRegex.ReplaceAllString(input, "")

	input = html.EscapeString(input)

	// Remove control characters
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input)
}

// SanitizePhone sanitizes and validates a phone number
func SanitizePhone(phone string) (string, error) {
	// Phone is optional
	if strings.TrimSpace(phone) == "" {
		return "", nil
	}

	phone = phoneRegex.ReplaceAllString(phone, "")
	if !strings.HasPrefix(phone, "+") {
		phone = "+" + phone
	}

	if len(phone) < 8 || len(phone) > 16 {
		return "", errors.New("invalid phone number length")
	}
	return phone, nil
}

// NormalizeUsername trims a sponsor username and checks its shape. Usernames
// are case sensitive. Empty input is allowed and stays empty.
func NormalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", nil
	}
	if !usernameRegex.MatchString(username) {
		return "", errors.New("invalid username")
	}
	return username, nil
}
