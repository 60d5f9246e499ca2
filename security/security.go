package security

import (
	"mime"
	"net/http"
)

// ValidateContentType reports whether a request body of contentType can be
// handled. Parameters such as charset or boundary are ignored.
func ValidateContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	validTypes := map[string]bool{
		"application/json":    true,
		"multipart/form-data": true,
	}
	return validTypes[mediaType]
}

// RedactHeaders returns a copy of headers safe to log
func RedactHeaders(headers http.Header) http.Header {
	sensitiveHeaders := []string{
		"Authorization",
		"Cookie",
		"Set-Cookie",
		"Stripe-Signature",
	}

	redacted := headers.Clone()
	for _, header := range sensitiveHeaders {
		if redacted.Get(header) != "" {
			redacted.Set(header, "[redacted]")
		}
	}
	return redacted
}
