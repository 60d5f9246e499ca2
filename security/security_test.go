package security

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateContentType(t *testing.T) {
	assert.True(t, ValidateContentType("application/json"))
	assert.True(t, ValidateContentType("Application/JSON; charset=utf-8"))
	assert.True(t, ValidateContentType("multipart/form-data; boundary=abc"))
	assert.False(t, ValidateContentType("text/plain"))
	assert.False(t, ValidateContentType(""))
	assert.False(t, ValidateContentType(";;"))
}

func TestRedactHeaders(t *testing.T) {
	headers := http.Header{}
	headers.Set("Authorization", "Bearer secret")
	headers.Set("Stripe-Signature", "t=1,v1=abc")
	headers.Set("Content-Type", "application/json")

	redacted := RedactHeaders(headers)

	assert.Equal(t, "[redacted]", redacted.Get("Authorization"))
	assert.Equal(t, "[redacted]", redacted.Get("Stripe-Signature"))
	assert.Equal(t, "application/json", redacted.Get("Content-Type"))
	assert.Empty(t, redacted.Get("Cookie"))
	assert.Equal(t, "Bearer secret", headers.Get("Authorization"), "original untouched")
}
