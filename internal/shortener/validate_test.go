package shortener_test

import (
	"testing"

	"github.com/serroba/linkstats/internal/shortener"
	"github.com/stretchr/testify/assert"
)

func TestIsValidURL(t *testing.T) {
	valid := []string{
		"https://example.com",
		"http://example.com/path?q=1#frag",
		"https://sub.example.co.uk:8443/a/b",
		"http://127.0.0.1:8080",
	}
	for _, raw := range valid {
		assert.True(t, shortener.IsValidURL(raw), raw)
	}

	invalid := []string{
		"",
		"example.com",
		"/relative/path",
		"ftp://x.com",
		"mailto:someone@example.com",
		"https://",
		"http:///nohost",
	}
	for _, raw := range invalid {
		assert.False(t, shortener.IsValidURL(raw), raw)
	}
}

func TestIsValidCode(t *testing.T) {
	t.Run("accepts alphanumeric codes of 3 to 20 characters", func(t *testing.T) {
		for _, code := range []string{"abc", "ABC123", "a1B2c3D4e5F6g7H8i9J0"} {
			assert.True(t, shortener.IsValidCode(code), code)
		}
	})

	t.Run("rejects short, long and non-alphanumeric codes", func(t *testing.T) {
		for _, code := range []string{"", "ab", "a1B2c3D4e5F6g7H8i9J0x", "has-dash", "has space", "ünï", "abc!"} {
			assert.False(t, shortener.IsValidCode(code), code)
		}
	})
}
