package shortener

import (
	"fmt"
	"net/url"
	"regexp"
)

const (
	// MinCodeLength and MaxCodeLength bound requested and generated codes.
	MinCodeLength = 3
	MaxCodeLength = 20
)

var codePattern = regexp.MustCompile(fmt.Sprintf(`^[A-Za-z0-9]{%d,%d}$`, MinCodeLength, MaxCodeLength))

// IsValidURL reports whether raw is an absolute http or https URL with a host.
func IsValidURL(raw string) bool {
	if raw == "" {
		return false
	}

	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	return u.Hostname() != ""
}

// IsValidCode reports whether code is 3 to 20 ASCII letters or digits.
func IsValidCode(code string) bool {
	return codePattern.MatchString(code)
}
