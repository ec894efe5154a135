package domain

import (
	"errors"
	"net/mail"
	"strings"
)

var (
	ErrInvalidEmail = errors.New("domain: invalid email address")
	ErrInvalidPhone = errors.New("domain: invalid phone number")
)

// DefaultCountryCode is the calling code assumed for local phone numbers.
const DefaultCountryCode = "254"

// NormalizePhone strips everything but digits and rewrites the number into
// +<countryCode> form. A leading trunk 0 is replaced by the country code.
func NormalizePhone(raw, countryCode string) (string, error) {
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}

	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	var out string
	switch {
	case digits == "":
		return "", ErrInvalidPhone
	case strings.HasPrefix(digits, "0"):
		out = "+" + countryCode + digits[1:]
	case strings.HasPrefix(digits, countryCode):
		out = "+" + digits
	default:
		out = "+" + countryCode + digits
	}

	// E.164 caps numbers at 15 digits.
	if n := len(out) - 1; n <= len(countryCode) || n > 15 {
		return "", ErrInvalidPhone
	}
	return out, nil
}

// NormalizeEmail trims and lowercases an address after checking it parses.
func NormalizeEmail(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return "", ErrInvalidEmail
	}
	return s, nil
}
