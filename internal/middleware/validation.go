package middleware

import (
	"errors"
	"net/mail"
	"strings"
)

// Validation limits.
const (
	// MaxEmailLength is the maximum length for an email address (RFC 5321).
	MaxEmailLength = 254

	// MaxPasswordLength bounds the work a single login can cause.
	MaxPasswordLength = 256
)

// Validation errors.
var (
	ErrEmailRequired   = errors.New("email is required")
	ErrEmailTooLong    = errors.New("email exceeds maximum length")
	ErrEmailInvalid    = errors.New("email is invalid")
	ErrPasswordMissing = errors.New("password is required")
	ErrPasswordTooLong = errors.New("password exceeds maximum length")
)

// ValidateEmail checks that s is a bare address like "user@example.com".
func ValidateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return ErrEmailRequired
	}
	if len(s) > MaxEmailLength {
		return ErrEmailTooLong
	}

	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return ErrEmailInvalid
	}

	return nil
}

// ValidatePassword checks password presence and length.
func ValidatePassword(s string) error {
	if s == "" {
		return ErrPasswordMissing
	}
	if len(s) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}
