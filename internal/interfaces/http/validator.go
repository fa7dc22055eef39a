package http

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Input validation constants
const (
	MaxUsernameLength = 64
	MaxNameLength     = 256
	MaxNotesLength    = 2000
	MinPasswordLength = 6
	MaxPhoneLength    = 20
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	digitsPattern   = regexp.MustCompile(`^[0-9]+$`)
)

// ValidUsername checks if a username is safe (alphanumeric + underscore + hyphen)
func ValidUsername(s string) bool {
	if s == "" || len(s) > MaxUsernameLength {
		return false
	}
	return usernamePattern.MatchString(s)
}

// ValidPhone accepts an optional leading "+" followed by digits.
func ValidPhone(s string) bool {
	s = strings.TrimPrefix(s, "+")
	return s != "" && len(s) <= MaxPhoneLength && digitsPattern.MatchString(s)
}

// ValidDate checks a YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// SanitizeString removes null bytes and invalid UTF-8
func SanitizeString(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")

	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	return strings.TrimSpace(s)
}

// ValidateLength checks if string is within bounds
func ValidateLength(s string, min, max int) bool {
	l := utf8.RuneCountInString(s)
	return l >= min && l <= max
}
