package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsSeparator reports whether r splits a label into tokens.
// The class is whitespace plus , - ( ) and .
func IsSeparator(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	switch r {
	case ',', '-', '(', ')', '.':
		return true
	}
	return false
}

// SplitLabel lower-cases s and splits it on runs of separators.
// Empty fields never appear in the result.
func SplitLabel(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), IsSeparator)
}

// FirstRune returns the first rune of s as a string, or "" for an empty s.
func FirstRune(s string) string {
	if s == "" {
		return ""
	}
	_, size := utf8.DecodeRuneInString(s)
	return s[:size]
}

// IsSingleRune reports whether s holds exactly one rune.
// Named keys such as "ArrowDown" or "F5" are longer than one rune.
func IsSingleRune(s string) bool {
	if s == "" {
		return false
	}
	r, size := utf8.DecodeRuneInString(s)
	return r != utf8.RuneError && size == len(s)
}

// IsValidQuery checks if a query should reach the index at all.
// Queries made only of separators can never match a token.
func IsValidQuery(s string, maxLen int) bool {
	if s == "" {
		return false
	}
	if maxLen > 0 && utf8.RuneCountInString(s) > maxLen {
		return false
	}
	for _, r := range s {
		if !IsSeparator(r) {
			return true
		}
	}
	return false
}
