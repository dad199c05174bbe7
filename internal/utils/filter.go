package utils

import (
	"strings"
)

// TokenFilter drops repeated tokens while keeping the first occurrence.
// It is not safe for concurrent use; create one per label.
type TokenFilter struct {
	seen map[string]bool
}

// NewTokenFilter creates a filter that already treats the given words as seen.
func NewTokenFilter(exclude ...string) *TokenFilter {
	seen := make(map[string]bool, len(exclude)+4)
	for _, w := range exclude {
		seen[strings.ToLower(w)] = true
	}
	return &TokenFilter{seen: seen}
}

// ShouldInclude checks if a token should be kept (not a duplicate).
// Returns true the first time a token is seen, false afterwards.
func (f *TokenFilter) ShouldInclude(token string) bool {
	lower := strings.ToLower(token)
	if f.seen[lower] {
		return false
	}
	f.seen[lower] = true
	return true
}
