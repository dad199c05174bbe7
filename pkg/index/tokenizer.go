package index

import (
	"strings"

	"github.com/bastiangx/listpick/internal/utils"
)

// DefaultStopWords are dropped from every label unless a tokenizer is
// created with its own list.
var DefaultStopWords = []string{"of", "the", "and"}

// Tokenizer turns option labels into normalized search tokens.
// A Tokenizer is immutable and safe for concurrent use.
type Tokenizer struct {
	synonyms  SynonymTable
	stopWords map[string]struct{}
}

// NewTokenizer creates a tokenizer. A nil stopWords slice selects
// DefaultStopWords; an empty non-nil slice disables stop-word removal.
func NewTokenizer(synonyms SynonymTable, stopWords []string) *Tokenizer {
	if stopWords == nil {
		stopWords = DefaultStopWords
	}
	return &Tokenizer{
		synonyms:  synonyms,
		stopWords: buildStopWordMap(stopWords),
	}
}

func buildStopWordMap(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[strings.ToLower(w)] = struct{}{}
	}
	return m
}

// Tokenize splits label into lower-cased tokens on whitespace , - ( ) and .,
// drops stop-words, then appends the aliases of every synonym entry the
// label matches. Repeated tokens keep their first position only.
func (t *Tokenizer) Tokenize(label string) []string {
	words := utils.SplitLabel(label)
	aliases := t.Aliases(label)

	tokens := make([]string, 0, len(words)+len(aliases))
	seen := utils.NewTokenFilter()
	for _, w := range words {
		if _, stop := t.stopWords[w]; stop {
			continue
		}
		if seen.ShouldInclude(w) {
			tokens = append(tokens, w)
		}
	}
	for _, a := range aliases {
		if seen.ShouldInclude(a) {
			tokens = append(tokens, a)
		}
	}
	return tokens
}

// Aliases returns the aliases for label. An entry matches when the whole
// lower-cased label equals its canonical phrase, contains it, or is
// contained in it.
func (t *Tokenizer) Aliases(label string) []string {
	lower := normalizeLabel(label)
	if lower == "" {
		return nil
	}
	var out []string
	for _, s := range t.synonyms {
		if strings.Contains(lower, s.Canonical) || strings.Contains(s.Canonical, lower) {
			out = append(out, s.Aliases...)
		}
	}
	return out
}

// SearchText is the combined searchable text of a label used by the wide
// filter: the trimmed, lower-cased label followed by its aliases.
func (t *Tokenizer) SearchText(label string) string {
	lower := normalizeLabel(label)
	aliases := t.Aliases(label)
	if len(aliases) == 0 {
		return lower
	}
	return lower + " " + strings.Join(aliases, " ")
}

// normalizeLabel is the form of a label that alias matching and the wide
// filter both see.
func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
