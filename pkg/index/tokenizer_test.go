package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize_SplitsOnSeparatorClass(t *testing.T) {
	tok := NewTokenizer(nil, nil)

	tests := []struct {
		name   string
		label  string
		expect []string
	}{
		{"single word", "Albania", []string{"albania"}},
		{"whitespace", "New  Zealand", []string{"new", "zealand"}},
		{"comma", "Korea, Republic", []string{"korea", "republic"}},
		{"hyphen", "Guinea-Bissau", []string{"guinea", "bissau"}},
		{"parentheses", "Congo (Kinshasa)", []string{"congo", "kinshasa"}},
		{"periods", "St. Lucia", []string{"st", "lucia"}},
		{"tabs and newlines", "a\tb\nc", []string{"a", "b", "c"}},
		{"run of separators", "x ,-(). y", []string{"x", "y"}},
		{"apostrophe is kept", "Côte d'Ivoire", []string{"côte", "d'ivoire"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, tok.Tokenize(tt.label))
		})
	}
}

func TestTokenize_DropsStopWords(t *testing.T) {
	tok := NewTokenizer(nil, nil)

	assert.Equal(t, []string{"isle", "man"}, tok.Tokenize("Isle of Man"))
	assert.Equal(t, []string{"bosnia", "herzegovina"}, tok.Tokenize("Bosnia and Herzegovina"))
	assert.Empty(t, tok.Tokenize("The Of And"))
	assert.Empty(t, tok.Tokenize(" ,.- "))
}

func TestTokenize_CustomStopWords(t *testing.T) {
	t.Run("replaces defaults", func(t *testing.T) {
		tok := NewTokenizer(nil, []string{"Islands"})
		assert.Equal(t, []string{"cayman"}, tok.Tokenize("Cayman Islands"))
		assert.Equal(t, []string{"isle", "of", "man"}, tok.Tokenize("Isle of Man"))
	})

	t.Run("empty list disables removal", func(t *testing.T) {
		tok := NewTokenizer(nil, []string{})
		assert.Equal(t, []string{"the", "gambia"}, tok.Tokenize("The Gambia"))
	})
}

func TestTokenize_AppendsAliases(t *testing.T) {
	tok := NewTokenizer(CountryAliases, nil)

	tokens := tok.Tokenize("United Kingdom")

	require.Len(t, tokens, 6)
	assert.Equal(t, []string{"united", "kingdom", "uk", "great britain", "england", "britain"}, tokens)
}

func TestTokenize_DeduplicatesTokens(t *testing.T) {
	tok := NewTokenizer(NewSynonymTable(map[string][]string{"iran": {"iran", "persia"}}), nil)

	assert.Equal(t, []string{"iran", "persia"}, tok.Tokenize("Iran"))
	assert.Equal(t, []string{"new", "york"}, tok.Tokenize("New new York"))
}

func TestAliases_MatchDirections(t *testing.T) {
	tok := NewTokenizer(CountryAliases, nil)

	tests := []struct {
		name   string
		label  string
		expect []string
	}{
		{"equal", "Netherlands", []string{"holland"}},
		{"label contains canonical", "Netherlands (Kingdom of the)", []string{"holland"}},
		{"canonical contains label", "Viet", []string{"vietnam"}},
		{"no match", "Albania", nil},
		{"empty label", "", nil},
		{"blank label", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, tok.Aliases(tt.label))
		})
	}
}

func TestAliases_SeveralEntriesInTableOrder(t *testing.T) {
	table := NewSynonymTable(map[string][]string{
		"south korea": {"rok"},
		"north korea": {"dprk"},
	})
	tok := NewTokenizer(table, nil)

	// Sorted canonical order: "north korea" before "south korea".
	assert.Equal(t, []string{"dprk", "rok"}, tok.Aliases("Korea"))
}

func TestSearchText(t *testing.T) {
	tok := NewTokenizer(CountryAliases, nil)

	assert.Equal(t, "albania", tok.SearchText("Albania"))
	assert.Equal(t, "myanmar burma", tok.SearchText("Myanmar"))
	assert.Equal(t, "isle of man", tok.SearchText("Isle of Man"))

	assert.Equal(t, "myanmar burma", tok.SearchText("  Myanmar \t"))
	assert.Equal(t, tok.Aliases("  Myanmar "), tok.Aliases("Myanmar"))
	assert.Empty(t, tok.SearchText("   "))
}

func TestNewSynonymTable_NormalizesAndSorts(t *testing.T) {
	table := NewSynonymTable(map[string][]string{
		"  Zed ":  {" Z "},
		"alpha":   {"A", ""},
		"":        {"dropped"},
		"noalias": {},
	})

	require.Len(t, table, 2)
	assert.Equal(t, Synonym{Canonical: "alpha", Aliases: []string{"a"}}, table[0])
	assert.Equal(t, Synonym{Canonical: "zed", Aliases: []string{"z"}}, table[1])
}

func TestSynonymTable_Merge(t *testing.T) {
	base := NewSynonymTable(map[string][]string{"holy see": {"vatican"}})
	extra := NewSynonymTable(map[string][]string{
		"holy see": {"vatican city"},
		"czechia":  {"czech republic"},
	})

	merged := base.Merge(extra)

	require.Len(t, merged, 2)
	assert.Equal(t, []string{"vatican", "vatican city"}, merged[0].Aliases)
	assert.Equal(t, "czechia", merged[1].Canonical)
	assert.Equal(t, []string{"vatican"}, base[0].Aliases, "merge must not modify the receiver")
}
