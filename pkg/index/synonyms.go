package index

import (
	"sort"
	"strings"
)

// Synonym maps one canonical phrase to its alternate phrases.
type Synonym struct {
	Canonical string
	Aliases   []string
}

// SynonymTable is an ordered list of synonyms. Order matters: aliases of
// several matching entries are appended in table order.
type SynonymTable []Synonym

// NewSynonymTable builds a table from a map, sorting canonical phrases so
// the result does not depend on map iteration order. Keys and aliases are
// lower-cased; blank ones are dropped.
func NewSynonymTable(m map[string][]string) SynonymTable {
	normalized := make(map[string][]string, len(m))
	for k, vs := range m {
		canonical := strings.ToLower(strings.TrimSpace(k))
		if canonical == "" {
			continue
		}
		for _, a := range vs {
			a = strings.ToLower(strings.TrimSpace(a))
			if a != "" {
				normalized[canonical] = append(normalized[canonical], a)
			}
		}
	}

	keys := make([]string, 0, len(normalized))
	for k := range normalized {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	table := make(SynonymTable, 0, len(keys))
	for _, k := range keys {
		table = append(table, Synonym{Canonical: k, Aliases: normalized[k]})
	}
	return table
}

// Merge returns t followed by the entries of other. Entries of other with a
// canonical phrase already in t extend that entry instead of duplicating it.
func (t SynonymTable) Merge(other SynonymTable) SynonymTable {
	out := make(SynonymTable, 0, len(t)+len(other))
	pos := make(map[string]int, len(t)+len(other))
	for _, s := range append(append(SynonymTable{}, t...), other...) {
		if i, ok := pos[s.Canonical]; ok {
			merged := append([]string{}, out[i].Aliases...)
			out[i].Aliases = append(merged, s.Aliases...)
			continue
		}
		pos[s.Canonical] = len(out)
		out = append(out, Synonym{Canonical: s.Canonical, Aliases: append([]string{}, s.Aliases...)})
	}
	return out
}

// Map converts the table back into its map form.
func (t SynonymTable) Map() map[string][]string {
	m := make(map[string][]string, len(t))
	for _, s := range t {
		m[s.Canonical] = append([]string{}, s.Aliases...)
	}
	return m
}

// CountryAliases are common alternative names for country labels as they
// appear in ISO style country pickers.
var CountryAliases = NewSynonymTable(map[string][]string{
	"united kingdom":                         {"uk", "great britain", "england", "britain"},
	"united states":                          {"usa", "america", "us"},
	"netherlands":                            {"holland"},
	"korea, republic of":                     {"south korea"},
	"korea, democratic people's republic of": {"north korea"},
	"russian federation":                     {"russia"},
	"viet nam":                               {"vietnam"},
	"taiwan, province of china":              {"taiwan"},
	"syrian arab republic":                   {"syria"},
	"moldova, republic of":                   {"moldova"},
	"iran, islamic republic of":              {"iran"},
	"tanzania, united republic of":           {"tanzania"},
	"venezuela, bolivarian republic of":      {"venezuela"},
	"bolivia, plurinational state of":        {"bolivia"},
	"lao people's democratic republic":       {"laos"},
	"brunei darussalam":                      {"brunei"},
	"cabo verde":                             {"cape verde"},
	"czechia":                                {"czech republic"},
	"eswatini":                               {"swaziland"},
	"north macedonia":                        {"macedonia"},
	"myanmar":                                {"burma"},
	"holy see":                               {"vatican"},
	"united arab emirates":                   {"uae"},
})
