package index

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bastiangx/listpick/internal/utils"
	"github.com/tchap/go-patricia/v2/patricia"
)

// MatchMode selects how a query is compared with indexed text.
// The zero value means "the operation's native semantics": strict prefix
// for Resolve, wide substring for Filter.
type MatchMode int

const (
	MatchPrefix MatchMode = iota + 1
	MatchSubstring
)

func (m MatchMode) String() string {
	switch m {
	case MatchPrefix:
		return "prefix"
	case MatchSubstring:
		return "substring"
	default:
		return ""
	}
}

// ParseMatchMode parses "prefix" or "substring". An empty string yields the
// zero MatchMode.
func ParseMatchMode(s string) (MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return 0, nil
	case "prefix":
		return MatchPrefix, nil
	case "substring":
		return MatchSubstring, nil
	default:
		return 0, fmt.Errorf("unknown filter mode %q", s)
	}
}

// Resolve returns the first option, in index order, having a token that
// starts with query. An empty query matches nothing.
func (idx *Index) Resolve(query string) (Option, bool) {
	if query == "" {
		return Option{}, false
	}
	q := strings.ToLower(query)
	for _, e := range idx.entries(utils.FirstRune(q)) {
		if strings.HasPrefix(e.Token, q) {
			return idx.options[e.OptionID], true
		}
	}
	return Option{}, false
}

// Filter returns every option whose combined searchable text (label plus
// aliases) contains query, in original option order. An empty query returns
// all options.
func (idx *Index) Filter(query string) []Option {
	q := strings.ToLower(query)
	if q == "" {
		return idx.Options()
	}
	return idx.collect(idx.cached(MatchSubstring, q, idx.scanSubstring))
}

// ResolveMatch is Resolve under an explicit match mode. In substring mode
// the first option of Filter wins.
func (idx *Index) ResolveMatch(query string, mode MatchMode) (Option, bool) {
	if mode != MatchSubstring {
		return idx.Resolve(query)
	}
	q := strings.ToLower(query)
	if q == "" {
		return Option{}, false
	}
	ids := idx.cached(MatchSubstring, q, idx.scanSubstring)
	if len(ids) == 0 {
		return Option{}, false
	}
	return idx.options[ids[0]], true
}

// FilterMatch is Filter under an explicit match mode. In prefix mode every
// option with at least one token starting with query is returned once, in
// option order.
func (idx *Index) FilterMatch(query string, mode MatchMode) []Option {
	if mode != MatchPrefix {
		return idx.Filter(query)
	}
	q := strings.ToLower(query)
	if q == "" {
		return idx.Options()
	}
	return idx.collect(idx.cached(MatchPrefix, q, idx.scanPrefix))
}

// Complete returns the distinct indexed tokens that start with prefix, in
// lexical order. A limit of zero or less returns all of them.
func (idx *Index) Complete(prefix string, limit int) []string {
	lower := strings.ToLower(prefix)
	var out []string
	err := idx.tokens.VisitSubtree(patricia.Prefix(lower), func(p patricia.Prefix, _ patricia.Item) error {
		out = append(out, string(p))
		return nil
	})
	if err != nil {
		return nil
	}
	sort.Strings(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (idx *Index) scanSubstring(q string) []int {
	ids := make([]int, 0)
	for i, text := range idx.searchText {
		if strings.Contains(text, q) {
			ids = append(ids, i)
		}
	}
	return ids
}

// scanPrefix relies on bucket entries being in ascending option order.
func (idx *Index) scanPrefix(q string) []int {
	ids := make([]int, 0)
	last := -1
	for _, e := range idx.entries(utils.FirstRune(q)) {
		if e.OptionID == last || !strings.HasPrefix(e.Token, q) {
			continue
		}
		ids = append(ids, e.OptionID)
		last = e.OptionID
	}
	return ids
}

func (idx *Index) cached(mode MatchMode, q string, scan func(string) []int) []int {
	key := mode.String() + "\x00" + q
	if ids, ok := idx.cache.Get(key); ok {
		return ids
	}
	ids := scan(q)
	idx.cache.Add(key, ids)
	return ids
}

func (idx *Index) collect(ids []int) []Option {
	out := make([]Option, len(ids))
	for i, id := range ids {
		out[i] = idx.options[id]
	}
	return out
}
