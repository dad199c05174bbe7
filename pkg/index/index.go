// Package index is the search core: it builds a reverse index of option
// labels and resolves queries against it.
//
// Tokens are bucketed by their first character. Bucket order is option
// order, then token order inside a label, and it is the tie-break for every
// strict lookup: the earliest entry whose token matches wins. Buckets live in
// a patricia trie keyed by the bucket character; a second trie keyed by the
// full token serves token completion.
//
// An Index is immutable once built. A changed option list needs a new Build;
// there are no incremental updates.
package index

import (
	"github.com/bastiangx/listpick/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Option is one choice of the underlying list. ID is its original position.
type Option struct {
	ID    int    `msgpack:"id" json:"id"`
	Label string `msgpack:"label" json:"label"`
	Value string `msgpack:"value" json:"value"`
}

// Entry is one (token, option) pair inside a bucket.
type Entry struct {
	Token    string
	OptionID int
}

type bucket struct {
	entries []Entry
}

// Index is the reverse index over one captured option set.
type Index struct {
	options     []Option
	searchText  []string
	buckets     *patricia.Trie
	tokens      *patricia.Trie
	tokenCount  int
	bucketCount int
	unreachable []int
	cache       *filterCache
}

// BuildOption customizes Build.
type BuildOption func(*buildSettings)

type buildSettings struct {
	cacheSize int
}

// DefaultCacheSize is the number of filter results kept per index.
const DefaultCacheSize = 256

// WithCacheSize bounds the filter result cache. Zero or less disables it.
func WithCacheSize(n int) BuildOption {
	return func(s *buildSettings) {
		s.cacheSize = n
	}
}

// Build tokenizes every option and returns the finished index. It never
// fails: options that tokenize to nothing are kept in Options but are
// absent from every bucket.
func Build(options []Option, tok *Tokenizer, opts ...BuildOption) *Index {
	settings := buildSettings{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&settings)
	}
	if tok == nil {
		tok = NewTokenizer(nil, nil)
	}

	idx := &Index{
		options:    make([]Option, len(options)),
		searchText: make([]string, len(options)),
		buckets:    patricia.NewTrie(),
		tokens:     patricia.NewTrie(),
		cache:      newFilterCache(settings.cacheSize),
	}

	for i, opt := range options {
		opt.ID = i
		idx.options[i] = opt
		idx.searchText[i] = tok.SearchText(opt.Label)

		toks := tok.Tokenize(opt.Label)
		if len(toks) == 0 {
			idx.unreachable = append(idx.unreachable, i)
			continue
		}
		for _, t := range toks {
			idx.add(Entry{Token: t, OptionID: i})
		}
	}

	log.Debugf("Built index: %d options, %d tokens, %d buckets, %d unreachable",
		len(idx.options), idx.tokenCount, idx.bucketCount, len(idx.unreachable))
	return idx
}

func (idx *Index) add(e Entry) {
	key := patricia.Prefix(utils.FirstRune(e.Token))
	if item := idx.buckets.Get(key); item != nil {
		b := item.(*bucket)
		b.entries = append(b.entries, e)
	} else {
		idx.buckets.Insert(key, &bucket{entries: []Entry{e}})
		idx.bucketCount++
	}

	// The token trie only needs the distinct set of tokens.
	if idx.tokens.Insert(patricia.Prefix(e.Token), e.OptionID) {
		idx.tokenCount++
	}
}

// Lookup returns the bucket for bucketKey in index order. The key must be
// a single character; an empty key is invalid input and yields nil, and a
// missing key yields an empty sequence.
func (idx *Index) Lookup(bucketKey string) []Entry {
	if bucketKey == "" {
		return nil
	}
	entries := idx.entries(bucketKey)
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

func (idx *Index) entries(key string) []Entry {
	if key == "" {
		return nil
	}
	item := idx.buckets.Get(patricia.Prefix(key))
	if item == nil {
		return nil
	}
	return item.(*bucket).entries
}

// Options returns a copy of the captured option set in original order.
func (idx *Index) Options() []Option {
	out := make([]Option, len(idx.options))
	copy(out, idx.options)
	return out
}

// Option returns the option with the given identity.
func (idx *Index) Option(id int) (Option, bool) {
	if id < 0 || id >= len(idx.options) {
		return Option{}, false
	}
	return idx.options[id], true
}

// Len returns the number of captured options.
func (idx *Index) Len() int {
	return len(idx.options)
}

// Unreachable returns the options whose labels produced no tokens. They are
// never returned by Resolve.
func (idx *Index) Unreachable() []Option {
	out := make([]Option, 0, len(idx.unreachable))
	for _, id := range idx.unreachable {
		out = append(out, idx.options[id])
	}
	return out
}

// Stats returns statistics about the index
func (idx *Index) Stats() map[string]int {
	stats := map[string]int{
		"options":     len(idx.options),
		"tokens":      idx.tokenCount,
		"buckets":     idx.bucketCount,
		"unreachable": len(idx.unreachable),
	}
	for k, v := range idx.cache.Stats() {
		stats[k] = v
	}
	return stats
}
