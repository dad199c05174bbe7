package picker

import (
	"time"

	"github.com/bastiangx/listpick/pkg/index"
)

// DefaultBufferTimeout is the inactivity window after which a buffered
// query is cleared.
const DefaultBufferTimeout = 1500 * time.Millisecond

// Config holds the engine settings of one attachment.
type Config struct {
	Mode Mode
	// FilterMode overrides the match semantics of Resolve and Filter. The
	// zero value keeps strict prefix for Resolve and substring for Filter.
	FilterMode    index.MatchMode
	BufferTimeout time.Duration
	Synonyms      index.SynonymTable
	// StopWords replaces the default stop-word set when non-nil.
	StopWords []string
	// CacheSize bounds the filter cache. Zero selects the default, a
	// negative value disables it.
	CacheSize int
}

// DefaultConfig returns a live-mode configuration with the country alias
// table and the default stop-words.
func DefaultConfig() Config {
	return Config{
		Mode:          ModeLive,
		BufferTimeout: DefaultBufferTimeout,
		Synonyms:      index.CountryAliases,
		CacheSize:     index.DefaultCacheSize,
	}
}

func (c Config) withDefaults() Config {
	if c.BufferTimeout <= 0 {
		c.BufferTimeout = DefaultBufferTimeout
	}
	switch {
	case c.CacheSize == 0:
		c.CacheSize = index.DefaultCacheSize
	case c.CacheSize < 0:
		c.CacheSize = 0
	}
	return c
}

// Tokenizer builds the tokenizer described by c.
func (c Config) Tokenizer() *index.Tokenizer {
	return index.NewTokenizer(c.Synonyms, c.StopWords)
}
