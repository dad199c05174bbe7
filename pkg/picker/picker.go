// Package picker drives a search surface over one attached option list.
//
// A Picker owns the index, the query buffer and the selection state of a
// single attachment. Hosts forward their events to its transition methods
// (HandleKey, Input, Open, Pick, ...) and learn about committed choices
// through change observers.
package picker

import (
	"sync"

	"github.com/bastiangx/listpick/pkg/index"
	"github.com/charmbracelet/log"
)

// Item is one (label, value) pair of the underlying list.
type Item struct {
	Label string `msgpack:"label" toml:"label" yaml:"label" json:"label"`
	Value string `msgpack:"value" toml:"value" yaml:"value" json:"value"`
}

// Change is emitted once per commit. Previous is the identity selected
// before the commit, or -1.
//
// In buffered mode a type-ahead match of the option that is already
// selected commits silently: no Change is emitted for it.
type Change struct {
	Option   index.Option
	Previous int
}

// State is a snapshot of the selection state.
type State struct {
	Mode        string         `msgpack:"mode"`
	Open        bool           `msgpack:"open"`
	Highlighted int            `msgpack:"highlighted"`
	Query       string         `msgpack:"query"`
	Candidates  []index.Option `msgpack:"candidates"`
	Committed   bool           `msgpack:"committed"`
	Selected    int            `msgpack:"selected"`
}

// Option customizes Attach.
type Option func(*Picker)

// WithObserver registers f as a change observer.
func WithObserver(f func(Change)) Option {
	return func(p *Picker) {
		p.observers = append(p.observers, f)
	}
}

// WithScheduler replaces the timer source of the query buffer.
func WithScheduler(s Scheduler) Option {
	return func(p *Picker) {
		p.schedule = s
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(p *Picker) {
		p.log = l
	}
}

// Picker is the engine instance of one attached list. It is safe for
// concurrent use; each method is one atomic transition.
type Picker struct {
	mu        sync.Mutex
	cfg       Config
	tok       *index.Tokenizer
	idx       *index.Index
	agg       *Aggregator
	sel       *Selection
	selected  int
	committed bool
	detached  bool
	observers []func(Change)
	schedule  Scheduler
	log       *log.Logger
}

// Attach captures items, builds the index and returns the engine for them.
// selected is the currently selected position, or -1.
func Attach(items []Item, selected int, cfg Config, opts ...Option) *Picker {
	p := &Picker{
		cfg: cfg.withDefaults(),
		sel: NewSelection(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = log.Default().WithPrefix("picker")
	}

	p.tok = p.cfg.Tokenizer()
	p.agg = NewAggregator(p.cfg.BufferTimeout, p.schedule)
	p.agg.OnReset(func(buf string) {
		p.log.Debugf("Query buffer %q cleared after %v", buf, p.cfg.BufferTimeout)
	})
	p.rebuildLocked(items, selected)
	return p
}

// Rebuild replaces the option set. The index is rebuilt in full and, when
// the surface is open, the current query is filtered again against it
// before the method returns.
func (p *Picker) Rebuild(items []Item, selected int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.detached {
		return
	}
	p.rebuildLocked(items, selected)
	if p.sel.IsOpen() && p.cfg.Mode == ModeLive {
		p.sel.SetCandidates(p.idx.FilterMatch(p.agg.Buffer(), p.cfg.FilterMode))
	} else {
		p.agg.Reset()
	}
}

func (p *Picker) rebuildLocked(items []Item, selected int) {
	options := make([]index.Option, len(items))
	for i, it := range items {
		options[i] = index.Option{ID: i, Label: it.Label, Value: it.Value}
	}
	p.idx = index.Build(options, p.tok, index.WithCacheSize(p.cfg.CacheSize))
	if selected < 0 || selected >= len(options) {
		selected = -1
	}
	p.selected = selected
	p.log.Debugf("Indexed %d options (%s mode)", len(options), p.cfg.Mode)
}

// Detach stops the pending timer, drops the index and all observers. The
// picker stays usable but holds no options.
func (p *Picker) Detach() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.agg.Reset()
	p.sel.Close()
	p.idx = index.Build(nil, p.tok, index.WithCacheSize(0))
	p.selected = -1
	p.observers = nil
	p.detached = true
}

// OnChange registers an observer for commits.
func (p *Picker) OnChange(f func(Change)) {
	p.mu.Lock()
	p.observers = append(p.observers, f)
	p.mu.Unlock()
}

// Resolve returns the single best match for query.
func (p *Picker) Resolve(query string) (index.Option, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.idx.ResolveMatch(query, p.cfg.FilterMode)
}

// Filter returns every option matching query in list order.
func (p *Picker) Filter(query string) []index.Option {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.idx.FilterMatch(query, p.cfg.FilterMode)
}

// Complete returns indexed tokens starting with prefix.
func (p *Picker) Complete(prefix string, limit int) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.idx.Complete(prefix, limit)
}

// Stats returns the statistics of the current index.
func (p *Picker) Stats() map[string]int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.idx.Stats()
}

// HandleKey applies one key press. It reports whether the key was consumed;
// unconsumed keys should get the host's default behaviour.
func (p *Picker) HandleKey(ev KeyEvent) bool {
	var handled bool
	p.update(func() *Change {
		var ch *Change
		if p.cfg.Mode == ModeBuffered {
			handled, ch = p.bufferedKeyLocked(ev)
		} else {
			handled, ch = p.liveKeyLocked(ev)
		}
		return ch
	})
	return handled
}

func (p *Picker) liveKeyLocked(ev KeyEvent) (bool, *Change) {
	if !p.sel.IsOpen() {
		switch ev.Key {
		case KeyArrowDown, KeyArrowUp, KeyEnter:
			p.openLocked()
			return true, nil
		}
		return false, nil
	}

	switch ev.Key {
	case KeyArrowDown:
		p.sel.Move(1)
		return true, nil
	case KeyArrowUp:
		p.sel.Move(-1)
		return true, nil
	case KeyEnter:
		opt, ok := p.sel.Current()
		if !ok {
			return true, nil
		}
		return true, p.commitLocked(opt)
	case KeyEscape:
		p.closeLocked()
		return true, nil
	case KeyTab:
		p.closeLocked()
		return false, nil
	}
	return false, nil
}

func (p *Picker) bufferedKeyLocked(ev KeyEvent) (bool, *Change) {
	if r, ok := Accepts(ev); ok {
		return true, p.resolveBufferLocked(p.agg.Append(r))
	}
	switch ev.Key {
	case KeyEscape, KeyEnter:
		p.agg.Reset()
	}
	return false, nil
}

// resolveBufferLocked selects the strict match of buf without touching any
// surface. An option that is already selected is not committed again.
func (p *Picker) resolveBufferLocked(buf string) *Change {
	opt, ok := p.idx.ResolveMatch(buf, p.cfg.FilterMode)
	if !ok {
		return nil
	}
	p.committed = true
	if opt.ID == p.selected {
		return nil
	}
	prev := p.selected
	p.selected = opt.ID
	p.log.Debugf("Buffer %q selected %q", buf, opt.Label)
	return &Change{Option: opt, Previous: prev}
}

// Input applies the full current text of the input box. In live mode the
// surface opens if needed and the candidates are filtered again. In
// buffered mode the text is typed into a fresh buffer.
func (p *Picker) Input(text string) {
	p.update(func() *Change {
		if p.cfg.Mode == ModeBuffered {
			p.agg.Reset()
			buf := ""
			for _, r := range text {
				buf = p.agg.Append(r)
			}
			if buf == "" {
				return nil
			}
			return p.resolveBufferLocked(buf)
		}
		if !p.sel.IsOpen() {
			p.openLocked()
		}
		p.agg.Replace(text)
		p.sel.SetCandidates(p.idx.FilterMatch(text, p.cfg.FilterMode))
		return nil
	})
}

// Open shows the surface with the full option list.
func (p *Picker) Open() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.openLocked()
}

// Toggle opens a closed surface and closes an open one.
func (p *Picker) Toggle() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sel.IsOpen() {
		p.closeLocked()
		return
	}
	p.openLocked()
}

// Close hides the surface without changing the selection.
func (p *Picker) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeLocked()
}

func (p *Picker) openLocked() {
	p.agg.Reset()
	p.committed = false
	if p.cfg.Mode == ModeBuffered {
		p.sel.Open(nil)
		return
	}
	p.sel.Open(p.idx.Options())
}

func (p *Picker) closeLocked() {
	p.agg.Reset()
	p.sel.Close()
}

// Pick commits the candidate at row pos of the open surface.
func (p *Picker) Pick(pos int) bool {
	var ok bool
	p.update(func() *Change {
		var opt index.Option
		if opt, ok = p.sel.At(pos); !ok {
			return nil
		}
		return p.commitLocked(opt)
	})
	return ok
}

// Highlight moves the highlight to row pos, as a pointer hover does.
func (p *Picker) Highlight(pos int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sel.Highlight(pos)
}

// Commit selects the option with identity id directly.
func (p *Picker) Commit(id int) bool {
	var ok bool
	p.update(func() *Change {
		var opt index.Option
		if opt, ok = p.idx.Option(id); !ok {
			return nil
		}
		return p.commitLocked(opt)
	})
	return ok
}

func (p *Picker) commitLocked(opt index.Option) *Change {
	prev := p.selected
	p.selected = opt.ID
	p.closeLocked()
	p.committed = true
	p.log.Debugf("Committed %q (id %d)", opt.Label, opt.ID)
	return &Change{Option: opt, Previous: prev}
}

// update runs fn under the lock and notifies observers of its change after
// the lock is released.
func (p *Picker) update(fn func() *Change) {
	p.mu.Lock()
	ch := fn()
	var observers []func(Change)
	if ch != nil {
		observers = append(observers, p.observers...)
	}
	p.mu.Unlock()

	for _, f := range observers {
		f(*ch)
	}
}

// Selected returns the currently selected option of the underlying list.
func (p *Picker) Selected() (index.Option, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.idx.Option(p.selected)
}

// DisplayText is the label a closed input box shows.
func (p *Picker) DisplayText() string {
	opt, ok := p.Selected()
	if !ok {
		return ""
	}
	return opt.Label
}

// State returns a snapshot of the selection state.
func (p *Picker) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return State{
		Mode:        p.cfg.Mode.String(),
		Open:        p.sel.IsOpen(),
		Highlighted: p.sel.Highlighted(),
		Query:       p.agg.Buffer(),
		Candidates:  p.sel.Candidates(),
		Committed:   p.committed,
		Selected:    p.selected,
	}
}

// Buffer returns the current query.
func (p *Picker) Buffer() string {
	return p.agg.Buffer()
}

// Mode returns the consumption mode.
func (p *Picker) Mode() Mode {
	return p.cfg.Mode
}

// Config returns the effective configuration.
func (p *Picker) Config() Config {
	return p.cfg
}
