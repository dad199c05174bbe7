package server

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/listpick/internal/logger"
	"github.com/bastiangx/listpick/internal/utils"
	"github.com/bastiangx/listpick/pkg/choices"
	"github.com/bastiangx/listpick/pkg/config"
	"github.com/bastiangx/listpick/pkg/index"
	"github.com/bastiangx/listpick/pkg/picker"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the IPC for attached option lists
type Server struct {
	config     *config.Config
	configPath string
	base       picker.Config

	mu      sync.Mutex
	pickers map[string]*picker.Picker

	wmu     sync.Mutex
	decoder *msgpack.Decoder
	encoder *msgpack.Encoder

	requestCount int
}

// NewServer creates a server using stdin/stdout for IPC.
func NewServer(cfg *config.Config, configPath string) (*Server, error) {
	return NewServerWithIO(cfg, configPath, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server reading requests from r and writing
// responses to w.
func NewServerWithIO(cfg *config.Config, configPath string, r io.Reader, w io.Writer) (*Server, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	base, err := cfg.PickerConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	return &Server{
		config:     cfg,
		configPath: configPath,
		base:       base,
		pickers:    make(map[string]*picker.Picker),
		decoder:    msgpack.NewDecoder(r),
		encoder:    msgpack.NewEncoder(w),
	}, nil
}

// Start writes the ready status and serves requests until the input ends.
func (s *Server) Start() error {
	log.Debug("Starting Server.")
	s.send(Response{Status: StatusReady})

	for {
		raw, err := s.decoder.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Debugf("Input closed after %d requests", s.requestCount)
				return nil
			}
			log.Errorf("Reading request: %v", err)
			return err
		}
		s.requestCount++

		var req Request
		if err := msgpack.Unmarshal(raw, &req); err != nil {
			log.Errorf("Unmarshaling request: %v", err)
			s.send(Response{Status: StatusError, Error: "invalid msgpack request"})
			continue
		}
		s.handleRequest(req)
	}
}

// Attach creates or replaces the picker for handle. It is used by the
// request handler and by hosts preloading a list before Start.
func (s *Server) Attach(handle string, items []picker.Item, selected int, cfg picker.Config) *picker.Picker {
	p := picker.Attach(items, selected, cfg, picker.WithLogger(logger.New(handle)))
	p.OnChange(func(c picker.Change) {
		s.send(Event{
			Type:     EventChange,
			Handle:   handle,
			ID:       c.Option.ID,
			Label:    c.Option.Label,
			Value:    c.Option.Value,
			Previous: c.Previous,
		})
	})

	s.mu.Lock()
	old := s.pickers[handle]
	s.pickers[handle] = p
	s.mu.Unlock()

	if old != nil {
		old.Detach()
		log.Debugf("Replaced attachment %q", handle)
	}
	return p
}

// Detach drops the picker for handle.
func (s *Server) Detach(handle string) error {
	s.mu.Lock()
	p, ok := s.pickers[handle]
	delete(s.pickers, handle)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownHandle, handle)
	}
	p.Detach()
	return nil
}

// Handles returns the attached handles in lexical order.
func (s *Server) Handles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.pickers))
	for h := range s.pickers {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}

func (s *Server) picker(handle string) (*picker.Picker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pickers[handle]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownHandle, handle)
	}
	return p, nil
}

func (s *Server) handleRequest(req Request) {
	start := time.Now()
	resp, err := s.dispatch(req)
	if err != nil {
		log.Debugf("Request %s (%s) failed: %v", req.ID, req.Action, err)
		s.send(Response{ID: req.ID, Status: StatusError, Error: err.Error(), Handle: req.Handle})
		return
	}
	resp.ID = req.ID
	resp.Status = StatusOK
	resp.Handle = req.Handle
	resp.TimeTaken = time.Since(start).Microseconds()
	s.send(resp)
}

func (s *Server) dispatch(req Request) (Response, error) {
	switch req.Action {
	case "health":
		return Response{}, nil
	case "attach":
		return s.handleAttach(req)
	case "load":
		return s.handleLoad(req)
	case "config":
		return s.handleConfig(req)
	}

	if req.Action == "" {
		return Response{}, errors.New("missing 'action' field")
	}
	if req.Handle == "" {
		return Response{}, errors.New("missing 'handle' field")
	}
	if req.Action == "detach" {
		return Response{}, s.Detach(req.Handle)
	}

	p, err := s.picker(req.Handle)
	if err != nil {
		return Response{}, err
	}

	switch req.Action {
	case "rebuild":
		p.Rebuild(req.Options, selectedOf(req))
		return Response{Stats: p.Stats(), State: stateOf(p)}, nil
	case "resolve":
		return s.handleResolve(p, req)
	case "filter":
		return s.handleFilter(p, req)
	case "complete":
		return s.handleComplete(p, req)
	case "key":
		handled := p.HandleKey(picker.KeyEvent{Key: req.Key, Ctrl: req.Ctrl, Alt: req.Alt, Meta: req.Meta})
		return Response{Handled: handled, State: stateOf(p)}, nil
	case "input":
		if err := s.checkQuery(req.Text); err != nil {
			return Response{}, err
		}
		p.Input(req.Text)
		return Response{State: stateOf(p)}, nil
	case "open":
		p.Open()
	case "close":
		p.Close()
	case "toggle":
		p.Toggle()
	case "pick":
		if !p.Pick(req.Position) {
			return Response{}, fmt.Errorf("no candidate at position %d", req.Position)
		}
	case "highlight":
		if !p.Highlight(req.Position) {
			return Response{}, fmt.Errorf("no candidate at position %d", req.Position)
		}
	case "state":
		return Response{State: stateOf(p), Stats: p.Stats()}, nil
	default:
		return Response{}, fmt.Errorf("unknown action: %s", req.Action)
	}
	return Response{State: stateOf(p)}, nil
}

func (s *Server) handleAttach(req Request) (Response, error) {
	if req.Handle == "" {
		return Response{}, errors.New("missing 'handle' field")
	}
	cfg, err := s.attachConfig(req)
	if err != nil {
		return Response{}, err
	}
	p := s.Attach(req.Handle, req.Options, selectedOf(req), cfg)
	log.Debugf("Attached %q: %d options, %s mode", req.Handle, len(req.Options), cfg.Mode)
	return Response{Stats: p.Stats(), State: stateOf(p), Count: len(req.Options)}, nil
}

// handleLoad attaches or rebuilds a handle from an option list file.
func (s *Server) handleLoad(req Request) (Response, error) {
	if req.Handle == "" {
		return Response{}, errors.New("missing 'handle' field")
	}
	if req.File == "" {
		return Response{}, errors.New("missing 'file' field")
	}
	items, err := choices.Load(req.File)
	if err != nil {
		return Response{}, err
	}

	if p, err := s.picker(req.Handle); err == nil {
		p.Rebuild(items, selectedOf(req))
		log.Debugf("Reloaded %q from %s: %d options", req.Handle, req.File, len(items))
		return Response{Stats: p.Stats(), State: stateOf(p), Count: len(items)}, nil
	}

	req.Options = items
	return s.handleAttach(req)
}

// attachConfig applies the per-request overrides to the server defaults.
func (s *Server) attachConfig(req Request) (picker.Config, error) {
	s.mu.Lock()
	cfg := s.base
	s.mu.Unlock()

	if req.Mode != "" {
		mode, err := picker.ParseMode(req.Mode)
		if err != nil {
			return cfg, err
		}
		cfg.Mode = mode
	}
	if req.FilterMode != "" {
		fm, err := index.ParseMatchMode(req.FilterMode)
		if err != nil {
			return cfg, err
		}
		cfg.FilterMode = fm
	}
	if req.TimeoutMs > 0 {
		cfg.BufferTimeout = time.Duration(req.TimeoutMs) * time.Millisecond
	}
	return cfg, nil
}

// handleConfig changes the defaults used by later attachments. With
// persist set the change is also written to the config file.
func (s *Server) handleConfig(req Request) (Response, error) {
	var mode, filterMode *string
	var timeout *int
	if req.Mode != "" {
		mode = &req.Mode
	}
	if req.FilterMode != "" {
		filterMode = &req.FilterMode
	}
	if req.TimeoutMs > 0 {
		timeout = &req.TimeoutMs
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Persist && s.configPath == "" {
		return Response{}, errors.New("no config file to persist to")
	}

	updated := *s.config
	if mode != nil {
		updated.Engine.Mode = *mode
	}
	if filterMode != nil {
		updated.Engine.FilterMode = *filterMode
	}
	if timeout != nil {
		updated.Engine.BufferTimeoutMs = *timeout
	}

	// the file is only written once the new settings are known to load
	base, err := updated.PickerConfig()
	if err != nil {
		return Response{}, err
	}
	if req.Persist {
		if err := updated.Update(s.configPath, mode, filterMode, timeout); err != nil {
			return Response{}, err
		}
	}
	s.config = &updated
	s.base = base
	log.Debugf("Engine defaults now: mode=%s filter=%q timeout=%v", base.Mode, updated.Engine.FilterMode, base.BufferTimeout)
	return Response{}, nil
}

func (s *Server) handleResolve(p *picker.Picker, req Request) (Response, error) {
	if err := s.checkQuery(req.Query); err != nil {
		return Response{}, err
	}
	opt, ok := p.Resolve(req.Query)
	if !ok {
		return Response{}, nil
	}
	return Response{Match: &Candidate{ID: opt.ID, Label: opt.Label, Value: opt.Value, Rank: 1}, Count: 1}, nil
}

func (s *Server) handleFilter(p *picker.Picker, req Request) (Response, error) {
	if err := s.checkQuery(req.Query); err != nil {
		return Response{}, err
	}
	opts := p.Filter(req.Query)
	if limit := s.limit(req.Limit); len(opts) > limit {
		opts = opts[:limit]
	}
	ranks := utils.CreateRankList(len(opts))
	candidates := make([]Candidate, len(opts))
	for i, o := range opts {
		candidates[i] = Candidate{ID: o.ID, Label: o.Label, Value: o.Value, Rank: ranks[i]}
	}
	return Response{Candidates: candidates, Count: len(candidates)}, nil
}

func (s *Server) handleComplete(p *picker.Picker, req Request) (Response, error) {
	if err := s.checkQuery(req.Query); err != nil {
		return Response{}, err
	}
	words := p.Complete(req.Query, s.limit(req.Limit))
	return Response{Completions: words, Count: len(words)}, nil
}

func (s *Server) checkQuery(q string) error {
	s.mu.Lock()
	maxQuery := s.config.Server.MaxQuery
	s.mu.Unlock()
	if maxQuery > 0 && utf8.RuneCountInString(q) > maxQuery {
		return fmt.Errorf("query exceeds maximum length of %d characters", maxQuery)
	}
	return nil
}

// limit clamps a requested result count to the configured maximum.
func (s *Server) limit(requested int) int {
	s.mu.Lock()
	maxCandidates := s.config.Server.MaxCandidates
	s.mu.Unlock()
	if maxCandidates <= 0 {
		maxCandidates = 64
	}
	if requested < 1 || requested > maxCandidates {
		return maxCandidates
	}
	return requested
}

// send encodes one message. Events and responses may come from different
// goroutines, so writes are serialised.
func (s *Server) send(msg any) {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	if err := s.encoder.Encode(msg); err != nil {
		log.Errorf("Encoding message: %v", err)
	}
}

func selectedOf(req Request) int {
	if req.Selected == nil {
		return -1
	}
	return *req.Selected
}

func stateOf(p *picker.Picker) *picker.State {
	st := p.State()
	return &st
}
