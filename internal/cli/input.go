// Package cli handles cmd line input for debugging an attached option list
// in real time.
package cli

import (
	"bufio"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/listpick/internal/logger"
	"github.com/bastiangx/listpick/internal/utils"
	"github.com/bastiangx/listpick/pkg/picker"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	matchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
)

// InputHandler reads queries from the user and prints what the picker
// makes of them. Lines starting with ':' drive the picker directly, see
// runCommand.
type InputHandler struct {
	picker       *picker.Picker
	log          *log.Logger
	maxQuery     int
	limit        int
	requestCount int
	noFilter     bool
}

// NewInputHandler handles initialization of the InputHandler. Output goes
// to out; maxQuery and limit bound the queries and printed candidates.
func NewInputHandler(p *picker.Picker, out io.Writer, maxQuery, limit int, noFilter bool) *InputHandler {
	l := logger.NewWithWriter(out, "")
	l.SetLevel(log.InfoLevel)
	h := &InputHandler{
		picker:   p,
		log:      l,
		maxQuery: maxQuery,
		limit:    limit,
		noFilter: noFilter,
	}
	p.OnChange(func(c picker.Change) {
		h.log.Printf("selected %s (id %d, was %d)", matchStyle.Render(c.Option.Label), c.Option.ID, c.Previous)
	})
	return h
}

// Start begins the interface loop. It returns nil once in is exhausted.
func (h *InputHandler) Start(in io.Reader) error {
	h.log.Print("ListPick CLI [BETA]")
	h.log.Print("type a query and press Enter, :help lists commands (Ctrl+C to exit):")

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		h.handleInput(line)
	}
	log.Debugf("CLI handled %d lines", h.requestCount)
	return scanner.Err()
}

func (h *InputHandler) handleInput(line string) {
	h.requestCount++
	if cmd, ok := strings.CutPrefix(line, ":"); ok {
		h.runCommand(cmd)
		return
	}

	if n := utf8.RuneCountInString(line); h.maxQuery > 0 && n > h.maxQuery {
		h.log.Errorf("Query too long: %d > %d characters", n, h.maxQuery)
		return
	}
	if !h.noFilter {
		if !utils.IsValidQuery(line, h.maxQuery) {
			h.log.Warnf("No results for query: '%s' (filtered out)", line)
			return
		}
	} else {
		log.Debug("Input filtering disabled - passing query through")
	}

	start := time.Now()
	match, ok := h.picker.Resolve(line)
	candidates := h.picker.Filter(line)
	completions := h.picker.Complete(line, h.limit)
	log.Debugf("Took [ %v ] for query '%s'", time.Since(start), line)

	if ok {
		h.log.Printf("strict match: %s (id %d, value %q)", matchStyle.Render(match.Label), match.ID, match.Value)
	} else {
		h.log.Printf("strict match: none")
	}

	if len(candidates) == 0 {
		h.log.Warnf("No candidates for query: '%s'", line)
	} else {
		h.log.Printf("Found %d candidates for '%s':", len(candidates), line)
		for i, c := range candidates {
			if h.limit > 0 && i >= h.limit {
				h.log.Printf("    ... %d more", len(candidates)-i)
				break
			}
			h.log.Printf("%2d. %-40s %s", i+1, labelStyle.Render(c.Label), c.Value)
		}
	}

	if len(completions) > 0 {
		h.log.Printf("tokens: %s", strings.Join(completions, " "))
	}
}
