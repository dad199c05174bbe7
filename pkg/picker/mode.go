package picker

import (
	"fmt"
	"strings"
)

// Mode selects how a picker consumes input.
type Mode int

const (
	// ModeLive re-filters a visible candidate list on every change of the
	// full input text.
	ModeLive Mode = iota
	// ModeBuffered collects single keystrokes into a hidden query that is
	// cleared after a period of inactivity, committing the first strict match.
	ModeBuffered
)

func (m Mode) String() string {
	switch m {
	case ModeLive:
		return "live"
	case ModeBuffered:
		return "buffered"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "live" or "buffered". An empty string is live.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "live":
		return ModeLive, nil
	case "buffered":
		return ModeBuffered, nil
	default:
		return ModeLive, fmt.Errorf("unknown picker mode %q", s)
	}
}
