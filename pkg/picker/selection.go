package picker

import "github.com/bastiangx/listpick/pkg/index"

// Selection is the open/closed state of a search surface and the highlighted
// row of its candidate list. It is not safe for concurrent use; Picker
// guards it.
type Selection struct {
	open        bool
	candidates  []index.Option
	highlighted int
}

// NewSelection returns a closed selection with nothing highlighted.
func NewSelection() *Selection {
	return &Selection{highlighted: -1}
}

// Open shows candidates.
func (s *Selection) Open(candidates []index.Option) {
	s.open = true
	s.SetCandidates(candidates)
}

// Close hides the surface and drops its candidates.
func (s *Selection) Close() {
	s.open = false
	s.candidates = nil
	s.highlighted = -1
}

// SetCandidates replaces the candidate list. The highlight goes back to the
// first row, or -1 when the list is empty.
func (s *Selection) SetCandidates(candidates []index.Option) {
	s.candidates = candidates
	if len(candidates) == 0 {
		s.highlighted = -1
		return
	}
	s.highlighted = 0
}

// Move shifts the highlight by delta, clamped to the candidate list, and
// returns the new position.
func (s *Selection) Move(delta int) int {
	n := len(s.candidates)
	if n == 0 {
		s.highlighted = -1
		return -1
	}
	pos := s.highlighted + delta
	if pos < 0 {
		pos = 0
	}
	if pos > n-1 {
		pos = n - 1
	}
	s.highlighted = pos
	return pos
}

// Highlight moves the highlight to pos if it is a valid row.
func (s *Selection) Highlight(pos int) bool {
	if pos < 0 || pos >= len(s.candidates) {
		return false
	}
	s.highlighted = pos
	return true
}

// Current returns the highlighted candidate.
func (s *Selection) Current() (index.Option, bool) {
	return s.At(s.highlighted)
}

// At returns the candidate at row pos.
func (s *Selection) At(pos int) (index.Option, bool) {
	if pos < 0 || pos >= len(s.candidates) {
		return index.Option{}, false
	}
	return s.candidates[pos], true
}

func (s *Selection) IsOpen() bool     { return s.open }
func (s *Selection) Highlighted() int { return s.highlighted }
func (s *Selection) Len() int         { return len(s.candidates) }

// Candidates returns a copy of the candidate list.
func (s *Selection) Candidates() []index.Option {
	out := make([]index.Option, len(s.candidates))
	copy(out, s.candidates)
	return out
}
