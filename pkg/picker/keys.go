package picker

import (
	"unicode/utf8"

	"github.com/bastiangx/listpick/internal/utils"
)

// Named keys understood by HandleKey. Values follow the DOM key names so
// hosts can forward them unchanged.
const (
	KeyArrowDown = "ArrowDown"
	KeyArrowUp   = "ArrowUp"
	KeyEnter     = "Enter"
	KeyEscape    = "Escape"
	KeyTab       = "Tab"
)

// KeyEvent is one key press as reported by the host.
type KeyEvent struct {
	Key  string `msgpack:"key"`
	Ctrl bool   `msgpack:"ctrl,omitempty"`
	Alt  bool   `msgpack:"alt,omitempty"`
	Meta bool   `msgpack:"meta,omitempty"`
}

// Char returns an unmodified key event for r.
func Char(r rune) KeyEvent {
	return KeyEvent{Key: string(r)}
}

// Accepts reports whether ev may be appended to a buffered query and
// returns its character. Named keys and modified presses are rejected.
func Accepts(ev KeyEvent) (rune, bool) {
	if ev.Ctrl || ev.Alt || ev.Meta {
		return 0, false
	}
	if !utils.IsSingleRune(ev.Key) {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(ev.Key)
	return r, true
}
