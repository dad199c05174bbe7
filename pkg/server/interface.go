/*
Package server implements msgpack IPC for list picking services.

The server keeps any number of attached option lists, each one a picker
addressed by a client chosen handle, and drives them with msgpack messages
over stdin/stdout.

# IPC

The server operates on a request response model where clients send
structured messages via stdin and receive responses through stdout. Each
message is one msgpack map with an "id" and an "action":

	{"id": "1", "action": "attach", "handle": "country", "options": [{"label": "Albania", "value": "AL"}]}
	{"id": "2", "action": "filter", "handle": "country", "q": "ia", "l": 10}
	{"id": "3", "action": "key", "handle": "country", "key": "ArrowDown"}

Every response echoes the id and carries a status, "ok" or "error":

	{"id": "2", "status": "ok", "candidates": [{"id": 1, "label": "Albania", "value": "AL", "r": 1}], "c": 1, "t": 12}

A commit caused by a request is pushed as an event before that request's
response, so hosts can update the underlying list the same way a change
notification would:

	{"type": "change", "handle": "country", "id": 1, "label": "Albania", "value": "AL", "previous": -1}

Clients tell events from responses by the "type" field.

# Actions

health, attach, load, detach, rebuild, resolve, filter, complete, key,
input, open, close, toggle, pick, highlight, state and config. load reads
the option list from a file on the server side, attaching the handle or
rebuilding it when it already exists. Transitions answer
with the picker state; queries answer with matches and timing in
microseconds.
*/
package server

import (
	"errors"

	"github.com/bastiangx/listpick/pkg/picker"
)

// ErrUnknownHandle is returned for requests naming a handle that is not
// attached.
var ErrUnknownHandle = errors.New("unknown handle")

// Request is one client message. Which fields are read depends on Action.
type Request struct {
	ID         string        `msgpack:"id"`
	Action     string        `msgpack:"action"`
	Handle     string        `msgpack:"handle,omitempty"`
	Options    []picker.Item `msgpack:"options,omitempty"`
	File       string        `msgpack:"file,omitempty"`
	Selected   *int          `msgpack:"selected,omitempty"`
	Mode       string        `msgpack:"mode,omitempty"`
	FilterMode string        `msgpack:"filter_mode,omitempty"`
	TimeoutMs  int           `msgpack:"timeout_ms,omitempty"`
	Query      string        `msgpack:"q,omitempty"`
	Text       string        `msgpack:"text,omitempty"`
	Limit      int           `msgpack:"l,omitempty"`
	Key        string        `msgpack:"key,omitempty"`
	Ctrl       bool          `msgpack:"ctrl,omitempty"`
	Alt        bool          `msgpack:"alt,omitempty"`
	Meta       bool          `msgpack:"meta,omitempty"`
	Position   int           `msgpack:"position,omitempty"`
	Persist    bool          `msgpack:"persist,omitempty"`
}

// Candidate is one ranked match.
type Candidate struct {
	ID    int    `msgpack:"id"`
	Label string `msgpack:"label"`
	Value string `msgpack:"value"`
	Rank  uint16 `msgpack:"r"`
}

// Response answers one request.
type Response struct {
	ID          string         `msgpack:"id"`
	Status      string         `msgpack:"status"`
	Error       string         `msgpack:"error,omitempty"`
	Handle      string         `msgpack:"handle,omitempty"`
	Match       *Candidate     `msgpack:"match,omitempty"`
	Candidates  []Candidate    `msgpack:"candidates,omitempty"`
	Completions []string       `msgpack:"completions,omitempty"`
	Count       int            `msgpack:"c"`
	Handled     bool           `msgpack:"handled,omitempty"`
	State       *picker.State  `msgpack:"state,omitempty"`
	Stats       map[string]int `msgpack:"stats,omitempty"`
	TimeTaken   int64          `msgpack:"t"`
}

// Event is an unsolicited message.
type Event struct {
	Type     string `msgpack:"type"`
	Handle   string `msgpack:"handle"`
	ID       int    `msgpack:"id"`
	Label    string `msgpack:"label"`
	Value    string `msgpack:"value"`
	Previous int    `msgpack:"previous"`
}

const (
	StatusReady = "ready"
	StatusOK    = "ok"
	StatusError = "error"

	EventChange = "change"
)
