package cli

import (
	"strconv"
	"strings"

	"github.com/bastiangx/listpick/pkg/picker"
)

const helpText = `commands:
  :key <name> [ctrl|alt|meta]  send a key (a, ArrowDown, Enter, Escape, Tab)
  :type <text>                 send the full input text
  :open  :close  :toggle       drive the surface
  :pick <n>  :hl <n>           commit or highlight row n
  :state                       print the selection state
  :stats                       print index statistics`

// runCommand applies one ':' command to the picker and prints the state
// it leaves behind.
func (h *InputHandler) runCommand(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		h.log.Print(helpText)
		return
	}

	switch name, args := fields[0], fields[1:]; name {
	case "help", "h":
		h.log.Print(helpText)
		return
	case "key", "k":
		if len(args) == 0 {
			h.log.Error("key needs a name")
			return
		}
		ev := picker.KeyEvent{Key: args[0]}
		for _, mod := range args[1:] {
			switch mod {
			case "ctrl":
				ev.Ctrl = true
			case "alt":
				ev.Alt = true
			case "meta":
				ev.Meta = true
			}
		}
		h.log.Printf("handled: %v", h.picker.HandleKey(ev))
	case "type", "t":
		h.picker.Input(strings.TrimPrefix(line, name+" "))
	case "open":
		h.picker.Open()
	case "close":
		h.picker.Close()
	case "toggle":
		h.picker.Toggle()
	case "pick", "hl":
		if len(args) != 1 {
			h.log.Errorf("%s needs a row number", name)
			return
		}
		pos, err := strconv.Atoi(args[0])
		if err != nil {
			h.log.Errorf("invalid row %q: %v", args[0], err)
			return
		}
		var ok bool
		if name == "pick" {
			ok = h.picker.Pick(pos)
		} else {
			ok = h.picker.Highlight(pos)
		}
		if !ok {
			h.log.Warnf("no candidate at row %d", pos)
		}
	case "state", "s":
	case "stats":
		stats := h.picker.Stats()
		for _, key := range []string{"options", "tokens", "buckets", "unreachable", "cacheEntries", "cacheHits", "cacheMisses"} {
			h.log.Printf("%-13s %d", key, stats[key])
		}
		return
	default:
		h.log.Errorf("unknown command %q, try :help", name)
		return
	}
	h.printState()
}

func (h *InputHandler) printState() {
	st := h.picker.State()
	sel := "none"
	if opt, ok := h.picker.Selected(); ok {
		sel = opt.Label
	}
	h.log.Printf("[%s] open=%v query=%q committed=%v selected=%s", st.Mode, st.Open, st.Query, st.Committed, sel)
	if !st.Open {
		return
	}
	for i, c := range st.Candidates {
		if h.limit > 0 && i >= h.limit {
			h.log.Printf("    ... %d more", len(st.Candidates)-i)
			break
		}
		marker := "  "
		if i == st.Highlighted {
			marker = "> "
		}
		h.log.Printf("%s%2d. %s", marker, i, labelStyle.Render(c.Label))
	}
}
