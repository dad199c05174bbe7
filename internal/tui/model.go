// Package tui is an interactive terminal front end for one attached option
// list, used to try the picker modes by hand.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/bastiangx/listpick/pkg/picker"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const tickInterval = 200 * time.Millisecond

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75"))
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

type tickMsg time.Time

// Model is the bubbletea model wrapping a picker.
type Model struct {
	picker   *picker.Picker
	input    textinput.Model
	limit    int
	width    int
	quitting bool
}

// New creates a model showing at most limit candidates.
func New(p *picker.Picker, limit int) Model {
	ti := textinput.New()
	ti.Placeholder = "type to search..."
	ti.CharLimit = 100
	ti.Width = 40
	ti.Focus()

	if limit <= 0 {
		limit = 10
	}
	return Model{picker: p, input: ti, limit: limit, width: 80}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.picker.Mode() == picker.ModeBuffered {
		return tickCmd()
	}
	return textinput.Blink
}

// The query buffer clears itself on a timer, so buffered mode re-renders
// periodically to show it.
func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tickMsg:
		return m, tickCmd()
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		if m.picker.Mode() == picker.ModeBuffered {
			return m.handleBufferedKey(msg)
		}
		return m.handleLiveKey(msg)
	}
	return m, nil
}

func (m Model) handleBufferedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc && m.picker.Buffer() == "" {
		m.quitting = true
		return m, tea.Quit
	}
	ev, ok := keyEvent(msg)
	if !ok {
		return m, nil
	}
	m.picker.HandleKey(ev)
	if msg.Type == tea.KeyEnter && m.picker.DisplayText() != "" {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleLiveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if !m.picker.State().Open {
			m.quitting = true
			return m, tea.Quit
		}
		m.picker.HandleKey(picker.KeyEvent{Key: picker.KeyEscape})
		m.input.SetValue("")
		return m, nil
	case tea.KeyUp, tea.KeyDown, tea.KeyTab:
		ev, _ := keyEvent(msg)
		m.picker.HandleKey(ev)
		return m, nil
	case tea.KeyEnter:
		m.picker.HandleKey(picker.KeyEvent{Key: picker.KeyEnter})
		if st := m.picker.State(); st.Committed && !st.Open {
			m.input.SetValue("")
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.picker.Input(after)
	}
	return m, cmd
}

// keyEvent translates a terminal key into a picker key event.
func keyEvent(msg tea.KeyMsg) (picker.KeyEvent, bool) {
	switch msg.Type {
	case tea.KeyUp:
		return picker.KeyEvent{Key: picker.KeyArrowUp}, true
	case tea.KeyDown:
		return picker.KeyEvent{Key: picker.KeyArrowDown}, true
	case tea.KeyEnter:
		return picker.KeyEvent{Key: picker.KeyEnter}, true
	case tea.KeyEsc:
		return picker.KeyEvent{Key: picker.KeyEscape}, true
	case tea.KeyTab:
		return picker.KeyEvent{Key: picker.KeyTab}, true
	case tea.KeySpace:
		return picker.KeyEvent{Key: " ", Alt: msg.Alt}, true
	case tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return picker.KeyEvent{}, false
		}
		return picker.KeyEvent{Key: string(msg.Runes), Alt: msg.Alt}, true
	}
	if name, ok := strings.CutPrefix(msg.String(), "ctrl+"); ok {
		return picker.KeyEvent{Key: name, Ctrl: true}, true
	}
	return picker.KeyEvent{}, false
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		if label := m.picker.DisplayText(); label != "" {
			return fmt.Sprintf("selected: %s\n", label)
		}
		return ""
	}

	st := m.picker.State()
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("listpick [%s]", st.Mode)))
	b.WriteString("\n\n")

	if st.Mode == picker.ModeBuffered.String() {
		b.WriteString("query: " + st.Query + "\n")
	} else {
		b.WriteString(m.input.View() + "\n")
	}

	if st.Open {
		start, end := window(len(st.Candidates), st.Highlighted, m.limit)
		if start > 0 {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  ... %d above", start)) + "\n")
		}
		for i := start; i < end; i++ {
			c := st.Candidates[i]
			if i == st.Highlighted {
				b.WriteString(highlightStyle.Render("> "+c.Label) + "\n")
				continue
			}
			b.WriteString("  " + c.Label + "\n")
		}
		if rest := len(st.Candidates) - end; rest > 0 {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  ... %d more", rest)) + "\n")
		}
		if len(st.Candidates) == 0 {
			b.WriteString(dimStyle.Render("  no matches") + "\n")
		}
	}

	b.WriteString("\n")
	if label := m.picker.DisplayText(); label != "" {
		b.WriteString(selectedStyle.Render("selected: "+label) + "\n")
	}
	b.WriteString(dimStyle.Render(m.help(st.Mode)))
	return b.String()
}

// window returns the [start, end) rows of n candidates to show so that the
// highlighted row stays visible.
func window(n, highlighted, limit int) (int, int) {
	if n <= limit {
		return 0, n
	}
	start := 0
	if highlighted >= limit {
		start = highlighted - limit + 1
	}
	return start, start + limit
}

func (m Model) help(mode string) string {
	if mode == picker.ModeBuffered.String() {
		return "type to jump, enter choose, esc quits"
	}
	return "↑/↓ move, enter choose, esc close or quit"
}
