package tui

import (
	"testing"

	"github.com/bastiangx/listpick/pkg/picker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func newModel(mode picker.Mode) (Model, *picker.Picker) {
	cfg := picker.DefaultConfig()
	cfg.Mode = mode
	p := picker.Attach([]picker.Item{
		{Label: "Albania", Value: "AL"},
		{Label: "Algeria", Value: "DZ"},
		{Label: "Austria", Value: "AT"},
	}, -1, cfg)
	return New(p, 2), p
}

func send(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_LiveTypingFilters(t *testing.T) {
	m, p := newModel(picker.ModeLive)
	m, _ = send(t, m, runes("i"), runes("a"))

	st := p.State()
	assert.True(t, st.Open)
	assert.Equal(t, "ia", st.Query)
	assert.Len(t, st.Candidates, 3)

	view := m.View()
	assert.Contains(t, view, "Albania")
	assert.Contains(t, view, "... 1 more")
}

func TestModel_LiveChooseWithArrowAndEnter(t *testing.T) {
	m, p := newModel(picker.ModeLive)
	m, _ = send(t, m, runes("i"), runes("a"), tea.KeyMsg{Type: tea.KeyDown})
	assert.Contains(t, m.View(), "> Algeria")

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Equal(t, "Algeria", p.DisplayText())
	assert.False(t, p.State().Open)
	assert.Empty(t, m.input.Value())
	assert.Contains(t, m.View(), "selected: Algeria")
}

func TestModel_LiveWindowFollowsHighlight(t *testing.T) {
	m, _ := newModel(picker.ModeLive)
	m, _ = send(t, m, runes("i"), runes("a"), tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})

	view := m.View()
	assert.Contains(t, view, "... 1 above")
	assert.Contains(t, view, "> Austria")
	assert.NotContains(t, view, "more")
}

func TestModel_LiveEnterWithoutCandidates(t *testing.T) {
	m, p := newModel(picker.ModeLive)
	m, cmd := send(t, m, runes("z"), tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.False(t, m.quitting)
	assert.True(t, p.State().Open)
	assert.Contains(t, m.View(), "no matches")
}

func TestModel_LiveEscapeClosesThenQuits(t *testing.T) {
	m, p := newModel(picker.ModeLive)
	m, cmd := send(t, m, runes("a"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.False(t, p.State().Open)
	assert.Empty(t, m.input.Value())

	m, cmd = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())
}

func TestModel_BufferedTypeAhead(t *testing.T) {
	m, p := newModel(picker.ModeBuffered)
	require.NotNil(t, m.Init())

	m, _ = send(t, m, runes("a"), runes("u"))
	assert.Equal(t, "Austria", p.DisplayText())
	assert.Contains(t, m.View(), "query: au")

	_, cmd := send(t, m, tickMsg{})
	assert.NotNil(t, cmd)

	m, cmd = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.Empty(t, p.Buffer())

	m, cmd = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.NotNil(t, cmd)
	assert.Contains(t, m.View(), "selected: Austria")
}

func TestModel_BufferedEnterChooses(t *testing.T) {
	m, p := newModel(picker.ModeBuffered)
	m, cmd := send(t, m, runes("a"), runes("l"), runes("g"), tea.KeyMsg{Type: tea.KeyEnter})

	assert.NotNil(t, cmd)
	assert.Equal(t, "Algeria", p.DisplayText())
	assert.Equal(t, "selected: Algeria\n", m.View())
}

func TestWindow(t *testing.T) {
	tests := []struct {
		n, highlighted, limit int
		start, end            int
	}{
		{3, 0, 5, 0, 3},
		{10, 0, 3, 0, 3},
		{10, 2, 3, 0, 3},
		{10, 3, 3, 1, 4},
		{10, 9, 3, 7, 10},
		{10, -1, 3, 0, 3},
	}
	for _, tt := range tests {
		start, end := window(tt.n, tt.highlighted, tt.limit)
		assert.Equal(t, tt.start, start, "%+v", tt)
		assert.Equal(t, tt.end, end, "%+v", tt)
	}
}

func TestModel_CtrlCQuits(t *testing.T) {
	m, _ := newModel(picker.ModeLive)
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.NotNil(t, cmd)
	assert.True(t, m.quitting)
}

func TestKeyEvent(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want picker.KeyEvent
		ok   bool
	}{
		{"down", tea.KeyMsg{Type: tea.KeyDown}, picker.KeyEvent{Key: picker.KeyArrowDown}, true},
		{"escape", tea.KeyMsg{Type: tea.KeyEsc}, picker.KeyEvent{Key: picker.KeyEscape}, true},
		{"rune", runes("k"), picker.KeyEvent{Key: "k"}, true},
		{"alt rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k"), Alt: true}, picker.KeyEvent{Key: "k", Alt: true}, true},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}, picker.KeyEvent{Key: " "}, true},
		{"ctrl", tea.KeyMsg{Type: tea.KeyCtrlA}, picker.KeyEvent{Key: "a", Ctrl: true}, true},
		{"paste", runes("abc"), picker.KeyEvent{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := keyEvent(tt.msg)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
