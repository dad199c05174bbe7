package picker

import (
	"testing"

	"github.com/bastiangx/listpick/pkg/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidates(n int) []index.Option {
	out := make([]index.Option, n)
	for i := range out {
		out[i] = index.Option{ID: i}
	}
	return out
}

func TestSelection_OpenClose(t *testing.T) {
	s := NewSelection()
	assert.False(t, s.IsOpen())
	assert.Equal(t, -1, s.Highlighted())

	s.Open(candidates(3))
	assert.True(t, s.IsOpen())
	assert.Equal(t, 0, s.Highlighted())
	assert.Equal(t, 3, s.Len())

	s.Close()
	assert.False(t, s.IsOpen())
	assert.Equal(t, -1, s.Highlighted())
	assert.Equal(t, 0, s.Len())
}

func TestSelection_OpenEmpty(t *testing.T) {
	s := NewSelection()
	s.Open(nil)

	assert.True(t, s.IsOpen())
	assert.Equal(t, -1, s.Highlighted())
	_, ok := s.Current()
	assert.False(t, ok)
}

func TestSelection_MoveClamps(t *testing.T) {
	s := NewSelection()
	s.Open(candidates(5))

	for i := 0; i < 10; i++ {
		s.Move(1)
	}
	assert.Equal(t, 4, s.Highlighted())

	for i := 0; i < 10; i++ {
		s.Move(-1)
	}
	assert.Equal(t, 0, s.Highlighted())
}

func TestSelection_MoveOnEmpty(t *testing.T) {
	s := NewSelection()
	s.Open(nil)

	assert.Equal(t, -1, s.Move(1))
	assert.Equal(t, -1, s.Move(-1))
}

func TestSelection_SetCandidatesResetsHighlight(t *testing.T) {
	s := NewSelection()
	s.Open(candidates(5))
	s.Move(3)
	require.Equal(t, 3, s.Highlighted())

	s.SetCandidates(candidates(2))
	assert.Equal(t, 0, s.Highlighted())

	s.SetCandidates(nil)
	assert.Equal(t, -1, s.Highlighted())
}

func TestSelection_Highlight(t *testing.T) {
	s := NewSelection()
	s.Open(candidates(3))

	assert.True(t, s.Highlight(2))
	assert.Equal(t, 2, s.Highlighted())
	assert.False(t, s.Highlight(3))
	assert.False(t, s.Highlight(-1))
	assert.Equal(t, 2, s.Highlighted())

	opt, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, 2, opt.ID)
}

func TestSelection_CandidatesIsCopy(t *testing.T) {
	s := NewSelection()
	s.Open(candidates(2))

	c := s.Candidates()
	c[0].ID = 99

	opt, _ := s.At(0)
	assert.Equal(t, 0, opt.ID)
}
