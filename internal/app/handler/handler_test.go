package handler

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// only claims the given key, recording every call in calls.
func only(k string, cmd tea.Cmd, calls *[]string) Handler {
	return func(msg tea.KeyMsg) Result {
		*calls = append(*calls, k)
		if msg.String() != k {
			return NotHandled
		}
		return Handled(cmd)
	}
}

func TestResults(t *testing.T) {
	assert.False(t, NotHandled.Handled)
	assert.True(t, HandledNoCmd.Handled)
	assert.Nil(t, HandledNoCmd.Cmd)

	r := Handled(nil)
	assert.True(t, r.Handled)
	assert.Nil(t, r.Cmd)
}

func TestChain_Empty(t *testing.T) {
	assert.Equal(t, NotHandled, Chain(key("q")))
}

func TestChain_StopsAtFirstClaim(t *testing.T) {
	var calls []string
	quit := func() tea.Msg { return tea.QuitMsg{} }

	r := Chain(key("q"),
		only("?", nil, &calls),
		only("q", quit, &calls),
		only("q", nil, &calls),
	)

	require.True(t, r.Handled)
	require.NotNil(t, r.Cmd)
	assert.IsType(t, tea.QuitMsg{}, r.Cmd())
	assert.Equal(t, []string{"?", "q"}, calls)
}

func TestChain_NobodyClaims(t *testing.T) {
	var calls []string

	r := Chain(key("x"), only("a", nil, &calls), only("b", nil, &calls))

	assert.False(t, r.Handled)
	assert.Nil(t, r.Cmd)
	assert.Equal(t, []string{"a", "b"}, calls)
}
