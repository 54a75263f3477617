package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver([]Binding{
		{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
		{ActionPlayPause, []string{" "}, "Play/pause", "playback"},
		{ActionMoveUp, []string{"k", "up"}, "Move up", "songs"},
		{ActionStop, []string{"k"}, "Stop", "playback"},
	})

	assert.Equal(t, ActionQuit, r.Resolve("ctrl+c"))
	assert.Equal(t, ActionPlayPause, r.Resolve(" "))
	assert.Equal(t, ActionMoveUp, r.Resolve("up"))
	assert.Equal(t, ActionStop, r.Resolve("k"), "last binding wins")
	assert.Empty(t, r.Resolve("unknown"))
	assert.Empty(t, r.Resolve(""))
}

func TestForContexts_SeparatesEnter(t *testing.T) {
	main := ForContexts("global", "playback", "songs")
	form := ForContexts("upload")

	assert.Equal(t, ActionSelect, main.Resolve("enter"))
	assert.Equal(t, ActionPlayPause, main.Resolve(" "))
	assert.Equal(t, ActionLoadFile, form.Resolve("enter"))
	assert.Empty(t, form.Resolve("q"))
}

func TestForContexts_LeavesBindingsUntouched(t *testing.T) {
	before := len(Bindings)
	ForContexts("upload")
	assert.Len(t, Bindings, before)
	assert.Equal(t, ActionQuit, Bindings[0].Action)
}

func TestResolver_Hints(t *testing.T) {
	r := NewResolver([]Binding{
		{ActionDelete, []string{"d", "delete"}, "Delete", "songs"},
		{ActionDelete, []string{"d"}, "Delete", "global"},
		{ActionPlayPause, []string{" "}, "Play/pause", "playback"},
	})

	assert.Equal(t, "d delete", r.Hint(ActionDelete, "delete"))
	assert.Equal(t, "space play", r.Hint(ActionPlayPause, "play"))
	assert.Empty(t, r.Hint(ActionQuit, "quit"))

	got := r.Hints(
		HintItem{ActionPlayPause, "play"},
		HintItem{ActionQuit, "quit"},
		HintItem{ActionDelete, "delete"},
	)
	assert.Equal(t, "space play · d delete", got)
}
