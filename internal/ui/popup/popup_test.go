package popup

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestCompose_KeepsBaseAroundPopup(t *testing.T) {
	base := strings.Join([]string{
		"aaaaaaaaaa",
		"bbbbbbbbbb",
		"cccccccccc",
	}, "\n")
	over := "\n   XYZ    \n"

	got := strings.Split(Compose(base, over, 10), "\n")

	assert.Equal(t, "aaaaaaaaaa", got[0])
	assert.Equal(t, "bbbXYZbbbb", got[1])
	assert.Equal(t, "cccccccccc", got[2])
}

func TestCompose_PadsShortBase(t *testing.T) {
	got := Compose("ab", "    ZZ", 8)
	assert.Equal(t, "ab  ZZ  ", got)
}

func TestCompose_StyledOverlay(t *testing.T) {
	over := "  \x1b[1mHI\x1b[0m"
	got := Compose("..........", over, 10)
	assert.Equal(t, "..HI......", ansi.Strip(got))
}

func TestCenter(t *testing.T) {
	got := Center("ab\ncd", 6, 4)
	lines := strings.Split(got, "\n")

	assert.Equal(t, "", lines[0])
	assert.Equal(t, "  ab", lines[1])
	assert.Equal(t, "  cd", lines[2])
}

func TestRenderBordered_FitsScreen(t *testing.T) {
	content := strings.Repeat("x", 200)
	out := RenderBordered(content, 60, 20, SizeAuto)
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, ansi.StringWidth(line), 60)
	}
}

func TestMessage(t *testing.T) {
	out := ansi.Strip(Message("Error", "Failed to load songs: boom", "Press any key to dismiss", 0))
	assert.Contains(t, out, "Error")
	assert.Contains(t, out, "Failed to load songs: boom")
	assert.Contains(t, out, "Press any key to dismiss")
}
