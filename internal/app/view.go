package app

import (
	"strconv"
	"strings"

	"github.com/llehouerou/tunecrate/internal/keymap"
	"github.com/llehouerou/tunecrate/internal/ui/playerbar"
	"github.com/llehouerou/tunecrate/internal/ui/render"
	"github.com/llehouerou/tunecrate/internal/ui/styles"
)

// View renders the application UI.
func (m Model) View() string {
	if m.Width == 0 || m.Height == 0 {
		return ""
	}

	var bar playerbar.State
	if m.playback != nil {
		bar = playerbar.NewState(m.playback)
	}

	view := m.SongList.View() + "\n" +
		playerbar.Render(bar, m.Width) + "\n" +
		m.renderStatus()

	view = m.Popups.RenderOverlay(view)
	return enforceHeight(view, m.Height)
}

func (m Model) renderStatus() string {
	s := styles.T().S()

	count := len(m.SongList.Songs())
	hint := strconv.Itoa(count) + " songs"
	if count == 1 {
		hint = "1 song"
	}
	if help := m.keys.Hint(keymap.ActionHelp, "help"); help != "" {
		hint += " · " + help
	}
	width := max(m.Width-2, 0)
	text := render.TruncateEllipsis(m.Status.Text, max(width-len(hint)-1, 0))

	var left string
	switch m.Status.Kind {
	case StatusError:
		left = s.Error.Render(text)
	case StatusSuccess:
		left = s.Success.Render(text)
	default:
		left = s.Muted.Render(text)
	}
	return " " + render.Row(left, s.Subtle.Render(hint), width)
}

// enforceHeight pads or truncates view to exactly height lines.
func enforceHeight(view string, height int) string {
	lines := strings.Split(strings.TrimSuffix(view, "\n"), "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
