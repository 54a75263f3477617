package songlist

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/tunecrate/internal/catalog"
	"github.com/llehouerou/tunecrate/internal/playback"
	"github.com/llehouerou/tunecrate/internal/ui"
	"github.com/llehouerou/tunecrate/internal/ui/render"
	"github.com/llehouerou/tunecrate/internal/ui/styles"
)

const (
	markerWidth   = 2
	yearWidth     = 4
	durationWidth = 5
	columnGap     = 2
)

var headers = []string{"", "Title", "Artist", "Album", "Year", "Time", "Genre"}

// columnWidths splits the inner width. Title, artist, album and genre share
// what the fixed columns leave.
func columnWidths(inner int) []int {
	fixed := markerWidth + yearWidth + durationWidth + columnGap*(len(headers)-1)
	flex := max(inner-fixed, 4)
	title := flex * 30 / 100
	artist := flex * 25 / 100
	album := flex * 25 / 100
	genre := flex - title - artist - album
	return []int{markerWidth, title, artist, album, yearWidth, durationWidth, genre}
}

// View renders the table inside a rounded panel.
func (m Model) View() string {
	width, height := m.list.Size()
	if width < 4 || height < ui.PanelOverhead {
		return ""
	}
	inner := width - 2
	widths := columnWidths(inner)
	t := styles.T()

	lines := make([]string, 0, height-ui.BorderHeight)
	lines = append(lines,
		t.S().Header.Render(render.Columns(widths, columnGap, headers...)),
		t.S().Subtle.Render(render.Separator(inner)),
	)

	if m.list.Len() == 0 {
		lines = append(lines, t.S().Muted.Render(render.TruncateAndPad(m.emptyText(), inner)))
	} else {
		lines = append(lines, m.rows(widths)...)
	}

	for len(lines) < height-ui.BorderHeight {
		lines = append(lines, strings.Repeat(" ", inner))
	}

	return styles.PanelStyle(m.list.IsFocused()).
		Width(inner).
		Render(strings.Join(lines, "\n"))
}

func (m Model) emptyText() string {
	if m.loading {
		return "Loading songs…"
	}
	return "No songs yet. Press u to upload one."
}

// rows renders the visible songs, one line each.
func (m Model) rows(widths []int) []string {
	start, end := m.list.VisibleRange(ui.PanelOverhead)
	songs := m.list.Items()
	cursor := m.list.SelectedIndex()
	s := styles.T().S()

	out := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		song := songs[i]
		line := render.Columns(widths, columnGap, cells(song, m.marker(song))...)

		var style lipgloss.Style
		switch {
		case i == cursor && m.list.IsFocused():
			style = s.Cursor
			if m.current.IsCurrent(song) {
				style = style.Foreground(styles.T().Primary).Bold(true)
			}
		case m.current.IsCurrent(song):
			style = s.Playing
		default:
			style = s.Base
		}
		out = append(out, style.Render(line))
	}
	return out
}

func cells(song catalog.Song, marker string) []string {
	return []string{marker, song.Title, song.Artist, song.Album, song.Year, song.Duration, song.Genre}
}

// marker is the state glyph shown in front of the current song.
func (m Model) marker(song catalog.Song) string {
	if !m.current.IsCurrent(song) {
		return ""
	}
	switch m.state {
	case playback.StatePlaying:
		return "▶"
	case playback.StatePaused:
		return "⏸"
	case playback.StateLoading:
		return "…"
	case playback.StateStopped:
		return "■"
	}
	return ""
}
