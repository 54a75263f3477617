// Package playerbar renders the one-line now-playing bar under the song
// list.
package playerbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/tunecrate/internal/playback"
	"github.com/llehouerou/tunecrate/internal/ui"
	"github.com/llehouerou/tunecrate/internal/ui/render"
	"github.com/llehouerou/tunecrate/internal/ui/styles"
)

// Height is the rendered height: top border, content, bottom border.
const Height = 3

// State holds everything needed to render the player bar.
type State struct {
	Title    string
	Artist   string
	Album    string
	State    playback.State
	Position time.Duration
	Duration time.Duration
	Volume   float64
	Muted    bool
}

// Source is what NewState reads. *playback.Session implements it.
type Source interface {
	Selection() playback.Selection
	State() playback.State
	Position() time.Duration
	Duration() time.Duration
	Volume() float64
	Muted() bool
}

// NewState snapshots src. The zero State means nothing is current.
func NewState(src Source) State {
	sel := src.Selection()
	if sel.Song == nil {
		return State{Volume: src.Volume(), Muted: src.Muted()}
	}
	st := State{
		Title:  sel.Song.Title,
		Artist: sel.Song.Artist,
		Album:  sel.Song.Album,
		State:  src.State(),
		Volume: src.Volume(),
		Muted:  src.Muted(),
	}
	if st.State == playback.StatePlaying || st.State == playback.StatePaused {
		st.Position = src.Position()
		st.Duration = src.Duration()
	}
	return st
}

func statusSymbol(s playback.State) string {
	switch s {
	case playback.StatePlaying:
		return "▶"
	case playback.StatePaused:
		return "⏸"
	case playback.StateLoading:
		return "…"
	default:
		return "■"
	}
}

// Render returns the player bar for width columns.
func Render(s State, width int) string {
	t := styles.T()
	sty := t.S()
	innerWidth := max(width-6, 0) // border + padding

	volume := renderVolume(s.Volume, s.Muted)
	volWidth := lipgloss.Width(volume)

	var content string
	if s.Title == "" {
		content = render.Row(sty.Subtle.Render("Nothing playing"), volume, innerWidth)
		return barStyle().Width(max(width-2, 0)).Render(content)
	}

	status := statusSymbol(s.State)
	timeStr := formatDuration(s.Position) + " / " + formatDuration(s.Duration)
	if s.State == playback.StateLoading {
		timeStr = "loading"
	}

	info := s.Artist
	if s.Album != "" {
		info += " · " + s.Album
	}

	const sep = "   "
	fixed := lipgloss.Width(status) + 2 + len(sep)*3 + lipgloss.Width(timeStr) + volWidth
	avail := innerWidth - fixed - ui.MinProgressBarWidth

	title := render.TruncateEllipsis(s.Title, max(avail, 1))
	used := lipgloss.Width(title)
	infoText := ""
	if room := avail - used - len(sep); room > 3 && info != "" {
		infoText = render.TruncateEllipsis(info, room)
		used += len(sep) + lipgloss.Width(infoText)
	}

	barWidth := max(innerWidth-fixed-used, 0)
	var b strings.Builder
	b.WriteString(styles.ApplyBoldGradient(title, t.Primary, t.Secondary))
	if infoText != "" {
		b.WriteString(sep)
		b.WriteString(sty.Muted.Render(infoText))
	}
	b.WriteString(sep)
	b.WriteString(sty.Playing.Render(status))
	b.WriteString("  ")
	b.WriteString(progressBar(s.Position, s.Duration, barWidth))
	b.WriteString(sep)
	b.WriteString(sty.Muted.Render(timeStr))
	b.WriteString(sep)
	b.WriteString(volume)

	return barStyle().Width(max(width-2, 0)).Render(b.String())
}

func progressBar(position, duration time.Duration, width int) string {
	if width <= 0 {
		return ""
	}
	var ratio float64
	if duration > 0 {
		ratio = min(float64(position)/float64(duration), 1)
	}
	filled := int(float64(width) * ratio)
	t := styles.T()
	return lipgloss.NewStyle().Foreground(t.Primary).Render(strings.Repeat("━", filled)) +
		lipgloss.NewStyle().Foreground(t.Border).Render(strings.Repeat("─", width-filled))
}

func renderVolume(volume float64, muted bool) string {
	icon := "vol"
	if muted {
		icon = "mute"
	}
	return styles.T().S().Muted.Render(fmt.Sprintf("%s %3d%%", icon, int(volume*100+0.5)))
}

func barStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.T().Border).
		Padding(0, 2)
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}
