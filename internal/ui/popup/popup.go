// Package popup is the contract modal components implement, plus the box
// they are drawn in over the main view.
package popup

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/llehouerou/tunecrate/internal/ui/styles"
)

// Popup is a modal component. View returns only the content; the caller
// draws the border and centers it.
type Popup interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Popup, tea.Cmd)
	View() string
	// SetSize gives the space available to the content.
	SetSize(width, height int)
}

// SizeConfig defines how a popup should be sized.
type SizeConfig struct {
	WidthPct  int // Percentage of screen width (0 = auto-fit)
	HeightPct int // Percentage of screen height (0 = auto-fit)
	MaxWidth  int // Maximum width in columns (0 = no limit)
}

// Common size configurations.
var (
	SizeForm = SizeConfig{MaxWidth: 90} // upload form
	SizeList = SizeConfig{WidthPct: 80, HeightPct: 70}
	SizeAuto = SizeConfig{}
)

// Message renders a titled message box, used for errors.
func Message(title, body, footer string, maxWidth int) string {
	s := styles.T().S()
	width := max(lipgloss.Width(title), lipgloss.Width(footer))
	for line := range strings.SplitSeq(body, "\n") {
		width = max(width, lipgloss.Width(line))
	}
	if maxWidth > 0 {
		width = min(width, maxWidth)
	}

	var b strings.Builder
	b.WriteString(s.Error.Bold(true).Render(title))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Render(body))
	if footer != "" {
		b.WriteString("\n\n")
		b.WriteString(s.Subtle.Render(footer))
	}
	return b.String()
}

// Center centers pre-rendered content in the terminal.
func Center(box string, termWidth, termHeight int) string {
	lines := strings.Split(box, "\n")
	boxWidth := maxLineWidth(box)

	padTop := max((termHeight-len(lines))/2, 0)
	padLeft := max((termWidth-boxWidth)/2, 0)

	var result strings.Builder
	for range padTop {
		result.WriteString("\n")
	}
	left := strings.Repeat(" ", padLeft)
	for _, line := range lines {
		result.WriteString(left)
		result.WriteString(line)
		result.WriteString("\n")
	}
	return result.String()
}

// RenderBordered wraps content in a rounded border and centers it.
func RenderBordered(content string, screenW, screenH int, size SizeConfig) string {
	width, height := dimensions(content, screenW, screenH, size)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.T().BorderFocus).
		Width(width-2).
		Height(height-2).
		Padding(1, 2).
		Render(content)
	return Center(box, screenW, screenH)
}

func dimensions(content string, screenW, screenH int, size SizeConfig) (width, height int) {
	if size.WidthPct > 0 {
		return screenW * size.WidthPct / 100, screenH * size.HeightPct / 100
	}
	width = maxLineWidth(content) + 6 // padding + border
	if size.MaxWidth > 0 {
		width = min(width, size.MaxWidth)
	}
	width = min(width, screenW-4)

	height = strings.Count(content, "\n") + 1 + 4
	height = min(height, screenH-2)
	return width, height
}

func maxLineWidth(s string) int {
	w := 0
	for line := range strings.SplitSeq(s, "\n") {
		w = max(w, lipgloss.Width(line))
	}
	return w
}

// Compose overlays a centered popup on top of base. Leading and trailing
// blanks of each popup line let the base show through.
func Compose(base, popupView string, width int) string {
	baseLines := strings.Split(base, "\n")

	for i, line := range strings.Split(popupView, "\n") {
		if i >= len(baseLines) {
			break
		}
		plain := ansi.Strip(line)
		if strings.TrimSpace(plain) == "" {
			continue
		}

		startCol := len(plain) - len(strings.TrimLeft(plain, " "))
		endCol := ansi.StringWidth(strings.TrimRight(plain, " "))
		content := ansi.Cut(line, startCol, endCol)

		under := baseLines[i]
		if w := ansi.StringWidth(under); w < width {
			under += strings.Repeat(" ", width-w)
		}

		// wide runes cut in half are replaced by spaces
		prefix := ansi.Cut(under, 0, startCol)
		if w := ansi.StringWidth(prefix); w < startCol {
			prefix += strings.Repeat(" ", startCol-w)
		}
		out := prefix + content
		if endCol < width {
			suffix := ansi.Cut(under, endCol, width)
			out += suffix
			if w := ansi.StringWidth(suffix); w < width-endCol {
				out += strings.Repeat(" ", width-endCol-w)
			}
		}
		baseLines[i] = out
	}
	return strings.Join(baseLines, "\n")
}
