// Package helpbindings is the popup listing key bindings by context.
package helpbindings

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/tunecrate/internal/keymap"
	"github.com/llehouerou/tunecrate/internal/ui"
	"github.com/llehouerou/tunecrate/internal/ui/action"
	"github.com/llehouerou/tunecrate/internal/ui/popup"
	"github.com/llehouerou/tunecrate/internal/ui/styles"
)

var _ popup.Popup = (*Model)(nil)

// sections lists contexts in display order with their headings.
var sections = []struct{ context, label string }{
	{"global", "Global"},
	{"playback", "Playback"},
	{"songs", "Songs"},
	{"upload", "Upload Form"},
}

// chrome is the height taken by the title, footer and popup border.
const chrome = 10

// Close asks the app to hide the popup.
type Close struct{}

func (Close) ActionType() string { return "helpbindings.close" }

// Model shows the bindings of some contexts, scrollable.
type Model struct {
	ui.Base
	lines  []string
	width  int
	offset int
}

// New creates a help popup for contexts. Unknown contexts are ignored.
func New(contexts ...string) Model {
	var m Model
	m.SetContexts(contexts)
	return m
}

// SetContexts replaces the listed contexts and scrolls back to the top.
func (m *Model) SetContexts(contexts []string) {
	m.lines = m.lines[:0]
	m.offset = 0

	var bindings [][]keymap.Binding
	keyWidth := 0
	for _, sec := range sections {
		var bs []keymap.Binding
		if slices.Contains(contexts, sec.context) {
			bs = keymap.ByContext(sec.context)
		}
		for _, b := range bs {
			keyWidth = max(keyWidth, len(keyLabel(b)))
		}
		bindings = append(bindings, bs)
	}

	t := styles.T()
	heading := lipgloss.NewStyle().Foreground(t.Secondary).Bold(true)
	rule := t.S().Subtle.Render(strings.Repeat("─", keyWidth+15))
	for i, bs := range bindings {
		if len(bs) == 0 {
			continue
		}
		if len(m.lines) > 0 {
			m.lines = append(m.lines, "")
		}
		m.lines = append(m.lines, heading.Render(sections[i].label), rule)
		for _, b := range bs {
			key := t.S().Playing.Render(padRight(keyLabel(b), keyWidth))
			m.lines = append(m.lines, key+"  "+t.S().Base.Render(b.Description))
		}
	}

	m.width = 0
	for _, l := range m.lines {
		m.width = max(m.width, lipgloss.Width(l))
	}
}

// Init implements popup.Popup.
func (m *Model) Init() tea.Cmd { return nil }

// Update implements popup.Popup.
func (m *Model) Update(msg tea.Msg) (popup.Popup, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "?", "esc", "q":
		return m, action.Cmd("helpbindings", Close{})
	case "j", "down":
		m.offset = min(m.offset+1, m.maxOffset())
	case "k", "up":
		m.offset = max(m.offset-1, 0)
	case "g", "home":
		m.offset = 0
	case "G", "end":
		m.offset = m.maxOffset()
	}
	return m, nil
}

// View implements popup.Popup. Every visible line is padded to the widest
// line so the popup keeps its width while scrolling.
func (m *Model) View() string {
	if m.Unsized() {
		return ""
	}
	s := styles.T().S()

	end := min(m.offset+m.pageHeight(), len(m.lines))
	visible := make([]string, 0, end-m.offset)
	for _, l := range m.lines[m.offset:end] {
		visible = append(visible, padRight(l, m.width))
	}

	footer := "?/esc close"
	if m.maxOffset() > 0 {
		footer = "j/k scroll · " + footer
	}
	return s.Title.Render("Help") + "\n\n" +
		strings.Join(visible, "\n") + "\n\n" +
		s.Subtle.Render(footer)
}

func (m *Model) pageHeight() int { return max(m.Height()-chrome, 5) }

func (m *Model) maxOffset() int { return max(len(m.lines)-m.pageHeight(), 0) }

func keyLabel(b keymap.Binding) string {
	keys := make([]string, len(b.Keys))
	for i, k := range b.Keys {
		keys[i] = keymap.Display(k)
	}
	return strings.Join(keys, ", ")
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
