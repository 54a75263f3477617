// Package confirm provides a yes/no confirmation popup component.
package confirm

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tunecrate/internal/ui"
	"github.com/llehouerou/tunecrate/internal/ui/action"
	"github.com/llehouerou/tunecrate/internal/ui/popup"
	"github.com/llehouerou/tunecrate/internal/ui/styles"
)

// Compile-time check that Model implements popup.Popup.
var _ popup.Popup = (*Model)(nil)

// Result is the answer. Context is whatever was passed to New.
type Result struct {
	Confirmed bool
	Context   any
}

func (Result) ActionType() string { return "confirm.result" }

// Model is a yes/no confirmation popup.
type Model struct {
	ui.Base
	title   string
	message string
	context any
	active  bool
}

// New creates a confirmation showing title and message. context is handed
// back unchanged in the Result.
func New(title, message string, context any) Model {
	return Model{
		title:   title,
		message: message,
		context: context,
		active:  true,
	}
}

// Active returns whether the confirmation still waits for an answer.
func (m *Model) Active() bool {
	return m.active
}

// Init implements popup.Popup.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements popup.Popup.
func (m *Model) Update(msg tea.Msg) (popup.Popup, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !m.active || !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "enter", "y", "Y":
		return m, m.answer(true)
	case "esc", "n", "N", "q":
		return m, m.answer(false)
	}
	return m, nil
}

func (m *Model) answer(confirmed bool) tea.Cmd {
	m.active = false
	return action.Cmd("confirm", Result{Confirmed: confirmed, Context: m.context})
}

// View implements popup.Popup.
func (m *Model) View() string {
	if !m.active || m.Unsized() {
		return ""
	}
	s := styles.T().S()

	var b strings.Builder
	b.WriteString(s.Title.Foreground(styles.T().Primary).Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(s.Base.Render(m.message))
	b.WriteString("\n\n")
	b.WriteString(s.Subtle.Render("enter/y confirm · esc/n cancel"))
	return b.String()
}
