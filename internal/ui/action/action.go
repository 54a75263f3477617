// Package action is how components report user intent to the app without
// knowing about it.
package action

import tea "github.com/charmbracelet/bubbletea"

// Action is something a component wants done, such as playing a song or
// submitting the upload form. ActionType names it for logs.
type Action interface {
	ActionType() string
}

// Msg carries an Action to the app through the bubbletea loop.
type Msg struct {
	Source string // "songlist", "uploadform", "confirm", ...
	Action Action
}

var _ tea.Msg = Msg{}

// String is "source/type", for logging.
func (m Msg) String() string {
	if m.Action == nil {
		return m.Source + "/<nil>"
	}
	return m.Source + "/" + m.Action.ActionType()
}

// Cmd returns a command that delivers a from source.
func Cmd(source string, a Action) tea.Cmd {
	return func() tea.Msg { return Msg{Source: source, Action: a} }
}
