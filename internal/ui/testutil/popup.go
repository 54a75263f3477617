package testutil

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tunecrate/internal/ui/action"
	"github.com/llehouerou/tunecrate/internal/ui/popup"
)

// PopupHarness drives a popup with keys and records the commands it
// returns.
type PopupHarness struct {
	popup popup.Popup
	cmds  []tea.Cmd
}

// NewPopupHarness wraps p and keeps its Init command.
func NewPopupHarness(p popup.Popup) *PopupHarness {
	h := &PopupHarness{popup: p}
	if cmd := p.Init(); cmd != nil {
		h.cmds = append(h.cmds, cmd)
	}
	return h
}

// Popup returns the wrapped popup as last returned by Update.
func (h *PopupHarness) Popup() popup.Popup { return h.popup }

func (h *PopupHarness) SetSize(width, height int) { h.popup.SetSize(width, height) }

func (h *PopupHarness) View() string { return h.popup.View() }

// SendMsg updates the popup with msg and records the command.
func (h *PopupHarness) SendMsg(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	h.popup, cmd = h.popup.Update(msg)
	if cmd != nil {
		h.cmds = append(h.cmds, cmd)
	}
	return cmd
}

// SendKey presses the key named as in Key.
func (h *PopupHarness) SendKey(name string) tea.Cmd {
	return h.SendMsg(Key(name))
}

func (h *PopupHarness) SendEnter() tea.Cmd  { return h.SendKey("enter") }
func (h *PopupHarness) SendEscape() tea.Cmd { return h.SendKey("esc") }
func (h *PopupHarness) SendUp() tea.Cmd     { return h.SendKey("up") }
func (h *PopupHarness) SendDown() tea.Cmd   { return h.SendKey("down") }
func (h *PopupHarness) SendTab() tea.Cmd    { return h.SendKey("tab") }

// Commands returns the commands recorded since the last ClearCommands.
func (h *PopupHarness) Commands() []tea.Cmd { return h.cmds }

// LastCommand returns the most recent command, or nil.
func (h *PopupHarness) LastCommand() tea.Cmd {
	if len(h.cmds) == 0 {
		return nil
	}
	return h.cmds[len(h.cmds)-1]
}

func (h *PopupHarness) ClearCommands() { h.cmds = nil }

// LastAction runs the most recent command and returns the action it
// carries, or nil.
func (h *PopupHarness) LastAction() action.Action {
	if msg, ok := ExecuteCmd(h.LastCommand()).(action.Msg); ok {
		return msg.Action
	}
	return nil
}

// ViewContains reports whether one line of the view contains substr.
func (h *PopupHarness) ViewContains(substr string) bool {
	return ContainsLine(h.View(), substr)
}

func (h *PopupHarness) AssertViewContains(substr string) string {
	return AssertContains(h.View(), substr)
}

func (h *PopupHarness) AssertViewNotContains(substr string) string {
	return AssertNotContains(h.View(), substr)
}
