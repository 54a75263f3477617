// Package testutil has helpers for driving bubbletea components in tests.
package testutil

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/llehouerou/tunecrate/internal/ui/action"
)

// StripANSI removes styling so rendered output can be compared as text.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// ContainsLine reports whether a single line of output contains substr.
// Styling is ignored.
func ContainsLine(output, substr string) bool {
	for line := range strings.SplitSeq(StripANSI(output), "\n") {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

// AssertContains returns a failure message if output lacks substr, or "".
func AssertContains(output, substr string) string {
	if !strings.Contains(StripANSI(output), substr) {
		return "expected output to contain " + substr
	}
	return ""
}

// AssertNotContains returns a failure message if output has substr, or "".
func AssertNotContains(output, substr string) string {
	if strings.Contains(StripANSI(output), substr) {
		return "expected output to NOT contain " + substr
	}
	return ""
}

var namedKeys = map[string]tea.KeyType{
	"enter":     tea.KeyEnter,
	"esc":       tea.KeyEscape,
	"tab":       tea.KeyTab,
	"shift+tab": tea.KeyShiftTab,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"home":      tea.KeyHome,
	"end":       tea.KeyEnd,
	"backspace": tea.KeyBackspace,
	"delete":    tea.KeyDelete,
	"ctrl+c":    tea.KeyCtrlC,
	"ctrl+s":    tea.KeyCtrlS,
}

// Key builds the KeyMsg whose String() is name. Names follow bubbletea:
// "enter", "esc", "ctrl+s", " " or "space"; anything else is typed as runes.
func Key(name string) tea.KeyMsg {
	if t, ok := namedKeys[name]; ok {
		return tea.KeyMsg{Type: t}
	}
	if name == "space" || name == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
}

// ExecuteCmd runs cmd and returns its message. For a batch it returns the
// first action.Msg, else the first message produced.
func ExecuteCmd(cmd tea.Cmd) tea.Msg {
	msgs := RunCmd(cmd, 0)
	for _, msg := range msgs {
		if _, ok := msg.(action.Msg); ok {
			return msg
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	return msgs[0]
}

// RunCmd runs cmd, expanding batches, and returns every non-nil message.
// With a positive timeout, commands still blocked after it (timers, event
// watchers) are abandoned and produce nothing.
func RunCmd(cmd tea.Cmd, timeout time.Duration) []tea.Msg {
	if cmd == nil {
		return nil
	}

	var msg tea.Msg
	if timeout <= 0 {
		msg = cmd()
	} else {
		ch := make(chan tea.Msg, 1)
		go func() { ch <- cmd() }()
		select {
		case msg = <-ch:
		case <-time.After(timeout):
			return nil
		}
	}

	switch m := msg.(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range m {
			out = append(out, RunCmd(c, timeout)...)
		}
		return out
	default:
		return []tea.Msg{msg}
	}
}
