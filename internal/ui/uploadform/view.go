package uploadform

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/tunecrate/internal/keymap"
	"github.com/llehouerou/tunecrate/internal/ui/render"
	"github.com/llehouerou/tunecrate/internal/ui/styles"
)

const labelWidth = 10

func titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(styles.T().Primary)
}

// View implements popup.Popup.
func (m *Model) View() string {
	if m.Unsized() {
		return ""
	}
	s := styles.T().S()
	inputWidth := max(min(m.Width()-labelWidth-12, 60), 10)

	var b strings.Builder
	b.WriteString(titleStyle().Render("Upload song"))
	b.WriteString("\n\n")

	for i := range m.inputs {
		label := render.Pad(fields[i].label, labelWidth)
		if i == m.focus {
			label = s.Playing.Render(label)
		} else {
			label = s.Muted.Render(label)
		}
		in := m.inputs[i]
		in.Width = inputWidth
		b.WriteString(label + in.View() + "\n")

		if i == fieldFile && m.file != nil {
			b.WriteString(strings.Repeat(" ", labelWidth) + s.Subtle.Render(m.fileSummary()) + "\n")
		}
		if m.errText != "" && m.errField == fields[i].name {
			b.WriteString(strings.Repeat(" ", labelWidth) + s.Error.Render("✗ "+m.errText) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(s.Subtle.Render(m.limitsHint()))
	b.WriteString("\n")

	switch {
	case m.phase == phaseLoading:
		b.WriteString("\n" + s.Warning.Render("Reading tags…") + "\n")
	case m.phase == phaseSubmitting:
		b.WriteString("\n" + s.Warning.Render("Uploading…") + "\n")
	case m.errText != "" && fieldIndex(m.errField) < 0:
		b.WriteString("\n" + s.Error.Render("✗ "+m.errText) + "\n")
	case m.notice != "":
		b.WriteString("\n" + s.Warning.Render(m.notice) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(s.Subtle.Render(m.keys.Hints(
		keymap.HintItem{Action: keymap.ActionNextField, Label: "next"},
		keymap.HintItem{Action: keymap.ActionLoadFile, Label: "on file: load"},
		keymap.HintItem{Action: keymap.ActionSubmit, Label: "upload"},
		keymap.HintItem{Action: keymap.ActionCancel, Label: "close"},
	)))
	return b.String()
}

func (m *Model) fileSummary() string {
	return m.file.Name + " · " + m.file.Type + " · " + humanize.IBytes(uint64(m.file.Size)) //nolint:gosec // sizes are non-negative
}

func (m *Model) limitsHint() string {
	return "Accepted: " + strings.Join(m.limits.AllowedTypes, ", ") +
		" · up to " + humanize.IBytes(uint64(m.limits.MaxSize)) //nolint:gosec // limit is positive
}
