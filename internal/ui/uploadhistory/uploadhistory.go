// Package uploadhistory provides the popup listing past uploads.
package uploadhistory

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/tunecrate/internal/state"
	"github.com/llehouerou/tunecrate/internal/ui"
	"github.com/llehouerou/tunecrate/internal/ui/action"
	"github.com/llehouerou/tunecrate/internal/ui/popup"
	"github.com/llehouerou/tunecrate/internal/ui/render"
	"github.com/llehouerou/tunecrate/internal/ui/styles"
)

// Compile-time check that Model implements popup.Popup.
var _ popup.Popup = (*Model)(nil)

// Close signals the popup should close.
type Close struct{}

// ActionType implements action.Action.
func (a Close) ActionType() string { return "uploadhistory.close" }

// Model holds the uploads shown by the popup, newest first.
type Model struct {
	ui.Base
	records []state.UploadRecord
	offset  int
	now     func() time.Time
}

// New creates the popup over records.
func New(records []state.UploadRecord) Model {
	return Model{records: records, now: time.Now}
}

// Init implements popup.Popup.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements popup.Popup.
func (m *Model) Update(msg tea.Msg) (popup.Popup, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "esc", "q", "enter", "H":
		return m, action.Cmd("uploadhistory", Close{})
	case "j", "down":
		m.offset = min(m.offset+1, m.maxOffset())
	case "k", "up":
		m.offset = max(m.offset-1, 0)
	}
	return m, nil
}

func (m *Model) visibleRows() int {
	// title, blank, header, separator, blank, footer and popup chrome
	return max(m.Height()-12, 3)
}

func (m *Model) maxOffset() int {
	return max(len(m.records)-m.visibleRows(), 0)
}

// View implements popup.Popup.
func (m *Model) View() string {
	if m.Unsized() {
		return ""
	}
	s := styles.T().S()
	width := max(m.Width()-8, 40)

	var b strings.Builder
	b.WriteString(s.Title.Render("Upload history"))
	b.WriteString("\n\n")

	if len(m.records) == 0 {
		b.WriteString(s.Subtle.Render("Nothing uploaded yet."))
		b.WriteString("\n\n")
		b.WriteString(s.Subtle.Render("esc close"))
		return b.String()
	}

	const gap = 2
	widths := []int{14, 0, 0, 10}
	rest := width - widths[0] - widths[3] - gap*3
	widths[1] = rest / 2
	widths[2] = rest - widths[1]

	b.WriteString(s.Header.Render(render.Columns(widths, gap, "When", "Song", "File", "Size")))
	b.WriteString("\n")
	b.WriteString(s.Subtle.Render(render.Separator(width)))
	b.WriteString("\n")

	end := min(m.offset+m.visibleRows(), len(m.records))
	for _, r := range m.records[m.offset:end] {
		size := ""
		if r.Size > 0 {
			size = humanize.IBytes(uint64(r.Size)) //nolint:gosec // positive
		}
		song := r.Title
		if r.Artist != "" {
			song += " · " + r.Artist
		}
		row := render.Columns(widths, gap, humanize.RelTime(r.UploadedAt, m.now(), "ago", "from now"), song, r.FileName, size)
		if r.SongID == "" {
			row = s.Muted.Render(row)
		} else {
			row = s.Base.Render(row)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	footer := "esc close"
	if m.maxOffset() > 0 {
		footer = "j/k scroll · " + footer
	}
	b.WriteString(s.Subtle.Render(footer))
	return b.String()
}
