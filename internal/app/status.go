package app

import (
	tea "github.com/charmbracelet/bubbletea"
)

// StatusKind selects how the status line is styled.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusError
)

// Status is the transient message shown under the player bar.
type Status struct {
	ID   int64
	Text string
	Kind StatusKind
}

// setStatus shows text and schedules its removal.
func (m *Model) setStatus(kind StatusKind, text string) tea.Cmd {
	m.statusSeq++
	m.Status = Status{ID: m.statusSeq, Text: text, Kind: kind}
	return StatusClearCmd(m.statusSeq)
}

// setProgress shows text until the next status replaces it.
func (m *Model) setProgress(text string) {
	m.statusSeq++
	m.Status = Status{ID: m.statusSeq, Text: text, Kind: StatusInfo}
}

func (m *Model) clearStatus(id int64) {
	if m.Status.ID == id {
		m.Status = Status{}
	}
}
