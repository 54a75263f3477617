// Package uploadform provides the popup that collects song metadata and the
// audio file to upload.
package uploadform

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tunecrate/internal/keymap"
	"github.com/llehouerou/tunecrate/internal/ui"
	"github.com/llehouerou/tunecrate/internal/ui/popup"
	"github.com/llehouerou/tunecrate/internal/upload"
)

// Compile-time check that Model implements popup.Popup.
var _ popup.Popup = (*Model)(nil)

// field indexes, in tab order
const (
	fieldFile = iota
	fieldType
	fieldTitle
	fieldArtist
	fieldAlbum
	fieldYear
	fieldDuration
	fieldGenre
	fieldCount
)

type fieldDef struct {
	name        string // upload.Field* name, used to place validation errors
	label       string
	placeholder string
	charLimit   int
}

var fields = [fieldCount]fieldDef{
	fieldFile:     {upload.FieldFile, "File", "path/to/song.mp3", 4096},
	fieldType:     {"type", "Type", "detected from the file", 64},
	fieldTitle:    {upload.FieldTitle, "Title", "", 256},
	fieldArtist:   {upload.FieldArtist, "Artist", "", 256},
	fieldAlbum:    {upload.FieldAlbum, "Album", "", 256},
	fieldYear:     {upload.FieldYear, "Year", "1999", 4},
	fieldDuration: {upload.FieldDuration, "Duration", "mm:ss", 8},
	fieldGenre:    {upload.FieldGenre, "Genre", "", 64},
}

type phase int

const (
	phaseEditing phase = iota
	phaseLoading       // reading tags from the chosen file
	phaseSubmitting
)

// Model is the upload form.
type Model struct {
	ui.Base
	inputs [fieldCount]textinput.Model
	focus  int
	limits upload.Limits
	keys   *keymap.Resolver

	file  *upload.File // set once the file at inputs[fieldFile] was opened
	phase phase

	errField string // field shown with errText inline, "" for a form-level error
	errText  string
	notice   string // non-fatal prefill problems
}

// New creates a form that validates against limits.
func New(limits upload.Limits) Model {
	m := Model{
		limits: limits,
		keys:   keymap.ForContexts("upload"),
	}
	for i, f := range fields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = f.placeholder
		in.CharLimit = f.charLimit
		m.inputs[i] = in
	}
	m.inputs[fieldFile].Focus()
	return m
}

// Reset clears every field and error.
func (m *Model) Reset() {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	m.focus = fieldFile
	m.inputs[fieldFile].Focus()
	m.file = nil
	m.phase = phaseEditing
	m.clearError()
	m.notice = ""
}

// SetPath fills the file field, as when the form is opened with a path.
func (m *Model) SetPath(path string) {
	m.inputs[fieldFile].SetValue(path)
	m.inputs[fieldFile].CursorEnd()
}

// Init implements popup.Popup.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Busy reports whether the form waits on a file load or an upload.
func (m *Model) Busy() bool {
	return m.phase != phaseEditing
}

// Pending builds the upload from the current field values. The file is only
// attached when it was loaded from the path currently typed.
func (m *Model) Pending() *upload.Pending {
	p := &upload.Pending{
		Title:    m.value(fieldTitle),
		Artist:   m.value(fieldArtist),
		Album:    m.value(fieldAlbum),
		Year:     m.value(fieldYear),
		Duration: m.value(fieldDuration),
		Genre:    m.value(fieldGenre),
	}
	if m.file != nil && samePath(m.file.Path, m.value(fieldFile)) {
		f := *m.file
		if t := m.value(fieldType); t != "" {
			f.Type = upload.Canonical(t)
		}
		p.SetFile(&f)
	}
	return p
}

// FileLoaded applies a prefilled upload after LoadFile. Fields the user
// already typed are kept. prefillErr reports tags or a duration that could
// not be read; the file itself is still usable.
func (m *Model) FileLoaded(p *upload.Pending, prefillErr error) {
	m.phase = phaseEditing
	m.clearError()
	m.notice = ""
	if p == nil || p.File == nil {
		return
	}

	m.file = p.File
	m.inputs[fieldType].SetValue(p.File.Type)
	m.fillEmpty(fieldTitle, p.Title)
	m.fillEmpty(fieldArtist, p.Artist)
	m.fillEmpty(fieldAlbum, p.Album)
	m.fillEmpty(fieldYear, p.Year)
	m.fillEmpty(fieldDuration, p.Duration)
	m.fillEmpty(fieldGenre, p.Genre)

	if prefillErr != nil {
		m.notice = "Some details could not be read from the file; fill them in."
	}
	m.setFocus(fieldTitle)
}

// FileFailed reports that the typed path could not be opened.
func (m *Model) FileFailed(err error) {
	m.phase = phaseEditing
	m.file = nil
	m.errField = upload.FieldFile
	m.errText = err.Error()
}

// SetSubmitting marks an upload in flight. Keys are ignored meanwhile.
func (m *Model) SetSubmitting(submitting bool) {
	if submitting {
		m.phase = phaseSubmitting
		m.clearError()
		return
	}
	m.phase = phaseEditing
}

// SetError shows err. A *upload.ValidationError is shown next to its
// field; anything else under the form.
func (m *Model) SetError(err error) {
	m.phase = phaseEditing
	if err == nil {
		m.clearError()
		return
	}
	var verr *upload.ValidationError
	if errors.As(err, &verr) {
		m.errField = verr.Field
		m.errText = verr.Reason
		if i := fieldIndex(verr.Field); i >= 0 {
			m.setFocus(i)
		}
		return
	}
	m.errField = ""
	m.errText = err.Error()
}

// Update implements popup.Popup.
func (m *Model) Update(msg tea.Msg) (popup.Popup, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}

	if m.phase == phaseSubmitting {
		return m, nil
	}

	switch m.keys.Resolve(keyMsg.String()) { //nolint:exhaustive // other keys go to the input
	case keymap.ActionCancel:
		return m, func() tea.Msg { return ActionMsg(Cancel{}) }
	case keymap.ActionNextField:
		return m, m.setFocus((m.focus + 1) % fieldCount)
	case keymap.ActionPrevField:
		return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)
	case keymap.ActionSubmit:
		return m, m.submit()
	case keymap.ActionLoadFile:
		switch {
		case m.phase == phaseLoading:
			return m, nil
		case m.focus == fieldFile || m.focus == fieldType:
			return m, m.loadFile()
		case m.focus == fieldGenre:
			return m, m.submit()
		default:
			return m, m.setFocus(m.focus + 1)
		}
	}

	if m.phase == phaseLoading {
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(keyMsg)
	if m.errField == fields[m.focus].name {
		m.clearError()
	}
	return m, cmd
}

func (m *Model) loadFile() tea.Cmd {
	path := m.value(fieldFile)
	if path == "" {
		m.errField = upload.FieldFile
		m.errText = "choose a file to upload"
		return nil
	}
	m.phase = phaseLoading
	m.clearError()
	// a type filled in by the previous file's detection is not an override
	typeOverride := m.value(fieldType)
	if m.file != nil && !samePath(m.file.Path, path) && typeOverride == m.file.Type {
		typeOverride = ""
	}
	return func() tea.Msg { return ActionMsg(LoadFile{Path: path, Type: typeOverride}) }
}

// submit validates and, only when every check passes, emits Submit.
func (m *Model) submit() tea.Cmd {
	if m.phase != phaseEditing {
		return nil
	}
	p := m.Pending()
	if err := p.Validate(m.limits); err != nil {
		m.SetError(err)
		return nil
	}
	m.clearError()
	return func() tea.Msg { return ActionMsg(Submit{Pending: p}) }
}

func (m *Model) setFocus(i int) tea.Cmd {
	if i < 0 || i >= fieldCount {
		return nil
	}
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[i].Focus()
}

func (m *Model) fillEmpty(i int, v string) {
	if m.value(i) == "" && v != "" {
		m.inputs[i].SetValue(v)
	}
}

func (m *Model) value(i int) string {
	return strings.TrimSpace(m.inputs[i].Value())
}

func (m *Model) clearError() {
	m.errField = ""
	m.errText = ""
}

func fieldIndex(name string) int {
	for i, f := range fields {
		if f.name == name {
			return i
		}
	}
	return -1
}

func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}
