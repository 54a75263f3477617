// Package popupctl owns the modal popups of the TUI: which are open, which
// one receives keys, and how they are drawn over the main view.
package popupctl

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tunecrate/internal/catalog"
	"github.com/llehouerou/tunecrate/internal/state"
	"github.com/llehouerou/tunecrate/internal/ui/confirm"
	"github.com/llehouerou/tunecrate/internal/ui/helpbindings"
	"github.com/llehouerou/tunecrate/internal/ui/popup"
	"github.com/llehouerou/tunecrate/internal/ui/uploadform"
	"github.com/llehouerou/tunecrate/internal/ui/uploadhistory"
	"github.com/llehouerou/tunecrate/internal/upload"
)

// Manager manages all modal popups and overlays.
type Manager struct {
	popups   map[Type]popup.Popup
	sizes    map[Type]popup.SizeConfig
	errorMsg string
	width    int
	height   int
}

// New creates a new Manager with initialized components.
func New() *Manager {
	return &Manager{
		popups: make(map[Type]popup.Popup),
		sizes: map[Type]popup.SizeConfig{
			Upload:  popup.SizeForm,
			History: popup.SizeList,
		},
	}
}

// SetSize updates the dimensions for popup rendering.
func (p *Manager) SetSize(width, height int) {
	p.width = width
	p.height = height
	for t, pop := range p.popups {
		pop.SetSize(p.contentSize(p.sizes[t]))
	}
}

// IsVisible returns true if the specified popup type is visible.
func (p *Manager) IsVisible(t Type) bool {
	switch t {
	case None:
		return false
	case Error:
		return p.errorMsg != ""
	case Help, Confirm, Upload, History:
		return p.popups[t] != nil
	}
	return false
}

// ActivePopup returns which popup is currently active (highest priority).
func (p *Manager) ActivePopup() Type {
	for _, t := range Priority {
		if p.IsVisible(t) {
			return t
		}
	}
	return None
}

// Show displays a popup of the given type.
func (p *Manager) Show(t Type, pop popup.Popup) tea.Cmd {
	pop.SetSize(p.contentSize(p.sizes[t]))
	p.popups[t] = pop
	return pop.Init()
}

// Hide hides the specified popup type.
func (p *Manager) Hide(t Type) {
	switch t {
	case None:
	case Error:
		p.errorMsg = ""
	case Help, Confirm, Upload, History:
		delete(p.popups, t)
	}
}

// Get retrieves a popup for type assertion when needed.
func (p *Manager) Get(t Type) popup.Popup {
	return p.popups[t]
}

// contentSize is the room a popup's content gets inside its frame.
func (p *Manager) contentSize(size popup.SizeConfig) (width, height int) {
	if size.WidthPct > 0 {
		return p.width*size.WidthPct/100 - 6, p.height*size.HeightPct/100 - 4
	}
	w := p.width
	if size.MaxWidth > 0 {
		w = min(w, size.MaxWidth)
	}
	return max(w-6, 0), max(p.height-4, 0)
}

// --- Show Methods (convenience wrappers) ---

// ShowHelp displays the help popup with the given contexts.
func (p *Manager) ShowHelp(contexts ...string) tea.Cmd {
	help := helpbindings.New(contexts...)
	return p.Show(Help, &help)
}

// ShowDeleteConfirm asks before deleting song.
func (p *Manager) ShowDeleteConfirm(song catalog.Song) tea.Cmd {
	c := confirm.New("Delete song?", "Delete "+song.Label()+" from the server?", song)
	return p.Show(Confirm, &c)
}

// ShowUpload opens the upload form, keeping a form that is already open.
func (p *Manager) ShowUpload(limits upload.Limits) tea.Cmd {
	if form := p.UploadForm(); form != nil {
		return nil
	}
	form := uploadform.New(limits)
	return p.Show(Upload, &form)
}

// ShowHistory displays the upload history.
func (p *Manager) ShowHistory(records []state.UploadRecord) tea.Cmd {
	h := uploadhistory.New(records)
	return p.Show(History, &h)
}

// ShowError displays an error message popup.
func (p *Manager) ShowError(msg string) {
	p.errorMsg = msg
}

// --- Accessors ---

// ErrorMsg returns the current error message.
func (p *Manager) ErrorMsg() string {
	return p.errorMsg
}

// UploadForm returns the open upload form, or nil.
func (p *Manager) UploadForm() *uploadform.Model {
	if pop := p.popups[Upload]; pop != nil {
		if form, ok := pop.(*uploadform.Model); ok {
			return form
		}
	}
	return nil
}

// --- Key Handling ---

// HandleKey routes key events to the active popup.
// Returns (handled, cmd) where handled is true if a popup consumed the key.
func (p *Manager) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	// Error popup: dismiss on any key
	if p.errorMsg != "" {
		p.errorMsg = ""
		return true, nil
	}
	return p.route(p.ActivePopup(), msg)
}

// Route delivers a non-key message (such as a cursor blink) to the popup of
// type t, if open.
func (p *Manager) Route(t Type, msg tea.Msg) tea.Cmd {
	_, cmd := p.route(t, msg)
	return cmd
}

func (p *Manager) route(t Type, msg tea.Msg) (bool, tea.Cmd) {
	pop := p.popups[t]
	if pop == nil {
		return false, nil
	}
	updated, cmd := pop.Update(msg)
	p.popups[t] = updated
	return true, cmd
}

// --- Rendering ---

// RenderOverlay renders active popup(s) on top of the base view.
func (p *Manager) RenderOverlay(base string) string {
	for _, t := range RenderOrder {
		if !p.IsVisible(t) {
			continue
		}

		if t == Error {
			content := popup.Message("Error", p.errorMsg, "Press any key to dismiss", p.width-12)
			base = popup.Compose(base, popup.RenderBordered(content, p.width, p.height, popup.SizeAuto), p.width)
			continue
		}

		rendered := popup.RenderBordered(p.popups[t].View(), p.width, p.height, p.sizes[t])
		base = popup.Compose(base, rendered, p.width)
	}
	return base
}
