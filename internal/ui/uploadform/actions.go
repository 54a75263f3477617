package uploadform

import (
	"github.com/llehouerou/tunecrate/internal/ui/action"
	"github.com/llehouerou/tunecrate/internal/upload"
)

// LoadFile asks the app to open Path and prefill the form from its tags.
// Type, when set, overrides the detected media type.
type LoadFile struct {
	Path string
	Type string
}

// ActionType implements action.Action.
func (a LoadFile) ActionType() string { return "uploadform.load_file" }

// Submit carries a Pending upload that passed validation.
type Submit struct {
	Pending *upload.Pending
}

// ActionType implements action.Action.
func (a Submit) ActionType() string { return "uploadform.submit" }

// Cancel closes the form and discards the pending upload.
type Cancel struct{}

// ActionType implements action.Action.
func (a Cancel) ActionType() string { return "uploadform.cancel" }

// ActionMsg creates an action.Msg for an upload form action.
func ActionMsg(a action.Action) action.Msg {
	return action.Msg{Source: "uploadform", Action: a}
}
