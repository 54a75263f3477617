package songlist

import (
	"github.com/llehouerou/tunecrate/internal/catalog"
	"github.com/llehouerou/tunecrate/internal/ui/action"
)

// Play asks to play, pause or resume Song.
type Play struct {
	Song catalog.Song
}

// ActionType implements action.Action.
func (a Play) ActionType() string { return "songlist.play" }

// Delete asks to delete Song, after confirmation.
type Delete struct {
	Song catalog.Song
}

// ActionType implements action.Action.
func (a Delete) ActionType() string { return "songlist.delete" }

// ActionMsg creates an action.Msg for a songlist action.
func ActionMsg(a action.Action) action.Msg {
	return action.Msg{Source: "songlist", Action: a}
}
