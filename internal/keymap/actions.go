// Package keymap defines key bindings and action dispatch for the application.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit    Action = "quit"
	ActionHelp    Action = "help"
	ActionRefresh Action = "refresh"
	ActionUpload  Action = "upload"
	ActionHistory Action = "history"

	// Playback actions
	ActionPlayPause  Action = "play_pause"
	ActionStop       Action = "stop"
	ActionVolumeUp   Action = "volume_up"
	ActionVolumeDown Action = "volume_down"
	ActionMute       Action = "mute"

	// Song list actions
	ActionMoveUp    Action = "move_up"
	ActionMoveDown  Action = "move_down"
	ActionJumpStart Action = "jump_start"
	ActionJumpEnd   Action = "jump_end"
	ActionSelect    Action = "select" // enter - play/pause the song under the cursor
	ActionDelete    Action = "delete"

	// Upload form actions
	ActionNextField Action = "next_field"
	ActionPrevField Action = "prev_field"
	ActionLoadFile  Action = "load_file"
	ActionSubmit    Action = "submit"
	ActionCancel    Action = "cancel"
)
