package keymap

// Binding maps keys to an action and documents it.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "songs", "playback", "upload"
}

// Bindings contains every key binding, in help order.
var Bindings = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
	{ActionHelp, []string{"?"}, "Show help", "global"},
	{ActionRefresh, []string{"r"}, "Reload songs", "global"},
	{ActionUpload, []string{"u"}, "Upload a song", "global"},
	{ActionHistory, []string{"H"}, "Upload history", "global"},

	// Playback
	{ActionPlayPause, []string{" "}, "Play/pause", "playback"},
	{ActionStop, []string{"s"}, "Stop", "playback"},
	{ActionVolumeUp, []string{"+", "="}, "Volume up", "playback"},
	{ActionVolumeDown, []string{"-"}, "Volume down", "playback"},
	{ActionMute, []string{"m"}, "Mute", "playback"},

	// Song list
	{ActionMoveDown, []string{"j", "down"}, "Move down", "songs"},
	{ActionMoveUp, []string{"k", "up"}, "Move up", "songs"},
	{ActionJumpStart, []string{"g", "home"}, "First song", "songs"},
	{ActionJumpEnd, []string{"G", "end"}, "Last song", "songs"},
	{ActionSelect, []string{"enter"}, "Play, pause or resume", "songs"},
	{ActionDelete, []string{"d", "delete"}, "Delete song", "songs"},

	// Upload form
	{ActionNextField, []string{"tab", "down"}, "Next field", "upload"},
	{ActionPrevField, []string{"shift+tab", "up"}, "Previous field", "upload"},
	{ActionLoadFile, []string{"enter"}, "Load file and read its tags", "upload"},
	{ActionSubmit, []string{"ctrl+s"}, "Upload", "upload"},
	{ActionCancel, []string{"esc"}, "Close form", "upload"},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, b := range Bindings {
		if b.Context == context {
			result = append(result, b)
		}
	}
	return result
}

// Display returns the key as shown in help text.
func Display(key string) string {
	if key == " " {
		return "space"
	}
	return key
}
