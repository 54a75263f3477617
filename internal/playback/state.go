package playback

// State is the playback state as seen by the UI.
type State int

const (
	StateStopped State = iota
	StatePlaying
	StatePaused
	// StateLoading means the selected song is being fetched.
	StateLoading
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateLoading:
		return "Loading"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a song is loaded or loading.
func (s State) IsActive() bool {
	return s == StatePlaying || s == StatePaused || s == StateLoading
}
