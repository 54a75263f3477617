package player

// State is the output state of the player.
//
//	Stopped --Play--> Playing --Pause--> Paused --Resume--> Playing
//	Playing|Paused --Stop--> Stopped
//
// End of stream leaves the player Playing until the owner reacts to the
// finished signal and calls Stop. Transitions not listed above are no-ops.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

// String returns the state name for debugging.
func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a source is loaded (Playing or Paused).
func (s State) IsActive() bool {
	return s == Playing || s == Paused
}
