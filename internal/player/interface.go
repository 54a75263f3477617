package player

import "time"

// Interface defines the player contract for dependency injection and testing.
type Interface interface {
	// Play stops any current source and starts the audio file at path.
	Play(path string) error
	Stop()
	Pause()
	Resume()
	Toggle()
	State() State
	Position() time.Duration
	Duration() time.Duration

	SetVolume(level float64)
	Volume() float64
	SetMuted(muted bool)
	Muted() bool

	// Sequence identifies the source started by the last Play.
	Sequence() uint64
	// FinishedChan receives the sequence of a source that reached its end.
	FinishedChan() <-chan uint64
}

// Verify Player implements Interface at compile time.
var _ Interface = (*Player)(nil)
