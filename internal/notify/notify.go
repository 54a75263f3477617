// Package notify shows desktop notifications for playback and uploads.
package notify

const appName = "tunecrate"

// Urgency is the freedesktop urgency level.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// Notification is one desktop notification.
type Notification struct {
	Title   string
	Body    string // basic markup allowed, escape user text
	Icon    string // icon name or path
	Timeout int32  // ms; -1 server default, 0 never expires
	Urgency Urgency

	// Category is the freedesktop category hint, empty for none.
	Category string

	// Tag groups notifications that replace each other: a new notification
	// with the same Tag takes the place of the previous one instead of
	// stacking. Empty means always a new bubble.
	Tag string
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify shows n and returns the server's ID for it. A disabled notifier
	// returns 0 and no error.
	Notify(n Notification) (uint32, error)
	// Close withdraws a notification by ID.
	Close(id uint32) error
}

type disabled struct{}

// Disabled returns a Notifier that drops everything.
func Disabled() Notifier { return disabled{} }

func (disabled) Notify(Notification) (uint32, error) { return 0, nil }
func (disabled) Close(uint32) error                  { return nil }
