//go:build !linux

package notify

// New returns a disabled notifier; desktop notifications need a Linux
// session bus.
func New() (Notifier, error) {
	return Disabled(), nil
}
