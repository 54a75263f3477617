//go:build linux

package notify

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"

	"github.com/llehouerou/tunecrate/internal/logger"
)

const (
	busName = "org.freedesktop.Notifications"
	busPath = "/org/freedesktop/Notifications"
)

// caller is the part of dbus.BusObject the notifier uses.
type caller interface {
	Call(method string, flags dbus.Flags, args ...any) *dbus.Call
}

type busNotifier struct {
	obj caller

	mu   sync.Mutex
	tags map[string]uint32 // tag -> last ID shown for it
	ids  map[uint32]string
}

// New connects to the session bus. Without one it returns a disabled
// notifier rather than an error so the caller can carry on.
func New() (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		logger.L().Info("no session bus, notifications disabled", zap.Error(err))
		return Disabled(), nil
	}
	return newBusNotifier(conn.Object(busName, busPath)), nil
}

func newBusNotifier(obj caller) *busNotifier {
	return &busNotifier{
		obj:  obj,
		tags: make(map[string]uint32),
		ids:  make(map[uint32]string),
	}
}

func (b *busNotifier) Notify(n Notification) (uint32, error) {
	b.mu.Lock()
	replaces := b.tags[n.Tag]
	if n.Tag == "" {
		replaces = 0
	}
	b.mu.Unlock()

	// Notify(app_name, replaces_id, app_icon, summary, body, actions, hints, expire_timeout)
	call := b.obj.Call(busName+".Notify", 0,
		appName, replaces, n.Icon, n.Title, n.Body,
		[]string{}, hints(n), n.Timeout,
	)
	if call.Err != nil {
		return 0, fmt.Errorf("notify: %w", call.Err)
	}
	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, fmt.Errorf("notify: %w", err)
	}

	if n.Tag != "" {
		b.mu.Lock()
		if replaces != 0 && replaces != id {
			delete(b.ids, replaces)
		}
		b.tags[n.Tag] = id
		b.ids[id] = n.Tag
		b.mu.Unlock()
	}
	return id, nil
}

func (b *busNotifier) Close(id uint32) error {
	b.mu.Lock()
	if tag, ok := b.ids[id]; ok {
		delete(b.ids, id)
		delete(b.tags, tag)
	}
	b.mu.Unlock()

	if call := b.obj.Call(busName+".CloseNotification", 0, id); call.Err != nil {
		return fmt.Errorf("close notification %d: %w", id, call.Err)
	}
	return nil
}

func hints(n Notification) map[string]dbus.Variant {
	h := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(n.Urgency)),
		"desktop-entry": dbus.MakeVariant(appName),
	}
	if n.Category != "" {
		h["category"] = dbus.MakeVariant(n.Category)
	}
	return h
}
