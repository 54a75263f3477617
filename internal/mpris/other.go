//go:build !linux

package mpris

import "time"

// Adapter does nothing outside Linux, where there is no session bus to
// publish on.
type Adapter struct{}

func New(Controller, time.Duration) (*Adapter, error) { return &Adapter{}, nil }

func (*Adapter) Close() error { return nil }
