//go:build windows

package stderr

import "os"

// Capture is a no-op on Windows, where the audio backend does not write to
// stderr.
type Capture struct{}

// Start does nothing on Windows.
func Start(func(string)) (*Capture, error) { return &Capture{}, nil }

// WriteOriginal writes to stderr.
func (*Capture) WriteOriginal(msg string) { _, _ = os.Stderr.WriteString(msg) }

// Stop does nothing on Windows.
func (*Capture) Stop() {}
