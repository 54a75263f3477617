// Package errmsg turns failures into the messages users read.
package errmsg

import (
	"errors"
	"fmt"
)

// Op names what was being attempted, phrased to follow "Failed to".
type Op string

const (
	OpCatalogLoad Op = "load songs"
	OpSongDelete  Op = "delete song"

	OpUpload   Op = "upload song"
	OpFileLoad Op = "load file"

	OpPlaybackStart Op = "start playback"
	OpPlaybackFetch Op = "fetch audio"

	OpHistoryLoad  Op = "load upload history"
	OpHistorySave  Op = "record upload"
	OpVolumeChange Op = "change volume"

	OpInitialize Op = "initialize application"
)

// Error is a failure tagged with its operation. Its message is the user
// facing one.
type Error struct {
	Op      Op
	Context string // usually a song title or file name
	Err     error
}

func (e *Error) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("Failed to %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", e.Op, e.Context, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap tags err with op. It returns nil for a nil err.
func Wrap(op Op, err error) error {
	return WrapWith(op, "", err)
}

// WrapWith tags err with op and context. When err already carries an
// operation, that inner one is kept since it is the more precise, and
// context only fills in a missing one.
func WrapWith(op Op, context string, err error) error {
	if err == nil {
		return nil
	}
	var inner *Error
	if errors.As(err, &inner) {
		if inner.Context != "" || context == "" {
			return inner
		}
		return &Error{Op: inner.Op, Context: context, Err: inner.Err}
	}
	return &Error{Op: op, Context: context, Err: err}
}

// Format is Wrap rendered as text, "" for a nil err.
func Format(op Op, err error) string {
	return FormatWith(op, "", err)
}

// FormatWith is WrapWith rendered as text, "" for a nil err.
func FormatWith(op Op, context string, err error) string {
	if err := WrapWith(op, context, err); err != nil {
		return err.Error()
	}
	return ""
}
