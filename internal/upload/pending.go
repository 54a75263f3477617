// Package upload holds the client-side state of an upload before it is sent:
// the metadata fields, the selected file and the checks that gate submission.
package upload

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

// DefaultMaxSize is the size ceiling when none is configured (10 MiB).
const DefaultMaxSize int64 = 10 * 1024 * 1024

// Validation failure kinds. ValidationError unwraps to one of these.
var (
	ErrMissingField   = errors.New("required field is empty")
	ErrTypeNotAllowed = errors.New("media type not allowed")
	ErrTooLarge       = errors.New("file too large")
)

// Field names, in the order they are sent.
const (
	FieldTitle    = "title"
	FieldArtist   = "artist"
	FieldAlbum    = "album"
	FieldYear     = "year"
	FieldDuration = "duration"
	FieldGenre    = "genre"
	FieldFile     = "file"
)

// ValidationError reports the first check a Pending upload failed.
type ValidationError struct {
	Field  string
	Reason string
	Kind   error
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// File is the audio file selected for upload.
type File struct {
	Path string
	Name string
	Type string // declared media type, canonical form
	Size int64
}

// OpenFile stats path and declares its media type. typeOverride, when set,
// replaces detection.
func OpenFile(path, typeOverride string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	declared := typeOverride
	if declared == "" {
		declared, err = DetectType(path)
		if err != nil {
			return nil, fmt.Errorf("detect media type: %w", err)
		}
	}

	return &File{
		Path: path,
		Name: filepath.Base(path),
		Type: Canonical(declared),
		Size: info.Size(),
	}, nil
}

// Limits are the file checks applied before submission.
type Limits struct {
	MaxSize      int64
	AllowedTypes []string
}

// DefaultLimits returns the canonical allow-list with a 10 MiB ceiling.
func DefaultLimits() Limits {
	return NewLimits(0, nil)
}

// NewLimits builds Limits, folding every allowed type to canonical form.
// A non-positive maxSize or an empty list selects the default.
func NewLimits(maxSize int64, allowed []string) Limits {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if len(allowed) == 0 {
		allowed = DefaultAllowedTypes
	}
	canon := make([]string, 0, len(allowed))
	for _, t := range allowed {
		canon = append(canon, Canonical(t))
	}
	return Limits{MaxSize: maxSize, AllowedTypes: canon}
}

// Allows reports whether media type t is on the allow-list.
func (l Limits) Allows(t string) bool {
	t = Canonical(t)
	for _, a := range l.AllowedTypes {
		if a == t {
			return true
		}
	}
	return false
}

// Pending is an upload being edited. It is discarded after a successful
// submit.
type Pending struct {
	Title    string
	Artist   string
	Album    string
	Year     string
	Duration string // mm:ss
	Genre    string
	File     *File
}

// Field is one multipart text field.
type Field struct {
	Name  string
	Value string
}

// Fields returns the text fields in submission order.
func (p *Pending) Fields() []Field {
	return []Field{
		{FieldTitle, strings.TrimSpace(p.Title)},
		{FieldArtist, strings.TrimSpace(p.Artist)},
		{FieldAlbum, strings.TrimSpace(p.Album)},
		{FieldYear, strings.TrimSpace(p.Year)},
		{FieldDuration, strings.TrimSpace(p.Duration)},
		{FieldGenre, strings.TrimSpace(p.Genre)},
	}
}

// SetFile replaces the selected file.
func (p *Pending) SetFile(f *File) {
	p.File = f
}

// Validate returns a *ValidationError for the first failed check, or nil.
// Fields are checked in submission order, then the file.
func (p *Pending) Validate(l Limits) error {
	for _, f := range p.Fields() {
		if f.Value == "" {
			return &ValidationError{
				Field:  f.Name,
				Reason: f.Name + " is required",
				Kind:   ErrMissingField,
			}
		}
	}

	if p.File == nil {
		return &ValidationError{Field: FieldFile, Reason: "choose a file to upload", Kind: ErrMissingField}
	}

	if !l.Allows(p.File.Type) {
		return &ValidationError{
			Field:  FieldFile,
			Reason: fmt.Sprintf("%s is not an accepted type (%s)", p.File.Type, strings.Join(l.AllowedTypes, ", ")),
			Kind:   ErrTypeNotAllowed,
		}
	}

	if p.File.Size > l.MaxSize {
		return &ValidationError{
			Field: FieldFile,
			Reason: fmt.Sprintf("file is %s, the limit is %s",
				humanize.IBytes(uint64(p.File.Size)), humanize.IBytes(uint64(l.MaxSize))), //nolint:gosec // sizes are non-negative
			Kind: ErrTooLarge,
		}
	}

	return nil
}
