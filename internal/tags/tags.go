// Package tags reads the metadata used to prefill an upload: the common text
// tags and the stream length.
package tags

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// File extensions the readers understand.
const (
	ExtMP3  = ".mp3"
	ExtWAV  = ".wav"
	ExtFLAC = ".flac"
	ExtOPUS = ".opus"
	ExtOGG  = ".ogg"
	ExtOGA  = ".oga"
	ExtM4A  = ".m4a"
	ExtMP4  = ".mp4"
	ExtAAC  = ".aac"
)

// id3Magic is the magic bytes for ID3v2 header detection.
const id3Magic = "ID3"

// Tag holds the text tags a song record carries.
type Tag struct {
	Path   string
	Title  string
	Artist string
	Album  string
	Genre  string
	Date   string // YYYY-MM-DD or YYYY
}

// Year derives the year from the Date field.
// Returns 0 if Date is empty or cannot be parsed.
func (t *Tag) Year() int {
	if t.Date == "" {
		return 0
	}
	year := t.Date
	if len(year) > 4 {
		year = year[:4]
	}
	y, _ := strconv.Atoi(year)
	return y
}

// Sanitize trims whitespace and NUL padding left by some taggers.
func (t *Tag) Sanitize() {
	clean := func(s string) string {
		return strings.TrimSpace(strings.Trim(s, "\x00"))
	}
	t.Title = clean(t.Title)
	t.Artist = clean(t.Artist)
	t.Album = clean(t.Album)
	t.Genre = clean(t.Genre)
	t.Date = clean(t.Date)
}

// IsAudioFile returns true if the path has an extension one of the readers
// understands.
func IsAudioFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtMP3, ExtWAV, ExtFLAC, ExtOPUS, ExtOGG, ExtOGA, ExtM4A, ExtMP4, ExtAAC:
		return true
	}
	return false
}

// FormatDuration renders d as "mm:ss". Minutes are not wrapped into hours.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second) / time.Second)
	return pad2(total/60) + ":" + pad2(total%60)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// taglibTags wraps a taglib result map with helper methods.
type taglibTags map[string][]string

// get returns the first value for any of the given keys, or empty string if not found.
func (t taglibTags) get(keys ...string) string {
	for _, key := range keys {
		if values, ok := t[key]; ok && len(values) > 0 {
			return values[0]
		}
	}
	return ""
}
