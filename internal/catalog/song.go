package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/llehouerou/tunecrate/internal/tags"
)

// Song is a server-owned track record.
type Song struct {
	ID       string
	Title    string
	Artist   string
	Album    string
	Year     string
	Duration string // mm:ss
	Genre    string
	URL      string // absolute, or relative to the API base
}

// songWire accepts the loose shapes servers send: numeric or string ids,
// Mongo-style _id, numeric year and duration in seconds.
type songWire struct {
	ID       json.RawMessage `json:"id"`
	MongoID  json.RawMessage `json:"_id"`
	Title    string          `json:"title"`
	Artist   string          `json:"artist"`
	Album    string          `json:"album"`
	Year     json.RawMessage `json:"year"`
	Duration json.RawMessage `json:"duration"`
	Genre    string          `json:"genre"`
	URL      string          `json:"url"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Song) UnmarshalJSON(data []byte) error {
	var w songWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	id, err := scalarText(w.ID)
	if err != nil {
		return fmt.Errorf("id: %w", err)
	}
	if id == "" {
		if id, err = scalarText(w.MongoID); err != nil {
			return fmt.Errorf("_id: %w", err)
		}
	}
	year, err := scalarText(w.Year)
	if err != nil {
		return fmt.Errorf("year: %w", err)
	}
	duration, err := durationText(w.Duration)
	if err != nil {
		return fmt.Errorf("duration: %w", err)
	}

	*s = Song{
		ID:       id,
		Title:    w.Title,
		Artist:   w.Artist,
		Album:    w.Album,
		Year:     year,
		Duration: duration,
		Genre:    w.Genre,
		URL:      w.URL,
	}
	return nil
}

// MarshalJSON writes the canonical shape.
func (s Song) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Artist   string `json:"artist"`
		Album    string `json:"album"`
		Year     string `json:"year"`
		Duration string `json:"duration"`
		Genre    string `json:"genre"`
		URL      string `json:"url"`
	}{s.ID, s.Title, s.Artist, s.Album, s.Year, s.Duration, s.Genre, s.URL})
}

// Label is the "Title - Artist" form used in acknowledgements.
func (s Song) Label() string {
	switch {
	case s.Title == "":
		return s.ID
	case s.Artist == "":
		return s.Title
	default:
		return s.Title + " - " + s.Artist
	}
}

// scalarText returns a JSON string as-is and a JSON number as its decimal
// text. null and absent give "".
func scalarText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

// durationText keeps "mm:ss" strings and formats numeric seconds.
func durationText(raw json.RawMessage) (string, error) {
	s, err := scalarText(raw)
	if err != nil || s == "" {
		return s, err
	}
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte(`"`)) {
		return s, nil
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return "", err
	}
	return tags.FormatDuration(time.Duration(secs * float64(time.Second))), nil
}
