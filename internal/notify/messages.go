package notify

import (
	"html"
	"strings"

	"github.com/llehouerou/tunecrate/internal/catalog"
)

const (
	defaultTimeout = 5000

	tagNowPlaying = "now-playing"
)

// NowPlaying builds the notification shown when a song starts.
func NowPlaying(song catalog.Song) Notification {
	return Notification{
		Title:   orUnknown(song.Title),
		Body:    html.EscapeString(joinNonEmpty(" - ", song.Artist, song.Album)),
		Icon:    "audio-x-generic",
		Timeout: defaultTimeout,
		Urgency: UrgencyLow,
		Tag:     tagNowPlaying,
	}
}

// Uploaded builds the notification shown after a successful upload.
func Uploaded(song catalog.Song) Notification {
	return Notification{
		Title:    "Uploaded " + orUnknown(song.Title),
		Body:     html.EscapeString(song.Artist),
		Icon:     "document-send",
		Timeout:  defaultTimeout,
		Urgency:  UrgencyNormal,
		Category: "transfer.complete",
	}
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown title"
	}
	return s
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
