package tags

import (
	"github.com/bogem/id3v2/v2"
)

// readMP3WithID3v2Fallback reads MP3 metadata using only the id3v2 library.
// This is used as a fallback when dhowden/tag fails (e.g., on some UTF-16 encoded tags).
func readMP3WithID3v2Fallback(path string) (*Tag, error) {
	id3tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, err
	}
	defer id3tag.Close()

	artist := id3tag.Artist()
	if artist == "" {
		artist = getID3TextFrame(id3tag, "TPE2") // Album artist frame
	}

	// TDRC on v2.4, TYER on v2.3; id3tag.Year picks the right one
	date := ""
	if y := id3tag.Year(); len(y) >= 4 {
		date = y[:4]
	}

	t := &Tag{
		Path:   path,
		Title:  id3tag.Title(),
		Artist: artist,
		Album:  id3tag.Album(),
		Genre:  id3tag.Genre(),
		Date:   date,
	}
	t.Sanitize()
	if t.Title == "" {
		t.Title = titleFromPath(path)
	}

	return t, nil
}

// getID3TextFrame reads a text frame value from an ID3v2 tag.
func getID3TextFrame(id3tag *id3v2.Tag, frameID string) string {
	frames := id3tag.GetFrames(frameID)
	if len(frames) == 0 {
		return ""
	}
	if tf, ok := frames[0].(id3v2.TextFrame); ok {
		return tf.Text
	}
	return ""
}
