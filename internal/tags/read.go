package tags

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dhowden/tag"
	"go.senan.xyz/taglib"
)

// Read reads tag metadata from a music file. A file with no tags at all is
// not an error; the title falls back to the file name.
func Read(path string) (*Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		switch strings.ToLower(filepath.Ext(path)) {
		case ExtMP3:
			// dhowden/tag has issues with some UTF-16 encoded ID3 tags
			return readMP3WithID3v2Fallback(path)
		case ExtM4A, ExtMP4, ExtFLAC, ExtOPUS, ExtOGG, ExtOGA, ExtWAV:
			return readWithTaglib(path)
		}
		if errors.Is(err, tag.ErrNoTagsFound) {
			return &Tag{Path: path, Title: titleFromPath(path)}, nil
		}
		return nil, err
	}

	t := &Tag{
		Path:   path,
		Title:  m.Title(),
		Artist: m.Artist(),
		Album:  m.Album(),
		Genre:  m.Genre(),
		Date:   yearToDate(m.Year()),
	}
	if t.Artist == "" {
		t.Artist = m.AlbumArtist()
	}
	t.Sanitize()
	if t.Title == "" {
		t.Title = titleFromPath(path)
	}

	return t, nil
}

// readWithTaglib reads tags using TagLib as fallback when dhowden/tag fails.
func readWithTaglib(path string) (*Tag, error) {
	rawTags, err := taglib.ReadTags(path)
	if err != nil {
		return nil, err
	}
	tags := taglibTags(rawTags)

	t := &Tag{
		Path:   path,
		Title:  tags.get(taglib.Title),
		Artist: tags.get(taglib.Artist, taglib.AlbumArtist),
		Album:  tags.get(taglib.Album),
		Genre:  tags.get(taglib.Genre),
		Date:   tags.get(taglib.Date, "YEAR"),
	}
	t.Sanitize()
	if t.Title == "" {
		t.Title = titleFromPath(path)
	}

	return t, nil
}

// titleFromPath strips directory and extension.
func titleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// yearToDate converts a year integer to a date string.
// Returns empty string for year 0.
func yearToDate(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}
