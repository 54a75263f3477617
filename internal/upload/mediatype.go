package upload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

// Canonical media types accepted by the server.
const (
	TypeMPEG = "audio/mpeg"
	TypeWAV  = "audio/wav"
	TypeOGG  = "audio/ogg"
	TypeAAC  = "audio/aac"
	TypeFLAC = "audio/flac"

	// TypeUnknown is declared when neither the extension nor the header
	// identify the file. It is never on the allow-list.
	TypeUnknown = "application/octet-stream"
)

// DefaultAllowedTypes is the canonical allow-list.
var DefaultAllowedTypes = []string{TypeMPEG, TypeWAV, TypeOGG, TypeAAC, TypeFLAC}

// aliases folds historical and platform spellings onto the canonical names.
var aliases = map[string]string{
	"audio/mp3":      TypeMPEG,
	"audio/mpeg3":    TypeMPEG,
	"audio/x-mp3":    TypeMPEG,
	"audio/x-wav":    TypeWAV,
	"audio/wave":     TypeWAV,
	"audio/vnd.wave": TypeWAV,
	"audio/x-flac":   TypeFLAC,
	"audio/x-aac":    TypeAAC,
	"audio/mp4":      TypeAAC,
	"audio/x-m4a":    TypeAAC,
	"audio/opus":     TypeOGG,
	"audio/vorbis":   TypeOGG,
}

var extensionTypes = map[string]string{
	".mp3":  TypeMPEG,
	".wav":  TypeWAV,
	".wave": TypeWAV,
	".ogg":  TypeOGG,
	".oga":  TypeOGG,
	".opus": TypeOGG,
	".aac":  TypeAAC,
	".m4a":  TypeAAC,
	".mp4":  TypeAAC,
	".flac": TypeFLAC,
}

// Canonical lowercases t, drops any parameters and folds known aliases.
func Canonical(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if mt, _, err := mime.ParseMediaType(t); err == nil {
		t = mt
	}
	if c, ok := aliases[t]; ok {
		return c
	}
	return t
}

// DetectType returns the declared media type of the file at path. The
// extension wins; the header is only sniffed when the extension is unknown.
func DetectType(path string) (string, error) {
	if t, ok := extensionTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return t, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return sniffType(f)
}

func sniffType(r io.ReadSeeker) (string, error) {
	head := make([]byte, 12)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read header: %w", err)
	}
	head = head[:n]

	// dhowden/tag does not know RIFF or raw ADTS
	if len(head) >= 12 && bytes.Equal(head[0:4], []byte("RIFF")) && bytes.Equal(head[8:12], []byte("WAVE")) {
		return TypeWAV, nil
	}
	if len(head) >= 2 && head[0] == 0xFF && head[1]&0xF6 == 0xF0 {
		return TypeAAC, nil
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	_, fileType, err := tag.Identify(r)
	if err != nil {
		return TypeUnknown, nil //nolint:nilerr // unidentified files are declared unknown and rejected by validation
	}

	return typeForTag(fileType), nil
}

// typeForTag maps an identified container to its declared type. MP4 audio
// is declared as AAC whatever its codec, as the .m4a extension is.
func typeForTag(ft tag.FileType) string {
	switch ft {
	case tag.MP3:
		return TypeMPEG
	case tag.FLAC:
		return TypeFLAC
	case tag.OGG:
		return TypeOGG
	case tag.M4A, tag.M4B, tag.M4P, tag.ALAC:
		return TypeAAC
	default:
		return TypeUnknown
	}
}
