package player

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/wav"

	"github.com/llehouerou/tunecrate/internal/tags"
)

// Format names the container/codec of a source.
type Format string

const (
	FormatUnknown Format = ""
	FormatMP3     Format = "MP3"
	FormatWAV     Format = "WAV"
	FormatFLAC    Format = "FLAC"
	FormatOgg     Format = "OGG"
	FormatM4A     Format = "AAC"
	// FormatADTS is raw AAC without a container. It is recognized but not
	// playable.
	FormatADTS Format = "ADTS"
)

// sniffLen is how much of the header sniffFormat looks at.
const sniffLen = 12

// sniffFormat identifies the container from the first bytes of a file.
func sniffFormat(head []byte) Format {
	switch {
	case bytes.HasPrefix(head, []byte("ID3")):
		// ID3 also prefixes some FLAC files; detect resolves that case
		return FormatMP3
	case bytes.HasPrefix(head, []byte("fLaC")):
		return FormatFLAC
	case len(head) >= 12 && bytes.Equal(head[0:4], []byte("RIFF")) && bytes.Equal(head[8:12], []byte("WAVE")):
		return FormatWAV
	case bytes.HasPrefix(head, []byte("OggS")):
		return FormatOgg
	case len(head) >= 8 && bytes.Equal(head[4:8], []byte("ftyp")):
		return FormatM4A
	case len(head) >= 2 && head[0] == 0xFF && head[1]&0xE0 == 0xE0:
		// MPEG sync word; layer bits 00 means ADTS
		if head[1]&0x06 == 0 {
			return FormatADTS
		}
		return FormatMP3
	}
	return FormatUnknown
}

// detect sniffs f and leaves it positioned where the decoder for the
// returned format expects to start.
func detect(f io.ReadSeeker) (Format, error) {
	head, err := readHead(f)
	if err != nil {
		return FormatUnknown, err
	}

	kind := sniffFormat(head)
	if kind != FormatMP3 || !bytes.HasPrefix(head, []byte("ID3")) {
		_, err = f.Seek(0, io.SeekStart)
		return kind, err
	}

	// look past the tag for a FLAC stream marker
	if err := tags.SkipID3v2(f); err != nil {
		return FormatUnknown, err
	}
	start, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return FormatUnknown, err
	}
	inner, err := readHead(f)
	if err != nil {
		return FormatUnknown, err
	}
	if sniffFormat(inner) == FormatFLAC {
		_, err = f.Seek(start, io.SeekStart)
		return FormatFLAC, err
	}
	_, err = f.Seek(0, io.SeekStart)
	return FormatMP3, err
}

func readHead(r io.Reader) ([]byte, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return head[:n], nil
}

// decode picks a decoder from the file header. The returned streamer owns f.
func decode(f *os.File) (beep.StreamSeekCloser, beep.Format, Format, error) {
	kind, err := detect(f)
	if err != nil {
		return nil, beep.Format{}, FormatUnknown, err
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch kind {
	case FormatMP3:
		streamer, format, err = decodeGoMP3(f)
	case FormatWAV:
		streamer, format, err = wav.Decode(f)
	case FormatFLAC:
		streamer, format, err = flac.Decode(f)
	case FormatOgg:
		streamer, format, err = decodeOgg(f)
	case FormatM4A:
		streamer, format, err = decodeM4A(f)
	case FormatADTS:
		return nil, beep.Format{}, kind, fmt.Errorf("%w: raw AAC (ADTS)", tags.ErrUnsupportedFormat)
	default:
		return nil, beep.Format{}, kind, tags.ErrUnsupportedFormat
	}
	if err != nil {
		return nil, beep.Format{}, kind, err
	}
	return streamer, format, kind, nil
}
