package tags

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/wav"
	"github.com/llehouerou/go-m4a"
	"github.com/llehouerou/go-mp3"
)

// ErrUnsupportedFormat is returned for files whose length cannot be probed.
var ErrUnsupportedFormat = errors.New("unsupported format")

// opusSampleRate is the granule rate of every Ogg Opus stream.
const opusSampleRate = 48000

// ReadDuration returns the stream length of an audio file. It reads headers
// and container indexes and never decodes the whole stream.
func ReadDuration(path string) (time.Duration, error) {
	ext := strings.ToLower(filepath.Ext(path))

	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	switch ext {
	case ExtMP3:
		return readMP3Duration(f)
	case ExtWAV:
		return readWAVDuration(f)
	case ExtFLAC:
		return readFLACDuration(f)
	case ExtOPUS, ExtOGG, ExtOGA:
		return readOggDuration(f)
	case ExtM4A, ExtMP4:
		return readM4ADuration(f)
	}

	return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
}

func readMP3Duration(f *os.File) (time.Duration, error) {
	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return 0, err
	}

	sampleRate := decoder.SampleRate()
	if sampleRate == 0 {
		return 0, errors.New("mp3: invalid sample rate")
	}

	sampleCount := max(decoder.SampleCount(), 0)
	return time.Duration(float64(sampleCount) / float64(sampleRate) * float64(time.Second)), nil
}

func readWAVDuration(f *os.File) (time.Duration, error) {
	streamer, format, err := wav.Decode(f)
	if err != nil {
		return 0, err
	}
	defer streamer.Close()

	return format.SampleRate.D(streamer.Len()), nil
}

func readFLACDuration(f *os.File) (time.Duration, error) {
	// Skip ID3v2 if present
	if err := SkipID3v2(f); err != nil {
		return 0, err
	}

	streamer, format, err := flac.Decode(f)
	if err != nil {
		return 0, err
	}
	defer streamer.Close()

	return format.SampleRate.D(streamer.Len()), nil
}

func readM4ADuration(f *os.File) (time.Duration, error) {
	container, err := m4a.Open(f)
	if err != nil {
		return 0, err
	}
	return container.Duration(), nil
}

// readOggDuration takes the granule position of the last page and divides it
// by the stream's sample rate.
func readOggDuration(f *os.File) (time.Duration, error) {
	head := make([]byte, 4096)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return 0, err
	}
	rate, err := oggSampleRate(head[:n])
	if err != nil {
		return 0, err
	}

	granule, err := LastOggGranule(f)
	if err != nil {
		return 0, err
	}

	return time.Duration(float64(granule) / float64(rate) * float64(time.Second)), nil
}

// LastOggGranule returns the granule position of the last page in an Ogg
// stream. It reads at most the final 64KB.
func LastOggGranule(rs io.ReadSeeker) (int64, error) {
	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}

	searchSize := min(int64(65536), size)
	if _, err := rs.Seek(-searchSize, io.SeekEnd); err != nil {
		return 0, err
	}
	tail := make([]byte, searchSize)
	n, err := io.ReadFull(rs, tail)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return 0, err
	}

	granule, ok := lastGranule(tail[:n])
	if !ok || granule <= 0 {
		return 0, errors.New("could not determine OGG duration")
	}
	return granule, nil
}

// oggSampleRate reads the granule rate from the identification header in the
// first page.
func oggSampleRate(head []byte) (int, error) {
	if bytes.Contains(head, []byte("OpusHead")) {
		return opusSampleRate, nil
	}
	idx := bytes.Index(head, []byte("\x01vorbis"))
	// version(4) channels(1) rate(4)
	if idx < 0 || idx+7+9 > len(head) {
		return 0, errors.New("ogg: no vorbis or opus header")
	}
	rate := binary.LittleEndian.Uint32(head[idx+7+5:])
	if rate == 0 {
		return 0, errors.New("ogg: invalid sample rate")
	}
	return int(rate), nil
}

// lastGranule scans backwards for the final OggS page header.
func lastGranule(buf []byte) (int64, bool) {
	for i := len(buf) - 27; i >= 0; i-- {
		if buf[i] == 'O' && buf[i+1] == 'g' && buf[i+2] == 'g' && buf[i+3] == 'S' {
			// Granule position is at offset 6, 8 bytes little-endian
			return int64(binary.LittleEndian.Uint64(buf[i+6:])), true //nolint:gosec // granule is a signed field on the wire
		}
	}
	return 0, false
}

// SkipID3v2 skips an ID3v2 tag if present at the beginning of r and leaves
// r positioned at the first audio byte.
func SkipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return err
	}
	if n < 10 || string(header[0:3]) != id3Magic {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}

	// ID3v2 size is stored as a syncsafe integer in bytes 6-9
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])
	_, err = r.Seek(10+size, io.SeekStart)
	return err
}
