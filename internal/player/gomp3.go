package player

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/go-mp3"
)

// goMP3Decoder adapts llehouerou/go-mp3 to beep.StreamSeekCloser.
type goMP3Decoder struct {
	decoder *mp3.Decoder
	closer  io.Closer
	format  beep.Format
	err     error
	readBuf []byte
}

// decodeGoMP3 opens an MP3 stream. go-mp3 always yields 16-bit stereo.
func decodeGoMP3(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	decoder, err := mp3.NewDecoder(rc)
	if err != nil {
		return nil, beep.Format{}, err
	}

	sampleRate := decoder.SampleRate()
	if sampleRate == 0 {
		return nil, beep.Format{}, errors.New("mp3: invalid sample rate")
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(sampleRate),
		NumChannels: 2,
		Precision:   2,
	}

	d := &goMP3Decoder{
		decoder: decoder,
		closer:  rc,
		format:  format,
		readBuf: make([]byte, 8192),
	}

	return d, format, nil
}

// Stream converts little-endian 16-bit stereo frames to float samples.
func (d *goMP3Decoder) Stream(samples [][2]float64) (n int, ok bool) {
	if d.err != nil {
		return 0, false
	}

	want := len(samples) * 4
	if len(d.readBuf) < want {
		d.readBuf = make([]byte, want)
	}

	got, err := io.ReadFull(d.decoder, d.readBuf[:want])
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		d.err = err
		return 0, false
	}

	frames := got / 4
	if frames == 0 {
		return 0, false
	}
	for i := range frames {
		buf := d.readBuf[i*4:]
		samples[i][0] = float64(int16(binary.LittleEndian.Uint16(buf))) / 32768.0    //nolint:gosec // pcm sample
		samples[i][1] = float64(int16(binary.LittleEndian.Uint16(buf[2:]))) / 32768.0 //nolint:gosec // pcm sample
	}
	return frames, true
}

// Err returns any error that occurred during streaming.
func (d *goMP3Decoder) Err() error {
	return d.err
}

// Len returns the total number of samples.
func (d *goMP3Decoder) Len() int {
	count := d.decoder.SampleCount()
	if count < 0 {
		return 0
	}
	return int(count)
}

// Position returns the current sample position.
func (d *goMP3Decoder) Position() int {
	return int(d.decoder.SamplePosition())
}

// Seek moves to sample p, clamped to the stream.
func (d *goMP3Decoder) Seek(p int) error {
	p = min(max(p, 0), d.Len())
	if err := d.decoder.SeekToSample(int64(p)); err != nil {
		return err
	}
	d.err = nil
	return nil
}

// Close closes the underlying file.
func (d *goMP3Decoder) Close() error {
	return d.closer.Close()
}
