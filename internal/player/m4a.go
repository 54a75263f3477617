package player

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/alac"
	"github.com/llehouerou/go-faad2"
	"github.com/llehouerou/go-m4a"

	"github.com/llehouerou/tunecrate/internal/tags"
)

// m4aDecoder decodes AAC or ALAC audio in an MP4 container.
type m4aDecoder struct {
	container  *m4a.Reader
	closer     io.Closer
	format     beep.Format
	err        error
	currentIdx int
	totalLen   int

	// decodeUnit turns one access unit into stereo frames; release frees
	// the codec.
	decodeUnit func(unit []byte) ([][2]float64, error)
	release    func()

	// decoded frames of the current access unit
	pcm    [][2]float64
	pcmPos int
}

// decodeM4A opens an MP4 container and sets up the decoder for its codec.
// Anything other than AAC or ALAC is reported as unsupported.
func decodeM4A(rc io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, error) {
	container, err := m4a.Open(rc)
	if err != nil {
		return nil, beep.Format{}, err
	}

	sampleRate := container.SampleRate()
	channels := int(container.Channels())
	d := &m4aDecoder{
		container: container,
		closer:    rc,
		totalLen:  int(container.Duration().Seconds() * float64(sampleRate)),
	}
	precision := 2

	switch codec := container.Codec(); codec {
	case m4a.CodecAAC:
		ctx := context.Background()
		aac, err := faad2.NewDecoder(ctx)
		if err != nil {
			return nil, beep.Format{}, err
		}
		if err := aac.Init(ctx, container.CodecConfig()); err != nil {
			aac.Close(ctx)
			return nil, beep.Format{}, err
		}
		d.decodeUnit = func(unit []byte) ([][2]float64, error) {
			pcm, err := aac.Decode(context.Background(), unit)
			if err != nil {
				return nil, err
			}
			return int16ToStereo(pcm, channels), nil
		}
		d.release = func() { aac.Close(context.Background()) }

	case m4a.CodecALAC:
		sampleSize := int(container.SampleSize())
		if sampleSize != 16 && sampleSize != 24 {
			return nil, beep.Format{}, fmt.Errorf("%w: %d-bit ALAC", tags.ErrUnsupportedFormat, sampleSize)
		}
		dec, err := alac.NewWithConfig(alac.Config{
			SampleRate:  int(sampleRate),
			SampleSize:  sampleSize,
			NumChannels: channels,
			FrameSize:   4096,
		})
		if err != nil {
			return nil, beep.Format{}, err
		}
		if sampleSize == 24 {
			precision = 3
		}
		d.decodeUnit = func(unit []byte) ([][2]float64, error) {
			return alacToStereo(dec.Decode(unit), sampleSize, channels), nil
		}
		d.release = func() {}

	default:
		return nil, beep.Format{}, fmt.Errorf("%w: %s in MP4", tags.ErrUnsupportedFormat, codec)
	}

	d.format = beep.Format{
		SampleRate:  beep.SampleRate(sampleRate),
		NumChannels: 2,
		Precision:   precision,
	}
	return d, d.format, nil
}

// Stream decodes access units on demand and copies their frames out.
func (d *m4aDecoder) Stream(samples [][2]float64) (n int, ok bool) {
	if d.err != nil {
		return 0, false
	}

	for n < len(samples) {
		if d.pcmPos < len(d.pcm) {
			c := copy(samples[n:], d.pcm[d.pcmPos:])
			n += c
			d.pcmPos += c
			continue
		}

		if d.currentIdx >= d.container.SampleCount() {
			return n, n > 0
		}

		unit, err := d.container.ReadSample(d.currentIdx)
		if err != nil {
			d.err = err
			return n, n > 0
		}
		d.currentIdx++

		pcm, err := d.decodeUnit(unit)
		if err != nil {
			d.err = err
			return n, n > 0
		}
		d.pcm = pcm
		d.pcmPos = 0
	}

	return n, true
}

// int16ToStereo converts interleaved PCM to stereo frames. Mono is
// duplicated; channels past the second are dropped.
func int16ToStereo(pcm []int16, channels int) [][2]float64 {
	if channels < 1 {
		channels = 1
	}
	frames := make([][2]float64, len(pcm)/channels)
	for i := range frames {
		left := float64(pcm[i*channels]) / 32768.0
		right := left
		if channels > 1 {
			right = float64(pcm[i*channels+1]) / 32768.0
		}
		frames[i] = [2]float64{left, right}
	}
	return frames
}

// alacToStereo converts little-endian ALAC output of 16 or 24 bits per
// sample to stereo frames, with the same channel handling as int16ToStereo.
func alacToStereo(data []byte, sampleSize, channels int) [][2]float64 {
	if channels < 1 {
		channels = 1
	}
	width := sampleSize / 8
	frames := make([][2]float64, len(data)/(width*channels))
	sample := func(i int) float64 {
		b := data[i*width:]
		if width == 3 {
			v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
			if v&0x800000 != 0 {
				v |= ^0xFFFFFF
			}
			return float64(v) / 8388608.0
		}
		return float64(int16(uint16(b[0])|uint16(b[1])<<8)) / 32768.0
	}
	for i := range frames {
		left := sample(i * channels)
		right := left
		if channels > 1 {
			right = sample(i*channels + 1)
		}
		frames[i] = [2]float64{left, right}
	}
	return frames
}

func (d *m4aDecoder) Err() error {
	return d.err
}

func (d *m4aDecoder) Len() int {
	return d.totalLen
}

func (d *m4aDecoder) Position() int {
	pos := d.container.SampleTime(d.currentIdx)
	return int(pos.Seconds() * float64(d.container.SampleRate()))
}

// Seek moves to the access unit containing sample p.
func (d *m4aDecoder) Seek(p int) error {
	p = min(max(p, 0), d.totalLen)

	pos := time.Duration(float64(p) / float64(d.container.SampleRate()) * float64(time.Second))
	d.currentIdx = d.container.SeekToTime(pos)
	d.pcm = nil
	d.pcmPos = 0
	d.err = nil
	return nil
}

func (d *m4aDecoder) Close() error {
	d.release()
	return d.closer.Close()
}
