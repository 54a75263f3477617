package player

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/jfreymuth/vorbis"
	"github.com/jj11hh/opus"
)

var (
	errUnknownOggCodec     = errors.New("ogg: unknown codec (not Opus or Vorbis)")
	errInvalidOpusHead     = errors.New("opus: invalid OpusHead")
	errInvalidVorbisHeader = errors.New("vorbis: invalid identification header")
)

const (
	opusSampleRate = 48000
	// opusMaxFrame is 120ms at 48kHz, the longest Opus packet.
	opusMaxFrame = 5760
	// vorbisHeaderCount is identification, comment and setup.
	vorbisHeaderCount = 3
)

// oggCodec decodes the packets of one Ogg logical stream.
type oggCodec interface {
	SampleRate() int
	Channels() int
	// PreSkip is the number of decoded samples to drop at stream start.
	PreSkip() int
	// AddHeader feeds the header packet following the identification
	// packet. It reports true once the codec can decode audio.
	AddHeader(packet []byte) (ready bool, err error)
	// Ready reports whether every header has been read.
	Ready() bool
	// Decode returns interleaved samples for one audio packet.
	Decode(packet []byte) ([]float32, error)
	// Reset clears inter-packet state after a seek.
	Reset()
}

// detectOggCodec picks a codec from the identification packet.
func detectOggCodec(first []byte) (oggCodec, error) {
	if len(first) >= 8 && string(first[:8]) == "OpusHead" {
		return newOpusCodec(first)
	}
	if len(first) >= 7 && first[0] == 0x01 && string(first[1:7]) == "vorbis" {
		return newVorbisCodec(first)
	}
	return nil, errUnknownOggCodec
}

type opusCodec struct {
	decoder  *opus.Decoder
	channels int
	preSkip  int
	pcm      []float32
}

// newOpusCodec parses an OpusHead packet. Only mono and stereo streams
// (channel mapping family 0) are supported.
func newOpusCodec(head []byte) (*opusCodec, error) {
	if len(head) < 19 {
		return nil, errInvalidOpusHead
	}
	if head[8] != 1 {
		return nil, fmt.Errorf("opus: unsupported version %d", head[8])
	}
	channels := int(head[9])
	if channels < 1 || channels > 2 {
		return nil, fmt.Errorf("opus: unsupported channel count %d", channels)
	}

	decoder, err := opus.NewDecoder(opusSampleRate, channels)
	if err != nil {
		return nil, err
	}
	return &opusCodec{
		decoder:  decoder,
		channels: channels,
		preSkip:  int(binary.LittleEndian.Uint16(head[10:12])),
		pcm:      make([]float32, opusMaxFrame*channels),
	}, nil
}

// SampleRate is always 48000; Opus decodes at 48kHz whatever the input
// rate field says.
func (c *opusCodec) SampleRate() int { return opusSampleRate }

func (c *opusCodec) Channels() int { return c.channels }

func (c *opusCodec) PreSkip() int { return c.preSkip }

// AddHeader skips OpusTags; Opus needs nothing past OpusHead.
func (c *opusCodec) AddHeader(_ []byte) (bool, error) { return true, nil }

func (c *opusCodec) Ready() bool { return true }

func (c *opusCodec) Decode(packet []byte) ([]float32, error) {
	n, err := c.decoder.DecodeFloat32(packet, c.pcm)
	if err != nil {
		return nil, err
	}
	return c.pcm[:n*c.channels], nil
}

func (c *opusCodec) Reset() {}

type vorbisCodec struct {
	decoder    vorbis.Decoder
	headers    int
	channels   int
	sampleRate int
}

// newVorbisCodec reads the identification header.
func newVorbisCodec(ident []byte) (*vorbisCodec, error) {
	// type(1) "vorbis"(6) version(4) channels(1) rate(4)
	if len(ident) < 16 || binary.LittleEndian.Uint32(ident[7:11]) != 0 {
		return nil, errInvalidVorbisHeader
	}
	c := &vorbisCodec{
		channels:   int(ident[11]),
		sampleRate: int(binary.LittleEndian.Uint32(ident[12:16])),
	}
	if c.channels == 0 || c.sampleRate == 0 {
		return nil, errInvalidVorbisHeader
	}
	if err := c.decoder.ReadHeader(ident); err != nil {
		return nil, err
	}
	c.headers = 1
	return c, nil
}

func (c *vorbisCodec) SampleRate() int { return c.sampleRate }

func (c *vorbisCodec) Channels() int { return c.channels }

func (c *vorbisCodec) PreSkip() int { return 0 }

func (c *vorbisCodec) AddHeader(packet []byte) (bool, error) {
	if c.Ready() {
		return true, nil
	}
	if err := c.decoder.ReadHeader(packet); err != nil {
		return false, err
	}
	c.headers++
	return c.Ready(), nil
}

func (c *vorbisCodec) Ready() bool { return c.headers >= vorbisHeaderCount }

func (c *vorbisCodec) Decode(packet []byte) ([]float32, error) {
	return c.decoder.Decode(packet)
}

func (c *vorbisCodec) Reset() { c.decoder.Clear() }
