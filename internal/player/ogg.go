package player

import (
	"errors"
	"io"

	"github.com/gopxl/beep/v2"

	"github.com/llehouerou/tunecrate/internal/tags"
)

// decodeOgg reads the headers of an Ogg Vorbis or Ogg Opus stream and
// returns a streamer positioned at the first audio packet.
func decodeOgg(rs io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, error) {
	packets := newOggPacketReader(rs)

	first, err := packets.Next()
	if err != nil {
		return nil, beep.Format{}, err
	}
	codec, err := detectOggCodec(first)
	if err != nil {
		return nil, beep.Format{}, err
	}

	// header packets always end their page, so the reader sits on a page
	// boundary once the codec is ready; OpusTags is consumed here too
	for ready := false; !ready; {
		pkt, err := packets.Next()
		if err != nil {
			return nil, beep.Format{}, err
		}
		if ready, err = codec.AddHeader(pkt); err != nil {
			return nil, beep.Format{}, err
		}
	}

	dataStart, err := packets.Offset()
	if err != nil {
		return nil, beep.Format{}, err
	}

	length := 0
	if granule, err := tags.LastOggGranule(rs); err == nil {
		length = max(int(granule)-codec.PreSkip(), 0)
	}
	if _, err := rs.Seek(dataStart, io.SeekStart); err != nil {
		return nil, beep.Format{}, err
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(codec.SampleRate()),
		NumChannels: 2,
		Precision:   2,
	}
	return &oggDecoder{
		packets:   packets,
		codec:     codec,
		closer:    rs,
		dataStart: dataStart,
		length:    length,
		skip:      codec.PreSkip(),
	}, format, nil
}

// oggDecoder implements beep.StreamSeekCloser over an oggCodec.
type oggDecoder struct {
	packets   *oggPacketReader
	codec     oggCodec
	closer    io.Closer
	dataStart int64

	pcm    []float32
	pcmPos int
	pos    int
	length int
	// skip counts pre-skip samples still to drop
	skip int
	err  error
}

func (d *oggDecoder) Stream(samples [][2]float64) (n int, ok bool) {
	if d.err != nil {
		return 0, false
	}

	channels := d.codec.Channels()
	for n < len(samples) {
		if d.pcmPos < len(d.pcm) {
			for n < len(samples) && d.pcmPos < len(d.pcm) {
				left := float64(d.pcm[d.pcmPos])
				right := left
				if channels > 1 {
					right = float64(d.pcm[d.pcmPos+1])
				}
				samples[n] = [2]float64{left, right}
				d.pcmPos += channels
				d.pos++
				n++
			}
			continue
		}

		pkt, err := d.packets.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				d.err = err
			}
			return n, n > 0
		}

		pcm, err := d.codec.Decode(pkt)
		if err != nil {
			// a corrupt packet costs its own samples only
			continue
		}
		d.pcm, d.pcmPos = pcm, 0

		if d.skip > 0 {
			drop := min(d.skip, len(pcm)/channels)
			d.pcmPos = drop * channels
			d.skip -= drop
		}
	}
	return n, true
}

func (d *oggDecoder) Err() error { return d.err }

func (d *oggDecoder) Len() int { return d.length }

func (d *oggDecoder) Position() int { return d.pos }

// Seek restarts from the first audio page and decodes up to sample p.
func (d *oggDecoder) Seek(p int) error {
	p = max(p, 0)
	if d.length > 0 {
		p = min(p, d.length)
	}

	if err := d.packets.Rewind(d.dataStart); err != nil {
		return err
	}
	d.codec.Reset()
	d.pcm, d.pcmPos = nil, 0
	d.pos = 0
	d.skip = d.codec.PreSkip()
	d.err = nil

	discard := make([][2]float64, 1024)
	for d.pos < p {
		n, ok := d.Stream(discard[:min(len(discard), p-d.pos)])
		if !ok || n == 0 {
			break
		}
	}
	return d.err
}

func (d *oggDecoder) Close() error {
	return d.closer.Close()
}
