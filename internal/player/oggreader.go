package player

import (
	"encoding/binary"
	"errors"
	"io"
)

var (
	errInvalidOggMagic   = errors.New("ogg: invalid capture pattern")
	errInvalidOggVersion = errors.New("ogg: unsupported version")
)

const (
	oggHeaderLen      = 27
	oggFlagContinued  = 0x01
	oggMaxSegmentSize = 255
)

// oggPageHeader is the fixed part of an Ogg page plus its lacing table.
type oggPageHeader struct {
	Flags        byte
	GranulePos   int64
	SerialNumber uint32
	SequenceNum  uint32
	SegmentTable []uint8
}

// bodyLen returns the payload size described by the lacing table.
func (h *oggPageHeader) bodyLen() int {
	n := 0
	for _, s := range h.SegmentTable {
		n += int(s)
	}
	return n
}

// parseOggPageHeader reads an Ogg page header from r. The CRC is not
// checked.
func parseOggPageHeader(r io.Reader) (*oggPageHeader, error) {
	var buf [oggHeaderLen]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, err
	}
	if string(buf[0:4]) != "OggS" {
		return nil, errInvalidOggMagic
	}
	if buf[4] != 0 {
		return nil, errInvalidOggVersion
	}

	hdr := &oggPageHeader{
		Flags:        buf[5],
		GranulePos:   int64(binary.LittleEndian.Uint64(buf[6:14])), //nolint:gosec // signed on the wire
		SerialNumber: binary.LittleEndian.Uint32(buf[14:18]),
		SequenceNum:  binary.LittleEndian.Uint32(buf[18:22]),
	}
	if segments := int(buf[26]); segments > 0 {
		hdr.SegmentTable = make([]uint8, segments)
		if _, err := io.ReadFull(r, hdr.SegmentTable); err != nil {
			return nil, err
		}
	}
	return hdr, nil
}

// oggPacketReader yields the packets of a single logical stream in order,
// joining packets that span pages.
type oggPacketReader struct {
	r       io.ReadSeeker
	serial  uint32
	bound   bool
	queue   [][]byte
	partial []byte
	// dropLeading discards a continued packet whose start was skipped
	dropLeading bool
}

func newOggPacketReader(r io.ReadSeeker) *oggPacketReader {
	return &oggPacketReader{r: r}
}

// Next returns the next complete packet, or io.EOF at the end of the
// stream.
func (o *oggPacketReader) Next() ([]byte, error) {
	for len(o.queue) == 0 {
		if err := o.readPage(); err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, io.EOF
			}
			return nil, err
		}
	}
	pkt := o.queue[0]
	o.queue = o.queue[1:]
	return pkt, nil
}

// Rewind moves to offset, which must be a page boundary, and forgets any
// buffered packets.
func (o *oggPacketReader) Rewind(offset int64) error {
	if _, err := o.r.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	o.queue = nil
	o.partial = nil
	o.dropLeading = true
	return nil
}

// Offset returns the reader position. It is a page boundary once every
// packet of the last page has been taken.
func (o *oggPacketReader) Offset() (int64, error) {
	return o.r.Seek(0, io.SeekCurrent)
}

func (o *oggPacketReader) readPage() error {
	hdr, err := parseOggPageHeader(o.r)
	if err != nil {
		return err
	}
	body := make([]byte, hdr.bodyLen())
	if _, err := io.ReadFull(o.r, body); err != nil {
		return err
	}

	// only the first logical stream is decoded
	if !o.bound {
		o.serial = hdr.SerialNumber
		o.bound = true
	} else if hdr.SerialNumber != o.serial {
		return nil
	}

	continued := hdr.Flags&oggFlagContinued != 0
	if !continued {
		o.partial = nil
	}
	drop := o.dropLeading && continued && len(o.partial) == 0
	o.dropLeading = false

	offset := 0
	for _, seg := range hdr.SegmentTable {
		o.partial = append(o.partial, body[offset:offset+int(seg)]...)
		offset += int(seg)
		if seg == oggMaxSegmentSize {
			continue
		}
		if drop {
			drop = false
		} else {
			o.queue = append(o.queue, o.partial)
		}
		o.partial = nil
	}
	return nil
}
