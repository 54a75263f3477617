package player

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// oggPage builds one page. The lacing table is derived from packets; when
// open is set the last packet continues on the next page.
func oggPage(flags byte, granule int64, serial, seq uint32, open bool, packets ...[]byte) []byte {
	var lacing []byte
	var body []byte
	for i, p := range packets {
		body = append(body, p...)
		n := len(p)
		for n >= 255 {
			lacing = append(lacing, 255)
			n -= 255
		}
		if i == len(packets)-1 && open {
			continue
		}
		lacing = append(lacing, byte(n))
	}

	h := make([]byte, oggHeaderLen)
	copy(h, "OggS")
	h[5] = flags
	binary.LittleEndian.PutUint64(h[6:], uint64(granule)) //nolint:gosec // test data
	binary.LittleEndian.PutUint32(h[14:], serial)
	binary.LittleEndian.PutUint32(h[18:], seq)
	h[26] = byte(len(lacing))
	return append(append(h, lacing...), body...)
}

func opusHead(channels byte, preSkip uint16) []byte {
	h := []byte("OpusHead")
	h = append(h, 1, channels)
	h = binary.LittleEndian.AppendUint16(h, preSkip)
	h = binary.LittleEndian.AppendUint32(h, 44100)
	return append(h, 0, 0, 0)
}

func TestParseOggPageHeader(t *testing.T) {
	page := oggPage(oggFlagContinued, 960, 7, 3, false, []byte("abc"))

	hdr, err := parseOggPageHeader(bytes.NewReader(page))
	require.NoError(t, err)
	assert.Equal(t, byte(oggFlagContinued), hdr.Flags)
	assert.Equal(t, int64(960), hdr.GranulePos)
	assert.Equal(t, uint32(7), hdr.SerialNumber)
	assert.Equal(t, uint32(3), hdr.SequenceNum)
	assert.Equal(t, 3, hdr.bodyLen())
}

func TestParseOggPageHeader_Invalid(t *testing.T) {
	_, err := parseOggPageHeader(bytes.NewReader(append([]byte("RIFF"), make([]byte, 30)...)))
	assert.ErrorIs(t, err, errInvalidOggMagic)

	page := oggPage(0, 0, 1, 0, false, []byte("x"))
	page[4] = 1
	_, err = parseOggPageHeader(bytes.NewReader(page))
	assert.ErrorIs(t, err, errInvalidOggVersion)
}

func TestOggPacketReader_JoinsAcrossPages(t *testing.T) {
	long := bytes.Repeat([]byte{'L'}, 600)
	var stream []byte
	stream = append(stream, oggPage(0, 0, 1, 0, false, []byte("one"), []byte("two"))...)
	stream = append(stream, oggPage(0, -1, 1, 1, true, long[:510])...)
	stream = append(stream, oggPage(oggFlagContinued, 100, 1, 2, false, long[510:], []byte("tail"))...)

	r := newOggPacketReader(bytes.NewReader(stream))
	var got [][]byte
	for {
		pkt, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		got = append(got, pkt)
	}

	require.Len(t, got, 4)
	assert.Equal(t, "one", string(got[0]))
	assert.Equal(t, "two", string(got[1]))
	assert.Equal(t, long, got[2])
	assert.Equal(t, "tail", string(got[3]))
}

func TestOggPacketReader_IgnoresOtherStreams(t *testing.T) {
	var stream []byte
	stream = append(stream, oggPage(0, 0, 1, 0, false, []byte("a"))...)
	stream = append(stream, oggPage(0, 0, 2, 0, false, []byte("other"))...)
	stream = append(stream, oggPage(0, 0, 1, 1, false, []byte("b"))...)

	r := newOggPacketReader(bytes.NewReader(stream))
	first, err := r.Next()
	require.NoError(t, err)
	second, err := r.Next()
	require.NoError(t, err)

	assert.Equal(t, "a", string(first))
	assert.Equal(t, "b", string(second))
}

func TestOggPacketReader_RewindDropsOrphanContinuation(t *testing.T) {
	page1 := oggPage(0, 0, 1, 0, true, bytes.Repeat([]byte{'h'}, 255))
	page2 := oggPage(oggFlagContinued, 0, 1, 1, false, []byte("rest"), []byte("next"))
	stream := append(page1, page2...)

	r := newOggPacketReader(bytes.NewReader(stream))
	require.NoError(t, r.Rewind(int64(len(page1))))

	pkt, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "next", string(pkt))
}

func TestDetectOggCodec(t *testing.T) {
	codec, err := detectOggCodec(opusHead(2, 312))
	require.NoError(t, err)
	assert.Equal(t, 48000, codec.SampleRate())
	assert.Equal(t, 2, codec.Channels())
	assert.Equal(t, 312, codec.PreSkip())
	assert.True(t, codec.Ready())

	_, err = detectOggCodec([]byte("Speex   "))
	assert.ErrorIs(t, err, errUnknownOggCodec)

	_, err = detectOggCodec([]byte("OpusHead"))
	assert.ErrorIs(t, err, errInvalidOpusHead)

	_, err = detectOggCodec(opusHead(6, 0))
	assert.Error(t, err)

	_, err = detectOggCodec([]byte("\x01vorbis\x01\x00\x00\x00"))
	assert.ErrorIs(t, err, errInvalidVorbisHeader)
}

func TestDecodeOgg_OpusHeaders(t *testing.T) {
	var stream []byte
	stream = append(stream, oggPage(0x02, 0, 9, 0, false, opusHead(2, 312))...)
	stream = append(stream, oggPage(0, 0, 9, 1, false, []byte("OpusTags\x00\x00\x00\x00\x00\x00\x00\x00"))...)
	dataStart := len(stream)
	stream = append(stream, oggPage(0x04, 48312, 9, 2, false, []byte{0xFC})...)

	streamer, format, err := decodeOgg(nopCloser{bytes.NewReader(stream)})
	require.NoError(t, err)
	defer streamer.Close()

	assert.Equal(t, 48000, int(format.SampleRate))
	assert.Equal(t, 48000, streamer.Len())
	assert.Equal(t, 0, streamer.Position())

	dec, ok := streamer.(*oggDecoder)
	require.True(t, ok)
	assert.Equal(t, int64(dataStart), dec.dataStart)
}

type nopCloser struct{ *bytes.Reader }

func (nopCloser) Close() error { return nil }
