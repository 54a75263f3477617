package player

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/tunecrate/internal/tags"
)

func TestSniffFormat(t *testing.T) {
	tests := []struct {
		name string
		head []byte
		want Format
	}{
		{"id3", []byte("ID3\x04\x00\x00\x00\x00\x00\x00"), FormatMP3},
		{"mpeg frame", []byte{0xFF, 0xFB, 0x90, 0x64}, FormatMP3},
		{"adts", []byte{0xFF, 0xF1, 0x50, 0x80}, FormatADTS},
		{"flac", []byte("fLaC\x00\x00\x00\x22"), FormatFLAC},
		{"wav", []byte("RIFF\x24\x00\x00\x00WAVE"), FormatWAV},
		{"riff not wave", []byte("RIFF\x24\x00\x00\x00AVI "), FormatUnknown},
		{"ogg", []byte("OggS\x00\x02"), FormatOgg},
		{"mp4", []byte("\x00\x00\x00\x20ftypM4A "), FormatM4A},
		{"text", []byte("hello world!"), FormatUnknown},
		{"empty", nil, FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sniffFormat(tt.head))
		})
	}
}

func id3Header(size int) []byte {
	h := []byte("ID3\x03\x00\x00")
	h = append(h, byte(size>>21&0x7F), byte(size>>14&0x7F), byte(size>>7&0x7F), byte(size&0x7F))
	return append(h, make([]byte, size)...)
}

func TestDetect_FLACBehindID3(t *testing.T) {
	data := append(id3Header(20), []byte("fLaC\x00\x00\x00\x22rest")...)
	r := bytes.NewReader(data)

	kind, err := detect(r)
	require.NoError(t, err)
	assert.Equal(t, FormatFLAC, kind)

	// positioned on the stream marker
	next := make([]byte, 4)
	_, err = r.Read(next)
	require.NoError(t, err)
	assert.Equal(t, "fLaC", string(next))
}

func TestDetect_MP3RewindsToStart(t *testing.T) {
	data := append(id3Header(10), 0xFF, 0xFB, 0x90, 0x64)
	r := bytes.NewReader(data)

	kind, err := detect(r)
	require.NoError(t, err)
	assert.Equal(t, FormatMP3, kind)

	first := make([]byte, 3)
	_, err = r.Read(first)
	require.NoError(t, err)
	assert.Equal(t, "ID3", string(first))
}

func TestDecode_Unsupported(t *testing.T) {
	tests := map[string][]byte{
		"adts": {0xFF, 0xF1, 0x50, 0x80, 0x00, 0x1F, 0xFC},
		"text": []byte("definitely not audio"),
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "song.bin")
			require.NoError(t, os.WriteFile(path, data, 0o600))
			f, err := os.Open(path)
			require.NoError(t, err)
			defer f.Close()

			_, _, _, err = decode(f)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tags.ErrUnsupportedFormat))
		})
	}
}

func TestPlayer_PlayUnsupportedLeavesStopped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.aac")
	require.NoError(t, os.WriteFile(path, []byte{0xFF, 0xF1, 0x50, 0x80, 0x00}, 0o600))

	p := New()
	err := p.Play(path)

	require.ErrorIs(t, err, tags.ErrUnsupportedFormat)
	assert.Equal(t, Stopped, p.State())
	assert.Zero(t, p.Sequence())
}

func TestInt16ToStereo(t *testing.T) {
	mono := int16ToStereo([]int16{16384, -16384}, 1)
	assert.Equal(t, [][2]float64{{0.5, 0.5}, {-0.5, -0.5}}, mono)

	stereo := int16ToStereo([]int16{16384, 0, 0, -32768}, 2)
	assert.Equal(t, [][2]float64{{0.5, 0}, {0, -1}}, stereo)

	surround := int16ToStereo([]int16{1, 2, 3, 4, 5, 6}, 3)
	assert.Len(t, surround, 2)
}

func TestALACToStereo(t *testing.T) {
	t.Run("16-bit", func(t *testing.T) {
		// 16384 and -32768, little endian
		frames := alacToStereo([]byte{0x00, 0x40, 0x00, 0x80}, 16, 2)
		assert.Equal(t, [][2]float64{{0.5, -1}}, frames)
	})

	t.Run("24-bit sign extension", func(t *testing.T) {
		data := []byte{
			0x00, 0x00, 0x40, // 0x400000 = 0.5
			0x00, 0x00, 0xC0, // 0xC00000 = -0.5
			0xFF, 0xFF, 0xFF, // -1 LSB
			0x00, 0x00, 0x80, // most negative
		}
		frames := alacToStereo(data, 24, 2)
		require.Len(t, frames, 2)
		assert.Equal(t, [2]float64{0.5, -0.5}, frames[0])
		assert.InDelta(t, -1.0/8388608.0, frames[1][0], 1e-12)
		assert.Equal(t, -1.0, frames[1][1])
	})

	t.Run("mono duplicated", func(t *testing.T) {
		frames := alacToStereo([]byte{0x00, 0x00, 0x40}, 24, 1)
		assert.Equal(t, [][2]float64{{0.5, 0.5}}, frames)
	})

	t.Run("trailing partial frame dropped", func(t *testing.T) {
		frames := alacToStereo([]byte{0x00, 0x40, 0x00, 0x40, 0x01}, 16, 2)
		assert.Len(t, frames, 1)
	})
}
