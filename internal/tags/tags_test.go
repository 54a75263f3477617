package tags

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bogem/id3v2/v2"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createMinimalMP3 creates a minimal valid MP3 file for testing.
// Returns MP3 frame header + padding (417 bytes total for 128kbps frame).
func createMinimalMP3(t *testing.T, path string) {
	t.Helper()
	// MP3 frame header (MPEG1 Layer3, 128kbps, 44100Hz, stereo) + padding
	mp3Frame := make([]byte, 417)
	mp3Frame[0] = 0xff
	mp3Frame[1] = 0xfb
	mp3Frame[2] = 0x90
	mp3Frame[3] = 0x00

	if err := os.WriteFile(path, mp3Frame, 0o600); err != nil {
		t.Fatalf("failed to create test MP3: %v", err)
	}
}

func TestTag_Year(t *testing.T) {
	tests := []struct {
		name string
		date string
		want int
	}{
		{"empty", "", 0},
		{"year only", "2023", 2023},
		{"full date", "2023-06-15", 2023},
		{"invalid", "invalid", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag := &Tag{Date: tt.date}
			if got := tag.Year(); got != tt.want {
				t.Errorf("Year() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTag_Sanitize(t *testing.T) {
	tag := &Tag{Title: "  So What\x00\x00", Artist: "Miles Davis ", Date: " 1959"}
	tag.Sanitize()

	assert.Equal(t, "So What", tag.Title)
	assert.Equal(t, "Miles Davis", tag.Artist)
	assert.Equal(t, "1959", tag.Date)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00"},
		{-time.Second, "00:00"},
		{5 * time.Second, "00:05"},
		{3*time.Minute + 7*time.Second, "03:07"},
		{3*time.Minute + 7*time.Second + 600*time.Millisecond, "03:08"},
		{75*time.Minute + 3*time.Second, "75:03"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.in))
		})
	}
}

func TestIsAudioFile(t *testing.T) {
	assert.True(t, IsAudioFile("song.mp3"))
	assert.True(t, IsAudioFile("song.FLAC"))
	assert.True(t, IsAudioFile("/music/a.wav"))
	assert.True(t, IsAudioFile("a.m4a"))
	assert.False(t, IsAudioFile("cover.jpg"))
	assert.False(t, IsAudioFile("noext"))
}

func TestRead_MP3WithID3(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.mp3")
	createMinimalMP3(t, path)

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	require.NoError(t, err)
	tag.SetTitle("Test Title")
	tag.SetArtist("Test Artist")
	tag.SetAlbum("Test Album")
	tag.SetYear("2024")
	tag.SetGenre("Rock")
	require.NoError(t, tag.Save())
	tag.Close()

	got, err := Read(path)
	require.NoError(t, err)

	assert.Equal(t, "Test Title", got.Title)
	assert.Equal(t, "Test Artist", got.Artist)
	assert.Equal(t, "Test Album", got.Album)
	assert.Equal(t, "Rock", got.Genre)
	assert.Equal(t, 2024, got.Year())
}

func TestReadMP3WithID3v2Fallback_UsesAlbumArtist(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Untitled Track.mp3")
	createMinimalMP3(t, path)

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	require.NoError(t, err)
	tag.AddTextFrame("TPE2", id3v2.EncodingUTF8, "Album Artist")
	require.NoError(t, tag.Save())
	tag.Close()

	got, err := readMP3WithID3v2Fallback(path)
	require.NoError(t, err)

	assert.Equal(t, "Untitled Track", got.Title)
	assert.Equal(t, "Album Artist", got.Artist)
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.mp3"))
	require.Error(t, err)
}

func TestReadDuration_WAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	format := beep.Format{SampleRate: 8000, NumChannels: 1, Precision: 2}
	require.NoError(t, wav.Encode(f, beep.Silence(8000*3), format))
	require.NoError(t, f.Close())

	d, err := ReadDuration(path)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, d)
}

func TestReadDuration_Unsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	_, err := ReadDuration(path)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func oggPage(granule int64, payload []byte) []byte {
	page := make([]byte, 27, 27+len(payload))
	copy(page, "OggS")
	binary.LittleEndian.PutUint64(page[6:], uint64(granule)) //nolint:gosec // test data
	return append(page, payload...)
}

func TestOggSampleRate(t *testing.T) {
	vorbisIdent := append([]byte("\x01vorbis"), 0, 0, 0, 0, 2)
	vorbisIdent = binary.LittleEndian.AppendUint32(vorbisIdent, 44100)

	rate, err := oggSampleRate(oggPage(0, vorbisIdent))
	require.NoError(t, err)
	assert.Equal(t, 44100, rate)

	rate, err = oggSampleRate(oggPage(0, []byte("OpusHead\x01\x02")))
	require.NoError(t, err)
	assert.Equal(t, opusSampleRate, rate)

	_, err = oggSampleRate([]byte("not an ogg stream"))
	require.Error(t, err)
}

func TestLastGranule(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(oggPage(1000, []byte("first")))
	buf.Write(oggPage(96000, []byte("last")))

	g, ok := lastGranule(buf.Bytes())
	require.True(t, ok)
	assert.Equal(t, int64(96000), g)

	_, ok = lastGranule([]byte("no pages here, just some bytes of text"))
	assert.False(t, ok)
}

func TestSkipID3v2(t *testing.T) {
	// 10-byte header declaring a 5-byte body
	data := append([]byte{'I', 'D', '3', 4, 0, 0, 0, 0, 0, 5}, []byte("xxxxxfLaC")...)
	r := bytes.NewReader(data)
	require.NoError(t, SkipID3v2(r))

	rest := make([]byte, 4)
	_, err := r.Read(rest)
	require.NoError(t, err)
	assert.Equal(t, "fLaC", string(rest))

	plain := bytes.NewReader([]byte("fLaC and more bytes"))
	require.NoError(t, SkipID3v2(plain))
	pos, _ := plain.Seek(0, 1)
	assert.Equal(t, int64(0), pos)
}
