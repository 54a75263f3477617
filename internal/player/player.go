// Package player drives the single audio output: it decodes one local file
// at a time and plays it through the beep speaker.
package player

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"go.uber.org/zap"

	"github.com/llehouerou/tunecrate/internal/logger"
)

// Player plays one source at a time through the speaker.
type Player struct {
	mu sync.Mutex

	state    State
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	streamer beep.StreamSeekCloser
	format   beep.Format
	file     *os.File
	kind     Format

	volumeLevel float64
	muted       bool

	seq        uint64
	finishedCh chan uint64
}

var (
	speakerMu          sync.Mutex
	speakerInitialized bool
	speakerSampleRate  beep.SampleRate
)

// New creates a stopped player at full volume.
func New() *Player {
	return &Player{
		state:       Stopped,
		volumeLevel: 1,
		finishedCh:  make(chan uint64, 1),
	}
}

// Play starts playback of the audio file at path. The format is taken from
// the file header, not the name. Any current source is stopped and cleared
// from the speaker before the new one is queued.
func (p *Player) Play(path string) error {
	p.Stop()

	// drop a finish signal left over from the previous source
	select {
	case <-p.finishedCh:
	default:
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}

	streamer, format, kind, err := decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	rate, err := initSpeaker(format.SampleRate)
	if err != nil {
		streamer.Close()
		f.Close()
		return fmt.Errorf("init speaker: %w", err)
	}

	p.mu.Lock()
	p.file = f
	p.streamer = streamer
	p.format = format
	p.kind = kind

	var playStreamer beep.Streamer = streamer
	if format.SampleRate != rate {
		playStreamer = beep.Resample(4, format.SampleRate, rate, streamer)
	}
	p.ctrl = &beep.Ctrl{Streamer: playStreamer}
	p.volume = &effects.Volume{
		Streamer: p.ctrl,
		Base:     2,
		Volume:   levelToVolume(p.volumeLevel),
		Silent:   p.muted,
	}
	p.seq++
	seq := p.seq
	p.state = Playing
	out := p.volume
	finished := p.finishedCh
	p.mu.Unlock()

	logger.L().Debug("playback started",
		zap.String("format", string(kind)),
		zap.Int("sample_rate", int(format.SampleRate)),
		zap.Uint64("seq", seq),
	)

	// the callback runs on the speaker goroutine with the speaker lock held
	speaker.Play(beep.Seq(out, beep.Callback(func() {
		select {
		case finished <- seq:
		default:
		}
	})))

	return nil
}

// Sequence returns the sequence number of the source started last.
func (p *Player) Sequence() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seq
}

// FinishedChan delivers the sequence of a source that played to its end.
func (p *Player) FinishedChan() <-chan uint64 {
	return p.finishedCh
}

// Format returns the container/codec of the current source.
func (p *Player) Format() Format {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.kind
}

// initSpeaker initializes the speaker on first use with the rate of the
// first source. Later sources are resampled to that rate.
func initSpeaker(rate beep.SampleRate) (beep.SampleRate, error) {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	if speakerInitialized {
		return speakerSampleRate, nil
	}
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return 0, err
	}
	speakerInitialized = true
	speakerSampleRate = rate
	return rate, nil
}

func speakerReady() bool {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	return speakerInitialized
}
