// Package playback tracks the current song and drives the audio output for
// it.
package playback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/tunecrate/internal/catalog"
	"github.com/llehouerou/tunecrate/internal/errmsg"
	"github.com/llehouerou/tunecrate/internal/logger"
	"github.com/llehouerou/tunecrate/internal/player"
)

var (
	// ErrNoSong is returned by Play when no song is current.
	ErrNoSong = errors.New("no song selected")
	// ErrSuperseded is returned by Select when a later selection or a Stop
	// replaced it before its audio arrived.
	ErrSuperseded = errors.New("selection superseded")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("playback session closed")
)

// Fetcher opens the audio behind a song URL. *catalog.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// Session owns the single audio output and the current song.
type Session struct {
	mu sync.Mutex

	player  player.Interface
	fetcher Fetcher

	current *catalog.Song
	loading bool
	gen     uint64
	cancel  context.CancelFunc

	// spoolDir is where fetched audio is written; empty means os.TempDir.
	spoolDir string
	spool    string

	subs   []*Subscription
	done   chan struct{}
	closed bool
}

// New creates a session over p. It watches p for end of track until Close.
func New(p player.Interface, f Fetcher) *Session {
	s := &Session{
		player:  p,
		fetcher: f,
		done:    make(chan struct{}),
	}
	go s.watchFinished()
	return s
}

// Select makes song current and plays it. Selecting the current song
// pauses it while it plays, resumes it while paused, and restarts it once it
// has ended. Selecting another song stops the previous output first.
//
// Select blocks while the audio is fetched. It returns ErrSuperseded if
// another selection or a Stop happened meanwhile.
func (s *Session) Select(ctx context.Context, song catalog.Song) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}

	if s.current != nil && s.current.URL == song.URL {
		switch {
		case s.loading:
			s.mu.Unlock()
			return nil
		case s.player.State() == player.Playing:
			s.player.Pause()
			s.emitLocked(StatePaused)
			s.mu.Unlock()
			return nil
		case s.player.State() == player.Paused:
			s.player.Resume()
			s.emitLocked(StatePlaying)
			s.mu.Unlock()
			return nil
		}
	}
	s.mu.Unlock()

	return s.start(ctx, song)
}

// start stops whatever is current, fetches song and plays it.
func (s *Session) start(ctx context.Context, song catalog.Song) error {
	s.mu.Lock()
	s.releaseLocked()
	s.current = &song
	s.loading = true
	s.gen++
	gen := s.gen
	fctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.emitLocked(StateLoading)
	s.mu.Unlock()

	log := logger.L().With(zap.String("song_id", song.ID), zap.Uint64("gen", gen))
	log.Debug("fetching audio", zap.String("url", song.URL))

	path, fetchErr := s.spoolAudio(fctx, song.URL)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || s.closed {
		if path != "" {
			_ = os.Remove(path)
		}
		log.Debug("selection superseded")
		return ErrSuperseded
	}
	s.cancel = nil
	s.loading = false

	if fetchErr != nil {
		return s.failLocked(errmsg.OpPlaybackFetch, song, fetchErr)
	}

	if err := s.player.Play(path); err != nil {
		_ = os.Remove(path)
		return s.failLocked(errmsg.OpPlaybackStart, song, err)
	}
	s.spool = path
	s.emitLocked(StatePlaying)
	log.Info("playing", zap.String("title", song.Title))
	return nil
}

// failLocked drops the current song and reports err to subscribers.
func (s *Session) failLocked(op errmsg.Op, song catalog.Song, err error) error {
	logger.L().Warn("playback failed",
		zap.String("op", string(op)),
		zap.String("song_id", song.ID),
		zap.Error(err),
	)
	s.current = nil
	s.emitLocked(StateStopped)
	for _, sub := range s.subs {
		sub.sendError(ErrorEvent{Operation: op, Song: song, Err: err})
	}
	return errmsg.Wrap(op, err)
}

// spoolAudio downloads url into a temp file and returns its path.
func (s *Session) spoolAudio(ctx context.Context, url string) (string, error) {
	body, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	defer body.Close()

	f, err := os.CreateTemp(s.spoolDir, "tunecrate-*.audio")
	if err != nil {
		return "", fmt.Errorf("create spool file: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// Play resumes a paused song or restarts an ended one.
func (s *Session) Play(ctx context.Context) error {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return ErrNoSong
	}
	if s.loading || s.player.State() == player.Playing {
		s.mu.Unlock()
		return nil
	}
	if s.player.State() == player.Paused {
		s.player.Resume()
		s.emitLocked(StatePlaying)
		s.mu.Unlock()
		return nil
	}
	song := *s.current
	s.mu.Unlock()

	return s.start(ctx, song)
}

// Pause pauses the current song if it plays.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player.State() != player.Playing {
		return
	}
	s.player.Pause()
	s.emitLocked(StatePaused)
}

// Toggle pauses a playing song and plays anything else that is current.
func (s *Session) Toggle(ctx context.Context) error {
	s.mu.Lock()
	playing := !s.loading && s.player.State() == player.Playing
	s.mu.Unlock()

	if playing {
		s.Pause()
		return nil
	}
	return s.Play(ctx)
}

// Stop stops playback and clears the current song. An in-flight fetch is
// cancelled.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil && !s.player.State().IsActive() {
		return
	}
	s.gen++
	s.releaseLocked()
	s.current = nil
	s.emitLocked(StateStopped)
}

// releaseLocked cancels any fetch, stops the output and removes the spool
// file.
func (s *Session) releaseLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.loading = false
	s.player.Stop()
	if s.spool != "" {
		_ = os.Remove(s.spool)
		s.spool = ""
	}
}

func (s *Session) watchFinished() {
	for {
		select {
		case seq := <-s.player.FinishedChan():
			s.handleFinished(seq)
		case <-s.done:
			return
		}
	}
}

// handleFinished ends the current song. The song stays current so it can
// still be marked and restarted.
func (s *Session) handleFinished(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.current == nil || s.loading || seq != s.player.Sequence() {
		return
	}
	s.player.Stop()
	if s.spool != "" {
		_ = os.Remove(s.spool)
		s.spool = ""
	}
	logger.L().Debug("track finished", zap.String("song_id", s.current.ID))
	s.emitLocked(StateStopped)
}

// Selection returns the current song and whether it is playing.
func (s *Session) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Selection{}
	}
	song := *s.current
	return Selection{
		Song:    &song,
		Playing: !s.loading && s.player.State() == player.Playing,
	}
}

// State returns the playback state of the current song.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	if s.current == nil {
		return StateStopped
	}
	if s.loading {
		return StateLoading
	}
	switch s.player.State() {
	case player.Playing:
		return StatePlaying
	case player.Paused:
		return StatePaused
	default:
		return StateStopped
	}
}

// Position returns the playback position of the current song.
func (s *Session) Position() time.Duration { return s.player.Position() }

// Duration returns the decoded length of the current song.
func (s *Session) Duration() time.Duration { return s.player.Duration() }

// SetVolume sets the output level, 0..1.
func (s *Session) SetVolume(level float64) { s.player.SetVolume(level) }

// Volume returns the output level.
func (s *Session) Volume() float64 { return s.player.Volume() }

// SetMuted mutes or unmutes the output.
func (s *Session) SetMuted(muted bool) { s.player.SetMuted(muted) }

// Muted reports whether the output is muted.
func (s *Session) Muted() bool { return s.player.Muted() }

// Subscribe creates a new event subscription.
func (s *Session) Subscribe() *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub := newSubscription()
	if s.closed {
		sub.close()
		return sub
	}
	s.subs = append(s.subs, sub)
	return sub
}

func (s *Session) emitLocked(state State) {
	var song *catalog.Song
	if s.current != nil {
		c := *s.current
		song = &c
	}
	for _, sub := range s.subs {
		sub.sendNowPlaying(NowPlaying{Song: song, State: state})
	}
}

// Close stops playback and ends every subscription.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.gen++
	s.releaseLocked()
	s.current = nil
	close(s.done)

	for _, sub := range s.subs {
		sub.close()
	}
	s.subs = nil
	return nil
}
