package playback

import (
	"context"
	"errors"
	"io"
	"os"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/tunecrate/internal/catalog"
	"github.com/llehouerou/tunecrate/internal/errmsg"
	"github.com/llehouerou/tunecrate/internal/player"
)

type fetchFunc func(ctx context.Context, url string) (io.ReadCloser, error)

func (f fetchFunc) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	return f(ctx, url)
}

// echoFetcher serves "audio:<url>" for every URL.
var echoFetcher = fetchFunc(func(_ context.Context, url string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("audio:" + url)), nil
})

var (
	songA = catalog.Song{ID: "1", Title: "Alpha", URL: "/media/a.mp3"}
	songB = catalog.Song{ID: "2", Title: "Beta", URL: "/media/b.mp3"}
)

func newTestSession(t *testing.T, f Fetcher) (*Session, *player.Mock) {
	t.Helper()
	p := player.NewMock()
	s := New(p, f)
	s.spoolDir = t.TempDir()
	t.Cleanup(func() { _ = s.Close() })
	return s, p
}

func drainNowPlaying(sub *Subscription) []State {
	var states []State
	for {
		select {
		case e := <-sub.NowPlaying:
			states = append(states, e.State)
		default:
			return states
		}
	}
}

func TestSession_SelectFetchesAndPlays(t *testing.T) {
	s, p := newTestSession(t, echoFetcher)
	sub := s.Subscribe()

	require.NoError(t, s.Select(context.Background(), songA))

	plays := p.PlayCalls()
	require.Len(t, plays, 1)
	data, err := os.ReadFile(plays[0])
	require.NoError(t, err)
	assert.Equal(t, "audio:/media/a.mp3", string(data))

	assert.Equal(t, StatePlaying, s.State())
	sel := s.Selection()
	require.NotNil(t, sel.Song)
	assert.Equal(t, "1", sel.Song.ID)
	assert.True(t, sel.Playing)
	assert.Equal(t, []State{StateLoading, StatePlaying}, drainNowPlaying(sub))
}

func TestSession_SelectOtherStopsPreviousFirst(t *testing.T) {
	s, p := newTestSession(t, echoFetcher)

	require.NoError(t, s.Select(context.Background(), songA))
	first := p.PlayCalls()[0]
	require.NoError(t, s.Select(context.Background(), songB))

	calls := p.Calls()
	second := p.PlayCalls()[1]
	playA := slices.Index(calls, "play:"+first)
	playB := slices.Index(calls, "play:"+second)
	require.GreaterOrEqual(t, playA, 0)
	require.Greater(t, playB, playA)
	assert.Contains(t, calls[playA+1:playB], "stop", "previous output must stop before the next starts")

	_, err := os.Stat(first)
	assert.True(t, os.IsNotExist(err), "previous spool file should be removed")
	assert.Equal(t, "2", s.Selection().Song.ID)
}

func TestSession_ReselectPausesThenResumes(t *testing.T) {
	s, p := newTestSession(t, echoFetcher)
	require.NoError(t, s.Select(context.Background(), songA))

	require.NoError(t, s.Select(context.Background(), songA))
	assert.Equal(t, StatePaused, s.State())
	sel := s.Selection()
	require.NotNil(t, sel.Song, "pausing keeps the current song")
	assert.Equal(t, "1", sel.Song.ID)
	assert.False(t, sel.Playing)

	require.NoError(t, s.Select(context.Background(), songA))
	assert.Equal(t, StatePlaying, s.State())
	assert.Len(t, p.PlayCalls(), 1, "resume must not refetch")
}

func TestSession_EndOfTrackKeepsCurrent(t *testing.T) {
	s, p := newTestSession(t, echoFetcher)
	sub := s.Subscribe()
	require.NoError(t, s.Select(context.Background(), songA))
	spool := p.PlayCalls()[0]
	drainNowPlaying(sub)

	p.SimulateFinished()

	select {
	case e := <-sub.NowPlaying:
		assert.Equal(t, StateStopped, e.State)
		require.NotNil(t, e.Song)
		assert.Equal(t, "1", e.Song.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("no event after end of track")
	}

	sel := s.Selection()
	require.NotNil(t, sel.Song)
	assert.False(t, sel.Playing)
	assert.Equal(t, StateStopped, s.State())
	_, err := os.Stat(spool)
	assert.True(t, os.IsNotExist(err))

	// selecting the ended song plays it again
	require.NoError(t, s.Select(context.Background(), songA))
	assert.Len(t, p.PlayCalls(), 2)
	assert.Equal(t, StatePlaying, s.State())
}

func TestSession_StaleFinishIgnored(t *testing.T) {
	s, p := newTestSession(t, echoFetcher)
	sub := s.Subscribe()
	require.NoError(t, s.Select(context.Background(), songA))
	require.NoError(t, s.Select(context.Background(), songB))
	drainNowPlaying(sub)

	p.SimulateFinishedSeq(1)

	select {
	case e := <-sub.NowPlaying:
		t.Fatalf("unexpected event %+v", e)
	case <-time.After(100 * time.Millisecond):
	}
	assert.Equal(t, StatePlaying, s.State())
}

func TestSession_FetchFailure(t *testing.T) {
	boom := &catalog.APIError{Status: 404, Message: "song not found"}
	s, p := newTestSession(t, fetchFunc(func(context.Context, string) (io.ReadCloser, error) {
		return nil, boom
	}))
	sub := s.Subscribe()

	err := s.Select(context.Background(), songA)

	require.Error(t, err)
	var apiErr *catalog.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Empty(t, p.PlayCalls())
	assert.Nil(t, s.Selection().Song)

	select {
	case e := <-sub.Error:
		assert.Equal(t, errmsg.OpPlaybackFetch, e.Operation)
		assert.Equal(t, "1", e.Song.ID)
	default:
		t.Fatal("no error event")
	}
}

func TestSession_PlayerFailure(t *testing.T) {
	s, p := newTestSession(t, echoFetcher)
	p.SetPlayError(errors.New("unsupported format"))

	err := s.Select(context.Background(), songA)

	require.Error(t, err)
	assert.Contains(t, err.Error(), string(errmsg.OpPlaybackStart))
	assert.Equal(t, StateStopped, s.State())
	entries, _ := os.ReadDir(s.spoolDir)
	assert.Empty(t, entries, "spool file should be removed")
}

func TestSession_LaterSelectionSupersedesFetch(t *testing.T) {
	started := make(chan struct{})
	s, p := newTestSession(t, fetchFunc(func(ctx context.Context, url string) (io.ReadCloser, error) {
		if url == songA.URL {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return io.NopCloser(strings.NewReader("b")), nil
	}))

	errA := make(chan error, 1)
	go func() { errA <- s.Select(context.Background(), songA) }()
	<-started

	require.NoError(t, s.Select(context.Background(), songB))

	select {
	case err := <-errA:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(2 * time.Second):
		t.Fatal("first selection never returned")
	}
	assert.Len(t, p.PlayCalls(), 1)
	assert.Equal(t, "2", s.Selection().Song.ID)
	assert.Equal(t, StatePlaying, s.State())
}

func TestSession_StopClearsCurrent(t *testing.T) {
	s, p := newTestSession(t, echoFetcher)
	require.NoError(t, s.Select(context.Background(), songA))
	spool := p.PlayCalls()[0]

	s.Stop()

	assert.Nil(t, s.Selection().Song)
	assert.Equal(t, StateStopped, s.State())
	_, err := os.Stat(spool)
	assert.True(t, os.IsNotExist(err))
	assert.ErrorIs(t, s.Play(context.Background()), ErrNoSong)
}

func TestSession_Toggle(t *testing.T) {
	s, p := newTestSession(t, echoFetcher)
	require.NoError(t, s.Select(context.Background(), songA))

	require.NoError(t, s.Toggle(context.Background()))
	assert.Equal(t, StatePaused, s.State())

	require.NoError(t, s.Toggle(context.Background()))
	assert.Equal(t, StatePlaying, s.State())

	s.Pause()
	require.NoError(t, s.Play(context.Background()))
	assert.Equal(t, StatePlaying, s.State())
	assert.Len(t, p.PlayCalls(), 1)
}

func TestSession_VolumePassThrough(t *testing.T) {
	s, p := newTestSession(t, echoFetcher)

	s.SetVolume(0.4)
	s.SetMuted(true)

	assert.InDelta(t, 0.4, p.Volume(), 1e-9)
	assert.True(t, s.Muted())
}

func TestSession_CloseEndsSubscriptions(t *testing.T) {
	p := player.NewMock()
	s := New(p, echoFetcher)
	sub := s.Subscribe()

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	select {
	case <-sub.Done:
	default:
		t.Fatal("Done not closed")
	}
	assert.ErrorIs(t, s.Select(context.Background(), songA), ErrClosed)
}
