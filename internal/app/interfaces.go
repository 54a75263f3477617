package app

import (
	"context"
	"time"

	"github.com/llehouerou/tunecrate/internal/catalog"
	"github.com/llehouerou/tunecrate/internal/playback"
	"github.com/llehouerou/tunecrate/internal/ui/playerbar"
	"github.com/llehouerou/tunecrate/internal/upload"
)

// Compile-time assertions that the real collaborators satisfy the interfaces.
var (
	_ CatalogClient = (*catalog.Client)(nil)
	_ Playback      = (*playback.Session)(nil)
)

// CatalogClient talks to the song API.
type CatalogClient interface {
	List(ctx context.Context) ([]catalog.Song, error)
	Upload(ctx context.Context, p *upload.Pending) (catalog.Song, error)
	Delete(ctx context.Context, id string) error
	Limits() upload.Limits
}

// Playback controls the single audio output.
type Playback interface {
	playerbar.Source

	Select(ctx context.Context, song catalog.Song) error
	Toggle(ctx context.Context) error
	Stop()
	SetVolume(level float64)
	SetMuted(muted bool)
	Subscribe() *playback.Subscription
}

// now is replaced in tests.
var now = time.Now
