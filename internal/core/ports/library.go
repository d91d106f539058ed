package ports

import (
	"context"

	"github.com/netosnos/spotify-track-organizer/internal/core/domain"
)

// LibrarySource provides access to the user's saved-track library on the
// streaming service.
type LibrarySource interface {
	// SavedTracks fetches the complete library, following pagination.
	SavedTracks(ctx context.Context) ([]domain.Track, error)

	// ArtistGenres resolves genre tags for the given artist IDs.
	ArtistGenres(ctx context.Context, artistIDs []string) (map[string][]string, error)
}
