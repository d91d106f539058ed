// Package spotify adapts the official Web API client library to the
// pipeline's library-source and playlist-sink ports.
package spotify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zmb3/spotify/v2"

	"github.com/netosnos/spotify-track-organizer/internal/core/domain"
	"github.com/netosnos/spotify-track-organizer/internal/core/ports"
)

const (
	// savedTracksPageLimit is the maximum page size the saved-tracks
	// endpoint allows.
	savedTracksPageLimit = 50
	// artistBatchSize is the maximum number of artist IDs per lookup.
	artistBatchSize = 50
	// addTracksBatchSize is the maximum number of items one playlist add
	// accepts.
	addTracksBatchSize = 100

	trackURIPrefix = "spotify:track:"

	// addBatchDelay spaces out consecutive playlist-add batches.
	addBatchDelay = 500 * time.Millisecond
)

// webAPI is the subset of the wrapped client this adapter uses; it allows
// the concrete client to be replaced in tests.
type webAPI interface {
	CurrentUsersTracks(ctx context.Context, opts ...spotify.RequestOption) (*spotify.SavedTrackPage, error)
	GetArtists(ctx context.Context, ids ...spotify.ID) ([]*spotify.FullArtist, error)
	CreatePlaylistForUser(ctx context.Context, userID, playlistName, description string, public bool, collaborative bool) (*spotify.FullPlaylist, error)
	AddTracksToPlaylist(ctx context.Context, playlistID spotify.ID, trackIDs ...spotify.ID) (string, error)
}

// Client wraps an authenticated Web API client together with the current
// user's ID.
type Client struct {
	api    webAPI
	userID string

	// batchDelay is the pause between consecutive playlist-add batches.
	batchDelay time.Duration
}

// compile-time interface assertions
var (
	_ ports.LibrarySource = (*Client)(nil)
	_ ports.PlaylistSink  = (*Client)(nil)
)

// SavedTracks fetches the user's complete saved-track library, following
// pagination in pages of 50.
func (c *Client) SavedTracks(ctx context.Context) ([]domain.Track, error) {
	var tracks []domain.Track
	offset := 0

	for {
		page, err := c.api.CurrentUsersTracks(ctx, spotify.Limit(savedTracksPageLimit), spotify.Offset(offset))
		if err != nil {
			return nil, fmt.Errorf("spotify adapter: saved tracks at offset %d: %w", offset, err)
		}
		if len(page.Tracks) == 0 {
			break
		}

		for _, saved := range page.Tracks {
			tracks = append(tracks, mapSavedTrack(saved))
		}

		if len(page.Tracks) < savedTracksPageLimit {
			break
		}
		offset += savedTracksPageLimit
	}

	return tracks, nil
}

// ArtistGenres resolves genre tags for the given artist IDs, batching
// lookups.
func (c *Client) ArtistGenres(ctx context.Context, artistIDs []string) (map[string][]string, error) {
	genres := make(map[string][]string, len(artistIDs))

	for start := 0; start < len(artistIDs); start += artistBatchSize {
		end := start + artistBatchSize
		if end > len(artistIDs) {
			end = len(artistIDs)
		}

		ids := make([]spotify.ID, 0, end-start)
		for _, id := range artistIDs[start:end] {
			ids = append(ids, spotify.ID(id))
		}

		artists, err := c.api.GetArtists(ctx, ids...)
		if err != nil {
			return nil, fmt.Errorf("spotify adapter: artist lookup: %w", err)
		}
		for _, artist := range artists {
			if artist == nil {
				continue
			}
			genres[string(artist.ID)] = lowerAll(artist.Genres)
		}
	}

	return genres, nil
}

// CreatePlaylist creates a private playlist for the current user.
func (c *Client) CreatePlaylist(ctx context.Context, name, description string) (string, error) {
	playlist, err := c.api.CreatePlaylistForUser(ctx, c.userID, name, description, false, false)
	if err != nil {
		return "", fmt.Errorf("spotify adapter: create playlist %q: %w", name, err)
	}
	return string(playlist.ID), nil
}

// AddTracks appends track URIs to a playlist in batches of 100.
func (c *Client) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	for start := 0; start < len(uris); start += addTracksBatchSize {
		if start > 0 && c.batchDelay > 0 {
			select {
			case <-time.After(c.batchDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		end := start + addTracksBatchSize
		if end > len(uris) {
			end = len(uris)
		}

		ids := make([]spotify.ID, 0, end-start)
		for _, uri := range uris[start:end] {
			ids = append(ids, spotify.ID(strings.TrimPrefix(uri, trackURIPrefix)))
		}

		if _, err := c.api.AddTracksToPlaylist(ctx, spotify.ID(playlistID), ids...); err != nil {
			return fmt.Errorf("spotify adapter: add tracks to playlist %s: %w", playlistID, err)
		}
	}
	return nil
}

func mapSavedTrack(saved spotify.SavedTrack) domain.Track {
	artists := make([]domain.Artist, len(saved.Artists))
	for i, a := range saved.Artists {
		artists[i] = domain.Artist{ID: string(a.ID), Name: a.Name}
	}

	addedAt, _ := time.Parse(time.RFC3339, saved.AddedAt)

	return domain.Track{
		ID:         string(saved.ID),
		Name:       saved.Name,
		Artists:    artists,
		Album:      saved.Album.Name,
		DurationMs: int(saved.Duration),
		Popularity: int(saved.Popularity),
		AddedAt:    addedAt,
	}
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}
