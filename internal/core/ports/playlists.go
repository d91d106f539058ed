package ports

import "context"

// PlaylistSink materializes classification results on the streaming service.
// A dry-run implementation may no-op both calls.
type PlaylistSink interface {
	// CreatePlaylist creates a private playlist and returns its ID.
	CreatePlaylist(ctx context.Context, name, description string) (string, error)

	// AddTracks appends playable-item identifiers to a playlist.
	AddTracks(ctx context.Context, playlistID string, uris []string) error
}
