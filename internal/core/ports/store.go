package ports

import (
	"context"

	"github.com/netosnos/spotify-track-organizer/internal/core/domain"
)

// TrackStore is the local library cache the pipeline stages read from and
// write to between runs.
type TrackStore interface {
	UpsertTracks(ctx context.Context, tracks []domain.Track) error
	Tracks(ctx context.Context) ([]domain.Track, error)
	UpdateAnalysisID(ctx context.Context, trackID, analysisID string) error
	UpdateFeatures(ctx context.Context, trackID string, features map[string]float64) error
	UpdateBucket(ctx context.Context, trackID, bucket string) error
}

// SnapshotStore persists stage outputs as JSON files with a metadata
// envelope, mirroring the files the pipeline exchanges between runs.
type SnapshotStore interface {
	WriteTracks(name string, tracks []domain.Track) error
	ReadTracks(name string) ([]domain.Track, error)
}
