// Package services contains the pipeline stages that turn a saved-track
// library into mood playlists. Each stage reads its input from the shared
// store, calls out through a port, and records its output for the next
// stage.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/netosnos/spotify-track-organizer/internal/console"
	"github.com/netosnos/spotify-track-organizer/internal/core/classify"
	"github.com/netosnos/spotify-track-organizer/internal/core/domain"
	"github.com/netosnos/spotify-track-organizer/internal/core/ports"
)

// Snapshot names written between stages.
const (
	SnapshotLibrary    = "liked_songs"
	SnapshotWithIDs    = "tracks_with_reccobeats_id"
	SnapshotWithoutIDs = "tracks_without_reccobeats_id"
	SnapshotFeatures   = "tracks_with_audio_features"
	SnapshotNoFeatures = "tracks_without_audio_features"
)

// Deps holds everything the organizer needs injected.
type Deps struct {
	Library   ports.LibrarySource
	Analysis  ports.AnalysisSource
	Playlists ports.PlaylistSink
	Store     ports.TrackStore
	Snapshots ports.SnapshotStore

	// Out receives progress output; defaults to os.Stdout.
	Out io.Writer

	// RequestDelay is the pause between per-track analysis requests.
	RequestDelay time.Duration
}

// Organizer drives the pipeline.
type Organizer struct {
	deps Deps
}

// NewOrganizer creates the pipeline driver.
func NewOrganizer(deps Deps) *Organizer {
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	return &Organizer{deps: deps}
}

// FetchLibrary downloads the saved-track library, enriches each track with
// its artists' genre tags, and records the result in the store and the
// library snapshot.
func (o *Organizer) FetchLibrary(ctx context.Context) ([]domain.Track, error) {
	console.Headerf(o.deps.Out, "Fetching saved tracks...")

	tracks, err := o.deps.Library.SavedTracks(ctx)
	if err != nil {
		return nil, fmt.Errorf("organizer service: %w", err)
	}
	logrus.Infof("Fetched %d saved tracks", len(tracks))

	if err := o.enrichGenres(ctx, tracks); err != nil {
		return nil, fmt.Errorf("organizer service: %w", err)
	}

	if err := o.deps.Store.UpsertTracks(ctx, tracks); err != nil {
		return nil, fmt.Errorf("organizer service: %w", err)
	}
	if err := o.deps.Snapshots.WriteTracks(SnapshotLibrary, tracks); err != nil {
		return nil, fmt.Errorf("organizer service: %w", err)
	}

	console.Successf(o.deps.Out, "Saved %d tracks", len(tracks))
	return tracks, nil
}

// enrichGenres resolves genre tags for every artist appearing in tracks and
// attaches them in place.
func (o *Organizer) enrichGenres(ctx context.Context, tracks []domain.Track) error {
	seen := make(map[string]struct{})
	var artistIDs []string
	for _, t := range tracks {
		for _, a := range t.Artists {
			if a.ID == "" {
				continue
			}
			if _, ok := seen[a.ID]; ok {
				continue
			}
			seen[a.ID] = struct{}{}
			artistIDs = append(artistIDs, a.ID)
		}
	}
	if len(artistIDs) == 0 {
		return nil
	}

	genres, err := o.deps.Library.ArtistGenres(ctx, artistIDs)
	if err != nil {
		return err
	}
	for i := range tracks {
		for j := range tracks[i].Artists {
			if tags, ok := genres[tracks[i].Artists[j].ID]; ok {
				tracks[i].Artists[j].Genres = tags
			}
		}
	}
	return nil
}

// MatchAnalysisIDs resolves the analysis-service ID for every stored track
// and splits the library into matched and unmatched snapshots.
func (o *Organizer) MatchAnalysisIDs(ctx context.Context) (matched, unmatched []domain.Track, err error) {
	tracks, err := o.loadLibrary(ctx)
	if err != nil {
		return nil, nil, err
	}

	console.Headerf(o.deps.Out, "Matching %d tracks against the analysis service...", len(tracks))

	ids := make([]string, len(tracks))
	for i, t := range tracks {
		ids[i] = t.ID
	}
	resolved, err := o.deps.Analysis.ResolveTrackIDs(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("organizer service: %w", err)
	}

	for i := range tracks {
		analysisID, ok := resolved[tracks[i].ID]
		if !ok {
			unmatched = append(unmatched, tracks[i])
			continue
		}
		tracks[i].AnalysisID = analysisID
		if err := o.deps.Store.UpdateAnalysisID(ctx, tracks[i].ID, analysisID); err != nil {
			return nil, nil, fmt.Errorf("organizer service: %w", err)
		}
		matched = append(matched, tracks[i])
	}

	if err := o.deps.Snapshots.WriteTracks(SnapshotWithIDs, matched); err != nil {
		return nil, nil, fmt.Errorf("organizer service: %w", err)
	}
	if err := o.deps.Snapshots.WriteTracks(SnapshotWithoutIDs, unmatched); err != nil {
		return nil, nil, fmt.Errorf("organizer service: %w", err)
	}

	console.Successf(o.deps.Out, "Matched %d tracks, %d not found", len(matched), len(unmatched))
	return matched, unmatched, nil
}

// EnrichFeatures fetches audio features for every matched track, pausing
// between requests so the analysis service is not hammered. Tracks without
// measurements are skipped and logged, not failed.
func (o *Organizer) EnrichFeatures(ctx context.Context) ([]domain.Track, error) {
	matched, err := o.deps.Snapshots.ReadTracks(SnapshotWithIDs)
	if errors.Is(err, domain.ErrNotFound) {
		if matched, _, err = o.MatchAnalysisIDs(ctx); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("organizer service: %w", err)
	}

	console.Headerf(o.deps.Out, "Fetching audio features for %d tracks...", len(matched))
	reporter := console.NewReporter(o.deps.Out, len(matched))

	var enriched, skipped []domain.Track
	for i, t := range matched {
		features, err := o.deps.Analysis.AudioFeatures(ctx, t.AnalysisID)
		switch {
		case errors.Is(err, ports.ErrFeaturesUnavailable):
			skipped = append(skipped, t)
			logrus.Warnf("No audio features for %q, skipping", t.Name)
		case err != nil:
			return nil, fmt.Errorf("organizer service: %w", err)
		default:
			t.Features = features
			if err := o.deps.Store.UpdateFeatures(ctx, t.ID, features); err != nil {
				return nil, fmt.Errorf("organizer service: %w", err)
			}
			enriched = append(enriched, t)
		}

		reporter.Detail(t.Name)
		if i < len(matched)-1 && o.deps.RequestDelay > 0 {
			select {
			case <-time.After(o.deps.RequestDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	if err := o.deps.Snapshots.WriteTracks(SnapshotFeatures, enriched); err != nil {
		return nil, fmt.Errorf("organizer service: %w", err)
	}
	if err := o.deps.Snapshots.WriteTracks(SnapshotNoFeatures, skipped); err != nil {
		return nil, fmt.Errorf("organizer service: %w", err)
	}

	console.Successf(o.deps.Out, "Got features for %d tracks (%d skipped)", len(enriched), len(skipped))
	return enriched, nil
}

// BucketResult is the outcome of classifying the library.
type BucketResult struct {
	// Playlists maps bucket name to the tracks assigned to it, including
	// the catch-all bucket.
	Playlists map[string][]domain.Track

	// PlaylistIDs maps bucket name to the created playlist ID. Empty when
	// running dry.
	PlaylistIDs map[string]string
}

// Organize classifies every stored track and materializes one playlist per
// bucket. With dryRun set, nothing is written to the streaming service.
func (o *Organizer) Organize(ctx context.Context, dryRun bool) (*BucketResult, error) {
	tracks, err := o.loadLibrary(ctx)
	if err != nil {
		return nil, err
	}

	console.Headerf(o.deps.Out, "Classifying %d tracks...", len(tracks))

	result := &BucketResult{
		Playlists:   make(map[string][]domain.Track),
		PlaylistIDs: make(map[string]string),
	}
	for _, t := range tracks {
		bucket := classify.Assign(t.Features, t.GenreTags())
		if err := o.deps.Store.UpdateBucket(ctx, t.ID, bucket); err != nil {
			return nil, fmt.Errorf("organizer service: %w", err)
		}
		result.Playlists[bucket] = append(result.Playlists[bucket], t)
	}

	// every bucket playlist is created, empty ones included
	for _, b := range classify.Playlists() {
		assigned := result.Playlists[b.Name]
		if dryRun {
			console.Warnf(o.deps.Out, "[dry run] would create %q with %d tracks", b.Name, len(assigned))
			continue
		}

		playlistID, err := o.deps.Playlists.CreatePlaylist(ctx, b.Name, b.Description)
		if err != nil {
			return nil, fmt.Errorf("organizer service: %w", err)
		}
		result.PlaylistIDs[b.Name] = playlistID

		if len(assigned) == 0 {
			console.Successf(o.deps.Out, "Created %q (empty)", b.Name)
			continue
		}
		uris := make([]string, len(assigned))
		for i, t := range assigned {
			uris[i] = t.URI()
		}
		if err := o.deps.Playlists.AddTracks(ctx, playlistID, uris); err != nil {
			return nil, fmt.Errorf("organizer service: %w", err)
		}
		console.Successf(o.deps.Out, "Created %q with %d tracks", b.Name, len(assigned))
	}

	if other := result.Playlists[classify.Catchall.Name]; len(other) > 0 {
		logrus.Infof("%d tracks fell through to %q", len(other), classify.Catchall.Name)
	}
	return result, nil
}

// loadLibrary reads the stored library, fetching it first when the store is
// still empty.
func (o *Organizer) loadLibrary(ctx context.Context) ([]domain.Track, error) {
	tracks, err := o.deps.Store.Tracks(ctx)
	if err != nil {
		return nil, fmt.Errorf("organizer service: %w", err)
	}
	if len(tracks) == 0 {
		if o.deps.Library == nil {
			return nil, errors.New("organizer service: library is empty, run fetch first")
		}
		return o.FetchLibrary(ctx)
	}
	return tracks, nil
}

// GenreReport returns every distinct genre tag in the stored library with
// the number of tracks carrying it.
func (o *Organizer) GenreReport(ctx context.Context) (map[string]int, error) {
	tracks, err := o.loadLibrary(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, t := range tracks {
		for _, g := range t.GenreTags() {
			counts[g]++
		}
	}
	return counts, nil
}
