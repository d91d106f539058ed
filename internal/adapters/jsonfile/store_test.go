package jsonfile

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/netosnos/spotify-track-organizer/internal/core/domain"
)

func sampleTracks() []domain.Track {
	return []domain.Track{
		{
			ID:   "t1",
			Name: "Primera Canción",
			Artists: []domain.Artist{
				{ID: "a1", Name: "Artista Uno", Genres: []string{"bolero", "trova"}},
			},
			Album:      "Debut",
			DurationMs: 183000,
			Popularity: 44,
			AddedAt:    time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
			AnalysisID: "rb-t1",
			Features: map[string]float64{
				domain.FeatureValence: 0.3,
				domain.FeatureTempo:   96,
			},
		},
		{
			ID:      "t2",
			Name:    "No Features Yet",
			Artists: []domain.Artist{{ID: "a2", Name: "Artista Dos"}},
		},
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "processed"))
	want := sampleTracks()

	if err := store.WriteTracks("tracks_with_audio_features", want); err != nil {
		t.Fatalf("WriteTracks: %v", err)
	}

	got, err := store.ReadTracks("tracks_with_audio_features")
	if err != nil {
		t.Fatalf("ReadTracks: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestWritePreservesCreatedAt(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	if err := store.WriteTracks("liked_songs", sampleTracks()); err != nil {
		t.Fatalf("first write: %v", err)
	}

	first, err := store.readEnvelope("liked_songs")
	if err != nil {
		t.Fatal(err)
	}

	// rewrite with a different track count
	time.Sleep(1100 * time.Millisecond)
	if err := store.WriteTracks("liked_songs", sampleTracks()[:1]); err != nil {
		t.Fatalf("second write: %v", err)
	}

	second, err := store.readEnvelope("liked_songs")
	if err != nil {
		t.Fatal(err)
	}

	if !second.Metadata.CreatedAt.Equal(first.Metadata.CreatedAt) {
		t.Fatalf("created_at changed: %v -> %v", first.Metadata.CreatedAt, second.Metadata.CreatedAt)
	}
	if !second.Metadata.UpdatedAt.After(first.Metadata.UpdatedAt) {
		t.Fatalf("updated_at did not advance: %v -> %v", first.Metadata.UpdatedAt, second.Metadata.UpdatedAt)
	}
	if second.Metadata.TotalTracks != 1 {
		t.Fatalf("total_tracks = %d, want 1", second.Metadata.TotalTracks)
	}
}

func TestReadMissingSnapshot(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.ReadTracks("never_written")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEnvelopeShape(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	if err := store.WriteTracks("liked_songs", sampleTracks()); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "liked_songs.json"))
	if err != nil {
		t.Fatal(err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}
	if _, ok := doc["metadata"]; !ok {
		t.Fatal("envelope missing metadata")
	}
	if _, ok := doc["tracks"]; !ok {
		t.Fatal("envelope missing tracks")
	}

	var tracks []map[string]json.RawMessage
	if err := json.Unmarshal(doc["tracks"], &tracks); err != nil {
		t.Fatal(err)
	}
	if _, ok := tracks[0]["raccobeats_id"]; !ok {
		t.Fatal("matched track should carry raccobeats_id")
	}
	if _, ok := tracks[1]["audio_features"]; ok {
		t.Fatal("featureless track should omit audio_features")
	}
}
