package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/netosnos/spotify-track-organizer/internal/core/classify"
	"github.com/netosnos/spotify-track-organizer/internal/core/domain"
	"github.com/netosnos/spotify-track-organizer/internal/core/ports"
)

type fakeLibrary struct {
	tracks     []domain.Track
	genres     map[string][]string
	genreCalls [][]string
}

func (f *fakeLibrary) SavedTracks(ctx context.Context) ([]domain.Track, error) {
	return f.tracks, nil
}

func (f *fakeLibrary) ArtistGenres(ctx context.Context, artistIDs []string) (map[string][]string, error) {
	f.genreCalls = append(f.genreCalls, artistIDs)
	return f.genres, nil
}

type fakeAnalysis struct {
	resolved map[string]string
	features map[string]map[string]float64
}

func (f *fakeAnalysis) ResolveTrackIDs(ctx context.Context, trackIDs []string) (map[string]string, error) {
	return f.resolved, nil
}

func (f *fakeAnalysis) AudioFeatures(ctx context.Context, analysisID string) (map[string]float64, error) {
	features, ok := f.features[analysisID]
	if !ok {
		return nil, ports.FeaturesUnavailableError{AnalysisID: analysisID}
	}
	return features, nil
}

type createdPlaylist struct {
	name string
	uris []string
}

type fakePlaylists struct {
	created []createdPlaylist
}

func (f *fakePlaylists) CreatePlaylist(ctx context.Context, name, description string) (string, error) {
	f.created = append(f.created, createdPlaylist{name: name})
	return "pl-" + name, nil
}

func (f *fakePlaylists) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	for i := range f.created {
		if "pl-"+f.created[i].name == playlistID {
			f.created[i].uris = append(f.created[i].uris, uris...)
		}
	}
	return nil
}

type fakeStore struct {
	tracks      map[string]domain.Track
	order       []string
	analysisIDs map[string]string
	features    map[string]map[string]float64
	buckets     map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tracks:      make(map[string]domain.Track),
		analysisIDs: make(map[string]string),
		features:    make(map[string]map[string]float64),
		buckets:     make(map[string]string),
	}
}

func (f *fakeStore) UpsertTracks(ctx context.Context, tracks []domain.Track) error {
	for _, t := range tracks {
		if _, ok := f.tracks[t.ID]; !ok {
			f.order = append(f.order, t.ID)
		}
		f.tracks[t.ID] = t
	}
	return nil
}

func (f *fakeStore) Tracks(ctx context.Context) ([]domain.Track, error) {
	out := make([]domain.Track, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.tracks[id])
	}
	return out, nil
}

func (f *fakeStore) UpdateAnalysisID(ctx context.Context, trackID, analysisID string) error {
	f.analysisIDs[trackID] = analysisID
	return nil
}

func (f *fakeStore) UpdateFeatures(ctx context.Context, trackID string, features map[string]float64) error {
	f.features[trackID] = features
	return nil
}

func (f *fakeStore) UpdateBucket(ctx context.Context, trackID, bucket string) error {
	f.buckets[trackID] = bucket
	return nil
}

type fakeSnapshots struct {
	written map[string][]domain.Track
}

func newFakeSnapshots() *fakeSnapshots {
	return &fakeSnapshots{written: make(map[string][]domain.Track)}
}

func (f *fakeSnapshots) WriteTracks(name string, tracks []domain.Track) error {
	f.written[name] = tracks
	return nil
}

func (f *fakeSnapshots) ReadTracks(name string) ([]domain.Track, error) {
	tracks, ok := f.written[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return tracks, nil
}

func testTracks() []domain.Track {
	return []domain.Track{
		{ID: "t1", Name: "Calm Song", AddedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			Artists: []domain.Artist{{ID: "a1", Name: "Artist One"}}},
		{ID: "t2", Name: "Party Song", AddedAt: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
			Artists: []domain.Artist{{ID: "a2", Name: "Artist Two"}}},
		{ID: "t3", Name: "Unknown Song", AddedAt: time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC),
			Artists: []domain.Artist{{ID: "a1", Name: "Artist One"}}},
	}
}

func newTestOrganizer(library *fakeLibrary, analysis *fakeAnalysis, playlists *fakePlaylists, store *fakeStore, snapshots *fakeSnapshots) *Organizer {
	return NewOrganizer(Deps{
		Library:   library,
		Analysis:  analysis,
		Playlists: playlists,
		Store:     store,
		Snapshots: snapshots,
		Out:       &bytes.Buffer{},
	})
}

func TestFetchLibraryEnrichesGenres(t *testing.T) {
	library := &fakeLibrary{
		tracks: testTracks(),
		genres: map[string][]string{"a1": {"bolero"}, "a2": {"reggaeton"}},
	}
	store := newFakeStore()
	snapshots := newFakeSnapshots()
	organizer := newTestOrganizer(library, nil, nil, store, snapshots)

	tracks, err := organizer.FetchLibrary(context.Background())
	if err != nil {
		t.Fatalf("FetchLibrary: %v", err)
	}
	if len(tracks) != 3 {
		t.Fatalf("expected 3 tracks, got %d", len(tracks))
	}

	// duplicate artists requested once
	if len(library.genreCalls) != 1 || len(library.genreCalls[0]) != 2 {
		t.Errorf("expected one genre lookup for 2 artists, got %v", library.genreCalls)
	}
	if got := tracks[0].Artists[0].Genres; len(got) != 1 || got[0] != "bolero" {
		t.Errorf("genres not attached: %v", got)
	}
	if stored := store.tracks["t2"]; stored.Artists[0].Genres[0] != "reggaeton" {
		t.Errorf("store missing enriched genres: %+v", stored)
	}
	if _, ok := snapshots.written[SnapshotLibrary]; !ok {
		t.Errorf("library snapshot not written")
	}
}

func TestMatchAnalysisIDsSplitsLibrary(t *testing.T) {
	store := newFakeStore()
	if err := store.UpsertTracks(context.Background(), testTracks()); err != nil {
		t.Fatal(err)
	}
	analysis := &fakeAnalysis{resolved: map[string]string{"t1": "rb1", "t2": "rb2"}}
	snapshots := newFakeSnapshots()
	organizer := newTestOrganizer(nil, analysis, nil, store, snapshots)

	matched, unmatched, err := organizer.MatchAnalysisIDs(context.Background())
	if err != nil {
		t.Fatalf("MatchAnalysisIDs: %v", err)
	}
	if len(matched) != 2 || len(unmatched) != 1 {
		t.Fatalf("got %d matched, %d unmatched", len(matched), len(unmatched))
	}
	if unmatched[0].ID != "t3" {
		t.Errorf("expected t3 unmatched, got %s", unmatched[0].ID)
	}
	if store.analysisIDs["t1"] != "rb1" || store.analysisIDs["t2"] != "rb2" {
		t.Errorf("analysis IDs not stored: %v", store.analysisIDs)
	}
	if len(snapshots.written[SnapshotWithIDs]) != 2 || len(snapshots.written[SnapshotWithoutIDs]) != 1 {
		t.Errorf("snapshots not split: %v", snapshots.written)
	}
}

func TestEnrichFeaturesSkipsUnavailable(t *testing.T) {
	store := newFakeStore()
	if err := store.UpsertTracks(context.Background(), testTracks()); err != nil {
		t.Fatal(err)
	}
	analysis := &fakeAnalysis{
		resolved: map[string]string{"t1": "rb1", "t2": "rb2"},
		features: map[string]map[string]float64{
			"rb1": {
				domain.FeatureValence: 0.3, domain.FeatureEnergy: 0.3,
				domain.FeatureDanceability: 0.5, domain.FeatureAcousticness: 0.5,
				domain.FeatureTempo: 100,
			},
			// rb2 deliberately missing
		},
	}
	snapshots := newFakeSnapshots()
	organizer := newTestOrganizer(nil, analysis, nil, store, snapshots)

	enriched, err := organizer.EnrichFeatures(context.Background())
	if err != nil {
		t.Fatalf("EnrichFeatures: %v", err)
	}
	if len(enriched) != 1 || enriched[0].ID != "t1" {
		t.Fatalf("expected only t1 enriched, got %+v", enriched)
	}
	if store.features["t1"][domain.FeatureTempo] != 100 {
		t.Errorf("features not stored: %v", store.features)
	}
	if _, ok := store.features["t2"]; ok {
		t.Errorf("unavailable track should not be stored: %v", store.features)
	}
	if len(snapshots.written[SnapshotFeatures]) != 1 {
		t.Errorf("features snapshot wrong: %v", snapshots.written[SnapshotFeatures])
	}
	if got := snapshots.written[SnapshotNoFeatures]; len(got) != 1 || got[0].ID != "t2" {
		t.Errorf("without-features snapshot wrong: %v", got)
	}
}

func TestOrganizeGroupsAndCreatesPlaylists(t *testing.T) {
	store := newFakeStore()
	tracks := testTracks()
	tracks[0].Features = map[string]float64{
		domain.FeatureValence: 0.3, domain.FeatureEnergy: 0.3,
		domain.FeatureDanceability: 0.5, domain.FeatureAcousticness: 0.5,
		domain.FeatureTempo: 100,
	}
	tracks[1].Features = map[string]float64{
		domain.FeatureValence: 0.55, domain.FeatureEnergy: 0.9,
		domain.FeatureDanceability: 0.85, domain.FeatureAcousticness: 0.1,
		domain.FeatureTempo: 125,
	}
	tracks[2].Artists[0].Genres = []string{"death metal"} // no bucket lists it
	if err := store.UpsertTracks(context.Background(), tracks); err != nil {
		t.Fatal(err)
	}
	playlists := &fakePlaylists{}
	organizer := newTestOrganizer(nil, nil, playlists, store, newFakeSnapshots())

	result, err := organizer.Organize(context.Background(), false)
	if err != nil {
		t.Fatalf("Organize: %v", err)
	}

	if store.buckets["t1"] != classify.ChillVibes {
		t.Errorf("t1 bucket = %q", store.buckets["t1"])
	}
	if store.buckets["t2"] != classify.PartyMode {
		t.Errorf("t2 bucket = %q", store.buckets["t2"])
	}
	if store.buckets["t3"] != classify.Other {
		t.Errorf("t3 bucket = %q", store.buckets["t3"])
	}

	// every bucket gets a playlist, empty ones included
	if len(playlists.created) != len(classify.Playlists()) {
		t.Fatalf("expected %d playlists, got %d", len(classify.Playlists()), len(playlists.created))
	}
	for _, p := range playlists.created {
		switch p.name {
		case classify.PartyMode:
			if len(p.uris) != 1 || p.uris[0] != "spotify:track:t2" {
				t.Errorf("Party Mode uris = %v", p.uris)
			}
		case classify.Training:
			if len(p.uris) != 0 {
				t.Errorf("Training should be empty, got %v", p.uris)
			}
		}
	}
	if result.PlaylistIDs[classify.ChillVibes] == "" {
		t.Errorf("missing playlist ID for %q", classify.ChillVibes)
	}
}

func TestOrganizeDryRunTouchesNothing(t *testing.T) {
	store := newFakeStore()
	tracks := testTracks()
	tracks[0].Artists[0].Genres = []string{"trova"}
	if err := store.UpsertTracks(context.Background(), tracks); err != nil {
		t.Fatal(err)
	}
	playlists := &fakePlaylists{}
	organizer := newTestOrganizer(nil, nil, playlists, store, newFakeSnapshots())

	result, err := organizer.Organize(context.Background(), true)
	if err != nil {
		t.Fatalf("Organize: %v", err)
	}
	if len(playlists.created) != 0 {
		t.Errorf("dry run created playlists: %v", playlists.created)
	}
	if len(result.PlaylistIDs) != 0 {
		t.Errorf("dry run returned playlist IDs: %v", result.PlaylistIDs)
	}
	// classification still recorded locally
	if store.buckets["t1"] != classify.ChillVibes {
		t.Errorf("t1 bucket = %q", store.buckets["t1"])
	}
}

func TestGenreReport(t *testing.T) {
	store := newFakeStore()
	tracks := testTracks()
	tracks[0].Artists[0].Genres = []string{"bolero"}
	tracks[1].Artists[0].Genres = []string{"reggaeton"}
	tracks[2].Artists[0].Genres = []string{"bolero"}
	if err := store.UpsertTracks(context.Background(), tracks); err != nil {
		t.Fatal(err)
	}
	organizer := newTestOrganizer(nil, nil, nil, store, newFakeSnapshots())

	counts, err := organizer.GenreReport(context.Background())
	if err != nil {
		t.Fatalf("GenreReport: %v", err)
	}
	if counts["bolero"] != 2 || counts["reggaeton"] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
}
