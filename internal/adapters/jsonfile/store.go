// Package jsonfile persists pipeline stage outputs as JSON snapshots with a
// metadata envelope. Snapshots are the interchange between pipeline runs:
// the fetch stage writes the raw library, the analysis stages write the
// matched/unmatched splits.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/netosnos/spotify-track-organizer/internal/core/domain"
	"github.com/netosnos/spotify-track-organizer/internal/core/ports"
)

type metadata struct {
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	TotalTracks int       `json:"total_tracks"`
}

type envelope struct {
	Metadata metadata      `json:"metadata"`
	Tracks   []trackRecord `json:"tracks"`
}

type artistRecord struct {
	ID     string   `json:"id,omitempty"`
	Name   string   `json:"name"`
	Genres []string `json:"genres,omitempty"`
}

type trackRecord struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Artists    []artistRecord     `json:"artists"`
	Album      string             `json:"album,omitempty"`
	DurationMs int                `json:"duration_ms,omitempty"`
	Popularity int                `json:"popularity,omitempty"`
	AddedAt    *time.Time         `json:"added_at,omitempty"`
	AnalysisID string             `json:"raccobeats_id,omitempty"`
	Features   map[string]float64 `json:"audio_features,omitempty"`
}

// Store reads and writes snapshots under a single directory.
type Store struct {
	dir string
}

// compile-time interface assertion
var _ ports.SnapshotStore = (*Store)(nil)

// NewStore returns a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// WriteTracks writes the named snapshot, creating the directory as needed.
// An existing snapshot's created_at survives the rewrite; updated_at always
// moves forward.
func (s *Store) WriteTracks(name string, tracks []domain.Track) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("jsonfile store: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	meta := metadata{CreatedAt: now, UpdatedAt: now, TotalTracks: len(tracks)}
	if existing, err := s.readEnvelope(name); err == nil && !existing.Metadata.CreatedAt.IsZero() {
		meta.CreatedAt = existing.Metadata.CreatedAt
	}

	records := make([]trackRecord, len(tracks))
	for i, t := range tracks {
		records[i] = toRecord(t)
	}

	data, err := json.MarshalIndent(envelope{Metadata: meta, Tracks: records}, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile store: marshal %s: %w", name, err)
	}

	if err := os.WriteFile(s.path(name), data, 0o644); err != nil {
		return fmt.Errorf("jsonfile store: write %s: %w", name, err)
	}
	return nil
}

// ReadTracks loads the named snapshot. A missing file maps to
// domain.ErrNotFound.
func (s *Store) ReadTracks(name string) ([]domain.Track, error) {
	env, err := s.readEnvelope(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("jsonfile store: snapshot %s: %w", name, domain.ErrNotFound)
		}
		return nil, err
	}

	tracks := make([]domain.Track, len(env.Tracks))
	for i, r := range env.Tracks {
		tracks[i] = fromRecord(r)
	}
	return tracks, nil
}

func (s *Store) readEnvelope(name string) (envelope, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return envelope{}, err
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return envelope{}, fmt.Errorf("jsonfile store: parse %s: %w", name, err)
	}
	return env, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func toRecord(t domain.Track) trackRecord {
	artists := make([]artistRecord, len(t.Artists))
	for i, a := range t.Artists {
		artists[i] = artistRecord{ID: a.ID, Name: a.Name, Genres: a.Genres}
	}

	record := trackRecord{
		ID:         t.ID,
		Name:       t.Name,
		Artists:    artists,
		Album:      t.Album,
		DurationMs: t.DurationMs,
		Popularity: t.Popularity,
		AnalysisID: t.AnalysisID,
		Features:   t.Features,
	}
	if !t.AddedAt.IsZero() {
		addedAt := t.AddedAt
		record.AddedAt = &addedAt
	}
	return record
}

func fromRecord(r trackRecord) domain.Track {
	artists := make([]domain.Artist, len(r.Artists))
	for i, a := range r.Artists {
		artists[i] = domain.Artist{ID: a.ID, Name: a.Name, Genres: a.Genres}
	}

	track := domain.Track{
		ID:         r.ID,
		Name:       r.Name,
		Artists:    artists,
		Album:      r.Album,
		DurationMs: r.DurationMs,
		Popularity: r.Popularity,
		AnalysisID: r.AnalysisID,
		Features:   r.Features,
	}
	if r.AddedAt != nil {
		track.AddedAt = *r.AddedAt
	}
	return track
}
