// Package sqlite provides the SQLite-backed track store the pipeline stages
// share between runs.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // database/sql driver
	"github.com/netosnos/spotify-track-organizer/internal/core/domain"
	"github.com/netosnos/spotify-track-organizer/internal/core/ports"
)

// Adapter implements the track-store port for SQLite.
type Adapter struct {
	db *sql.DB
}

// compile-time interface assertion
var _ ports.TrackStore = (*Adapter)(nil)

// NewAdapter opens the database and runs the schema migration.
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db}
	if err := adapter.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return adapter, nil
}

// Close ensures the DB connection is closed gracefully.
func (a *Adapter) Close() error {
	return a.db.Close()
}

// UpsertTracks inserts or refreshes library metadata. Analysis results
// already stored for a track (ReccoBeats ID, features, bucket) survive a
// re-fetch of the library.
func (a *Adapter) UpsertTracks(ctx context.Context, tracks []domain.Track) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tracks (id, name, album, duration_ms, popularity, added_at, artists)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name,
			album=excluded.album,
			duration_ms=excluded.duration_ms,
			popularity=excluded.popularity,
			added_at=excluded.added_at,
			artists=excluded.artists;
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range tracks {
		artists, err := json.Marshal(t.Artists)
		if err != nil {
			return fmt.Errorf("failed to encode artists for track %s: %w", t.ID, err)
		}
		var addedAt sql.NullString
		if !t.AddedAt.IsZero() {
			addedAt = sql.NullString{String: t.AddedAt.UTC().Format(time.RFC3339), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, t.ID, t.Name, t.Album, t.DurationMs, t.Popularity, addedAt, string(artists)); err != nil {
			return fmt.Errorf("failed to save track %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transaction commit failed: %w", err)
	}
	return nil
}

// Tracks loads the whole library in saved order.
func (a *Adapter) Tracks(ctx context.Context) ([]domain.Track, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, name, album, duration_ms, popularity, added_at, artists,
			reccobeats_id, valence, energy, danceability, acousticness, tempo
		FROM tracks
		ORDER BY added_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load tracks: %w", err)
	}
	defer rows.Close()

	var tracks []domain.Track
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tracks: %w", err)
	}
	return tracks, nil
}

// UpdateAnalysisID records the analysis-service ID matched to a track.
func (a *Adapter) UpdateAnalysisID(ctx context.Context, trackID, analysisID string) error {
	return a.updateTrack(ctx, trackID, "UPDATE tracks SET reccobeats_id = ? WHERE id = ?", analysisID)
}

// UpdateFeatures stores the track's measurements. Feature names absent from
// the map are stored as NULL so the record keeps distinguishing "missing"
// from zero.
func (a *Adapter) UpdateFeatures(ctx context.Context, trackID string, features map[string]float64) error {
	res, err := a.db.ExecContext(ctx, `
		UPDATE tracks
		SET valence = ?, energy = ?, danceability = ?, acousticness = ?, tempo = ?
		WHERE id = ?
	`,
		nullableFeature(features, domain.FeatureValence),
		nullableFeature(features, domain.FeatureEnergy),
		nullableFeature(features, domain.FeatureDanceability),
		nullableFeature(features, domain.FeatureAcousticness),
		nullableFeature(features, domain.FeatureTempo),
		trackID,
	)
	if err != nil {
		return fmt.Errorf("failed to update features for track %s: %w", trackID, err)
	}
	return requireRow(res, trackID)
}

// UpdateBucket records the playlist bucket a track was classified into.
func (a *Adapter) UpdateBucket(ctx context.Context, trackID, bucket string) error {
	return a.updateTrack(ctx, trackID, "UPDATE tracks SET bucket = ? WHERE id = ?", bucket)
}

func (a *Adapter) updateTrack(ctx context.Context, trackID, query string, value interface{}) error {
	res, err := a.db.ExecContext(ctx, query, value, trackID)
	if err != nil {
		return fmt.Errorf("failed to update track %s: %w", trackID, err)
	}
	return requireRow(res, trackID)
}

func requireRow(res sql.Result, trackID string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update track %s: %w", trackID, err)
	}
	if affected == 0 {
		return fmt.Errorf("track %s: %w", trackID, domain.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTrack(row rowScanner) (domain.Track, error) {
	var (
		track        domain.Track
		album        sql.NullString
		duration     sql.NullInt64
		popularity   sql.NullInt64
		addedAt      sql.NullString
		artists      sql.NullString
		analysisID   sql.NullString
		valence      sql.NullFloat64
		energy       sql.NullFloat64
		danceability sql.NullFloat64
		acousticness sql.NullFloat64
		tempo        sql.NullFloat64
	)

	if err := row.Scan(
		&track.ID, &track.Name, &album, &duration, &popularity, &addedAt, &artists,
		&analysisID, &valence, &energy, &danceability, &acousticness, &tempo,
	); err != nil {
		return domain.Track{}, fmt.Errorf("failed to scan track: %w", err)
	}

	if album.Valid {
		track.Album = album.String
	}
	if duration.Valid {
		track.DurationMs = int(duration.Int64)
	}
	if popularity.Valid {
		track.Popularity = int(popularity.Int64)
	}
	if addedAt.Valid {
		if parsed, err := time.Parse(time.RFC3339, addedAt.String); err == nil {
			track.AddedAt = parsed
		}
	}
	if artists.Valid && artists.String != "" {
		if err := json.Unmarshal([]byte(artists.String), &track.Artists); err != nil {
			return domain.Track{}, fmt.Errorf("failed to decode artists for track %s: %w", track.ID, err)
		}
	}
	if analysisID.Valid {
		track.AnalysisID = analysisID.String
	}

	features := make(map[string]float64)
	for name, col := range map[string]sql.NullFloat64{
		domain.FeatureValence:      valence,
		domain.FeatureEnergy:       energy,
		domain.FeatureDanceability: danceability,
		domain.FeatureAcousticness: acousticness,
		domain.FeatureTempo:        tempo,
	} {
		if col.Valid {
			features[name] = col.Float64
		}
	}
	if len(features) > 0 {
		track.Features = features
	}

	return track, nil
}

func nullableFeature(features map[string]float64, name string) sql.NullFloat64 {
	v, ok := features[name]
	return sql.NullFloat64{Float64: v, Valid: ok}
}

func (a *Adapter) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS tracks (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		album TEXT,
		duration_ms INTEGER,
		popularity INTEGER,
		added_at DATETIME,
		artists TEXT,
		reccobeats_id TEXT,
		bucket TEXT,
		valence REAL,
		energy REAL,
		danceability REAL,
		acousticness REAL,
		tempo REAL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := a.db.Exec(query); err != nil {
		return err
	}
	return nil
}
