package domain

import (
	"fmt"
	"strings"
	"time"
)

// Audio feature names supplied by the analysis service. Valence, energy,
// danceability and acousticness are in [0,1]; tempo is in beats per minute.
const (
	FeatureValence      = "valence"
	FeatureEnergy       = "energy"
	FeatureDanceability = "danceability"
	FeatureAcousticness = "acousticness"
	FeatureTempo        = "tempo"
)

// Artist carries the metadata needed for genre-based classification.
type Artist struct {
	ID     string
	Name   string
	Genres []string // lower-cased free-text tags
}

// Track represents a saved track moving through the pipeline. Features is
// populated only when the analysis service supplied measurements; a nil or
// empty map routes the track to the genre fallback path.
type Track struct {
	ID         string
	Name       string
	Artists    []Artist
	Album      string
	DurationMs int
	Popularity int
	AddedAt    time.Time
	AnalysisID string // ReccoBeats track ID, empty until matched
	Features   map[string]float64
}

// HasFeatures reports whether the analysis service supplied measurements.
func (t Track) HasFeatures() bool {
	return len(t.Features) > 0
}

// URI returns the opaque playable-item identifier the streaming service
// expects when adding tracks to a playlist.
func (t Track) URI() string {
	return fmt.Sprintf("spotify:track:%s", t.ID)
}

// ArtistNames returns the track's artist names in order.
func (t Track) ArtistNames() []string {
	names := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		names[i] = a.Name
	}
	return names
}

// GenreTags returns the union of lower-cased genre tags across all of the
// track's artists.
func (t Track) GenreTags() []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, a := range t.Artists {
		for _, g := range a.Genres {
			g = strings.ToLower(g)
			if _, ok := seen[g]; ok {
				continue
			}
			seen[g] = struct{}{}
			tags = append(tags, g)
		}
	}
	return tags
}
