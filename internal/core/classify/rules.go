// Package classify assigns tracks to mood/activity playlist buckets.
//
// The rule table is declarative data: each bucket lists the feature
// conditions a track must satisfy plus the genre tags used by the fallback
// path. Bucket order is significant twice over, as the full-match search
// order and as the genre-priority order.
package classify

import "github.com/netosnos/spotify-track-organizer/internal/core/domain"

// Bucket names. Other is the catch-all for tracks with neither usable
// features nor genres; the feature classifier itself never returns it.
const (
	ChillVibes = "Chill Vibes"
	SadMoody   = "Sad & Moody"
	FeelGood   = "Feel-Good"
	PartyMode  = "Party Mode"
	Training   = "Training & High Energy"
	DrivingMix = "Driving Mix"
	Other      = "Other"
)

type op int

const (
	opAtMost op = iota
	opAtLeast
	opInRange
)

// Condition is a single comparator rule over one named audio feature.
type Condition struct {
	Feature string
	Op      op
	// Threshold is used by AtMost/AtLeast, Low/High by InRange.
	Threshold float64
	Low, High float64
}

// AtMost passes when the feature value is <= threshold.
func AtMost(feature string, threshold float64) Condition {
	return Condition{Feature: feature, Op: opAtMost, Threshold: threshold}
}

// AtLeast passes when the feature value is >= threshold.
func AtLeast(feature string, threshold float64) Condition {
	return Condition{Feature: feature, Op: opAtLeast, Threshold: threshold}
}

// InRange passes when low <= value <= high, both ends inclusive.
func InRange(feature string, low, high float64) Condition {
	return Condition{Feature: feature, Op: opInRange, Low: low, High: high}
}

// Bucket is one target playlist category.
type Bucket struct {
	Name        string
	Description string
	Conditions  []Condition
	Genres      []string
}

// Buckets is the fixed rule table. Reordering it changes both classifier
// paths; the tie-break algorithm does not depend on it.
var Buckets = []Bucket{
	{
		Name:        ChillVibes,
		Description: "Soft, mellow, and relaxing tracks. Ideal for winding down or background ambiance.",
		Conditions: []Condition{
			AtMost(domain.FeatureValence, 0.5),
			AtMost(domain.FeatureEnergy, 0.5),
			AtLeast(domain.FeatureAcousticness, 0.3),
			AtMost(domain.FeatureTempo, 110),
			AtMost(domain.FeatureDanceability, 0.7),
		},
		Genres: []string{
			"soft pop", "acoustic pop", "singer-songwriter", "latin alternative",
			"neo soul", "latin r&b", "folk", "folk rock", "indie folk",
			"quiet storm", "timba", "bolero", "bossa nova", "latin jazz", "jazz",
			"huayno", "trova", "nueva trova", "vocal jazz", "adult standards",
			"musicals",
		},
	},
	{
		Name:        SadMoody,
		Description: "Emotional, introspective, or melancholic songs. For reflective moments or sad vibes.",
		Conditions: []Condition{
			AtMost(domain.FeatureValence, 0.4),
			AtMost(domain.FeatureEnergy, 0.6),
			AtLeast(domain.FeatureAcousticness, 0.2),
			AtMost(domain.FeatureTempo, 120),
		},
		Genres: []string{
			"sad sierreño", "sierreño", "latin folk", "trova", "nueva trova",
			"norteño", "ranchera", "corridos bélicos", "corridos tumbados",
			"corrido", "grupera", "ballad", "huayno", "bolero", "flamenco",
			"flamenco pop", "flamenco urbano",
		},
	},
	{
		Name:        FeelGood,
		Description: "Happy, upbeat, and energizing songs that lift your mood.",
		Conditions: []Condition{
			AtLeast(domain.FeatureValence, 0.6),
			AtLeast(domain.FeatureEnergy, 0.5),
			AtLeast(domain.FeatureDanceability, 0.5),
			InRange(domain.FeatureTempo, 85, 140),
			AtMost(domain.FeatureAcousticness, 0.5),
		},
		Genres: []string{
			"latin pop", "colombian pop", "pop", "pop rock", "pop urbano",
			"soft pop", "cumbia", "cumbia norteña", "vallenato", "bachata",
			"salsa", "merengue", "música mexicana", "pagode baiano", "forró",
			"funk", "funk pop", "motown", "tropical house", "r&b", "soul",
		},
	},
	{
		Name:        PartyMode,
		Description: "High-energy, danceable tracks. Perfect for getting the party started.",
		Conditions: []Condition{
			AtLeast(domain.FeatureEnergy, 0.6),
			AtLeast(domain.FeatureDanceability, 0.7),
			AtLeast(domain.FeatureValence, 0.5),
			AtLeast(domain.FeatureTempo, 100),
			AtMost(domain.FeatureAcousticness, 0.4),
		},
		Genres: []string{
			"reggaeton", "urbano latino", "trap latino", "argentine trap", "rkt",
			"dembow", "edm", "electro house", "dancehall", "electrocumbia",
			"electro corridos", "techengue", "turreo", "latin dance",
			"latin hip hop", "latin afrobeats", "latin", "reggaeton chileno",
			"reggaeton mexa",
		},
	},
	{
		Name:        Training,
		Description: "Fast-paced, energetic tracks to keep you moving during runs or cardio sessions.",
		Conditions: []Condition{
			AtLeast(domain.FeatureEnergy, 0.75),
			AtLeast(domain.FeatureTempo, 120),
			AtLeast(domain.FeatureDanceability, 0.5),
			AtMost(domain.FeatureAcousticness, 0.3),
		},
		Genres: []string{
			"trap", "rap", "hip hop", "trap latino", "argentine trap", "rock",
			"hard rock", "punk", "pop punk", "metal", "nu metal", "electro house",
			"electro corridos", "progressive house", "latin rock",
			"rock en español", "mexican rock", "alternative metal",
			"progressive trance",
		},
	},
	{
		Name:        DrivingMix,
		Description: "Songs with a balanced, rhythmic feel—great for road trips or long drives.",
		Conditions: []Condition{
			InRange(domain.FeatureTempo, 90, 150),
			InRange(domain.FeatureEnergy, 0.5, 0.9),
			AtLeast(domain.FeatureDanceability, 0.5),
			AtMost(domain.FeatureAcousticness, 0.5),
		},
		Genres: []string{
			"rock en español", "latin rock", "rock", "classic rock", "soft rock",
			"mexican rock", "argentine rock", "pop rock", "country",
			"country rock", "americana", "outlaw country", "roots rock", "britpop",
			"new wave", "aor", "yacht rock", "synthpop",
		},
	},
}

// Catchall is the playlist for tracks the classifiers cannot place. It has
// no conditions and no genre set.
var Catchall = Bucket{
	Name:        Other,
	Description: "A catch-all playlist for songs that don't have audio features or genre information.",
}

// Playlists returns every bucket to materialize, catch-all included, in
// creation order.
func Playlists() []Bucket {
	return append(append([]Bucket{}, Buckets...), Catchall)
}
