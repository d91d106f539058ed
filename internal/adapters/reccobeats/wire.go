package reccobeats

import "github.com/netosnos/spotify-track-organizer/internal/core/domain"

// trackPage is the ReccoBeats response for a batched track lookup.
type trackPage struct {
	Content []trackEntry `json:"content"`
}

// trackEntry references the source track through its href; the last path
// segment of the href is the streaming-service ID.
type trackEntry struct {
	ID   string `json:"id"`
	Href string `json:"href"`
}

// audioFeatures is the measurement payload for one track.
type audioFeatures struct {
	Valence      float64 `json:"valence"`
	Energy       float64 `json:"energy"`
	Danceability float64 `json:"danceability"`
	Acousticness float64 `json:"acousticness"`
	Tempo        float64 `json:"tempo"`
}

// toMap converts the payload to the named-measurement map the classifier
// consumes.
func (f audioFeatures) toMap() map[string]float64 {
	return map[string]float64{
		domain.FeatureValence:      f.Valence,
		domain.FeatureEnergy:       f.Energy,
		domain.FeatureDanceability: f.Danceability,
		domain.FeatureAcousticness: f.Acousticness,
		domain.FeatureTempo:        f.Tempo,
	}
}
