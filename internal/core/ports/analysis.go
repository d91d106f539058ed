package ports

import (
	"context"
	"errors"
	"fmt"
)

// ErrFeaturesUnavailable indicates the analysis service knows the track but
// has no audio-feature measurements for it.
var ErrFeaturesUnavailable = errors.New("audio features unavailable")

// FeaturesUnavailableError provides track context for a missing measurement.
type FeaturesUnavailableError struct {
	AnalysisID string
}

func (e FeaturesUnavailableError) Error() string {
	if e.AnalysisID == "" {
		return ErrFeaturesUnavailable.Error()
	}
	return fmt.Sprintf("audio features unavailable for analysis id %q", e.AnalysisID)
}

func (e FeaturesUnavailableError) Is(target error) bool {
	return target == ErrFeaturesUnavailable
}

// AnalysisSource is the third-party service supplying audio-feature
// measurements for tracks.
type AnalysisSource interface {
	// ResolveTrackIDs maps streaming-service track IDs to analysis-service
	// IDs. IDs the service does not know are simply absent from the result.
	ResolveTrackIDs(ctx context.Context, trackIDs []string) (map[string]string, error)

	// AudioFeatures fetches the named measurements for one analysis-service
	// track ID.
	AudioFeatures(ctx context.Context, analysisID string) (map[string]float64, error)
}
