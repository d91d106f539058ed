// Package reccobeats is an HTTP adapter for the ReccoBeats analysis service,
// which supplies audio-feature measurements for streaming-service tracks.
package reccobeats

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/netosnos/spotify-track-organizer/internal/core/ports"
)

// resolveBatchSize is the number of streaming-service IDs the track lookup
// endpoint accepts per request.
const resolveBatchSize = 40

// Client is an HTTP client for the ReccoBeats API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	maxRetries  int
	baseBackoff time.Duration
	batchDelay  time.Duration
}

// compile-time interface assertion
var _ ports.AnalysisSource = (*Client)(nil)

// NewClient constructs a ReccoBeats client against baseURL. batchDelay is
// the pause between consecutive batch lookups, keeping bulk resolution
// under the service's rate limit.
func NewClient(httpClient *http.Client, baseURL string, batchDelay time.Duration) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		batchDelay: batchDelay,
	}
}

// ResolveTrackIDs maps streaming-service track IDs to ReccoBeats IDs,
// batching requests. IDs the service does not know are absent from the
// result rather than errors.
func (c *Client) ResolveTrackIDs(ctx context.Context, trackIDs []string) (map[string]string, error) {
	resolved := make(map[string]string, len(trackIDs))

	for start := 0; start < len(trackIDs); start += resolveBatchSize {
		if start > 0 && c.batchDelay > 0 {
			if err := sleepWithContext(ctx, c.batchDelay); err != nil {
				return nil, err
			}
		}
		end := start + resolveBatchSize
		if end > len(trackIDs) {
			end = len(trackIDs)
		}
		if err := c.resolveBatch(ctx, trackIDs[start:end], resolved); err != nil {
			return nil, err
		}
	}

	return resolved, nil
}

func (c *Client) resolveBatch(ctx context.Context, trackIDs []string, resolved map[string]string) error {
	lookupURL, err := url.Parse(fmt.Sprintf("%s/v1/track", c.baseURL))
	if err != nil {
		return fmt.Errorf("reccobeats adapter: invalid track url: %w", err)
	}
	query := lookupURL.Query()
	query.Set("ids", strings.Join(trackIDs, ","))
	lookupURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL.String(), nil)
	if err != nil {
		return fmt.Errorf("reccobeats adapter: failed to create track request: %w", err)
	}

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return fmt.Errorf("reccobeats adapter: track request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("reccobeats adapter: track status %d", resp.StatusCode)
	}

	var page trackPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return fmt.Errorf("reccobeats adapter: track decode error: %w", err)
	}

	requested := make(map[string]struct{}, len(trackIDs))
	for _, id := range trackIDs {
		requested[id] = struct{}{}
	}

	// entries reference the source track through their href; the last path
	// segment is the streaming-service ID
	for _, entry := range page.Content {
		sourceID := hrefID(entry.Href)
		if sourceID == "" {
			continue
		}
		if _, ok := requested[sourceID]; ok {
			resolved[sourceID] = entry.ID
		}
	}

	return nil
}

// AudioFeatures fetches the measurements for one ReccoBeats track ID. A 404
// maps to ports.ErrFeaturesUnavailable so callers can skip and log.
func (c *Client) AudioFeatures(ctx context.Context, analysisID string) (map[string]float64, error) {
	featuresURL := fmt.Sprintf("%s/v1/track/%s/audio-features", c.baseURL, analysisID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, featuresURL, nil)
	if err != nil {
		return nil, fmt.Errorf("reccobeats adapter: failed to create features request: %w", err)
	}

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return nil, fmt.Errorf("reccobeats adapter: features request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("reccobeats adapter: %w", ports.FeaturesUnavailableError{AnalysisID: analysisID})
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reccobeats adapter: features status %d", resp.StatusCode)
	}

	var features audioFeatures
	if err := json.NewDecoder(resp.Body).Decode(&features); err != nil {
		return nil, fmt.Errorf("reccobeats adapter: features decode error: %w", err)
	}

	return features.toMap(), nil
}

func hrefID(href string) string {
	if href == "" {
		return ""
	}
	if i := strings.LastIndex(href, "/"); i >= 0 {
		return href[i+1:]
	}
	return href
}
