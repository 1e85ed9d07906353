package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"weather-records/internal/models"
	"weather-records/pkg/logger"
)

const GeocodingBaseURL = "https://geocoding-api.open-meteo.com/v1/search"

// OpenMeteoGeocodingRepository resolves free-text locations with the
// Open-Meteo geocoding API, requesting a single best match.
type OpenMeteoGeocodingRepository struct {
	baseURL    string
	httpClient HTTPClient
	l          *logger.Logger
}

func NewOpenMeteoGeocodingRepository(baseURL string, l *logger.Logger, httpClient HTTPClient) *OpenMeteoGeocodingRepository {
	if baseURL == "" {
		baseURL = GeocodingBaseURL
	}

	return &OpenMeteoGeocodingRepository{
		baseURL:    baseURL,
		httpClient: httpClient,
		l:          l,
	}
}

func (g *OpenMeteoGeocodingRepository) Name() string {
	return "open-meteo-geocoding"
}

type geocodingResponse struct {
	Results []models.GeoResult `json:"results"`
}

// Resolve returns the best match for query, or nil when the provider has no
// match. A non-200 status is treated the same as an empty result set; only
// transport and decoding failures surface as errors.
func (g *OpenMeteoGeocodingRepository) Resolve(ctx context.Context, query string) (*models.GeoResult, error) {
	reqURL := fmt.Sprintf("%s?name=%s&count=1", g.baseURL, url.QueryEscape(query))

	g.l.Debug("making geocoding API request", map[string]any{
		"repository": g.Name(),
		"query":      query,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close()

	g.l.Debug("received geocoding API response", map[string]any{
		"repository": g.Name(),
		"status":     resp.StatusCode,
	})

	if resp.StatusCode != http.StatusOK {
		g.l.Warning("geocoding returned non-OK status, treating as no match", map[string]any{
			"repository": g.Name(),
			"status":     resp.StatusCode,
		})
		return nil, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var response geocodingResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if len(response.Results) == 0 {
		g.l.Info("geocoding found no match", map[string]any{
			"repository": g.Name(),
			"query":      query,
		})
		return nil, nil
	}

	return &response.Results[0], nil
}
