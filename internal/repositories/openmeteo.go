package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"weather-records/internal/models"
	"weather-records/pkg/logger"
)

const ForecastBaseURL = "https://api.open-meteo.com/v1/forecast"

// OpenMeteoForecastRepository fetches daily temperature extremes from the
// Open-Meteo forecast API.
type OpenMeteoForecastRepository struct {
	baseURL    string
	httpClient HTTPClient
	l          *logger.Logger
}

func NewOpenMeteoForecastRepository(baseURL string, l *logger.Logger, httpClient HTTPClient) *OpenMeteoForecastRepository {
	if baseURL == "" {
		baseURL = ForecastBaseURL
	}

	return &OpenMeteoForecastRepository{
		baseURL:    baseURL,
		httpClient: httpClient,
		l:          l,
	}
}

func (o *OpenMeteoForecastRepository) Name() string {
	return "open-meteo"
}

func (o *OpenMeteoForecastRepository) FetchDailyExtremes(
	ctx context.Context,
	lat, lon float64,
	startDate, endDate string,
) (*models.DailyExtremes, error) {
	reqURL := fmt.Sprintf(
		"%s?latitude=%f&longitude=%f&start_date=%s&end_date=%s&daily=temperature_2m_max,temperature_2m_min&timezone=auto",
		o.baseURL, lat, lon, startDate, endDate,
	)

	o.l.Debug("making forecast API request", map[string]any{
		"repository": o.Name(),
		"lat":        lat,
		"lon":        lon,
		"start_date": startDate,
		"end_date":   endDate,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close()

	o.l.Debug("received forecast API response", map[string]any{
		"repository": o.Name(),
		"status":     resp.StatusCode,
	})

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error (status %d): %s", resp.StatusCode, resp.Status)
	}

	var response struct {
		Daily models.DailyExtremes `json:"daily"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	o.l.Debug("parsed forecast API response", map[string]any{
		"repository": o.Name(),
		"max_days":   len(response.Daily.TempMax),
		"min_days":   len(response.Daily.TempMin),
	})

	return &response.Daily, nil
}
