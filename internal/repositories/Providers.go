package repositories

import (
	"context"
	"net/http"
	"time"

	"weather-records/config"
	"weather-records/internal/models"
	"weather-records/pkg/logger"
)

// HTTPClient is the outbound transport, injectable so tests can swap in
// doubles without a live network.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Geocoder resolves a free-text location to coordinates and a canonical name.
// A (nil, nil) return means the provider answered but found nothing; an error
// means the provider could not be reached or returned garbage.
type Geocoder interface {
	Resolve(ctx context.Context, query string) (*models.GeoResult, error)
}

// WeatherSource fetches daily temperature extremes for an inclusive date
// range. Dates are in YYYY-MM-DD form.
type WeatherSource interface {
	FetchDailyExtremes(ctx context.Context, lat, lon float64, startDate, endDate string) (*models.DailyExtremes, error)
}

// InitProviders builds the Open-Meteo clients with a shared bounded-timeout
// HTTP client.
func InitProviders(cfg *config.Config, l *logger.Logger) (Geocoder, WeatherSource) {
	httpClient := &http.Client{
		Timeout: time.Duration(cfg.Providers.TimeoutSeconds) * time.Second,
	}

	geo := NewOpenMeteoGeocodingRepository(cfg.Providers.GeocodingBaseURL, l, httpClient)
	weather := NewOpenMeteoForecastRepository(cfg.Providers.ForecastBaseURL, l, httpClient)

	return geo, weather
}
