package records

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"weather-records/internal/models"
	"weather-records/internal/repositories"
	"weather-records/internal/storage"
	"weather-records/pkg/logger"
)

// Service orchestrates the create/update transaction: validate input, resolve
// geocoding, fetch and reduce weather, then persist. Any failure aborts
// before the store is touched, so a failed request never leaves a partial
// write behind.
type Service struct {
	store   storage.RecordStore
	geo     repositories.Geocoder
	weather repositories.WeatherSource
	l       *logger.Logger
}

func NewService(
	store storage.RecordStore,
	geo repositories.Geocoder,
	weather repositories.WeatherSource,
	l *logger.Logger,
) *Service {
	return &Service{
		store:   store,
		geo:     geo,
		weather: weather,
		l:       l,
	}
}

// CreateInput is the full payload required to create a record.
type CreateInput struct {
	Location  string
	StartDate string
	EndDate   string
}

// summary is the provider-derived portion of a record.
type summary struct {
	geo         *models.GeoResult
	avgTemp     float64
	description string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*models.WeatherRecord, error) {
	location := strings.TrimSpace(in.Location)
	if location == "" {
		return nil, &ValidationError{Message: "location is required"}
	}

	start, end, err := ValidateDateRange(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}

	sum, err := s.summarize(ctx, location, start.Format(models.DateLayout), end.Format(models.DateLayout))
	if err != nil {
		return nil, err
	}

	rec := &models.WeatherRecord{
		Location:        sum.geo.CanonicalLocation(),
		StartDate:       start.Format(models.DateLayout),
		EndDate:         end.Format(models.DateLayout),
		AvgTemperatureC: &sum.avgTemp,
		Description:     &sum.description,
		Latitude:        &sum.geo.Latitude,
		Longitude:       &sum.geo.Longitude,
	}

	if err := s.store.Create(ctx, rec); err != nil {
		return nil, errors.Wrap(err, "failed to persist record")
	}

	s.l.Info("record created", map[string]any{
		"id":       rec.ID,
		"location": rec.Location,
	})

	return rec, nil
}

// Update applies a partial patch. Dates supplied in the patch are combined
// with the stored values and the resulting pair is re-validated; the untouched
// side is never trusted blindly. Geocoding and weather are re-resolved on
// every update even when no relevant field changed, matching the documented
// lifecycle. Two concurrent updates to the same id are not serialized here;
// the one that commits last wins.
func (s *Service) Update(ctx context.Context, id int64, patch models.RecordPatch) (*models.WeatherRecord, error) {
	rec, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	startDate, endDate := rec.StartDate, rec.EndDate
	if patch.StartDate != nil || patch.EndDate != nil {
		if patch.StartDate != nil {
			startDate = *patch.StartDate
		}
		if patch.EndDate != nil {
			endDate = *patch.EndDate
		}

		start, end, err := ValidateDateRange(startDate, endDate)
		if err != nil {
			return nil, err
		}
		startDate = start.Format(models.DateLayout)
		endDate = end.Format(models.DateLayout)
	}

	locQuery := rec.Location
	if patch.Location != nil && strings.TrimSpace(*patch.Location) != "" {
		locQuery = strings.TrimSpace(*patch.Location)
	}

	sum, err := s.summarize(ctx, locQuery, startDate, endDate)
	if err != nil {
		return nil, err
	}

	rec.Location = sum.geo.CanonicalLocation()
	rec.StartDate = startDate
	rec.EndDate = endDate
	rec.AvgTemperatureC = &sum.avgTemp
	rec.Description = &sum.description
	rec.Latitude = &sum.geo.Latitude
	rec.Longitude = &sum.geo.Longitude

	if err := s.store.Update(ctx, rec); err != nil {
		return nil, err
	}

	s.l.Info("record updated", map[string]any{
		"id":       rec.ID,
		"location": rec.Location,
	})

	return rec, nil
}

func (s *Service) List(ctx context.Context) ([]models.WeatherRecord, error) {
	return s.store.List(ctx)
}

func (s *Service) ListForExport(ctx context.Context) ([]models.WeatherRecord, error) {
	return s.store.ListForExport(ctx)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.l.Info("record deleted", map[string]any{"id": id})

	return nil
}

// summarize runs the provider half of the transaction: geocode the location,
// fetch daily extremes for the range, reduce to a single average. Transport
// failures and legitimate zero-result responses both abort the request, but
// are logged at different levels so they stay distinguishable.
func (s *Service) summarize(ctx context.Context, locQuery, startDate, endDate string) (*summary, error) {
	geo, err := s.geo.Resolve(ctx, locQuery)
	if err != nil {
		s.l.Error(errors.Wrap(err, "geocoding transport failure"), map[string]any{
			"query": locQuery,
		})
		return nil, &UpstreamError{Message: msgGeocodeNotFound}
	}
	if geo == nil {
		s.l.Info("geocoding returned no match", map[string]any{"query": locQuery})
		return nil, &UpstreamError{Message: msgGeocodeNotFound}
	}

	extremes, err := s.weather.FetchDailyExtremes(ctx, geo.Latitude, geo.Longitude, startDate, endDate)
	if err != nil {
		s.l.Error(errors.Wrap(err, "weather fetch failure"), map[string]any{
			"lat":        geo.Latitude,
			"lon":        geo.Longitude,
			"start_date": startDate,
			"end_date":   endDate,
		})
		return nil, &UpstreamError{Message: msgWeatherUnavailable}
	}

	avg, description, ok := RangeAverage(extremes)
	if !ok {
		fields := map[string]any{"start_date": startDate, "end_date": endDate}
		if extremes != nil {
			fields["max_days"] = len(extremes.TempMax)
			fields["min_days"] = len(extremes.TempMin)
		}
		s.l.Warning("unusable daily extremes", fields)
		return nil, &UpstreamError{Message: msgWeatherUnavailable}
	}

	return &summary{
		geo:         geo,
		avgTemp:     avg,
		description: description,
	}, nil
}
