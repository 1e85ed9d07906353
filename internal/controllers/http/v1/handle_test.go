package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-records/internal/models"
	"weather-records/internal/services/records"
	"weather-records/internal/storage"
	"weather-records/pkg/httpserver"
	"weather-records/pkg/logger"
)

type stubGeocoder struct {
	result    *models.GeoResult
	err       error
	callCount int
}

func (s *stubGeocoder) Resolve(ctx context.Context, query string) (*models.GeoResult, error) {
	s.callCount++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubWeatherSource struct {
	extremes *models.DailyExtremes
	err      error
}

func (s *stubWeatherSource) FetchDailyExtremes(ctx context.Context, lat, lon float64, startDate, endDate string) (*models.DailyExtremes, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.extremes, nil
}

type testEnv struct {
	app     *fiber.App
	geo     *stubGeocoder
	weather *stubWeatherSource
	store   storage.RecordStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := storage.NewSQLiteRecordStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	geo := &stubGeocoder{result: &models.GeoResult{
		Name:        "Paris",
		CountryCode: "FR",
		Latitude:    48.8566,
		Longitude:   2.3522,
	}}
	weather := &stubWeatherSource{extremes: &models.DailyExtremes{
		TempMax: []float64{10, 12, 8},
		TempMin: []float64{2, 4, 0},
	}}

	l := logger.NewZapLogger("test-app")
	service := records.NewService(store, geo, weather, l)

	app := httpserver.InitFiberServer("weather-api", "*")
	NewRouter(app, service, "weather-api", l)

	return &testEnv{app: app, geo: geo, weather: weather, store: store}
}

func (e *testEnv) request(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	return out
}

func TestHandleHealth(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeEnvelope(t, resp)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "weather-api", body["service"])
}

func TestHandleCreateRecord(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/records", map[string]string{
		"location":   "Paris",
		"start_date": "2024-01-01",
		"end_date":   "2024-01-03",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeEnvelope(t, resp)
	assert.Equal(t, true, body["ok"])

	data := body["data"].(map[string]any)
	assert.Equal(t, float64(1), data["id"])
	assert.Equal(t, "Paris, FR", data["location"])
	assert.Equal(t, "2024-01-01", data["start_date"])
	assert.Equal(t, "2024-01-03", data["end_date"])
	assert.Equal(t, 6.0, data["avg_temperature_c"])
	assert.Equal(t, "avg of daily means over 3 day(s)", data["description"])
	assert.Equal(t, 48.8566, data["latitude"])
	assert.Equal(t, 2.3522, data["longitude"])
	assert.NotEmpty(t, data["created_at"])
	assert.NotEmpty(t, data["updated_at"])
}

func TestHandleCreateRecord_MissingLocation(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/records", map[string]string{
		"start_date": "2024-01-01",
		"end_date":   "2024-01-03",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeEnvelope(t, resp)
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "location is required", body["error"])
}

func TestHandleCreateRecord_BadDateFormat(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/records", map[string]string{
		"location":   "Paris",
		"start_date": "01/01/2024",
		"end_date":   "2024-01-03",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeEnvelope(t, resp)
	assert.Equal(t, "date must be YYYY-MM-DD", body["error"])
}

func TestHandleCreateRecord_StartAfterEnd(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/records", map[string]string{
		"location":   "Paris",
		"start_date": "2024-01-05",
		"end_date":   "2024-01-03",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeEnvelope(t, resp)
	assert.Equal(t, "start_date cannot be after end_date", body["error"])
}

func TestHandleCreateRecord_GeocodeNoMatch(t *testing.T) {
	env := newTestEnv(t)
	env.geo.result = nil

	resp := env.request(t, http.MethodPost, "/api/records", map[string]string{
		"location":   "Nowhereville",
		"start_date": "2024-01-01",
		"end_date":   "2024-01-03",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeEnvelope(t, resp)
	assert.Equal(t, "location not found via geocoding", body["error"])
}

func TestHandleCreateRecord_WeatherUnavailable(t *testing.T) {
	env := newTestEnv(t)
	env.weather.err = errors.New("gateway timeout")

	resp := env.request(t, http.MethodPost, "/api/records", map[string]string{
		"location":   "Paris",
		"start_date": "2024-01-01",
		"end_date":   "2024-01-03",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeEnvelope(t, resp)
	assert.Equal(t, "unable to retrieve weather for that date range", body["error"])

	recs, err := env.store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recs, "no partial writes on provider failure")
}

func TestHandleListRecords_NewestFirst(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 3; i++ {
		resp := env.request(t, http.MethodPost, "/api/records", map[string]string{
			"location":   "Paris",
			"start_date": "2024-01-01",
			"end_date":   "2024-01-03",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := env.request(t, http.MethodGet, "/api/records", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeEnvelope(t, resp)
	data := body["data"].([]any)
	require.Len(t, data, 3)

	ids := make([]float64, 0, 3)
	for _, item := range data {
		ids = append(ids, item.(map[string]any)["id"].(float64))
	}
	assert.Equal(t, []float64{3, 2, 1}, ids)
}

func TestHandleUpdateRecord_EndDateOnly(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/records", map[string]string{
		"location":   "Paris",
		"start_date": "2024-01-01",
		"end_date":   "2024-01-03",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, 1, env.geo.callCount)

	resp = env.request(t, http.MethodPut, "/api/records/1", map[string]string{
		"end_date": "2024-01-05",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeEnvelope(t, resp)
	data := body["data"].(map[string]any)
	assert.Equal(t, "2024-01-01", data["start_date"])
	assert.Equal(t, "2024-01-05", data["end_date"])
	assert.Equal(t, 2, env.geo.callCount, "update re-resolves geocoding")
}

func TestHandleUpdateRecord_MergedPairInvalid(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/records", map[string]string{
		"location":   "Paris",
		"start_date": "2024-01-10",
		"end_date":   "2024-01-12",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.request(t, http.MethodPut, "/api/records/1", map[string]string{
		"end_date": "2024-01-05",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeEnvelope(t, resp)
	assert.Equal(t, "start_date cannot be after end_date", body["error"])
}

func TestHandleUpdateRecord_NotFound(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPut, "/api/records/42", map[string]string{
		"location": "Paris",
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	body := decodeEnvelope(t, resp)
	assert.Equal(t, "record not found", body["error"])
}

func TestHandleDeleteRecord(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/records", map[string]string{
		"location":   "Paris",
		"start_date": "2024-01-01",
		"end_date":   "2024-01-03",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.request(t, http.MethodDelete, "/api/records/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeEnvelope(t, resp)
	assert.Equal(t, true, body["ok"])

	resp = env.request(t, http.MethodGet, "/api/records", nil)
	list := decodeEnvelope(t, resp)
	assert.Empty(t, list["data"])
}

func TestHandleDeleteRecord_NotFound(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/records", map[string]string{
		"location":   "Paris",
		"start_date": "2024-01-01",
		"end_date":   "2024-01-03",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.request(t, http.MethodDelete, "/api/records/99", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/records", nil)
	list := decodeEnvelope(t, resp)
	assert.Len(t, list["data"], 1, "record count unchanged")
}

func TestHandleExport_CSVDefault(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/records", map[string]string{
		"location":   "Paris",
		"start_date": "2024-01-01",
		"end_date":   "2024-01-03",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/export", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Equal(t, "attachment; filename=weather_export.csv", resp.Header.Get("Content-Disposition"))

	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "id,location,"))
	assert.Contains(t, string(data), "Paris, FR")
}

func TestHandleExport_JSON(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/api/export?format=json", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "attachment; filename=weather_export.json", resp.Header.Get("Content-Disposition"))
}

func TestHandleExport_Markdown(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/api/export?format=md", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "text/markdown", resp.Header.Get("Content-Type"))
	assert.Equal(t, "attachment; filename=weather_export.md", resp.Header.Get("Content-Disposition"))
}
