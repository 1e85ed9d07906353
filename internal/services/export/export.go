// Package export serializes the full record set for file download. All three
// formats emit the identical field set in identical row order; only the
// encoding differs.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"weather-records/internal/models"
)

const (
	FormatCSV      = "csv"
	FormatJSON     = "json"
	FormatMarkdown = "md"
)

var header = []string{
	"id", "location", "start_date", "end_date",
	"avg_temperature_c", "description", "latitude", "longitude",
	"created_at", "updated_at",
}

// Encode renders records in the requested format and returns the payload with
// its MIME type and file extension. Unrecognized formats fall back to CSV.
func Encode(recs []models.WeatherRecord, format string) (data []byte, mimeType, ext string, err error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		data, err = toJSON(recs)
		return data, "application/json", "json", err
	case FormatMarkdown, "markdown":
		return toMarkdown(recs), "text/markdown", "md", nil
	default:
		data, err = toCSV(recs)
		return data, "text/csv", "csv", err
	}
}

func toCSV(recs []models.WeatherRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, rec := range recs {
		if err := w.Write(rowValues(rec)); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()

	return buf.Bytes(), w.Error()
}

func toJSON(recs []models.WeatherRecord) ([]byte, error) {
	if recs == nil {
		recs = []models.WeatherRecord{}
	}

	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal records: %w", err)
	}

	return data, nil
}

func toMarkdown(recs []models.WeatherRecord) []byte {
	var b strings.Builder

	b.WriteString("| " + strings.Join(header, " | ") + " |\n")

	separators := make([]string, len(header))
	for i := range separators {
		separators[i] = "---"
	}
	b.WriteString("| " + strings.Join(separators, " | ") + " |\n")

	for _, rec := range recs {
		b.WriteString("| " + strings.Join(rowValues(rec), " | ") + " |\n")
	}

	return []byte(b.String())
}

// rowValues renders one record in header order using canonical string forms:
// ISO-8601 timestamps, shortest-round-trip floats, empty string for nulls.
func rowValues(rec models.WeatherRecord) []string {
	return []string{
		strconv.FormatInt(rec.ID, 10),
		rec.Location,
		rec.StartDate,
		rec.EndDate,
		formatFloat(rec.AvgTemperatureC),
		formatString(rec.Description),
		formatFloat(rec.Latitude),
		formatFloat(rec.Longitude),
		rec.CreatedAt.Format(time.RFC3339Nano),
		rec.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
