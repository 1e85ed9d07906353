package records

import (
	"time"

	"weather-records/internal/models"
)

// ValidateDateRange parses two YYYY-MM-DD strings and enforces start <= end.
// It is pure; both failures are ValidationErrors with client-ready messages.
func ValidateDateRange(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.Parse(models.DateLayout, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, &ValidationError{Message: "date must be YYYY-MM-DD"}
	}

	end, err := time.Parse(models.DateLayout, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, &ValidationError{Message: "date must be YYYY-MM-DD"}
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, &ValidationError{Message: "start_date cannot be after end_date"}
	}

	return start, end, nil
}
