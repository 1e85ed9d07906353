package records

import (
	"fmt"
	"math"

	"weather-records/internal/models"
)

// RangeAverage reduces daily temperature extremes to a single value: the mean
// of each day's (max+min)/2, rounded to one decimal place. Partial or
// misaligned series are treated as total failure rather than best-effort, so
// ok is false when either series is empty or the lengths differ. A single-day
// range is valid and yields n=1.
func RangeAverage(extremes *models.DailyExtremes) (avg float64, description string, ok bool) {
	if extremes == nil {
		return 0, "", false
	}

	n := len(extremes.TempMax)
	if n == 0 || n != len(extremes.TempMin) {
		return 0, "", false
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += (extremes.TempMax[i] + extremes.TempMin[i]) / 2.0
	}

	avg = math.Round(sum/float64(n)*10) / 10
	description = fmt.Sprintf("avg of daily means over %d day(s)", n)

	return avg, description, true
}
