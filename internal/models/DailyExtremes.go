package models

// DailyExtremes carries the raw per-day temperature series returned by the
// forecast provider for an inclusive date range. The two series are expected
// to be aligned index by index; callers must treat a length mismatch as
// unusable data.
type DailyExtremes struct {
	TempMax []float64 `json:"temperature_2m_max"`
	TempMin []float64 `json:"temperature_2m_min"`
}
