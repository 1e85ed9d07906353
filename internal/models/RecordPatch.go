package models

// RecordPatch is a partial update to a WeatherRecord. A nil field means
// "keep the stored value". Dates merged from a patch are re-validated as a
// pair before any provider call is made.
type RecordPatch struct {
	Location  *string `json:"location"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}
