package models

import "time"

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// WeatherRecord is the persisted weather summary for a location and an
// inclusive date range.
type WeatherRecord struct {
	ID              int64     `json:"id"`
	Location        string    `json:"location"`
	StartDate       string    `json:"start_date"`
	EndDate         string    `json:"end_date"`
	AvgTemperatureC *float64  `json:"avg_temperature_c"`
	Description     *string   `json:"description"`
	Latitude        *float64  `json:"latitude"`
	Longitude       *float64  `json:"longitude"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
