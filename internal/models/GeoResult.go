package models

import "fmt"

// GeoResult is a single geocoding match.
type GeoResult struct {
	Name        string  `json:"name"`
	CountryCode string  `json:"country_code"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// CanonicalLocation is the stored display form, "Name, CountryCode".
func (g *GeoResult) CanonicalLocation() string {
	return fmt.Sprintf("%s, %s", g.Name, g.CountryCode)
}
