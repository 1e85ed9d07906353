package records

// ValidationError is a client-input failure; its message is surfaced
// verbatim with a 400 status.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UpstreamError means a provider returned no usable data or could not be
// reached. The client-facing contract keeps these as 400s with a generic
// message rather than leaking provider details.
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string {
	return e.Message
}

const (
	msgGeocodeNotFound    = "location not found via geocoding"
	msgWeatherUnavailable = "unable to retrieve weather for that date range"
)
