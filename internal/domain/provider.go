package domain

import "context"

// WeatherProvider returns the current weather for a location.
type WeatherProvider interface {
	// FetchWeather looks up current conditions for city and country.
	// Failures are *UpstreamError or *MalformedResponseError.
	FetchWeather(ctx context.Context, city, country string) (Snapshot, error)
}
