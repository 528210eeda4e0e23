// Package domain models current-weather lookups against weatherapi.com.
//
// # Upstream
//
// Readings come from the weatherapi.com "current" endpoint:
//
//	GET https://api.weatherapi.com/v1/current.json?key=<key>&q=<city>,<country>&lang=pl
//
// The query term is the city and country joined by a single comma with no
// surrounding whitespace, e.g. "New York,USA". The upstream resolves the
// term itself; the adapter performs no local validation of either part.
//
// The lang parameter only affects current.condition.text, which is returned
// already translated (e.g. "Słonecznie" for lang=pl).
//
// # Field Mapping
//
//	current.temp_c          → Snapshot.TemperatureC  (°C)
//	current.feelslike_c     → Snapshot.FeelsLikeC    (°C)
//	current.humidity        → Snapshot.HumidityPct   (integer percent)
//	current.pressure_mb     → Snapshot.PressureHpa   (1 mb == 1 hPa)
//	current.wind_kph        → Snapshot.WindSpeedMps  (km/h ÷ 3.6, one decimal)
//	current.condition.text  → Snapshot.ConditionText
//
// Every field above is required. A payload missing any of them, or carrying
// one with the wrong JSON type, is reported as a [MalformedResponseError].
//
// # Failure Classification
//
// Transport failures, timeouts and non-2xx statuses are [UpstreamError]s and
// map to HTTP 502 at the web boundary. When the upstream answered, the raw
// response body is kept as the error detail.
//
// # Locations
//
// [DefaultLocations] is the table offered by the web form. The adapter does
// not consult it; the lookup service rejects unlisted pairs only when
// enforcement is switched on.
package domain
