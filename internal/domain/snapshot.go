package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// Snapshot is a single normalized current-weather reading.
type Snapshot struct {
	TemperatureC  float64 `json:"temperature_c"`
	FeelsLikeC    float64 `json:"feels_like_c"`
	HumidityPct   int     `json:"humidity_pct"`
	PressureHpa   float64 `json:"pressure_hpa"`
	WindSpeedMps  float64 `json:"wind_speed_mps"`
	ConditionText string  `json:"condition_text"`
}

// KPHToMPS converts km/h to m/s, rounded once to one decimal place. Ties on
// the exact binary value round to even, as fixed-point formatting does.
func KPHToMPS(kph float64) float64 {
	mps, _ := strconv.ParseFloat(strconv.FormatFloat(kph/3.6, 'f', 1, 64), 64)
	return mps
}

// Report is a snapshot together with the location it was requested for and
// the time the lookup completed.
type Report struct {
	Location   Location
	Snapshot   Snapshot
	ObservedAt time.Time
}

// NewReport stamps a snapshot with the current time.
func NewReport(loc Location, snap Snapshot) Report {
	return Report{Location: loc, Snapshot: snap, ObservedAt: clock.Now()}
}

// Lookup outcomes, used for metrics labels and published events.
const (
	OutcomeSuccess   = "success"
	OutcomeUpstream  = "upstream_error"
	OutcomeMalformed = "malformed"
	OutcomeRejected  = "rejected"
	OutcomeCanceled  = "canceled"
)

// LookupEvent records the result of one lookup for downstream consumers.
type LookupEvent struct {
	ID         string    `json:"id"`
	City       string    `json:"city"`
	Country    string    `json:"country"`
	Outcome    string    `json:"outcome"`
	Snapshot   *Snapshot `json:"snapshot,omitempty"`
	Error      string    `json:"error,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewLookupEvent builds an event for loc. Pass a nil snap for failed lookups.
func NewLookupEvent(loc Location, outcome string, snap *Snapshot, err error) LookupEvent {
	now := clock.Now()
	ev := LookupEvent{
		ID:         eventID(loc, now),
		City:       loc.City,
		Country:    loc.Country,
		Outcome:    outcome,
		Snapshot:   snap,
		OccurredAt: now,
	}
	if err != nil {
		ev.Error = err.Error()
	}
	return ev
}

// eventID is a short SHA-256 of city|country|timestamp.
func eventID(loc Location, at time.Time) string {
	input := fmt.Sprintf("%s|%s|%s", loc.City, loc.Country, at.UTC().Format(time.RFC3339Nano))
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:8])
}
