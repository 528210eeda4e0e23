package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Reading is one labelled, display-formatted value of a snapshot.
type Reading struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Readings formats a snapshot for display, in a fixed order:
// temperature, feels-like, humidity, pressure, wind, condition.
func (s Snapshot) Readings() []Reading {
	return []Reading{
		{Label: "Temperatura", Value: FormatDecimal(s.TemperatureC) + "°C"},
		{Label: "Odczuwalna", Value: FormatDecimal(s.FeelsLikeC) + "°C"},
		{Label: "Wilgotność", Value: fmt.Sprintf("%d %%", s.HumidityPct)},
		{Label: "Ciśnienie", Value: FormatDecimal(s.PressureHpa) + " hPa"},
		{Label: "Wiatr", Value: fmt.Sprintf("%.1f m/s", s.WindSpeedMps)},
		{Label: "Opis", Value: s.ConditionText},
	}
}

// FormatDecimal renders v with the shortest exact representation but always
// at least one decimal place: 20 → "20.0", 1012.25 → "1012.25".
func FormatDecimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
