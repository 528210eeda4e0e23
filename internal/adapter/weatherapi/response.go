package weatherapi

import (
	"errors"
	"fmt"
	"math"

	"github.com/tidwall/gjson"

	"github.com/couchcryptid/pogodynka/internal/domain"
)

// parseCurrent extracts a snapshot from a current.json payload. Every field
// must be present with the expected JSON type.
func parseCurrent(body []byte) (domain.Snapshot, error) {
	if !gjson.ValidBytes(body) {
		return domain.Snapshot{}, &domain.MalformedResponseError{Err: errors.New("body is not valid JSON")}
	}

	current := gjson.GetBytes(body, "current")
	if !current.IsObject() {
		return domain.Snapshot{}, &domain.MalformedResponseError{Field: "current"}
	}

	var snap domain.Snapshot
	var err error

	if snap.TemperatureC, err = number(current, "temp_c"); err != nil {
		return domain.Snapshot{}, err
	}
	if snap.FeelsLikeC, err = number(current, "feelslike_c"); err != nil {
		return domain.Snapshot{}, err
	}
	humidity, err := number(current, "humidity")
	if err != nil {
		return domain.Snapshot{}, err
	}
	if humidity < 0 || humidity > 100 {
		return domain.Snapshot{}, &domain.MalformedResponseError{
			Field: "current.humidity",
			Err:   fmt.Errorf("out of range: %v", humidity),
		}
	}
	if humidity != math.Trunc(humidity) {
		return domain.Snapshot{}, &domain.MalformedResponseError{
			Field: "current.humidity",
			Err:   fmt.Errorf("not an integer: %v", humidity),
		}
	}
	snap.HumidityPct = int(humidity)
	if snap.PressureHpa, err = number(current, "pressure_mb"); err != nil {
		return domain.Snapshot{}, err
	}
	windKPH, err := number(current, "wind_kph")
	if err != nil {
		return domain.Snapshot{}, err
	}
	snap.WindSpeedMps = domain.KPHToMPS(windKPH)
	if snap.ConditionText, err = text(current, "condition.text"); err != nil {
		return domain.Snapshot{}, err
	}

	return snap, nil
}

func number(current gjson.Result, path string) (float64, error) {
	r, err := lookup(current, path, gjson.Number)
	if err != nil {
		return 0, err
	}
	return r.Float(), nil
}

func text(current gjson.Result, path string) (string, error) {
	r, err := lookup(current, path, gjson.String)
	if err != nil {
		return "", err
	}
	return r.String(), nil
}

func lookup(current gjson.Result, path string, want gjson.Type) (gjson.Result, error) {
	r := current.Get(path)
	if !r.Exists() || r.Type == gjson.Null {
		return r, &domain.MalformedResponseError{Field: "current." + path}
	}
	if r.Type != want {
		return r, &domain.MalformedResponseError{
			Field: "current." + path,
			Err:   fmt.Errorf("expected %s, got %s", want, r.Type),
		}
	}
	return r, nil
}
