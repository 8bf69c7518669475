package types

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Coordinates are the raw latitude/longitude pair sent to the weather provider.
type Coordinates struct {
	Latitude  string
	Longitude string
}

// Key identifies the coordinates for caching and request collapsing.
func (c Coordinates) Key() string {
	return strings.TrimSpace(c.Latitude) + "," + strings.TrimSpace(c.Longitude)
}

var decimalPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// Parse returns the numeric pair, failing when either side is not a plain
// decimal number. NaN, Inf, exponents and hex floats are rejected.
func (c Coordinates) Parse() (lat, lon float64, err error) {
	lat, err = parseDecimal(c.Latitude)
	if err != nil {
		return 0, 0, fmt.Errorf("latitude: %w", err)
	}
	lon, err = parseDecimal(c.Longitude)
	if err != nil {
		return 0, 0, fmt.Errorf("longitude: %w", err)
	}
	return lat, lon, nil
}

func parseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if !decimalPattern.MatchString(s) {
		return 0, fmt.Errorf("%q is not a decimal number", s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return v, nil
}

// TemperatureReading is a current temperature in degrees Celsius. It is never stored.
type TemperatureReading struct {
	Celsius   float64   `json:"celsius"`
	FetchedAt time.Time `json:"fetched_at"`
}

// CityTemperatureRow is a cities table row with the temperature text filled in.
// Temperature is empty when no reading could be obtained.
type CityTemperatureRow struct {
	Country     string `json:"country"`
	City        string `json:"city"`
	Temperature string `json:"temperature"`
}

// FormatCelsius renders a reading as "21.5°C".
func FormatCelsius(r TemperatureReading) string {
	return strconv.FormatFloat(r.Celsius, 'f', -1, 64) + "°C"
}

func hasText(s string) bool {
	return strings.TrimSpace(s) != ""
}
