package domain

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrCityNotFound     = errors.New("city not found")
	ErrInvalidAPIKey    = errors.New("weather service rejected the API key")
	ErrLocationUnknown  = errors.New("could not determine your location")
	ErrUpstreamResponse = errors.New("unexpected response from weather service")
)

// Units selects the temperature scale the provider reports in.
type Units string

const (
	Metric   Units = "metric"
	Imperial Units = "imperial"
)

// ParseUnits accepts metric or imperial in any case; empty means metric.
func ParseUnits(s string) (Units, bool) {
	switch Units(strings.ToLower(strings.TrimSpace(s))) {
	case "", Metric:
		return Metric, true
	case Imperial:
		return Imperial, true
	}
	return "", false
}

// Symbol is the display suffix for temperatures in u.
func (u Units) Symbol() string {
	if u == Imperial {
		return "°F"
	}
	return "°C"
}

// Toggle flips between metric and imperial.
func (u Units) Toggle() Units {
	if u == Imperial {
		return Metric
	}
	return Imperial
}

// Conditions holds the fields read from a current-weather response.
type Conditions struct {
	City        string  `json:"city"`
	Country     string  `json:"country"`
	Temp        float64 `json:"temp"`
	FeelsLike   float64 `json:"feels_like"`
	TempMin     float64 `json:"temp_min"`
	TempMax     float64 `json:"temp_max"`
	Humidity    int     `json:"humidity"`
	Pressure    int     `json:"pressure"`
	WindSpeed   float64 `json:"wind_speed"`
	Cloudiness  int     `json:"cloudiness"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
}

// ForecastEntry is one point of the 3-hourly forecast.
type ForecastEntry struct {
	Time        string  `json:"time"` // provider dt_txt, "2006-01-02 15:04:05"
	Temp        float64 `json:"temp"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
}

// Date is the calendar day part of Time.
func (e ForecastEntry) Date() string {
	date, _, _ := strings.Cut(e.Time, " ")
	return date
}

// Location is the result of an IP geolocation lookup.
type Location struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// Client fetches weather for a city name.
type Client interface {
	Current(ctx context.Context, city string, units Units) (*Conditions, error)
	Forecast(ctx context.Context, city string, units Units) ([]ForecastEntry, error)
}

// Locator resolves the caller's approximate location.
type Locator interface {
	Locate(ctx context.Context) (*Location, error)
}

// HistoryStore remembers searched cities, most recent first.
type HistoryStore interface {
	Add(ctx context.Context, city string) error
	List(ctx context.Context) ([]string, error)
}

// HistoryLimit caps the number of remembered cities.
const HistoryLimit = 10
