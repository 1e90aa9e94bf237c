package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	dailyForecastDays = 5
	noonMarker        = "12:00:00"
)

// Report is what a lookup returns to the presentation layer.
type Report struct {
	Units                Units           `json:"units"`
	Current              Conditions      `json:"current"`
	Daily                []ForecastEntry `json:"daily"`
	HighTemperatureAlert bool            `json:"high_temperature_alert"`
}

// NewReport assembles a report from raw provider data.
func NewReport(units Units, current Conditions, forecast []ForecastEntry) *Report {
	r := &Report{Units: units, Current: current, Daily: DailyForecast(forecast)}
	r.HighTemperatureAlert = IsHighTemperature(r.Current.Temp, r.Units)
	return r
}

// DailyForecast keeps the noon entries, at most five, in input order.
func DailyForecast(entries []ForecastEntry) []ForecastEntry {
	daily := make([]ForecastEntry, 0, dailyForecastDays)
	for _, e := range entries {
		if strings.Contains(e.Time, noonMarker) {
			daily = append(daily, e)
			if len(daily) == dailyForecastDays {
				break
			}
		}
	}
	return daily
}

// IsHighTemperature reports temperatures above 35 °C or 95 °F.
func IsHighTemperature(temp float64, u Units) bool {
	if u == Imperial {
		return temp > 95
	}
	return temp > 35
}

// ConvertTemp converts between Celsius (metric) and Fahrenheit (imperial).
func ConvertTemp(temp float64, from, to Units) float64 {
	switch {
	case from == to:
		return temp
	case from == Metric && to == Imperial:
		return temp*9/5 + 32
	case from == Imperial && to == Metric:
		return (temp - 32) * 5 / 9
	}
	return temp
}

// ConvertTo rewrites every temperature in the report to u.
func (r *Report) ConvertTo(u Units) {
	if r.Units == u {
		return
	}
	c := &r.Current
	c.Temp = ConvertTemp(c.Temp, r.Units, u)
	c.FeelsLike = ConvertTemp(c.FeelsLike, r.Units, u)
	c.TempMin = ConvertTemp(c.TempMin, r.Units, u)
	c.TempMax = ConvertTemp(c.TempMax, r.Units, u)
	for i := range r.Daily {
		r.Daily[i].Temp = ConvertTemp(r.Daily[i].Temp, r.Units, u)
	}
	r.Units = u
	r.HighTemperatureAlert = IsHighTemperature(c.Temp, u)
}

// TitleCase upper-cases the first letter of every space separated word.
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
