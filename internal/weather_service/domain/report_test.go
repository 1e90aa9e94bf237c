package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func forecastFixture(days int) []ForecastEntry {
	var out []ForecastEntry
	for d := 1; d <= days; d++ {
		for _, h := range []string{"09:00:00", "12:00:00", "15:00:00"} {
			out = append(out, ForecastEntry{Time: fmt.Sprintf("2024-07-%02d %s", d, h), Temp: float64(d)})
		}
	}
	return out
}

func TestDailyForecast(t *testing.T) {
	daily := DailyForecast(forecastFixture(6))
	assert.Len(t, daily, 5)
	for i, e := range daily {
		assert.Equal(t, fmt.Sprintf("2024-07-%02d 12:00:00", i+1), e.Time)
		assert.Equal(t, fmt.Sprintf("2024-07-%02d", i+1), e.Date())
	}

	assert.Len(t, DailyForecast(forecastFixture(3)), 3)
	assert.Empty(t, DailyForecast(nil))
}

func TestIsHighTemperature(t *testing.T) {
	assert.False(t, IsHighTemperature(35, Metric))
	assert.True(t, IsHighTemperature(35.1, Metric))
	assert.False(t, IsHighTemperature(95, Imperial))
	assert.True(t, IsHighTemperature(96, Imperial))
	assert.False(t, IsHighTemperature(40, Imperial))
}

func TestConvertTemp(t *testing.T) {
	assert.InDelta(t, 212.0, ConvertTemp(100, Metric, Imperial), 1e-9)
	assert.InDelta(t, 0.0, ConvertTemp(32, Imperial, Metric), 1e-9)
	assert.InDelta(t, 21.5, ConvertTemp(21.5, Metric, Metric), 1e-9)
}

func TestReport_ConvertTo(t *testing.T) {
	r := NewReport(Metric, Conditions{Temp: 36, FeelsLike: 30, TempMin: 20, TempMax: 40},
		[]ForecastEntry{{Time: "2024-07-01 12:00:00", Temp: 10}})
	assert.True(t, r.HighTemperatureAlert)

	r.ConvertTo(Imperial)
	assert.Equal(t, Imperial, r.Units)
	assert.InDelta(t, 96.8, r.Current.Temp, 1e-9)
	assert.InDelta(t, 50.0, r.Daily[0].Temp, 1e-9)
	assert.True(t, r.HighTemperatureAlert)

	r.ConvertTo(Metric)
	assert.InDelta(t, 36.0, r.Current.Temp, 1e-9)
}

func TestParseUnits(t *testing.T) {
	u, ok := ParseUnits("IMPERIAL")
	assert.True(t, ok)
	assert.Equal(t, Imperial, u)
	u, ok = ParseUnits("")
	assert.True(t, ok)
	assert.Equal(t, Metric, u)
	_, ok = ParseUnits("kelvin")
	assert.False(t, ok)
	assert.Equal(t, "°F", Imperial.Symbol())
	assert.Equal(t, Metric, Imperial.Toggle())
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Light Rain", TitleCase("light rain"))
	assert.Equal(t, "", TitleCase(""))
}
