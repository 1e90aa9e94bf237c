package ui

import (
	"fmt"
	"strings"

	"github.com/aradsms/contactbook/internal/weather_service/domain"
)

// RenderWeatherReport formats a report the way the CLI prints it. loc may be nil.
func RenderWeatherReport(r *domain.Report, loc *domain.Location) string {
	sym := r.Units.Symbol()
	c := r.Current

	var sb strings.Builder
	place := c.City
	if c.Country != "" {
		place += ", " + c.Country
	}
	sb.WriteString(StyleTitle.Render(place) + "\n")
	if loc != nil {
		sb.WriteString(StyleSubtle.Render(fmt.Sprintf("Detected location: %s, %s", loc.City, loc.Country)) + "\n")
	}
	sb.WriteString(fmt.Sprintf("%.1f%s  %s\n", c.Temp, sym, domain.TitleCase(c.Description)))
	sb.WriteString(StyleSubtle.Render(fmt.Sprintf("Feels like %.1f%s · min %.1f%s · max %.1f%s",
		c.FeelsLike, sym, c.TempMin, sym, c.TempMax, sym)) + "\n")
	sb.WriteString(fmt.Sprintf("Humidity %d%%  Pressure %d hPa  Wind %.1f %s  Clouds %d%%\n",
		c.Humidity, c.Pressure, c.WindSpeed, windUnit(r.Units), c.Cloudiness))

	if r.HighTemperatureAlert {
		sb.WriteString(StyleWarning.Render("⚠️ High temperature alert!") + "\n")
	}

	if len(r.Daily) > 0 {
		sb.WriteString("\n" + StylePrimary.Bold(true).Render("5-Day Forecast") + "\n")
		for _, d := range r.Daily {
			sb.WriteString(fmt.Sprintf("  %s  %5.1f%s  %s\n", d.Date(), d.Temp, sym, domain.TitleCase(d.Description)))
		}
	}
	return sb.String()
}

func windUnit(u domain.Units) string {
	if u == domain.Imperial {
		return "mph"
	}
	return "m/s"
}
