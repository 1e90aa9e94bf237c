package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/aradsms/contactbook/internal/platform/apperror"
	"github.com/aradsms/contactbook/internal/weather_service/domain"
)

// WeatherService looks up current conditions plus a daily forecast. The two provider calls
// run one after the other.
type WeatherService struct {
	client  domain.Client
	locator domain.Locator
	history domain.HistoryStore
	units   domain.Units
	logger  *slog.Logger
}

func NewWeatherService(client domain.Client, locator domain.Locator, history domain.HistoryStore, units domain.Units, logger *slog.Logger) *WeatherService {
	if units == "" {
		units = domain.Metric
	}
	return &WeatherService{
		client:  client,
		locator: locator,
		history: history,
		units:   units,
		logger:  logger.With("service_component", "WeatherService"),
	}
}

// Lookup fetches the report for city in the configured units and records the search.
func (s *WeatherService) Lookup(ctx context.Context, city string) (*domain.Report, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, apperror.NewValidationError("city", "Please enter a city name")
	}

	report, err := s.fetch(ctx, city)
	if err != nil {
		return nil, err
	}

	// History is a convenience; failing to record it does not fail the lookup.
	if s.history != nil {
		if err := s.history.Add(ctx, city); err != nil {
			s.logger.WarnContext(ctx, "Failed to record search history", "city", city, "error", err)
		}
	}
	return report, nil
}

// LookupHere resolves the caller's city by IP and fetches its report. It does not touch
// the search history.
func (s *WeatherService) LookupHere(ctx context.Context) (*domain.Report, *domain.Location, error) {
	if s.locator == nil {
		return nil, nil, domain.ErrLocationUnknown
	}
	loc, err := s.locator.Locate(ctx)
	if err != nil {
		return nil, nil, err
	}
	report, err := s.fetch(ctx, loc.City)
	if err != nil {
		return nil, loc, err
	}
	return report, loc, nil
}

// History returns previously searched cities, most recent first.
func (s *WeatherService) History(ctx context.Context) ([]string, error) {
	if s.history == nil {
		return []string{}, nil
	}
	return s.history.List(ctx)
}

func (s *WeatherService) fetch(ctx context.Context, city string) (*domain.Report, error) {
	current, err := s.client.Current(ctx, city, s.units)
	if err != nil {
		s.logger.WarnContext(ctx, "Current weather lookup failed", "city", city, "error", err)
		return nil, err
	}
	forecast, err := s.client.Forecast(ctx, city, s.units)
	if err != nil {
		s.logger.WarnContext(ctx, "Forecast lookup failed", "city", city, "error", err)
		return nil, err
	}

	report := domain.NewReport(s.units, *current, forecast)
	s.logger.InfoContext(ctx, "Weather lookup complete", "city", report.Current.City, "temp", report.Current.Temp, "alert", report.HighTemperatureAlert)
	return report, nil
}
