package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	weatherdomain "github.com/aradsms/contactbook/internal/weather_service/domain"
)

// WeatherService is satisfied by *weatherapp.WeatherService.
type WeatherService interface {
	Lookup(ctx context.Context, city string) (*weatherdomain.Report, error)
	LookupHere(ctx context.Context) (*weatherdomain.Report, *weatherdomain.Location, error)
	History(ctx context.Context) ([]string, error)
}

type WeatherResponse struct {
	Location *weatherdomain.Location `json:"location,omitempty"`
	*weatherdomain.Report
}

type HistoryResponse struct {
	Cities []string `json:"cities"`
}

// WeatherHandler exposes weather lookups over HTTP.
type WeatherHandler struct {
	weather WeatherService
	logger  *slog.Logger
}

func NewWeatherHandler(weather WeatherService, logger *slog.Logger) *WeatherHandler {
	return &WeatherHandler{weather: weather, logger: logger.With("handler", "weather")}
}

func (h *WeatherHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Lookup)
	r.Get("/here", h.LookupHere)
	r.Get("/history", h.History)
}

// Lookup answers GET /v1/weather?city=&units=.
func (h *WeatherHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	units, ok := parseUnits(w, r)
	if !ok {
		return
	}
	report, err := h.weather.Lookup(r.Context(), r.URL.Query().Get("city"))
	if err != nil {
		h.respondWithWeatherError(w, r, err)
		return
	}
	if units != "" {
		report.ConvertTo(units)
	}
	respondWithJSON(w, http.StatusOK, WeatherResponse{Report: report})
}

func (h *WeatherHandler) LookupHere(w http.ResponseWriter, r *http.Request) {
	units, ok := parseUnits(w, r)
	if !ok {
		return
	}
	report, loc, err := h.weather.LookupHere(r.Context())
	if err != nil {
		h.respondWithWeatherError(w, r, err)
		return
	}
	if units != "" {
		report.ConvertTo(units)
	}
	respondWithJSON(w, http.StatusOK, WeatherResponse{Location: loc, Report: report})
}

func (h *WeatherHandler) History(w http.ResponseWriter, r *http.Request) {
	cities, err := h.weather.History(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to read search history", "error", err)
		respondWithError(w, http.StatusInternalServerError, "history unavailable")
		return
	}
	if cities == nil {
		cities = []string{}
	}
	respondWithJSON(w, http.StatusOK, HistoryResponse{Cities: cities})
}

func (h *WeatherHandler) respondWithWeatherError(w http.ResponseWriter, r *http.Request, err error) {
	if respondWithValidationError(w, http.StatusBadRequest, err) {
		return
	}
	switch {
	case errors.Is(err, weatherdomain.ErrCityNotFound):
		respondWithError(w, http.StatusNotFound, "City not found")
	case errors.Is(err, weatherdomain.ErrLocationUnknown):
		respondWithError(w, http.StatusBadGateway, "Could not determine your location")
	case errors.Is(err, weatherdomain.ErrInvalidAPIKey):
		h.logger.ErrorContext(r.Context(), "Weather provider rejected the API key")
		respondWithError(w, http.StatusBadGateway, "Weather provider rejected the API key")
	default:
		h.logger.ErrorContext(r.Context(), "Weather lookup failed", "error", err)
		respondWithError(w, http.StatusBadGateway, "Weather service unavailable")
	}
}

func parseUnits(w http.ResponseWriter, r *http.Request) (weatherdomain.Units, bool) {
	raw := r.URL.Query().Get("units")
	if raw == "" {
		return "", true
	}
	u, ok := weatherdomain.ParseUnits(raw)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "units must be metric or imperial")
		return "", false
	}
	return u, true
}
