package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authmw "github.com/aradsms/contactbook/internal/public_api_service/middleware"
)

// RouterConfig wires the application services into the public router.
// Auth and Weather may be nil, in which case their routes are not mounted.
type RouterConfig struct {
	Contacts     ContactService
	Auth         Authenticator
	Tokens       authmw.TokenValidator
	Weather      WeatherService
	AuthRequired bool
	Logger       *slog.Logger
}

// NewRouter builds the chi router for the public API.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(PrometheusMetricsMiddleware)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		if cfg.Auth != nil {
			r.Route("/auth", NewAuthHandler(cfg.Auth, cfg.Logger).RegisterRoutes)
		}

		r.Route("/contacts", func(r chi.Router) {
			if cfg.AuthRequired && cfg.Tokens != nil {
				r.Use(authmw.AuthMiddleware(cfg.Tokens, cfg.Logger))
			}
			NewContactHandler(cfg.Contacts, cfg.Logger).RegisterRoutes(r)
		})

		if cfg.Weather != nil {
			r.Route("/weather", NewWeatherHandler(cfg.Weather, cfg.Logger).RegisterRoutes)
		}
	})

	return r
}
