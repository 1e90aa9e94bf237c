package bootstrap

import (
	"context"
	"log/slog"
	"time"

	contactapp "github.com/aradsms/contactbook/internal/contact_service/app"
	"github.com/aradsms/contactbook/internal/platform/cache"
	"github.com/aradsms/contactbook/internal/platform/config"
	"github.com/aradsms/contactbook/internal/platform/messagebroker"
	"github.com/aradsms/contactbook/internal/weather_service/adapters/ipapi"
	"github.com/aradsms/contactbook/internal/weather_service/adapters/openweather"
	weatherapp "github.com/aradsms/contactbook/internal/weather_service/app"
	weatherdomain "github.com/aradsms/contactbook/internal/weather_service/domain"
	historymemory "github.com/aradsms/contactbook/internal/weather_service/repository/memory"
	historyredis "github.com/aradsms/contactbook/internal/weather_service/repository/redis"
)

// NewEventPublisher connects to NATS when NATS_URL is set. It returns a nil publisher, which
// disables events, when the URL is empty or the broker is unreachable.
func NewEventPublisher(cfg *config.Config, appName string, logger *slog.Logger) (contactapp.EventPublisher, func()) {
	if cfg.NATSURL == "" {
		return nil, func() {}
	}
	nc, err := messagebroker.NewNatsClient(cfg.NATSURL, appName, logger)
	if err != nil {
		logger.Warn("NATS unavailable; contact events disabled", "error", err)
		return nil, func() {}
	}
	return nc, nc.Close
}

// NewWeatherService wires the OpenWeatherMap client, the IP locator and a history store.
// History goes to Redis when REDIS_URL is set and reachable, otherwise it stays in memory.
func NewWeatherService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*weatherapp.WeatherService, func()) {
	timeout := time.Duration(cfg.WeatherTimeoutSeconds) * time.Second
	client := openweather.NewClient(cfg.OpenWeatherBaseURL, cfg.OpenWeatherAPIKey, timeout, logger)
	locator := ipapi.NewLocator(cfg.GeolocationURL, timeout, logger)

	units, ok := weatherdomain.ParseUnits(cfg.OpenWeatherUnits)
	if !ok {
		logger.WarnContext(ctx, "Unknown weather units; using metric", "units", cfg.OpenWeatherUnits)
		units = weatherdomain.Metric
	}

	var history weatherdomain.HistoryStore = historymemory.NewHistoryStore()
	cleanup := func() {}
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.WarnContext(ctx, "Redis unavailable; weather history kept in memory", "error", err)
		} else {
			history = historyredis.NewHistoryStore(rdb, historyredis.DefaultHistoryKey)
			cleanup = func() { _ = rdb.Close() }
		}
	}

	if cfg.OpenWeatherAPIKey == "" {
		logger.WarnContext(ctx, "OPENWEATHER_API_KEY is not set; weather lookups will fail")
	}
	return weatherapp.NewWeatherService(client, locator, history, units, logger), cleanup
}
