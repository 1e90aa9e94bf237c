package openweather

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/aradsms/contactbook/internal/weather_service/domain"
)

// Client talks to the OpenWeatherMap 2.5 API. Requests are never retried.
type Client struct {
	http   *resty.Client
	apiKey string
	logger *slog.Logger
}

var _ domain.Client = (*Client)(nil)

// NewClient creates a client for baseURL, e.g. https://api.openweathermap.org/data/2.5.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		http:   httpClient,
		apiKey: apiKey,
		logger: logger.With("component", "openweather_client"),
	}
}

type apiError struct {
	Cod     any    `json:"cod"`
	Message string `json:"message"`
}

type weatherItem struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type currentResponse struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Weather []weatherItem `json:"weather"`
	Wind    struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Clouds struct {
		All int `json:"all"`
	} `json:"clouds"`
}

type forecastResponse struct {
	List []struct {
		DtTxt string `json:"dt_txt"`
		Main  struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []weatherItem `json:"weather"`
	} `json:"list"`
}

func firstWeather(items []weatherItem) weatherItem {
	if len(items) == 0 {
		return weatherItem{Icon: "01d"}
	}
	return items[0]
}

// Current fetches current conditions for city.
func (c *Client) Current(ctx context.Context, city string, units domain.Units) (*domain.Conditions, error) {
	var out currentResponse
	if err := c.get(ctx, "/weather", city, units, &out); err != nil {
		return nil, err
	}

	w := firstWeather(out.Weather)
	name := out.Name
	if name == "" {
		name = "Unknown"
	}
	return &domain.Conditions{
		City:        name,
		Country:     out.Sys.Country,
		Temp:        out.Main.Temp,
		FeelsLike:   out.Main.FeelsLike,
		TempMin:     out.Main.TempMin,
		TempMax:     out.Main.TempMax,
		Humidity:    out.Main.Humidity,
		Pressure:    out.Main.Pressure,
		WindSpeed:   out.Wind.Speed,
		Cloudiness:  out.Clouds.All,
		Description: domain.TitleCase(w.Description),
		Icon:        w.Icon,
	}, nil
}

// Forecast fetches the 5 day / 3 hour forecast for city.
func (c *Client) Forecast(ctx context.Context, city string, units domain.Units) ([]domain.ForecastEntry, error) {
	var out forecastResponse
	if err := c.get(ctx, "/forecast", city, units, &out); err != nil {
		return nil, err
	}

	entries := make([]domain.ForecastEntry, 0, len(out.List))
	for _, item := range out.List {
		w := firstWeather(item.Weather)
		entries = append(entries, domain.ForecastEntry{
			Time:        item.DtTxt,
			Temp:        item.Main.Temp,
			Description: domain.TitleCase(w.Description),
			Icon:        w.Icon,
		})
	}
	return entries, nil
}

func (c *Client) get(ctx context.Context, path, city string, units domain.Units, result any) error {
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":     city,
			"appid": c.apiKey,
			"units": string(units),
		}).
		SetResult(result).
		SetError(&apiErr).
		Get(path)
	if err != nil {
		c.logger.ErrorContext(ctx, "OpenWeather request failed", "path", path, "city", city, "error", err)
		return fmt.Errorf("weather request failed: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		c.logger.InfoContext(ctx, "OpenWeather city not found", "city", city)
		return domain.ErrCityNotFound
	case http.StatusUnauthorized:
		c.logger.ErrorContext(ctx, "OpenWeather rejected API key")
		return domain.ErrInvalidAPIKey
	}
	c.logger.ErrorContext(ctx, "OpenWeather returned error", "path", path, "status_code", resp.StatusCode(), "message", apiErr.Message)
	return fmt.Errorf("%w: status %d %s", domain.ErrUpstreamResponse, resp.StatusCode(), apiErr.Message)
}
