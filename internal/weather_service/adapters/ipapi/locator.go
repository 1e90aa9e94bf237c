package ipapi

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/aradsms/contactbook/internal/weather_service/domain"
)

// Locator resolves the caller's city from their public IP via an ipapi.co compatible endpoint.
type Locator struct {
	http   *resty.Client
	url    string
	logger *slog.Logger
}

var _ domain.Locator = (*Locator)(nil)

func NewLocator(url string, timeout time.Duration, logger *slog.Logger) *Locator {
	return &Locator{
		http:   resty.New().SetTimeout(timeout).SetHeader("Accept", "application/json"),
		url:    url,
		logger: logger.With("component", "ipapi_locator"),
	}
}

type locateResponse struct {
	City        string `json:"city"`
	CountryName string `json:"country_name"`
	Error       bool   `json:"error"`
	Reason      string `json:"reason"`
}

func (l *Locator) Locate(ctx context.Context) (*domain.Location, error) {
	var out locateResponse
	resp, err := l.http.R().SetContext(ctx).SetResult(&out).Get(l.url)
	if err != nil {
		l.logger.ErrorContext(ctx, "Geolocation request failed", "error", err)
		return nil, fmt.Errorf("geolocation request failed: %w", err)
	}
	if resp.IsError() || out.Error {
		l.logger.WarnContext(ctx, "Geolocation returned error", "status_code", resp.StatusCode(), "reason", out.Reason)
		return nil, domain.ErrLocationUnknown
	}
	if out.City == "" {
		return nil, domain.ErrLocationUnknown
	}
	return &domain.Location{City: out.City, Country: out.CountryName}, nil
}
