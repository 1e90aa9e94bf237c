package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	contactapp "github.com/aradsms/contactbook/internal/contact_service/app"
	"github.com/aradsms/contactbook/internal/contact_service/repository/memory"
	"github.com/aradsms/contactbook/internal/platform/apperror"
	httptransport "github.com/aradsms/contactbook/internal/public_api_service/transport/http"
	weatherdomain "github.com/aradsms/contactbook/internal/weather_service/domain"
)

type MockWeatherService struct {
	mock.Mock
}

func (m *MockWeatherService) Lookup(ctx context.Context, city string) (*weatherdomain.Report, error) {
	args := m.Called(ctx, city)
	r, _ := args.Get(0).(*weatherdomain.Report)
	return r, args.Error(1)
}

func (m *MockWeatherService) LookupHere(ctx context.Context) (*weatherdomain.Report, *weatherdomain.Location, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).(*weatherdomain.Report)
	loc, _ := args.Get(1).(*weatherdomain.Location)
	return r, loc, args.Error(2)
}

func (m *MockWeatherService) History(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	cities, _ := args.Get(0).([]string)
	return cities, args.Error(1)
}

func newRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func newWeatherServer(ws *MockWeatherService) http.Handler {
	return httptransport.NewRouter(httptransport.RouterConfig{
		Contacts: contactapp.NewApplication(memory.NewContactRepository(), nil, testLogger()),
		Weather:  ws,
		Logger:   testLogger(),
	})
}

func sampleReport() *weatherdomain.Report {
	return weatherdomain.NewReport(weatherdomain.Metric,
		weatherdomain.Conditions{City: "Tehran", Country: "IR", Temp: 36, Description: "clear sky"},
		[]weatherdomain.ForecastEntry{{Time: "2024-06-01 12:00:00", Temp: 30}},
	)
}

func TestWeatherHandler_Lookup(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		city     string
		ret      *weatherdomain.Report
		err      error
		wantCode int
	}{
		{"Success", "?city=Tehran", "Tehran", sampleReport(), nil, http.StatusOK},
		{"EmptyCity", "", "", nil, apperror.NewValidationError("city", "Please enter a city name"), http.StatusBadRequest},
		{"UnknownCity", "?city=Atlantis", "Atlantis", nil, weatherdomain.ErrCityNotFound, http.StatusNotFound},
		{"BadKey", "?city=Tehran", "Tehran", nil, weatherdomain.ErrInvalidAPIKey, http.StatusBadGateway},
		{"Upstream", "?city=Tehran", "Tehran", nil, errors.New("timeout"), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := new(MockWeatherService)
			ws.On("Lookup", mock.Anything, tt.city).Return(tt.ret, tt.err)

			rr := serve(newWeatherServer(ws), newRequest(http.MethodGet, "/v1/weather"+tt.query))
			require.Equal(t, tt.wantCode, rr.Code)
			if tt.wantCode == http.StatusOK {
				var body map[string]any
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
				assert.Equal(t, true, body["high_temperature_alert"])
				assert.Equal(t, "metric", body["units"])
			}
			ws.AssertExpectations(t)
		})
	}
}

func TestWeatherHandler_LookupUnits(t *testing.T) {
	ws := new(MockWeatherService)
	ws.On("Lookup", mock.Anything, "Tehran").Return(sampleReport(), nil)
	h := newWeatherServer(ws)

	rr := serve(h, newRequest(http.MethodGet, "/v1/weather?city=Tehran&units=imperial"))
	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Units   string `json:"units"`
		Current struct {
			Temp float64 `json:"temp"`
		} `json:"current"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "imperial", resp.Units)
	assert.InDelta(t, 96.8, resp.Current.Temp, 0.001)

	assert.Equal(t, http.StatusBadRequest, serve(h, newRequest(http.MethodGet, "/v1/weather?city=Tehran&units=kelvin")).Code)
}

func TestWeatherHandler_HereAndHistory(t *testing.T) {
	ws := new(MockWeatherService)
	ws.On("LookupHere", mock.Anything).
		Return(sampleReport(), &weatherdomain.Location{City: "Tehran", Country: "Iran"}, nil).Once()
	ws.On("LookupHere", mock.Anything).Return(nil, nil, weatherdomain.ErrLocationUnknown).Once()
	ws.On("History", mock.Anything).Return([]string{"Tehran", "Paris"}, nil).Once()
	ws.On("History", mock.Anything).Return(nil, nil).Once()
	h := newWeatherServer(ws)

	rr := serve(h, newRequest(http.MethodGet, "/v1/weather/here"))
	require.Equal(t, http.StatusOK, rr.Code)
	var here struct {
		Location weatherdomain.Location `json:"location"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&here))
	assert.Equal(t, "Iran", here.Location.Country)

	assert.Equal(t, http.StatusBadGateway, serve(h, newRequest(http.MethodGet, "/v1/weather/here")).Code)

	rr = serve(h, newRequest(http.MethodGet, "/v1/weather/history"))
	assert.JSONEq(t, `{"cities":["Tehran","Paris"]}`, rr.Body.String())
	rr = serve(h, newRequest(http.MethodGet, "/v1/weather/history"))
	assert.JSONEq(t, `{"cities":[]}`, rr.Body.String())
	ws.AssertExpectations(t)
}
