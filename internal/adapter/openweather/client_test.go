package openweather

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-key"

func testClient(baseURL string) *Client {
	return &Client{
		apiKey:     testAPIKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		lat:        12.1113,
		lon:        125.3756,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestClient_CurrentWeather_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/weather", r.URL.Path)
		assert.Equal(t, testAPIKey, r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		assert.Equal(t, "12.1113", r.URL.Query().Get("lat"))
		assert.Equal(t, "125.3756", r.URL.Query().Get("lon"))

		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(`{
			"weather": [{"description": "light rain", "icon": "10d"}],
			"main": {"temp": 27.6, "feels_like": 31.2, "pressure": 1008, "humidity": 85},
			"wind": {"speed": 4.2, "deg": 95},
			"clouds": {"all": 75},
			"rain": {"1h": 1.2},
			"visibility": 8000
		}`))
		require.NoError(t, err)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	snapshot, err := c.CurrentWeather(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 28, snapshot.Temperature)
	assert.Equal(t, "light rain", snapshot.Description)
	assert.Equal(t, 85, snapshot.Humidity)
	assert.Equal(t, 4.2, snapshot.WindSpeed)
	assert.Equal(t, "E", snapshot.WindDirection)
	assert.Equal(t, 1.2, snapshot.Precipitation)
	assert.Equal(t, 1008, snapshot.Pressure)
	assert.Equal(t, 8.0, snapshot.Visibility)
	assert.Equal(t, 31, snapshot.FeelsLike)
	assert.Equal(t, 75, snapshot.Cloudiness)
	// 27.6 - (100-85)/5 = 24.6
	assert.Equal(t, 24.6, snapshot.DewPoint)
}

func TestClient_CurrentWeather_MissingRainBlockDefaultsToZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(`{
			"weather": [{"description": "clear sky", "icon": "01d"}],
			"main": {"temp": 30.0, "feels_like": 33.0, "pressure": 1012, "humidity": 60},
			"wind": {"speed": 2.0, "deg": 0},
			"clouds": {"all": 5},
			"visibility": 10000
		}`))
		require.NoError(t, err)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	snapshot, err := c.CurrentWeather(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0.0, snapshot.Precipitation)
	assert.Equal(t, "N", snapshot.WindDirection)
	assert.Equal(t, 10.0, snapshot.Visibility)
}

func TestClient_Forecast_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forecast", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(`{
			"list": [
				{
					"dt": 1717231200,
					"main": {"temp": 26.5, "humidity": 88},
					"weather": [{"description": "moderate rain", "icon": "10d"}],
					"wind": {"speed": 6.1},
					"rain": {"3h": 4.5}
				},
				{
					"dt": 1717242000,
					"main": {"temp": 29.0, "humidity": 80},
					"weather": [{"description": "broken clouds", "icon": "04d"}],
					"wind": {"speed": 5.0}
				}
			]
		}`))
		require.NoError(t, err)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	entries, err := c.Forecast(context.Background())
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, time.Unix(1717231200, 0), entries[0].Time)
	assert.Equal(t, 26.5, entries[0].Temperature)
	assert.Equal(t, 88.0, entries[0].Humidity)
	assert.Equal(t, 6.1, entries[0].WindSpeed)
	assert.Equal(t, 4.5, entries[0].Precipitation)
	assert.Equal(t, "moderate rain", entries[0].Description)
	assert.Equal(t, "10d", entries[0].Icon)
	// Second entry has no rain block.
	assert.Equal(t, 0.0, entries[1].Precipitation)
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"cod":401,"message":"Invalid API key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.CurrentWeather(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")

	_, err = c.Forecast(context.Background())
	require.Error(t, err)
}

func TestClient_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(`{not json`))
		require.NoError(t, err)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.CurrentWeather(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestDewPoint(t *testing.T) {
	assert.Equal(t, 27.0, dewPoint(27, 100))
	assert.Equal(t, 17.0, dewPoint(27, 50))
}

func TestCompassDirection(t *testing.T) {
	assert.Equal(t, "N", compassDirection(0))
	assert.Equal(t, "NE", compassDirection(45))
	assert.Equal(t, "E", compassDirection(100))
	assert.Equal(t, "S", compassDirection(180))
	assert.Equal(t, "NW", compassDirection(315))
	assert.Equal(t, "N", compassDirection(350))
}
