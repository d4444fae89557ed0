package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/gaga2159318-del/KalawFloodMap/internal/domain"
)

// Client fetches current conditions and the 5-day/3-hour forecast from the
// OpenWeatherMap API for a fixed coordinate.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	lat        float64
	lon        float64
	logger     *slog.Logger
}

// NewClient creates an OpenWeatherMap client pinned to one coordinate.
func NewClient(apiKey, baseURL string, lat, lon float64, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		lat:     lat,
		lon:     lon,
		logger:  logger,
	}
}

// CurrentWeather fetches and maps the live conditions.
func (c *Client) CurrentWeather(ctx context.Context) (domain.WeatherSnapshot, error) {
	var resp currentResponse
	if err := c.get(ctx, "/weather", &resp); err != nil {
		return domain.WeatherSnapshot{}, err
	}

	description := ""
	if len(resp.Weather) > 0 {
		description = resp.Weather[0].Description
	}

	snapshot := domain.WeatherSnapshot{
		Temperature:   int(math.Round(resp.Main.Temp)),
		Description:   description,
		Humidity:      resp.Main.Humidity,
		WindSpeed:     resp.Wind.Speed,
		WindDirection: compassDirection(resp.Wind.Deg),
		Precipitation: resp.Rain.OneHour,
		Pressure:      resp.Main.Pressure,
		Visibility:    float64(resp.Visibility) / 1000, // m → km
		FeelsLike:     int(math.Round(resp.Main.FeelsLike)),
		Cloudiness:    resp.Clouds.All,
		DewPoint:      dewPoint(resp.Main.Temp, resp.Main.Humidity),
	}
	return snapshot, nil
}

// Forecast fetches the raw 3-hour forecast series.
func (c *Client) Forecast(ctx context.Context) ([]domain.ForecastEntry, error) {
	var resp forecastResponse
	if err := c.get(ctx, "/forecast", &resp); err != nil {
		return nil, err
	}

	entries := make([]domain.ForecastEntry, 0, len(resp.List))
	for _, item := range resp.List {
		description, icon := "", ""
		if len(item.Weather) > 0 {
			description = item.Weather[0].Description
			icon = item.Weather[0].Icon
		}
		entries = append(entries, domain.ForecastEntry{
			Time:          time.Unix(item.Dt, 0),
			Temperature:   item.Main.Temp,
			Humidity:      float64(item.Main.Humidity),
			WindSpeed:     item.Wind.Speed,
			Precipitation: item.Rain.ThreeHours,
			Description:   description,
			Icon:          icon,
		})
	}
	return entries, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	params := url.Values{
		"lat":   {fmt.Sprintf("%.4f", c.lat)},
		"lon":   {fmt.Sprintf("%.4f", c.lon)},
		"appid": {c.apiKey},
		"units": {"metric"},
	}
	fullURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("openweathermap API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// dewPoint approximates the dew point from temperature and relative
// humidity, good to about one degree in the humid tropics.
func dewPoint(temp float64, humidity int) float64 {
	return math.Round((temp-(100-float64(humidity))/5)*10) / 10
}

var compassPoints = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// compassDirection maps wind degrees to an 8-point compass label.
func compassDirection(deg float64) string {
	idx := int(math.Round(deg/45)) % len(compassPoints)
	if idx < 0 {
		idx += len(compassPoints)
	}
	return compassPoints[idx]
}

// OpenWeatherMap API response types. Rain amounts default to zero when the
// block is absent from the payload.

type currentResponse struct {
	Weather    []weatherItem `json:"weather"`
	Main       mainBlock     `json:"main"`
	Wind       windBlock     `json:"wind"`
	Clouds     cloudsBlock   `json:"clouds"`
	Rain       rainBlock     `json:"rain"`
	Visibility int           `json:"visibility"` // metres
}

type forecastResponse struct {
	List []forecastItem `json:"list"`
}

type forecastItem struct {
	Dt      int64         `json:"dt"`
	Main    mainBlock     `json:"main"`
	Weather []weatherItem `json:"weather"`
	Wind    windBlock     `json:"wind"`
	Rain    rain3hBlock   `json:"rain"`
}

type weatherItem struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type mainBlock struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Pressure  int     `json:"pressure"`
	Humidity  int     `json:"humidity"`
}

type windBlock struct {
	Speed float64 `json:"speed"`
	Deg   float64 `json:"deg"`
}

type cloudsBlock struct {
	All int `json:"all"`
}

type rainBlock struct {
	OneHour float64 `json:"1h"`
}

type rain3hBlock struct {
	ThreeHours float64 `json:"3h"`
}
