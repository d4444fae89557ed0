package domain

import (
	"math"
	"time"
)

// maxForecastDays caps the aggregated forecast length.
const maxForecastDays = 5

// ForecastEntry is one raw 3-hour forecast sample from the weather provider.
type ForecastEntry struct {
	Time          time.Time `json:"time"`
	Temperature   float64   `json:"temperature"`   // °C
	Humidity      float64   `json:"humidity"`      // %
	WindSpeed     float64   `json:"windSpeed"`     // m/s
	Precipitation float64   `json:"precipitation"` // mm over the 3-hour window
	Description   string    `json:"description"`
	Icon          string    `json:"icon"`
}

// AggregateForecast groups 3-hour entries into at most five daily buckets,
// preserving the order days first appear. Temperature takes the day's
// min/max, humidity and wind the mean, and precipitation the conservative
// total min(2 × max 3h reading, sum of readings). The midday (11:00–13:00)
// entry's description and icon represent the day when present, else the
// first entry's.
func AggregateForecast(entries []ForecastEntry) []ForecastDay {
	if len(entries) == 0 {
		return nil
	}

	var order []string
	buckets := make(map[string][]ForecastEntry)
	for _, e := range entries {
		key := e.Time.Format("2006-01-02")
		if _, seen := buckets[key]; !seen {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], e)
	}
	if len(order) > maxForecastDays {
		order = order[:maxForecastDays]
	}

	days := make([]ForecastDay, 0, len(order))
	for i, key := range order {
		days = append(days, aggregateDay(buckets[key], i))
	}
	return days
}

func aggregateDay(entries []ForecastEntry, index int) ForecastDay {
	minTemp, maxTemp := entries[0].Temperature, entries[0].Temperature
	var sumHumidity, sumWind, sumPrecip, maxPrecip float64
	for _, e := range entries {
		minTemp = math.Min(minTemp, e.Temperature)
		maxTemp = math.Max(maxTemp, e.Temperature)
		sumHumidity += e.Humidity
		sumWind += e.WindSpeed
		sumPrecip += e.Precipitation
		maxPrecip = math.Max(maxPrecip, e.Precipitation)
	}
	n := float64(len(entries))
	avgWind := sumWind / n
	precipitation := math.Min(maxPrecip*2, sumPrecip)

	desc, icon := entries[0].Description, entries[0].Icon
	for _, e := range entries {
		h := e.Time.Hour()
		if h >= 11 && h <= 13 {
			desc, icon = e.Description, e.Icon
			break
		}
	}

	riskLevel := RiskLow
	switch {
	case precipitation > 15 || avgWind > 20:
		riskLevel = RiskHigh
	case precipitation > 5 || avgWind > 10:
		riskLevel = RiskMedium
	}

	date := entries[0].Time.Truncate(24 * time.Hour)
	return ForecastDay{
		Date:          date,
		DayName:       dayName(date, index),
		Temperature:   TemperatureRange{Min: int(math.Round(minTemp)), Max: int(math.Round(maxTemp))},
		Humidity:      int(math.Round(sumHumidity / n)),
		Precipitation: math.Round(precipitation*10) / 10,
		WindSpeed:     int(math.Round(avgWind)),
		Description:   desc,
		Icon:          icon,
		RiskLevel:     riskLevel,
	}
}

func dayName(date time.Time, index int) string {
	switch index {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	default:
		return date.Weekday().String()[:3]
	}
}

// FallbackWeather returns deterministic synthetic conditions used when the
// weather provider is unreachable. The values are mild enough that the
// classifier settles on clear or light-rain rather than a spurious typhoon.
func FallbackWeather() (WeatherSnapshot, []ForecastDay) {
	snapshot := WeatherSnapshot{
		Temperature:   28,
		Description:   "Weather data unavailable",
		Humidity:      70,
		WindSpeed:     5,
		Precipitation: 0,
		Pressure:      1013,
		Visibility:    10,
		FeelsLike:     30,
		Cloudiness:    50,
	}

	today := clock.Now().Truncate(24 * time.Hour)
	days := make([]ForecastDay, 0, maxForecastDays)
	for i := 0; i < maxForecastDays; i++ {
		date := today.AddDate(0, 0, i)
		precipitation := 1.5
		if i == 0 {
			precipitation = 0.5
		}
		// Both synthetic amounts sit below the medium threshold, so every
		// fallback day is low risk per the aggregation table above.
		desc, icon := "Partly cloudy", "02d"
		if precipitation > 1 {
			desc, icon = "Light rain", "10d"
		}
		days = append(days, ForecastDay{
			Date:          date,
			DayName:       dayName(date, i),
			Temperature:   TemperatureRange{Min: 25, Max: 32},
			Humidity:      70,
			Precipitation: precipitation,
			WindSpeed:     5,
			Description:   desc,
			Icon:          icon,
			RiskLevel:     RiskLow,
		})
	}
	return snapshot, days
}
