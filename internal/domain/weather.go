package domain

import (
	"strings"
	"time"
)

// WeatherSnapshot is the current-conditions reading from the weather provider.
type WeatherSnapshot struct {
	Temperature   int     `json:"temperature" firestore:"temperature"` // °C
	Description   string  `json:"description" firestore:"description"`
	Humidity      int     `json:"humidity" firestore:"humidity"` // %
	WindSpeed     float64 `json:"windSpeed" firestore:"windSpeed"` // m/s
	WindDirection string  `json:"windDirection,omitempty" firestore:"windDirection,omitempty"` // 8-point compass label
	Precipitation float64 `json:"precipitation" firestore:"precipitation"` // mm, last hour
	Pressure      int     `json:"pressure" firestore:"pressure"` // hPa
	Visibility    float64 `json:"visibility" firestore:"visibility"` // km
	FeelsLike     int     `json:"feelsLike" firestore:"feelsLike"` // °C
	Cloudiness    int     `json:"cloudiness" firestore:"cloudiness"` // %
	UVIndex       float64 `json:"uvIndex,omitempty" firestore:"uvIndex,omitempty"`
	DewPoint      float64 `json:"dewPoint,omitempty" firestore:"dewPoint,omitempty"` // °C
}

// TemperatureRange is a forecast day's min/max pair.
type TemperatureRange struct {
	Min int `json:"min" firestore:"min"`
	Max int `json:"max" firestore:"max"`
}

// ForecastDay is one aggregated forecast day.
type ForecastDay struct {
	Date          time.Time        `json:"date" firestore:"date"`
	DayName       string           `json:"dayName" firestore:"dayName"`
	Temperature   TemperatureRange `json:"temperature" firestore:"temperature"`
	Humidity      int              `json:"humidity" firestore:"humidity"`
	Precipitation float64          `json:"precipitation" firestore:"precipitation"` // mm
	WindSpeed     int              `json:"windSpeed" firestore:"windSpeed"`         // m/s
	Description   string           `json:"description" firestore:"description"`
	Icon          string           `json:"icon" firestore:"icon"`
	RiskLevel     RiskLevel        `json:"riskLevel" firestore:"riskLevel"`
}

// Condition is a discrete weather severity bucket driving the simulation.
type Condition string

const (
	ConditionClear        Condition = "clear"
	ConditionLightRain    Condition = "light-rain"
	ConditionHeavyRain    Condition = "heavy-rain"
	ConditionThunderstorm Condition = "thunderstorm"
	ConditionTyphoon      Condition = "typhoon"
)

// Valid reports whether the condition belongs to the closed enum.
func (c Condition) Valid() bool {
	switch c {
	case ConditionClear, ConditionLightRain, ConditionHeavyRain,
		ConditionThunderstorm, ConditionTyphoon:
		return true
	}
	return false
}

// DisplayName returns the human-readable condition label.
func (c Condition) DisplayName() string {
	switch c {
	case ConditionClear:
		return "Clear Weather"
	case ConditionLightRain:
		return "Light Rainfall"
	case ConditionHeavyRain:
		return "Heavy Rainfall"
	case ConditionThunderstorm:
		return "Thunderstorm"
	case ConditionTyphoon:
		return "Typhoon"
	}
	return string(c)
}

// ClassifyWeather maps a current observation and short forecast to a single
// condition through a priority cascade; earlier rules take precedence. Only
// the first two forecast days feed the severe lookahead. The function is
// pure: identical inputs always classify identically.
func ClassifyWeather(current WeatherSnapshot, forecast []ForecastDay) Condition {
	severeAhead := false
	for i, day := range forecast {
		if i >= 2 {
			break
		}
		if day.Precipitation > 20 || float64(day.WindSpeed) > 25 {
			severeAhead = true
			break
		}
	}

	desc := strings.ToLower(current.Description)
	switch {
	case severeAhead:
		return ConditionTyphoon
	case current.Precipitation > 15 || current.WindSpeed > 20:
		return ConditionTyphoon
	case current.Precipitation > 8 || current.WindSpeed > 12:
		return ConditionThunderstorm
	case current.Precipitation > 4 || current.WindSpeed > 8:
		return ConditionHeavyRain
	case current.Precipitation > 0.5 ||
		strings.Contains(desc, "rain") ||
		strings.Contains(desc, "drizzle") ||
		strings.Contains(desc, "shower"):
		return ConditionLightRain
	default:
		return ConditionClear
	}
}

// Apply projects a baseline risk level through the condition's transform.
// The table is deliberately non-symmetric: it never de-escalates, and clear
// is the only condition that can lower a baseline-high area's displayed risk.
func (c Condition) Apply(baseline RiskLevel) RiskLevel {
	switch c {
	case ConditionClear:
		return RiskLow
	case ConditionLightRain:
		switch baseline {
		case RiskLow:
			return RiskMedium
		default:
			return RiskHigh
		}
	case ConditionHeavyRain, ConditionThunderstorm, ConditionTyphoon:
		return RiskHigh
	}
	return baseline
}
