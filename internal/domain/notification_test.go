package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func calmWeather() WeatherSnapshot {
	return WeatherSnapshot{Temperature: 28, Description: "clear sky", Precipitation: 0, WindSpeed: 3}
}

func TestGenerateNotifications_SingleAggregatedAlert(t *testing.T) {
	areas := []MonitoredArea{
		{ID: "a", Name: "A", FloodRisk: RiskHigh},
		{ID: "b", Name: "B", FloodRisk: RiskLow},
		{ID: "c", Name: "C", FloodRisk: RiskLow, LandslideRisk: RiskHigh},
		{ID: "d", Name: "D", FloodRisk: RiskHigh},
	}

	notifications := GenerateNotifications(areas, calmWeather(), nil, "")

	require.Len(t, notifications, 1)
	alert := notifications[0]
	assert.Equal(t, NotificationHighRiskAlert, alert.Type)
	assert.Len(t, alert.HighRiskAreas, 3)
	assert.Contains(t, alert.Message, "3 areas")
	assert.False(t, alert.IsSimulation)
}

func TestGenerateNotifications_AlertSnapshotIsImmutable(t *testing.T) {
	areas := []MonitoredArea{
		{ID: "a", Name: "Before", FloodRisk: RiskHigh, Polygon: []LatLng{{1, 1}, {2, 2}}},
	}

	notifications := GenerateNotifications(areas, calmWeather(), nil, "")

	areas[0].Name = "After"
	areas[0].Polygon[0] = LatLng{9, 9}

	require.Len(t, notifications, 1)
	snapshot := notifications[0].HighRiskAreas[0]
	assert.Equal(t, "Before", snapshot.Name)
	assert.Equal(t, LatLng{1, 1}, snapshot.Polygon[0])
}

func TestGenerateNotifications_SimulationFlag(t *testing.T) {
	areas := []MonitoredArea{
		{ID: "a", Name: "A", FloodRisk: RiskLow, SimulatedFloodRisk: RiskHigh, IsSimulated: true},
	}

	notifications := GenerateNotifications(areas, calmWeather(), nil, ConditionTyphoon)

	require.Len(t, notifications, 1)
	assert.True(t, notifications[0].IsSimulation)
	assert.Contains(t, notifications[0].Message, "during Typhoon simulation")
}

func TestGenerateNotifications_BaselineHighDuringSimulationIsNotSimulated(t *testing.T) {
	// An area that was already high before the simulation keeps a real alert.
	areas := []MonitoredArea{
		{ID: "a", Name: "A", FloodRisk: RiskHigh},
	}

	notifications := GenerateNotifications(areas, calmWeather(), nil, ConditionTyphoon)

	require.Len(t, notifications, 1)
	assert.False(t, notifications[0].IsSimulation)
	assert.NotContains(t, notifications[0].Message, "simulation")
}

func TestGenerateNotifications_WeatherThresholds(t *testing.T) {
	tests := []struct {
		name     string
		weather  WeatherSnapshot
		expected NotificationType
		title    string
	}{
		{"critical rainfall", WeatherSnapshot{Precipitation: 12.3}, NotificationCritical, "Heavy Rainfall Alert"},
		{"moderate rainfall", WeatherSnapshot{Precipitation: 7}, NotificationWarning, "Moderate Rainfall"},
		{"strong winds", WeatherSnapshot{WindSpeed: 16.5}, NotificationWarning, "Strong Winds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifications := GenerateNotifications(nil, tt.weather, nil, "")

			require.Len(t, notifications, 1)
			assert.Equal(t, tt.expected, notifications[0].Type)
			assert.Equal(t, tt.title, notifications[0].Title)
		})
	}
}

func TestGenerateNotifications_RainfallBandsAreExclusive(t *testing.T) {
	// 12mm is critical only, never critical plus moderate.
	notifications := GenerateNotifications(nil, WeatherSnapshot{Precipitation: 12}, nil, "")

	require.Len(t, notifications, 1)
	assert.Equal(t, NotificationCritical, notifications[0].Type)
}

func TestGenerateNotifications_HighRiskForecast(t *testing.T) {
	forecast := []ForecastDay{
		{RiskLevel: RiskHigh},
		{RiskLevel: RiskHigh},
		{RiskLevel: RiskHigh}, // beyond the two-day window, not counted
	}

	notifications := GenerateNotifications(nil, calmWeather(), forecast, "")

	require.Len(t, notifications, 1)
	assert.Equal(t, NotificationWarning, notifications[0].Type)
	assert.Contains(t, notifications[0].Message, "2 day(s)")
}

func TestGenerateNotifications_CoOccurrence(t *testing.T) {
	areas := []MonitoredArea{{ID: "a", FloodRisk: RiskHigh}}
	weather := WeatherSnapshot{Precipitation: 12, WindSpeed: 16}
	forecast := []ForecastDay{{RiskLevel: RiskHigh}}

	notifications := GenerateNotifications(areas, weather, forecast, "")

	require.Len(t, notifications, 4)
	assert.Equal(t, NotificationHighRiskAlert, notifications[0].Type)
	assert.Equal(t, NotificationCritical, notifications[1].Type)
	assert.Equal(t, "Strong Winds", notifications[2].Title)
	assert.Equal(t, "High Risk Forecast", notifications[3].Title)
}

func TestGenerateNotifications_InfoFallback(t *testing.T) {
	fake := clockwork.NewFakeClockAt(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	SetClock(fake)
	defer SetClock(nil)

	notifications := GenerateNotifications(nil, calmWeather(), nil, "")

	require.Len(t, notifications, 1)
	assert.Equal(t, NotificationInfo, notifications[0].Type)
	assert.Equal(t, "System Status", notifications[0].Title)
	assert.Equal(t, fake.Now(), notifications[0].Time)
}

func TestBadgeCount(t *testing.T) {
	notifications := []Notification{
		{Type: NotificationHighRiskAlert},
		{Type: NotificationCritical},
		{Type: NotificationWarning},
		{Type: NotificationInfo},
	}

	assert.Equal(t, 3, BadgeCount(notifications))
	assert.Equal(t, 0, BadgeCount(nil))
	assert.Equal(t, 0, BadgeCount([]Notification{{Type: NotificationInfo}}))
}
