package domain

import (
	"fmt"
	"time"
)

// NotificationType ranks a notification's urgency. Info notifications do not
// count toward the unread badge.
type NotificationType string

const (
	NotificationCritical      NotificationType = "critical"
	NotificationWarning       NotificationType = "warning"
	NotificationInfo          NotificationType = "info"
	NotificationHighRiskAlert NotificationType = "high-risk-alert"
)

// Notification is one entry in the actionable feed. A high-risk-alert embeds
// snapshot copies of the triggering areas taken at generation time; later
// area mutations are not reflected in an open notification.
type Notification struct {
	Type          NotificationType `json:"type" firestore:"type"`
	Title         string           `json:"title" firestore:"title"`
	Message       string           `json:"message" firestore:"message"`
	Time          time.Time        `json:"time" firestore:"time"`
	AreaID        string           `json:"areaId,omitempty" firestore:"areaId,omitempty"`
	HighRiskAreas []MonitoredArea  `json:"highRiskAreas,omitempty" firestore:"highRiskAreas,omitempty"`
	IsSimulation  bool             `json:"isSimulation,omitempty" firestore:"isSimulation,omitempty"`
}

// GenerateNotifications derives the full notification set from the current
// area and weather state. Each call fully replaces the previous set; the
// derivation is idempotent for equal inputs (modulo timestamps).
//
// At most one high-risk-alert is emitted per call, aggregating every area
// whose displayed flood or landslide risk is high. One alert covers the whole
// set rather than one per area, to avoid flooding the feed. When nothing
// triggers, a single low-priority system-normal notification is emitted.
func GenerateNotifications(areas []MonitoredArea, weather WeatherSnapshot, forecast []ForecastDay, active Condition) []Notification {
	now := clock.Now()
	var notifications []Notification

	var highRisk []MonitoredArea
	for i := range areas {
		if areas[i].HighRisk() {
			highRisk = append(highRisk, snapshotArea(areas[i]))
		}
	}
	if len(highRisk) > 0 {
		isSimulation := false
		if active != "" {
			for i := range highRisk {
				if highRisk[i].IsSimulated {
					isSimulation = true
					break
				}
			}
		}
		context := ""
		if isSimulation {
			context = fmt.Sprintf(" during %s simulation", active.DisplayName())
		}
		plural := ""
		if len(highRisk) > 1 {
			plural = "s"
		}
		notifications = append(notifications, Notification{
			Type:  NotificationHighRiskAlert,
			Title: "High Risk Areas Detected",
			Message: fmt.Sprintf("%d area%s detected with high flood or landslide risk%s. Review and confirm flood events.",
				len(highRisk), plural, context),
			Time:          now,
			HighRiskAreas: highRisk,
			IsSimulation:  isSimulation,
		})
	}

	switch {
	case weather.Precipitation > 10:
		notifications = append(notifications, Notification{
			Type:    NotificationCritical,
			Title:   "Heavy Rainfall Alert",
			Message: fmt.Sprintf("Heavy rainfall detected (%.1fmm). High flood risk in monitored areas.", weather.Precipitation),
			Time:    now,
		})
	case weather.Precipitation > 5:
		notifications = append(notifications, Notification{
			Type:    NotificationWarning,
			Title:   "Moderate Rainfall",
			Message: fmt.Sprintf("Moderate rainfall (%.1fmm). Monitor flood-prone areas closely.", weather.Precipitation),
			Time:    now,
		})
	}

	if weather.WindSpeed > 15 {
		notifications = append(notifications, Notification{
			Type:    NotificationWarning,
			Title:   "Strong Winds",
			Message: fmt.Sprintf("Wind speeds of %.1f m/s detected. Monitor for potential hazards.", weather.WindSpeed),
			Time:    now,
		})
	}

	highRiskDays := 0
	for i, day := range forecast {
		if i >= 2 {
			break
		}
		if day.RiskLevel == RiskHigh {
			highRiskDays++
		}
	}
	if highRiskDays > 0 {
		notifications = append(notifications, Notification{
			Type:    NotificationWarning,
			Title:   "High Risk Forecast",
			Message: fmt.Sprintf("%d day(s) with high flood risk expected in the forecast.", highRiskDays),
			Time:    now,
		})
	}

	if len(notifications) == 0 {
		notifications = append(notifications, Notification{
			Type:    NotificationInfo,
			Title:   "System Status",
			Message: "All monitoring systems operating normally. Weather conditions stable.",
			Time:    now,
		})
	}

	return notifications
}

// BadgeCount returns the unread badge value: the number of notifications
// whose type is not info.
func BadgeCount(notifications []Notification) int {
	count := 0
	for _, n := range notifications {
		if n.Type != NotificationInfo {
			count++
		}
	}
	return count
}

// snapshotArea deep-copies an area so the embedded alert list is immune to
// later mutations of the live list.
func snapshotArea(a MonitoredArea) MonitoredArea {
	copied := a
	if len(a.Polygon) > 0 {
		copied.Polygon = append([]LatLng(nil), a.Polygon...)
	}
	return copied
}
