package domain

import (
	"time"

	"github.com/google/uuid"
)

// SimulationContextRealTime labels audit records created while no simulation
// was active; otherwise the record carries the active condition's name.
const SimulationContextRealTime = "real-time"

// SimulationContext returns the audit context label for an active condition.
func SimulationContext(active Condition) string {
	if active == "" {
		return SimulationContextRealTime
	}
	return string(active)
}

// FloodRecord documents a user confirming that flooding occurred at an area.
// Records are append-only: never updated or deleted after creation.
type FloodRecord struct {
	ID                string          `json:"id" firestore:"id"`
	AreaID            string          `json:"areaId" firestore:"areaId"`
	AreaName          string          `json:"areaName" firestore:"areaName"`
	ConfirmedBy       string          `json:"confirmedBy" firestore:"confirmedBy"`
	WeatherConditions WeatherSnapshot `json:"weatherConditions" firestore:"weatherConditions"`
	SimulationContext string          `json:"simulationContext" firestore:"simulationContext"`
	Timestamp         time.Time       `json:"timestamp" firestore:"timestamp"`
}

// DisregardRecord documents a user dismissing a flood alert for an area.
// Append-only, like FloodRecord.
type DisregardRecord struct {
	ID                string          `json:"id" firestore:"id"`
	AreaID            string          `json:"areaId" firestore:"areaId"`
	AreaName          string          `json:"areaName" firestore:"areaName"`
	DisregardedBy     string          `json:"disregardedBy" firestore:"disregardedBy"`
	WeatherConditions WeatherSnapshot `json:"weatherConditions" firestore:"weatherConditions"`
	SimulationContext string          `json:"simulationContext" firestore:"simulationContext"`
	Timestamp         time.Time       `json:"timestamp" firestore:"timestamp"`
}

// NewFloodRecord builds a confirmation record with the weather snapshot
// copied at time of action and a server-assigned timestamp.
func NewFloodRecord(area MonitoredArea, weather WeatherSnapshot, active Condition, actor string) FloodRecord {
	return FloodRecord{
		ID:                uuid.NewString(),
		AreaID:            area.ID,
		AreaName:          area.Name,
		ConfirmedBy:       actor,
		WeatherConditions: weather,
		SimulationContext: SimulationContext(active),
		Timestamp:         clock.Now(),
	}
}

// NewDisregardRecord builds a dismissal record mirroring NewFloodRecord.
func NewDisregardRecord(area MonitoredArea, weather WeatherSnapshot, active Condition, actor string) DisregardRecord {
	return DisregardRecord{
		ID:                uuid.NewString(),
		AreaID:            area.ID,
		AreaName:          area.Name,
		DisregardedBy:     actor,
		WeatherConditions: weather,
		SimulationContext: SimulationContext(active),
		Timestamp:         clock.Now(),
	}
}

// FloodEventReport is the richer incident detail captured when a user
// confirms a flood through the report form. Appended with a generated id
// and a server-assigned submission time.
type FloodEventReport struct {
	ID              string    `json:"id,omitempty" firestore:"id,omitempty"`
	AreaID          string    `json:"areaId" firestore:"areaId"`
	AreaName        string    `json:"areaName" firestore:"areaName"`
	DateTime        string    `json:"dateTime,omitempty" firestore:"dateTime,omitempty"`
	WaterLevel      string    `json:"waterLevel,omitempty" firestore:"waterLevel,omitempty"`
	RainfallAmount  string    `json:"rainfallAmount,omitempty" firestore:"rainfallAmount,omitempty"`
	Duration        string    `json:"duration,omitempty" firestore:"duration,omitempty"`
	FloodExtent     string    `json:"floodExtent,omitempty" firestore:"floodExtent,omitempty"`
	FloodImpact     string    `json:"floodImpact,omitempty" firestore:"floodImpact,omitempty"`
	WeatherNotes    string    `json:"weatherConditions,omitempty" firestore:"weatherConditions,omitempty"`
	WarningsIssued  string    `json:"warningsIssued,omitempty" firestore:"warningsIssued,omitempty"`
	ReporterName    string    `json:"reporterName,omitempty" firestore:"reporterName,omitempty"`
	ReporterContact string    `json:"reporterContact,omitempty" firestore:"reporterContact,omitempty"`
	SubmittedAt     time.Time `json:"submittedAt,omitempty" firestore:"submittedAt,omitempty"`
}

// PrepareFloodEventReport stamps a report with the server-side submission
// time. The id stays empty; the store assigns it on append.
func PrepareFloodEventReport(report FloodEventReport) FloodEventReport {
	report.SubmittedAt = clock.Now()
	return report
}
