package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrValidation wraps all area-creation rejections so callers can map them
// to a client error without string matching.
var ErrValidation = errors.New("validation failed")

// AreaType classifies what a monitored area covers.
type AreaType string

const (
	AreaResidential    AreaType = "residential"
	AreaSingleHouse    AreaType = "single-house"
	AreaCommercial     AreaType = "commercial"
	AreaInfrastructure AreaType = "infrastructure"
	AreaLandmark       AreaType = "landmark"
	AreaRiver          AreaType = "river"
	AreaWaterStream    AreaType = "water-stream"
	AreaBridge         AreaType = "bridge"
	AreaRoad           AreaType = "road"
	AreaSlope          AreaType = "slope"
	AreaAgricultural   AreaType = "agricultural"
	AreaOther          AreaType = "other"
)

// Valid reports whether the type belongs to the closed enum.
func (t AreaType) Valid() bool {
	switch t {
	case AreaResidential, AreaSingleHouse, AreaCommercial, AreaInfrastructure,
		AreaLandmark, AreaRiver, AreaWaterStream, AreaBridge, AreaRoad,
		AreaSlope, AreaAgricultural, AreaOther:
		return true
	}
	return false
}

// LatLng is a WGS-84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat" firestore:"lat"`
	Lng float64 `json:"lng" firestore:"lng"`
}

// MonitoredArea is a place under flood watch. Baseline FloodRisk is the
// persisted assessment; the Simulated* fields are a transient overlay and
// never overwrite it. IsSimulated is true iff SimulatedFloodRisk is set.
type MonitoredArea struct {
	ID            string    `json:"id" firestore:"id"`
	Name          string    `json:"name" firestore:"name"`
	Type          AreaType  `json:"type" firestore:"type"`
	FloodRisk     RiskLevel `json:"floodRisk" firestore:"floodRisk"`
	LandslideRisk RiskLevel `json:"landslideRisk,omitempty" firestore:"landslideRisk,omitempty"`
	Population    int       `json:"population,omitempty" firestore:"population,omitempty"`
	Notes         string    `json:"notes,omitempty" firestore:"notes,omitempty"`

	// Coordinates is the representative point; for polygon areas it is the
	// polygon centroid.
	Coordinates LatLng   `json:"coordinates" firestore:"coordinates"`
	Polygon     []LatLng `json:"polygonData,omitempty" firestore:"polygonData,omitempty"`

	SimulatedFloodRisk     RiskLevel `json:"simulatedFloodRisk,omitempty" firestore:"simulatedFloodRisk,omitempty"`
	SimulatedLandslideRisk RiskLevel `json:"simulatedLandslideRisk,omitempty" firestore:"simulatedLandslideRisk,omitempty"`
	IsSimulated            bool      `json:"isSimulated,omitempty" firestore:"isSimulated,omitempty"`
}

// EffectiveFloodRisk returns the simulated risk when an overlay is active,
// else the baseline.
func (a *MonitoredArea) EffectiveFloodRisk() RiskLevel {
	if a.SimulatedFloodRisk != "" {
		return a.SimulatedFloodRisk
	}
	return a.FloodRisk
}

// EffectiveLandslideRisk returns the simulated landslide risk when set,
// else the baseline landslide risk (which may be empty).
func (a *MonitoredArea) EffectiveLandslideRisk() RiskLevel {
	if a.SimulatedLandslideRisk != "" {
		return a.SimulatedLandslideRisk
	}
	return a.LandslideRisk
}

// HighRisk reports whether the area currently displays as high risk for
// either flood or landslide.
func (a *MonitoredArea) HighRisk() bool {
	return a.EffectiveFloodRisk() == RiskHigh || a.EffectiveLandslideRisk() == RiskHigh
}

// NewAreaRequest carries the fields submitted when a user places a marker or
// draws a polygon. FloodRisk is a manual override; when empty the risk is
// computed from Risk.
type NewAreaRequest struct {
	Name          string    `json:"name"`
	Type          AreaType  `json:"type"`
	FloodRisk     RiskLevel `json:"floodRisk,omitempty"`
	LandslideRisk RiskLevel `json:"landslideRisk,omitempty"`
	Population    int       `json:"population,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	Coordinates   *LatLng   `json:"coordinates,omitempty"`
	Polygon       []LatLng  `json:"polygonData,omitempty"`
	Risk          RiskInput `json:"risk,omitempty"`
}

// NewMonitoredArea validates a creation request and builds the area.
// No partial area is ever produced: any missing required field rejects the
// whole request with a human-readable reason wrapped in ErrValidation.
func NewMonitoredArea(req NewAreaRequest) (MonitoredArea, error) {
	if req.Name == "" {
		return MonitoredArea{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !req.Type.Valid() {
		return MonitoredArea{}, fmt.Errorf("%w: unknown area type %q", ErrValidation, req.Type)
	}
	if req.Coordinates == nil && len(req.Polygon) == 0 {
		return MonitoredArea{}, fmt.Errorf("%w: either coordinates or polygon geometry is required", ErrValidation)
	}
	if req.Coordinates != nil && len(req.Polygon) > 0 {
		return MonitoredArea{}, fmt.Errorf("%w: coordinates and polygon geometry are mutually exclusive", ErrValidation)
	}
	if req.Population < 0 {
		return MonitoredArea{}, fmt.Errorf("%w: population must be positive", ErrValidation)
	}
	if req.LandslideRisk != "" && !req.LandslideRisk.Valid() {
		return MonitoredArea{}, fmt.Errorf("%w: unknown landslide risk %q", ErrValidation, req.LandslideRisk)
	}

	floodRisk := req.FloodRisk
	if floodRisk == "" {
		in := req.Risk
		in.AreaType = req.Type
		floodRisk = CalculateFloodRisk(in).Level
	} else if !floodRisk.Valid() {
		return MonitoredArea{}, fmt.Errorf("%w: unknown flood risk %q", ErrValidation, floodRisk)
	}

	area := MonitoredArea{
		ID:            uuid.NewString(),
		Name:          req.Name,
		Type:          req.Type,
		FloodRisk:     floodRisk,
		LandslideRisk: req.LandslideRisk,
		Population:    req.Population,
		Notes:         req.Notes,
	}
	if len(req.Polygon) > 0 {
		area.Polygon = req.Polygon
		area.Coordinates = Centroid(req.Polygon)
	} else {
		area.Coordinates = *req.Coordinates
	}
	return area, nil
}

// Centroid returns the arithmetic mean of the polygon's vertices, which is
// how the map layer positions a drawn area's representative point.
func Centroid(pts []LatLng) LatLng {
	if len(pts) == 0 {
		return LatLng{}
	}
	var sumLat, sumLng float64
	for _, p := range pts {
		sumLat += p.Lat
		sumLng += p.Lng
	}
	n := float64(len(pts))
	return LatLng{Lat: sumLat / n, Lng: sumLng / n}
}
