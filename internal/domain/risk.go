package domain

// RiskLevel is a discrete flood or landslide risk bucket.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Valid reports whether the level is one of low, medium or high.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// Default site attribute values used when an input is not supplied.
const (
	defaultElevation = 5.0
	defaultDistance  = 50.0
	defaultSlope     = 2.0
)

// RiskInput holds the site attributes evaluated by CalculateFloodRisk.
// Nil numeric fields and empty categorical fields fall back to conservative
// mid-range defaults, so a partially filled form still scores.
type RiskInput struct {
	Elevation         *float64 `json:"elevation,omitempty"`         // meters above sea level
	DistanceFromWater *float64 `json:"distanceFromWater,omitempty"` // meters
	SoilPermeability  string   `json:"soilPermeability,omitempty"`  // low, medium, high
	SlopeGradient     *float64 `json:"slopeGradient,omitempty"`     // degrees
	DrainageCondition string   `json:"drainageCondition,omitempty"` // poor, fair, good
	VegetationCover   string   `json:"vegetationCover,omitempty"`   // low, medium, high
	FloodHistory      string   `json:"floodHistory,omitempty"`      // frequent, occasional, rare, none
	AreaType          AreaType `json:"areaType,omitempty"`
}

// RiskAssessment is the result of scoring a site.
type RiskAssessment struct {
	Level   RiskLevel `json:"level" firestore:"level"`
	Score   int       `json:"score" firestore:"score"`
	Factors []string  `json:"factors" firestore:"factors"`
}

// CalculateFloodRisk scores a site's static flood susceptibility.
// The returned factor labels are appended in evaluation order for display.
// See the package documentation for the threshold tables.
func CalculateFloodRisk(in RiskInput) RiskAssessment {
	score := 0
	var factors []string

	elevation := valueOr(in.Elevation, defaultElevation)
	switch {
	case elevation <= 2:
		score += 20
		factors = append(factors, "Very low elevation")
	case elevation <= 5:
		score += 15
		factors = append(factors, "Low elevation")
	case elevation <= 10:
		score += 10
		factors = append(factors, "Moderate elevation")
	case elevation <= 20:
		score += 5
		factors = append(factors, "Higher elevation")
	default:
		factors = append(factors, "High elevation")
	}

	distance := valueOr(in.DistanceFromWater, defaultDistance)
	switch {
	case distance <= 10:
		score += 20
		factors = append(factors, "Very close to water")
	case distance <= 25:
		score += 15
		factors = append(factors, "Close to water")
	case distance <= 50:
		score += 10
		factors = append(factors, "Moderate distance from water")
	case distance <= 100:
		score += 5
		factors = append(factors, "Far from water")
	default:
		factors = append(factors, "Very far from water")
	}

	switch categoryOr(in.SoilPermeability, "medium") {
	case "low":
		score += 15
		factors = append(factors, "Low soil permeability")
	case "medium":
		score += 8
		factors = append(factors, "Medium soil permeability")
	default:
		factors = append(factors, "High soil permeability")
	}

	slope := valueOr(in.SlopeGradient, defaultSlope)
	switch {
	case slope <= 2:
		score += 15
		factors = append(factors, "Very flat terrain")
	case slope <= 5:
		score += 10
		factors = append(factors, "Flat terrain")
	case slope <= 10:
		score += 5
		factors = append(factors, "Moderate slope")
	case slope <= 20:
		score += 2
		factors = append(factors, "Steep slope")
	default:
		factors = append(factors, "Very steep slope")
	}

	switch categoryOr(in.DrainageCondition, "fair") {
	case "poor":
		score += 10
		factors = append(factors, "Poor drainage")
	case "fair":
		score += 5
		factors = append(factors, "Fair drainage")
	default:
		factors = append(factors, "Good drainage")
	}

	switch categoryOr(in.VegetationCover, "medium") {
	case "low":
		score += 10
		factors = append(factors, "Low vegetation cover")
	case "medium":
		score += 5
		factors = append(factors, "Medium vegetation cover")
	default:
		factors = append(factors, "High vegetation cover")
	}

	switch categoryOr(in.FloodHistory, "rare") {
	case "frequent":
		score += 10
		factors = append(factors, "Frequent historical flooding")
	case "occasional":
		score += 7
		factors = append(factors, "Occasional historical flooding")
	case "rare":
		score += 3
		factors = append(factors, "Rare historical flooding")
	default:
		factors = append(factors, "No historical flooding")
	}

	switch in.AreaType {
	case AreaResidential, AreaSingleHouse:
		score += 3
		factors = append(factors, "Residential area vulnerability")
	case AreaCommercial, AreaInfrastructure:
		score += 4
		factors = append(factors, "Critical infrastructure")
	case AreaAgricultural:
		score += 2
		factors = append(factors, "Agricultural land")
	}

	return RiskAssessment{
		Level:   levelForScore(score),
		Score:   score,
		Factors: factors,
	}
}

func levelForScore(score int) RiskLevel {
	switch {
	case score >= 70:
		return RiskHigh
	case score >= 40:
		return RiskMedium
	default:
		return RiskLow
	}
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

func categoryOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
