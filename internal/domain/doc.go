// Package domain models flood-risk monitoring for the Kalaw flood map.
//
// # Risk Scoring
//
// An area's baseline flood risk is an additive score over seven site factors
// plus an area-type adjustment. Each factor maps through fixed thresholds to
// a point value; the factor ceilings are elevation 20, distance-from-water 20,
// soil permeability 15, slope 15, drainage 10, vegetation 10, flood history 10
// and area type 5. The raw score is not clamped, so the area-type bonus can
// push it slightly above 100.
//
//	Elevation (m):   ≤2 → 20 | ≤5 → 15 | ≤10 → 10 | ≤20 → 5 | else 0
//	Distance (m):    ≤10 → 20 | ≤25 → 15 | ≤50 → 10 | ≤100 → 5 | else 0
//	Slope (°):       ≤2 → 15 | ≤5 → 10 | ≤10 → 5 | ≤20 → 2 | else 0
//	Soil:            low → 15 | medium → 8 | high → 0
//	Drainage:        poor → 10 | fair → 5 | good → 0
//	Vegetation:      low → 10 | medium → 5 | high → 0
//	History:         frequent → 10 | occasional → 7 | rare → 3 | none → 0
//	Area type:       residential/single-house +3 | commercial/infrastructure +4 | agricultural +2
//
// Score ≥70 is high risk, ≥40 medium, otherwise low. Missing numeric inputs
// default to conservative mid-range values (elevation 5 m, distance 50 m,
// slope 2°) and missing categoricals to the middle bucket (medium
// permeability, fair drainage, medium vegetation, rare history).
//
// # Weather Classification
//
// Live weather maps to one of five discrete conditions through a priority
// cascade where earlier rules win. Only the next two forecast days feed the
// severe lookahead:
//
//	forecast[0..1] precipitation >20mm or wind >25 m/s → typhoon
//	current precipitation >15mm or wind >20 m/s        → typhoon
//	current precipitation >8mm  or wind >12 m/s        → thunderstorm
//	current precipitation >4mm  or wind >8 m/s         → heavy-rain
//	current precipitation >0.5mm or description has
//	  "rain", "drizzle" or "shower"                    → light-rain
//	otherwise                                          → clear
//
// # Simulation Transform
//
// A condition projects each area's baseline risk onto a displayed simulated
// risk. The table never de-escalates except for clear, which forces low:
//
//	clear        → low (always)
//	light-rain   → low→medium, medium→high, high→high
//	heavy-rain   → low→high, medium→high, high→high
//	thunderstorm → high (always)
//	typhoon      → high (always)
//
// Transforms always read the baseline risk, never a previously simulated
// value, so repeated applications cannot compound.
//
// # Forecast Aggregation
//
// Raw 3-hour provider entries are grouped into daily buckets: min/max of
// temperature, mean of humidity and wind, and a conservative precipitation
// total of min(2 × max 3-hour reading, sum of all readings) to dampen
// over-estimation from summing many small reports. The midday (11:00–13:00)
// entry's description represents the day when present, else the first entry.
package domain
