package domain

import (
	"fmt"
	"strings"
)

// BoundingBox is a lat/lon rectangle used for geographic exclusion.
type BoundingBox struct {
	Name   string  `json:"name,omitempty" yaml:"name,omitempty"`
	MinLat float64 `json:"min_lat" yaml:"min_lat"`
	MaxLat float64 `json:"max_lat" yaml:"max_lat"`
	MinLon float64 `json:"min_lon" yaml:"min_lon"`
	MaxLon float64 `json:"max_lon" yaml:"max_lon"`
}

// Contains reports whether the coordinate falls inside the box, bounds
// inclusive.
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// Rules holds every data-driven filtering threshold applied during
// normalization and fusion. Thresholds live here, not at call sites, so the
// filtering behavior is configured once at pipeline construction and is
// independently testable.
type Rules struct {
	// MinMagnitude is the seismic forwarding floor. 2.5 suits ambient
	// monitoring; significant-event feeds typically use 5.0.
	MinMagnitude float64 `yaml:"min_magnitude"`

	// FireMinConfidence and FireMinFRP gate fire detections. Both must be
	// met for a detection to be forwarded.
	FireMinConfidence float64 `yaml:"fire_min_confidence"`
	FireMinFRP        float64 `yaml:"fire_min_frp"`

	// WarningEventKinds lists the weather alert kinds forwarded regardless
	// of severity tier. Matching is case-insensitive.
	WarningEventKinds []string `yaml:"warning_event_kinds"`

	// WaterExclusionBoxes drop fire detections over open water, where
	// offshore-platform flares register as false positives.
	WaterExclusionBoxes []BoundingBox `yaml:"water_exclusion_boxes"`

	// RecencyHorizonHours bounds how old a dated event may be and still
	// count as active. Events with unknown age are kept.
	RecencyHorizonHours float64 `yaml:"recency_horizon_hours"`

	// DisasterKeywords filter the free-text corpus before correlation.
	DisasterKeywords []string `yaml:"disaster_keywords"`
}

// DefaultRules returns the ambient-monitoring preset.
func DefaultRules() Rules {
	return Rules{
		MinMagnitude:      2.5,
		FireMinConfidence: 80,
		FireMinFRP:        100,
		WarningEventKinds: []string{
			"Tornado Warning",
			"Hurricane Warning",
			"Flash Flood Warning",
			"Severe Thunderstorm Warning",
			"Blizzard Warning",
		},
		WaterExclusionBoxes: []BoundingBox{
			{Name: "gulf-of-mexico", MinLat: 24.0, MaxLat: 30.5, MinLon: -98.0, MaxLon: -80.5},
			{Name: "atlantic-coast", MinLat: 25.0, MaxLat: 35.0, MinLon: -81.0, MaxLon: -75.0},
		},
		RecencyHorizonHours: 24,
		DisasterKeywords: []string{
			"earthquake", "wildfire", "hurricane", "tornado", "flood", "tsunami",
			"evacuation", "emergency", "disaster", "storm", "fire", "quake",
			"landslide", "mudslide", "blizzard", "drought", "cyclone",
		},
	}
}

// Validate rejects thresholds that would make filtering nonsensical.
// Validation failures are fatal; they are detected at pipeline construction
// before any fetching begins.
func (r Rules) Validate() error {
	if r.MinMagnitude < 0 {
		return fmt.Errorf("%w: min_magnitude must be >= 0, got %g", ErrConfig, r.MinMagnitude)
	}
	if r.FireMinConfidence < 0 || r.FireMinConfidence > 100 {
		return fmt.Errorf("%w: fire_min_confidence must be in [0,100], got %g", ErrConfig, r.FireMinConfidence)
	}
	if r.FireMinFRP < 0 {
		return fmt.Errorf("%w: fire_min_frp must be >= 0, got %g", ErrConfig, r.FireMinFRP)
	}
	if r.RecencyHorizonHours <= 0 {
		return fmt.Errorf("%w: recency_horizon_hours must be > 0, got %g", ErrConfig, r.RecencyHorizonHours)
	}
	for _, b := range r.WaterExclusionBoxes {
		if b.MinLat > b.MaxLat || b.MinLon > b.MaxLon {
			return fmt.Errorf("%w: exclusion box %q has inverted bounds", ErrConfig, b.Name)
		}
	}
	return nil
}

// IsWarningKind reports whether the weather event kind belongs to the
// warning-class set.
func (r Rules) IsWarningKind(kind string) bool {
	for _, k := range r.WarningEventKinds {
		if strings.EqualFold(k, kind) {
			return true
		}
	}
	return false
}

// InExcludedWater reports whether the coordinate falls inside any water
// exclusion box.
func (r Rules) InExcludedWater(lat, lon float64) bool {
	for _, b := range r.WaterExclusionBoxes {
		if b.Contains(lat, lon) {
			return true
		}
	}
	return false
}
