package domain

import "time"

// Source identifies the feed family a record came from.
type Source string

const (
	SourceSeismic Source = "SEISMIC"
	SourceWeather Source = "WEATHER"
	SourceFire    Source = "FIRE"
)

// RiskLevel is the qualitative severity bucket derived by the risk scorer.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
	RiskExtreme  RiskLevel = "EXTREME"

	// RiskUnknown is propagated for unrecognized sources, never defaulted
	// to LOW, so downstream consumers can treat it distinctly.
	RiskUnknown RiskLevel = "UNKNOWN"
)

// Urgency is the qualitative recency bucket derived from event age.
type Urgency string

const (
	UrgencyImmediate Urgency = "IMMEDIATE"
	UrgencyHigh      Urgency = "HIGH"
	UrgencyMedium    Urgency = "MEDIUM"
	UrgencyLow       Urgency = "LOW"
)

// Geometry precision markers set by the geometry reducer.
const (
	PrecisionExact    = "exact"    // source supplied a point
	PrecisionCentroid = "centroid" // reduced from a polygon ring
)

// Event is the canonical hazard record. It is immutable once created;
// re-ingestion replaces it wholesale. The derived fields (RiskLevel,
// ImpactRadiusKM, Urgency, ThreatScore) are never accepted as input.
type Event struct {
	ID            string    `json:"id"`
	Source        Source    `json:"source"`
	EventKind     string    `json:"event_kind"`
	OccurredAt    time.Time `json:"occurred_at"` // zero when the feed has no per-record time
	Lat           float64   `json:"lat"`
	Lon           float64   `json:"lon"`
	LocationLabel string    `json:"location_label,omitempty"`
	GeoPrecision  string    `json:"geo_precision"`

	// Source-specific measurements. Magnitude is seismic, Severity is
	// weather, Confidence/Brightness/FRP are fire.
	Magnitude  float64 `json:"magnitude,omitempty"`
	Severity   string  `json:"severity,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Brightness float64 `json:"brightness,omitempty"`
	FRP        float64 `json:"frp,omitempty"`

	// Derived fields, populated by Enrich.
	RiskLevel      RiskLevel `json:"risk_level,omitempty"`
	ImpactRadiusKM float64   `json:"impact_radius_km,omitempty"`
	Urgency        Urgency   `json:"urgency,omitempty"`
	ThreatScore    float64   `json:"threat_score,omitempty"`

	// Corroborations holds text items matched by the correlator, in match
	// discovery order. Never contains the same item twice.
	Corroborations []TextItem `json:"corroborations,omitempty"`

	ProcessedAt time.Time `json:"processed_at"`
}

// HasTime reports whether the event carries a usable occurrence time.
// Events without one are excluded from "breaking" views and always score
// LOW urgency.
func (e Event) HasTime() bool {
	return !e.OccurredAt.IsZero()
}

// TextItem is a free-text report (news or social) used only for
// corroboration, never for event existence.
type TextItem struct {
	Title  string `json:"title"`
	Body   string `json:"body,omitempty"`
	Origin string `json:"origin"`
	URL    string `json:"url,omitempty"`
}
