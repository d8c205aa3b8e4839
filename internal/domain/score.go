package domain

import (
	"math"
	"time"
)

// riskScores and urgencyScores are the composite threat-score inputs.
// UNKNOWN risk scores the floor, same as LOW, but stays distinguishable in
// the risk_level field itself.
var riskScores = map[RiskLevel]float64{
	RiskLow:      10,
	RiskModerate: 30,
	RiskHigh:     70,
	RiskExtreme:  100,
	RiskUnknown:  10,
}

var urgencyScores = map[Urgency]float64{
	UrgencyImmediate: 40,
	UrgencyHigh:      30,
	UrgencyMedium:    20,
	UrgencyLow:       10,
}

// UrgencyAt buckets an event by its age at the reference time. Events
// without a known occurrence time are always LOW; callers must not count
// them among recent or urgent events.
func UrgencyAt(e Event, now time.Time) Urgency {
	if !e.HasTime() {
		return UrgencyLow
	}
	hoursAgo := now.Sub(e.OccurredAt).Hours()
	switch {
	case hoursAgo < 1:
		return UrgencyImmediate
	case hoursAgo < 6:
		return UrgencyHigh
	case hoursAgo < 24:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

// ThreatScore blends risk and urgency into a 0-100 ranking value, rounded
// to one decimal. The 70/30 weighting favors severity over freshness: a
// day-old EXTREME event (73.0) still outranks a brand-new LOW event (19.0).
func ThreatScore(risk RiskLevel, urgency Urgency) float64 {
	rs, ok := riskScores[risk]
	if !ok {
		rs = riskScores[RiskUnknown]
	}
	us, ok := urgencyScores[urgency]
	if !ok {
		us = urgencyScores[UrgencyLow]
	}
	return math.Round((rs*0.7+us*0.3)*10) / 10
}

// Enrich populates every derived field from the event's own measurements
// and the reference time. It is idempotent: enriching an already-enriched
// event with the same now reproduces identical values. ProcessedAt is
// stamped from now as well, keeping enrichment deterministic for a given
// input.
func Enrich(e Event, now time.Time) Event {
	e.RiskLevel = AssessRiskLevel(e)
	e.ImpactRadiusKM = ImpactRadiusKM(e)
	e.Urgency = UrgencyAt(e, now)
	e.ThreatScore = ThreatScore(e.RiskLevel, e.Urgency)
	e.ProcessedAt = now
	return e
}
