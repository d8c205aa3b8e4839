package domain

import "strings"

// AssessRiskLevel derives the qualitative risk bucket for an event. It is
// total: missing measurements fall through to the documented defaults
// (a fire with no brightness scores LOW), and unrecognized sources yield
// RiskUnknown rather than a defaulted LOW.
func AssessRiskLevel(e Event) RiskLevel {
	switch e.Source {
	case SourceSeismic:
		return seismicRisk(e.Magnitude)
	case SourceFire:
		return fireRisk(e.Confidence, e.Brightness)
	case SourceWeather:
		return weatherRisk(e.Severity)
	default:
		return RiskUnknown
	}
}

func seismicRisk(mag float64) RiskLevel {
	switch {
	case mag < 3.0:
		return RiskLow
	case mag < 5.0:
		return RiskModerate
	case mag < 6.5:
		return RiskHigh
	default:
		return RiskExtreme
	}
}

// fireRisk blends detection confidence with brightness temperature. 400K is
// the practical ceiling for MODIS brightness, so the product lands in [0,1].
func fireRisk(confidence, brightness float64) RiskLevel {
	score := (confidence / 100) * (brightness / 400)
	switch {
	case score < 0.3:
		return RiskLow
	case score < 0.6:
		return RiskModerate
	case score < 0.8:
		return RiskHigh
	default:
		return RiskExtreme
	}
}

// weatherRisk maps NWS severity tiers onto risk buckets. There is
// deliberately no EXTREME output: Extreme and Severe both map to HIGH.
func weatherRisk(severity string) RiskLevel {
	switch {
	case strings.EqualFold(severity, "Extreme"), strings.EqualFold(severity, "Severe"):
		return RiskHigh
	case strings.EqualFold(severity, "Moderate"):
		return RiskModerate
	default:
		return RiskLow
	}
}

// ImpactRadiusKM estimates the affected radius in kilometers. The estimates
// are display-grade, not geodesy: 50km per magnitude unit for quakes,
// confidence-scaled for fires, and a flat 25km (flood) or 50km (other) for
// weather zones.
func ImpactRadiusKM(e Event) float64 {
	switch e.Source {
	case SourceSeismic:
		return max(10, e.Magnitude*50)
	case SourceFire:
		return max(5, e.Confidence/10)
	case SourceWeather:
		if strings.Contains(strings.ToLower(e.EventKind), "flood") {
			return 25
		}
		return 50
	default:
		return 10
	}
}
