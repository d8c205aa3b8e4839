package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Event kinds assigned to sources whose feeds do not name one per record.
const (
	kindEarthquake = "Earthquake"
	kindWildfire   = "Wildfire"
)

// Normalize maps a provider-native record into the canonical Event shape,
// applying the forwarding rules for its source family.
//
// Three outcomes are possible: (event, nil) for a forwarded record,
// (nil, nil) for a record filtered out by the rules (below a threshold,
// inside an exclusion box), and (nil, err) for a record that is rejected as
// invalid. Rejections wrap ErrGeometry or ErrNormalization; the caller
// skips the record and keeps processing the batch.
func Normalize(rec RawRecord, rules Rules) (*Event, error) {
	switch r := rec.(type) {
	case SeismicFeature:
		return normalizeSeismic(r, rules)
	case WeatherAlert:
		return normalizeWeather(r, rules)
	case FireDetection:
		return normalizeFire(r, rules)
	default:
		return nil, fmt.Errorf("%w: unsupported record type %T", ErrNormalization, rec)
	}
}

func normalizeSeismic(f SeismicFeature, rules Rules) (*Event, error) {
	if f.Properties.Mag == nil {
		return nil, fmt.Errorf("%w: seismic record missing magnitude", ErrNormalization)
	}
	lat, lon, precision, err := ReduceGeometry(f.Geometry)
	if err != nil {
		return nil, err
	}

	mag := *f.Properties.Mag
	if mag < rules.MinMagnitude {
		return nil, nil
	}

	var occurred time.Time
	if f.Properties.Time > 0 {
		occurred = time.UnixMilli(f.Properties.Time).UTC()
	}

	return &Event{
		ID:            generateID(SourceSeismic, kindEarthquake, lat, lon, occurred),
		Source:        SourceSeismic,
		EventKind:     kindEarthquake,
		OccurredAt:    occurred,
		Lat:           lat,
		Lon:           lon,
		LocationLabel: f.Properties.Place,
		GeoPrecision:  precision,
		Magnitude:     mag,
	}, nil
}

func normalizeWeather(a WeatherAlert, rules Rules) (*Event, error) {
	kind := strings.TrimSpace(a.Properties.Event)
	severity := strings.TrimSpace(a.Properties.Severity)
	if kind == "" || severity == "" {
		return nil, fmt.Errorf("%w: weather alert missing event kind or severity", ErrNormalization)
	}
	lat, lon, precision, err := ReduceGeometry(a.Geometry)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(severity, "Extreme") && !rules.IsWarningKind(kind) {
		return nil, nil
	}

	// NWS active alerts carry no per-record event time; urgency for
	// weather events is therefore always LOW (occurred_at stays zero).
	return &Event{
		ID:            generateID(SourceWeather, kind, lat, lon, time.Time{}),
		Source:        SourceWeather,
		EventKind:     kind,
		Lat:           lat,
		Lon:           lon,
		LocationLabel: a.Properties.AreaDesc,
		GeoPrecision:  precision,
		Severity:      severity,
	}, nil
}

func normalizeFire(d FireDetection, rules Rules) (*Event, error) {
	if d.Confidence == nil || d.FRP == nil {
		return nil, fmt.Errorf("%w: fire detection missing confidence or frp", ErrNormalization)
	}
	if err := ValidateCoordinates(d.Lat, d.Lon); err != nil {
		return nil, err
	}

	if *d.Confidence < rules.FireMinConfidence || *d.FRP < rules.FireMinFRP {
		return nil, nil
	}
	if rules.InExcludedWater(d.Lat, d.Lon) {
		return nil, nil
	}

	occurred := parseAcquisition(d.AcqDate, d.AcqTime)

	return &Event{
		ID:           generateID(SourceFire, kindWildfire, d.Lat, d.Lon, occurred),
		Source:       SourceFire,
		EventKind:    kindWildfire,
		OccurredAt:   occurred,
		Lat:          d.Lat,
		Lon:          d.Lon,
		GeoPrecision: PrecisionExact,
		Confidence:   *d.Confidence,
		Brightness:   d.Brightness,
		FRP:          *d.FRP,
	}, nil
}

// parseAcquisition combines a FIRMS acquisition date with its HHMM time.
// Three-digit times are zero-padded ("510" means 05:10 UTC). An unparseable
// date yields the zero time: acquisition time is informational, so a bad
// value degrades to unknown age rather than rejecting the detection.
func parseAcquisition(acqDate, acqTime string) time.Time {
	acqDate = strings.TrimSpace(acqDate)
	if acqDate == "" {
		return time.Time{}
	}
	day, err := time.Parse("2006-01-02", acqDate)
	if err != nil {
		return time.Time{}
	}

	hhmm := strings.TrimSpace(acqTime)
	if len(hhmm) < 3 || len(hhmm) > 4 {
		return day
	}
	if len(hhmm) == 3 {
		hhmm = "0" + hhmm
	}
	hour, errH := strconv.Atoi(hhmm[:2])
	mins, errM := strconv.Atoi(hhmm[2:])
	if errH != nil || errM != nil || hour < 0 || hour > 23 || mins < 0 || mins > 59 {
		return day
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, mins, 0, 0, time.UTC)
}

// generateID produces a deterministic ID from the event's key fields.
// Reprocessing the same raw record yields the same ID, enabling idempotent
// upserts downstream.
func generateID(source Source, kind string, lat, lon float64, occurred time.Time) string {
	ts := ""
	if !occurred.IsZero() {
		ts = strconv.FormatInt(occurred.UnixMilli(), 10)
	}
	input := fmt.Sprintf("%s|%s|%.4f|%.4f|%s", source, kind, lat, lon, ts)
	hash := sha256.Sum256([]byte(input))
	short := hex.EncodeToString(hash[:8])
	return strings.ToLower(string(source)) + "-" + short
}
