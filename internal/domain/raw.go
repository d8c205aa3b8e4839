package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RawRecord is one provider-native record awaiting normalization. The set
// of implementations is closed: exactly one per source family. Adding a
// fourth source means adding a new variant here and a branch in Normalize,
// not subclassing.
type RawRecord interface {
	// RecordSource tags the variant for dispatch and error reporting.
	RecordSource() Source
	// RecordRef identifies the record within its batch for the error list.
	RecordRef() string
}

// GeoJSONGeometry is the geometry member of a GeoJSON feature. Coordinates
// stay raw until the type tag is known, because their nesting depth depends
// on it.
type GeoJSONGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// SeismicFeature is one USGS earthquake feed feature.
type SeismicFeature struct {
	ID         string            `json:"id"`
	Properties SeismicProperties `json:"properties"`
	Geometry   *GeoJSONGeometry  `json:"geometry"`
}

// SeismicProperties holds the USGS feature properties the normalizer reads.
type SeismicProperties struct {
	Mag     *float64 `json:"mag"`
	Place   string   `json:"place"`
	Time    int64    `json:"time"` // epoch milliseconds
	Title   string   `json:"title"`
	Tsunami int      `json:"tsunami"` // 0 or 1
}

func (f SeismicFeature) RecordSource() Source { return SourceSeismic }

func (f SeismicFeature) RecordRef() string {
	if f.ID != "" {
		return f.ID
	}
	return f.Properties.Place
}

// WeatherAlert is one NWS active-alert GeoJSON feature.
type WeatherAlert struct {
	ID         string            `json:"id"`
	Properties WeatherProperties `json:"properties"`
	Geometry   *GeoJSONGeometry  `json:"geometry"`
}

// WeatherProperties holds the NWS alert properties the normalizer reads.
type WeatherProperties struct {
	Event    string `json:"event"`
	Severity string `json:"severity"` // Minor, Moderate, Severe, Extreme
	AreaDesc string `json:"areaDesc"`
	Headline string `json:"headline"`
}

func (a WeatherAlert) RecordSource() Source { return SourceWeather }

func (a WeatherAlert) RecordRef() string {
	if a.ID != "" {
		return a.ID
	}
	return a.Properties.Event
}

// FireDetection is one NASA FIRMS active-fire CSV row. Confidence and FRP
// are pointers because the columns are required: a row that fails to supply
// them is rejected rather than defaulted.
type FireDetection struct {
	Lat        float64
	Lon        float64
	Brightness float64 // kelvin, 0 when the column is absent
	Confidence *float64
	FRP        *float64
	AcqDate    string // "2026-08-25"
	AcqTime    string // HHMM, e.g. "1510"
}

func (d FireDetection) RecordSource() Source { return SourceFire }

func (d FireDetection) RecordRef() string {
	ref := fmt.Sprintf("%.4f,%.4f", d.Lat, d.Lon)
	if d.AcqDate != "" {
		ref += " " + strings.TrimSpace(d.AcqDate+" "+d.AcqTime)
	}
	return ref
}
