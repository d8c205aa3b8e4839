package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/hazard-fusion/internal/domain"
)

func f64(v float64) *float64 { return &v }

func seismicFeature(mag float64, epochMS int64) domain.SeismicFeature {
	return domain.SeismicFeature{
		ID: "us7000abcd",
		Properties: domain.SeismicProperties{
			Mag:   f64(mag),
			Place: "10km NE of Ridgecrest, CA",
			Time:  epochMS,
		},
		Geometry: &domain.GeoJSONGeometry{
			Type:        "Point",
			Coordinates: json.RawMessage(`[-117.55, 35.71, 7.5]`),
		},
	}
}

func TestNormalize_Seismic(t *testing.T) {
	rules := domain.DefaultRules()

	t.Run("forwards quake at or above floor", func(t *testing.T) {
		occurred := time.Date(2026, 8, 25, 14, 30, 0, 0, time.UTC)
		ev, err := domain.Normalize(seismicFeature(4.2, occurred.UnixMilli()), rules)
		require.NoError(t, err)
		require.NotNil(t, ev)

		assert.Equal(t, domain.SourceSeismic, ev.Source)
		assert.Equal(t, "Earthquake", ev.EventKind)
		assert.Equal(t, 4.2, ev.Magnitude)
		assert.Equal(t, 35.71, ev.Lat)
		assert.Equal(t, -117.55, ev.Lon)
		assert.Equal(t, "10km NE of Ridgecrest, CA", ev.LocationLabel)
		assert.Equal(t, domain.PrecisionExact, ev.GeoPrecision)
		assert.True(t, occurred.Equal(ev.OccurredAt))
	})

	t.Run("filters quake below floor silently", func(t *testing.T) {
		ev, err := domain.Normalize(seismicFeature(2.4, time.Now().UnixMilli()), rules)
		require.NoError(t, err)
		assert.Nil(t, ev)
	})

	t.Run("floor is inclusive", func(t *testing.T) {
		ev, err := domain.Normalize(seismicFeature(2.5, time.Now().UnixMilli()), rules)
		require.NoError(t, err)
		assert.NotNil(t, ev)
	})

	t.Run("rejects missing magnitude", func(t *testing.T) {
		f := seismicFeature(0, 0)
		f.Properties.Mag = nil
		ev, err := domain.Normalize(f, rules)
		assert.Nil(t, ev)
		assert.ErrorIs(t, err, domain.ErrNormalization)
	})

	t.Run("rejects missing geometry", func(t *testing.T) {
		f := seismicFeature(4.0, 0)
		f.Geometry = nil
		ev, err := domain.Normalize(f, rules)
		assert.Nil(t, ev)
		assert.ErrorIs(t, err, domain.ErrGeometry)
	})

	t.Run("identical records get identical IDs", func(t *testing.T) {
		ms := time.Date(2026, 8, 25, 14, 30, 0, 0, time.UTC).UnixMilli()
		a, err := domain.Normalize(seismicFeature(4.2, ms), rules)
		require.NoError(t, err)
		b, err := domain.Normalize(seismicFeature(4.2, ms), rules)
		require.NoError(t, err)
		assert.Equal(t, a.ID, b.ID)
		assert.Contains(t, a.ID, "seismic-")
	})
}

func weatherAlert(event, severity string) domain.WeatherAlert {
	return domain.WeatherAlert{
		ID: "urn:oid:2.49.0.1.840.0.abc",
		Properties: domain.WeatherProperties{
			Event:    event,
			Severity: severity,
			AreaDesc: "Harris County, TX",
		},
		Geometry: &domain.GeoJSONGeometry{
			Type:        "Polygon",
			Coordinates: json.RawMessage(`[[[-95.8,29.5],[-95.8,30.1],[-95.0,30.1],[-95.0,29.5]]]`),
		},
	}
}

func TestNormalize_Weather(t *testing.T) {
	rules := domain.DefaultRules()

	t.Run("forwards extreme severity of any kind", func(t *testing.T) {
		ev, err := domain.Normalize(weatherAlert("Heat Advisory", "Extreme"), rules)
		require.NoError(t, err)
		require.NotNil(t, ev)
		assert.Equal(t, domain.SourceWeather, ev.Source)
		assert.Equal(t, "Heat Advisory", ev.EventKind)
		assert.Equal(t, "Extreme", ev.Severity)
		assert.Equal(t, domain.PrecisionCentroid, ev.GeoPrecision)
		assert.InDelta(t, 29.8, ev.Lat, 1e-9)
		assert.InDelta(t, -95.4, ev.Lon, 1e-9)
	})

	t.Run("forwards warning kind at lower severity", func(t *testing.T) {
		ev, err := domain.Normalize(weatherAlert("Tornado Warning", "Severe"), rules)
		require.NoError(t, err)
		require.NotNil(t, ev)
	})

	t.Run("warning kind match is case-insensitive", func(t *testing.T) {
		ev, err := domain.Normalize(weatherAlert("TORNADO WARNING", "Moderate"), rules)
		require.NoError(t, err)
		assert.NotNil(t, ev)
	})

	t.Run("filters non-warning moderate alert", func(t *testing.T) {
		ev, err := domain.Normalize(weatherAlert("Wind Advisory", "Moderate"), rules)
		require.NoError(t, err)
		assert.Nil(t, ev)
	})

	t.Run("weather events carry no occurrence time", func(t *testing.T) {
		ev, err := domain.Normalize(weatherAlert("Tornado Warning", "Extreme"), rules)
		require.NoError(t, err)
		require.NotNil(t, ev)
		assert.False(t, ev.HasTime())
	})

	t.Run("rejects missing kind or severity", func(t *testing.T) {
		for _, a := range []domain.WeatherAlert{
			weatherAlert("", "Severe"),
			weatherAlert("Tornado Warning", ""),
		} {
			ev, err := domain.Normalize(a, rules)
			assert.Nil(t, ev)
			assert.ErrorIs(t, err, domain.ErrNormalization)
		}
	})
}

func fireDetection(lat, lon, confidence, frp float64) domain.FireDetection {
	return domain.FireDetection{
		Lat:        lat,
		Lon:        lon,
		Brightness: 345.5,
		Confidence: f64(confidence),
		FRP:        f64(frp),
		AcqDate:    "2026-08-25",
		AcqTime:    "1510",
	}
}

func TestNormalize_Fire(t *testing.T) {
	rules := domain.DefaultRules()

	t.Run("forwards detection meeting both thresholds", func(t *testing.T) {
		ev, err := domain.Normalize(fireDetection(39.76, -121.62, 85, 150), rules)
		require.NoError(t, err)
		require.NotNil(t, ev)
		assert.Equal(t, domain.SourceFire, ev.Source)
		assert.Equal(t, "Wildfire", ev.EventKind)
		assert.Equal(t, 85.0, ev.Confidence)
		assert.Equal(t, 345.5, ev.Brightness)
		assert.Equal(t, 150.0, ev.FRP)
		assert.Equal(t,
			time.Date(2026, 8, 25, 15, 10, 0, 0, time.UTC), ev.OccurredAt)
	})

	t.Run("filters confidence just below threshold", func(t *testing.T) {
		ev, err := domain.Normalize(fireDetection(39.76, -121.62, 79, 150), rules)
		require.NoError(t, err)
		assert.Nil(t, ev)
	})

	t.Run("thresholds are inclusive", func(t *testing.T) {
		ev, err := domain.Normalize(fireDetection(39.76, -121.62, 80, 100), rules)
		require.NoError(t, err)
		assert.NotNil(t, ev)
	})

	t.Run("filters detection over gulf water", func(t *testing.T) {
		ev, err := domain.Normalize(fireDetection(27.0, -90.0, 95, 300), rules)
		require.NoError(t, err)
		assert.Nil(t, ev)
	})

	t.Run("filters detection off the atlantic coast", func(t *testing.T) {
		ev, err := domain.Normalize(fireDetection(30.0, -78.0, 95, 300), rules)
		require.NoError(t, err)
		assert.Nil(t, ev)
	})

	t.Run("keeps inland detection outside the boxes", func(t *testing.T) {
		ev, err := domain.Normalize(fireDetection(35.5, -119.0, 95, 300), rules)
		require.NoError(t, err)
		assert.NotNil(t, ev)
	})

	t.Run("rejects missing confidence", func(t *testing.T) {
		d := fireDetection(39.76, -121.62, 85, 150)
		d.Confidence = nil
		ev, err := domain.Normalize(d, rules)
		assert.Nil(t, ev)
		assert.ErrorIs(t, err, domain.ErrNormalization)
	})

	t.Run("rejects out-of-range coordinates", func(t *testing.T) {
		ev, err := domain.Normalize(fireDetection(95.0, -121.62, 85, 150), rules)
		assert.Nil(t, ev)
		assert.ErrorIs(t, err, domain.ErrGeometry)
	})

	t.Run("three-digit acquisition time is zero-padded", func(t *testing.T) {
		d := fireDetection(39.76, -121.62, 85, 150)
		d.AcqTime = "510"
		ev, err := domain.Normalize(d, rules)
		require.NoError(t, err)
		require.NotNil(t, ev)
		assert.Equal(t,
			time.Date(2026, 8, 25, 5, 10, 0, 0, time.UTC), ev.OccurredAt)
	})

	t.Run("bad acquisition time degrades to date only", func(t *testing.T) {
		d := fireDetection(39.76, -121.62, 85, 150)
		d.AcqTime = "9999"
		ev, err := domain.Normalize(d, rules)
		require.NoError(t, err)
		require.NotNil(t, ev)
		assert.Equal(t,
			time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC), ev.OccurredAt)
	})

	t.Run("bad acquisition date degrades to unknown age", func(t *testing.T) {
		d := fireDetection(39.76, -121.62, 85, 150)
		d.AcqDate = "not-a-date"
		ev, err := domain.Normalize(d, rules)
		require.NoError(t, err)
		require.NotNil(t, ev)
		assert.False(t, ev.HasTime())
	})
}
