package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

// ReduceGeometry collapses a GeoJSON geometry to a single representative
// coordinate. Points pass through unchanged; polygons reduce to the
// arithmetic mean of their outer-ring vertices (a centroid approximation,
// not area-weighted). Any other shape, an empty ring, or a missing geometry
// fails with ErrGeometry and the caller must drop the record.
func ReduceGeometry(g *GeoJSONGeometry) (lat, lon float64, precision string, err error) {
	if g == nil || len(g.Coordinates) == 0 {
		return 0, 0, "", fmt.Errorf("%w: missing geometry", ErrGeometry)
	}

	switch g.Type {
	case "Point":
		var coords []float64 // [lon, lat, ...]
		if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
			return 0, 0, "", fmt.Errorf("%w: point coordinates: %v", ErrGeometry, err)
		}
		if len(coords) < 2 {
			return 0, 0, "", fmt.Errorf("%w: point needs lon and lat, got %d values", ErrGeometry, len(coords))
		}
		lat, lon = coords[1], coords[0]
		precision = PrecisionExact

	case "Polygon":
		var rings [][][]float64 // rings of (lon, lat) pairs
		if err := json.Unmarshal(g.Coordinates, &rings); err != nil {
			return 0, 0, "", fmt.Errorf("%w: polygon coordinates: %v", ErrGeometry, err)
		}
		if len(rings) == 0 || len(rings[0]) == 0 {
			return 0, 0, "", fmt.Errorf("%w: polygon has no outer ring", ErrGeometry)
		}
		outer := rings[0]
		var sumLat, sumLon float64
		for _, v := range outer {
			if len(v) < 2 {
				return 0, 0, "", fmt.Errorf("%w: polygon vertex needs lon and lat", ErrGeometry)
			}
			sumLon += v[0]
			sumLat += v[1]
		}
		lat = sumLat / float64(len(outer))
		lon = sumLon / float64(len(outer))
		precision = PrecisionCentroid

	default:
		return 0, 0, "", fmt.Errorf("%w: unsupported geometry type %q", ErrGeometry, g.Type)
	}

	if err := ValidateCoordinates(lat, lon); err != nil {
		return 0, 0, "", err
	}
	return lat, lon, precision, nil
}

// ValidateCoordinates rejects coordinates outside WGS-84 bounds or not
// finite. Wrapped as ErrGeometry so invalid coordinates drop the record the
// same way an unreducible shape does.
func ValidateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return fmt.Errorf("%w: non-finite coordinates", ErrGeometry)
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude %g out of range", ErrGeometry, lat)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("%w: longitude %g out of range", ErrGeometry, lon)
	}
	return nil
}
