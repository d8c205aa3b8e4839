// Package domain models hazard events fused from public monitoring feeds.
//
// # Data Sources
//
// Three source families are supported, each with its own provider-native
// record shape:
//
//	SEISMIC  USGS earthquake feed (GeoJSON FeatureCollection),
//	         https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/.
//	         Point geometry [lon, lat, depth]; properties carry magnitude,
//	         place string, and an epoch-milliseconds event time.
//	WEATHER  NWS active alerts (GeoJSON), https://api.weather.gov/alerts/active.
//	         Geometry is a Point or a small alert-zone Polygon; properties
//	         carry the event kind ("Tornado Warning"), a severity tier
//	         (Minor/Moderate/Severe/Extreme), and an area description.
//	         The feed has no per-record event time, so weather events carry
//	         no occurred_at and always score LOW urgency.
//	FIRE     NASA FIRMS active-fire detections (CSV). Each row is one
//	         satellite detection with latitude, longitude, brightness (K),
//	         confidence (0-100), FRP (fire radiative power, MW), and an
//	         acquisition date plus HHMM time in UTC.
//
// # Geometry Reduction
//
// Map display only needs one representative point per event, so polygon
// alert zones are reduced to the arithmetic mean of their outer-ring
// vertices. This is not an area-weighted centroid; NWS alert polygons are
// small and near-convex, which keeps the approximation inside the zone in
// practice. Records whose geometry cannot be reduced are dropped, never
// retained with null coordinates.
//
// # Filtering Rules
//
// Each source family forwards only records that clear configurable
// thresholds (see [Rules]): a magnitude floor for seismic, a warning-class
// kind list or Extreme severity for weather, and confidence/FRP floors for
// fire. Fire detections inside any configured water exclusion box are
// discarded; the default boxes cover the Gulf of Mexico and the Atlantic
// coast, where offshore-platform flares historically produced false
// positives. Exclusion boxes are data, not code.
//
// # Derived Fields
//
// risk_level, impact_radius_km, urgency, and threat_score are pure
// functions of the other event fields and a supplied reference time, so
// re-enriching an event always reproduces the same values. The weather
// severity mapping tops out at HIGH: both Extreme and Severe alerts map
// there, and no weather event ever scores EXTREME.
//
// # Correlation
//
// Free-text reports (news, social) are matched to events by location-token
// overlap: tokens longer than three characters from the event's location
// label, checked as case-insensitive substrings of the report text. This is
// a cheap lexical heuristic producing a "possible corroboration" signal,
// never a certainty claim.
//
// # ID Generation
//
// Event IDs are deterministic SHA-256 hashes of source|kind|lat|lon|time.
// This enables idempotent upserts downstream (ON CONFLICT DO UPDATE) and
// replay safety without distributed coordination. See [generateID].
package domain
