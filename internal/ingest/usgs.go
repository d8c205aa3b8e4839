package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/couchcryptid/hazard-fusion/internal/domain"
)

// DefaultUSGSURL is the ambient monitoring feed: all M2.5+ earthquakes of
// the past week. Callers wanting only significant events point at the
// significant_day feed and raise Rules.MinMagnitude to 5.0.
const DefaultUSGSURL = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/2.5_week.geojson"

type usgsResponse struct {
	Features []domain.SeismicFeature `json:"features"`
}

// USGSFetcher retrieves the USGS earthquake GeoJSON feed.
type USGSFetcher struct {
	url    string
	client *http.Client
}

func NewUSGSFetcher(url string) *USGSFetcher {
	if url == "" {
		url = DefaultUSGSURL
	}
	return &USGSFetcher{url: url, client: newHTTPClient()}
}

func (f *USGSFetcher) Source() domain.Source { return domain.SourceSeismic }

// Fetch downloads and decodes the feed. Feature-level validity is the
// normalizer's concern; everything decoded is forwarded as-is.
func (f *USGSFetcher) Fetch(ctx context.Context) ([]domain.RawRecord, error) {
	body, err := get(ctx, f.client, f.url)
	if err != nil {
		return nil, fmt.Errorf("usgs fetch: %w", err)
	}
	defer body.Close()

	var data usgsResponse
	if err := json.NewDecoder(body).Decode(&data); err != nil {
		return nil, fmt.Errorf("usgs decode: %w", err)
	}

	records := make([]domain.RawRecord, 0, len(data.Features))
	for _, feat := range data.Features {
		records = append(records, feat)
	}
	return records, nil
}
