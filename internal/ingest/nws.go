package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/couchcryptid/hazard-fusion/internal/domain"
)

// DefaultNWSURL lists every currently active alert nationwide.
const DefaultNWSURL = "https://api.weather.gov/alerts/active"

type nwsResponse struct {
	Features []domain.WeatherAlert `json:"features"`
}

// NWSFetcher retrieves the NWS active-alerts GeoJSON feed.
type NWSFetcher struct {
	url    string
	client *http.Client
}

func NewNWSFetcher(url string) *NWSFetcher {
	if url == "" {
		url = DefaultNWSURL
	}
	return &NWSFetcher{url: url, client: newHTTPClient()}
}

func (f *NWSFetcher) Source() domain.Source { return domain.SourceWeather }

func (f *NWSFetcher) Fetch(ctx context.Context) ([]domain.RawRecord, error) {
	body, err := get(ctx, f.client, f.url)
	if err != nil {
		return nil, fmt.Errorf("nws fetch: %w", err)
	}
	defer body.Close()

	var data nwsResponse
	if err := json.NewDecoder(body).Decode(&data); err != nil {
		return nil, fmt.Errorf("nws decode: %w", err)
	}

	records := make([]domain.RawRecord, 0, len(data.Features))
	for _, alert := range data.Features {
		records = append(records, alert)
	}
	return records, nil
}
