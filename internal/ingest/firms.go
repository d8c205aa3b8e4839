package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/couchcryptid/hazard-fusion/internal/domain"
)

// DefaultFIRMSURL is the MODIS 24-hour active-fire CSV for the contiguous
// US and Hawaii.
const DefaultFIRMSURL = "https://firms.modaps.eosdis.nasa.gov/data/active_fire/modis-c6.1/csv/MODIS_C6_1_USA_contiguous_and_Hawaii_24h.csv"

// FIRMSFetcher retrieves and parses the NASA FIRMS detection CSV.
type FIRMSFetcher struct {
	url    string
	client *http.Client
}

func NewFIRMSFetcher(url string) *FIRMSFetcher {
	if url == "" {
		url = DefaultFIRMSURL
	}
	return &FIRMSFetcher{url: url, client: newHTTPClient()}
}

func (f *FIRMSFetcher) Source() domain.Source { return domain.SourceFire }

func (f *FIRMSFetcher) Fetch(ctx context.Context) ([]domain.RawRecord, error) {
	body, err := get(ctx, f.client, f.url)
	if err != nil {
		return nil, fmt.Errorf("firms fetch: %w", err)
	}
	defer body.Close()

	records, err := ParseFireCSV(body)
	if err != nil {
		return nil, fmt.Errorf("firms parse: %w", err)
	}
	return records, nil
}

// ParseFireCSV decodes a FIRMS detection CSV into raw fire records. Columns
// are located by header name, so column order and extra columns don't
// matter. Rows with unparseable numerics still yield a record (missing
// confidence/frp as nil pointers, bad coordinates as NaN) so the normalizer
// rejects them through the regular per-record error channel instead of the
// row vanishing silently here.
func ParseFireCSV(r io.Reader) ([]domain.RawRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := col["latitude"]; !ok {
		return nil, fmt.Errorf("header missing latitude column")
	}
	if _, ok := col["longitude"]; !ok {
		return nil, fmt.Errorf("header missing longitude column")
	}

	var records []domain.RawRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		field := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		det := domain.FireDetection{
			Lat:        floatOrNaN(field("latitude")),
			Lon:        floatOrNaN(field("longitude")),
			Brightness: floatOrZero(field("brightness")),
			Confidence: floatPtr(field("confidence")),
			FRP:        floatPtr(field("frp")),
			AcqDate:    field("acq_date"),
			AcqTime:    field("acq_time"),
		}
		records = append(records, det)
	}
	return records, nil
}

func floatOrNaN(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func floatOrZero(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func floatPtr(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
