// Package storage persists fused hazard events to a relational backend.
// Persistence is lossless with respect to the event schema: every field,
// including the corroboration list, round-trips through the store.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/couchcryptid/hazard-fusion/internal/domain"
)

// Store persists fused events and serves them back newest-cycle-first.
type Store interface {
	Init(ctx context.Context) error
	Close() error

	// SaveEvents upserts a cycle's fused events keyed by event ID. The same
	// physical occurrence observed on a later cycle replaces its prior row
	// wholesale.
	SaveEvents(ctx context.Context, events []domain.Event) error

	// RecentEvents returns up to limit stored events ordered by threat score
	// descending, matching emission order for a single cycle.
	RecentEvents(ctx context.Context, limit int) ([]domain.Event, error)
}

// NewStore selects a backend by driver name. An empty driver disables
// persistence and returns a nil Store.
func NewStore(driver, dsn string) (Store, error) {
	switch strings.ToLower(driver) {
	case "":
		return nil, nil
	case "sqlite":
		return NewSQLite(dsn)
	case "postgres", "postgresql":
		return NewPostgres(dsn)
	default:
		return nil, errors.New("unsupported storage driver: " + driver)
	}
}

type baseStore struct {
	db *sql.DB
}

func (b *baseStore) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

func encodeJSON(value any) string {
	data, _ := json.Marshal(value)
	return string(data)
}

// scanEvents reads event rows in the column order produced by selectColumns.
func scanEvents(rows *sql.Rows) ([]domain.Event, error) {
	var events []domain.Event
	for rows.Next() {
		var (
			e          domain.Event
			occurredAt sql.NullTime
			corrJSON   string
		)
		if err := rows.Scan(
			&e.ID, &e.Source, &e.EventKind, &occurredAt,
			&e.Lat, &e.Lon, &e.LocationLabel, &e.GeoPrecision,
			&e.Magnitude, &e.Severity, &e.Confidence, &e.Brightness, &e.FRP,
			&e.RiskLevel, &e.ImpactRadiusKM, &e.Urgency, &e.ThreatScore,
			&corrJSON, &e.ProcessedAt,
		); err != nil {
			return nil, err
		}
		if occurredAt.Valid {
			e.OccurredAt = occurredAt.Time
		}
		if corrJSON != "" && corrJSON != "null" {
			if err := json.Unmarshal([]byte(corrJSON), &e.Corroborations); err != nil {
				return nil, err
			}
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

const selectColumns = `id, source, event_kind, occurred_at,
	lat, lon, location_label, geo_precision,
	magnitude, severity, confidence, brightness, frp,
	risk_level, impact_radius_km, urgency, threat_score,
	corroborations_json, processed_at`

// nullableTime maps the zero time to SQL NULL so "no occurrence time" is
// distinguishable in the store.
func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}
