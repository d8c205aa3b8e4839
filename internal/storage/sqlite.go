package storage

import (
	"context"
	"database/sql"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/couchcryptid/hazard-fusion/internal/domain"
)

type sqliteStore struct {
	baseStore
}

// NewSQLite opens a SQLite-backed store. An empty DSN falls back to a local
// file with a busy timeout suitable for a single writer.
func NewSQLite(dsn string) (Store, error) {
	if strings.TrimSpace(dsn) == "" {
		dsn = "file:hazard-fusion.db?_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	return &sqliteStore{baseStore{db: db}}, nil
}

func (s *sqliteStore) Init(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			event_kind TEXT NOT NULL,
			occurred_at TIMESTAMP,
			lat REAL NOT NULL,
			lon REAL NOT NULL,
			location_label TEXT NOT NULL,
			geo_precision TEXT NOT NULL,
			magnitude REAL NOT NULL,
			severity TEXT NOT NULL,
			confidence REAL NOT NULL,
			brightness REAL NOT NULL,
			frp REAL NOT NULL,
			risk_level TEXT NOT NULL,
			impact_radius_km REAL NOT NULL,
			urgency TEXT NOT NULL,
			threat_score REAL NOT NULL,
			corroborations_json TEXT NOT NULL,
			processed_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_threat ON events(threat_score)`,
		`CREATE INDEX IF NOT EXISTS idx_events_source ON events(source)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *sqliteStore) SaveEvents(ctx context.Context, events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO events (id, source, event_kind, occurred_at,
			lat, lon, location_label, geo_precision,
			magnitude, severity, confidence, brightness, frp,
			risk_level, impact_radius_km, urgency, threat_score,
			corroborations_json, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source = excluded.source,
			event_kind = excluded.event_kind,
			occurred_at = excluded.occurred_at,
			lat = excluded.lat,
			lon = excluded.lon,
			location_label = excluded.location_label,
			geo_precision = excluded.geo_precision,
			magnitude = excluded.magnitude,
			severity = excluded.severity,
			confidence = excluded.confidence,
			brightness = excluded.brightness,
			frp = excluded.frp,
			risk_level = excluded.risk_level,
			impact_radius_km = excluded.impact_radius_km,
			urgency = excluded.urgency,
			threat_score = excluded.threat_score,
			corroborations_json = excluded.corroborations_json,
			processed_at = excluded.processed_at`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, e := range events {
		if _, err := stmt.ExecContext(ctx,
			e.ID, string(e.Source), e.EventKind, nullableTime(e.OccurredAt),
			e.Lat, e.Lon, e.LocationLabel, e.GeoPrecision,
			e.Magnitude, e.Severity, e.Confidence, e.Brightness, e.FRP,
			string(e.RiskLevel), e.ImpactRadiusKM, string(e.Urgency), e.ThreatScore,
			encodeJSON(e.Corroborations), e.ProcessedAt.UTC(),
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s *sqliteStore) RecentEvents(ctx context.Context, limit int) ([]domain.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM events ORDER BY threat_score DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}
