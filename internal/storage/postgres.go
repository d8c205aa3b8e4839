package storage

import (
	"context"
	"database/sql"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/couchcryptid/hazard-fusion/internal/domain"
)

type postgresStore struct {
	baseStore
}

func NewPostgres(dsn string) (Store, error) {
	if strings.TrimSpace(dsn) == "" {
		dsn = "postgres://localhost:5432/hazard_fusion?sslmode=disable"
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	return &postgresStore{baseStore{db: db}}, nil
}

func (s *postgresStore) Init(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			event_kind TEXT NOT NULL,
			occurred_at TIMESTAMPTZ,
			lat DOUBLE PRECISION NOT NULL,
			lon DOUBLE PRECISION NOT NULL,
			location_label TEXT NOT NULL,
			geo_precision TEXT NOT NULL,
			magnitude DOUBLE PRECISION NOT NULL,
			severity TEXT NOT NULL,
			confidence DOUBLE PRECISION NOT NULL,
			brightness DOUBLE PRECISION NOT NULL,
			frp DOUBLE PRECISION NOT NULL,
			risk_level TEXT NOT NULL,
			impact_radius_km DOUBLE PRECISION NOT NULL,
			urgency TEXT NOT NULL,
			threat_score DOUBLE PRECISION NOT NULL,
			corroborations_json JSONB NOT NULL,
			processed_at TIMESTAMPTZ NOT NULL
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

func (s *postgresStore) SaveEvents(ctx context.Context, events []domain.Event) error {
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
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
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

func (s *postgresStore) RecentEvents(ctx context.Context, limit int) ([]domain.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM events ORDER BY threat_score DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}
