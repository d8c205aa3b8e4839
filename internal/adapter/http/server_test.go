package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/hazard-fusion/internal/adapter/http"
	"github.com/couchcryptid/hazard-fusion/internal/domain"
)

type fakeReadiness struct {
	err error
}

func (f fakeReadiness) CheckReadiness(context.Context) error { return f.err }

type fakeSnapshot struct {
	events []domain.Event
}

func (f fakeSnapshot) Snapshot() []domain.Event { return f.events }

func newServer(ready error, events []domain.Event) *httpadapter.Server {
	return httpadapter.NewServer(":0", fakeReadiness{err: ready}, fakeSnapshot{events: events}, slog.Default())
}

func TestServer_Healthz(t *testing.T) {
	srv := newServer(nil, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestServer_Readyz(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		srv := newServer(nil, nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not ready", func(t *testing.T) {
		srv := newServer(errors.New("no fusion cycle completed yet"), nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "no fusion cycle completed yet")
	})
}

func TestServer_Events(t *testing.T) {
	t.Run("serves the snapshot", func(t *testing.T) {
		events := []domain.Event{
			{ID: "seismic-abc", Source: domain.SourceSeismic, EventKind: "Earthquake", ThreatScore: 82.0},
			{ID: "fire-def", Source: domain.SourceFire, EventKind: "Wildfire", ThreatScore: 61.0},
		}
		srv := newServer(nil, events)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var got []domain.Event
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "seismic-abc", got[0].ID)
		assert.Equal(t, 61.0, got[1].ThreatScore)
	})

	t.Run("empty snapshot serves an empty array", func(t *testing.T) {
		srv := newServer(nil, nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})
}

func TestServer_Metrics(t *testing.T) {
	srv := newServer(nil, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
