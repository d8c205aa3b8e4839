// Package fusion orchestrates normalization, scoring, and correlation over
// per-source fetch results, with per-record and per-source fault isolation.
package fusion

import (
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/couchcryptid/hazard-fusion/internal/domain"
)

// Batch is one source's raw fetch result. A failed fetch sets FetchErr and
// leaves Records empty; the failure is reported alongside the other
// sources' events instead of aborting the fusion.
type Batch struct {
	Source   domain.Source
	Records  []domain.RawRecord
	FetchErr error
}

// Fuser runs the fusion pipeline under a validated rule set. Construction
// is the only place configuration errors surface; after New succeeds, Fuse
// never fails: it returns partial results plus a non-fatal error list.
type Fuser struct {
	rules domain.Rules
}

// New validates the rules and returns a ready Fuser. A validation failure
// wraps domain.ErrConfig and is fatal to the caller.
func New(rules domain.Rules) (*Fuser, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &Fuser{rules: rules}, nil
}

// Rules returns the rule set the Fuser was built with.
func (f *Fuser) Rules() domain.Rules { return f.rules }

// Fuse normalizes every batch, enriches the survivors, applies the recency
// horizon, correlates against the corpus (which may be nil), and returns
// the events ordered for display. Identical inputs and now produce
// byte-identical output.
//
// Record-level failures are skipped and reported; a source-level fetch
// failure is reported once and never blocks the other sources.
func (f *Fuser) Fuse(batches []Batch, corpus *domain.Corpus, now time.Time) ([]domain.Event, []domain.IngestError) {
	var (
		events []domain.Event
		errs   []domain.IngestError
	)
	horizon := time.Duration(f.rules.RecencyHorizonHours * float64(time.Hour))

	for _, b := range batches {
		if b.FetchErr != nil {
			errs = append(errs, domain.IngestError{
				Source: b.Source,
				Kind:   domain.ErrorKindSourceFetch,
				Err:    b.FetchErr,
			})
			continue
		}
		for _, rec := range b.Records {
			ev, err := domain.Normalize(rec, f.rules)
			if err != nil {
				errs = append(errs, domain.IngestError{
					Source:    b.Source,
					RecordRef: rec.RecordRef(),
					Kind:      domain.KindOf(err),
					Err:       err,
				})
				continue
			}
			if ev == nil {
				continue // filtered by rules, not an error
			}
			enriched := domain.Enrich(*ev, now)
			if enriched.HasTime() && now.Sub(enriched.OccurredAt) > horizon {
				continue // stale; unknown-age events are kept
			}
			events = append(events, enriched)
		}
	}

	correlateAll(events, corpus)
	sortEvents(events)
	return events, errs
}

// correlateShardThreshold is the event count below which sharding the
// correlation across goroutines costs more than it saves.
const correlateShardThreshold = 64

// correlateAll annotates every event with its corroborations. The
// correlator is stateless per event, so large inputs are sharded across
// workers; each worker writes only its own slice segment, keeping the
// result identical to the sequential pass.
func correlateAll(events []domain.Event, corpus *domain.Corpus) {
	if corpus.Len() == 0 || len(events) == 0 {
		return
	}

	workers := runtime.GOMAXPROCS(0)
	if len(events) < correlateShardThreshold || workers < 2 {
		for i := range events {
			events[i].Corroborations = domain.Correlate(events[i], corpus)
		}
		return
	}

	chunk := (len(events) + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < len(events); start += chunk {
		end := min(start+chunk, len(events))
		wg.Add(1)
		go func(shard []domain.Event) {
			defer wg.Done()
			for i := range shard {
				shard[i].Corroborations = domain.Correlate(shard[i], corpus)
			}
		}(events[start:end])
	}
	wg.Wait()
}

// sortEvents orders by descending threat score, then most recent first,
// then source name, so identical inputs always produce identical output.
func sortEvents(events []domain.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.ThreatScore != b.ThreatScore {
			return a.ThreatScore > b.ThreatScore
		}
		if !a.OccurredAt.Equal(b.OccurredAt) {
			return a.OccurredAt.After(b.OccurredAt)
		}
		return a.Source < b.Source
	})
}

// Summary aggregates a fused event set for logging and gauges.
type Summary struct {
	Total        int
	Breaking     int // IMMEDIATE or HIGH urgency with a known occurrence time
	Corroborated int
	BySource     map[domain.Source]int
	ByRisk       map[domain.RiskLevel]int
}

// Summarize counts events by source and risk. Events with unknown age are
// never counted as breaking, whatever their risk.
func Summarize(events []domain.Event) Summary {
	s := Summary{
		Total:    len(events),
		BySource: make(map[domain.Source]int),
		ByRisk:   make(map[domain.RiskLevel]int),
	}
	for _, e := range events {
		s.BySource[e.Source]++
		s.ByRisk[e.RiskLevel]++
		if e.HasTime() && (e.Urgency == domain.UrgencyImmediate || e.Urgency == domain.UrgencyHigh) {
			s.Breaking++
		}
		if len(e.Corroborations) > 0 {
			s.Corroborated++
		}
	}
	return s
}
