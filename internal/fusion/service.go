package fusion

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/hazard-fusion/internal/domain"
	"github.com/couchcryptid/hazard-fusion/internal/observability"
)

// Fetcher retrieves one source's raw records. Implementations own their
// transport concerns; the service only imposes the per-source timeout.
type Fetcher interface {
	Source() domain.Source
	Fetch(ctx context.Context) ([]domain.RawRecord, error)
}

// TextFetcher retrieves the free-text corpus used for corroboration.
type TextFetcher interface {
	FetchItems(ctx context.Context) ([]domain.TextItem, error)
}

// Sink receives the fused event set after every cycle.
type Sink interface {
	Name() string
	Publish(ctx context.Context, events []domain.Event) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc struct {
	SinkName string
	Fn       func(ctx context.Context, events []domain.Event) error
}

func (s SinkFunc) Name() string { return s.SinkName }

func (s SinkFunc) Publish(ctx context.Context, events []domain.Event) error {
	return s.Fn(ctx, events)
}

// ServiceConfig carries the scheduling knobs for the fusion loop.
type ServiceConfig struct {
	Interval      time.Duration // time between cycles
	SourceTimeout time.Duration // independent fetch deadline per source
}

// Service runs the periodic fetch-fuse-publish loop. Feeds are fetched
// concurrently, each under its own timeout, so one unavailable source
// delays nothing and fails nothing else; the fusion itself then runs
// single-threaded and deterministic over whatever arrived.
type Service struct {
	fuser    *Fuser
	fetchers []Fetcher
	news     TextFetcher // may be nil
	sinks    []Sink
	logger   *slog.Logger
	metrics  *observability.Metrics
	clock    clockwork.Clock
	cfg      ServiceConfig

	ready    atomic.Bool
	mu       sync.RWMutex
	snapshot []domain.Event
}

// NewService wires the fusion loop. news may be nil to disable
// correlation; sinks may be empty, in which case results are only exposed
// through Snapshot.
func NewService(fuser *Fuser, fetchers []Fetcher, news TextFetcher, sinks []Sink,
	logger *slog.Logger, metrics *observability.Metrics, cfg ServiceConfig) *Service {
	return &Service{
		fuser:    fuser,
		fetchers: fetchers,
		news:     news,
		sinks:    sinks,
		logger:   logger,
		metrics:  metrics,
		clock:    clockwork.NewRealClock(),
		cfg:      cfg,
	}
}

// SetClock swaps the time source. Pass nil to reset to real time. Tests
// inject a fake clock for deterministic cycles.
func (s *Service) SetClock(c clockwork.Clock) {
	if c == nil {
		s.clock = clockwork.NewRealClock()
		return
	}
	s.clock = c
}

// CheckReadiness returns nil once the service has completed at least one
// fusion cycle.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("no fusion cycle completed yet")
	}
	return nil
}

// Snapshot returns a copy of the latest fused event set.
func (s *Service) Snapshot() []domain.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Event, len(s.snapshot))
	copy(out, s.snapshot)
	return out
}

// Run executes fusion cycles until the context is cancelled. The first
// cycle starts immediately.
func (s *Service) Run(ctx context.Context) error {
	s.logger.Info("fusion service started",
		"sources", len(s.fetchers),
		"sinks", len(s.sinks),
		"interval", s.cfg.Interval,
	)
	s.metrics.FusionRunning.Set(1)
	defer s.metrics.FusionRunning.Set(0)

	s.RunCycle(ctx)

	ticker := s.clock.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("fusion service stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			s.RunCycle(ctx)
		}
	}
}

// RunCycle performs one fetch-fuse-publish pass and refreshes the snapshot.
func (s *Service) RunCycle(ctx context.Context) {
	start := s.clock.Now()

	batches := s.fetchAll(ctx)
	corpus := s.fetchCorpus(ctx)

	events, errs := s.fuser.Fuse(batches, corpus, s.clock.Now())
	s.report(events, errs)

	for _, sink := range s.sinks {
		if err := sink.Publish(ctx, events); err != nil {
			s.logger.Error("sink publish failed", "sink", sink.Name(), "error", err)
			s.metrics.SinkErrors.WithLabelValues(sink.Name()).Inc()
		}
	}

	s.mu.Lock()
	s.snapshot = events
	s.mu.Unlock()
	s.ready.Store(true)

	s.metrics.CycleDuration.Observe(s.clock.Since(start).Seconds())
}

// fetchAll fans out over the configured fetchers, each with its own
// timeout. Results land in fetcher order so the batch sequence is stable.
func (s *Service) fetchAll(ctx context.Context) []Batch {
	batches := make([]Batch, len(s.fetchers))
	var wg sync.WaitGroup
	for i, f := range s.fetchers {
		wg.Add(1)
		go func(i int, f Fetcher) {
			defer wg.Done()
			fctx, cancel := context.WithTimeout(ctx, s.cfg.SourceTimeout)
			defer cancel()
			records, err := f.Fetch(fctx)
			batches[i] = Batch{Source: f.Source(), Records: records, FetchErr: err}
		}(i, f)
	}
	wg.Wait()
	return batches
}

// fetchCorpus retrieves and keyword-filters the text corpus. Corpus
// failures degrade to no correlation; they never fail the cycle.
func (s *Service) fetchCorpus(ctx context.Context) *domain.Corpus {
	if s.news == nil {
		return nil
	}
	fctx, cancel := context.WithTimeout(ctx, s.cfg.SourceTimeout)
	defer cancel()

	items, err := s.news.FetchItems(fctx)
	if err != nil {
		s.logger.Warn("text corpus fetch failed, correlating nothing", "error", err)
		s.metrics.CorpusItems.Set(0)
		return nil
	}
	items = domain.KeywordFilter(items, s.fuser.Rules().DisasterKeywords)
	s.metrics.CorpusItems.Set(float64(len(items)))
	return domain.NewCorpus(items)
}

func (s *Service) report(events []domain.Event, errs []domain.IngestError) {
	for _, e := range errs {
		if e.Kind == domain.ErrorKindSourceFetch {
			s.logger.Error("source fetch failed", "source", e.Source, "error", e.Err)
			s.metrics.SourceFetchFailures.WithLabelValues(string(e.Source)).Inc()
			continue
		}
		s.logger.Warn("record dropped",
			"source", e.Source,
			"record", e.RecordRef,
			"kind", e.Kind,
			"error", e.Err,
		)
		s.metrics.RecordsRejected.WithLabelValues(string(e.Source), string(e.Kind)).Inc()
	}

	sum := Summarize(events)
	for src, n := range sum.BySource {
		s.metrics.EventsFused.WithLabelValues(string(src)).Add(float64(n))
	}
	s.metrics.ActiveEvents.Set(float64(sum.Total))
	s.metrics.BreakingEvents.Set(float64(sum.Breaking))
	s.metrics.CorroboratedEvents.Set(float64(sum.Corroborated))

	s.logger.Info("fusion cycle complete",
		"events", sum.Total,
		"breaking", sum.Breaking,
		"corroborated", sum.Corroborated,
		"errors", len(errs),
	)
}
