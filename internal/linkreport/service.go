package linkreport

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/docregistry/internal/eventstore"
	"git.home.luguber.info/inful/docregistry/internal/logfields"
	"git.home.luguber.info/inful/docregistry/internal/metrics"
	"git.home.luguber.info/inful/docregistry/internal/registry"
)

// Report is the outcome of one verification run.
type Report struct {
	BuildID  string
	Broken   []registry.BrokenRef
	Pages    int
	Duration time.Duration
}

// Service orchestrates link verification runs. Store and publisher are
// optional; recorder defaults to a noop.
type Service struct {
	extractor registry.LinkExtractor
	store     eventstore.Store
	publisher Publisher
	recorder  metrics.Recorder
}

// NewService creates a verification service with the shipped extractor.
func NewService() *Service {
	return &Service{
		extractor: NewExtractor(),
		recorder:  metrics.NoopRecorder{},
	}
}

// WithStore attaches an event store for run results.
func (s *Service) WithStore(store eventstore.Store) *Service {
	s.store = store
	return s
}

// WithPublisher attaches a broken-link event publisher.
func (s *Service) WithPublisher(p Publisher) *Service {
	s.publisher = p
	return s
}

// WithRecorder attaches a metrics recorder.
func (s *Service) WithRecorder(r metrics.Recorder) *Service {
	s.recorder = r
	return s
}

// WithExtractor overrides the shipped link extractor.
func (s *Service) WithExtractor(extract registry.LinkExtractor) *Service {
	s.extractor = extract
	return s
}

// Run verifies every page's references and reports all broken pairs.
func (s *Service) Run(ctx context.Context, reg *registry.Registry, buildID string) (*Report, error) {
	start := time.Now()

	broken, err := reg.ValidateLinks(s.extractor)
	if err != nil {
		return nil, err
	}

	report := &Report{
		BuildID:  buildID,
		Broken:   broken,
		Pages:    reg.Len(),
		Duration: time.Since(start),
	}

	s.recorder.ObserveVerifyDuration(report.Duration)
	s.recorder.SetBrokenLinks(len(broken))

	for _, ref := range broken {
		slog.Warn("Broken reference",
			logfields.Path(ref.Page),
			logfields.Reference(ref.Reference))
	}

	s.publishBroken(ctx, reg, report)
	s.persist(ctx, report)

	slog.Info("Link verification completed",
		logfields.BuildID(buildID),
		logfields.Pages(report.Pages),
		logfields.BrokenLinks(len(broken)),
		logfields.DurationMS(float64(report.Duration.Milliseconds())))
	return report, nil
}

func (s *Service) publishBroken(ctx context.Context, reg *registry.Registry, report *Report) {
	if s.publisher == nil {
		return
	}
	for _, ref := range report.Broken {
		event := &BrokenLinkEvent{
			Reference:  ref.Reference,
			SourcePath: ref.Page,
			BuildID:    report.BuildID,
		}
		if page, err := reg.Resolve(ref.Page); err == nil {
			event.SourceTitle = page.Title
		}
		if s.publisher.Seen(ctx, event) {
			continue
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			slog.Warn("Failed to publish broken-link event", logfields.Error(err))
		}
	}
}

func (s *Service) persist(ctx context.Context, report *Report) {
	if s.store == nil {
		return
	}
	payload, err := json.Marshal(map[string]any{
		"pages":        report.Pages,
		"broken_links": len(report.Broken),
		"duration_ms":  report.Duration.Milliseconds(),
	})
	if err != nil {
		slog.Warn("Failed to marshal verification payload", logfields.Error(err))
		return
	}
	if err := s.store.Append(ctx, report.BuildID, eventstore.TypeVerifyCompleted, payload, nil); err != nil {
		slog.Warn("Failed to persist verification event", logfields.Error(err))
	}
}
