// Package build assembles a registry from all configured content sources:
// local roots and cloned repositories. Each run gets a build ID, is timed,
// and is recorded in the event store when one is attached.
package build

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docregistry/internal/config"
	"git.home.luguber.info/inful/docregistry/internal/eventstore"
	"git.home.luguber.info/inful/docregistry/internal/loader"
	"git.home.luguber.info/inful/docregistry/internal/logfields"
	"git.home.luguber.info/inful/docregistry/internal/metrics"
	"git.home.luguber.info/inful/docregistry/internal/registry"
)

// Result is the outcome of one successful build.
type Result struct {
	BuildID  string
	Registry *registry.Registry
	Duration time.Duration
}

// Builder loads and validates the full content set. A Builder is reusable:
// every Run call produces a fresh registry.
type Builder struct {
	cfg      *config.Config
	store    eventstore.Store
	recorder metrics.Recorder
}

// NewBuilder creates a builder for the given configuration.
func NewBuilder(cfg *config.Config) *Builder {
	return &Builder{
		cfg:      cfg,
		recorder: metrics.NoopRecorder{},
	}
}

// WithStore attaches an event store for build lifecycle events.
func (b *Builder) WithStore(store eventstore.Store) *Builder {
	b.store = store
	return b
}

// WithRecorder attaches a metrics recorder.
func (b *Builder) WithRecorder(r metrics.Recorder) *Builder {
	b.recorder = r
	return b
}

// Run loads every configured source and constructs a validated registry.
// On failure no registry is returned; the caller decides whether to keep a
// previous one.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	buildID := uuid.NewString()
	start := time.Now()

	slog.Info("Registry build started", logfields.BuildID(buildID))
	b.appendEvent(ctx, buildID, eventstore.TypeBuildStarted, nil)

	records, err := b.loadSources(ctx)
	if err != nil {
		return nil, b.fail(ctx, buildID, err)
	}

	reg, err := registry.Load(records, registry.Options{Strict: b.cfg.Strict})
	if err != nil {
		return nil, b.fail(ctx, buildID, err)
	}

	result := &Result{
		BuildID:  buildID,
		Registry: reg,
		Duration: time.Since(start),
	}

	b.recorder.ObserveBuildDuration(result.Duration)
	b.recorder.IncBuildOutcome(metrics.OutcomeSuccess)
	b.recorder.SetPagesLoaded(reg.Len())

	payload, _ := json.Marshal(map[string]any{
		"pages":       reg.Len(),
		"namespaces":  reg.Namespaces(),
		"duration_ms": result.Duration.Milliseconds(),
	})
	b.appendEvent(ctx, buildID, eventstore.TypeBuildCompleted, payload)

	slog.Info("Registry build completed",
		logfields.BuildID(buildID),
		logfields.Pages(reg.Len()),
		logfields.DurationMS(float64(result.Duration.Milliseconds())))
	return result, nil
}

func (b *Builder) loadSources(ctx context.Context) ([]registry.RawPage, error) {
	var records []registry.RawPage

	for _, root := range b.cfg.Content {
		fsLoader := &loader.Filesystem{Root: root.Path, BasePath: root.BasePath}
		recs, err := fsLoader.Load(ctx)
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
	}

	for _, repo := range b.cfg.Repositories {
		gitLoader := &loader.Git{
			URL:        repo.URL,
			Branch:     repo.Branch,
			ContentDir: repo.ContentDir,
			BasePath:   repo.BasePath,
		}
		recs, err := gitLoader.Load(ctx)
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
	}

	return records, nil
}

func (b *Builder) fail(ctx context.Context, buildID string, err error) error {
	b.recorder.IncBuildOutcome(metrics.OutcomeFailed)
	payload, _ := json.Marshal(map[string]string{"error": err.Error()})
	b.appendEvent(ctx, buildID, eventstore.TypeBuildFailed, payload)
	slog.Error("Registry build failed", logfields.BuildID(buildID), logfields.Error(err))
	return err
}

func (b *Builder) appendEvent(ctx context.Context, buildID, eventType string, payload []byte) {
	if b.store == nil {
		return
	}
	if err := b.store.Append(ctx, buildID, eventType, payload, nil); err != nil {
		slog.Warn("Failed to persist build event", logfields.BuildID(buildID), logfields.Error(err))
	}
}
