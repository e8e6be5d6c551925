package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"git.home.luguber.info/inful/docregistry/internal/build"
	"git.home.luguber.info/inful/docregistry/internal/config"
	"git.home.luguber.info/inful/docregistry/internal/daemon"
	"git.home.luguber.info/inful/docregistry/internal/eventstore"
	"git.home.luguber.info/inful/docregistry/internal/linkreport"
	"git.home.luguber.info/inful/docregistry/internal/logfields"
	"git.home.luguber.info/inful/docregistry/internal/metrics"
	"git.home.luguber.info/inful/docregistry/internal/server"
	"git.home.luguber.info/inful/docregistry/internal/version"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		CheckLinks bool `help:"Also verify internal references and exit non-zero on breaks"`
	} `cmd:"" help:"Load all content sources and report validation results"`

	Verify struct {
		FailOnBroken bool `help:"Exit non-zero when broken references are found"`
	} `cmd:"" help:"Build the registry and verify every internal reference"`

	Serve struct {
	} `cmd:"" help:"Serve the registry over HTTP with watching and scheduled verification"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	Version struct {
	} `cmd:"" help:"Print the version and exit"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	switch ctx.Command() {
	case "build":
		cfg, err := config.Load(CLI.Config)
		if err != nil {
			slog.Error("Failed to load configuration", logfields.Error(err))
			os.Exit(1)
		}
		if err := runBuild(cfg, CLI.Build.CheckLinks); err != nil {
			slog.Error("Build failed", logfields.Error(err))
			os.Exit(1)
		}
	case "verify":
		cfg, err := config.Load(CLI.Config)
		if err != nil {
			slog.Error("Failed to load configuration", logfields.Error(err))
			os.Exit(1)
		}
		broken, err := runVerify(cfg)
		if err != nil {
			slog.Error("Verification failed", logfields.Error(err))
			os.Exit(1)
		}
		if broken > 0 && CLI.Verify.FailOnBroken {
			os.Exit(1)
		}
	case "serve":
		cfg, err := config.Load(CLI.Config)
		if err != nil {
			slog.Error("Failed to load configuration", logfields.Error(err))
			os.Exit(1)
		}
		if err := runServe(cfg); err != nil {
			slog.Error("Serve failed", logfields.Error(err))
			os.Exit(1)
		}
	case "init":
		if err := config.Init(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", logfields.Error(err))
			os.Exit(1)
		}
		slog.Info("Configuration file created", slog.String("path", CLI.Config))
	case "version":
		fmt.Println(version.String())
	}
}

func runBuild(cfg *config.Config, checkLinks bool) error {
	store, closeStore := openEventStore(cfg)
	defer closeStore()

	ctx := context.Background()
	result, err := build.NewBuilder(cfg).WithStore(store).Run(ctx)
	if err != nil {
		return err
	}

	for _, ns := range result.Registry.Namespaces() {
		slog.Info("Namespace loaded",
			logfields.Namespace(ns),
			slog.Int("top_level_entries", len(result.Registry.NavigationTree(ns))))
	}

	if checkLinks {
		report, err := linkreport.NewService().WithStore(store).Run(ctx, result.Registry, result.BuildID)
		if err != nil {
			return err
		}
		if len(report.Broken) > 0 {
			return fmt.Errorf("%d broken references found", len(report.Broken))
		}
	}
	return nil
}

func runVerify(cfg *config.Config) (int, error) {
	store, closeStore := openEventStore(cfg)
	defer closeStore()

	ctx := context.Background()
	result, err := build.NewBuilder(cfg).WithStore(store).Run(ctx)
	if err != nil {
		return 0, err
	}

	svc := linkreport.NewService().WithStore(store)
	if cfg.LinkVerification.PublishEnabled() {
		pub, err := linkreport.NewNATSPublisher(cfg.LinkVerification)
		if err != nil {
			return 0, err
		}
		defer pub.Close()
		svc = svc.WithPublisher(pub)
	}

	report, err := svc.Run(ctx, result.Registry, result.BuildID)
	if err != nil {
		return 0, err
	}
	return len(report.Broken), nil
}

func runServe(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, closeStore := openEventStore(cfg)
	defer closeStore()

	promReg := prom.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewPrometheusRecorder(promReg)

	builder := build.NewBuilder(cfg).WithStore(store).WithRecorder(recorder)

	result, err := builder.Run(ctx)
	if err != nil {
		return err
	}
	holder := daemon.NewHolder(result.Registry, result.BuildID)

	verifier := linkreport.NewService().WithStore(store).WithRecorder(recorder)
	if cfg.LinkVerification.PublishEnabled() {
		pub, err := linkreport.NewNATSPublisher(cfg.LinkVerification)
		if err != nil {
			slog.Warn("NATS publisher unavailable, broken-link events disabled", logfields.Error(err))
		} else {
			defer pub.Close()
			verifier = verifier.WithPublisher(pub)
		}
	}

	srv := server.New(cfg.Server, holder).
		WithRecorder(recorder).
		WithPrometheusRegistry(promReg)

	rebuild := func(ctx context.Context) {
		result, err := builder.Run(ctx)
		if err != nil {
			slog.Error("Rebuild failed, keeping previous registry", logfields.Error(err))
			return
		}
		holder.Swap(result.Registry, result.BuildID)
	}

	verify := func(ctx context.Context) {
		reg, buildID := holder.Get()
		report, err := verifier.Run(ctx, reg, buildID)
		if err != nil {
			slog.Error("Link verification failed", logfields.Error(err))
			return
		}
		srv.SetReport(report)
	}

	if cfg.Watch.Enabled {
		roots := make([]string, 0, len(cfg.Content))
		for _, root := range cfg.Content {
			roots = append(roots, root.Path)
		}
		if len(roots) > 0 {
			watcher, err := daemon.NewWatcher(roots, cfg.Watch.Debounce, rebuild)
			if err != nil {
				return err
			}
			if err := watcher.Start(ctx); err != nil {
				return err
			}
			defer func() {
				if err := watcher.Stop(); err != nil {
					slog.Warn("Watcher shutdown error", logfields.Error(err))
				}
			}()
		}
	}

	if cfg.LinkVerification != nil && cfg.LinkVerification.Enabled {
		scheduler, err := daemon.NewScheduler()
		if err != nil {
			return err
		}
		if _, err := scheduler.ScheduleVerification(cfg.LinkVerification.Interval, verify); err != nil {
			return err
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Stop(); err != nil {
				slog.Warn("Scheduler shutdown error", logfields.Error(err))
			}
		}()
		// Run the first verification right away rather than waiting a full
		// interval for scheduled state.
		go verify(ctx)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()
	slog.Info("Registry server started", logfields.Addr(cfg.Server.Addr))

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		slog.Info("Shutdown signal received, stopping server")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	return srv.Shutdown(stopCtx)
}

// openEventStore opens the configured sqlite store; an empty path disables
// event persistence.
func openEventStore(cfg *config.Config) (eventstore.Store, func()) {
	if cfg.EventStore.Path == "" {
		return nil, func() {}
	}
	store, err := eventstore.NewSQLiteStore(cfg.EventStore.Path)
	if err != nil {
		slog.Warn("Event store unavailable, continuing without persistence", logfields.Error(err))
		return nil, func() {}
	}
	return store, func() {
		if err := store.Close(); err != nil {
			slog.Warn("Event store close error", logfields.Error(err))
		}
	}
}
