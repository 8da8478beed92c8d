package bootstrap

import (
	"context"
	"log/slog"
	"time"

	articlelibrary "library/contexts/publishing/article-library"
	cryptoadapter "library/contexts/publishing/article-library/adapters/crypto"
	postgresadapter "library/contexts/publishing/article-library/adapters/postgres"
	workerapp "library/contexts/publishing/article-library/application/workers"
	"library/contexts/publishing/article-library/ports"
	contractsv1 "library/contracts/gen/events/v1"
	"library/internal/platform/config"
	"library/internal/platform/db"
	"library/internal/platform/httpserver"
	"library/internal/platform/messaging"
	"library/internal/platform/metrics"
	"library/internal/platform/web"

	"golang.org/x/sync/errgroup"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

// EventBus is satisfied by the NATS adapter and the in-process bus.
type EventBus interface {
	ports.EventPublisher
	Subscribe(ctx context.Context, subject string, handler func(context.Context, contractsv1.Envelope) error) error
	Close() error
}

type APIApp struct {
	server   *httpserver.Server
	database *db.Database
	worker   *WorkerApp
	logger   *slog.Logger
}

type WorkerApp struct {
	database     *db.Database
	bus          EventBus
	announcer    workerapp.PublicationAnnouncer
	outboxRelay  workerapp.OutboxRelay
	pollInterval time.Duration
	logger       *slog.Logger
}

// Storage opens the configured database and returns the gorm repository on it.
// A sqlite database is migrated before it is returned; postgres is migrated
// with libraryctl migrate.
func Storage(cfg config.Config, logger *slog.Logger) (*db.Database, *postgresadapter.Repository, error) {
	database, err := db.Connect(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	repo := postgresadapter.NewRepository(database.DB, logger)
	if database.Driver == config.DriverSQLite {
		if err := repo.Migrate(context.Background()); err != nil {
			_ = database.Close()
			return nil, nil, err
		}
	}
	return database, repo, nil
}

// NewLibraryModule wires the article-library use cases on the gorm repository.
func NewLibraryModule(repo *postgresadapter.Repository, logger *slog.Logger) articlelibrary.Module {
	return articlelibrary.NewModule(articlelibrary.Dependencies{
		Authors:        repo,
		Tags:           repo,
		Articles:       repo,
		Idempotency:    repo,
		Hasher:         cryptoadapter.BcryptHasher{},
		Clock:          postgresadapter.SystemClock{},
		IDGenerator:    postgresadapter.UUIDGenerator{},
		IdempotencyTTL: 7 * 24 * time.Hour,
		Logger:         logger,
	})
}

func BuildAPI(configPath string) (*APIApp, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger := slog.Default().With("service", cfg.Service.Name, "process", "api")

	database, repo, err := Storage(cfg, logger)
	if err != nil {
		return nil, err
	}

	module := NewLibraryModule(repo, logger)
	pages, err := web.New(module.Handler, logger)
	if err != nil {
		_ = database.Close()
		return nil, err
	}
	appMetrics := metrics.New()

	app := &APIApp{
		database: database,
		logger:   logger,
	}
	if cfg.Worker.Embedded {
		worker, err := newWorkerApp(cfg, database, repo, appMetrics, logger.With("embedded", true))
		if err != nil {
			_ = database.Close()
			return nil, err
		}
		app.worker = worker
	}

	trustedProxies, err := cfg.Admin.TrustedProxyPrefixes()
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.server = httpserver.New(module, pages, appMetrics, logger, httpserver.Options{
		Addr:            cfg.Addr(),
		AdminRateLimit:  cfg.Admin.RateLimit,
		AdminRateBurst:  cfg.Admin.RateBurst,
		TrustedProxies:  trustedProxies,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
		HealthCheck:     database.Ping,
	})
	return app, nil
}

func BuildWorker(configPath string) (*WorkerApp, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger := slog.Default().With("service", cfg.Service.Name, "process", "worker")

	database, repo, err := Storage(cfg, logger)
	if err != nil {
		return nil, err
	}
	worker, err := newWorkerApp(cfg, database, repo, metrics.New(), logger)
	if err != nil {
		_ = database.Close()
		return nil, err
	}
	return worker, nil
}

func newWorkerApp(
	cfg config.Config,
	database *db.Database,
	repo *postgresadapter.Repository,
	appMetrics *metrics.Metrics,
	logger *slog.Logger,
) (*WorkerApp, error) {
	bus, err := NewEventBus(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &WorkerApp{
		database: database,
		bus:      bus,
		announcer: workerapp.PublicationAnnouncer{
			Articles:    repo,
			Clock:       postgresadapter.SystemClock{},
			IDGenerator: postgresadapter.UUIDGenerator{},
			BatchSize:   cfg.Worker.BatchSize,
			Metrics:     appMetrics,
			Logger:      logger,
		},
		outboxRelay: workerapp.OutboxRelay{
			Outbox:      repo,
			Publisher:   bus,
			Clock:       postgresadapter.SystemClock{},
			TopicPrefix: cfg.NATS.SubjectPrefix,
			BatchSize:   cfg.Worker.BatchSize,
			Metrics:     appMetrics,
			Logger:      logger,
		},
		pollInterval: cfg.Worker.PollInterval,
		logger:       logger,
	}, nil
}

// NewEventBus connects to NATS when a url is configured and falls back to the
// in-process bus otherwise.
func NewEventBus(cfg config.Config, logger *slog.Logger) (EventBus, error) {
	if cfg.NATS.URL == "" {
		logger.Warn("nats url not configured, using in-process event bus",
			"event", "bootstrap_in_process_bus",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		return messaging.NewBus(logger), nil
	}
	natsBus, err := messaging.ConnectNATS(cfg.NATS.URL, cfg.Service.Name, logger)
	if err != nil {
		return nil, err
	}
	return natsBus, nil
}

func (a *APIApp) Run(ctx context.Context) error {
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"embedded_worker", a.worker != nil,
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return a.server.Run(groupCtx)
	})
	if a.worker != nil {
		group.Go(func() error {
			return a.worker.Run(groupCtx)
		})
	}
	return group.Wait()
}

func (a *APIApp) Close() error {
	if a.worker != nil && a.worker.bus != nil {
		_ = a.worker.bus.Close()
	}
	return a.database.Close()
}

// Run polls the announcer and the outbox relay on independent loops until
// ctx is cancelled.
func (w *WorkerApp) Run(ctx context.Context) error {
	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return w.poll(groupCtx, "announcer", w.announcer.RunOnce)
	})
	group.Go(func() error {
		return w.poll(groupCtx, "outbox_relay", w.outboxRelay.RunOnce)
	})
	return group.Wait()
}

func (w *WorkerApp) Close() error {
	if w.bus != nil {
		_ = w.bus.Close()
	}
	return w.database.Close()
}

// poll runs runOnce every interval. A failed cycle is logged and retried on
// the next tick; pending outbox rows stay pending until a publish succeeds.
func (w *WorkerApp) poll(ctx context.Context, loop string, runOnce func(context.Context) error) error {
	interval := w.pollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := runOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			w.logger.Warn("worker cycle failed",
				"event", "bootstrap_worker_cycle_failed",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"loop", loop,
				"error", err.Error(),
			)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
