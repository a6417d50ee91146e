package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	ballotengine "chapterhouse/contexts/chapter-operations/ballot-engine"
	ballotpostgres "chapterhouse/contexts/chapter-operations/ballot-engine/adapters/postgres"
	ballotcommands "chapterhouse/contexts/chapter-operations/ballot-engine/application/commands"
	ballotworkers "chapterhouse/contexts/chapter-operations/ballot-engine/application/workers"
	nominationservice "chapterhouse/contexts/chapter-operations/nomination-service"
	nominationpostgres "chapterhouse/contexts/chapter-operations/nomination-service/adapters/postgres"
	outreachservice "chapterhouse/contexts/chapter-operations/outreach-service"
	outreachpostgres "chapterhouse/contexts/chapter-operations/outreach-service/adapters/postgres"
	successionservice "chapterhouse/contexts/chapter-operations/succession-service"
	successionpostgres "chapterhouse/contexts/chapter-operations/succession-service/adapters/postgres"
	"chapterhouse/internal/platform/config"
	"chapterhouse/internal/platform/db"
	"chapterhouse/internal/platform/httpserver"
	"chapterhouse/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	bus          *messaging.Bus
	outboxRelay  ballotworkers.OutboxRelay
	auditor      ballotworkers.EventAuditor
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN, db.PoolOptions{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}

	successionRepo := successionpostgres.NewRepository(pg.DB, logger)
	successionModule := successionservice.NewModule(successionservice.Dependencies{
		Cycles:    successionRepo,
		Positions: successionRepo,
		Clock:     successionpostgres.SystemClock{},
		IDGen:     successionpostgres.UUIDGenerator{},
		Logger:    logger,
	})

	outreachRepo := outreachpostgres.NewRepository(pg.DB, logger)
	outreachModule := outreachservice.NewModule(outreachservice.Dependencies{
		Approaches: outreachRepo,
		Cycles:     outreachRepo,
		Positions:  outreachRepo,
		Clock:      outreachpostgres.SystemClock{},
		IDGen:      outreachpostgres.UUIDGenerator{},
		Logger:     logger,
	})

	nominationRepo := nominationpostgres.NewRepository(pg.DB, logger)
	nominationModule := nominationservice.NewModule(nominationservice.Dependencies{
		Nominations: nominationRepo,
		Cycles:      nominationRepo,
		Positions:   nominationRepo,
		Approaches:  nominationRepo,
		Clock:       nominationpostgres.SystemClock{},
		IDGen:       nominationpostgres.UUIDGenerator{},
		Logger:      logger,
	})

	ballotRepo := ballotpostgres.NewRepository(pg.DB, logger)
	ballotModule := ballotengine.NewModule(ballotengine.Dependencies{
		Meetings:    ballotRepo,
		Votes:       ballotRepo,
		Cycles:      ballotRepo,
		Positions:   ballotRepo,
		Nominations: ballotRepo,
		Candidates:  ballotRepo,
		Outbox:      ballotRepo,
		OutboxRelay: ballotRepo,
		Publisher:   messaging.NewBus(logger),
		Clock:       ballotpostgres.SystemClock{},
		IDGen:       ballotpostgres.UUIDGenerator{},
		BatchSize:   cfg.OutboxBatchSize,
		Logger:      logger,
	})

	server := httpserver.New(
		successionModule,
		outreachModule,
		nominationModule,
		ballotModule,
		logger,
		normalizeAddr(cfg.HTTPPort),
	)
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN, db.PoolOptions{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}

	bus := messaging.NewBus(logger)
	ballotRepo := ballotpostgres.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		bus:      bus,
		auditor:  ballotworkers.EventAuditor{Logger: logger},
		outboxRelay: ballotworkers.OutboxRelay{
			Outbox:    ballotRepo,
			Publisher: bus,
			Clock:     ballotpostgres.SystemClock{},
			BatchSize: cfg.OutboxBatchSize,
			Logger:    logger,
		},
		pollInterval: cfg.WorkerPollInterval,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if err := w.bus.Subscribe(ctx, ballotcommands.TopicBallotEvents, "ballot-audit", w.auditor.Handle); err != nil {
		return err
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if _, err := w.outboxRelay.RelayOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
