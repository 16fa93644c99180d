package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/caseline-backend/internal/data/db"
	httpserver "github.com/yungbote/caseline-backend/internal/http"
	"github.com/yungbote/caseline-backend/internal/observability"
	"github.com/yungbote/caseline-backend/internal/platform/dbctx"
	"github.com/yungbote/caseline-backend/internal/platform/logger"
	"github.com/yungbote/caseline-backend/internal/realtime/bus"
	"github.com/yungbote/caseline-backend/internal/services"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Repos    Repos
	Services Services
	Metrics  *observability.Metrics
	Events   bus.Bus
	Server   *httpserver.Server

	dbService    *db.Service
	otelShutdown func(context.Context) error
}

// New opens the database and wires every layer. Migrations are not run
// here; see Migrate.
func New(ctx context.Context, log *logger.Logger, cfg Config) (*App, error) {
	dbService, err := db.Open(cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	theDB := dbService.DB()

	otelCfg := observability.OtelConfigFromEnv(serviceName, cfg.Environment, cfg.Version)
	otelShutdown := observability.InitOTel(ctx, log, otelCfg)

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics(log)
		if sqlDB, err := theDB.DB(); err == nil {
			if err := metrics.RegisterDB(sqlDB, cfg.DB.Driver); err != nil {
				log.Warn("register db stats collector failed", "error", err)
			}
		}
	}

	events, err := newBus(log, cfg)
	if err != nil {
		_ = dbService.Close()
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, metrics, events)
	middleware := wireMiddleware(log, serviceset)
	handlerset := wireHandlers(theDB, log, serviceset)
	server := wireServer(log, cfg, otelCfg.Enabled, metrics, middleware, handlerset)

	return &App{
		Log:          log,
		DB:           theDB,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Metrics:      metrics,
		Events:       events,
		Server:       server,
		dbService:    dbService,
		otelShutdown: otelShutdown,
	}, nil
}

func newBus(log *logger.Logger, cfg Config) (bus.Bus, error) {
	if cfg.RedisAddr == "" {
		log.Info("REDIS_ADDR not set; pathway events stay in process")
		return bus.NewMemoryBus(), nil
	}
	b, err := bus.NewRedisBus(log, bus.RedisConfig{Addr: cfg.RedisAddr, Channel: cfg.RedisChannel})
	if err != nil {
		return nil, fmt.Errorf("init event bus: %w", err)
	}
	return b, nil
}

// Migrate creates or updates the schema.
func (a *App) Migrate() error {
	if err := db.AutoMigrateAll(a.DB); err != nil {
		return err
	}
	return db.EnsureIndexes(a.DB)
}

// Run serves HTTP and forwards bus events into metrics until ctx is
// cancelled or SIGINT/SIGTERM arrives.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Events.StartForwarder(ctx, a.onEvent); err != nil {
		return fmt.Errorf("start event forwarder: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + a.Cfg.Port
		a.Log.Info("HTTP server listening", "addr", addr)
		return a.Server.Run(gctx, addr, a.Cfg.ShutdownTimeout)
	})
	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	a.Log.Info("HTTP server stopped")
	return err
}

// AdjustPathway runs one standalone adjustment pass for a pathway.
func (a *App) AdjustPathway(ctx context.Context, pathwayID uuid.UUID) (services.AdjustResult, error) {
	var res services.AdjustResult
	err := a.Services.Writer.Write(ctx, "pathway.adjust", func(dbc dbctx.Context) error {
		var err error
		res, err = a.Services.Alert.AdjustSteps(dbc, pathwayID)
		return err
	})
	return res, err
}

func (a *App) onEvent(ev bus.Event) {
	a.Metrics.IncBusEvent(ev.Type)
	a.Log.Debug("pathway event", "type", ev.Type, "program_id", ev.ProgramID, "pathway_id", ev.PathwayID)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Events != nil {
		if err := a.Events.Close(); err != nil {
			a.Log.Warn("close event bus failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.Cfg.ShutdownTimeout)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.dbService != nil {
		if err := a.dbService.Close(); err != nil {
			a.Log.Warn("close database failed", "error", err)
		}
	}
	a.Log.Sync()
}
