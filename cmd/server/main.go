package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "rpverse/internal/adapter/http"
	metricsinmem "rpverse/internal/adapter/metrics/inmemory"
	"rpverse/internal/adapter/notify/lognotify"
	gormrepo "rpverse/internal/adapter/repo/gorm"
	memrepo "rpverse/internal/adapter/repo/memory"
	"rpverse/internal/app/history"
	"rpverse/internal/app/ports"
	"rpverse/internal/app/recovery"
	"rpverse/internal/app/resolve"
	"rpverse/internal/app/status"
	"rpverse/internal/domain/rp"

	"github.com/caarlos0/env/v11"
	"github.com/cloudwego/hertz/pkg/app/server"
)

type config struct {
	DSN             string        `env:"RPVERSE_DB_DSN"`
	Addr            string        `env:"RPVERSE_HTTP_ADDR" envDefault:":8080"`
	SweepInterval   time.Duration `env:"RPVERSE_SWEEP_INTERVAL" envDefault:"60s"`
	BotID           int64         `env:"RPVERSE_BOT_ID"`
	FinishingAction string        `env:"RPVERSE_FINISHING_ACTION" envDefault:"hex"`
	MigrationsDir   string        `env:"RPVERSE_MIGRATIONS_DIR" envDefault:"./migrations"`
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("parse env: %v", err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, events, resolutions := buildRepos(ctx, cfg, logger)
	registry := rp.MustDefaultRegistry()
	recorder := metricsinmem.NewRecorder()

	h := httpadapter.Handler{
		ResolveUC: resolve.UseCase{
			Store:       store,
			Resolutions: resolutions,
			Events:      events,
			Registry:    registry,
			Metrics:     recorder,
			Config: resolve.Config{
				BotID:           cfg.BotID,
				FinishingAction: cfg.FinishingAction,
			},
			Logger: logger,
			Now:    time.Now,
		},
		StatusUC:  status.UseCase{Store: store, Logger: logger, Now: time.Now},
		HistoryUC: history.UseCase{Events: events},
		Registry:  registry,
		KPI:       snapshotAdapter{recorder},
	}

	sweeper := recovery.Sweeper{
		Store:    store,
		Events:   events,
		Notifier: lognotify.Notifier{Logger: logger},
		Interval: cfg.SweepInterval,
		Logger:   logger,
		Now:      time.Now,
	}
	go sweeper.Run(ctx)

	s := server.Default(server.WithHostPorts(cfg.Addr))
	h.RegisterRoutes(s)

	logger.Info("rpverse server listening", slog.String("addr", cfg.Addr))
	s.Spin()
}

func buildRepos(ctx context.Context, cfg config, logger *slog.Logger) (ports.VitalityRepository, ports.EventRepository, ports.ResolutionRepository) {
	if cfg.DSN == "" {
		logger.Warn("RPVERSE_DB_DSN not set, using in-memory store; state is lost on restart")
		return memrepo.NewStore(), memrepo.NewEventLog(), memrepo.NewResolutionLog()
	}
	db, err := gormrepo.OpenPostgres(cfg.DSN)
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}
	if err := gormrepo.ApplyMigrations(ctx, db, cfg.MigrationsDir); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}
	return gormrepo.NewVitalityRepo(db), gormrepo.NewEventRepo(db), gormrepo.NewResolutionRepo(db)
}

// snapshotAdapter erases the concrete snapshot type for the KPI endpoint.
type snapshotAdapter struct {
	recorder *metricsinmem.Recorder
}

func (a snapshotAdapter) Snapshot() any {
	return a.recorder.Snapshot()
}
