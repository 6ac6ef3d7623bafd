package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"paytrack/internal/domain/audit"
	"paytrack/internal/platform/config"
	"paytrack/internal/platform/crypto"
	"paytrack/internal/platform/db"
	"paytrack/internal/platform/jobs"
	"paytrack/internal/platform/logging"
	"paytrack/internal/platform/metrics"
	"paytrack/internal/transport/http/api"
	audithandler "paytrack/internal/transport/http/handlers/audit"
	backuphandler "paytrack/internal/transport/http/handlers/backup"
	budgethandler "paytrack/internal/transport/http/handlers/budget"
	exporthandler "paytrack/internal/transport/http/handlers/exports"
	importhandler "paytrack/internal/transport/http/handlers/imports"
	profilehandler "paytrack/internal/transport/http/handlers/profile"
	salaryhandler "paytrack/internal/transport/http/handlers/salary"
	summaryhandler "paytrack/internal/transport/http/handlers/summary"
	templateshandler "paytrack/internal/transport/http/handlers/templates"
	"paytrack/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	DB      *pgxpool.Pool
	Log     *logrus.Logger
	Router  http.Handler
	Metrics *metrics.Collector
	Jobs    *jobs.Service

	cancelJobs context.CancelFunc
}

// New wires the whole service: config validation, pool, migrations, router,
// maintenance jobs. Callers own the returned App and must Close it.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	log := logging.New(cfg.Environment, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}

	collector := metrics.New()
	archiver := crypto.NewArchiver(cfg.BackupPassphrase)

	jobCtx, cancelJobs := context.WithCancel(context.Background())
	jobService := jobs.New(pool, cfg, log)
	jobService.Start(jobCtx)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Recoverer(log))
	router.Use(middleware.Metrics(collector))
	router.Use(middleware.BodyLimit(cfg.MaxUploadBytes))
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	mutationLimit := middleware.RateLimit(cfg.MutationLimitPerMinute, time.Minute)

	router.Route("/api/v1", func(r chi.Router) {
		salaryhandler.NewHandler(pool, log).RegisterRoutes(r)
		templateshandler.NewHandler(pool, log).RegisterRoutes(r)
		budgethandler.NewHandler(pool, log).RegisterRoutes(r)
		profilehandler.NewHandler(pool, log).RegisterRoutes(r)
		summaryhandler.NewHandler(pool).RegisterRoutes(r)
		importhandler.NewHandler(pool, log, collector, cfg.MaxUploadBytes, mutationLimit).RegisterRoutes(r)
		exporthandler.NewHandler(pool, log).RegisterRoutes(r)
		backuphandler.NewHandler(pool, log, archiver, collector, mutationLimit).RegisterRoutes(r)
		audithandler.NewHandler(audit.New(pool), log).RegisterRoutes(r)
	})

	return &App{
		Config:     cfg,
		DB:         pool,
		Log:        log,
		Router:     router,
		Metrics:    collector,
		Jobs:       jobService,
		cancelJobs: cancelJobs,
	}, nil
}

func (a *App) Run() error {
	a.Log.WithFields(logrus.Fields{
		"addr":        a.Config.Addr,
		"environment": a.Config.Environment,
	}).Info("paytrack listening")
	return http.ListenAndServe(a.Config.Addr, a.Router)
}

func (a *App) Close() {
	a.cancelJobs()
	a.DB.Close()
}
