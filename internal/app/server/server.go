package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"paysuite/internal/domain/auth"
	"paysuite/internal/domain/payroll"
	"paysuite/internal/domain/sprint"
	"paysuite/internal/platform/cache"
	"paysuite/internal/platform/config"
	"paysuite/internal/platform/crypto"
	"paysuite/internal/platform/db"
	"paysuite/internal/platform/logging"
	"paysuite/internal/platform/metrics"
	"paysuite/internal/transport/http/api"
	authhandler "paysuite/internal/transport/http/handlers/auth"
	payrollhandler "paysuite/internal/transport/http/handlers/payroll"
	sprinthandler "paysuite/internal/transport/http/handlers/sprint"
	"paysuite/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	DB      *pgxpool.Pool
	Cache   *cache.PayslipCache
	Metrics *metrics.Collector
	Router  http.Handler
	Logger  *zap.Logger
}

// Deps are the collaborators the router needs. Tests build them directly
// without a database.
type Deps struct {
	Payroll payrollhandler.Service
	Auth    authhandler.LoginService
	Ready   func(ctx context.Context) error
}

// New connects storage, applies migrations and seed data, and builds the
// router.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	app := &App{Config: cfg, DB: pool, Logger: logger}
	if cfg.MetricsEnabled {
		app.Metrics = metrics.New()
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir, logger); err != nil {
			app.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg, logger); err != nil {
			app.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	regime, err := payroll.LoadRegime(cfg.RegimeFile)
	if err != nil {
		app.Close()
		return nil, err
	}
	var opts []payroll.Option
	if cfg.StrictSalaryInput {
		opts = append(opts, payroll.WithStrictInput())
	}

	cipher, err := crypto.New(cfg.DataEncryptionKey)
	if err != nil {
		app.Close()
		return nil, err
	}
	var opener payroll.SalaryOpener
	if cipher.Configured() {
		opener = cipher
	}

	payrollService := payroll.NewService(payroll.NewStore(pool), payroll.NewCalculator(regime, opts...), opener, logger.Named("payroll")).
		UseCompanyName(cfg.CompanyName)
	if app.Metrics != nil {
		payrollService.UseMetrics(app.Metrics)
	}

	app.Cache, err = cache.New(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		logger.Warn("payslip cache disabled", zap.Error(err))
	}
	if app.Cache != nil {
		payrollService.UseCache(app.Cache, cfg.PayslipCacheTTL)
	}

	logger.Info("payroll regime loaded",
		zap.String("jurisdiction", regime.Jurisdiction),
		zap.String("taxYear", regime.TaxYear),
		zap.Bool("strictInput", cfg.StrictSalaryInput),
		zap.Bool("salaryEncryption", cipher.Configured()),
		zap.Bool("payslipCache", app.Cache != nil))

	app.Router = NewRouter(cfg, logger, app.Metrics, Deps{
		Payroll: payrollService,
		Auth:    auth.NewService(auth.NewStore(pool), cfg.JWTSecret, cfg.AccessTokenTTL, logger.Named("auth")),
		Ready:   pool.Ping,
	})
	return app, nil
}

func NewRouter(cfg config.Config, logger *zap.Logger, collector *metrics.Collector, deps Deps) http.Handler {
	anchor, err := sprint.ParseAnchor(cfg.SprintAnchor)
	if err != nil {
		anchor = sprint.Anchor(time.Now())
	}
	perms := auth.RoleTable{}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger, collector))
	router.Use(middleware.Recoverer(logger))
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if deps.Ready != nil {
			if err := deps.Ready(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if collector != nil {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(deps.Auth, logger.Named("auth"))
		r.With(middleware.LoginRateLimit(max(cfg.RateLimitPerMinute/4, 1), time.Minute, logger)).Post("/auth/login", authHandler.HandleLogin)

		payrollHandler := payrollhandler.NewHandler(deps.Payroll, perms, logger.Named("payroll"))
		payrollHandler.RunLimit = middleware.RateLimit(max(cfg.RateLimitPerMinute/2, 1), time.Minute, middleware.ActorOrIPKey, logger)
		payrollHandler.RegisterRoutes(r)

		sprintHandler := sprinthandler.NewHandler(anchor, perms)
		sprintHandler.RegisterRoutes(r)
	})

	return router
}

func (a *App) Close() {
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			a.Logger.Warn("close cache failed", zap.Error(err))
		}
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

// Run starts the API server and blocks until SIGINT or SIGTERM.
func Run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("payroll server listening", zap.String("addr", cfg.Addr), zap.String("env", cfg.Environment))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
