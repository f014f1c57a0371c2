package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/logiops/ops-portal/internal/api/http"
	"github.com/logiops/ops-portal/internal/api/http/handlers"
	"github.com/logiops/ops-portal/internal/auth"
	"github.com/logiops/ops-portal/internal/config"
	"github.com/logiops/ops-portal/internal/observability"
	"github.com/logiops/ops-portal/internal/persistence"
	"github.com/logiops/ops-portal/internal/report"
	"github.com/logiops/ops-portal/internal/repository"
	"github.com/logiops/ops-portal/internal/service"
	"github.com/logiops/ops-portal/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()

	pool := pg.PoolHandle()
	versionRepo := repository.NewTicketVersionRepository(pool)
	kpiRepo := repository.NewKPIRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	referenceRepo := repository.NewReferenceRepository(pool)
	accountRepo := repository.NewAccountRepository(pool)

	aggregator := report.NewAggregator(versionRepo,
		report.WithMaxConcurrent(cfg.Report.MaxGroupQueries),
	)

	reportService := service.NewReportService(service.ReportDependencies{
		VersionRepo:   versionRepo,
		KPIRepo:       kpiRepo,
		UserRepo:      userRepo,
		ReferenceRepo: referenceRepo,
		Aggregator:    aggregator,
		Cache:         persistence.NewReportCache(redis),
		CacheTTL:      cfg.Report.CacheTTL(),
		Logger:        logger,
		Metrics:       metrics,
	})
	authService := service.NewAuthService(cfg.Auth, accountRepo)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), accountRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Reports:        handlers.NewReportsHandler(reportService),
		Reference:      handlers.NewReferenceHandler(reportService),
		AuthMiddleware: authMiddleware,
	})

	snapshot := worker.NewSnapshotWorker(reportService, cfg.Report.SnapshotRefresh(), logger)
	go snapshot.Run(ctx)

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
