package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/civic-report-service/internal/api/http"
	"github.com/spec-kit/civic-report-service/internal/api/http/handlers"
	"github.com/spec-kit/civic-report-service/internal/auth"
	"github.com/spec-kit/civic-report-service/internal/config"
	"github.com/spec-kit/civic-report-service/internal/domain"
	"github.com/spec-kit/civic-report-service/internal/events"
	"github.com/spec-kit/civic-report-service/internal/media"
	"github.com/spec-kit/civic-report-service/internal/observability"
	"github.com/spec-kit/civic-report-service/internal/persistence"
	"github.com/spec-kit/civic-report-service/internal/repository"
	"github.com/spec-kit/civic-report-service/internal/service"
	"github.com/spec-kit/civic-report-service/internal/worker"
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

	var issueRepo repository.IssueRepository
	var staffRepo repository.StaffRepository
	if pool := pg.PoolHandle(); pool != nil {
		issueRepo = repository.NewPostgresIssueRepository(pool)
		staffRepo = repository.NewStaffRepository(pool)
	} else {
		issueRepo = repository.NewMemoryIssueRepository()
		staffRepo = repository.NewMemoryStaffRepository()
	}

	blobStore, err := media.NewDiskStore(cfg.Uploads.Dir, cfg.Uploads.URLPrefix)
	if err != nil {
		logger.Fatal("failed to init upload dir", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()

	issueService := service.NewIssueService(service.IssueDependencies{
		IssueRepo:  issueRepo,
		BlobStore:  blobStore,
		Analyzer:   media.StubAnalyzer{},
		Policy:     service.PolicyFor(cfg.Issues.StrictTransitions),
		Dispatcher: dispatcher,
	})
	analyticsService := service.NewAnalyticsService(issueRepo, redis.ClientHandle(), cfg.Analytics.SummaryCacheTTL(), logger)
	authService := service.NewAuthService(*cfg, staffRepo)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	if pg.PoolHandle() == nil && cfg.Auth.DevAdminEmail != "" && cfg.Auth.DevAdminPassword != "" {
		if _, err := authService.SeedStaff(ctx, "Dev Admin", cfg.Auth.DevAdminEmail, cfg.Auth.DevAdminPassword, domain.StaffRoleAdmin); err != nil {
			logger.Warn("failed to seed dev admin", zap.Error(err))
		}
	}

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), staffRepo)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(func() error {
			if pg.PoolHandle() != nil {
				return pg.PoolHandle().Ping(context.Background())
			}
			return nil
		}),
		Issues:         handlers.NewIssuesHandler(issueService),
		StaffIssues:    handlers.NewStaffIssuesHandler(issueService),
		Analytics:      handlers.NewAnalyticsHandler(analyticsService),
		Staff:          handlers.NewStaffHandler(authService),
		AuthMiddleware: authMiddleware,
		UploadsDir:     blobStore.Dir(),
		UploadsPrefix:  cfg.Uploads.URLPrefix,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
