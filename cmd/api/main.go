package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/vwgov/hr-signals/internal/api/http"
	"github.com/vwgov/hr-signals/internal/api/http/handlers"
	"github.com/vwgov/hr-signals/internal/auth"
	"github.com/vwgov/hr-signals/internal/config"
	"github.com/vwgov/hr-signals/internal/detector"
	"github.com/vwgov/hr-signals/internal/events"
	"github.com/vwgov/hr-signals/internal/observability"
	"github.com/vwgov/hr-signals/internal/persistence"
	"github.com/vwgov/hr-signals/internal/repository"
	"github.com/vwgov/hr-signals/internal/service"
	"github.com/vwgov/hr-signals/internal/worker"
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

	var ticketStore repository.TicketStore
	switch cfg.Store.Backend {
	case config.StoreBackendPostgres:
		if pg.PoolHandle() == nil {
			logger.Fatal("postgres ticket store requires POSTGRES_DSN")
		}
		ticketStore = repository.NewPostgresTicketStore(pg.PoolHandle())
	default:
		ticketStore, err = repository.NewFileTicketStore(cfg.Store.FilePath)
		if err != nil {
			logger.Fatal("failed to open ticket store", zap.Error(err))
		}
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	ticketService := service.NewTicketService(service.TicketDependencies{
		Store:      ticketStore,
		Dispatcher: dispatcher,
		Metrics:    metrics,
	})
	topicService := service.NewTopicService(logger)
	riskService := service.NewRiskService(cfg.Insights.RecentWindowDays)

	var conversations repository.ConversationReader
	if pg.PoolHandle() != nil {
		conversations = repository.NewConversationRepository(pg.PoolHandle())
	} else {
		logger.Warn("no conversation log configured; insights endpoints will serve empty snapshots")
		conversations = repository.EmptyConversationReader{}
	}

	insightsService := service.NewInsightsService(service.InsightsDependencies{
		Conversations: conversations,
		Tickets:       ticketService,
		Topics:        topicService,
		Risks:         riskService,
		Cache:         redis,
		CacheTTL:      cfg.Insights.RiskCacheTTL(),
		Logger:        logger,
	})

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)
	worker.StartRiskReportRefresher(ctx, insightsService, cfg.Insights.RiskCacheTTL(), cfg.Insights.SnapshotLimit, logger)

	authMiddleware := auth.NewAuthMiddleware(auth.NewTokenManager(cfg.Auth.JWTSecret))

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	det := detector.New(detector.DefaultTaxonomy())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Messages:       handlers.NewMessagesHandler(det, dispatcher, metrics, logger),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Insights:       handlers.NewInsightsHandler(insightsService, cfg.Insights.SnapshotLimit),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
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
