package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	logger_adapter "github.com/BerkanHRGL/schadeautos/internal/adapters/logger"
	postgres_adapter "github.com/BerkanHRGL/schadeautos/internal/adapters/postgres"
	rabbitmq_adapter "github.com/BerkanHRGL/schadeautos/internal/adapters/rabbitmq"
	"github.com/BerkanHRGL/schadeautos/internal/adapters/httpfetch"
	"github.com/BerkanHRGL/schadeautos/internal/adapters/rest"
	"github.com/BerkanHRGL/schadeautos/internal/adapters/sites"
	"github.com/BerkanHRGL/schadeautos/internal/adapters/sites/marktplaats"
	"github.com/BerkanHRGL/schadeautos/internal/adapters/sites/schadeautos"
	"github.com/BerkanHRGL/schadeautos/internal/adapters/sites/schadevoertuigen"
	"github.com/BerkanHRGL/schadeautos/internal/configs"
	"github.com/BerkanHRGL/schadeautos/internal/constants"
	"github.com/BerkanHRGL/schadeautos/internal/core/classifier"
	"github.com/BerkanHRGL/schadeautos/internal/core/port"
	"github.com/BerkanHRGL/schadeautos/internal/core/usecase"
	"github.com/BerkanHRGL/schadeautos/internal/metrics"
	"github.com/BerkanHRGL/schadeautos/internal/scheduler"
	"github.com/BerkanHRGL/schadeautos/pkg/fluentlogger"
	"github.com/BerkanHRGL/schadeautos/pkg/postgres"
	"github.com/BerkanHRGL/schadeautos/pkg/rabbitmq/rabbitmq_common"
	"github.com/BerkanHRGL/schadeautos/pkg/rabbitmq/rabbitmq_producer"
)

// App wires every adapter and use case together and owns their lifecycle.
type App struct {
	config *configs.AppConfig
	logger port.LoggerPort

	dbPool      *pgxpool.Pool
	amqpManager *rabbitmq_common.ConnectionManager
	producer    *rabbitmq_producer.Publisher

	scheduler *scheduler.Scheduler
	apiServer *rest.Server
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	appLogger, err := buildLogger(appConfig)
	if err != nil {
		return nil, fmt.Errorf("error building logger: %w", err)
	}

	dbPool, err := postgres.NewClient(context.Background(), postgres.Config{
		DatabaseURL: appConfig.Database.URL,
		MaxConns:    int32(appConfig.Database.MaxConns),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	appLogger.Info("connected to PostgreSQL pool", nil)

	amqpManager, err := rabbitmq_common.NewManager(appConfig.RabbitMQ.URL, rabbitmq_common.NewNoopLogger())
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	producer, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
		Config:                   rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
		ExchangeName:             constants.NotificationsExchange,
		ExchangeType:             "topic",
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
	}, amqpManager)
	if err != nil {
		amqpManager.Close()
		dbPool.Close()
		return nil, fmt.Errorf("failed to create notifications publisher: %w", err)
	}

	// Outgoing adapters.
	notifier, err := rabbitmq_adapter.NewNotifierAdapter(producer,
		constants.RoutingKeyMatchEvents, constants.RoutingKeyDigestEvents)
	if err != nil {
		amqpManager.Close()
		dbPool.Close()
		return nil, fmt.Errorf("failed to create notifier adapter: %w", err)
	}

	listingStore := postgres_adapter.NewListingRepository(dbPool)
	runStore := postgres_adapter.NewRunRepository(dbPool)
	preferenceStore := postgres_adapter.NewPreferenceRepository(dbPool)

	appMetrics := metrics.New()
	clock := port.SystemClock{}

	registry, err := buildSiteRegistry(appConfig, appMetrics, appLogger)
	if err != nil {
		amqpManager.Close()
		dbPool.Close()
		return nil, err
	}
	appLogger.Info("all outgoing adapters initialized", nil)

	// Use cases.
	saveListing, err := usecase.NewSaveListingUseCase(listingStore, clock)
	if err != nil {
		amqpManager.Close()
		dbPool.Close()
		return nil, fmt.Errorf("failed to create save listing use case: %w", err)
	}
	digests := usecase.NewDigestBuckets(notifier, clock)
	matchPreferences := usecase.NewMatchPreferencesUseCase(preferenceStore, notifier, digests, clock)
	crawlSite := usecase.NewCrawlSiteUseCase(
		registry,
		runStore,
		saveListing,
		matchPreferences,
		usecase.NewDealRater(listingStore),
		classifier.DefaultDictionary(),
		clock,
		appMetrics,
		usecase.CrawlSiteConfig{
			RunDeadline:    appConfig.Scraper.RunDeadline,
			ProcessWorkers: appConfig.Scraper.ProcessWorkers,
		},
	)
	appLogger.Info("all use cases initialized", nil)

	crawlScheduler := scheduler.New(crawlSite, registry.Sites(), appConfig.Scraper.Interval, clock, appLogger)

	apiHandlers := rest.NewHandlers(runStore, listingStore, digests)
	apiServer := rest.NewServer(appConfig.Rest.Port, apiHandlers, appLogger, appMetrics.Registry)

	return &App{
		config:      appConfig,
		logger:      appLogger,
		dbPool:      dbPool,
		amqpManager: amqpManager,
		producer:    producer,
		scheduler:   crawlScheduler,
		apiServer:   apiServer,
	}, nil
}

// Run starts the scheduler and the REST server and blocks until SIGINT or
// SIGTERM, then shuts everything down in dependency order.
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	defer func() {
		a.logger.Info("shutdown sequence initiated", nil)

		a.scheduler.Stop()

		if err := a.apiServer.Stop(context.Background()); err != nil {
			a.logger.Error("error stopping api server", err, nil)
		}
		if err := a.producer.Close(); err != nil {
			a.logger.Error("error closing producer", err, nil)
		}
		if err := a.amqpManager.Close(); err != nil {
			a.logger.Error("error closing RabbitMQ connection", err, nil)
		}
		a.dbPool.Close()

		a.logger.Info("application shut down gracefully", nil)
	}()

	a.logger.Info("application is starting", port.Fields{"app": a.config.AppName})

	go a.scheduler.Start(appCtx)

	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info("rest server listening", port.Fields{"port": a.config.Rest.Port})
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		a.logger.Info("received shutdown signal", port.Fields{"signal": sig.String()})
		return nil
	case err := <-serverErrors:
		return fmt.Errorf("rest server failed: %w", err)
	}
}

func buildSiteRegistry(cfg *configs.AppConfig, m *metrics.Metrics, logger port.LoggerPort) (*sites.Registry, error) {
	type target struct {
		host  string
		build func(port.FetcherPort, port.LoggerPort) port.SiteAdapterPort
	}

	// Politeness has to be known before the fetcher exists, so each adapter
	// is built twice: once throwaway for its policy, once wired for real.
	targets := []target{
		{marktplaats.Host, func(f port.FetcherPort, l port.LoggerPort) port.SiteAdapterPort {
			return marktplaats.NewAdapter(f, l)
		}},
		{schadeautos.Host, func(f port.FetcherPort, l port.LoggerPort) port.SiteAdapterPort {
			return schadeautos.NewAdapter(f, l)
		}},
		{schadevoertuigen.Host, func(f port.FetcherPort, l port.LoggerPort) port.SiteAdapterPort {
			return schadevoertuigen.NewAdapter(f, l)
		}},
	}

	adapters := make([]port.SiteAdapterPort, 0, len(targets))
	for _, t := range targets {
		policy := t.build(nil, logger).Politeness()

		fetcher, err := httpfetch.NewFetcher(httpfetch.Config{
			AllowedDomain:   t.host,
			Politeness:      policy,
			RequestTimeout:  cfg.Scraper.RequestTimeout,
			MaxRetries:      cfg.Scraper.MaxRetries,
			RetryBackoff:    cfg.Scraper.RetryBackoff,
			RetryBackoffMax: cfg.Scraper.RetryBackoffMax,
			Metrics:         m,
			Logger:          logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create fetcher for %s: %w", t.host, err)
		}

		adapters = append(adapters, t.build(fetcher, logger))
	}

	return sites.NewRegistry(adapters...), nil
}

func buildLogger(cfg *configs.AppConfig) (port.LoggerPort, error) {
	stdout := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    parseLogLevel(cfg.StdoutLogger.Level),
		UseColor: true,
	})

	if !cfg.FluentBit.Enabled {
		return stdout, nil
	}

	fluentClient, err := fluentlogger.NewClient(fluentlogger.Config{
		Host:      cfg.FluentBit.Host,
		Port:      cfg.FluentBit.Port,
		TagPrefix: cfg.AppName,
	})
	if err != nil {
		log.Printf("Warning: Fluent Bit unavailable, falling back to stdout only: %v\n", err)
		return stdout, nil
	}

	fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(cfg.FluentBit.Level))
	if err != nil {
		return nil, err
	}

	return logger_adapter.NewMultiloggerAdapter(stdout, fluentAdapter)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
