package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"guard-matching/internal/common/aws"
	"guard-matching/internal/common/camunda"
	"guard-matching/internal/common/config"
	"guard-matching/internal/common/database"
	"guard-matching/internal/common/logger"
	"guard-matching/internal/common/observability"
	"guard-matching/internal/common/validation"
	"guard-matching/internal/events"
	"guard-matching/internal/services"
	"guard-matching/internal/store"
	"guard-matching/pkg/registry"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	boot := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		boot.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting guard matching workers",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New("guard-matching")
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zeebe, err := camunda.NewClientWithConfig(&camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
		ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
		RetryConfig: &camunda.RetryConfig{
			MaxRetries: 10,
			BaseDelay:  2 * time.Second,
			MaxDelay:   30 * time.Second,
		},
	})
	if err != nil {
		zapLog.Fatal("zeebe client failed", zap.Error(err))
	}
	defer zeebe.Close()
	zapLog.Info("Zeebe client connected successfully")

	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	redis := database.NewRedis(cfg.Database.Redis)
	err = retryWithBackoff(func() error {
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	var catalog *store.Catalog
	if cfg.Database.Elasticsearch.Enabled {
		var es *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return es.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		catalog = store.NewCatalog(es.Client, cfg.Database.Elasticsearch.Index)
		if err := catalog.EnsureIndex(ctx); err != nil {
			zapLog.Fatal("elasticsearch catalog index unavailable", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully", zap.String("index", cfg.Database.Elasticsearch.Index))
	}

	publisher, err := events.New(cfg.Events)
	if err != nil {
		zapLog.Fatal("event publisher init failed", zap.String("driver", cfg.Events.Driver), zap.Error(err))
	}
	defer publisher.Close()

	awsCfg := cfg.Integrations.AWS
	notifier, err := aws.NewNotifierFromRegion(ctx, awsCfg.Region, awsCfg.SES.FromEmail, awsCfg.SNS.DefaultSMSSenderID,
		awsCfg.SES.Enabled, awsCfg.SNS.Enabled)
	if err != nil {
		zapLog.Fatal("aws notifier init failed", zap.Error(err))
	}

	reg, err := registry.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.String("path", cfg.Registry.Path), zap.Error(err))
	}
	validator, err := validation.NewValidator(reg)
	if err != nil {
		zapLog.Fatal("activity schemas failed to compile", zap.Error(err))
	}

	guards := store.NewGuardStore(pg.DB)
	roster := store.NewCachedRoster(guards, redis.Client, cfg.Matching.RosterCacheDuration(), log)
	geo := store.NewGeoIndex(redis.Client)
	settings := services.SettingsFromConfig(cfg.Matching)

	var nearby services.NearbyFinder
	if cfg.Matching.GeoPrefilter {
		nearby = geo
	}
	var searcher services.CatalogSearcher
	if catalog != nil {
		searcher = catalog
	}

	deps := &dependencies{
		cfg:       cfg,
		log:       log,
		validator: validator,
		guards:    guards,
		roster:    roster,
		geo:       geo,
		catalog:   catalog,
		notifier:  notifier,
		match:     services.NewMatchService(roster, store.NewBookingStore(pg.DB), nearby, settings, log),
		search:    services.NewSearchService(searcher, roster, log),
		availability: services.NewAvailabilityService(
			store.NewAvailabilityStore(pg.DB, cfg.Matching.BookingMaxAttempts),
			publisher, settings, cfg.Matching.BookingMaxAttempts, log,
		),
	}

	workers := registerWorkers(zeebe.Zeebe(), deps, obs, zapLog)
	zapLog.Info("workers registered", zap.Int("count", len(workers)))

	srv := newServer(cfg.Server.Address, readinessChecks{
		"postgres": pg.Ping,
		"redis":    redis.Ping,
		"zeebe":    zeebe.HealthCheck,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zapLog.Info("health/metrics server listening", zap.String("address", cfg.Server.Address))
		return srv.listen()
	})
	g.Go(func() error {
		<-gctx.Done()
		zapLog.Info("shutdown signal received, stopping workers")

		for _, w := range workers {
			w.Close()
		}
		for _, w := range workers {
			w.AwaitClose()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
		defer cancel()
		return srv.shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zapLog.Error("worker manager exited with error", zap.Error(err))
	}
	zapLog.Info("worker manager stopped gracefully")
}
