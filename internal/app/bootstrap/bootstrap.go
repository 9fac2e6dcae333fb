package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	offeringservice "offeringsvc/contexts/ecommerce/offering-service"
	postgresadapter "offeringsvc/contexts/ecommerce/offering-service/adapters/postgres"
	redisadapter "offeringsvc/contexts/ecommerce/offering-service/adapters/redis"
	workerapp "offeringsvc/contexts/ecommerce/offering-service/application/workers"
	"offeringsvc/contexts/ecommerce/offering-service/ports"
	"offeringsvc/internal/platform/config"
	"offeringsvc/internal/platform/db"
	"offeringsvc/internal/platform/httpserver"
	"offeringsvc/internal/platform/messaging"

	redis "github.com/redis/go-redis/v9"
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
	kafka        *messaging.Kafka
	outboxRelay  workerapp.OutboxRelay
	consumer     workerapp.ProductConsumer
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

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	replicas, err := buildReplicaStore(cfg, repo, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	module := offeringservice.NewModule(offeringservice.Dependencies{
		Offerings:                repo,
		Replicas:                 replicas,
		Clock:                    postgresadapter.SystemClock{},
		IDGenerator:              postgresadapter.UUIDGenerator{},
		OfferingTopic:            cfg.OfferingTopic,
		AllowProductReassignment: cfg.AllowProductReassignment,
		Logger:                   logger,
	})

	server := httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort))
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

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	replicas, err := buildReplicaStore(cfg, repo, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	module := offeringservice.NewModule(offeringservice.Dependencies{
		Offerings:                repo,
		Replicas:                 replicas,
		Clock:                    postgresadapter.SystemClock{},
		IDGenerator:              postgresadapter.UUIDGenerator{},
		OfferingTopic:            cfg.OfferingTopic,
		AllowProductReassignment: cfg.AllowProductReassignment,
		Logger:                   logger,
	})

	return &WorkerApp{
		postgres: pg,
		kafka:    kafka,
		outboxRelay: workerapp.OutboxRelay{
			Outbox:    repo,
			Publisher: kafka,
			Clock:     postgresadapter.SystemClock{},
			Source:    cfg.ServiceName,
			BatchSize: cfg.OutboxBatchSize,
			Logger:    logger,
		},
		consumer: workerapp.ProductConsumer{
			Subscriber:    kafka,
			Apply:         module.ApplyProductEvent,
			Topic:         cfg.ProductTopic,
			ConsumerGroup: cfg.ProductConsumerGroup,
			Logger:        logger,
		},
		pollInterval: cfg.OutboxPollInterval,
		logger:       logger,
	}, nil
}

// buildReplicaStore picks where product replicas live. Redis when an address
// is configured, otherwise the postgres repository doubles as the replica
// store. API and worker must agree on this choice.
func buildReplicaStore(cfg config.Config, repo *postgresadapter.Repository, logger *slog.Logger) (ports.ProductReplicaRepository, error) {
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return repo, nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return redisadapter.NewReplicaStore(client, logger), nil
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
	if err := w.consumer.Start(ctx); err != nil {
		return err
	}

	interval := w.pollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", interval.String(),
	)

	for {
		if err := w.outboxRelay.RunOnce(ctx); err != nil {
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
	var errs []error
	if w.kafka != nil {
		errs = append(errs, w.kafka.Close())
	}
	if w.postgres != nil {
		errs = append(errs, w.postgres.Close())
	}
	return errors.Join(errs...)
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
