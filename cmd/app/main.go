package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	httpin "github.com/kelvrith2-lang/safiri-sales/internal/adapters/inbound/http"
	kafkain "github.com/kelvrith2-lang/safiri-sales/internal/adapters/inbound/kafka"
	"github.com/kelvrith2-lang/safiri-sales/internal/adapters/outbound/cache"
	"github.com/kelvrith2-lang/safiri-sales/internal/adapters/outbound/carts"
	"github.com/kelvrith2-lang/safiri-sales/internal/adapters/outbound/kafkaout"
	"github.com/kelvrith2-lang/safiri-sales/internal/adapters/outbound/postgres"
	"github.com/kelvrith2-lang/safiri-sales/internal/adapters/outbound/sessions"
	"github.com/kelvrith2-lang/safiri-sales/internal/app/config"
	"github.com/kelvrith2-lang/safiri-sales/internal/app/logging"
	"github.com/kelvrith2-lang/safiri-sales/internal/app/runtime"
	"github.com/kelvrith2-lang/safiri-sales/internal/core/service"
	"github.com/kelvrith2-lang/safiri-sales/internal/metrics"
	"github.com/kelvrith2-lang/safiri-sales/internal/migrations"
	"github.com/kelvrith2-lang/safiri-sales/internal/ports/outbound"
)

func main() {
	ctx, stop := runtime.NotifyContext(context.Background())
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.MustNew(cfg.StoreName, cfg.Env)
	defer func() { _ = logger.Sync() }()

	db, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("db init", zap.Error(err))
	}
	defer db.Close()

	migCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := postgres.RunMigrations(migCtx, db.Pool, migrations.FS()); err != nil {
		logger.Fatal("migrations", zap.Error(err))
	}

	products := postgres.NewProductRepository(db.Pool)
	sales := postgres.NewSaleRepository(db.Pool)
	cashiers := postgres.NewCashierRepository(db.Pool)

	memCache := cache.NewMemoryCache()
	sessionStore := sessions.NewMemoryStore()
	cartStore := carts.NewMemoryStore()
	m := metrics.New()

	var publisher outbound.SalePublisher = kafkaout.Nop{}
	if cfg.KafkaEnabled() {
		publisher = kafkaout.NewSalePublisher(cfg.KafkaBrokers, cfg.KafkaSalesTopic, m, logger)
	}
	defer func() { _ = publisher.Close() }()

	authSvc := service.NewAuthService(cashiers, sessionStore, cfg.SessionTTL, m, logger)
	catalogSvc := service.NewCatalogService(products, memCache, m, logger)
	checkoutSvc := service.NewCheckoutService(products, sales, memCache, cartStore, publisher, m, logger)
	reportSvc := service.NewReportService(sales, products)

	if n, err := catalogSvc.WarmCache(ctx, cfg.CacheWarmLimit); err != nil {
		logger.Warn("cache warmup", zap.Error(err))
	} else {
		logger.Info("cache warmed", zap.Int("products", n))
	}

	handlers := httpin.NewHandlers(authSvc, checkoutSvc, catalogSvc, reportSvc, memCache,
		func(ctx context.Context) error { return db.Pool.Ping(ctx) }, cfg.StoreName, logger)
	ui := httpin.NewUI(checkoutSvc, cfg.StoreName, logger)
	mux := httpin.NewMux(handlers, ui)

	httpSrv := runtime.NewHTTPServer(cfg.HTTPAddr, mux, logger)
	httpSrv.Start()

	if cfg.KafkaEnabled() {
		consumer := kafkain.NewConsumer(kafkain.ConsumerConfig{
			Brokers:  cfg.KafkaBrokers,
			Topic:    cfg.KafkaCatalogTopic,
			GroupID:  cfg.KafkaConsumerGroup,
			MinBytes: cfg.KafkaMinBytes,
			MaxBytes: cfg.KafkaMaxBytes,
		}, catalogSvc, m, logger)
		defer func() { _ = consumer.Close() }()
		go consumer.Run(ctx)
	} else {
		logger.Info("kafka disabled, catalog feed and sale events off")
	}

	go sweepSessions(ctx, sessionStore, m, cfg.SessionSweep, logger)

	<-ctx.Done()
	logger.Info("shutdown signal received")

	if err := httpSrv.Shutdown(context.Background(), cfg.ShutdownTimeout); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
	logger.Info("bye")
}

// sweepSessions drops expired sessions so the map does not grow for the
// lifetime of the process. Sessions also expire lazily on use; this is just
// the janitor.
func sweepSessions(ctx context.Context, store *sessions.MemoryStore, m *metrics.Metrics, every time.Duration, logger *zap.Logger) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := store.Sweep(ctx, now); n > 0 {
				logger.Debug("sessions swept", zap.Int("removed", n))
			}
			m.SetActiveSessions(store.Len(ctx))
		}
	}
}
