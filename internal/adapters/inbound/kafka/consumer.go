package kafkain

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/kelvrith2-lang/safiri-sales/internal/metrics"
	"github.com/kelvrith2-lang/safiri-sales/internal/ports/inbound"
)

// Consumer tails the head-office catalog topic and applies each update to
// the local store.
type Consumer struct {
	reader  *kafka.Reader
	catalog inbound.CatalogUseCase
	metrics *metrics.Metrics
	log     *zap.Logger
}

type ConsumerConfig struct {
	Brokers  []string
	Topic    string
	GroupID  string
	MinBytes int
	MaxBytes int
}

func NewConsumer(cfg ConsumerConfig, catalog inbound.CatalogUseCase, m *metrics.Metrics, log *zap.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: cfg.MinBytes,
		MaxBytes: cfg.MaxBytes,
	})
	return &Consumer{reader: r, catalog: catalog, metrics: m, log: log}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			// Normal shutdown path
			if errors.Is(err, context.Canceled) {
				return
			}
			c.log.Warn("catalog fetch failed", zap.Error(err))
			time.Sleep(500 * time.Millisecond)
			continue
		}

		update, derr := DecodeCatalogUpdate(msg.Value)
		if derr != nil {
			// Poison pill: commit it so the group does not chew on it forever.
			c.log.Warn("bad catalog message, skipping",
				zap.String("key", string(msg.Key)),
				zap.Error(derr))
			c.metrics.RecordCatalogUpdate("invalid")
			_ = c.reader.CommitMessages(ctx, msg)
			continue
		}

		if err := c.catalog.ApplyCatalogUpdate(ctx, update); err != nil {
			// No commit: the broker redelivers and the upsert retries.
			c.log.Error("catalog update failed",
				zap.String("barcode", update.Barcode),
				zap.Error(err))
			c.metrics.RecordCatalogUpdate("failed")
			time.Sleep(1 * time.Second)
			continue
		}
		c.metrics.RecordCatalogUpdate("applied")

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			// Failed commit means redelivery; stock deltas may apply twice.
			c.log.Warn("catalog commit failed", zap.Error(err))
		}
	}
}
