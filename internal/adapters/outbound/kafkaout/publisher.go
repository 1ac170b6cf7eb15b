package kafkaout

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/kelvrith2-lang/safiri-sales/internal/core/domain"
	"github.com/kelvrith2-lang/safiri-sales/internal/metrics"
)

// SalePublisher pushes completed sales onto the store's event topic. It is
// strictly best-effort: Publish never blocks the checkout path, and a full
// buffer or broker outage drops the event with a log line and a counter.
type SalePublisher struct {
	writer  *kafka.Writer
	queue   chan domain.Sale
	metrics *metrics.Metrics
	log     *zap.Logger

	closeOnce sync.Once
	done      chan struct{}
}

func NewSalePublisher(brokers []string, topic string, m *metrics.Metrics, log *zap.Logger) *SalePublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 5 * time.Second,
	}

	p := &SalePublisher{
		writer:  w,
		queue:   make(chan domain.Sale, 256),
		metrics: m,
		log:     log,
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

// Publish enqueues without blocking. The context only covers the enqueue;
// delivery happens on the publisher's own goroutine with its own deadline.
func (p *SalePublisher) Publish(_ context.Context, sale domain.Sale) {
	select {
	case p.queue <- sale:
	default:
		p.metrics.RecordSaleEvent("dropped")
		p.log.Warn("sale event queue full, dropping",
			zap.String("receipt", sale.ReceiptNumber))
	}
}

func (p *SalePublisher) run() {
	for sale := range p.queue {
		p.send(sale)
	}
	close(p.done)
}

func (p *SalePublisher) send(sale domain.Sale) {
	value, err := json.Marshal(sale)
	if err != nil {
		p.metrics.RecordSaleEvent("dropped")
		p.log.Error("encode sale event", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(sale.ReceiptNumber),
		Value: value,
	})
	if err != nil {
		p.metrics.RecordSaleEvent("failed")
		p.log.Warn("publish sale event failed",
			zap.String("receipt", sale.ReceiptNumber),
			zap.Error(err))
		return
	}
	p.metrics.RecordSaleEvent("published")
}

// Close drains whatever is still queued, then closes the writer.
func (p *SalePublisher) Close() error {
	var err error
	p.closeOnce.Do(func() {
		close(p.queue)
		select {
		case <-p.done:
		case <-time.After(10 * time.Second):
		}
		err = p.writer.Close()
	})
	return err
}
