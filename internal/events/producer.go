// Package events publishes order events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/nicoshop/internal/domain"
	"github.com/segmentio/kafka-go"
)

const (
	eventVersion = 1
	writeTimeout = 10 * time.Second

	// upper bound on how long Publish waits for room in a full inbox
	enqueueTimeout = 100 * time.Millisecond
)

var ErrProducerClosed = errors.New("producer closed")

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer buffers messages in an inbox drained by one goroutine.
// Close flushes the inbox, WaitClosed blocks until the writer is closed.
type Producer struct {
	w       messageWriter
	service string
	now     func() time.Time
	enqueue time.Duration

	mu     sync.RWMutex
	closed bool
	inbox  chan kafka.Message
	done   chan struct{}
}

func NewProducer(brokers []string, topic string, buf int, service string) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, errors.New("brokers are empty")
	}
	if topic == "" {
		return nil, errors.New("topic is empty")
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				slog.Error("kafka write failed", "method", "Producer.Completion", "messages", len(messages), "error", err)
			}
		},
	}

	return newProducer(w, buf, service), nil
}

func newProducer(w messageWriter, buf int, service string) *Producer {
	if buf <= 0 {
		buf = 1
	}

	return &Producer{
		w:       w,
		service: service,
		now:     time.Now,
		enqueue: enqueueTimeout,
		inbox:   make(chan kafka.Message, buf),
		done:    make(chan struct{}),
	}
}

func (p *Producer) Start() {
	go func() {
		defer close(p.done)

		for m := range p.inbox {
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			if err := p.w.WriteMessages(ctx, m); err != nil {
				slog.Error("kafka write failed", "method", "Producer.Start", "key", string(m.Key), "error", err)
			}
			cancel()
		}

		if err := p.w.Close(); err != nil {
			slog.Warn("kafka writer close", "method", "Producer.Start", "error", err)
		}
	}()
}

// Publish enqueues a message. While the inbox is full it waits at most the
// enqueue timeout, or less when ctx is done first.
func (p *Producer) Publish(ctx context.Context, key, value []byte, headers ...kafka.Header) error {
	ctx, cancel := context.WithTimeout(ctx, p.enqueue)
	defer cancel()

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrProducerClosed
	}

	m := kafka.Message{
		Key:     key,
		Value:   value,
		Time:    p.now(),
		Headers: headers,
	}

	select {
	case p.inbox <- m:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Producer) PublishOrderPlaced(ctx context.Context, order domain.Order) error {
	payload, err := json.Marshal(orderPlacedPayload(order))
	if err != nil {
		return fmt.Errorf("json.Marshal payload: %w", err)
	}

	value, err := json.Marshal(Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderPlaced,
		EventVersion:  eventVersion,
		OccurredAt:    p.now().UTC(),
		Producer:      p.service,
		CorrelationID: order.ID,
		Payload:       payload,
	})
	if err != nil {
		return fmt.Errorf("json.Marshal envelope: %w", err)
	}

	err = p.Publish(ctx, PartitionKey(order.ID), value,
		kafka.Header{Key: "x-event-type", Value: []byte(EventOrderPlaced)},
		kafka.Header{Key: "x-event-version", Value: []byte(strconv.Itoa(eventVersion))},
	)
	if err != nil {
		return fmt.Errorf("p.Publish: %w", err)
	}

	return nil
}

// Close stops accepting messages and lets the goroutine flush the rest. Safe to call twice.
func (p *Producer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	close(p.inbox)
}

func (p *Producer) WaitClosed() { <-p.done }
