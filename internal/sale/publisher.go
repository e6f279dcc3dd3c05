package sale

import (
	"context"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// eventWriter is the slice of kafka.Writer the publisher needs; tests
// substitute a recorder.
type eventWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Publisher drains the sale outbox into kafka. Events stay unprocessed
// until the broker accepted them, so a crash between write and mark
// means at-least-once delivery, which the debouncing consumers absorb.
type Publisher struct {
	tick    time.Duration
	batch   int
	repo    Repository
	writers map[string]eventWriter
	closers []*kafka.Writer
}

func NewPublisher(repo Repository, brokers ...string) *Publisher {
	newWriter := func(topic string) *kafka.Writer {
		return &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		}
	}

	sales := newWriter("pos-sales")
	inventory := newWriter("pos-inventory")
	return &Publisher{
		tick:  time.Second,
		batch: 100,
		repo:  repo,
		writers: map[string]eventWriter{
			"sale_created":       sales,
			"inventory_movement": inventory,
		},
		closers: []*kafka.Writer{sales, inventory},
	}
}

func (p *Publisher) Run(ctx context.Context) {
	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.processUnpublishedEvents(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *Publisher) processUnpublishedEvents(ctx context.Context) {
	events, err := p.repo.GetUnprocessedEvents(ctx, p.batch)
	if err != nil {
		log.Printf("failed to fetch outbox events: %v", err)
		return
	}

	for _, event := range events {
		writer, ok := p.writers[event.EventType]
		if !ok {
			log.Printf("outbox event %d has unknown type %q, skipping", event.ID, event.EventType)
			continue
		}

		msg := kafka.Message{
			Key:   []byte(event.AggregateID), // sale id for per-sale ordering
			Value: event.Payload,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(event.EventType)},
			},
		}
		if err := writer.WriteMessages(ctx, msg); err != nil {
			log.Printf("failed to publish event id=%d: %v", event.ID, err)
			continue
		}

		if err := p.repo.MarkEventProcessed(ctx, event.ID); err != nil {
			log.Printf("failed to mark event id=%d as processed: %v", event.ID, err)
		}
	}
}

func (p *Publisher) Close() {
	for _, w := range p.closers {
		if err := w.Close(); err != nil {
			log.Printf("error closing kafka writer: %v", err)
		}
	}
}
