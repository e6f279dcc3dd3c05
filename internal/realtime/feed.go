package realtime

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TopicSales     = "pos-sales"
	TopicInventory = "pos-inventory"
)

// KafkaFeed is the push channel implementation: one consumer per topic,
// reporting connection health and forwarding events into the bridge.
type KafkaFeed struct {
	readers        map[string]*kafka.Reader
	reconnectDelay time.Duration
	closeOnce      sync.Once
	wg             sync.WaitGroup
}

func NewKafkaFeed(brokers []string, groupID string) *KafkaFeed {
	readers := make(map[string]*kafka.Reader, 2)
	for _, topic := range []string{TopicSales, TopicInventory} {
		readers[topic] = kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MaxBytes: 10e6, // 10MB
		})
	}
	return &KafkaFeed{
		readers:        readers,
		reconnectDelay: 5 * time.Second,
	}
}

// Run consumes until the context is cancelled, flipping the bridge to
// disconnected on read errors and back on the next successful read.
func (f *KafkaFeed) Run(ctx context.Context, bridge *Bridge) {
	for topic, reader := range f.readers {
		f.wg.Add(1)
		go func(topic string, reader *kafka.Reader) {
			defer f.wg.Done()
			f.consume(ctx, bridge, topic, reader)
		}(topic, reader)
	}
	f.wg.Wait()
}

func (f *KafkaFeed) consume(ctx context.Context, bridge *Bridge, topic string, reader *kafka.Reader) {
	for {
		m, err := reader.ReadMessage(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			log.Printf("feed read error on %s: %v", topic, err)
			bridge.SetConnected(false)
			select {
			case <-time.After(f.reconnectDelay):
			case <-ctx.Done():
				return
			}
			continue
		}

		bridge.SetConnected(true)
		bridge.Notify(Event{Type: eventTypeFor(topic), Key: string(m.Key)})
	}
}

func eventTypeFor(topic string) EventType {
	if topic == TopicInventory {
		return EventInventoryMovement
	}
	return EventSaleCreated
}

// Close shuts the consumers down. Safe to call more than once and
// before Run ever managed to connect.
func (f *KafkaFeed) Close() {
	f.closeOnce.Do(func() {
		for topic, reader := range f.readers {
			if err := reader.Close(); err != nil {
				log.Printf("error closing %s reader: %v", topic, err)
			}
		}
	})
}
