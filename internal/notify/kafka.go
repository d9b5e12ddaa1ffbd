package notify

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// kafkaNotifier publishes events to a Kafka topic through a buffered inbox
// drained by a single goroutine, so Publish never blocks the request path.
type kafkaNotifier struct {
	writer *kafka.Writer
	inbox  chan Event
	done   chan struct{}
	logger zerolog.Logger
}

// NewKafkaNotifier creates a notifier writing to the given brokers/topic and
// starts its delivery goroutine. Events for the same order hash to the same
// partition via the order id key.
func NewKafkaNotifier(brokers []string, topic string, logger zerolog.Logger) Notifier {
	n := &kafkaNotifier{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
		inbox:  make(chan Event, 256),
		done:   make(chan struct{}),
		logger: logger.With().Str("component", "kafka-notifier").Logger(),
	}

	go n.run()

	return n
}

func (n *kafkaNotifier) run() {
	defer close(n.done)

	for event := range n.inbox {
		value, err := json.Marshal(event)
		if err != nil {
			n.logger.Error().Err(err).Str("event_type", event.EventType).Msg("failed to marshal event")
			continue
		}

		msg := kafka.Message{
			Key:   []byte(event.OrderID.String()),
			Value: value,
			Time:  event.OccurredAt,
		}

		if err := n.writer.WriteMessages(context.Background(), msg); err != nil {
			// Fire-and-forget: the transition already committed, so the
			// event is dropped with a log line rather than retried forever.
			n.logger.Error().
				Err(err).
				Str("event_type", event.EventType).
				Str("order_id", event.OrderID.String()).
				Msg("failed to publish event")
		}
	}

	if err := n.writer.Close(); err != nil {
		n.logger.Error().Err(err).Msg("failed to close kafka writer")
	}
}

// Publish enqueues an event. When the inbox is full the event is dropped
// rather than blocking the request path.
func (n *kafkaNotifier) Publish(event Event) {
	select {
	case n.inbox <- event:
	default:
		n.logger.Warn().
			Str("event_type", event.EventType).
			Str("order_id", event.OrderID.String()).
			Msg("notifier inbox full, dropping event")
	}
}

// Close stops the delivery goroutine after flushing queued events.
func (n *kafkaNotifier) Close() error {
	close(n.inbox)
	<-n.done
	return nil
}
