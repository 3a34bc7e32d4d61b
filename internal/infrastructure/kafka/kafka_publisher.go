package publisher

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/donan22/shortlink-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

// MonetizationEventMessage is the wire form of a tracked event on the
// monetization stream. Downstream consumers (reporting, fraud review)
// read it from Kafka instead of polling the database.
type MonetizationEventMessage struct {
	EventID          string  `json:"event_id"`
	LinkID           int64   `json:"link_id"`
	ShortCode        string  `json:"short_code"`
	EventType        string  `json:"event_type"`
	MonetizerService string  `json:"monetizer_service,omitempty"`
	UserIP           string  `json:"user_ip,omitempty"`
	RevenueEarned    float64 `json:"revenue_earned"`
	OccurredAt       int64   `json:"occurred_at"`
}

type DefaultKafkaPublisher struct {
	writer *kafka.Writer
}

var _ domain.PublisherPort = (*DefaultKafkaPublisher)(nil)

func NewDefaultKafkaPublisher(brokers []string) *DefaultKafkaPublisher {
	return &DefaultKafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (k *DefaultKafkaPublisher) Publish(topic string, msgs ...domain.Message) error {
	var km []kafka.Message
	for _, m := range msgs {
		km = append(km, kafka.Message{
			Key:   m.Key,
			Value: m.Value,
			Time:  time.Now(),
			Topic: topic,
		})
	}

	return k.writer.WriteMessages(context.Background(), km...)
}

func (k *DefaultKafkaPublisher) PublishMonetizationEvent(topic string, event MonetizationEventMessage) error {
	v, err := json.Marshal(event)
	if err != nil {
		return err
	}

	// Keyed by link id so all events of one link land in one partition.
	return k.Publish(topic, domain.Message{
		Key:   []byte(strconv.FormatInt(event.LinkID, 10)),
		Value: v,
	})
}
