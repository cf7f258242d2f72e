package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/incident-ingest-service/internal/domain"
	"github.com/couchcryptid/incident-ingest-service/internal/pushid"
)

// Store publishes each incident as one message keyed by its push key.
// It implements pipeline.Store.
type Store struct {
	*pushid.Generator

	writer messageWriter
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// NewStore creates a Kafka producer for topic.
func NewStore(brokers []string, topic string, keys *pushid.Generator) *Store {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Store{Generator: keys, writer: w}
}

// Put publishes a single incident. Messages sharing a key land on the same
// partition, which keeps a key's history ordered for consumers.
func (s *Store) Put(ctx context.Context, key string, incident domain.Incident) error {
	msg, err := serializeToMessage(key, incident)
	if err != nil {
		return err
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish incident %s: %w", key, err)
	}
	return nil
}

// Close flushes and closes the producer.
func (s *Store) Close() error {
	return s.writer.Close()
}

// serializeToMessage marshals an Incident into a Kafka message.
func serializeToMessage(key string, incident domain.Incident) (kafkago.Message, error) {
	data, err := json.Marshal(incident)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize incident: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "content_type", Value: []byte("application/json")},
			{Key: "county", Value: []byte(incident.County)},
		},
	}, nil
}
