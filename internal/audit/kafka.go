package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"go.uber.org/zap"
)

// KafkaSink publishes audit events to a Kafka topic for downstream retention
// and regulatory reporting.
type KafkaSink struct {
	producer *kafka.Producer
	topic    string
	logger   *zap.Logger
}

// NewKafkaSink connects a producer to the given brokers.
func NewKafkaSink(brokers, topic string, logger *zap.Logger) (*KafkaSink, error) {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"acks":              "all",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	sink := &KafkaSink{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
	go sink.drainDeliveryReports()
	return sink, nil
}

// Emit publishes the event keyed by claim ID so per-claim ordering is
// preserved across partitions.
func (s *KafkaSink) Emit(_ context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}
	return s.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &s.topic, Partition: kafka.PartitionAny},
		Key:            []byte(event.ClaimID),
		Value:          payload,
	}, nil)
}

// Close flushes pending messages and shuts down the producer.
func (s *KafkaSink) Close() error {
	remaining := s.producer.Flush(5000)
	if remaining > 0 {
		s.logger.Warn("audit events unflushed at shutdown", zap.Int("remaining", remaining))
	}
	s.producer.Close()
	return nil
}

func (s *KafkaSink) drainDeliveryReports() {
	for e := range s.producer.Events() {
		if m, ok := e.(*kafka.Message); ok && m.TopicPartition.Error != nil {
			s.logger.Error("audit event delivery failed",
				zap.String("topic", s.topic),
				zap.Error(m.TopicPartition.Error),
			)
		}
	}
}
