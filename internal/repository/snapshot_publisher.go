package repository

import (
	"context"
	"fmt"

	"Mercado/internal/domain/models"
	"Mercado/pkg/kafka"
)

// KafkaSnapshotPublisher fans applied chart snapshots out to a Kafka
// topic, keyed by asset so per-asset ordering survives partitioning.
type KafkaSnapshotPublisher struct {
	producer *kafka.Producer
	topic    string
}

// NewKafkaSnapshotPublisher creates a snapshot publisher on top of an
// existing producer.
func NewKafkaSnapshotPublisher(producer *kafka.Producer, topic string) *KafkaSnapshotPublisher {
	return &KafkaSnapshotPublisher{
		producer: producer,
		topic:    topic,
	}
}

// Publish sends one snapshot to the configured topic.
func (p *KafkaSnapshotPublisher) Publish(ctx context.Context, snap models.ChartSnapshot) error {
	key := snap.Asset
	if key == "" {
		key = snap.Name
	}
	if err := p.producer.Publish(ctx, p.topic, []byte(key), snap); err != nil {
		return fmt.Errorf("publish snapshot: %w", err)
	}
	return nil
}

// Close closes the underlying producer.
func (p *KafkaSnapshotPublisher) Close() error {
	return p.producer.Close()
}
