package publish

import (
	"context"
	"fmt"

	"github.com/sudz7/n50-swing-algo/internal/domain/models"
	"github.com/sudz7/n50-swing-algo/pkg/kafka"
	"github.com/sudz7/n50-swing-algo/pkg/logger"
)

// KafkaSink publishes each market snapshot to a Kafka topic, keyed by the
// snapshot timestamp so downstream consumers can dedupe replays.
type KafkaSink struct {
	producer *kafka.Producer
	topic    string
	log      *logger.Logger
}

// NewKafkaSink creates a snapshot sink backed by the given producer.
func NewKafkaSink(producer *kafka.Producer, topic string, log *logger.Logger) *KafkaSink {
	return &KafkaSink{
		producer: producer,
		topic:    topic,
		log:      log,
	}
}

// PublishSnapshot sends the snapshot as one JSON message.
func (s *KafkaSink) PublishSnapshot(ctx context.Context, snap *models.MarketSnapshot) error {
	key := []byte(snap.FetchedAt.UTC().Format("2006-01-02T15:04:05Z"))
	if err := s.producer.Publish(ctx, s.topic, key, snap); err != nil {
		s.log.Error("kafka snapshot publish failed",
			logger.String("topic", s.topic),
			logger.Error(err),
		)
		return fmt.Errorf("publish snapshot: %w", err)
	}

	s.log.Debug("snapshot published",
		logger.String("topic", s.topic),
		logger.Int("stocks", len(snap.Stocks)),
	)
	return nil
}

// Close releases the underlying producer.
func (s *KafkaSink) Close() error {
	return s.producer.Close()
}
