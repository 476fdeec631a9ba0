package notify

import (
	"context"
	"fmt"
)

// Publisher is the subset of the Kafka producer used for notifications
type Publisher interface {
	Publish(topic, key string, event any) error
}

// KafkaNotifier publishes notifications as JSON events, keyed by action so notices
// of one operation keep their order within a partition.
type KafkaNotifier struct {
	publisher Publisher
	topic     string
}

// NewKafkaNotifier creates a notifier publishing to topic
func NewKafkaNotifier(publisher Publisher, topic string) *KafkaNotifier {
	return &KafkaNotifier{publisher: publisher, topic: topic}
}

func (k *KafkaNotifier) Notify(ctx context.Context, n Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := k.publisher.Publish(k.topic, n.Action, n); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}
