// Package kafka publishes JSON events to Kafka topics.
package kafka

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// Producer wraps a Kafka producer with JSON helpers
type Producer struct {
	producer *kafka.Producer
	config   *Config
	logger   *slog.Logger
}

// NewProducer creates a new idempotent Kafka producer
func NewProducer(config *Config, logger *slog.Logger) (*Producer, error) {
	producerConfig := &kafka.ConfigMap{
		"bootstrap.servers":                     strings.Join(config.BrokersList(), ","),
		"enable.idempotence":                    config.EnableIdempotence,
		"acks":                                  config.Acks,
		"max.in.flight.requests.per.connection": 5,
	}

	p, err := kafka.NewProducer(producerConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}

	producer := &Producer{
		producer: p,
		config:   config,
		logger:   logger,
	}

	go producer.handleDeliveryReports()

	logger.Info("Kafka producer initialized",
		"brokers", config.Brokers,
		"topic", config.NotificationsTopic)

	return producer, nil
}

// Topic returns the configured notifications topic
func (p *Producer) Topic() string {
	return p.config.NotificationsTopic
}

// Publish serializes event as JSON and produces it asynchronously.
// Delivery failures are reported through the logger.
func (p *Producer) Publish(topic, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &topic,
			Partition: kafka.PartitionAny,
		},
		Value: data,
	}
	if key != "" {
		msg.Key = []byte(key)
	}

	if err := p.producer.Produce(msg, nil); err != nil {
		return fmt.Errorf("failed to produce message: %w", err)
	}

	p.logger.Debug("Event published to Kafka",
		"topic", topic,
		"size", len(data))

	return nil
}

func (p *Producer) handleDeliveryReports() {
	for e := range p.producer.Events() {
		switch ev := e.(type) {
		case *kafka.Message:
			if ev.TopicPartition.Error != nil {
				p.logger.Error("Delivery failed",
					"topic", *ev.TopicPartition.Topic,
					"error", ev.TopicPartition.Error)
			} else {
				p.logger.Debug("Message delivered",
					"topic", *ev.TopicPartition.Topic,
					"partition", ev.TopicPartition.Partition,
					"offset", ev.TopicPartition.Offset)
			}
		}
	}
}

// Flush waits for outstanding messages and returns how many were not delivered
func (p *Producer) Flush(timeoutMs int) int {
	remaining := p.producer.Flush(timeoutMs)
	if remaining > 0 {
		p.logger.Warn("Failed to flush all messages",
			"remaining", remaining)
	}
	return remaining
}

// Close flushes pending messages and closes the producer
func (p *Producer) Close() {
	if remaining := p.Flush(5000); remaining > 0 {
		p.logger.Error("Some messages were not delivered",
			"count", remaining)
	}

	p.producer.Close()
	p.logger.Debug("Kafka producer closed")
}
