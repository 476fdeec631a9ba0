package kafka

import (
	"errors"
	"strings"
)

// ErrNoBrokers is returned when no broker address is configured
var ErrNoBrokers = errors.New("no kafka brokers configured")

// Config holds Kafka producer configuration
type Config struct {
	Brokers            string
	NotificationsTopic string
	EnableIdempotence  bool
	Acks               string
}

// NewConfig builds a producer config for the given comma-separated broker list
func NewConfig(brokers, notificationsTopic string) (*Config, error) {
	if strings.TrimSpace(brokers) == "" {
		return nil, ErrNoBrokers
	}
	if notificationsTopic == "" {
		notificationsTopic = "blog-notifications"
	}

	return &Config{
		Brokers:            brokers,
		NotificationsTopic: notificationsTopic,
		EnableIdempotence:  true,
		Acks:               "all",
	}, nil
}

// BrokersList returns brokers as a slice
func (c *Config) BrokersList() []string {
	parts := strings.Split(c.Brokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
