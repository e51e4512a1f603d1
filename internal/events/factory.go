package events

import (
	"fmt"

	"guard-matching/internal/common/config"
)

// New builds the publisher selected by cfg.Driver.
func New(cfg config.EventsConfig) (Publisher, error) {
	switch cfg.Driver {
	case "", "none":
		return NoopPublisher{}, nil
	case "kafka":
		return NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic), nil
	case "rabbitmq":
		p, err := DialRabbitMQ(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.Confirms,
			config.GetDuration(cfg.RabbitMQ.ConfirmTTL))
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
}
