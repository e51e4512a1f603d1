package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitPublisher publishes to a topic exchange with the event type as
// routing key. With confirms enabled each publish waits for the broker ack.
type RabbitPublisher struct {
	conn     *amqp.Connection
	ch       amqpChannel
	exchange string
	confirms chan amqp.Confirmation
	timeout  time.Duration

	mu sync.Mutex
}

func DialRabbitMQ(url, exchange string, confirms bool, timeout time.Duration) (*RabbitPublisher, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Dial:      amqp.DefaultDial(30 * time.Second),
	})
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq declare exchange %s: %w", exchange, err)
	}

	var confirmCh chan amqp.Confirmation
	if confirms {
		if err := ch.Confirm(false); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("rabbitmq enable confirms: %w", err)
		}
		confirmCh = ch.NotifyPublish(make(chan amqp.Confirmation, 1))
	}

	p := newRabbitPublisher(ch, exchange, confirmCh, timeout)
	p.conn = conn
	return p, nil
}

func newRabbitPublisher(ch amqpChannel, exchange string, confirms chan amqp.Confirmation, timeout time.Duration) *RabbitPublisher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &RabbitPublisher{ch: ch, exchange: exchange, confirms: confirms, timeout: timeout}
}

func (p *RabbitPublisher) Publish(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", e.ID, err)
	}

	// confirms arrive in publish order, one publish in flight at a time
	p.mu.Lock()
	defer p.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.ch.PublishWithContext(ctx, p.exchange, e.Type, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    e.ID,
		Timestamp:    e.OccurredAt,
		Type:         e.Type,
		Body:         body,
	}); err != nil {
		return fmt.Errorf("rabbitmq publish %s: %w", e.Type, err)
	}

	if p.confirms == nil {
		return nil
	}
	select {
	case c, ok := <-p.confirms:
		if !ok {
			return errors.New("rabbitmq: confirm stream closed")
		}
		if !c.Ack {
			return fmt.Errorf("rabbitmq: publish %s not acknowledged", e.ID)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("rabbitmq: waiting for confirm of %s: %w", e.ID, ctx.Err())
	}
}

func (p *RabbitPublisher) Close() error {
	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
