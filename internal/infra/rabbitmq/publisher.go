package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

const (
	RoutingOrderPlaced    = "order.placed"
	RoutingUserRegistered = "user.registered"
)

type Publisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// Envelope is the message body put on the exchange.
type Envelope struct {
	Pattern    string    `json:"pattern"`
	Data       any       `json:"data"`
	ID         string    `json:"id"`
	OccurredAt time.Time `json:"occurredAt"`
}

func NewPublisher(amqpURL, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &Publisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
	}, nil
}

func NewEnvelope(pattern string, data any) Envelope {
	return Envelope{
		Pattern:    pattern,
		Data:       data,
		ID:         uuid.NewString(),
		OccurredAt: time.Now().UTC(),
	}
}

// Publish sends data under routingKey. amqp channels are not safe for
// concurrent use, so publishes are serialised.
func (p *Publisher) Publish(ctx context.Context, routingKey string, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(NewEnvelope(routingKey, data))
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.Publish(
		p.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

func (p *Publisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
