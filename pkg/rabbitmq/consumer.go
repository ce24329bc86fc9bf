package rabbitmq

import (
	"context"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	QueueName         = "ott-backend.payments"
	PaymentSettledKey = "payment.settled"
)

// Subscription names a durable queue and the routing keys bound to it on
// the tee-time exchange.
type Subscription struct {
	Queue    string
	Keys     []string
	Prefetch int
}

// PaymentSubscription receives settled charges from the gateway relay.
func PaymentSubscription() Subscription {
	return Subscription{Queue: QueueName, Keys: []string{PaymentSettledKey}, Prefetch: 10}
}

func (s Subscription) validate() error {
	if s.Queue == "" {
		return errors.New("subscription queue is required")
	}
	if len(s.Keys) == 0 {
		return fmt.Errorf("subscription %s has no routing keys", s.Queue)
	}
	if s.Prefetch < 0 {
		return fmt.Errorf("subscription %s: negative prefetch", s.Queue)
	}
	return nil
}

type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	sub     Subscription
	logger  *zap.Logger
}

func NewConsumer(url string, sub Subscription, logger *zap.Logger) (*Consumer, error) {
	if err := sub.validate(); err != nil {
		return nil, err
	}

	conn, ch, err := dialExchange(url)
	if err != nil {
		return nil, err
	}

	if sub.Prefetch > 0 {
		if err := ch.Qos(sub.Prefetch, 0, false); err != nil {
			closeAll(conn, ch)
			return nil, fmt.Errorf("rabbitmq qos: %w", err)
		}
	}

	q, err := ch.QueueDeclare(sub.Queue, true, false, false, false, nil)
	if err != nil {
		closeAll(conn, ch)
		return nil, fmt.Errorf("rabbitmq queue declare: %w", err)
	}
	for _, key := range sub.Keys {
		if err := ch.QueueBind(q.Name, key, ExchangeName, false, nil); err != nil {
			closeAll(conn, ch)
			return nil, fmt.Errorf("rabbitmq bind %s: %w", key, err)
		}
	}

	return &Consumer{conn: conn, channel: ch, sub: sub, logger: logger}, nil
}

// Consume starts delivery with manual acks. The channel closes when ctx is
// cancelled or the connection drops.
func (c *Consumer) Consume(ctx context.Context) (<-chan amqp.Delivery, error) {
	msgs, err := c.channel.ConsumeWithContext(ctx, c.sub.Queue, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq consume %s: %w", c.sub.Queue, err)
	}

	c.logger.Info("consuming from queue",
		zap.String("queue", c.sub.Queue),
		zap.Strings("keys", c.sub.Keys),
	)
	return msgs, nil
}

func (c *Consumer) Close() {
	closeAll(c.conn, c.channel)
}
