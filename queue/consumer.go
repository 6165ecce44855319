package queue

import (
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Consumer reads question messages off the durable queue with explicit
// acknowledgment. Unlike the publisher it has no reconnect loop: a worker
// whose only job is the queue exits on connection failure and lets process
// supervision restart it.
type Consumer struct {
	url   string
	queue string
	log   *slog.Logger

	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewConsumer(url, queue string, log *slog.Logger) *Consumer {
	return &Consumer{url: url, queue: queue, log: log}
}

// Connect dials the broker, declares the durable queue and caps prefetch at
// one so unacked messages are redelivered promptly after a worker dies.
func (c *Consumer) Connect() error {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.url, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return fmt.Errorf("declare queue %s: %w", c.queue, err)
	}

	if err := ch.Qos(1, 0, false); err != nil {
		_ = conn.Close()
		return fmt.Errorf("set qos: %w", err)
	}

	c.conn = conn
	c.ch = ch
	return nil
}

// Deliveries starts consumption with manual acks and returns the delivery
// channel. The channel closes when the connection drops.
func (c *Consumer) Deliveries() (<-chan amqp.Delivery, error) {
	deliveries, err := c.ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("consume %s: %w", c.queue, err)
	}
	c.log.Info("consuming from queue", "queue", c.queue)
	return deliveries, nil
}

// Close closes the broker connection.
func (c *Consumer) Close() {
	if c.conn != nil {
		_ = c.conn.Close()
	}
}
