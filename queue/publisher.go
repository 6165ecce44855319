package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrQueueUnavailable is returned while the broker connection is down.
// HTTP callers map it to 503.
var ErrQueueUnavailable = errors.New("message queue unavailable")

const reconnectInterval = 5 * time.Second

// Publisher writes question messages onto the durable queue. It keeps a
// single connection and channel, and ConnectLoop re-establishes them on a
// fixed backoff whenever the broker drops; Publish fails fast with
// ErrQueueUnavailable in between.
type Publisher struct {
	url   string
	queue string
	log   *slog.Logger

	mu     sync.Mutex
	conn   *amqp.Connection
	ch     *amqp.Channel
	closed chan *amqp.Error

	done chan struct{}
}

func NewPublisher(url, queue string, log *slog.Logger) *Publisher {
	return &Publisher{
		url:   url,
		queue: queue,
		log:   log,
		done:  make(chan struct{}),
	}
}

// Connect dials the broker and declares the durable queue.
func (p *Publisher) Connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial %s: %w", p.url, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return fmt.Errorf("declare queue %s: %w", p.queue, err)
	}

	p.mu.Lock()
	p.conn = conn
	p.ch = ch
	p.closed = conn.NotifyClose(make(chan *amqp.Error, 1))
	p.mu.Unlock()

	return nil
}

// ConnectLoop keeps the publisher connected until ctx is cancelled or Close
// is called. Run it in its own goroutine; the HTTP service must come up and
// answer 503s even while the broker is still booting.
func (p *Publisher) ConnectLoop(ctx context.Context) {
	for {
		if err := p.Connect(); err != nil {
			p.log.Error("queue connection failed, retrying", "queue", p.queue, "error", err)
			select {
			case <-ctx.Done():
				return
			case <-p.done:
				return
			case <-time.After(reconnectInterval):
				continue
			}
		}

		p.log.Info("connected to queue", "queue", p.queue)

		p.mu.Lock()
		closed := p.closed
		p.mu.Unlock()

		select {
		case <-ctx.Done():
			return
		case <-p.done:
			return
		case err := <-closed:
			p.dropChannel()
			if err != nil {
				p.log.Warn("queue connection lost", "queue", p.queue, "error", err)
			}
		}
	}
}

// Publish sends one message with the persistence flag set so it survives a
// broker restart. The broker's acknowledgment of the publish is the only
// durability guarantee handed back to the caller.
func (p *Publisher) Publish(ctx context.Context, msg QuestionMessage) error {
	p.mu.Lock()
	ch := p.ch
	p.mu.Unlock()

	if ch == nil {
		return ErrQueueUnavailable
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode question message: %w", err)
	}

	err = ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.SubmissionId,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("%w: publish: %v", ErrQueueUnavailable, err)
	}
	return nil
}

func (p *Publisher) dropChannel() {
	p.mu.Lock()
	p.conn = nil
	p.ch = nil
	p.mu.Unlock()
}

// Close stops the reconnect loop and closes the broker connection.
func (p *Publisher) Close() {
	close(p.done)
	p.mu.Lock()
	conn := p.conn
	p.conn = nil
	p.ch = nil
	p.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
}
