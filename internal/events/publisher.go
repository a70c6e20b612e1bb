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

// Publisher pushes order events onto a durable queue through a small
// channel pool, so concurrent checkouts don't serialize on one channel.
type Publisher struct {
	conn     *amqp.Connection
	channels chan *amqp.Channel
	queue    string
	mu       sync.Mutex
	closed   bool
}

// NewPublisher dials the broker, declares the queue, and pre-creates the
// channel pool.
func NewPublisher(url, queue string, poolSize int) (*Publisher, error) {
	if poolSize <= 0 {
		poolSize = 4
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}

	p := &Publisher{
		conn:     conn,
		channels: make(chan *amqp.Channel, poolSize),
		queue:    queue,
	}
	for i := 0; i < poolSize; i++ {
		ch, err := p.newChannel()
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("create channel %d: %w", i, err)
		}
		p.channels <- ch
	}
	return p, nil
}

func (p *Publisher) newChannel() (*amqp.Channel, error) {
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, err
	}
	// Queue declare is idempotent.
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	return ch, nil
}

// Publish sends one event with persistent delivery.
func (p *Publisher) Publish(ctx context.Context, event OrderEvent) error {
	ch, err := p.getChannel()
	if err != nil {
		return err
	}
	defer p.returnChannel(ch)

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return ch.PublishWithContext(pubCtx, "", p.queue, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Body:         body,
	})
}

func (p *Publisher) getChannel() (*amqp.Channel, error) {
	select {
	case ch, ok := <-p.channels:
		// A nil receive means Close already drained the pool.
		if !ok || ch == nil {
			return nil, errors.New("publisher closed")
		}
		if ch.IsClosed() {
			return p.newChannel()
		}
		return ch, nil
	default:
		return nil, errors.New("no channels available")
	}
}

func (p *Publisher) returnChannel(ch *amqp.Channel) {
	if ch == nil || ch.IsClosed() {
		return
	}
	select {
	case p.channels <- ch:
	default:
		ch.Close()
	}
}

// Close tears down all channels and the connection.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true

	close(p.channels)
	for ch := range p.channels {
		ch.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
