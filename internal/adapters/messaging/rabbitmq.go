package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"

	"github.com/asistoya/shared-services/internal/config"
	"github.com/asistoya/shared-services/internal/core/ports"
)

// channel is the subset of *amqp.Channel the broker publishes through.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitMQBroker implements ports.PushPublisher and ports.MailPublisher
// using RabbitMQ. Push jobs and recovery emails go to separate durable queues.
type RabbitMQBroker struct {
	conn      io.Closer
	ch        channel
	pushQueue string
	mailQueue string
	cb        *gobreaker.CircuitBreaker
}

var (
	_ ports.PushPublisher = (*RabbitMQBroker)(nil)
	_ ports.MailPublisher = (*RabbitMQBroker)(nil)
)

func NewRabbitMQBroker(amqpURL, pushQueue, mailQueue string) (*RabbitMQBroker, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("messaging: dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("messaging: open channel: %w", err)
	}

	// Declare the queues (idempotent)
	for _, q := range []string{pushQueue, mailQueue} {
		_, err = ch.QueueDeclare(
			q,
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			nil,   // args
		)
		if err != nil {
			ch.Close()
			conn.Close()
			return nil, fmt.Errorf("messaging: declare %s: %w", q, err)
		}
	}

	return newBroker(conn, ch, pushQueue, mailQueue), nil
}

func newBroker(conn io.Closer, ch channel, pushQueue, mailQueue string) *RabbitMQBroker {
	return &RabbitMQBroker{
		conn:      conn,
		ch:        ch,
		pushQueue: pushQueue,
		mailQueue: mailQueue,
		cb:        config.NewCircuitBreaker("RabbitMQ-Publisher"),
	}
}

func (rmq *RabbitMQBroker) PublishPush(ctx context.Context, msg ports.PushMessage) error {
	return rmq.publish(ctx, rmq.pushQueue, msg)
}

func (rmq *RabbitMQBroker) PublishRecoveryEmail(ctx context.Context, mail ports.RecoveryEmail) error {
	return rmq.publish(ctx, rmq.mailQueue, mail)
}

func (rmq *RabbitMQBroker) publish(ctx context.Context, queue string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}

	// Respect context deadline
	if deadline, ok := ctx.Deadline(); ok {
		if time.Until(deadline) <= 0 {
			return ctx.Err()
		}
	}

	_, err = rmq.cb.Execute(func() (interface{}, error) {
		err := rmq.ch.PublishWithContext(
			ctx,
			"",    // exchange (default)
			queue, // routing key == queue name
			false, // mandatory
			false, // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Timestamp:    time.Now(),
				Body:         body,
			},
		)
		return nil, err
	})
	return err
}

func (rmq *RabbitMQBroker) Close() error {
	if rmq.ch != nil {
		if err := rmq.ch.Close(); err != nil {
			return err
		}
	}
	if rmq.conn != nil {
		return rmq.conn.Close()
	}
	return nil
}
