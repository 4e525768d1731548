// Package events публикует доменные события бронирований в RabbitMQ.
// Публикация выполняется после коммита транзакции: сбой брокера логируется,
// но никогда не откатывает уже подтвержденное бронирование.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher издатель доменных событий поверх topic-exchange
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logs     Logger
}

// NewPublisher подключается к брокеру и объявляет exchange
func NewPublisher(url, exchange string, logs Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%w: NewPublisher - dial: %v", ErrConnect, err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: NewPublisher - open channel: %v", ErrConnect, err)
	}

	err = channel.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("%w: NewPublisher - declare exchange %q: %v", ErrConnect, exchange, err)
	}

	return &Publisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		logs:     logs,
	}, nil
}

// PublishReservationConfirmed публикует событие подтверждения бронирования
func (p *Publisher) PublishReservationConfirmed(ctx context.Context, event ReservationConfirmed) error {
	return p.publish(ctx, RoutingKeyReservationConfirmed, event)
}

// PublishReservationCancelled публикует событие отмены бронирования
func (p *Publisher) PublishReservationCancelled(ctx context.Context, event ReservationCancelled) error {
	return p.publish(ctx, RoutingKeyReservationCancelled, event)
}

func (p *Publisher) publish(ctx context.Context, routingKey string, event interface{}) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: publish - marshal event: %v", ErrPublish, err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("%w: publish - routing key %q: %v", ErrPublish, routingKey, err)
	}

	p.logs.Info("[events] published %s", routingKey)
	return nil
}

// Close закрывает канал и соединение с брокером
func (p *Publisher) Close() error {
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.logs.Warn("[events] failed to close channel: %v", err)
		}
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
