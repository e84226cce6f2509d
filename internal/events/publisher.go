package events

import (
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeName = "transitpay.events"
	ExchangeKind = "topic"
)

// Routing keys published after reconciliation.
const (
	BookingConfirmed     = "booking.confirmed"
	BookingPaymentFailed = "booking.payment_failed"
	WalletCredited       = "wallet.credited"
)

// Publisher pushes reconciliation events to an AMQP topic exchange. A nil
// *Publisher is valid and publishes nothing, so the broker stays optional.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewPublisher(url string) (*Publisher, error) {
	if url == "" {
		return nil, nil
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(ExchangeName, ExchangeKind, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("rabbitmq exchange declare: %w", err)
	}

	return &Publisher{conn: conn, channel: ch}, nil
}

// Publish sends payload under routingKey. Failures are logged, never fatal:
// event delivery must not fail the payment flow that triggered it.
func (p *Publisher) Publish(routingKey string, payload any) {
	if p == nil || p.channel == nil {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[EVENTS] marshal %s failed: %v", routingKey, err)
		return
	}

	if err := p.channel.Publish(
		ExchangeName,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	); err != nil {
		log.Printf("[EVENTS] publish %s failed: %v", routingKey, err)
	}
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
