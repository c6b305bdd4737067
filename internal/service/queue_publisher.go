// Package queue_publisher publishes seating events to RabbitMQ.  Errors
// are logged and returned so callers can ignore them: the engine state,
// not the broker, is authoritative, and a broker outage must never block
// seating parties.
package queue_publisher

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/danyluis/restaurant-seating/internal/queue"
)

// PublishPartySeated publishes a PartySeatedEvent to the "party.seated"
// queue.
func PublishPartySeated(ctx context.Context, event q.PartySeatedEvent) error {
	return publish(ctx, "party.seated", event)
}

// PublishPartyLeft publishes a PartyLeftEvent to the "party.left" queue.
func PublishPartyLeft(ctx context.Context, event q.PartyLeftEvent) error {
	return publish(ctx, "party.left", event)
}

// publish dials the broker, declares the durable queue (idempotent) and
// sends one persistent JSON message on the default exchange.
func publish(ctx context.Context, queueName string, event interface{}) error {
	conn, err := amqp.Dial(q.BrokerURL())
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
