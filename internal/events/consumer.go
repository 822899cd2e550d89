package events

import (
	"context"
	"fmt"
	"time"

	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/rs/zerolog"
)

const (
	defaultSubscription = "directory-services"
	maxDeliveries       = 3
	receiveRetryDelay   = time.Second
)

// Handler is called once for every directory event received. Returning an
// error redelivers the message until it lands on the dead letter topic.
type Handler func(ctx context.Context, event DirectoryEvent) error

type EventConsumer struct {
	Log *zerolog.Logger

	// RetryDelay is how long Consume waits after a failed receive.
	RetryDelay time.Duration

	client   pulsar.Client
	consumer pulsar.Consumer
}

// NewEventConsumer initializes the Pulsar client and a shared subscription
// to topic. An empty subscription falls back to "directory-services".
func NewEventConsumer(pulsarURL, topic, subscription string, log *zerolog.Logger) (*EventConsumer, error) {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	if subscription == "" {
		subscription = defaultSubscription
	}

	client, err := pulsar.NewClient(pulsar.ClientOptions{URL: pulsarURL})
	if err != nil {
		return nil, fmt.Errorf("could not create Pulsar client: %w", err)
	}

	consumer, err := client.Subscribe(pulsar.ConsumerOptions{
		Topic:            topic,
		SubscriptionName: subscription,
		Type:             pulsar.Shared,
		DLQ: &pulsar.DLQPolicy{
			MaxDeliveries:   maxDeliveries,
			DeadLetterTopic: topic + "-dlq",
		},
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("could not subscribe to %s: %w", topic, err)
	}

	return &EventConsumer{
		Log:        log,
		RetryDelay: receiveRetryDelay,
		client:     client,
		consumer:   consumer,
	}, nil
}

// Consume hands each received event to handle until ctx is cancelled.
// Messages are acked once handled and nacked when they cannot be decoded or
// handle fails.
func (c *EventConsumer) Consume(ctx context.Context, handle Handler) error {
	for {
		msg, err := c.consumer.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.Log.Error().Err(err).Dur("retry_in", c.RetryDelay).Msg("failed to receive message")

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.RetryDelay):
			}
			continue
		}

		if err := dispatch(ctx, msg.Payload(), handle); err != nil {
			c.Log.Error().Err(err).
				Str("message_id", msg.ID().String()).
				Uint32("redeliveries", msg.RedeliveryCount()).
				Msg("directory event not handled")
			c.consumer.Nack(msg)
			continue
		}
		c.consumer.Ack(msg)
	}
}

// Close cleans up the Pulsar consumer and client.
func (c *EventConsumer) Close() {
	c.consumer.Close()
	c.client.Close()
}

func dispatch(ctx context.Context, payload []byte, handle Handler) error {
	event, err := DecodeEvent(payload)
	if err != nil {
		return err
	}
	if err := handle(ctx, event); err != nil {
		return fmt.Errorf("handling %s event %s: %w", event.Action, event.ID, err)
	}
	return nil
}
