// Package publisher announces committed notifications on an AMQP exchange so that other services can react
// to new and updated bookings.
package publisher

import (
	"context"
	"fmt"

	"github.com/cyverse-de/messaging/v9"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/bigheart-studio/studio-booking/common"
	"github.com/bigheart-studio/studio-booking/model"
)

var log = common.Log.WithField("package", "publisher")

// RoutingKeyPrefix is prepended to the notification type to build the routing key of each event.
const RoutingKeyPrefix = "events.studio.notification."

// ExchangeType is the only exchange type notifications can be published to.
const ExchangeType = "topic"

// Publisher describes anything that can announce a committed notification.
type Publisher interface {
	PublishNotification(ctx context.Context, notification *model.Notification) error
	Close()
}

// Nop is a Publisher that discards every notification. It's used when no AMQP URI is configured.
type Nop struct{}

// PublishNotification does nothing.
func (Nop) PublishNotification(context.Context, *model.Notification) error { return nil }

// Close does nothing.
func (Nop) Close() {}

// MessagingClient is the subset of *messaging.Client used by the publisher.
type MessagingClient interface {
	PublishContextOpts(ctx context.Context, key string, body []byte, opts *messaging.PublishingOpts) error
	Close()
}

// Event is the body of every published message.
type Event struct {
	MessageID    string              `json:"messageId"`
	Source       string              `json:"source"`
	Timestamp    string              `json:"timestamp"`
	Notification *model.Notification `json:"notification"`
}

// AMQP publishes notifications to an AMQP exchange.
type AMQP struct {
	client MessagingClient
}

// New connects to the AMQP broker and declares the exchange that notifications are published to.
func New(settings *common.AMQPSettings) (*AMQP, error) {
	wrapMsg := "unable to create the notification publisher"

	if settings.ExchangeType != "" && settings.ExchangeType != ExchangeType {
		return nil, fmt.Errorf("%s: unsupported exchange type %q", wrapMsg, settings.ExchangeType)
	}

	// Create the AMQP client.
	client, err := messaging.NewClient(settings.URI, false)
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	// Declare the exchange and open the publishing channel.
	if err = client.SetupPublishing(settings.ExchangeName); err != nil {
		client.Close()
		return nil, errors.Wrap(err, wrapMsg)
	}

	return NewWithClient(client), nil
}

// NewWithClient returns a publisher that sends notifications through an existing messaging client.
func NewWithClient(client MessagingClient) *AMQP {
	return &AMQP{client: client}
}

// PublishNotification publishes a single notification as a persistent JSON message. The trace context in ctx
// is carried in the message headers.
func (p *AMQP) PublishNotification(ctx context.Context, notification *model.Notification) error {
	body, err := json.Marshal(NewEvent(notification))
	if err != nil {
		return errors.Wrapf(err, "unable to encode notification %d", notification.ID)
	}

	key := RoutingKey(notification)
	if err = p.client.PublishContextOpts(ctx, key, body, messaging.JSONPublishingOpts); err != nil {
		return errors.Wrapf(err, "unable to publish notification %d", notification.ID)
	}

	log.WithFields(map[string]interface{}{"routing-key": key, "id": notification.ID}).Debug("published notification")
	return nil
}

// Close closes the connection to the broker.
func (p *AMQP) Close() {
	p.client.Close()
}

// RoutingKey returns the routing key used to publish a notification.
func RoutingKey(notification *model.Notification) string {
	return RoutingKeyPrefix + notification.Type
}

// NewEvent wraps a notification in a message body with a unique message ID.
func NewEvent(notification *model.Notification) *Event {
	return &Event{
		MessageID:    uuid.NewString(),
		Source:       common.ServiceName,
		Timestamp:    common.FormatTimestamp(notification.CreatedAt),
		Notification: notification,
	}
}
