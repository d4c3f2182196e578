package events

import (
	"context"

	"github.com/Nestaway-Rentals/service-rental/internal/common/kafka"
	"github.com/Nestaway-Rentals/service-rental/internal/contracts"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// NotificationGroup is the consumer group suffix for booking notifications.
const NotificationGroup = "notification-service"

// BookingNotifier stores notifications for booking lifecycle events.
// *application.NotificationService implements it.
type BookingNotifier interface {
	NotifyBookingRequested(ctx context.Context, evt contracts.BookingRequestedEvent) error
	NotifyStatusChanged(ctx context.Context, eventType string, evt contracts.BookingStatusChangedEvent) error
	NotifyBookingCancelled(ctx context.Context, evt contracts.BookingCancelledEvent) error
}

// BookingEventConsumer listens to booking events and creates notifications.
type BookingEventConsumer struct {
	consumer *kafka.Consumer
	notifier BookingNotifier
	logger   *zap.Logger
}

// NewBookingEventConsumer creates a new BookingEventConsumer in group
// <groupPrefix>notification-service.
func NewBookingEventConsumer(
	brokers []string,
	groupPrefix string,
	notifier BookingNotifier,
	logger *zap.Logger,
) *BookingEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupPrefix+NotificationGroup, contracts.TopicBookingEvents, logger)
	return &BookingEventConsumer{
		consumer: consumer,
		notifier: notifier,
		logger:   logger,
	}
}

// Start begins consuming booking events. This blocks until the context is cancelled.
func (c *BookingEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *BookingEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *BookingEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from booking topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case contracts.BookingRequested:
		var evt contracts.BookingRequestedEvent
		if !c.parse(cloudEvent, &evt) {
			return nil
		}
		return c.notifier.NotifyBookingRequested(ctx, evt)

	case contracts.BookingConfirmed, contracts.BookingCompleted:
		var evt contracts.BookingStatusChangedEvent
		if !c.parse(cloudEvent, &evt) {
			return nil
		}
		return c.notifier.NotifyStatusChanged(ctx, cloudEvent.Type, evt)

	case contracts.BookingCancelled:
		var evt contracts.BookingCancelledEvent
		if !c.parse(cloudEvent, &evt) {
			return nil
		}
		return c.notifier.NotifyBookingCancelled(ctx, evt)

	default:
		c.logger.Debug("ignoring unhandled booking event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *BookingEventConsumer) parse(cloudEvent kafka.CloudEvent, v any) bool {
	if err := cloudEvent.ParseData(v); err != nil {
		c.logger.Error("failed to parse booking event data",
			zap.String("type", cloudEvent.Type),
			zap.String("id", cloudEvent.ID),
			zap.Error(err),
		)
		return false
	}
	return true
}
