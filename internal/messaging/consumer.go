package messaging

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// Handler processes one decoded event. Returning an error nacks the
// message for redelivery; analytics handlers reserve that for failures
// worth retrying (a lost event store write), not for bad payloads.
type Handler[T any] func(ctx context.Context, event *T) error

// Consumer drains one topic into a typed handler. Decoding failures are
// terminal for the message: an event that never unmarshals will never
// unmarshal, so it is nacked once and logged rather than retried forever.
type Consumer[T any] struct {
	subscriber message.Subscriber
	topic      string
	handler    Handler[T]
	logger     *zap.Logger
	cancel     context.CancelFunc
	done       chan struct{}
}

// NewConsumer binds handler to topic over subscriber.
func NewConsumer[T any](
	subscriber message.Subscriber,
	topic string,
	handler Handler[T],
	logger *zap.Logger,
) *Consumer[T] {
	return &Consumer[T]{
		subscriber: subscriber,
		topic:      topic,
		handler:    handler,
		logger:     logger.With(zap.String("topic", topic)),
		done:       make(chan struct{}),
	}
}

// Topic returns the topic this consumer drains.
func (c *Consumer[T]) Topic() string {
	return c.topic
}

// Start subscribes and begins draining the topic in the background.
func (c *Consumer[T]) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)

	msgs, err := c.subscriber.Subscribe(ctx, c.topic)
	if err != nil {
		return err
	}

	go c.run(ctx, msgs)

	return nil
}

func (c *Consumer[T]) run(ctx context.Context, msgs <-chan *message.Message) {
	defer close(c.done)

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}

			c.dispatch(msg)
		}
	}
}

func (c *Consumer[T]) dispatch(msg *message.Message) {
	var event T
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		c.logger.Error("dropping undecodable event",
			zap.String("messageId", msg.UUID),
			zap.Error(err),
		)
		msg.Nack()

		return
	}

	// msg.Context carries the publisher's request context when the broker
	// preserves it, and the subscribe context otherwise.
	if err := c.handler(msg.Context(), &event); err != nil {
		c.logger.Error("event handling failed, nacking for redelivery",
			zap.String("messageId", msg.UUID),
			zap.Error(err),
		)
		msg.Nack()

		return
	}

	msg.Ack()

	c.logger.Debug("event processed", zap.String("messageId", msg.UUID))
}

// Shutdown stops draining and waits for the in-flight message to finish.
func (c *Consumer[T]) Shutdown() error {
	if c.cancel != nil {
		c.cancel()
	}

	<-c.done

	return nil
}
