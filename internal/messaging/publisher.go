// Package messaging carries the analytics event stream: typed publish
// functions on the producing side, typed consumers on the other, JSON on
// the wire.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// topicMetadataKey tags each message with the topic it was published to,
// so stream entries stay identifiable outside their stream.
const topicMetadataKey = "topic"

// Publish sends one typed event to its topic. Handlers hold one of these
// per event type; the topic is fixed when the function is built.
type Publish[T any] func(ctx context.Context, event *T) error

// NewPublishFunc builds the publish function for topic. Events are
// JSON-encoded and carry the request context, so a publisher that honors
// context deadlines gives up with the request.
func NewPublishFunc[T any](publisher message.Publisher, topic string) Publish[T] {
	return func(ctx context.Context, event *T) error {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("encode %s event: %w", topic, err)
		}

		msg := message.NewMessage(uuid.NewString(), payload)
		msg.SetContext(ctx)
		msg.Metadata.Set(topicMetadataKey, topic)

		return publisher.Publish(topic, msg)
	}
}

// EventStream owns the producing end of the analytics stream. It exists
// so the injector has a single shutdown handle closing the underlying
// publisher behind every typed publish function built from it.
type EventStream struct {
	publisher message.Publisher
}

// NewEventStream wraps publisher as the stream's producing end.
func NewEventStream(publisher message.Publisher) *EventStream {
	return &EventStream{publisher: publisher}
}

// Publisher exposes the underlying publisher for building typed publish
// functions.
func (s *EventStream) Publisher() message.Publisher {
	return s.publisher
}

// Shutdown closes the underlying publisher.
func (s *EventStream) Shutdown() error {
	return s.publisher.Close()
}
