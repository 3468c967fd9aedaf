package messaging

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// TopicRunner is one topic's worth of consuming: a Consumer, or anything
// else with the same lifecycle.
type TopicRunner interface {
	Topic() string
	Start(ctx context.Context) error
	Shutdown() error
}

// ConsumerGroup runs the full set of analytics consumers as one unit:
// either every topic is being drained or none is.
type ConsumerGroup struct {
	runners    []TopicRunner
	subscriber message.Subscriber
	logger     *zap.Logger
}

// NewConsumerGroup creates an empty group over the shared subscriber.
func NewConsumerGroup(subscriber message.Subscriber, logger *zap.Logger) *ConsumerGroup {
	return &ConsumerGroup{
		subscriber: subscriber,
		logger:     logger,
	}
}

// Add registers a consumer with the group.
func (g *ConsumerGroup) Add(runner TopicRunner) {
	g.runners = append(g.runners, runner)
}

// Start starts every consumer. If one fails, the already-started ones are
// shut down and the group reports the failure; a half-draining group
// would silently lose whole event types.
func (g *ConsumerGroup) Start(ctx context.Context) error {
	topics := make([]string, 0, len(g.runners))

	for i, runner := range g.runners {
		if err := runner.Start(ctx); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = g.runners[j].Shutdown()
			}

			return fmt.Errorf("start consumer for %s: %w", runner.Topic(), err)
		}

		topics = append(topics, runner.Topic())
	}

	g.logger.Info("consuming analytics events", zap.Strings("topics", topics))

	return nil
}

// Shutdown stops every consumer, then closes the subscriber. All are
// attempted; the first error wins.
func (g *ConsumerGroup) Shutdown() error {
	g.logger.Info("stopping analytics consumers")

	var firstErr error

	for _, runner := range g.runners {
		if err := runner.Shutdown(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if err := g.subscriber.Close(); err != nil && firstErr == nil {
		firstErr = err
	}

	return firstErr
}
