package main

import (
	"context"

	gcppubsub "cloud.google.com/go/pubsub/v2"
)

// publisher is the per-topic send surface; the Pub/Sub SDK types are wrapped
// so tests can substitute results.
type publisher interface {
	Publish(context.Context, *gcppubsub.Message) publishResult
}

type publishResult interface {
	Get(context.Context) (serverID string, err error)
}

type publisherFactory func(topic string) publisher

func clientPublishers(client pubSubClient) publisherFactory {
	return func(topic string) publisher {
		p := client.Publisher(topic)
		if p == nil {
			return nil
		}
		return topicPublisher{p}
	}
}

type topicPublisher struct {
	p *gcppubsub.Publisher
}

func (t topicPublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	return t.p.Publish(ctx, msg)
}
