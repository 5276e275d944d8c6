// Package nats publishes documentation progress events to NATS JetStream.
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/Strob0t/DocuCrew/internal/domain/crew"
	"github.com/Strob0t/DocuCrew/internal/port/broadcast"
)

const streamName = "DOCUCREW"

// DefaultSubject is the subject prefix progress events are published under.
const DefaultSubject = "docucrew.progress"

// Publisher implements broadcast.Broadcaster on a JetStream stream.
type Publisher struct {
	nc      *nats.Conn
	js      jetstream.JetStream
	subject string
}

var _ broadcast.Broadcaster = (*Publisher)(nil)

// Connect establishes a connection to NATS and ensures the JetStream stream exists.
func Connect(ctx context.Context, url, subject string) (*Publisher, error) {
	if subject == "" {
		subject = DefaultSubject
	}

	nc, err := nats.Connect(url, nats.Name("docucrew"))
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream init: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{subject + ".>"},
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream stream create: %w", err)
	}

	slog.Info("nats connected", "url", url, "stream", streamName, "subject", subject)
	return &Publisher{nc: nc, js: js, subject: subject}, nil
}

// JetStream exposes the JetStream context for other adapters sharing the
// connection, such as the snapshot KV cache.
func (p *Publisher) JetStream() jetstream.JetStream {
	return p.js
}

// SubjectFor returns the subject a role's progress events are published on.
func (p *Publisher) SubjectFor(agent string) string {
	return p.subject + "." + agent
}

// Publish sends a progress event to its role subject.
func (p *Publisher) Publish(ctx context.Context, ev crew.ProgressEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal progress event: %w", err)
	}
	subject := p.SubjectFor(ev.Agent)
	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("nats publish %s: %w", subject, err)
	}
	return nil
}

// BroadcastProgress publishes ev and logs failures. Delivery to the broker
// never blocks or fails a run.
func (p *Publisher) BroadcastProgress(ctx context.Context, ev crew.ProgressEvent) {
	if err := p.Publish(ctx, ev); err != nil {
		slog.Error("progress publish failed", "agent", ev.Agent, "status", ev.Status, "error", err)
	}
}

// Subscribe delivers progress events published from now on to handler,
// until the returned stop function is called.
func (p *Publisher) Subscribe(ctx context.Context, handler func(crew.ProgressEvent)) (func(), error) {
	consumer, err := p.js.OrderedConsumer(ctx, streamName, jetstream.OrderedConsumerConfig{
		FilterSubjects: []string{p.subject + ".>"},
		DeliverPolicy:  jetstream.DeliverNewPolicy,
	})
	if err != nil {
		return nil, fmt.Errorf("nats consumer create: %w", err)
	}

	cons, err := consumer.Consume(func(msg jetstream.Msg) {
		var ev crew.ProgressEvent
		if err := json.Unmarshal(msg.Data(), &ev); err != nil {
			slog.Error("invalid progress event", "subject", msg.Subject(), "error", err)
			return
		}
		handler(ev)
	})
	if err != nil {
		return nil, fmt.Errorf("nats consume: %w", err)
	}

	return cons.Stop, nil
}

// Close drains and shuts down the NATS connection.
func (p *Publisher) Close() error {
	return p.nc.Drain()
}
