package natsadapter

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/garagehub/internal/core/domain"
)

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber connects to NATS and ensures the catalog stream exists.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, js, err := connect(url, "garagehub-subscriber")
	if err != nil {
		return nil, err
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// SubscribeCatalogUpdates delivers catalog-updated events published from now
// on. Each instance gets its own ephemeral consumer so every instance sees
// every event.
func (s *Subscriber) SubscribeCatalogUpdates(ctx context.Context, handler func(ctx context.Context, event *domain.CatalogEvent) error) error {
	sub, err := s.js.Subscribe(subjectUpdated, func(msg *nats.Msg) {
		var event domain.CatalogEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			slog.Warn("dropping malformed catalog event", "error", err)
			_ = msg.Term()
			return
		}
		if err := handler(ctx, &event); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.DeliverNew(),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// IsConnected reports whether the underlying connection is up.
func (s *Subscriber) IsConnected() bool {
	return s.conn.IsConnected()
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
