package natsadapter

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/garagehub/internal/core/domain"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and ensures the catalog stream exists.
func NewPublisher(url string) (*Publisher, error) {
	conn, js, err := connect(url, "garagehub-publisher")
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn, js: js}, nil
}

// PublishCatalogUpdated announces a catalogue change to every API instance.
func (p *Publisher) PublishCatalogUpdated(ctx context.Context, event *domain.CatalogEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(subjectUpdated, data, nats.Context(ctx))
	return err
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}
