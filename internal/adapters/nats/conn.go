package natsadapter

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	catalogStream  = "GARAGE_CATALOG"
	subjectUpdated = "catalog.updated"
)

func connect(url, name string) (*nats.Conn, nats.JetStreamContext, error) {
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := &nats.StreamConfig{
		Name:      catalogStream,
		Subjects:  []string{"catalog.>"},
		Retention: nats.LimitsPolicy,
		MaxAge:    24 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(cfg); err != nil {
		// Stream may already exist, try update
		if _, err := js.UpdateStream(cfg); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return conn, js, nil
}
