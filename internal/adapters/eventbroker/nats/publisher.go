package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/config"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/domain"
)

// Publisher emits file events on the JetStream stream
type Publisher struct {
	logger *slog.Logger
	conn   *nats.Conn
	js     jetstream.JetStream
	config config.NATSConfig
}

// NewNATSPublisher connects to NATS and makes sure the file stream exists
func NewNATSPublisher(ctx context.Context, cfg config.NATSConfig, logger *slog.Logger) (*Publisher, error) {
	conn, js, err := connect(cfg.URL, "upload-api", logger)
	if err != nil {
		return nil, err
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     cfg.StreamName,
		Subjects: []string{"files.>"},
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create stream %s: %w", cfg.StreamName, err)
	}

	return &Publisher{
		logger: logger,
		conn:   conn,
		js:     js,
		config: cfg,
	}, nil
}

// Publish sends event on the subject named after its type
func (p *Publisher) Publish(ctx context.Context, event domain.FileEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ack, err := p.js.Publish(ctx, string(event.Type), data)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}

	p.logger.Debug("file event published", "type", event.Type, "filename", event.Filename, "seq", ack.Sequence)
	return nil
}

// Close drains the connection
func (p *Publisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}
