package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	contractsv1 "library/contracts/gen/events/v1"

	"github.com/nats-io/nats.go"
)

const flushTimeout = 5 * time.Second

// NATS publishes outbox envelopes as JSON messages on core NATS subjects.
type NATS struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func ConnectNATS(url string, name string, logger *slog.Logger) (*NATS, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected",
					"event", "nats_disconnected",
					"module", "internal/platform/messaging",
					"layer", "platform",
					"error", err.Error(),
				)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected",
				"event", "nats_reconnected",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"url", c.ConnectedUrl(),
			)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}
	return NewNATS(conn, logger), nil
}

func NewNATS(conn *nats.Conn, logger *slog.Logger) *NATS {
	if logger == nil {
		logger = slog.Default()
	}
	return &NATS{conn: conn, logger: logger}
}

func (n *NATS) Publish(ctx context.Context, subject string, event contractsv1.Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode envelope %s: %w", event.EventID, err)
	}

	msg := nats.NewMsg(subject)
	msg.Data = data
	msg.Header.Set("Event-Id", event.EventID)
	msg.Header.Set("Event-Type", event.EventType)
	msg.Header.Set("Partition-Key", event.PartitionKey)
	if err := n.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	// Outbox rows are marked sent after Publish returns, so wait for the
	// server to acknowledge the buffered write.
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flushTimeout)
		defer cancel()
	}
	if err := n.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flush %s: %w", subject, err)
	}

	n.logger.Debug("event published",
		"event", "nats_publish",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"subject", subject,
		"event_id", event.EventID,
		"event_type", event.EventType,
	)
	return nil
}

// Subscribe decodes envelopes from subject and hands them to handler until
// ctx ends. Malformed payloads are logged and skipped.
func (n *NATS) Subscribe(
	ctx context.Context,
	subject string,
	handler func(context.Context, contractsv1.Envelope) error,
) error {
	sub, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		var event contractsv1.Envelope
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			n.logger.Warn("dropping malformed envelope",
				"event", "nats_decode_failed",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"subject", msg.Subject,
				"error", err.Error(),
			)
			return
		}
		if err := handler(ctx, event); err != nil {
			n.logger.Error("subscriber handler failed",
				"event", "nats_consume_failed",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"subject", msg.Subject,
				"event_id", event.EventID,
				"error", err.Error(),
			)
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	go func() {
		<-ctx.Done()
		_ = sub.Unsubscribe()
	}()
	return nil
}

func (n *NATS) Close() error {
	if n == nil || n.conn == nil {
		return nil
	}
	return n.conn.Drain()
}
