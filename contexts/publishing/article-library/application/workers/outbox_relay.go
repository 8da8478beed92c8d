package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "library/contexts/publishing/article-library/application"
	"library/contexts/publishing/article-library/ports"
)

// OutboxRelay drains pending outbox rows onto the event bus. The subject is
// TopicPrefix joined with the event type.
type OutboxRelay struct {
	Outbox      ports.OutboxRepository
	Publisher   ports.EventPublisher
	Clock       ports.Clock
	TopicPrefix string
	BatchSize   int
	Metrics     ports.WorkerMetrics
	Logger      *slog.Logger
}

func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("outbox list pending failed",
			"event", "article_library_outbox_list_failed",
			"module", application.ModuleName,
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	sent := 0
	for _, message := range pending {
		var envelope ports.EventEnvelope
		if err := json.Unmarshal(message.Payload, &envelope); err != nil {
			logger.Error("outbox payload decode failed",
				"event", "article_library_outbox_decode_failed",
				"module", application.ModuleName,
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"error", err.Error(),
			)
			return err
		}

		if err := r.Publisher.Publish(ctx, envelope.Subject(r.TopicPrefix), envelope); err != nil {
			logger.Error("outbox publish failed",
				"event", "article_library_outbox_publish_failed",
				"module", application.ModuleName,
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"event_type", envelope.EventType,
				"error", err.Error(),
			)
			r.observe(sent)
			return err
		}
		if err := r.Outbox.MarkOutboxSent(ctx, message.OutboxID, now); err != nil {
			logger.Error("outbox mark sent failed",
				"event", "article_library_outbox_mark_sent_failed",
				"module", application.ModuleName,
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"error", err.Error(),
			)
			r.observe(sent)
			return err
		}
		sent++
	}

	r.observe(sent)
	if sent > 0 {
		logger.Info("outbox relay cycle completed",
			"event", "article_library_outbox_relay_completed",
			"module", application.ModuleName,
			"layer", "worker",
			"sent_count", sent,
		)
	}
	return nil
}

func (r OutboxRelay) observe(count int) {
	if r.Metrics != nil && count > 0 {
		r.Metrics.ObserveRelayed(count)
	}
}
