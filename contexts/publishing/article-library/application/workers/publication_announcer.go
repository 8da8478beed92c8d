package workers

import (
	"context"
	"log/slog"
	"time"

	application "library/contexts/publishing/article-library/application"
	"library/contexts/publishing/article-library/ports"
)

// PublicationAnnouncer sweeps articles whose pub_date has been reached and
// emits one article.published event per article.
type PublicationAnnouncer struct {
	Articles    ports.ArticleRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	BatchSize   int
	Metrics     ports.WorkerMetrics
	Logger      *slog.Logger
}

func (a PublicationAnnouncer) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(a.Logger)
	now := time.Now().UTC()
	if a.Clock != nil {
		now = a.Clock.Now().UTC()
	}
	limit := a.BatchSize
	if limit <= 0 {
		limit = 100
	}

	due, err := a.Articles.ListUnannounced(ctx, now, limit)
	if err != nil {
		logger.Error("publication sweep failed",
			"event", "article_library_announce_list_failed",
			"module", application.ModuleName,
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	announced := 0
	for _, article := range due {
		eventID, err := a.IDGenerator.NewID(ctx)
		if err != nil {
			return err
		}
		event := ports.ArticleEvent{
			EventID:    eventID,
			EventType:  ports.EventArticlePublished,
			ArticleID:  article.ArticleID,
			AuthorID:   article.AuthorID,
			Title:      article.Title,
			PubDate:    article.PubDate,
			OccurredAt: now,
		}
		if err := a.Articles.MarkAnnouncedWithOutbox(ctx, article.ArticleID, now, event); err != nil {
			logger.Error("publication announce failed",
				"event", "article_library_announce_failed",
				"module", application.ModuleName,
				"layer", "worker",
				"article_id", article.ArticleID,
				"error", err.Error(),
			)
			return err
		}
		announced++
	}

	if a.Metrics != nil && announced > 0 {
		a.Metrics.ObserveAnnounced(announced)
	}
	if announced > 0 {
		logger.Info("publication sweep completed",
			"event", "article_library_announce_completed",
			"module", application.ModuleName,
			"layer", "worker",
			"announced_count", announced,
		)
	}
	return nil
}
