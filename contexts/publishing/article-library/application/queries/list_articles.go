package queries

import (
	"context"
	"log/slog"
	"time"

	application "library/contexts/publishing/article-library/application"
	"library/contexts/publishing/article-library/domain/entities"
	"library/contexts/publishing/article-library/ports"
)

type ListArticlesQuery struct {
	Cursor string
	Limit  int
}

type ListArticlesResult struct {
	Items      []entities.Article
	NextCursor string
}

// ListArticlesUseCase lists articles visitors may read, newest first.
type ListArticlesUseCase struct {
	Articles ports.ArticleRepository
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (u ListArticlesUseCase) Execute(ctx context.Context, query ListArticlesQuery) (ListArticlesResult, error) {
	logger := application.ResolveLogger(u.Logger)
	limit := application.NormalizeLimit(query.Limit)

	items, nextCursor, err := u.Articles.ListArticles(ctx, ports.ArticleListFilter{
		PublishedAsOf: now(u.Clock),
		Page:          ports.Page{Cursor: query.Cursor, Limit: limit},
	})
	if err != nil {
		logger.Error("list articles failed",
			"event", "list_articles_failed",
			"module", application.ModuleName,
			"layer", "application",
			"error", err.Error(),
		)
		return ListArticlesResult{}, err
	}

	logger.Debug("list articles completed",
		"event", "list_articles_completed",
		"module", application.ModuleName,
		"layer", "application",
		"items_count", len(items),
		"has_next_cursor", nextCursor != "",
	)
	return ListArticlesResult{Items: items, NextCursor: nextCursor}, nil
}

func now(clock ports.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now().UTC()
}
