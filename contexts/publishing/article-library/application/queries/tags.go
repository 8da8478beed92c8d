package queries

import (
	"context"
	"errors"
	"log/slog"

	application "library/contexts/publishing/article-library/application"
	"library/contexts/publishing/article-library/domain/entities"
	domainerrors "library/contexts/publishing/article-library/domain/errors"
	"library/contexts/publishing/article-library/ports"
)

type ListTagsQuery struct {
	Cursor string
	Limit  int
}

type ListTagsResult struct {
	Items      []entities.Tag
	NextCursor string
}

type ListTagsUseCase struct {
	Tags   ports.TagRepository
	Logger *slog.Logger
}

func (u ListTagsUseCase) Execute(ctx context.Context, query ListTagsQuery) (ListTagsResult, error) {
	logger := application.ResolveLogger(u.Logger)

	items, nextCursor, err := u.Tags.ListTags(ctx, ports.Page{
		Cursor: query.Cursor,
		Limit:  application.NormalizeLimit(query.Limit),
	})
	if err != nil {
		logger.Error("list tags failed",
			"event", "list_tags_failed",
			"module", application.ModuleName,
			"layer", "application",
			"error", err.Error(),
		)
		return ListTagsResult{}, err
	}
	return ListTagsResult{Items: items, NextCursor: nextCursor}, nil
}

type ListTagArticlesQuery struct {
	TagID  string
	Cursor string
	Limit  int
}

type ListTagArticlesResult struct {
	Tag        entities.Tag
	TagFound   bool
	Items      []entities.Article
	NextCursor string
}

// ListTagArticlesUseCase lists published articles carrying a tag. An unknown
// tag is not an error: the listing is simply empty.
type ListTagArticlesUseCase struct {
	Tags     ports.TagRepository
	Articles ports.ArticleRepository
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (u ListTagArticlesUseCase) Execute(ctx context.Context, query ListTagArticlesQuery) (ListTagArticlesResult, error) {
	logger := application.ResolveLogger(u.Logger)

	tag, err := u.Tags.GetTag(ctx, query.TagID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrTagNotFound) {
			logger.Info("tag articles requested for unknown tag",
				"event", "list_tag_articles_unknown_tag",
				"module", application.ModuleName,
				"layer", "application",
				"tag_id", query.TagID,
			)
			return ListTagArticlesResult{Items: []entities.Article{}}, nil
		}
		return ListTagArticlesResult{}, err
	}

	items, nextCursor, err := u.Articles.ListArticles(ctx, ports.ArticleListFilter{
		PublishedAsOf: now(u.Clock),
		TagID:         tag.TagID,
		Page: ports.Page{
			Cursor: query.Cursor,
			Limit:  application.NormalizeLimit(query.Limit),
		},
	})
	if err != nil {
		logger.Error("list tag articles failed",
			"event", "list_tag_articles_failed",
			"module", application.ModuleName,
			"layer", "application",
			"tag_id", query.TagID,
			"error", err.Error(),
		)
		return ListTagArticlesResult{}, err
	}

	return ListTagArticlesResult{
		Tag:        tag,
		TagFound:   true,
		Items:      items,
		NextCursor: nextCursor,
	}, nil
}
