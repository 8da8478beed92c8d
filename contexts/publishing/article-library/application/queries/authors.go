package queries

import (
	"context"
	"log/slog"

	application "library/contexts/publishing/article-library/application"
	"library/contexts/publishing/article-library/domain/entities"
	"library/contexts/publishing/article-library/ports"
)

type ListAuthorsQuery struct {
	Cursor string
	Limit  int
}

type ListAuthorsResult struct {
	Items      []entities.Author
	NextCursor string
}

type ListAuthorsUseCase struct {
	Authors ports.AuthorRepository
	Logger  *slog.Logger
}

func (u ListAuthorsUseCase) Execute(ctx context.Context, query ListAuthorsQuery) (ListAuthorsResult, error) {
	logger := application.ResolveLogger(u.Logger)

	items, nextCursor, err := u.Authors.ListAuthors(ctx, ports.Page{
		Cursor: query.Cursor,
		Limit:  application.NormalizeLimit(query.Limit),
	})
	if err != nil {
		logger.Error("list authors failed",
			"event", "list_authors_failed",
			"module", application.ModuleName,
			"layer", "application",
			"error", err.Error(),
		)
		return ListAuthorsResult{}, err
	}
	return ListAuthorsResult{Items: items, NextCursor: nextCursor}, nil
}

type GetAuthorQuery struct {
	AuthorID string
	Cursor   string
	Limit    int
}

type GetAuthorResult struct {
	Author     entities.Author
	Articles   []entities.Article
	NextCursor string
}

// GetAuthorUseCase loads an author and the page of their published articles.
type GetAuthorUseCase struct {
	Authors  ports.AuthorRepository
	Articles ports.ArticleRepository
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (u GetAuthorUseCase) Execute(ctx context.Context, query GetAuthorQuery) (GetAuthorResult, error) {
	logger := application.ResolveLogger(u.Logger)

	author, err := u.Authors.GetAuthor(ctx, query.AuthorID)
	if err != nil {
		logger.Warn("get author failed",
			"event", "get_author_failed",
			"module", application.ModuleName,
			"layer", "application",
			"author_id", query.AuthorID,
			"error", err.Error(),
		)
		return GetAuthorResult{}, err
	}

	articles, nextCursor, err := u.Articles.ListArticles(ctx, ports.ArticleListFilter{
		PublishedAsOf: now(u.Clock),
		AuthorID:      author.AuthorID,
		Page: ports.Page{
			Cursor: query.Cursor,
			Limit:  application.NormalizeLimit(query.Limit),
		},
	})
	if err != nil {
		logger.Error("get author failed listing articles",
			"event", "get_author_list_articles_failed",
			"module", application.ModuleName,
			"layer", "application",
			"author_id", query.AuthorID,
			"error", err.Error(),
		)
		return GetAuthorResult{}, err
	}

	return GetAuthorResult{
		Author:     author,
		Articles:   articles,
		NextCursor: nextCursor,
	}, nil
}
