package queries

import (
	"context"
	"log/slog"

	application "library/contexts/publishing/article-library/application"
	"library/contexts/publishing/article-library/domain/entities"
	domainerrors "library/contexts/publishing/article-library/domain/errors"
	"library/contexts/publishing/article-library/ports"
)

type GetArticleQuery struct {
	ArticleID string
}

type GetArticleResult struct {
	Article entities.Article
}

// GetArticleUseCase returns a single published article. Drafts, incomplete and
// future-dated articles are reported as not found.
type GetArticleUseCase struct {
	Articles ports.ArticleRepository
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (u GetArticleUseCase) Execute(ctx context.Context, query GetArticleQuery) (GetArticleResult, error) {
	logger := application.ResolveLogger(u.Logger)

	article, err := u.Articles.GetArticle(ctx, query.ArticleID)
	if err != nil {
		logger.Warn("get article failed",
			"event", "get_article_failed",
			"module", application.ModuleName,
			"layer", "application",
			"article_id", query.ArticleID,
			"error", err.Error(),
		)
		return GetArticleResult{}, err
	}
	if !article.IsPublished(now(u.Clock)) {
		logger.Info("get article hid unpublished article",
			"event", "get_article_unpublished",
			"module", application.ModuleName,
			"layer", "application",
			"article_id", query.ArticleID,
		)
		return GetArticleResult{}, domainerrors.ErrArticleNotFound
	}

	return GetArticleResult{Article: article}, nil
}
