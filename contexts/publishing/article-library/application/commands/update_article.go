package commands

import (
	"context"
	"log/slog"

	application "library/contexts/publishing/article-library/application"
	"library/contexts/publishing/article-library/domain/entities"
	"library/contexts/publishing/article-library/ports"
)

type UpdateArticleCommand struct {
	ArticleID string
	ArticleInput
}

// UpdateArticleUseCase replaces every editable field, including the tag set.
type UpdateArticleUseCase struct {
	Articles    ports.ArticleRepository
	Authors     ports.AuthorRepository
	Tags        ports.TagRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u UpdateArticleUseCase) Execute(ctx context.Context, cmd UpdateArticleCommand) (entities.Article, error) {
	logger := application.ResolveLogger(u.Logger)
	if err := entities.ValidateArticleFields(cmd.Title, cmd.PubDate); err != nil {
		return entities.Article{}, err
	}

	existing, err := u.Articles.GetArticle(ctx, cmd.ArticleID)
	if err != nil {
		return entities.Article{}, err
	}
	author, tags, err := resolveReferences(ctx, u.Authors, u.Tags, cmd.ArticleInput)
	if err != nil {
		return entities.Article{}, err
	}

	current := now(u.Clock)
	updated := existing
	updated.Title = cmd.Title
	updated.AuthorID = author.AuthorID
	updated.Author = author
	updated.Tags = entities.SortTags(tags)
	updated.PubDate = cmd.PubDate.UTC()
	updated.Content = cmd.Content
	updated.UpdatedAt = current

	event, err := newArticleEvent(ctx, u.IDGenerator, ports.EventArticleUpdated, updated, current)
	if err != nil {
		return entities.Article{}, err
	}
	if err := u.Articles.UpdateArticleWithOutbox(ctx, updated, event); err != nil {
		logger.Error("update article failed on write transaction",
			"event", "update_article_write_failed",
			"module", application.ModuleName,
			"layer", "application",
			"article_id", cmd.ArticleID,
			"error", err.Error(),
		)
		return entities.Article{}, err
	}

	logger.Info("article updated",
		"event", "article_updated",
		"module", application.ModuleName,
		"layer", "application",
		"article_id", updated.ArticleID,
		"published", updated.IsPublished(current),
	)
	return updated, nil
}

type DeleteArticleUseCase struct {
	Articles    ports.ArticleRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u DeleteArticleUseCase) Execute(ctx context.Context, articleID string) error {
	logger := application.ResolveLogger(u.Logger)

	article, err := u.Articles.GetArticle(ctx, articleID)
	if err != nil {
		return err
	}
	event, err := newArticleEvent(ctx, u.IDGenerator, ports.EventArticleDeleted, article, now(u.Clock))
	if err != nil {
		return err
	}
	if err := u.Articles.DeleteArticleWithOutbox(ctx, articleID, event); err != nil {
		return err
	}

	logger.Info("article deleted",
		"event", "article_deleted",
		"module", application.ModuleName,
		"layer", "application",
		"article_id", articleID,
	)
	return nil
}
