package queries

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "library/contexts/publishing/article-library/application"
	"library/contexts/publishing/article-library/domain/entities"
	domainerrors "library/contexts/publishing/article-library/domain/errors"
	"library/contexts/publishing/article-library/domain/services"
	"library/contexts/publishing/article-library/ports"
)

type AdminListArticlesQuery struct {
	AuthorID string
	TagID    string
	PubDate  string
	Cursor   string
	Limit    int
}

type AdminListArticlesResult struct {
	Items      []entities.Article
	NextCursor string
}

// AdminListArticlesUseCase lists every article, drafts included, filtered by
// author, tag and publication date window.
type AdminListArticlesUseCase struct {
	Articles ports.ArticleRepository
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (u AdminListArticlesUseCase) Execute(ctx context.Context, query AdminListArticlesQuery) (AdminListArticlesResult, error) {
	logger := application.ResolveLogger(u.Logger)

	from, to, err := services.ResolvePubDateRange(services.PubDateRange(query.PubDate), now(u.Clock))
	if err != nil {
		return AdminListArticlesResult{}, err
	}

	items, nextCursor, err := u.Articles.ListArticles(ctx, ports.ArticleListFilter{
		AuthorID:    strings.TrimSpace(query.AuthorID),
		TagID:       strings.TrimSpace(query.TagID),
		PubDateFrom: from,
		PubDateTo:   to,
		Page: ports.Page{
			Cursor: query.Cursor,
			Limit:  application.NormalizeLimit(query.Limit),
		},
	})
	if err != nil {
		logger.Error("admin list articles failed",
			"event", "admin_list_articles_failed",
			"module", application.ModuleName,
			"layer", "application",
			"error", err.Error(),
		)
		return AdminListArticlesResult{}, err
	}

	logger.Info("admin list articles completed",
		"event", "admin_list_articles_completed",
		"module", application.ModuleName,
		"layer", "application",
		"author_id", query.AuthorID,
		"tag_id", query.TagID,
		"pub_date", query.PubDate,
		"items_count", len(items),
	)
	return AdminListArticlesResult{Items: items, NextCursor: nextCursor}, nil
}

type AdminGetArticleUseCase struct {
	Articles ports.ArticleRepository
	Logger   *slog.Logger
}

func (u AdminGetArticleUseCase) Execute(ctx context.Context, articleID string) (entities.Article, error) {
	return u.Articles.GetArticle(ctx, articleID)
}

type AuthenticateStaffQuery struct {
	Username string
	Password string
}

// AuthenticateStaffUseCase verifies admin credentials. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
type AuthenticateStaffUseCase struct {
	Authors ports.AuthorRepository
	Hasher  ports.PasswordHasher
	Logger  *slog.Logger
}

func (u AuthenticateStaffUseCase) Execute(ctx context.Context, query AuthenticateStaffQuery) (entities.Author, error) {
	logger := application.ResolveLogger(u.Logger)
	username := strings.TrimSpace(query.Username)
	if username == "" || query.Password == "" {
		return entities.Author{}, domainerrors.ErrInvalidCredentials
	}

	author, err := u.Authors.GetAuthorByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domainerrors.ErrAuthorNotFound) {
			return entities.Author{}, domainerrors.ErrInvalidCredentials
		}
		return entities.Author{}, err
	}
	if author.PasswordHash == "" || u.Hasher.Compare(author.PasswordHash, query.Password) != nil {
		logger.Warn("admin authentication rejected",
			"event", "admin_auth_rejected",
			"module", application.ModuleName,
			"layer", "application",
			"username", username,
		)
		return entities.Author{}, domainerrors.ErrInvalidCredentials
	}
	if !author.CanAdminister() {
		logger.Warn("admin authentication for non-staff account",
			"event", "admin_auth_not_staff",
			"module", application.ModuleName,
			"layer", "application",
			"author_id", author.AuthorID,
		)
		return entities.Author{}, domainerrors.ErrStaffRequired
	}
	return author, nil
}
