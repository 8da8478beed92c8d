package httpadapter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"library/contexts/publishing/article-library/application/commands"
	"library/contexts/publishing/article-library/application/queries"
	"library/contexts/publishing/article-library/domain/entities"
	domainerrors "library/contexts/publishing/article-library/domain/errors"
	"library/contexts/publishing/article-library/ports"
	httptransport "library/contexts/publishing/article-library/transport/http"
)

type Handler struct {
	ListArticles      queries.ListArticlesUseCase
	GetArticle        queries.GetArticleUseCase
	ListAuthors       queries.ListAuthorsUseCase
	GetAuthor         queries.GetAuthorUseCase
	ListTags          queries.ListTagsUseCase
	ListTagArticles   queries.ListTagArticlesUseCase
	AdminListArticles queries.AdminListArticlesUseCase
	AdminGetArticle   queries.AdminGetArticleUseCase
	AuthenticateStaff queries.AuthenticateStaffUseCase
	CreateAuthor      commands.CreateAuthorUseCase
	UpdateAuthor      commands.UpdateAuthorUseCase
	DeleteAuthor      commands.DeleteAuthorUseCase
	CreateTag         commands.CreateTagUseCase
	RenameTag         commands.RenameTagUseCase
	DeleteTag         commands.DeleteTagUseCase
	CreateArticle     commands.CreateArticleUseCase
	UpdateArticle     commands.UpdateArticleUseCase
	DeleteArticle     commands.DeleteArticleUseCase
	Clock             ports.Clock
	Logger            *slog.Logger
}

// ListArticlesHandler godoc
// @Summary List published articles
// @Description Returns articles whose pub_date has passed and that have a title, content and at least one tag.
// @Tags article-library
// @Produce json
// @Param cursor query string false "Cursor token"
// @Param limit query int false "Page size (max 50)"
// @Success 200 {object} httptransport.ListArticlesResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/v1/articles [get]
func (h Handler) ListArticlesHandler(ctx context.Context, cursor string, limit int) (httptransport.ListArticlesResponse, error) {
	result, err := h.ListArticles.Execute(ctx, queries.ListArticlesQuery{Cursor: cursor, Limit: limit})
	if err != nil {
		return httptransport.ListArticlesResponse{}, err
	}
	return httptransport.ListArticlesResponse{
		Items:      mapArticles(result.Items),
		NextCursor: result.NextCursor,
	}, nil
}

// GetArticleHandler godoc
// @Summary Get a published article
// @Tags article-library
// @Produce json
// @Param article_id path string true "Article id"
// @Success 200 {object} httptransport.GetArticleResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/v1/articles/{article_id} [get]
func (h Handler) GetArticleHandler(ctx context.Context, articleID string) (httptransport.GetArticleResponse, error) {
	result, err := h.GetArticle.Execute(ctx, queries.GetArticleQuery{ArticleID: articleID})
	if err != nil {
		return httptransport.GetArticleResponse{}, err
	}
	return httptransport.GetArticleResponse{Article: mapArticle(result.Article)}, nil
}

// ListAuthorsHandler godoc
// @Summary List authors
// @Tags article-library
// @Produce json
// @Param cursor query string false "Cursor token"
// @Param limit query int false "Page size (max 50)"
// @Success 200 {object} httptransport.ListAuthorsResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /api/v1/authors [get]
func (h Handler) ListAuthorsHandler(ctx context.Context, cursor string, limit int) (httptransport.ListAuthorsResponse, error) {
	result, err := h.ListAuthors.Execute(ctx, queries.ListAuthorsQuery{Cursor: cursor, Limit: limit})
	if err != nil {
		return httptransport.ListAuthorsResponse{}, err
	}
	items := make([]httptransport.AuthorDTO, 0, len(result.Items))
	for _, author := range result.Items {
		items = append(items, mapAuthor(author))
	}
	return httptransport.ListAuthorsResponse{Items: items, NextCursor: result.NextCursor}, nil
}

// GetAuthorHandler godoc
// @Summary Get an author with their published articles
// @Tags article-library
// @Produce json
// @Param author_id path string true "Author id"
// @Param cursor query string false "Cursor token over the author's articles"
// @Param limit query int false "Page size (max 50)"
// @Success 200 {object} httptransport.GetAuthorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/v1/authors/{author_id} [get]
func (h Handler) GetAuthorHandler(ctx context.Context, authorID string, cursor string, limit int) (httptransport.GetAuthorResponse, error) {
	result, err := h.GetAuthor.Execute(ctx, queries.GetAuthorQuery{AuthorID: authorID, Cursor: cursor, Limit: limit})
	if err != nil {
		return httptransport.GetAuthorResponse{}, err
	}
	return httptransport.GetAuthorResponse{
		Author:     mapAuthor(result.Author),
		Articles:   mapArticles(result.Articles),
		NextCursor: result.NextCursor,
	}, nil
}

// ListTagsHandler godoc
// @Summary List tags
// @Tags article-library
// @Produce json
// @Param cursor query string false "Cursor token"
// @Param limit query int false "Page size (max 50)"
// @Success 200 {object} httptransport.ListTagsResponse
// @Router /api/v1/tags [get]
func (h Handler) ListTagsHandler(ctx context.Context, cursor string, limit int) (httptransport.ListTagsResponse, error) {
	result, err := h.ListTags.Execute(ctx, queries.ListTagsQuery{Cursor: cursor, Limit: limit})
	if err != nil {
		return httptransport.ListTagsResponse{}, err
	}
	items := make([]httptransport.TagDTO, 0, len(result.Items))
	for _, tag := range result.Items {
		items = append(items, mapTag(tag))
	}
	return httptransport.ListTagsResponse{Items: items, NextCursor: result.NextCursor}, nil
}

// ListTagArticlesHandler godoc
// @Summary List published articles carrying a tag
// @Description Unknown tags yield an empty list.
// @Tags article-library
// @Produce json
// @Param tag_id path string true "Tag id"
// @Param cursor query string false "Cursor token"
// @Param limit query int false "Page size (max 50)"
// @Success 200 {object} httptransport.ListTagArticlesResponse
// @Router /api/v1/tags/{tag_id}/articles [get]
func (h Handler) ListTagArticlesHandler(ctx context.Context, tagID string, cursor string, limit int) (httptransport.ListTagArticlesResponse, error) {
	result, err := h.ListTagArticles.Execute(ctx, queries.ListTagArticlesQuery{TagID: tagID, Cursor: cursor, Limit: limit})
	if err != nil {
		return httptransport.ListTagArticlesResponse{}, err
	}
	resp := httptransport.ListTagArticlesResponse{
		Items:      mapArticles(result.Items),
		NextCursor: result.NextCursor,
	}
	if result.TagFound {
		tag := mapTag(result.Tag)
		resp.Tag = &tag
	}
	return resp, nil
}

// Authenticate resolves Basic credentials to a staff author.
func (h Handler) Authenticate(ctx context.Context, username string, password string) (entities.Author, error) {
	return h.AuthenticateStaff.Execute(ctx, queries.AuthenticateStaffQuery{Username: username, Password: password})
}

// AdminListAuthorsHandler godoc
// @Summary Admin: list authors
// @Tags article-library-admin
// @Produce json
// @Security BasicAuth
// @Param cursor query string false "Cursor token"
// @Param limit query int false "Page size (max 50)"
// @Success 200 {object} httptransport.AdminListAuthorsResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /admin/api/v1/authors [get]
func (h Handler) AdminListAuthorsHandler(ctx context.Context, cursor string, limit int) (httptransport.AdminListAuthorsResponse, error) {
	result, err := h.ListAuthors.Execute(ctx, queries.ListAuthorsQuery{Cursor: cursor, Limit: limit})
	if err != nil {
		return httptransport.AdminListAuthorsResponse{}, err
	}
	items := make([]httptransport.AdminAuthorDTO, 0, len(result.Items))
	for _, author := range result.Items {
		items = append(items, mapAdminAuthor(author))
	}
	return httptransport.AdminListAuthorsResponse{Items: items, NextCursor: result.NextCursor}, nil
}

// CreateAuthorHandler godoc
// @Summary Admin: create an author
// @Tags article-library-admin
// @Accept json
// @Produce json
// @Security BasicAuth
// @Param request body httptransport.CreateAuthorRequest true "Author payload"
// @Success 201 {object} httptransport.AdminAuthorResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /admin/api/v1/authors [post]
func (h Handler) CreateAuthorHandler(ctx context.Context, req httptransport.CreateAuthorRequest) (httptransport.AdminAuthorResponse, error) {
	author, err := h.CreateAuthor.Execute(ctx, commands.CreateAuthorCommand{
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Bio:         req.Bio,
		IsStaff:     req.IsStaff,
		Password:    req.Password,
	})
	if err != nil {
		return httptransport.AdminAuthorResponse{}, err
	}
	return httptransport.AdminAuthorResponse{Author: mapAdminAuthor(author)}, nil
}

// UpdateAuthorHandler godoc
// @Summary Admin: update an author
// @Description An empty password keeps the current one.
// @Tags article-library-admin
// @Accept json
// @Produce json
// @Security BasicAuth
// @Param author_id path string true "Author id"
// @Param request body httptransport.UpdateAuthorRequest true "Author payload"
// @Success 200 {object} httptransport.AdminAuthorResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /admin/api/v1/authors/{author_id} [put]
func (h Handler) UpdateAuthorHandler(ctx context.Context, authorID string, req httptransport.UpdateAuthorRequest) (httptransport.AdminAuthorResponse, error) {
	author, err := h.UpdateAuthor.Execute(ctx, commands.UpdateAuthorCommand{
		AuthorID:    authorID,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Bio:         req.Bio,
		IsStaff:     req.IsStaff,
		Password:    req.Password,
	})
	if err != nil {
		return httptransport.AdminAuthorResponse{}, err
	}
	return httptransport.AdminAuthorResponse{Author: mapAdminAuthor(author)}, nil
}

// DeleteAuthorHandler godoc
// @Summary Admin: delete an author and their articles
// @Tags article-library-admin
// @Security BasicAuth
// @Param author_id path string true "Author id"
// @Success 204
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /admin/api/v1/authors/{author_id} [delete]
func (h Handler) DeleteAuthorHandler(ctx context.Context, authorID string) error {
	return h.DeleteAuthor.Execute(ctx, authorID)
}

// AdminListTagsHandler godoc
// @Summary Admin: list tags
// @Tags article-library-admin
// @Produce json
// @Security BasicAuth
// @Success 200 {object} httptransport.ListTagsResponse
// @Router /admin/api/v1/tags [get]
func (h Handler) AdminListTagsHandler(ctx context.Context, cursor string, limit int) (httptransport.ListTagsResponse, error) {
	return h.ListTagsHandler(ctx, cursor, limit)
}

// CreateTagHandler godoc
// @Summary Admin: create a tag
// @Tags article-library-admin
// @Accept json
// @Produce json
// @Security BasicAuth
// @Param request body httptransport.TagRequest true "Tag payload"
// @Success 201 {object} httptransport.TagResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /admin/api/v1/tags [post]
func (h Handler) CreateTagHandler(ctx context.Context, req httptransport.TagRequest) (httptransport.TagResponse, error) {
	tag, err := h.CreateTag.Execute(ctx, req.Name)
	if err != nil {
		return httptransport.TagResponse{}, err
	}
	return httptransport.TagResponse{Tag: mapTag(tag)}, nil
}

// RenameTagHandler godoc
// @Summary Admin: rename a tag
// @Tags article-library-admin
// @Accept json
// @Produce json
// @Security BasicAuth
// @Param tag_id path string true "Tag id"
// @Param request body httptransport.TagRequest true "Tag payload"
// @Success 200 {object} httptransport.TagResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /admin/api/v1/tags/{tag_id} [put]
func (h Handler) RenameTagHandler(ctx context.Context, tagID string, req httptransport.TagRequest) (httptransport.TagResponse, error) {
	tag, err := h.RenameTag.Execute(ctx, tagID, req.Name)
	if err != nil {
		return httptransport.TagResponse{}, err
	}
	return httptransport.TagResponse{Tag: mapTag(tag)}, nil
}

// DeleteTagHandler godoc
// @Summary Admin: delete a tag
// @Tags article-library-admin
// @Security BasicAuth
// @Param tag_id path string true "Tag id"
// @Success 204
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /admin/api/v1/tags/{tag_id} [delete]
func (h Handler) DeleteTagHandler(ctx context.Context, tagID string) error {
	return h.DeleteTag.Execute(ctx, tagID)
}

// AdminListArticlesHandler godoc
// @Summary Admin: list articles including drafts
// @Tags article-library-admin
// @Produce json
// @Security BasicAuth
// @Param author_id query string false "Author filter"
// @Param tag_id query string false "Tag filter"
// @Param pub_date query string false "Date filter: today,past_7_days,this_month,this_year"
// @Param cursor query string false "Cursor token"
// @Param limit query int false "Page size (max 50)"
// @Success 200 {object} httptransport.AdminListArticlesResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /admin/api/v1/articles [get]
func (h Handler) AdminListArticlesHandler(
	ctx context.Context,
	query queries.AdminListArticlesQuery,
) (httptransport.AdminListArticlesResponse, error) {
	result, err := h.AdminListArticles.Execute(ctx, query)
	if err != nil {
		return httptransport.AdminListArticlesResponse{}, err
	}
	now := h.now()
	items := make([]httptransport.AdminArticleDTO, 0, len(result.Items))
	for _, article := range result.Items {
		items = append(items, mapAdminArticle(article, now))
	}
	return httptransport.AdminListArticlesResponse{Items: items, NextCursor: result.NextCursor}, nil
}

// AdminGetArticleHandler godoc
// @Summary Admin: get any article
// @Tags article-library-admin
// @Produce json
// @Security BasicAuth
// @Param article_id path string true "Article id"
// @Success 200 {object} httptransport.AdminArticleResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /admin/api/v1/articles/{article_id} [get]
func (h Handler) AdminGetArticleHandler(ctx context.Context, articleID string) (httptransport.AdminArticleResponse, error) {
	article, err := h.AdminGetArticle.Execute(ctx, articleID)
	if err != nil {
		return httptransport.AdminArticleResponse{}, err
	}
	return httptransport.AdminArticleResponse{Article: mapAdminArticle(article, h.now())}, nil
}

// CreateArticleHandler godoc
// @Summary Admin: create an article
// @Tags article-library-admin
// @Accept json
// @Produce json
// @Security BasicAuth
// @Param Idempotency-Key header string false "Idempotency key"
// @Param request body httptransport.ArticleRequest true "Article payload"
// @Success 201 {object} httptransport.AdminArticleResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /admin/api/v1/articles [post]
func (h Handler) CreateArticleHandler(
	ctx context.Context,
	idempotencyKey string,
	req httptransport.ArticleRequest,
) (httptransport.AdminArticleResponse, error) {
	input, err := articleInput(req)
	if err != nil {
		return httptransport.AdminArticleResponse{}, err
	}
	result, err := h.CreateArticle.Execute(ctx, commands.CreateArticleCommand{
		ArticleInput:   input,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return httptransport.AdminArticleResponse{}, err
	}
	return httptransport.AdminArticleResponse{
		Article:  mapAdminArticle(result.Article, h.now()),
		Replayed: result.Replayed,
	}, nil
}

// UpdateArticleHandler godoc
// @Summary Admin: replace an article
// @Tags article-library-admin
// @Accept json
// @Produce json
// @Security BasicAuth
// @Param article_id path string true "Article id"
// @Param request body httptransport.ArticleRequest true "Article payload"
// @Success 200 {object} httptransport.AdminArticleResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /admin/api/v1/articles/{article_id} [put]
func (h Handler) UpdateArticleHandler(
	ctx context.Context,
	articleID string,
	req httptransport.ArticleRequest,
) (httptransport.AdminArticleResponse, error) {
	input, err := articleInput(req)
	if err != nil {
		return httptransport.AdminArticleResponse{}, err
	}
	article, err := h.UpdateArticle.Execute(ctx, commands.UpdateArticleCommand{
		ArticleID:    articleID,
		ArticleInput: input,
	})
	if err != nil {
		return httptransport.AdminArticleResponse{}, err
	}
	return httptransport.AdminArticleResponse{Article: mapAdminArticle(article, h.now())}, nil
}

// DeleteArticleHandler godoc
// @Summary Admin: delete an article
// @Tags article-library-admin
// @Security BasicAuth
// @Param article_id path string true "Article id"
// @Success 204
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /admin/api/v1/articles/{article_id} [delete]
func (h Handler) DeleteArticleHandler(ctx context.Context, articleID string) error {
	return h.DeleteArticle.Execute(ctx, articleID)
}

func (h Handler) now() time.Time {
	if h.Clock == nil {
		return time.Now().UTC()
	}
	return h.Clock.Now().UTC()
}

func articleInput(req httptransport.ArticleRequest) (commands.ArticleInput, error) {
	pubDate, err := ParsePubDate(req.PubDate)
	if err != nil {
		return commands.ArticleInput{}, err
	}
	return commands.ArticleInput{
		Title:    req.Title,
		AuthorID: req.AuthorID,
		TagIDs:   append([]string(nil), req.TagIDs...),
		PubDate:  pubDate,
		Content:  req.Content,
	}, nil
}

var pubDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParsePubDate accepts RFC3339 or a naive date/time, which is read as UTC.
func ParsePubDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: pub_date is required", domainerrors.ErrInvalidArticle)
	}
	for _, layout := range pubDateLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: pub_date %q is not a date", domainerrors.ErrInvalidArticle, value)
}

func mapAuthor(author entities.Author) httptransport.AuthorDTO {
	return httptransport.AuthorDTO{
		AuthorID:    author.AuthorID,
		Username:    author.Username,
		DisplayName: author.DisplayName,
		Name:        author.Name(),
		Email:       author.Email,
		Bio:         author.Bio,
		CreatedAt:   author.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func mapAdminAuthor(author entities.Author) httptransport.AdminAuthorDTO {
	return httptransport.AdminAuthorDTO{
		AuthorDTO: mapAuthor(author),
		IsStaff:   author.IsStaff,
		UpdatedAt: author.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func mapTag(tag entities.Tag) httptransport.TagDTO {
	return httptransport.TagDTO{
		TagID: tag.TagID,
		Name:  tag.Name,
	}
}

func mapArticle(article entities.Article) httptransport.ArticleDTO {
	tags := make([]httptransport.TagDTO, 0, len(article.Tags))
	for _, tag := range article.RelatedTags() {
		tags = append(tags, mapTag(tag))
	}
	return httptransport.ArticleDTO{
		ArticleID:  article.ArticleID,
		Title:      article.Title,
		AuthorID:   article.AuthorID,
		AuthorName: article.Author.Name(),
		Tags:       tags,
		TagsAsStr:  article.TagsAsString(),
		PubDate:    article.PubDate.UTC().Format(time.RFC3339),
		Content:    article.Content,
	}
}

func mapArticles(articles []entities.Article) []httptransport.ArticleDTO {
	items := make([]httptransport.ArticleDTO, 0, len(articles))
	for _, article := range articles {
		items = append(items, mapArticle(article))
	}
	return items
}

func mapAdminArticle(article entities.Article, now time.Time) httptransport.AdminArticleDTO {
	dto := httptransport.AdminArticleDTO{
		ArticleDTO: mapArticle(article),
		Published:  article.IsPublished(now),
		CreatedAt:  article.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  article.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if article.AnnouncedAt != nil {
		dto.AnnouncedAt = article.AnnouncedAt.UTC().Format(time.RFC3339)
	}
	return dto
}
