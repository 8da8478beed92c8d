package postgresadapter

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"library/contexts/publishing/article-library/domain/entities"
	domainerrors "library/contexts/publishing/article-library/domain/errors"
	"library/contexts/publishing/article-library/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending = "pending"
	outboxStatusSent    = "sent"
)

// Repository implements every article-library port on gorm. Queries stick to
// portable SQL so the same code serves Postgres and SQLite.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Migrate creates or updates the tables owned by this module.
func (r *Repository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(
		&authorModel{},
		&tagModel{},
		&articleModel{},
		&articleTagModel{},
		&idempotencyModel{},
		&outboxModel{},
	)
}

func (r *Repository) ListAuthors(ctx context.Context, page ports.Page) ([]entities.Author, string, error) {
	limit, offset := pageBounds(page)

	var rows []authorModel
	if err := r.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "username"}}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "author_id"}}).
		Offset(offset).
		Limit(limit + 1).
		Find(&rows).
		Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > limit {
		nextCursor = encodeCursor(offset + limit)
		rows = rows[:limit]
	}
	items := make([]entities.Author, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nextCursor, nil
}

func (r *Repository) GetAuthor(ctx context.Context, authorID string) (entities.Author, error) {
	return r.findAuthor(ctx, "author_id = ?", authorID)
}

func (r *Repository) GetAuthorByUsername(ctx context.Context, username string) (entities.Author, error) {
	return r.findAuthor(ctx, "username = ?", username)
}

func (r *Repository) findAuthor(ctx context.Context, condition string, value string) (entities.Author, error) {
	var row authorModel
	err := r.db.WithContext(ctx).
		Where(condition, value).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Author{}, domainerrors.ErrAuthorNotFound
		}
		return entities.Author{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) CreateAuthor(ctx context.Context, author entities.Author) error {
	row := authorModelFromEntity(author)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrDuplicateUsername
		}
		return err
	}
	return nil
}

func (r *Repository) UpdateAuthor(ctx context.Context, author entities.Author) error {
	result := r.db.WithContext(ctx).
		Model(&authorModel{}).
		Where("author_id = ?", author.AuthorID).
		Updates(map[string]any{
			"username":      author.Username,
			"display_name":  author.DisplayName,
			"email":         author.Email,
			"bio":           author.Bio,
			"is_staff":      author.IsStaff,
			"password_hash": author.PasswordHash,
			"updated_at":    author.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domainerrors.ErrDuplicateUsername
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrAuthorNotFound
	}
	return nil
}

func (r *Repository) DeleteAuthor(ctx context.Context, authorID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		authored := tx.Model(&articleModel{}).Select("article_id").Where("author_id = ?", authorID)
		if err := tx.Where("article_id IN (?)", authored).Delete(&articleTagModel{}).Error; err != nil {
			return err
		}
		articles := tx.Where("author_id = ?", authorID).Delete(&articleModel{})
		if articles.Error != nil {
			return articles.Error
		}
		result := tx.Where("author_id = ?", authorID).Delete(&authorModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrAuthorNotFound
		}

		r.logger.Info("author deleted with cascade",
			"event", "postgres_delete_author",
			"module", "publishing/article-library",
			"layer", "adapter",
			"author_id", authorID,
			"articles_removed", articles.RowsAffected,
		)
		return nil
	})
}

func (r *Repository) ListTags(ctx context.Context, page ports.Page) ([]entities.Tag, string, error) {
	limit, offset := pageBounds(page)

	var rows []tagModel
	if err := r.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "name"}}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "tag_id"}}).
		Offset(offset).
		Limit(limit + 1).
		Find(&rows).
		Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > limit {
		nextCursor = encodeCursor(offset + limit)
		rows = rows[:limit]
	}
	items := make([]entities.Tag, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nextCursor, nil
}

func (r *Repository) GetTag(ctx context.Context, tagID string) (entities.Tag, error) {
	var row tagModel
	err := r.db.WithContext(ctx).
		Where("tag_id = ?", tagID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Tag{}, domainerrors.ErrTagNotFound
		}
		return entities.Tag{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetTags(ctx context.Context, tagIDs []string) ([]entities.Tag, error) {
	if len(tagIDs) == 0 {
		return nil, nil
	}
	var rows []tagModel
	if err := r.db.WithContext(ctx).
		Where("tag_id IN ?", tagIDs).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	if len(rows) != len(tagIDs) {
		return nil, domainerrors.ErrTagNotFound
	}
	items := make([]entities.Tag, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return entities.SortTags(items), nil
}

func (r *Repository) CreateTag(ctx context.Context, tag entities.Tag) error {
	row := tagModelFromEntity(tag)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrDuplicateTagName
		}
		return err
	}
	return nil
}

func (r *Repository) UpdateTag(ctx context.Context, tag entities.Tag) error {
	result := r.db.WithContext(ctx).
		Model(&tagModel{}).
		Where("tag_id = ?", tag.TagID).
		Updates(map[string]any{
			"name":     tag.Name,
			"name_key": tagNameKey(tag.Name),
		})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domainerrors.ErrDuplicateTagName
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrTagNotFound
	}
	return nil
}

func (r *Repository) DeleteTag(ctx context.Context, tagID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", tagID).Delete(&articleTagModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("tag_id = ?", tagID).Delete(&tagModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrTagNotFound
		}
		return nil
	})
}

func (r *Repository) ListArticles(ctx context.Context, filter ports.ArticleListFilter) ([]entities.Article, string, error) {
	limit, offset := pageBounds(filter.Page)

	tx := r.db.WithContext(ctx).Model(&articleModel{})
	if !filter.PublishedAsOf.IsZero() {
		tx = applyPublished(tx, filter.PublishedAsOf)
	}
	if filter.AuthorID != "" {
		tx = tx.Where("articles.author_id = ?", filter.AuthorID)
	}
	if filter.TagID != "" {
		tx = tx.Where(
			"EXISTS (SELECT 1 FROM article_tags WHERE article_tags.article_id = articles.article_id AND article_tags.tag_id = ?)",
			filter.TagID,
		)
	}
	if !filter.PubDateFrom.IsZero() {
		tx = tx.Where("articles.pub_date >= ?", filter.PubDateFrom.UTC())
	}
	if !filter.PubDateTo.IsZero() {
		tx = tx.Where("articles.pub_date < ?", filter.PubDateTo.UTC())
	}

	var rows []articleModel
	if err := tx.
		Order(clause.OrderByColumn{Column: clause.Column{Table: "articles", Name: "pub_date"}, Desc: true}).
		Order(clause.OrderByColumn{Column: clause.Column{Table: "articles", Name: "article_id"}}).
		Offset(offset).
		Limit(limit + 1).
		Find(&rows).
		Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > limit {
		nextCursor = encodeCursor(offset + limit)
		rows = rows[:limit]
	}

	items, err := r.hydrate(ctx, r.db, rows)
	if err != nil {
		return nil, "", err
	}
	return items, nextCursor, nil
}

func (r *Repository) GetArticle(ctx context.Context, articleID string) (entities.Article, error) {
	var row articleModel
	err := r.db.WithContext(ctx).
		Where("article_id = ?", articleID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Article{}, domainerrors.ErrArticleNotFound
		}
		return entities.Article{}, err
	}
	items, err := r.hydrate(ctx, r.db, []articleModel{row})
	if err != nil {
		return entities.Article{}, err
	}
	return items[0], nil
}

func (r *Repository) CreateArticleWithOutbox(
	ctx context.Context,
	article entities.Article,
	event ports.ArticleEvent,
	record *ports.IdempotencyRecord,
) error {
	outboxRow, err := outboxModelFromEvent(event)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if record != nil {
			if err := reserveIdempotency(tx, *record, article.CreatedAt); err != nil {
				return err
			}
		}
		row := articleModelFromEntity(article)
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrRepositoryInvariantBroke
			}
			return err
		}
		if err := replaceArticleTags(tx, article); err != nil {
			return err
		}
		return createOutbox(tx, outboxRow)
	})
}

func (r *Repository) UpdateArticleWithOutbox(ctx context.Context, article entities.Article, event ports.ArticleEvent) error {
	outboxRow, err := outboxModelFromEvent(event)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&articleModel{}).
			Where("article_id = ?", article.ArticleID).
			Updates(map[string]any{
				"title":      article.Title,
				"author_id":  article.AuthorID,
				"pub_date":   article.PubDate.UTC(),
				"content":    article.Content,
				"updated_at": article.UpdatedAt.UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrArticleNotFound
		}
		if err := tx.Where("article_id = ?", article.ArticleID).Delete(&articleTagModel{}).Error; err != nil {
			return err
		}
		if err := replaceArticleTags(tx, article); err != nil {
			return err
		}
		return createOutbox(tx, outboxRow)
	})
}

func (r *Repository) DeleteArticleWithOutbox(ctx context.Context, articleID string, event ports.ArticleEvent) error {
	outboxRow, err := outboxModelFromEvent(event)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", articleID).Delete(&articleTagModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("article_id = ?", articleID).Delete(&articleModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrArticleNotFound
		}
		return createOutbox(tx, outboxRow)
	})
}

func (r *Repository) ListUnannounced(ctx context.Context, now time.Time, limit int) ([]entities.Article, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []articleModel
	if err := applyPublished(r.db.WithContext(ctx).Model(&articleModel{}), now).
		Where("articles.announced_at IS NULL").
		Order(clause.OrderByColumn{Column: clause.Column{Table: "articles", Name: "pub_date"}}).
		Order(clause.OrderByColumn{Column: clause.Column{Table: "articles", Name: "article_id"}}).
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	return r.hydrate(ctx, r.db, rows)
}

func (r *Repository) MarkAnnouncedWithOutbox(
	ctx context.Context,
	articleID string,
	announcedAt time.Time,
	event ports.ArticleEvent,
) error {
	outboxRow, err := outboxModelFromEvent(event)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&articleModel{}).
			Where("article_id = ? AND announced_at IS NULL", articleID).
			Update("announced_at", announcedAt.UTC())
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Already announced by a concurrent sweep, or deleted since listing.
			return nil
		}
		return createOutbox(tx, outboxRow)
	})
}

func (r *Repository) Get(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.db.WithContext(ctx).
		Where("idempotency_key = ?", key).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IdempotencyRecord{}, false, nil
		}
		return ports.IdempotencyRecord{}, false, err
	}

	if !row.ExpiresAt.IsZero() && now.UTC().After(row.ExpiresAt.UTC()) {
		if err := r.db.WithContext(ctx).
			Where("idempotency_key = ?", key).
			Delete(&idempotencyModel{}).
			Error; err != nil {
			return ports.IdempotencyRecord{}, false, err
		}
		return ports.IdempotencyRecord{}, false, nil
	}

	return row.toPort(), true, nil
}

// reserveIdempotency claims record.Key inside tx. Expired holders are dropped
// first; the primary key serializes concurrent claims.
func reserveIdempotency(tx *gorm.DB, record ports.IdempotencyRecord, now time.Time) error {
	if err := tx.
		Where("idempotency_key = ? AND expires_at < ?", record.Key, now.UTC()).
		Delete(&idempotencyModel{}).
		Error; err != nil {
		return err
	}

	row := idempotencyModel{
		Key:         record.Key,
		RequestHash: record.RequestHash,
		ArticleID:   record.ArticleID,
		ExpiresAt:   record.ExpiresAt.UTC(),
	}
	result := tx.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "idempotency_key"}},
			DoNothing: true,
		}).
		Create(&row)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrIdempotencyKeyTaken
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Order("outbox_id ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toPort())
	}
	return items, nil
}

func (r *Repository) MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"status":  outboxStatusSent,
			"sent_at": sentAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	return nil
}

// hydrate attaches authors and tags to article rows with two batched queries.
func (r *Repository) hydrate(ctx context.Context, db *gorm.DB, rows []articleModel) ([]entities.Article, error) {
	if len(rows) == 0 {
		return []entities.Article{}, nil
	}

	articleIDs := make([]string, 0, len(rows))
	authorIDs := make([]string, 0, len(rows))
	seenAuthor := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		articleIDs = append(articleIDs, row.ArticleID)
		if _, ok := seenAuthor[row.AuthorID]; !ok {
			seenAuthor[row.AuthorID] = struct{}{}
			authorIDs = append(authorIDs, row.AuthorID)
		}
	}

	var authorRows []authorModel
	if err := db.WithContext(ctx).Where("author_id IN ?", authorIDs).Find(&authorRows).Error; err != nil {
		return nil, err
	}
	authors := make(map[string]entities.Author, len(authorRows))
	for _, row := range authorRows {
		authors[row.AuthorID] = row.toEntity()
	}

	var links []articleTagLink
	if err := db.WithContext(ctx).
		Table("article_tags").
		Select("article_tags.article_id, tags.tag_id, tags.name, tags.created_at").
		Joins("JOIN tags ON tags.tag_id = article_tags.tag_id").
		Where("article_tags.article_id IN ?", articleIDs).
		Scan(&links).
		Error; err != nil {
		return nil, err
	}
	tagsByArticle := make(map[string][]entities.Tag, len(rows))
	for _, link := range links {
		tagsByArticle[link.ArticleID] = append(tagsByArticle[link.ArticleID], entities.Tag{
			TagID:     link.TagID,
			Name:      link.Name,
			CreatedAt: link.CreatedAt.UTC(),
		})
	}

	items := make([]entities.Article, 0, len(rows))
	for _, row := range rows {
		article := row.toEntity()
		article.Author = authors[row.AuthorID]
		article.Tags = entities.SortTags(tagsByArticle[row.ArticleID])
		items = append(items, article)
	}
	return items, nil
}

func applyPublished(tx *gorm.DB, asOf time.Time) *gorm.DB {
	return tx.
		Where("articles.pub_date <= ?", asOf.UTC()).
		Where("articles.title <> ''").
		Where("articles.content <> ''").
		Where("EXISTS (SELECT 1 FROM article_tags WHERE article_tags.article_id = articles.article_id)")
}

func replaceArticleTags(tx *gorm.DB, article entities.Article) error {
	if len(article.Tags) == 0 {
		return nil
	}
	links := make([]articleTagModel, 0, len(article.Tags))
	for _, tag := range article.Tags {
		links = append(links, articleTagModel{ArticleID: article.ArticleID, TagID: tag.TagID})
	}
	return tx.Create(&links).Error
}

func createOutbox(tx *gorm.DB, row outboxModel) error {
	if err := tx.Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrRepositoryInvariantBroke
		}
		return err
	}
	return nil
}

func outboxModelFromEvent(event ports.ArticleEvent) (outboxModel, error) {
	envelope, err := event.Envelope()
	if err != nil {
		return outboxModel{}, err
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return outboxModel{}, err
	}
	return outboxModel{
		OutboxID:     event.EventID,
		EventType:    event.EventType,
		PartitionKey: event.ArticleID,
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    event.OccurredAt.UTC(),
	}, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func pageBounds(page ports.Page) (int, int) {
	limit := page.Limit
	if limit <= 0 {
		limit = 20
	}
	return limit, decodeCursor(page.Cursor)
}

func decodeCursor(cursor string) int {
	if strings.TrimSpace(cursor) == "" {
		return 0
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return 0
	}
	index, err := strconv.Atoi(string(raw))
	if err != nil || index < 0 {
		return 0
	}
	return index
}

func encodeCursor(offset int) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}
