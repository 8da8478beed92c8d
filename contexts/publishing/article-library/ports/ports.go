package ports

import (
	"context"
	"encoding/json"
	"time"

	"library/contexts/publishing/article-library/domain/entities"
	contractsv1 "library/contracts/gen/events/v1"
)

// Page is a cursor window over an ordered listing.
type Page struct {
	Cursor string
	Limit  int
}

// AuthorRepository owns author accounts. Authors are listed by username.
type AuthorRepository interface {
	ListAuthors(ctx context.Context, page Page) ([]entities.Author, string, error)
	GetAuthor(ctx context.Context, authorID string) (entities.Author, error)
	GetAuthorByUsername(ctx context.Context, username string) (entities.Author, error)
	CreateAuthor(ctx context.Context, author entities.Author) error
	UpdateAuthor(ctx context.Context, author entities.Author) error
	// DeleteAuthor removes the author together with all of their articles.
	DeleteAuthor(ctx context.Context, authorID string) error
}

// TagRepository owns tags. Tags are listed by name.
type TagRepository interface {
	ListTags(ctx context.Context, page Page) ([]entities.Tag, string, error)
	GetTag(ctx context.Context, tagID string) (entities.Tag, error)
	// GetTags resolves every id or fails with ErrTagNotFound.
	GetTags(ctx context.Context, tagIDs []string) ([]entities.Tag, error)
	CreateTag(ctx context.Context, tag entities.Tag) error
	UpdateTag(ctx context.Context, tag entities.Tag) error
	// DeleteTag removes the tag and its article associations.
	DeleteTag(ctx context.Context, tagID string) error
}

// ArticleListFilter narrows article listings. Zero values mean "no filter".
// When PublishedAsOf is set only articles visible to visitors at that instant
// are returned.
type ArticleListFilter struct {
	PublishedAsOf time.Time
	AuthorID      string
	TagID         string
	PubDateFrom   time.Time
	PubDateTo     time.Time
	Page          Page
}

const (
	EventArticleCreated   = "article.created"
	EventArticleUpdated   = "article.updated"
	EventArticleDeleted   = "article.deleted"
	EventArticlePublished = "article.published"

	SourceService = "article-library"
)

// ArticleEvent is the outbound integration payload persisted to the outbox.
type ArticleEvent struct {
	EventID    string
	EventType  string
	ArticleID  string
	AuthorID   string
	Title      string
	PubDate    time.Time
	OccurredAt time.Time
}

// Envelope renders the event in its wire form, partitioned by article.
func (e ArticleEvent) Envelope() (EventEnvelope, error) {
	data, err := json.Marshal(map[string]string{
		"article_id": e.ArticleID,
		"author_id":  e.AuthorID,
		"title":      e.Title,
		"pub_date":   e.PubDate.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return EventEnvelope{}, err
	}
	return EventEnvelope{
		EventID:       e.EventID,
		EventType:     e.EventType,
		OccurredAt:    e.OccurredAt.UTC(),
		SourceService: SourceService,
		SchemaVersion: 1,
		EntityType:    "article",
		PartitionKey:  e.ArticleID,
		Data:          data,
	}, nil
}

// ArticleRepository owns articles, their tag links and the outbox rows that
// accompany every article write.
type ArticleRepository interface {
	ListArticles(ctx context.Context, filter ArticleListFilter) ([]entities.Article, string, error)
	GetArticle(ctx context.Context, articleID string) (entities.Article, error)
	// CreateArticleWithOutbox stores the article, its outbox event and, when
	// record is non-nil, the idempotency record in one transaction. A live
	// record already holding the key fails with ErrIdempotencyKeyTaken.
	CreateArticleWithOutbox(ctx context.Context, article entities.Article, event ArticleEvent, record *IdempotencyRecord) error
	UpdateArticleWithOutbox(ctx context.Context, article entities.Article, event ArticleEvent) error
	DeleteArticleWithOutbox(ctx context.Context, articleID string, event ArticleEvent) error
	// ListUnannounced returns visible articles that were never announced, oldest pub_date first.
	ListUnannounced(ctx context.Context, now time.Time, limit int) ([]entities.Article, error)
	MarkAnnouncedWithOutbox(ctx context.Context, articleID string, announcedAt time.Time, event ArticleEvent) error
}

// IdempotencyRecord captures dedupe metadata for article creation.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	ArticleID   string
	ExpiresAt   time.Time
}

type IdempotencyStore interface {
	Get(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
}

// PasswordHasher keeps the hashing algorithm out of the application layer.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// OutboxMessage is a row ready to relay from the module outbox.
type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error
}

type EventEnvelope = contractsv1.Envelope

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

// WorkerMetrics receives per-cycle counts from background workers.
type WorkerMetrics interface {
	ObserveAnnounced(count int)
	ObserveRelayed(count int)
}
