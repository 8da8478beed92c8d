package postgresadapter

import (
	"strings"
	"time"

	"library/contexts/publishing/article-library/domain/entities"
	"library/contexts/publishing/article-library/ports"
)

type authorModel struct {
	AuthorID     string    `gorm:"column:author_id;primaryKey"`
	Username     string    `gorm:"column:username;size:150;not null;uniqueIndex:authors_username_unique"`
	DisplayName  string    `gorm:"column:display_name"`
	Email        string    `gorm:"column:email"`
	Bio          string    `gorm:"column:bio"`
	IsStaff      bool      `gorm:"column:is_staff;not null;default:false"`
	PasswordHash string    `gorm:"column:password_hash"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (authorModel) TableName() string {
	return "authors"
}

func authorModelFromEntity(author entities.Author) authorModel {
	return authorModel{
		AuthorID:     author.AuthorID,
		Username:     author.Username,
		DisplayName:  author.DisplayName,
		Email:        author.Email,
		Bio:          author.Bio,
		IsStaff:      author.IsStaff,
		PasswordHash: author.PasswordHash,
		CreatedAt:    author.CreatedAt.UTC(),
		UpdatedAt:    author.UpdatedAt.UTC(),
	}
}

func (m authorModel) toEntity() entities.Author {
	return entities.Author{
		AuthorID:     m.AuthorID,
		Username:     m.Username,
		DisplayName:  m.DisplayName,
		Email:        m.Email,
		Bio:          m.Bio,
		IsStaff:      m.IsStaff,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

// tagModel keeps a lowered copy of the name so uniqueness is
// case-insensitive on every dialect.
type tagModel struct {
	TagID     string    `gorm:"column:tag_id;primaryKey"`
	Name      string    `gorm:"column:name;size:100;not null;index:tags_name_idx"`
	NameKey   string    `gorm:"column:name_key;size:100;not null;uniqueIndex:tags_name_key_unique"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (tagModel) TableName() string {
	return "tags"
}

func tagModelFromEntity(tag entities.Tag) tagModel {
	return tagModel{
		TagID:     tag.TagID,
		Name:      tag.Name,
		NameKey:   tagNameKey(tag.Name),
		CreatedAt: tag.CreatedAt.UTC(),
	}
}

func (m tagModel) toEntity() entities.Tag {
	return entities.Tag{
		TagID:     m.TagID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt.UTC(),
	}
}

func tagNameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

type articleModel struct {
	ArticleID   string     `gorm:"column:article_id;primaryKey"`
	Title       string     `gorm:"column:title;size:150;not null"`
	AuthorID    string     `gorm:"column:author_id;not null;index:articles_author_idx"`
	PubDate     time.Time  `gorm:"column:pub_date;not null;index:articles_pub_date_idx"`
	Content     string     `gorm:"column:content;type:text"`
	AnnouncedAt *time.Time `gorm:"column:announced_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (articleModel) TableName() string {
	return "articles"
}

func articleModelFromEntity(article entities.Article) articleModel {
	var announcedAt *time.Time
	if article.AnnouncedAt != nil {
		value := article.AnnouncedAt.UTC()
		announcedAt = &value
	}
	return articleModel{
		ArticleID:   article.ArticleID,
		Title:       article.Title,
		AuthorID:    article.AuthorID,
		PubDate:     article.PubDate.UTC(),
		Content:     article.Content,
		AnnouncedAt: announcedAt,
		CreatedAt:   article.CreatedAt.UTC(),
		UpdatedAt:   article.UpdatedAt.UTC(),
	}
}

func (m articleModel) toEntity() entities.Article {
	var announcedAt *time.Time
	if m.AnnouncedAt != nil {
		value := m.AnnouncedAt.UTC()
		announcedAt = &value
	}
	return entities.Article{
		ArticleID:   m.ArticleID,
		Title:       m.Title,
		AuthorID:    m.AuthorID,
		PubDate:     m.PubDate.UTC(),
		Content:     m.Content,
		AnnouncedAt: announcedAt,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

type articleTagModel struct {
	ArticleID string `gorm:"column:article_id;primaryKey"`
	TagID     string `gorm:"column:tag_id;primaryKey;index:article_tags_tag_idx"`
}

func (articleTagModel) TableName() string {
	return "article_tags"
}

// articleTagLink is the projection used when hydrating article tags.
type articleTagLink struct {
	ArticleID string    `gorm:"column:article_id"`
	TagID     string    `gorm:"column:tag_id"`
	Name      string    `gorm:"column:name"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

type idempotencyModel struct {
	Key         string    `gorm:"column:idempotency_key;primaryKey"`
	RequestHash string    `gorm:"column:request_hash"`
	ArticleID   string    `gorm:"column:article_id"`
	ExpiresAt   time.Time `gorm:"column:expires_at"`
}

func (idempotencyModel) TableName() string {
	return "article_library_idempotency"
}

func (m idempotencyModel) toPort() ports.IdempotencyRecord {
	return ports.IdempotencyRecord{
		Key:         m.Key,
		RequestHash: m.RequestHash,
		ArticleID:   m.ArticleID,
		ExpiresAt:   m.ExpiresAt.UTC(),
	}
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status;index:article_library_outbox_status_idx"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	SentAt       *time.Time `gorm:"column:sent_at"`
}

func (outboxModel) TableName() string {
	return "article_library_outbox"
}

func (m outboxModel) toPort() ports.OutboxMessage {
	return ports.OutboxMessage{
		OutboxID:     m.OutboxID,
		EventType:    m.EventType,
		PartitionKey: m.PartitionKey,
		Payload:      append([]byte(nil), m.Payload...),
		CreatedAt:    m.CreatedAt.UTC(),
	}
}
