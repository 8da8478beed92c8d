package memory

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	application "library/contexts/publishing/article-library/application"
	"library/contexts/publishing/article-library/domain/entities"
	domainerrors "library/contexts/publishing/article-library/domain/errors"
	"library/contexts/publishing/article-library/domain/services"
	"library/contexts/publishing/article-library/ports"
)

// Store is an in-memory adapter implementing the article-library ports for
// local runtime and tests. It is not intended as production persistence.
type Store struct {
	mu          sync.RWMutex
	authors     map[string]entities.Author
	tags        map[string]entities.Tag
	articles    map[string]articleRecord
	idempotency map[string]ports.IdempotencyRecord
	outbox      map[string]ports.OutboxMessage
	outboxOrder []string
	outboxSent  map[string]time.Time
	sequence    uint64
	clock       func() time.Time
	logger      *slog.Logger
}

// articleRecord stores tag links by id so renames show up on read.
type articleRecord struct {
	article entities.Article
	tagIDs  []string
}

func NewStore(logger *slog.Logger) *Store {
	return &Store{
		authors:     make(map[string]entities.Author),
		tags:        make(map[string]entities.Tag),
		articles:    make(map[string]articleRecord),
		idempotency: make(map[string]ports.IdempotencyRecord),
		outbox:      make(map[string]ports.OutboxMessage),
		outboxSent:  make(map[string]time.Time),
		clock:       func() time.Time { return time.Now().UTC() },
		logger:      application.ResolveLogger(logger),
	}
}

// SetClock pins Now for deterministic tests.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = now
}

func (s *Store) ListAuthors(_ context.Context, page ports.Page) ([]entities.Author, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Author, 0, len(s.authors))
	for _, author := range s.authors {
		items = append(items, author)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Username == items[j].Username {
			return items[i].AuthorID < items[j].AuthorID
		}
		return items[i].Username < items[j].Username
	})
	items, next := paginate(items, page)
	return items, next, nil
}

func (s *Store) GetAuthor(_ context.Context, authorID string) (entities.Author, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	author, ok := s.authors[authorID]
	if !ok {
		return entities.Author{}, domainerrors.ErrAuthorNotFound
	}
	return author, nil
}

func (s *Store) GetAuthorByUsername(_ context.Context, username string) (entities.Author, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, author := range s.authors {
		if author.Username == username {
			return author, nil
		}
	}
	return entities.Author{}, domainerrors.ErrAuthorNotFound
}

func (s *Store) CreateAuthor(_ context.Context, author entities.Author) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.authors[author.AuthorID]; exists {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	for _, existing := range s.authors {
		if existing.Username == author.Username {
			return domainerrors.ErrDuplicateUsername
		}
	}
	s.authors[author.AuthorID] = author
	return nil
}

func (s *Store) UpdateAuthor(_ context.Context, author entities.Author) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.authors[author.AuthorID]; !ok {
		return domainerrors.ErrAuthorNotFound
	}
	for id, existing := range s.authors {
		if id != author.AuthorID && existing.Username == author.Username {
			return domainerrors.ErrDuplicateUsername
		}
	}
	s.authors[author.AuthorID] = author
	return nil
}

func (s *Store) DeleteAuthor(_ context.Context, authorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.authors[authorID]; !ok {
		return domainerrors.ErrAuthorNotFound
	}
	delete(s.authors, authorID)
	removed := 0
	for id, record := range s.articles {
		if record.article.AuthorID == authorID {
			delete(s.articles, id)
			removed++
		}
	}

	s.logger.Debug("author deleted from memory store",
		"event", "memory_delete_author",
		"module", application.ModuleName,
		"layer", "adapter",
		"author_id", authorID,
		"articles_removed", removed,
	)
	return nil
}

func (s *Store) ListTags(_ context.Context, page ports.Page) ([]entities.Tag, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Tag, 0, len(s.tags))
	for _, tag := range s.tags {
		items = append(items, tag)
	}
	items = entities.SortTags(items)
	items, next := paginate(items, page)
	return items, next, nil
}

func (s *Store) GetTag(_ context.Context, tagID string) (entities.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tag, ok := s.tags[tagID]
	if !ok {
		return entities.Tag{}, domainerrors.ErrTagNotFound
	}
	return tag, nil
}

func (s *Store) GetTags(_ context.Context, tagIDs []string) ([]entities.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tags := make([]entities.Tag, 0, len(tagIDs))
	for _, id := range tagIDs {
		tag, ok := s.tags[id]
		if !ok {
			return nil, domainerrors.ErrTagNotFound
		}
		tags = append(tags, tag)
	}
	return entities.SortTags(tags), nil
}

func (s *Store) CreateTag(_ context.Context, tag entities.Tag) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tags[tag.TagID]; exists {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	if s.tagNameTaken(tag.TagID, tag.Name) {
		return domainerrors.ErrDuplicateTagName
	}
	s.tags[tag.TagID] = tag
	return nil
}

func (s *Store) UpdateTag(_ context.Context, tag entities.Tag) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tags[tag.TagID]; !ok {
		return domainerrors.ErrTagNotFound
	}
	if s.tagNameTaken(tag.TagID, tag.Name) {
		return domainerrors.ErrDuplicateTagName
	}
	s.tags[tag.TagID] = tag
	return nil
}

func (s *Store) DeleteTag(_ context.Context, tagID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tags[tagID]; !ok {
		return domainerrors.ErrTagNotFound
	}
	delete(s.tags, tagID)
	for id, record := range s.articles {
		filtered := record.tagIDs[:0:0]
		for _, linked := range record.tagIDs {
			if linked != tagID {
				filtered = append(filtered, linked)
			}
		}
		record.tagIDs = filtered
		s.articles[id] = record
	}
	return nil
}

func (s *Store) tagNameTaken(tagID string, name string) bool {
	for id, existing := range s.tags {
		if id != tagID && strings.EqualFold(existing.Name, name) {
			return true
		}
	}
	return false
}

func (s *Store) ListArticles(_ context.Context, filter ports.ArticleListFilter) ([]entities.Article, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Article, 0, len(s.articles))
	for _, record := range s.articles {
		article := s.hydrate(record)
		if filter.AuthorID != "" && article.AuthorID != filter.AuthorID {
			continue
		}
		if filter.TagID != "" && !article.HasTag(filter.TagID) {
			continue
		}
		if !filter.PubDateFrom.IsZero() && article.PubDate.Before(filter.PubDateFrom) {
			continue
		}
		if !filter.PubDateTo.IsZero() && !article.PubDate.Before(filter.PubDateTo) {
			continue
		}
		items = append(items, article)
	}
	if !filter.PublishedAsOf.IsZero() {
		items = services.FilterPublished(items, filter.PublishedAsOf)
	}
	sortArticles(items)

	items, next := paginate(items, filter.Page)
	s.logger.Debug("articles listed from memory store",
		"event", "memory_list_articles",
		"module", application.ModuleName,
		"layer", "adapter",
		"items_count", len(items),
	)
	return items, next, nil
}

func (s *Store) GetArticle(_ context.Context, articleID string) (entities.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.articles[articleID]
	if !ok {
		return entities.Article{}, domainerrors.ErrArticleNotFound
	}
	return s.hydrate(record), nil
}

func (s *Store) CreateArticleWithOutbox(
	_ context.Context,
	article entities.Article,
	event ports.ArticleEvent,
	record *ports.IdempotencyRecord,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A single critical section stands in for the transaction: article,
	// outbox and idempotency rows succeed or fail together.
	if _, exists := s.articles[article.ArticleID]; exists {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	if record != nil {
		if existing, ok := s.idempotency[record.Key]; ok && !idempotencyExpired(existing, article.CreatedAt) {
			return domainerrors.ErrIdempotencyKeyTaken
		}
	}
	if err := s.checkReferences(article); err != nil {
		return err
	}
	if err := s.appendOutbox(event); err != nil {
		return err
	}
	s.articles[article.ArticleID] = newArticleRecord(article)
	if record != nil {
		s.idempotency[record.Key] = *record
	}
	return nil
}

func (s *Store) UpdateArticleWithOutbox(_ context.Context, article entities.Article, event ports.ArticleEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.articles[article.ArticleID]
	if !ok {
		return domainerrors.ErrArticleNotFound
	}
	if err := s.checkReferences(article); err != nil {
		return err
	}
	if err := s.appendOutbox(event); err != nil {
		return err
	}
	record := newArticleRecord(article)
	record.article.AnnouncedAt = existing.article.AnnouncedAt
	record.article.CreatedAt = existing.article.CreatedAt
	s.articles[article.ArticleID] = record
	return nil
}

func (s *Store) DeleteArticleWithOutbox(_ context.Context, articleID string, event ports.ArticleEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.articles[articleID]; !ok {
		return domainerrors.ErrArticleNotFound
	}
	if err := s.appendOutbox(event); err != nil {
		return err
	}
	delete(s.articles, articleID)
	return nil
}

func (s *Store) ListUnannounced(_ context.Context, now time.Time, limit int) ([]entities.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Article, 0)
	for _, record := range s.articles {
		if record.article.AnnouncedAt == nil {
			items = append(items, s.hydrate(record))
		}
	}
	items = services.FilterPublished(items, now)
	sort.Slice(items, func(i, j int) bool {
		if items[i].PubDate.Equal(items[j].PubDate) {
			return items[i].ArticleID < items[j].ArticleID
		}
		return items[i].PubDate.Before(items[j].PubDate)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkAnnouncedWithOutbox(
	_ context.Context,
	articleID string,
	announcedAt time.Time,
	event ports.ArticleEvent,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.articles[articleID]
	if !ok {
		return domainerrors.ErrArticleNotFound
	}
	if record.article.AnnouncedAt != nil {
		return nil
	}
	if err := s.appendOutbox(event); err != nil {
		return err
	}
	stamp := announcedAt.UTC()
	record.article.AnnouncedAt = &stamp
	s.articles[articleID] = record
	return nil
}

func (s *Store) Get(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.idempotency[key]
	if !ok {
		return ports.IdempotencyRecord{}, false, nil
	}
	// Expired keys are lazily evicted on read.
	if idempotencyExpired(record, now) {
		delete(s.idempotency, key)
		return ports.IdempotencyRecord{}, false, nil
	}
	return record, true, nil
}

func idempotencyExpired(record ports.IdempotencyRecord, now time.Time) bool {
	return !record.ExpiresAt.IsZero() && now.After(record.ExpiresAt)
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	messages := make([]ports.OutboxMessage, 0, limit)
	for _, id := range s.outboxOrder {
		if _, sent := s.outboxSent[id]; sent {
			continue
		}
		if msg, ok := s.outbox[id]; ok {
			messages = append(messages, msg)
		}
		if len(messages) >= limit {
			break
		}
	}
	return messages, nil
}

func (s *Store) MarkOutboxSent(_ context.Context, outboxID string, sentAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.outbox[outboxID]; !ok {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	s.outboxSent[outboxID] = sentAt.UTC()
	return nil
}

// OutboxEvents returns every outbox row in append order, sent or not.
func (s *Store) OutboxEvents() []ports.OutboxMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]ports.OutboxMessage, 0, len(s.outboxOrder))
	for _, id := range s.outboxOrder {
		if evt, ok := s.outbox[id]; ok {
			events = append(events, evt)
		}
	}
	return events
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clock().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	value := atomic.AddUint64(&s.sequence, 1)
	return fmt.Sprintf("lib-%d", value), nil
}

func (s *Store) appendOutbox(event ports.ArticleEvent) error {
	if _, exists := s.outbox[event.EventID]; exists {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	envelope, err := event.Envelope()
	if err != nil {
		return err
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	s.outbox[event.EventID] = ports.OutboxMessage{
		OutboxID:     event.EventID,
		EventType:    event.EventType,
		PartitionKey: event.ArticleID,
		Payload:      payload,
		CreatedAt:    event.OccurredAt.UTC(),
	}
	s.outboxOrder = append(s.outboxOrder, event.EventID)
	return nil
}

func (s *Store) checkReferences(article entities.Article) error {
	if _, ok := s.authors[article.AuthorID]; !ok {
		return domainerrors.ErrAuthorNotFound
	}
	for _, tag := range article.Tags {
		if _, ok := s.tags[tag.TagID]; !ok {
			return domainerrors.ErrTagNotFound
		}
	}
	return nil
}

func (s *Store) hydrate(record articleRecord) entities.Article {
	article := record.article
	article.Author = s.authors[article.AuthorID]
	tags := make([]entities.Tag, 0, len(record.tagIDs))
	for _, id := range record.tagIDs {
		if tag, ok := s.tags[id]; ok {
			tags = append(tags, tag)
		}
	}
	article.Tags = entities.SortTags(tags)
	return article
}

func newArticleRecord(article entities.Article) articleRecord {
	stored := article
	stored.Author = entities.Author{}
	stored.Tags = nil
	return articleRecord{article: stored, tagIDs: article.TagIDs()}
}

func sortArticles(items []entities.Article) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].PubDate.Equal(items[j].PubDate) {
			return items[i].ArticleID < items[j].ArticleID
		}
		return items[i].PubDate.After(items[j].PubDate)
	})
}

func paginate[T any](items []T, page ports.Page) ([]T, string) {
	start := decodeCursor(page.Cursor)
	if start > len(items) {
		start = len(items)
	}
	limit := page.Limit
	if limit <= 0 {
		limit = application.DefaultPageLimit
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}

	out := append([]T(nil), items[start:end]...)
	next := ""
	if end < len(items) {
		next = encodeCursor(end)
	}
	return out, next
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
