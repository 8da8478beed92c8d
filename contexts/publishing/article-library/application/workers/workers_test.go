package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"library/contexts/publishing/article-library/adapters/memory"
	"library/contexts/publishing/article-library/domain/entities"
	"library/contexts/publishing/article-library/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
	events   []ports.EventEnvelope
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, subject string, event ports.EventEnvelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.subjects = append(p.subjects, subject)
	p.events = append(p.events, event)
	return nil
}

type countingMetrics struct {
	announced int
	relayed   int
}

func (m *countingMetrics) ObserveAnnounced(count int) { m.announced += count }
func (m *countingMetrics) ObserveRelayed(count int)   { m.relayed += count }

func newStore(t *testing.T, now time.Time) *memory.Store {
	t.Helper()
	store := memory.NewStore(nil)
	store.SetClock(func() time.Time { return now })
	ctx := context.Background()
	require.NoError(t, store.CreateAuthor(ctx, entities.Author{AuthorID: "u1", Username: "ada"}))
	require.NoError(t, store.CreateTag(ctx, entities.Tag{TagID: "t1", Name: "go"}))

	articles := []entities.Article{
		{ArticleID: "due", Title: "Due", AuthorID: "u1", Content: "x", Tags: []entities.Tag{{TagID: "t1"}}, PubDate: now.Add(-time.Minute)},
		{ArticleID: "later", Title: "Later", AuthorID: "u1", Content: "x", Tags: []entities.Tag{{TagID: "t1"}}, PubDate: now.Add(time.Hour)},
		{ArticleID: "draft", Title: "Draft", AuthorID: "u1", PubDate: now.Add(-time.Minute)},
	}
	for _, article := range articles {
		require.NoError(t, store.CreateArticleWithOutbox(ctx, article, ports.ArticleEvent{
			EventID:    "evt-" + article.ArticleID,
			EventType:  ports.EventArticleCreated,
			ArticleID:  article.ArticleID,
			AuthorID:   article.AuthorID,
			PubDate:    article.PubDate,
			OccurredAt: now,
		}, nil))
	}
	return store
}

func TestPublicationAnnouncerEmitsOncePerArticle(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newStore(t, now)
	metrics := &countingMetrics{}
	announcer := PublicationAnnouncer{
		Articles:    store,
		Clock:       store,
		IDGenerator: store,
		Metrics:     metrics,
	}

	require.NoError(t, announcer.RunOnce(context.Background()))
	require.NoError(t, announcer.RunOnce(context.Background()))
	assert.Equal(t, 1, metrics.announced)

	var published []ports.OutboxMessage
	for _, msg := range store.OutboxEvents() {
		if msg.EventType == ports.EventArticlePublished {
			published = append(published, msg)
		}
	}
	require.Len(t, published, 1)
	assert.Equal(t, "due", published[0].PartitionKey)

	article, err := store.GetArticle(context.Background(), "due")
	require.NoError(t, err)
	require.NotNil(t, article.AnnouncedAt)
	assert.True(t, article.AnnouncedAt.Equal(now))
}

func TestOutboxRelayPublishesAndMarksSent(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newStore(t, now)
	publisher := &recordingPublisher{}
	metrics := &countingMetrics{}
	relay := OutboxRelay{
		Outbox:      store,
		Publisher:   publisher,
		Clock:       store,
		TopicPrefix: "library",
		Metrics:     metrics,
	}

	require.NoError(t, relay.RunOnce(context.Background()))
	require.Len(t, publisher.events, 3)
	assert.Equal(t, "library.article.created", publisher.subjects[0])
	assert.Equal(t, "article-library", publisher.events[0].SourceService)
	assert.Equal(t, 3, metrics.relayed)

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	require.NoError(t, relay.RunOnce(context.Background()))
	assert.Len(t, publisher.events, 3)
}

func TestOutboxRelayLeavesRowsPendingOnPublishFailure(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newStore(t, now)
	relay := OutboxRelay{
		Outbox:    store,
		Publisher: &recordingPublisher{err: errors.New("bus down")},
		Clock:     store,
	}

	assert.Error(t, relay.RunOnce(context.Background()))

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, pending, 3)
}
