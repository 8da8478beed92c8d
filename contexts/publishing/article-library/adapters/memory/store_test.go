package memory

import (
	"context"
	"testing"
	"time"

	"library/contexts/publishing/article-library/domain/entities"
	domainerrors "library/contexts/publishing/article-library/domain/errors"
	"library/contexts/publishing/article-library/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStore(t *testing.T) (*Store, time.Time) {
	t.Helper()
	store := NewStore(nil)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, store.CreateAuthor(ctx, entities.Author{AuthorID: "u1", Username: "ada"}))
	require.NoError(t, store.CreateAuthor(ctx, entities.Author{AuthorID: "u2", Username: "bob"}))
	require.NoError(t, store.CreateTag(ctx, entities.Tag{TagID: "t1", Name: "go"}))
	require.NoError(t, store.CreateTag(ctx, entities.Tag{TagID: "t2", Name: "sql"}))
	return store, now
}

func createArticle(t *testing.T, store *Store, article entities.Article) {
	t.Helper()
	require.NoError(t, store.CreateArticleWithOutbox(context.Background(), article, ports.ArticleEvent{
		EventID:    "evt-create-" + article.ArticleID,
		EventType:  ports.EventArticleCreated,
		ArticleID:  article.ArticleID,
		AuthorID:   article.AuthorID,
		OccurredAt: article.CreatedAt,
	}, nil))
}

func TestListArticlesPublishedOnlyNewestFirst(t *testing.T) {
	store, now := seedStore(t)
	goTag := entities.Tag{TagID: "t1", Name: "go"}

	createArticle(t, store, entities.Article{ArticleID: "old", Title: "Old", AuthorID: "u1", Content: "x", Tags: []entities.Tag{goTag}, PubDate: now.Add(-48 * time.Hour)})
	createArticle(t, store, entities.Article{ArticleID: "new", Title: "New", AuthorID: "u2", Content: "x", Tags: []entities.Tag{goTag}, PubDate: now.Add(-time.Hour)})
	createArticle(t, store, entities.Article{ArticleID: "future", Title: "Future", AuthorID: "u1", Content: "x", Tags: []entities.Tag{goTag}, PubDate: now.Add(time.Hour)})
	createArticle(t, store, entities.Article{ArticleID: "draft", Title: "Draft", AuthorID: "u1", PubDate: now.Add(-time.Hour)})

	items, next, err := store.ListArticles(context.Background(), ports.ArticleListFilter{PublishedAsOf: now, Page: ports.Page{Limit: 10}})
	require.NoError(t, err)
	assert.Empty(t, next)
	require.Len(t, items, 2)
	assert.Equal(t, "new", items[0].ArticleID)
	assert.Equal(t, "old", items[1].ArticleID)
	assert.Equal(t, "bob", items[0].Author.Username)

	all, _, err := store.ListArticles(context.Background(), ports.ArticleListFilter{Page: ports.Page{Limit: 10}})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestListArticlesCursorPagination(t *testing.T) {
	store, now := seedStore(t)
	goTag := entities.Tag{TagID: "t1", Name: "go"}
	for i, id := range []string{"a1", "a2", "a3"} {
		createArticle(t, store, entities.Article{
			ArticleID: id,
			Title:     id,
			AuthorID:  "u1",
			Content:   "x",
			Tags:      []entities.Tag{goTag},
			PubDate:   now.Add(-time.Duration(i+1) * time.Hour),
		})
	}

	first, next, err := store.ListArticles(context.Background(), ports.ArticleListFilter{PublishedAsOf: now, Page: ports.Page{Limit: 2}})
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.NotEmpty(t, next)

	second, next, err := store.ListArticles(context.Background(), ports.ArticleListFilter{PublishedAsOf: now, Page: ports.Page{Cursor: next, Limit: 2}})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Empty(t, next)
	assert.Equal(t, "a3", second[0].ArticleID)
}

func TestDeleteTagDropsLinksAndHidesArticle(t *testing.T) {
	store, now := seedStore(t)
	createArticle(t, store, entities.Article{
		ArticleID: "a1",
		Title:     "Only tag",
		AuthorID:  "u1",
		Content:   "x",
		Tags:      []entities.Tag{{TagID: "t1", Name: "go"}},
		PubDate:   now.Add(-time.Hour),
	})

	require.NoError(t, store.DeleteTag(context.Background(), "t1"))

	article, err := store.GetArticle(context.Background(), "a1")
	require.NoError(t, err)
	assert.Empty(t, article.Tags)
	assert.False(t, article.IsPublished(now))

	err = store.DeleteTag(context.Background(), "t1")
	assert.ErrorIs(t, err, domainerrors.ErrTagNotFound)
}

func TestDeleteAuthorCascadesArticles(t *testing.T) {
	store, now := seedStore(t)
	createArticle(t, store, entities.Article{ArticleID: "a1", Title: "A", AuthorID: "u1", PubDate: now})
	createArticle(t, store, entities.Article{ArticleID: "a2", Title: "B", AuthorID: "u2", PubDate: now})

	require.NoError(t, store.DeleteAuthor(context.Background(), "u1"))

	_, err := store.GetArticle(context.Background(), "a1")
	assert.ErrorIs(t, err, domainerrors.ErrArticleNotFound)
	_, err = store.GetArticle(context.Background(), "a2")
	assert.NoError(t, err)
}

func TestTagNamesAreUniqueIgnoringCase(t *testing.T) {
	store, _ := seedStore(t)

	err := store.CreateTag(context.Background(), entities.Tag{TagID: "t3", Name: "GO"})
	assert.ErrorIs(t, err, domainerrors.ErrDuplicateTagName)

	err = store.UpdateTag(context.Background(), entities.Tag{TagID: "t2", Name: "Go"})
	assert.ErrorIs(t, err, domainerrors.ErrDuplicateTagName)

	require.NoError(t, store.UpdateTag(context.Background(), entities.Tag{TagID: "t1", Name: "Golang"}))
}

func TestMarkAnnouncedIsOnce(t *testing.T) {
	store, now := seedStore(t)
	createArticle(t, store, entities.Article{
		ArticleID: "a1",
		Title:     "A",
		AuthorID:  "u1",
		Content:   "x",
		Tags:      []entities.Tag{{TagID: "t1", Name: "go"}},
		PubDate:   now.Add(-time.Minute),
	})

	due, err := store.ListUnannounced(context.Background(), now, 10)
	require.NoError(t, err)
	require.Len(t, due, 1)

	event := ports.ArticleEvent{EventID: "evt-pub-1", EventType: ports.EventArticlePublished, ArticleID: "a1", OccurredAt: now}
	require.NoError(t, store.MarkAnnouncedWithOutbox(context.Background(), "a1", now, event))
	require.NoError(t, store.MarkAnnouncedWithOutbox(context.Background(), "a1", now, ports.ArticleEvent{EventID: "evt-pub-2"}))

	due, err = store.ListUnannounced(context.Background(), now, 10)
	require.NoError(t, err)
	assert.Empty(t, due)
	assert.Len(t, store.OutboxEvents(), 2)
}

func TestCreateArticleReservesIdempotencyKey(t *testing.T) {
	store, now := seedStore(t)
	ctx := context.Background()
	goTag := entities.Tag{TagID: "t1", Name: "go"}
	record := ports.IdempotencyRecord{Key: "k", RequestHash: "h", ArticleID: "a1", ExpiresAt: now.Add(time.Hour)}

	first := entities.Article{ArticleID: "a1", Title: "First", AuthorID: "u1", Content: "x", Tags: []entities.Tag{goTag}, PubDate: now, CreatedAt: now}
	require.NoError(t, store.CreateArticleWithOutbox(ctx, first, ports.ArticleEvent{EventID: "evt-a1"}, &record))

	got, found, err := store.Get(ctx, "k", now)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "a1", got.ArticleID)

	second := first
	second.ArticleID = "a2"
	racing := record
	racing.ArticleID = "a2"
	err = store.CreateArticleWithOutbox(ctx, second, ports.ArticleEvent{EventID: "evt-a2"}, &racing)
	assert.ErrorIs(t, err, domainerrors.ErrIdempotencyKeyTaken)
	_, err = store.GetArticle(ctx, "a2")
	assert.ErrorIs(t, err, domainerrors.ErrArticleNotFound)
	assert.Len(t, store.OutboxEvents(), 1)

	later := second
	later.CreatedAt = now.Add(2 * time.Hour)
	racing.ExpiresAt = later.CreatedAt.Add(time.Hour)
	require.NoError(t, store.CreateArticleWithOutbox(ctx, later, ports.ArticleEvent{EventID: "evt-a2"}, &racing))

	_, found, err = store.Get(ctx, "k", now.Add(4*time.Hour))
	require.NoError(t, err)
	assert.False(t, found)
}
