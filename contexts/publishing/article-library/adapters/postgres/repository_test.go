package postgresadapter

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"library/contexts/publishing/article-library/domain/entities"
	domainerrors "library/contexts/publishing/article-library/domain/errors"
	"library/contexts/publishing/article-library/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newSQLiteRepository runs the repository against a throwaway SQLite file.
// The SQL it issues is shared with Postgres.
func newSQLiteRepository(t *testing.T) *Repository {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "library.db") + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	repo := NewRepository(db, nil)
	require.NoError(t, repo.Migrate(context.Background()))
	return repo
}

var (
	testNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	goTag   = entities.Tag{TagID: "t-go", Name: "go", CreatedAt: testNow}
	sqlTag  = entities.Tag{TagID: "t-sql", Name: "sql", CreatedAt: testNow}
)

func seed(t *testing.T, repo *Repository) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, repo.CreateAuthor(ctx, entities.Author{AuthorID: "u1", Username: "ada", DisplayName: "Ada", CreatedAt: testNow, UpdatedAt: testNow}))
	require.NoError(t, repo.CreateAuthor(ctx, entities.Author{AuthorID: "u2", Username: "bob", CreatedAt: testNow, UpdatedAt: testNow}))
	require.NoError(t, repo.CreateTag(ctx, goTag))
	require.NoError(t, repo.CreateTag(ctx, sqlTag))
}

func insertArticle(t *testing.T, repo *Repository, article entities.Article) {
	t.Helper()
	article.CreatedAt = testNow
	article.UpdatedAt = testNow
	require.NoError(t, repo.CreateArticleWithOutbox(context.Background(), article, ports.ArticleEvent{
		EventID:    "evt-" + article.ArticleID,
		EventType:  ports.EventArticleCreated,
		ArticleID:  article.ArticleID,
		AuthorID:   article.AuthorID,
		Title:      article.Title,
		PubDate:    article.PubDate,
		OccurredAt: testNow,
	}, nil))
}

func TestRepositoryPublishedFilter(t *testing.T) {
	repo := newSQLiteRepository(t)
	seed(t, repo)

	insertArticle(t, repo, entities.Article{ArticleID: "a-pub", Title: "Published", AuthorID: "u1", Content: "Body", Tags: []entities.Tag{goTag, sqlTag}, PubDate: testNow.Add(-time.Hour)})
	insertArticle(t, repo, entities.Article{ArticleID: "a-old", Title: "Older", AuthorID: "u2", Content: "Body", Tags: []entities.Tag{sqlTag}, PubDate: testNow.Add(-48 * time.Hour)})
	insertArticle(t, repo, entities.Article{ArticleID: "a-future", Title: "Future", AuthorID: "u1", Content: "Body", Tags: []entities.Tag{goTag}, PubDate: testNow.Add(time.Hour)})
	insertArticle(t, repo, entities.Article{ArticleID: "a-empty", Title: "Empty", AuthorID: "u1", Tags: []entities.Tag{goTag}, PubDate: testNow.Add(-time.Hour)})
	insertArticle(t, repo, entities.Article{ArticleID: "a-untagged", Title: "Untagged", AuthorID: "u1", Content: "Body", PubDate: testNow.Add(-time.Hour)})

	items, next, err := repo.ListArticles(context.Background(), ports.ArticleListFilter{PublishedAsOf: testNow, Page: ports.Page{Limit: 10}})
	require.NoError(t, err)
	assert.Empty(t, next)
	require.Len(t, items, 2)
	assert.Equal(t, "a-pub", items[0].ArticleID)
	assert.Equal(t, "a-old", items[1].ArticleID)
	assert.Equal(t, "Ada", items[0].Author.Name())
	assert.Equal(t, "go, sql", items[0].TagsAsString())

	byTag, _, err := repo.ListArticles(context.Background(), ports.ArticleListFilter{PublishedAsOf: testNow, TagID: goTag.TagID, Page: ports.Page{Limit: 10}})
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, "a-pub", byTag[0].ArticleID)

	byAuthor, _, err := repo.ListArticles(context.Background(), ports.ArticleListFilter{AuthorID: "u1", Page: ports.Page{Limit: 10}})
	require.NoError(t, err)
	assert.Len(t, byAuthor, 4)

	windowed, _, err := repo.ListArticles(context.Background(), ports.ArticleListFilter{
		PubDateFrom: testNow.Add(-24 * time.Hour),
		PubDateTo:   testNow,
		Page:        ports.Page{Limit: 10},
	})
	require.NoError(t, err)
	assert.Len(t, windowed, 3)
}

func TestRepositoryPagination(t *testing.T) {
	repo := newSQLiteRepository(t)
	seed(t, repo)
	for i, id := range []string{"a1", "a2", "a3"} {
		insertArticle(t, repo, entities.Article{
			ArticleID: id,
			Title:     id,
			AuthorID:  "u1",
			Content:   "Body",
			Tags:      []entities.Tag{goTag},
			PubDate:   testNow.Add(-time.Duration(i+1) * time.Hour),
		})
	}

	first, next, err := repo.ListArticles(context.Background(), ports.ArticleListFilter{PublishedAsOf: testNow, Page: ports.Page{Limit: 2}})
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.NotEmpty(t, next)
	assert.Equal(t, "a1", first[0].ArticleID)

	second, next, err := repo.ListArticles(context.Background(), ports.ArticleListFilter{PublishedAsOf: testNow, Page: ports.Page{Cursor: next, Limit: 2}})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Empty(t, next)
	assert.Equal(t, "a3", second[0].ArticleID)
}

func TestRepositoryUniqueness(t *testing.T) {
	repo := newSQLiteRepository(t)
	seed(t, repo)
	ctx := context.Background()

	err := repo.CreateAuthor(ctx, entities.Author{AuthorID: "u3", Username: "ada", CreatedAt: testNow, UpdatedAt: testNow})
	assert.ErrorIs(t, err, domainerrors.ErrDuplicateUsername)

	err = repo.CreateTag(ctx, entities.Tag{TagID: "t-dup", Name: "GO", CreatedAt: testNow})
	assert.ErrorIs(t, err, domainerrors.ErrDuplicateTagName)

	err = repo.UpdateTag(ctx, entities.Tag{TagID: sqlTag.TagID, Name: "Go"})
	assert.ErrorIs(t, err, domainerrors.ErrDuplicateTagName)

	err = repo.UpdateTag(ctx, entities.Tag{TagID: "missing", Name: "rust"})
	assert.ErrorIs(t, err, domainerrors.ErrTagNotFound)
}

func TestRepositoryCascades(t *testing.T) {
	repo := newSQLiteRepository(t)
	seed(t, repo)
	ctx := context.Background()
	insertArticle(t, repo, entities.Article{ArticleID: "a1", Title: "Ada's", AuthorID: "u1", Content: "Body", Tags: []entities.Tag{goTag}, PubDate: testNow.Add(-time.Hour)})
	insertArticle(t, repo, entities.Article{ArticleID: "a2", Title: "Bob's", AuthorID: "u2", Content: "Body", Tags: []entities.Tag{goTag, sqlTag}, PubDate: testNow.Add(-time.Hour)})

	require.NoError(t, repo.DeleteTag(ctx, goTag.TagID))
	article, err := repo.GetArticle(ctx, "a1")
	require.NoError(t, err)
	assert.Empty(t, article.Tags)
	assert.False(t, article.IsPublished(testNow))

	require.NoError(t, repo.DeleteAuthor(ctx, "u2"))
	_, err = repo.GetArticle(ctx, "a2")
	assert.ErrorIs(t, err, domainerrors.ErrArticleNotFound)
	_, err = repo.GetAuthor(ctx, "u2")
	assert.ErrorIs(t, err, domainerrors.ErrAuthorNotFound)

	assert.ErrorIs(t, repo.DeleteAuthor(ctx, "u2"), domainerrors.ErrAuthorNotFound)
}

func TestRepositoryUpdateReplacesTags(t *testing.T) {
	repo := newSQLiteRepository(t)
	seed(t, repo)
	ctx := context.Background()
	insertArticle(t, repo, entities.Article{ArticleID: "a1", Title: "Draft", AuthorID: "u1", PubDate: testNow.Add(-time.Hour)})

	article, err := repo.GetArticle(ctx, "a1")
	require.NoError(t, err)
	article.Title = "Final"
	article.Content = "Body"
	article.Tags = []entities.Tag{sqlTag}
	article.UpdatedAt = testNow.Add(time.Minute)
	require.NoError(t, repo.UpdateArticleWithOutbox(ctx, article, ports.ArticleEvent{
		EventID:    "evt-update",
		EventType:  ports.EventArticleUpdated,
		ArticleID:  "a1",
		OccurredAt: testNow,
	}))

	reloaded, err := repo.GetArticle(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "Final", reloaded.Title)
	assert.Equal(t, []string{sqlTag.TagID}, reloaded.TagIDs())
	assert.True(t, reloaded.IsPublished(testNow))
}

func TestRepositoryAnnouncementAndOutbox(t *testing.T) {
	repo := newSQLiteRepository(t)
	seed(t, repo)
	ctx := context.Background()
	insertArticle(t, repo, entities.Article{ArticleID: "a1", Title: "Due", AuthorID: "u1", Content: "Body", Tags: []entities.Tag{goTag}, PubDate: testNow.Add(-time.Hour)})
	insertArticle(t, repo, entities.Article{ArticleID: "a2", Title: "Later", AuthorID: "u1", Content: "Body", Tags: []entities.Tag{goTag}, PubDate: testNow.Add(time.Hour)})

	due, err := repo.ListUnannounced(ctx, testNow, 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "a1", due[0].ArticleID)

	event := ports.ArticleEvent{EventID: "evt-pub", EventType: ports.EventArticlePublished, ArticleID: "a1", OccurredAt: testNow}
	require.NoError(t, repo.MarkAnnouncedWithOutbox(ctx, "a1", testNow, event))
	require.NoError(t, repo.MarkAnnouncedWithOutbox(ctx, "a1", testNow, ports.ArticleEvent{EventID: "evt-pub-again", EventType: ports.EventArticlePublished, ArticleID: "a1", OccurredAt: testNow}))

	due, err = repo.ListUnannounced(ctx, testNow, 10)
	require.NoError(t, err)
	assert.Empty(t, due)

	pending, err := repo.ListPendingOutbox(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 3)

	for _, msg := range pending {
		require.NoError(t, repo.MarkOutboxSent(ctx, msg.OutboxID, testNow))
	}
	pending, err = repo.ListPendingOutbox(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	assert.ErrorIs(t, repo.MarkOutboxSent(ctx, "missing", testNow), domainerrors.ErrRepositoryInvariantBroke)
}

func TestRepositoryIdempotencyReservedWithArticle(t *testing.T) {
	repo := newSQLiteRepository(t)
	seed(t, repo)
	ctx := context.Background()
	record := ports.IdempotencyRecord{Key: "k1", RequestHash: "h1", ArticleID: "a1", ExpiresAt: testNow.Add(time.Hour)}
	article := entities.Article{ArticleID: "a1", Title: "First", AuthorID: "u1", Content: "x", Tags: []entities.Tag{goTag}, PubDate: testNow, CreatedAt: testNow, UpdatedAt: testNow}

	require.NoError(t, repo.CreateArticleWithOutbox(ctx, article, ports.ArticleEvent{EventID: "evt-a1", EventType: ports.EventArticleCreated, ArticleID: "a1", OccurredAt: testNow}, &record))

	got, found, err := repo.Get(ctx, "k1", testNow)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "a1", got.ArticleID)

	duplicate := article
	duplicate.ArticleID = "a2"
	racing := record
	racing.ArticleID = "a2"
	err = repo.CreateArticleWithOutbox(ctx, duplicate, ports.ArticleEvent{EventID: "evt-a2", EventType: ports.EventArticleCreated, ArticleID: "a2", OccurredAt: testNow}, &racing)
	assert.ErrorIs(t, err, domainerrors.ErrIdempotencyKeyTaken)
	_, err = repo.GetArticle(ctx, "a2")
	assert.ErrorIs(t, err, domainerrors.ErrArticleNotFound)
	pending, err := repo.ListPendingOutbox(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	later := duplicate
	later.CreatedAt = testNow.Add(2 * time.Hour)
	racing.ExpiresAt = later.CreatedAt.Add(time.Hour)
	require.NoError(t, repo.CreateArticleWithOutbox(ctx, later, ports.ArticleEvent{EventID: "evt-a2", EventType: ports.EventArticleCreated, ArticleID: "a2", OccurredAt: later.CreatedAt}, &racing))
	got, found, err = repo.Get(ctx, "k1", later.CreatedAt)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "a2", got.ArticleID)

	_, found, err = repo.Get(ctx, "k1", later.CreatedAt.Add(2*time.Hour))
	require.NoError(t, err)
	assert.False(t, found)
}
