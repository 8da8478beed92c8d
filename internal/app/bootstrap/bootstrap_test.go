package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	postgresadapter "library/contexts/publishing/article-library/adapters/postgres"
	"library/contexts/publishing/article-library/ports"
	httptransport "library/contexts/publishing/article-library/transport/http"
	contractsv1 "library/contracts/gen/events/v1"
	"library/internal/platform/config"
	"library/internal/platform/messaging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useSQLite(t *testing.T) {
	t.Helper()
	t.Setenv("LIBRARY_DATABASE_DRIVER", "sqlite")
	t.Setenv("LIBRARY_DATABASE_DSN", "file:"+filepath.Join(t.TempDir(), "library.db")+"?_foreign_keys=on")
	t.Setenv("LIBRARY_NATS_URL", "")
}

func TestWorkerAnnouncesAndRelaysOnSQLite(t *testing.T) {
	useSQLite(t)
	ctx := context.Background()

	worker, err := BuildWorker("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = worker.Close() })
	_, inProcess := worker.bus.(*messaging.Bus)
	require.True(t, inProcess)

	repo := postgresadapter.NewRepository(worker.database.DB, nil)
	module := NewLibraryModule(repo, nil)

	author, err := module.Handler.CreateAuthorHandler(ctx, httptransport.CreateAuthorRequest{Username: "ada"})
	require.NoError(t, err)
	tag, err := module.Handler.CreateTagHandler(ctx, httptransport.TagRequest{Name: "go"})
	require.NoError(t, err)
	article, err := module.Handler.CreateArticleHandler(ctx, "", httptransport.ArticleRequest{
		Title:    "Hello",
		AuthorID: author.Author.AuthorID,
		TagIDs:   []string{tag.Tag.TagID},
		PubDate:  time.Now().Add(-time.Hour).UTC().Format(time.RFC3339),
		Content:  "World",
	})
	require.NoError(t, err)

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	received := make(chan contractsv1.Envelope, 4)
	require.NoError(t, worker.bus.Subscribe(subCtx, "library.article.published", func(_ context.Context, event contractsv1.Envelope) error {
		received <- event
		return nil
	}))

	require.NoError(t, worker.announcer.RunOnce(ctx))
	require.NoError(t, worker.outboxRelay.RunOnce(ctx))

	select {
	case event := <-received:
		assert.Equal(t, article.Article.ArticleID, event.PartitionKey)
		assert.Equal(t, "article.published", event.EventType)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for article.published")
	}

	pending, err := repo.ListPendingOutbox(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestPollKeepsRunningAfterFailedCycle(t *testing.T) {
	worker := &WorkerApp{pollInterval: 5 * time.Millisecond, logger: slog.Default()}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- worker.poll(ctx, "test", func(context.Context) error {
			if calls.Add(1) >= 3 {
				cancel()
			}
			return errors.New("bus unavailable")
		})
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, calls.Load(), int32(3))
	case <-time.After(5 * time.Second):
		t.Fatal("poll did not stop after cancel")
	}
}

func TestBuildWorkerMigratesFreshSQLite(t *testing.T) {
	useSQLite(t)
	ctx := context.Background()

	worker, err := BuildWorker("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = worker.Close() })

	require.NoError(t, worker.announcer.RunOnce(ctx))
	require.NoError(t, worker.outboxRelay.RunOnce(ctx))
}

func TestStorageMigratesSQLite(t *testing.T) {
	useSQLite(t)

	cfg, err := config.Load("")
	require.NoError(t, err)
	database, repo, err := Storage(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	tags, _, err := repo.ListTags(context.Background(), ports.Page{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestBuildAPIMigratesSQLite(t *testing.T) {
	useSQLite(t)

	app, err := BuildAPI("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	assert.Nil(t, app.worker)
	require.NoError(t, app.database.Ping(context.Background()))

	var count int64
	require.NoError(t, app.database.DB.Table("articles").Count(&count).Error)
	assert.Zero(t, count)
}
