package main

import (
	"context"
	"testing"

	articlelibrary "library/contexts/publishing/article-library"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedCreatesVisibleAndHiddenArticles(t *testing.T) {
	module := articlelibrary.NewInMemoryModule(nil)
	ctx := context.Background()

	summary, err := Seed(ctx, module.Handler, "changeme")
	require.NoError(t, err)
	assert.Len(t, summary.Authors, 2)
	assert.Len(t, summary.Tags, len(seedTags))
	assert.Len(t, summary.Articles, len(seedArticles))

	public, err := module.Handler.ListArticlesHandler(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, public.Items, 2)
	assert.Equal(t, "Keeping queries honest", public.Items[0].Title)
	assert.Equal(t, "Hello, library", public.Items[1].Title)

	staff, err := module.Handler.Authenticate(ctx, "editor", "changeme")
	require.NoError(t, err)
	assert.True(t, staff.IsStaff)

	_, err = Seed(ctx, module.Handler, "changeme")
	assert.Error(t, err)
}
