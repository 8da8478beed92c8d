package entities

import (
	"strings"
	"testing"
	"time"

	domainerrors "library/contexts/publishing/article-library/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticleIsPublished(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	tags := []Tag{{TagID: "t1", Name: "go"}}

	cases := []struct {
		name    string
		article Article
		want    bool
	}{
		{
			name:    "complete and due",
			article: Article{Title: "Hello", Content: "Body", Tags: tags, PubDate: now.Add(-time.Hour)},
			want:    true,
		},
		{
			name:    "pub date equal to now",
			article: Article{Title: "Hello", Content: "Body", Tags: tags, PubDate: now},
			want:    true,
		},
		{
			name:    "future pub date",
			article: Article{Title: "Hello", Content: "Body", Tags: tags, PubDate: now.Add(time.Second)},
			want:    false,
		},
		{
			name:    "empty content",
			article: Article{Title: "Hello", Tags: tags, PubDate: now.Add(-time.Hour)},
			want:    false,
		},
		{
			name:    "no tags",
			article: Article{Title: "Hello", Content: "Body", PubDate: now.Add(-time.Hour)},
			want:    false,
		},
		{
			name:    "empty title",
			article: Article{Content: "Body", Tags: tags, PubDate: now.Add(-time.Hour)},
			want:    false,
		},
		{
			name:    "whitespace content counts as present",
			article: Article{Title: "Hello", Content: " ", Tags: tags, PubDate: now.Add(-time.Hour)},
			want:    true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.article.IsPublished(now))
		})
	}
}

func TestNewArticleValidation(t *testing.T) {
	pubDate := time.Date(2024, 1, 1, 9, 0, 0, 0, time.FixedZone("CET", 3600))
	created := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	article, err := NewArticle("a1", "Title", "u1", nil, pubDate, "", created)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, article.PubDate.Location())
	assert.True(t, article.PubDate.Equal(pubDate))
	assert.Empty(t, article.Tags)

	_, err = NewArticle("a1", "   ", "u1", nil, pubDate, "x", created)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidArticle)

	_, err = NewArticle("a1", strings.Repeat("x", MaxTitleLength+1), "u1", nil, pubDate, "x", created)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidArticle)

	_, err = NewArticle("a1", "Title", "", nil, pubDate, "x", created)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidArticle)

	_, err = NewArticle("a1", "Title", "u1", nil, time.Time{}, "x", created)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidArticle)
}

func TestArticleTagsAsString(t *testing.T) {
	article := Article{Tags: SortTags([]Tag{
		{TagID: "t2", Name: "python"},
		{TagID: "t1", Name: "go"},
	})}

	assert.Equal(t, "go, python", article.TagsAsString())
	assert.Equal(t, []string{"t1", "t2"}, article.TagIDs())
	assert.True(t, article.HasTag("t2"))
	assert.False(t, article.HasTag("t3"))
	assert.Equal(t, "", Article{}.TagsAsString())
}

func TestAuthorRules(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	author, err := NewAuthor("u1", "  ada ", "", "", "", false, "", created)
	require.NoError(t, err)
	assert.Equal(t, "ada", author.Username)
	assert.Equal(t, "ada", author.Name())
	assert.False(t, author.CanAdminister())

	author.DisplayName = "Ada Lovelace"
	assert.Equal(t, "Ada Lovelace", author.Name())

	_, err = NewAuthor("u2", "root", "", "", "", true, "", created)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidAuthor)

	staff, err := NewAuthor("u3", "root", "", "", "", true, "hash", created)
	require.NoError(t, err)
	assert.True(t, staff.CanAdminister())
}

func TestNewTagNormalizesName(t *testing.T) {
	tag, err := NewTag("t1", "  golang ", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "golang", tag.Name)

	_, err = NewTag("t2", " ", time.Now())
	assert.ErrorIs(t, err, domainerrors.ErrInvalidTag)

	_, err = NewTag("t3", strings.Repeat("x", MaxTagNameLength+1), time.Now())
	assert.ErrorIs(t, err, domainerrors.ErrInvalidTag)
}
