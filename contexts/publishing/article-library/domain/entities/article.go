package entities

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	domainerrors "library/contexts/publishing/article-library/domain/errors"
)

const MaxTitleLength = 150

type Article struct {
	ArticleID   string
	Title       string
	AuthorID    string
	Author      Author
	Tags        []Tag
	PubDate     time.Time
	Content     string
	AnnouncedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewArticle validates editable fields. Content and tags may be empty; such
// articles are drafts and stay out of public listings.
func NewArticle(
	articleID string,
	title string,
	authorID string,
	tags []Tag,
	pubDate time.Time,
	content string,
	createdAt time.Time,
) (Article, error) {
	if strings.TrimSpace(articleID) == "" || strings.TrimSpace(authorID) == "" {
		return Article{}, domainerrors.ErrInvalidArticle
	}
	if err := ValidateArticleFields(title, pubDate); err != nil {
		return Article{}, err
	}

	return Article{
		ArticleID: articleID,
		Title:     title,
		AuthorID:  authorID,
		Tags:      SortTags(tags),
		PubDate:   pubDate.UTC(),
		Content:   content,
		CreatedAt: createdAt.UTC(),
		UpdatedAt: createdAt.UTC(),
	}, nil
}

func ValidateArticleFields(title string, pubDate time.Time) error {
	if strings.TrimSpace(title) == "" || utf8.RuneCountInString(title) > MaxTitleLength {
		return domainerrors.ErrInvalidArticle
	}
	if pubDate.IsZero() {
		return domainerrors.ErrInvalidArticle
	}
	return nil
}

// IsPublished applies the visitor visibility rule: the publication date has
// been reached and title, content and tags are all present.
func (a Article) IsPublished(now time.Time) bool {
	if a.PubDate.After(now) {
		return false
	}
	return a.Title != "" && a.Content != "" && len(a.Tags) > 0
}

func (a Article) HasTag(tagID string) bool {
	for _, tag := range a.Tags {
		if tag.TagID == tagID {
			return true
		}
	}
	return false
}

func (a Article) TagsAsString() string {
	names := make([]string, 0, len(a.Tags))
	for _, tag := range a.Tags {
		names = append(names, tag.Name)
	}
	return strings.Join(names, ", ")
}

func (a Article) RelatedTags() []Tag {
	return append([]Tag(nil), a.Tags...)
}

func (a Article) TagIDs() []string {
	ids := make([]string, 0, len(a.Tags))
	for _, tag := range a.Tags {
		ids = append(ids, tag.TagID)
	}
	return ids
}

// SortTags returns tags in display order (name, then id).
func SortTags(tags []Tag) []Tag {
	sorted := append([]Tag(nil), tags...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Name == sorted[j].Name {
			return sorted[i].TagID < sorted[j].TagID
		}
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}
