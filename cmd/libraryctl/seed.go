package main

import (
	"context"
	"time"

	httpadapter "library/contexts/publishing/article-library/adapters/http"
	httptransport "library/contexts/publishing/article-library/transport/http"
)

type SeedSummary struct {
	Authors  []string `json:"authors"`
	Tags     []string `json:"tags"`
	Articles []string `json:"articles"`
}

type seedArticle struct {
	title   string
	author  string
	tags    []string
	age     time.Duration
	content string
}

var seedTags = []string{"Go", "Databases", "Publishing", "Release Notes"}

var seedArticles = []seedArticle{
	{
		title:   "Hello, library",
		author:  "editor",
		tags:    []string{"Publishing"},
		age:     72 * time.Hour,
		content: "The library is open. Articles show up here once their publication date has passed.",
	},
	{
		title:   "Keeping queries honest",
		author:  "ada",
		tags:    []string{"Go", "Databases"},
		age:     24 * time.Hour,
		content: "Every listing filters on `pub_date <= now` and skips articles without a title, content or tags.",
	},
	{
		title:   "Scheduled for next week",
		author:  "ada",
		tags:    []string{"Release Notes"},
		age:     -7 * 24 * time.Hour,
		content: "This article stays hidden until its publication date.",
	},
	{
		title:   "Untagged draft",
		author:  "editor",
		age:     time.Hour,
		content: "Drafts without tags never reach visitors.",
	},
}

// Seed creates a staff editor, a regular author, tags and a mix of published,
// scheduled and draft articles. It expects an empty database: duplicate
// usernames or tag names abort the run.
func Seed(ctx context.Context, handler httpadapter.Handler, password string) (SeedSummary, error) {
	summary := SeedSummary{}
	authorIDs := map[string]string{}

	for _, req := range []httptransport.CreateAuthorRequest{
		{Username: "editor", DisplayName: "The Editor", IsStaff: true, Password: password},
		{Username: "ada", DisplayName: "Ada Writer", Bio: "Writes about Go and databases."},
	} {
		resp, err := handler.CreateAuthorHandler(ctx, req)
		if err != nil {
			return SeedSummary{}, err
		}
		authorIDs[req.Username] = resp.Author.AuthorID
		summary.Authors = append(summary.Authors, resp.Author.AuthorID)
	}

	tagIDs := map[string]string{}
	for _, name := range seedTags {
		resp, err := handler.CreateTagHandler(ctx, httptransport.TagRequest{Name: name})
		if err != nil {
			return SeedSummary{}, err
		}
		tagIDs[name] = resp.Tag.TagID
		summary.Tags = append(summary.Tags, resp.Tag.TagID)
	}

	now := time.Now().UTC().Truncate(time.Second)
	for _, item := range seedArticles {
		ids := make([]string, 0, len(item.tags))
		for _, name := range item.tags {
			if id, ok := tagIDs[name]; ok {
				ids = append(ids, id)
			}
		}
		resp, err := handler.CreateArticleHandler(ctx, "", httptransport.ArticleRequest{
			Title:    item.title,
			AuthorID: authorIDs[item.author],
			TagIDs:   ids,
			PubDate:  now.Add(-item.age).Format(time.RFC3339),
			Content:  item.content,
		})
		if err != nil {
			return SeedSummary{}, err
		}
		summary.Articles = append(summary.Articles, resp.Article.ArticleID)
	}
	return summary, nil
}
