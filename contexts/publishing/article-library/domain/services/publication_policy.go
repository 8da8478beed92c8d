package services

import (
	"time"

	"library/contexts/publishing/article-library/domain/entities"
	domainerrors "library/contexts/publishing/article-library/domain/errors"
)

type PubDateRange string

const (
	PubDateAny       PubDateRange = ""
	PubDateToday     PubDateRange = "today"
	PubDatePast7Days PubDateRange = "past_7_days"
	PubDateThisMonth PubDateRange = "this_month"
	PubDateThisYear  PubDateRange = "this_year"
)

// ResolvePubDateRange turns an admin date filter into a half-open [from, to)
// window in UTC. Both bounds are zero for PubDateAny.
func ResolvePubDateRange(value PubDateRange, now time.Time) (time.Time, time.Time, error) {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)

	switch value {
	case PubDateAny:
		return time.Time{}, time.Time{}, nil
	case PubDateToday:
		return today, tomorrow, nil
	case PubDatePast7Days:
		return today.AddDate(0, 0, -7), tomorrow, nil
	case PubDateThisMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return first, first.AddDate(0, 1, 0), nil
	case PubDateThisYear:
		first := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return first, first.AddDate(1, 0, 0), nil
	default:
		return time.Time{}, time.Time{}, domainerrors.ErrInvalidListFilter
	}
}

// FilterPublished keeps the articles visitors are allowed to see, preserving order.
func FilterPublished(articles []entities.Article, now time.Time) []entities.Article {
	published := make([]entities.Article, 0, len(articles))
	for _, article := range articles {
		if article.IsPublished(now) {
			published = append(published, article)
		}
	}
	return published
}
