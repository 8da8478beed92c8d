package entities

import (
	"strings"
	"time"
	"unicode/utf8"

	domainerrors "library/contexts/publishing/article-library/domain/errors"
)

const MaxTagNameLength = 100

type Tag struct {
	TagID     string
	Name      string
	CreatedAt time.Time
}

func NewTag(tagID string, name string, createdAt time.Time) (Tag, error) {
	name, err := NormalizeTagName(name)
	if err != nil {
		return Tag{}, err
	}
	if strings.TrimSpace(tagID) == "" {
		return Tag{}, domainerrors.ErrInvalidTag
	}
	return Tag{
		TagID:     tagID,
		Name:      name,
		CreatedAt: createdAt.UTC(),
	}, nil
}

func NormalizeTagName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > MaxTagNameLength {
		return "", domainerrors.ErrInvalidTag
	}
	return name, nil
}
