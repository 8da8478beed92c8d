package entities

import (
	"strings"
	"time"
	"unicode/utf8"

	domainerrors "library/contexts/publishing/article-library/domain/errors"
)

const MaxUsernameLength = 150

type Author struct {
	AuthorID     string
	Username     string
	DisplayName  string
	Email        string
	Bio          string
	IsStaff      bool
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewAuthor(
	authorID string,
	username string,
	displayName string,
	email string,
	bio string,
	isStaff bool,
	passwordHash string,
	createdAt time.Time,
) (Author, error) {
	username = strings.TrimSpace(username)
	if strings.TrimSpace(authorID) == "" || username == "" {
		return Author{}, domainerrors.ErrInvalidAuthor
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return Author{}, domainerrors.ErrInvalidAuthor
	}
	if isStaff && passwordHash == "" {
		return Author{}, domainerrors.ErrInvalidAuthor
	}

	return Author{
		AuthorID:     authorID,
		Username:     username,
		DisplayName:  strings.TrimSpace(displayName),
		Email:        strings.TrimSpace(email),
		Bio:          bio,
		IsStaff:      isStaff,
		PasswordHash: passwordHash,
		CreatedAt:    createdAt.UTC(),
		UpdatedAt:    createdAt.UTC(),
	}, nil
}

// Name is what pages show for the author.
func (a Author) Name() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.Username
}

// CanAdminister reports whether the account may use the admin surface.
func (a Author) CanAdminister() bool {
	return a.IsStaff && a.PasswordHash != ""
}
