package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "library/contexts/publishing/article-library/application"
	"library/contexts/publishing/article-library/domain/entities"
	domainerrors "library/contexts/publishing/article-library/domain/errors"
	"library/contexts/publishing/article-library/ports"
)

type CreateAuthorCommand struct {
	Username    string
	DisplayName string
	Email       string
	Bio         string
	IsStaff     bool
	Password    string
}

type CreateAuthorUseCase struct {
	Authors     ports.AuthorRepository
	Hasher      ports.PasswordHasher
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u CreateAuthorUseCase) Execute(ctx context.Context, cmd CreateAuthorCommand) (entities.Author, error) {
	logger := application.ResolveLogger(u.Logger)
	if cmd.IsStaff && cmd.Password == "" {
		return entities.Author{}, domainerrors.ErrInvalidAuthor
	}

	passwordHash := ""
	if cmd.Password != "" {
		hash, err := u.Hasher.Hash(cmd.Password)
		if err != nil {
			return entities.Author{}, err
		}
		passwordHash = hash
	}

	authorID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Author{}, err
	}
	author, err := entities.NewAuthor(
		authorID,
		cmd.Username,
		cmd.DisplayName,
		cmd.Email,
		cmd.Bio,
		cmd.IsStaff,
		passwordHash,
		now(u.Clock),
	)
	if err != nil {
		return entities.Author{}, err
	}

	if err := u.Authors.CreateAuthor(ctx, author); err != nil {
		logger.Warn("create author failed",
			"event", "create_author_failed",
			"module", application.ModuleName,
			"layer", "application",
			"username", author.Username,
			"error", err.Error(),
		)
		return entities.Author{}, err
	}

	logger.Info("author created",
		"event", "author_created",
		"module", application.ModuleName,
		"layer", "application",
		"author_id", author.AuthorID,
		"username", author.Username,
		"is_staff", author.IsStaff,
	)
	return author, nil
}

// UpdateAuthorCommand replaces profile fields. An empty Password keeps the
// current one.
type UpdateAuthorCommand struct {
	AuthorID    string
	DisplayName string
	Email       string
	Bio         string
	IsStaff     bool
	Password    string
}

type UpdateAuthorUseCase struct {
	Authors ports.AuthorRepository
	Hasher  ports.PasswordHasher
	Clock   ports.Clock
	Logger  *slog.Logger
}

func (u UpdateAuthorUseCase) Execute(ctx context.Context, cmd UpdateAuthorCommand) (entities.Author, error) {
	logger := application.ResolveLogger(u.Logger)

	author, err := u.Authors.GetAuthor(ctx, cmd.AuthorID)
	if err != nil {
		return entities.Author{}, err
	}

	author.DisplayName = strings.TrimSpace(cmd.DisplayName)
	author.Email = strings.TrimSpace(cmd.Email)
	author.Bio = cmd.Bio
	author.IsStaff = cmd.IsStaff
	if cmd.Password != "" {
		hash, err := u.Hasher.Hash(cmd.Password)
		if err != nil {
			return entities.Author{}, err
		}
		author.PasswordHash = hash
	}
	if author.IsStaff && author.PasswordHash == "" {
		return entities.Author{}, domainerrors.ErrInvalidAuthor
	}
	author.UpdatedAt = now(u.Clock)

	if err := u.Authors.UpdateAuthor(ctx, author); err != nil {
		return entities.Author{}, err
	}

	logger.Info("author updated",
		"event", "author_updated",
		"module", application.ModuleName,
		"layer", "application",
		"author_id", author.AuthorID,
	)
	return author, nil
}

type DeleteAuthorUseCase struct {
	Authors ports.AuthorRepository
	Logger  *slog.Logger
}

func (u DeleteAuthorUseCase) Execute(ctx context.Context, authorID string) error {
	logger := application.ResolveLogger(u.Logger)
	if err := u.Authors.DeleteAuthor(ctx, authorID); err != nil {
		return err
	}
	logger.Info("author deleted with articles",
		"event", "author_deleted",
		"module", application.ModuleName,
		"layer", "application",
		"author_id", authorID,
	)
	return nil
}

func now(clock ports.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now().UTC()
}
