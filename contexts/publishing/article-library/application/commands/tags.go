package commands

import (
	"context"
	"log/slog"

	application "library/contexts/publishing/article-library/application"
	"library/contexts/publishing/article-library/domain/entities"
	"library/contexts/publishing/article-library/ports"
)

type CreateTagUseCase struct {
	Tags        ports.TagRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u CreateTagUseCase) Execute(ctx context.Context, name string) (entities.Tag, error) {
	logger := application.ResolveLogger(u.Logger)
	if _, err := entities.NormalizeTagName(name); err != nil {
		return entities.Tag{}, err
	}

	tagID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Tag{}, err
	}
	tag, err := entities.NewTag(tagID, name, now(u.Clock))
	if err != nil {
		return entities.Tag{}, err
	}
	if err := u.Tags.CreateTag(ctx, tag); err != nil {
		logger.Warn("create tag failed",
			"event", "create_tag_failed",
			"module", application.ModuleName,
			"layer", "application",
			"tag_name", tag.Name,
			"error", err.Error(),
		)
		return entities.Tag{}, err
	}

	logger.Info("tag created",
		"event", "tag_created",
		"module", application.ModuleName,
		"layer", "application",
		"tag_id", tag.TagID,
		"tag_name", tag.Name,
	)
	return tag, nil
}

type RenameTagUseCase struct {
	Tags   ports.TagRepository
	Logger *slog.Logger
}

func (u RenameTagUseCase) Execute(ctx context.Context, tagID string, name string) (entities.Tag, error) {
	normalized, err := entities.NormalizeTagName(name)
	if err != nil {
		return entities.Tag{}, err
	}
	tag, err := u.Tags.GetTag(ctx, tagID)
	if err != nil {
		return entities.Tag{}, err
	}
	tag.Name = normalized
	if err := u.Tags.UpdateTag(ctx, tag); err != nil {
		return entities.Tag{}, err
	}

	application.ResolveLogger(u.Logger).Info("tag renamed",
		"event", "tag_renamed",
		"module", application.ModuleName,
		"layer", "application",
		"tag_id", tag.TagID,
		"tag_name", tag.Name,
	)
	return tag, nil
}

// DeleteTagUseCase removes a tag. Articles left without tags drop out of the
// public listings.
type DeleteTagUseCase struct {
	Tags   ports.TagRepository
	Logger *slog.Logger
}

func (u DeleteTagUseCase) Execute(ctx context.Context, tagID string) error {
	if err := u.Tags.DeleteTag(ctx, tagID); err != nil {
		return err
	}
	application.ResolveLogger(u.Logger).Info("tag deleted",
		"event", "tag_deleted",
		"module", application.ModuleName,
		"layer", "application",
		"tag_id", tagID,
	)
	return nil
}
