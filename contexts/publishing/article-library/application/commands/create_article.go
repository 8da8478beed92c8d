package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	application "library/contexts/publishing/article-library/application"
	"library/contexts/publishing/article-library/domain/entities"
	domainerrors "library/contexts/publishing/article-library/domain/errors"
	"library/contexts/publishing/article-library/ports"
)

// ArticleInput carries the editable article fields shared by create and update.
type ArticleInput struct {
	Title    string
	AuthorID string
	TagIDs   []string
	PubDate  time.Time
	Content  string
}

type CreateArticleCommand struct {
	ArticleInput
	IdempotencyKey string
}

type CreateArticleResult struct {
	Article  entities.Article
	Replayed bool
}

type CreateArticleUseCase struct {
	Articles       ports.ArticleRepository
	Authors        ports.AuthorRepository
	Tags           ports.TagRepository
	Idempotency    ports.IdempotencyStore
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

// Execute runs the create workflow in this order:
// 1) field validation
// 2) idempotency lookup/replay when a key is supplied
// 3) author and tag resolution
// 4) atomic article + outbox + idempotency record persistence.
//
// A request that loses the race for its key replays the winner's article.
func (u CreateArticleUseCase) Execute(ctx context.Context, cmd CreateArticleCommand) (CreateArticleResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if err := entities.ValidateArticleFields(cmd.Title, cmd.PubDate); err != nil {
		return CreateArticleResult{}, err
	}

	current := now(u.Clock)
	idempotencyKey := strings.TrimSpace(cmd.IdempotencyKey)
	requestHash := hashArticleInput(cmd.ArticleInput)

	if idempotencyKey != "" {
		result, found, err := u.replay(ctx, logger, idempotencyKey, requestHash, current)
		if err != nil || found {
			return result, err
		}
	}

	author, tags, err := resolveReferences(ctx, u.Authors, u.Tags, cmd.ArticleInput)
	if err != nil {
		return CreateArticleResult{}, err
	}

	articleID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return CreateArticleResult{}, err
	}
	article, err := entities.NewArticle(
		articleID,
		cmd.Title,
		author.AuthorID,
		tags,
		cmd.PubDate,
		cmd.Content,
		current,
	)
	if err != nil {
		return CreateArticleResult{}, err
	}
	article.Author = author

	event, err := newArticleEvent(ctx, u.IDGenerator, ports.EventArticleCreated, article, current)
	if err != nil {
		return CreateArticleResult{}, err
	}

	var record *ports.IdempotencyRecord
	if idempotencyKey != "" {
		record = &ports.IdempotencyRecord{
			Key:         idempotencyKey,
			RequestHash: requestHash,
			ArticleID:   article.ArticleID,
			ExpiresAt:   current.Add(u.idempotencyTTL()),
		}
	}
	if err := u.Articles.CreateArticleWithOutbox(ctx, article, event, record); err != nil {
		if errors.Is(err, domainerrors.ErrIdempotencyKeyTaken) {
			result, found, replayErr := u.replay(ctx, logger, idempotencyKey, requestHash, current)
			if replayErr != nil || found {
				return result, replayErr
			}
		}
		logger.Error("create article failed on write transaction",
			"event", "create_article_write_failed",
			"module", application.ModuleName,
			"layer", "application",
			"author_id", article.AuthorID,
			"error", err.Error(),
		)
		return CreateArticleResult{}, err
	}

	logger.Info("article created",
		"event", "article_created",
		"module", application.ModuleName,
		"layer", "application",
		"article_id", article.ArticleID,
		"author_id", article.AuthorID,
		"tags_count", len(article.Tags),
		"published", article.IsPublished(current),
	)
	return CreateArticleResult{Article: article}, nil
}

// replay returns the article recorded under key. found is false when no live
// record exists.
func (u CreateArticleUseCase) replay(
	ctx context.Context,
	logger *slog.Logger,
	key string,
	requestHash string,
	current time.Time,
) (CreateArticleResult, bool, error) {
	record, found, err := u.Idempotency.Get(ctx, key, current)
	if err != nil || !found {
		return CreateArticleResult{}, false, err
	}
	if record.RequestHash != requestHash {
		logger.Warn("idempotency key conflict",
			"event", "create_article_idempotency_conflict",
			"module", application.ModuleName,
			"layer", "application",
			"idempotency_key", key,
		)
		return CreateArticleResult{}, true, domainerrors.ErrIdempotencyKeyConflict
	}
	article, err := u.Articles.GetArticle(ctx, record.ArticleID)
	if err != nil {
		return CreateArticleResult{}, true, err
	}
	logger.Info("create article replayed from idempotency",
		"event", "create_article_replayed",
		"module", application.ModuleName,
		"layer", "application",
		"article_id", article.ArticleID,
	)
	return CreateArticleResult{Article: article, Replayed: true}, true, nil
}

func (u CreateArticleUseCase) idempotencyTTL() time.Duration {
	if u.IdempotencyTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return u.IdempotencyTTL
}

// resolveReferences loads the author and tags an article points at. Unknown
// references are validation failures of the article, not missing resources.
func resolveReferences(
	ctx context.Context,
	authors ports.AuthorRepository,
	tagRepo ports.TagRepository,
	input ArticleInput,
) (entities.Author, []entities.Tag, error) {
	author, err := authors.GetAuthor(ctx, strings.TrimSpace(input.AuthorID))
	if err != nil {
		if errors.Is(err, domainerrors.ErrAuthorNotFound) {
			return entities.Author{}, nil, fmt.Errorf("%w: unknown author %q", domainerrors.ErrInvalidArticle, input.AuthorID)
		}
		return entities.Author{}, nil, err
	}

	tagIDs := uniqueIDs(input.TagIDs)
	if len(tagIDs) == 0 {
		return author, nil, nil
	}
	tags, err := tagRepo.GetTags(ctx, tagIDs)
	if err != nil {
		if errors.Is(err, domainerrors.ErrTagNotFound) {
			return entities.Author{}, nil, fmt.Errorf("%w: unknown tag", domainerrors.ErrInvalidArticle)
		}
		return entities.Author{}, nil, err
	}
	return author, tags, nil
}

func newArticleEvent(
	ctx context.Context,
	ids ports.IDGenerator,
	eventType string,
	article entities.Article,
	occurredAt time.Time,
) (ports.ArticleEvent, error) {
	eventID, err := ids.NewID(ctx)
	if err != nil {
		return ports.ArticleEvent{}, err
	}
	return ports.ArticleEvent{
		EventID:    eventID,
		EventType:  eventType,
		ArticleID:  article.ArticleID,
		AuthorID:   article.AuthorID,
		Title:      article.Title,
		PubDate:    article.PubDate,
		OccurredAt: occurredAt,
	}, nil
}

func uniqueIDs(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

func hashArticleInput(input ArticleInput) string {
	tagIDs := uniqueIDs(input.TagIDs)
	sort.Strings(tagIDs)
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s|%s|%s",
		input.AuthorID,
		input.Title,
		strings.Join(tagIDs, ","),
		input.PubDate.UTC().Format(time.RFC3339Nano),
		input.Content,
	)))
	return hex.EncodeToString(sum[:])
}
