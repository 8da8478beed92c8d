package errors

import "errors"

var (
	ErrAuthorNotFound           = errors.New("author not found")
	ErrArticleNotFound          = errors.New("article not found")
	ErrTagNotFound              = errors.New("tag not found")
	ErrInvalidAuthor            = errors.New("invalid author")
	ErrInvalidArticle           = errors.New("invalid article")
	ErrInvalidTag               = errors.New("invalid tag")
	ErrInvalidListFilter        = errors.New("invalid list filter")
	ErrDuplicateUsername        = errors.New("username already taken")
	ErrDuplicateTagName         = errors.New("tag name already exists")
	ErrIdempotencyKeyConflict   = errors.New("idempotency key reused with different request")
	ErrIdempotencyKeyTaken      = errors.New("idempotency key already recorded")
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrStaffRequired            = errors.New("staff account required")
	ErrRepositoryInvariantBroke = errors.New("repository invariant violated")
)
