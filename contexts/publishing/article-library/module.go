package articlelibrary

import (
	"log/slog"
	"time"

	cryptoadapter "library/contexts/publishing/article-library/adapters/crypto"
	httpadapter "library/contexts/publishing/article-library/adapters/http"
	"library/contexts/publishing/article-library/adapters/memory"
	"library/contexts/publishing/article-library/application/commands"
	"library/contexts/publishing/article-library/application/queries"
	"library/contexts/publishing/article-library/ports"

	"golang.org/x/crypto/bcrypt"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Authors        ports.AuthorRepository
	Tags           ports.TagRepository
	Articles       ports.ArticleRepository
	Idempotency    ports.IdempotencyStore
	Hasher         ports.PasswordHasher
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			ListArticles: queries.ListArticlesUseCase{
				Articles: deps.Articles,
				Clock:    deps.Clock,
				Logger:   deps.Logger,
			},
			GetArticle: queries.GetArticleUseCase{
				Articles: deps.Articles,
				Clock:    deps.Clock,
				Logger:   deps.Logger,
			},
			ListAuthors: queries.ListAuthorsUseCase{
				Authors: deps.Authors,
				Logger:  deps.Logger,
			},
			GetAuthor: queries.GetAuthorUseCase{
				Authors:  deps.Authors,
				Articles: deps.Articles,
				Clock:    deps.Clock,
				Logger:   deps.Logger,
			},
			ListTags: queries.ListTagsUseCase{
				Tags:   deps.Tags,
				Logger: deps.Logger,
			},
			ListTagArticles: queries.ListTagArticlesUseCase{
				Tags:     deps.Tags,
				Articles: deps.Articles,
				Clock:    deps.Clock,
				Logger:   deps.Logger,
			},
			AdminListArticles: queries.AdminListArticlesUseCase{
				Articles: deps.Articles,
				Clock:    deps.Clock,
				Logger:   deps.Logger,
			},
			AdminGetArticle: queries.AdminGetArticleUseCase{
				Articles: deps.Articles,
				Logger:   deps.Logger,
			},
			AuthenticateStaff: queries.AuthenticateStaffUseCase{
				Authors: deps.Authors,
				Hasher:  deps.Hasher,
				Logger:  deps.Logger,
			},
			CreateAuthor: commands.CreateAuthorUseCase{
				Authors:     deps.Authors,
				Hasher:      deps.Hasher,
				Clock:       deps.Clock,
				IDGenerator: deps.IDGenerator,
				Logger:      deps.Logger,
			},
			UpdateAuthor: commands.UpdateAuthorUseCase{
				Authors: deps.Authors,
				Hasher:  deps.Hasher,
				Clock:   deps.Clock,
				Logger:  deps.Logger,
			},
			DeleteAuthor: commands.DeleteAuthorUseCase{
				Authors: deps.Authors,
				Logger:  deps.Logger,
			},
			CreateTag: commands.CreateTagUseCase{
				Tags:        deps.Tags,
				Clock:       deps.Clock,
				IDGenerator: deps.IDGenerator,
				Logger:      deps.Logger,
			},
			RenameTag: commands.RenameTagUseCase{
				Tags:   deps.Tags,
				Logger: deps.Logger,
			},
			DeleteTag: commands.DeleteTagUseCase{
				Tags:   deps.Tags,
				Logger: deps.Logger,
			},
			CreateArticle: commands.CreateArticleUseCase{
				Articles:       deps.Articles,
				Authors:        deps.Authors,
				Tags:           deps.Tags,
				Idempotency:    deps.Idempotency,
				Clock:          deps.Clock,
				IDGenerator:    deps.IDGenerator,
				IdempotencyTTL: deps.IdempotencyTTL,
				Logger:         deps.Logger,
			},
			UpdateArticle: commands.UpdateArticleUseCase{
				Articles:    deps.Articles,
				Authors:     deps.Authors,
				Tags:        deps.Tags,
				Clock:       deps.Clock,
				IDGenerator: deps.IDGenerator,
				Logger:      deps.Logger,
			},
			DeleteArticle: commands.DeleteArticleUseCase{
				Articles:    deps.Articles,
				Clock:       deps.Clock,
				IDGenerator: deps.IDGenerator,
				Logger:      deps.Logger,
			},
			Clock:  deps.Clock,
			Logger: deps.Logger,
		},
	}
}

// NewInMemoryModule wires the module on the in-process store. Passwords are
// hashed at the minimum bcrypt cost to keep tests fast.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore(logger)
	module := NewModule(Dependencies{
		Authors:        store,
		Tags:           store,
		Articles:       store,
		Idempotency:    store,
		Hasher:         cryptoadapter.BcryptHasher{Cost: bcrypt.MinCost},
		Clock:          store,
		IDGenerator:    store,
		IdempotencyTTL: 7 * 24 * time.Hour,
		Logger:         logger,
	})
	module.Store = store
	return module
}
