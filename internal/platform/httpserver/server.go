package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"time"

	articlelibrary "library/contexts/publishing/article-library"
	"library/contexts/publishing/article-library/application/queries"
	domainerrors "library/contexts/publishing/article-library/domain/errors"
	libraryhttp "library/contexts/publishing/article-library/transport/http"
	"library/internal/platform/metrics"
	"library/internal/platform/web"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "library/internal/platform/httpserver/docs"
)

const maxBodyBytes = 1 << 20

type Options struct {
	Addr            string
	AdminRateLimit  float64
	AdminRateBurst  int
	// TrustedProxies may set X-Forwarded-For and X-Real-IP for the admin limiter.
	TrustedProxies  []netip.Prefix
	ShutdownTimeout time.Duration
	// HealthCheck is probed by /healthz when set.
	HealthCheck func(context.Context) error
}

type Server struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	opts     Options
	library  articlelibrary.Module
	pages    *web.Pages
	metrics  *metrics.Metrics
	limiters *clientLimiters
}

func New(
	library articlelibrary.Module,
	pages *web.Pages,
	m *metrics.Metrics,
	logger *slog.Logger,
	opts Options,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.New()
	}
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		opts:     opts,
		library:  library,
		pages:    pages,
		metrics:  m,
		limiters: newClientLimiters(opts.AdminRateLimit, opts.AdminRateBurst),
	}
	s.registerRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.opts.Addr,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	s.logger.Info("http server stopping",
		"event", "http_server_stopping",
		"module", "internal/platform/httpserver",
		"layer", "platform",
	)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.Handle("GET /metrics", s.metrics.Handler())
	s.handle("GET /healthz", s.handleHealth)

	if s.pages != nil {
		s.handle("GET /{$}", s.pages.Index)
		s.handle("GET /articles/{$}", s.pages.ArticleList)
		s.handle("GET /articles/{article_id}/{$}", s.pages.ArticleDetail)
		s.handle("GET /authors/{$}", s.pages.AuthorList)
		s.handle("GET /authors/{author_id}/{$}", s.pages.AuthorDetail)
		s.handle("GET /tags/{$}", s.pages.TagList)
		s.handle("GET /tags/{tag_id}/{$}", s.pages.TagArticles)
	}

	s.handle("GET /api/v1/articles", s.handleListArticles)
	s.handle("GET /api/v1/articles/{article_id}", s.handleGetArticle)
	s.handle("GET /api/v1/authors", s.handleListAuthors)
	s.handle("GET /api/v1/authors/{author_id}", s.handleGetAuthor)
	s.handle("GET /api/v1/tags", s.handleListTags)
	s.handle("GET /api/v1/tags/{tag_id}/articles", s.handleListTagArticles)

	s.handle("GET /admin/api/v1/authors", s.admin(s.handleAdminListAuthors))
	s.handle("POST /admin/api/v1/authors", s.admin(s.handleCreateAuthor))
	s.handle("PUT /admin/api/v1/authors/{author_id}", s.admin(s.handleUpdateAuthor))
	s.handle("DELETE /admin/api/v1/authors/{author_id}", s.admin(s.handleDeleteAuthor))
	s.handle("GET /admin/api/v1/tags", s.admin(s.handleAdminListTags))
	s.handle("POST /admin/api/v1/tags", s.admin(s.handleCreateTag))
	s.handle("PUT /admin/api/v1/tags/{tag_id}", s.admin(s.handleRenameTag))
	s.handle("DELETE /admin/api/v1/tags/{tag_id}", s.admin(s.handleDeleteTag))
	s.handle("GET /admin/api/v1/articles", s.admin(s.handleAdminListArticles))
	s.handle("POST /admin/api/v1/articles", s.admin(s.handleCreateArticle))
	s.handle("GET /admin/api/v1/articles/{article_id}", s.admin(s.handleAdminGetArticle))
	s.handle("PUT /admin/api/v1/articles/{article_id}", s.admin(s.handleUpdateArticle))
	s.handle("DELETE /admin/api/v1/articles/{article_id}", s.admin(s.handleDeleteArticle))
}

func (s *Server) handle(pattern string, handler http.HandlerFunc) {
	s.mux.Handle(pattern, s.metrics.Instrument(pattern, handler))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.opts.HealthCheck != nil {
		if err := s.opts.HealthCheck(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "unhealthy", err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	cursor, limit, ok := pageParams(w, r)
	if !ok {
		return
	}
	resp, err := s.library.Handler.ListArticlesHandler(r.Context(), cursor, limit)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	resp, err := s.library.Handler.GetArticleHandler(r.Context(), r.PathValue("article_id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListAuthors(w http.ResponseWriter, r *http.Request) {
	cursor, limit, ok := pageParams(w, r)
	if !ok {
		return
	}
	resp, err := s.library.Handler.ListAuthorsHandler(r.Context(), cursor, limit)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetAuthor(w http.ResponseWriter, r *http.Request) {
	cursor, limit, ok := pageParams(w, r)
	if !ok {
		return
	}
	resp, err := s.library.Handler.GetAuthorHandler(r.Context(), r.PathValue("author_id"), cursor, limit)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	cursor, limit, ok := pageParams(w, r)
	if !ok {
		return
	}
	resp, err := s.library.Handler.ListTagsHandler(r.Context(), cursor, limit)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListTagArticles(w http.ResponseWriter, r *http.Request) {
	cursor, limit, ok := pageParams(w, r)
	if !ok {
		return
	}
	resp, err := s.library.Handler.ListTagArticlesHandler(r.Context(), r.PathValue("tag_id"), cursor, limit)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAdminListAuthors(w http.ResponseWriter, r *http.Request) {
	cursor, limit, ok := pageParams(w, r)
	if !ok {
		return
	}
	resp, err := s.library.Handler.AdminListAuthorsHandler(r.Context(), cursor, limit)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateAuthor(w http.ResponseWriter, r *http.Request) {
	var req libraryhttp.CreateAuthorRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.library.Handler.CreateAuthorHandler(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUpdateAuthor(w http.ResponseWriter, r *http.Request) {
	var req libraryhttp.UpdateAuthorRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.library.Handler.UpdateAuthorHandler(r.Context(), r.PathValue("author_id"), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteAuthor(w http.ResponseWriter, r *http.Request) {
	if err := s.library.Handler.DeleteAuthorHandler(r.Context(), r.PathValue("author_id")); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdminListTags(w http.ResponseWriter, r *http.Request) {
	cursor, limit, ok := pageParams(w, r)
	if !ok {
		return
	}
	resp, err := s.library.Handler.AdminListTagsHandler(r.Context(), cursor, limit)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var req libraryhttp.TagRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.library.Handler.CreateTagHandler(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleRenameTag(w http.ResponseWriter, r *http.Request) {
	var req libraryhttp.TagRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.library.Handler.RenameTagHandler(r.Context(), r.PathValue("tag_id"), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	if err := s.library.Handler.DeleteTagHandler(r.Context(), r.PathValue("tag_id")); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdminListArticles(w http.ResponseWriter, r *http.Request) {
	cursor, limit, ok := pageParams(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()
	resp, err := s.library.Handler.AdminListArticlesHandler(r.Context(), queries.AdminListArticlesQuery{
		AuthorID: query.Get("author_id"),
		TagID:    query.Get("tag_id"),
		PubDate:  query.Get("pub_date"),
		Cursor:   cursor,
		Limit:    limit,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAdminGetArticle(w http.ResponseWriter, r *http.Request) {
	resp, err := s.library.Handler.AdminGetArticleHandler(r.Context(), r.PathValue("article_id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateArticle(w http.ResponseWriter, r *http.Request) {
	var req libraryhttp.ArticleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.library.Handler.CreateArticleHandler(r.Context(), strings.TrimSpace(r.Header.Get("Idempotency-Key")), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	status := http.StatusCreated
	if resp.Replayed {
		status = http.StatusOK
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleUpdateArticle(w http.ResponseWriter, r *http.Request) {
	var req libraryhttp.ArticleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.library.Handler.UpdateArticleHandler(r.Context(), r.PathValue("article_id"), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteArticle(w http.ResponseWriter, r *http.Request) {
	if err := s.library.Handler.DeleteArticleHandler(r.Context(), r.PathValue("article_id")); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domainerrors.ErrArticleNotFound):
		writeError(w, http.StatusNotFound, "article_not_found", err.Error())
	case errors.Is(err, domainerrors.ErrAuthorNotFound):
		writeError(w, http.StatusNotFound, "author_not_found", err.Error())
	case errors.Is(err, domainerrors.ErrTagNotFound):
		writeError(w, http.StatusNotFound, "tag_not_found", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidArticle):
		writeError(w, http.StatusBadRequest, "invalid_article", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidAuthor):
		writeError(w, http.StatusBadRequest, "invalid_author", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidTag):
		writeError(w, http.StatusBadRequest, "invalid_tag", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidListFilter):
		writeError(w, http.StatusBadRequest, "invalid_list_filter", err.Error())
	case errors.Is(err, domainerrors.ErrDuplicateUsername):
		writeError(w, http.StatusConflict, "duplicate_username", err.Error())
	case errors.Is(err, domainerrors.ErrDuplicateTagName):
		writeError(w, http.StatusConflict, "duplicate_tag_name", err.Error())
	case errors.Is(err, domainerrors.ErrIdempotencyKeyConflict), errors.Is(err, domainerrors.ErrIdempotencyKeyTaken):
		writeError(w, http.StatusConflict, "idempotency_conflict", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidCredentials):
		w.Header().Set("WWW-Authenticate", `Basic realm="library admin"`)
		writeError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, domainerrors.ErrStaffRequired):
		writeError(w, http.StatusForbidden, "staff_required", err.Error())
	default:
		s.logger.Error("request failed",
			"event", "http_request_failed",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err.Error(),
		)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func pageParams(w http.ResponseWriter, r *http.Request) (string, int, bool) {
	query := r.URL.Query()
	limit := 0
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return "", 0, false
		}
		limit = value
	}
	return query.Get("cursor"), limit, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, target any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be a valid JSON object")
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, libraryhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
