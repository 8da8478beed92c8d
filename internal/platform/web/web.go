package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	httpadapter "library/contexts/publishing/article-library/adapters/http"
	domainerrors "library/contexts/publishing/article-library/domain/errors"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{
	"article_list.html",
	"article_detail.html",
	"author_list.html",
	"author_detail.html",
	"tag_list.html",
	"tag_articles.html",
	"error.html",
}

// Pages renders the visitor-facing HTML site on top of the module handler.
// Every page shows published articles only.
type Pages struct {
	library   httpadapter.Handler
	templates map[string]*template.Template
	markdown  goldmark.Markdown
	policy    *bluemonday.Policy
	logger    *slog.Logger
}

type pageData struct {
	Title      string
	Data       any
	NextCursor string
	Status     int
	Message    string
}

func New(library httpadapter.Handler, logger *slog.Logger) (*Pages, error) {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pages{
		library:   library,
		templates: make(map[string]*template.Template, len(pageNames)),
		markdown:  goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy:    bluemonday.UGCPolicy(),
		logger:    logger,
	}

	funcs := template.FuncMap{
		"markdown": p.RenderMarkdown,
		"date":     formatDate,
	}
	for _, name := range pageNames {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		p.templates[name] = tmpl
	}
	return p, nil
}

// RenderMarkdown converts article content to sanitized HTML.
func (p *Pages) RenderMarkdown(source string) template.HTML {
	var buf bytes.Buffer
	if err := p.markdown.Convert([]byte(source), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(p.policy.SanitizeBytes(buf.Bytes()))
}

func (p *Pages) Index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/articles/", http.StatusFound)
}

func (p *Pages) ArticleList(w http.ResponseWriter, r *http.Request) {
	resp, err := p.library.ListArticlesHandler(r.Context(), r.URL.Query().Get("cursor"), 0)
	if err != nil {
		p.renderError(w, r, err)
		return
	}
	p.render(w, r, http.StatusOK, "article_list.html", pageData{
		Title:      "Articles",
		Data:       resp.Items,
		NextCursor: resp.NextCursor,
	})
}

func (p *Pages) ArticleDetail(w http.ResponseWriter, r *http.Request) {
	resp, err := p.library.GetArticleHandler(r.Context(), r.PathValue("article_id"))
	if err != nil {
		p.renderError(w, r, err)
		return
	}
	p.render(w, r, http.StatusOK, "article_detail.html", pageData{
		Title: resp.Article.Title,
		Data:  resp.Article,
	})
}

func (p *Pages) AuthorList(w http.ResponseWriter, r *http.Request) {
	resp, err := p.library.ListAuthorsHandler(r.Context(), r.URL.Query().Get("cursor"), 0)
	if err != nil {
		p.renderError(w, r, err)
		return
	}
	p.render(w, r, http.StatusOK, "author_list.html", pageData{
		Title:      "Authors",
		Data:       resp.Items,
		NextCursor: resp.NextCursor,
	})
}

func (p *Pages) AuthorDetail(w http.ResponseWriter, r *http.Request) {
	resp, err := p.library.GetAuthorHandler(r.Context(), r.PathValue("author_id"), r.URL.Query().Get("cursor"), 0)
	if err != nil {
		p.renderError(w, r, err)
		return
	}
	p.render(w, r, http.StatusOK, "author_detail.html", pageData{
		Title:      resp.Author.Name,
		Data:       resp,
		NextCursor: resp.NextCursor,
	})
}

func (p *Pages) TagList(w http.ResponseWriter, r *http.Request) {
	resp, err := p.library.ListTagsHandler(r.Context(), r.URL.Query().Get("cursor"), 0)
	if err != nil {
		p.renderError(w, r, err)
		return
	}
	p.render(w, r, http.StatusOK, "tag_list.html", pageData{
		Title:      "Tags",
		Data:       resp.Items,
		NextCursor: resp.NextCursor,
	})
}

func (p *Pages) TagArticles(w http.ResponseWriter, r *http.Request) {
	resp, err := p.library.ListTagArticlesHandler(r.Context(), r.PathValue("tag_id"), r.URL.Query().Get("cursor"), 0)
	if err != nil {
		p.renderError(w, r, err)
		return
	}
	title := "Tag"
	if resp.Tag != nil {
		title = resp.Tag.Name
	}
	p.render(w, r, http.StatusOK, "tag_articles.html", pageData{
		Title:      title,
		Data:       resp,
		NextCursor: resp.NextCursor,
	})
}

func (p *Pages) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := http.StatusInternalServerError, "Something went wrong."
	switch {
	case errors.Is(err, domainerrors.ErrArticleNotFound),
		errors.Is(err, domainerrors.ErrAuthorNotFound),
		errors.Is(err, domainerrors.ErrTagNotFound):
		status, message = http.StatusNotFound, "Page not found."
	case errors.Is(err, domainerrors.ErrInvalidListFilter):
		status, message = http.StatusBadRequest, "Bad request."
	default:
		p.logger.Error("page handler failed",
			"event", "web_page_failed",
			"module", "internal/platform/web",
			"layer", "platform",
			"path", r.URL.Path,
			"error", err.Error(),
		)
	}
	p.render(w, r, status, "error.html", pageData{
		Title:   http.StatusText(status),
		Status:  status,
		Message: message,
	})
}

func (p *Pages) render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	var buf bytes.Buffer
	if err := p.templates[name].ExecuteTemplate(&buf, "base", data); err != nil {
		p.logError(r.Context(), name, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (p *Pages) logError(ctx context.Context, name string, err error) {
	p.logger.ErrorContext(ctx, "template render failed",
		"event", "web_render_failed",
		"module", "internal/platform/web",
		"layer", "platform",
		"template", name,
		"error", err.Error(),
	)
}

func formatDate(value string) string {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}
	return parsed.Format("January 2, 2006 15:04")
}
