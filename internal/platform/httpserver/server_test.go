package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"
	"time"

	articlelibrary "library/contexts/publishing/article-library"
	httptransport "library/contexts/publishing/article-library/transport/http"
	"library/internal/platform/metrics"
	"library/internal/platform/web"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	staffUser     = "editor"
	staffPassword = "s3cret"
)

func newTestServer(t *testing.T, opts Options) (*Server, articlelibrary.Module) {
	t.Helper()
	module := articlelibrary.NewInMemoryModule(nil)
	ctx := context.Background()
	_, err := module.Handler.CreateAuthorHandler(ctx, httptransport.CreateAuthorRequest{
		Username: staffUser,
		IsStaff:  true,
		Password: staffPassword,
	})
	require.NoError(t, err)
	_, err = module.Handler.CreateAuthorHandler(ctx, httptransport.CreateAuthorRequest{
		Username: "writer",
		Password: staffPassword,
	})
	require.NoError(t, err)

	pages, err := web.New(module.Handler, nil)
	require.NoError(t, err)
	if opts.AdminRateLimit == 0 {
		opts.AdminRateLimit = 100
		opts.AdminRateBurst = 100
	}
	return New(module, pages, metrics.New(), nil, opts), module
}

func do(t *testing.T, srv *Server, method string, path string, body any, auth bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if auth {
		req.SetBasicAuth(staffUser, staffPassword)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestAdminRequiresStaffCredentials(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	rec := do(t, srv, http.MethodGet, "/admin/api/v1/articles", nil, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
	assert.Equal(t, "authentication_required", decode[httptransport.ErrorResponse](t, rec).Code)

	req := httptest.NewRequest(http.MethodGet, "/admin/api/v1/articles", nil)
	req.SetBasicAuth(staffUser, "wrong")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin/api/v1/articles", nil)
	req.SetBasicAuth("writer", staffPassword)
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, srv, http.MethodGet, "/admin/api/v1/articles", nil, true)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func adminRequest(remoteAddr string, forwardedFor string, password string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/admin/api/v1/tags", nil)
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	req.SetBasicAuth(staffUser, password)
	return req
}

func serve(srv *Server, req *http.Request) int {
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec.Code
}

func TestAdminRateLimitPerClient(t *testing.T) {
	srv, _ := newTestServer(t, Options{AdminRateLimit: 0.001, AdminRateBurst: 2})

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, serve(srv, adminRequest("192.0.2.1:1234", "", staffPassword)))
	}
	assert.Equal(t, http.StatusTooManyRequests, serve(srv, adminRequest("192.0.2.1:1234", "", staffPassword)))
	assert.Equal(t, http.StatusOK, serve(srv, adminRequest("192.0.2.2:1234", "", staffPassword)))
}

func TestAdminRateLimitIgnoresForwardedHeadersFromUntrustedPeers(t *testing.T) {
	srv, _ := newTestServer(t, Options{AdminRateLimit: 0.001, AdminRateBurst: 2})

	codes := map[int]int{}
	for i := 0; i < 20; i++ {
		req := adminRequest("192.0.2.1:1234", fmt.Sprintf("203.0.113.%d", i+1), "wrong")
		req.Header.Set("X-Real-IP", fmt.Sprintf("198.51.100.%d", i+1))
		codes[serve(srv, req)]++
	}
	assert.Equal(t, 2, codes[http.StatusUnauthorized])
	assert.Equal(t, 18, codes[http.StatusTooManyRequests])
}

func TestAdminRateLimitHonoursTrustedProxy(t *testing.T) {
	srv, _ := newTestServer(t, Options{
		AdminRateLimit: 0.001,
		AdminRateBurst: 1,
		TrustedProxies: []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")},
	})

	require.Equal(t, http.StatusOK, serve(srv, adminRequest("10.0.0.5:443", "203.0.113.9, 10.0.0.7", staffPassword)))
	assert.Equal(t, http.StatusTooManyRequests, serve(srv, adminRequest("10.0.0.6:443", "203.0.113.9", staffPassword)))
	assert.Equal(t, http.StatusOK, serve(srv, adminRequest("10.0.0.5:443", "203.0.113.10", staffPassword)))

	spoofed := "198.51.100.1, 203.0.113.9"
	assert.Equal(t, http.StatusTooManyRequests, serve(srv, adminRequest("10.0.0.5:443", spoofed, staffPassword)))
}

func TestResolveClientIP(t *testing.T) {
	trusted := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}
	cases := []struct {
		name       string
		remoteAddr string
		forwarded  string
		realIP     string
		trusted    []netip.Prefix
		want       string
	}{
		{name: "no proxies configured", remoteAddr: "192.0.2.1:1234", forwarded: "203.0.113.9", want: "192.0.2.1"},
		{name: "untrusted peer", remoteAddr: "192.0.2.1:1234", forwarded: "203.0.113.9", trusted: trusted, want: "192.0.2.1"},
		{name: "trusted peer", remoteAddr: "10.0.0.5:443", forwarded: "203.0.113.9", trusted: trusted, want: "203.0.113.9"},
		{name: "proxy chain", remoteAddr: "10.0.0.5:443", forwarded: "198.51.100.1, 203.0.113.9, 10.0.0.7", trusted: trusted, want: "203.0.113.9"},
		{name: "only proxies", remoteAddr: "10.0.0.5:443", forwarded: "10.0.0.8, 10.0.0.7", trusted: trusted, want: "10.0.0.8"},
		{name: "real ip header", remoteAddr: "10.0.0.5:443", realIP: "203.0.113.4", trusted: trusted, want: "203.0.113.4"},
		{name: "garbage header", remoteAddr: "10.0.0.5:443", forwarded: "not-an-ip", trusted: trusted, want: "10.0.0.5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/api/v1/tags", nil)
			req.RemoteAddr = tc.remoteAddr
			if tc.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tc.forwarded)
			}
			if tc.realIP != "" {
				req.Header.Set("X-Real-IP", tc.realIP)
			}
			assert.Equal(t, tc.want, resolveClientIP(req, tc.trusted))
		})
	}
}

func TestPublishFlowOverHTTP(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	rec := do(t, srv, http.MethodPost, "/admin/api/v1/authors", httptransport.CreateAuthorRequest{Username: "ada", DisplayName: "Ada"}, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	author := decode[httptransport.AdminAuthorResponse](t, rec).Author

	rec = do(t, srv, http.MethodPost, "/admin/api/v1/tags", httptransport.TagRequest{Name: "go"}, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	tag := decode[httptransport.TagResponse](t, rec).Tag

	rec = do(t, srv, http.MethodPost, "/admin/api/v1/tags", httptransport.TagRequest{Name: "Go"}, true)
	assert.Equal(t, http.StatusConflict, rec.Code)

	articleReq := httptransport.ArticleRequest{
		Title:    "Hello",
		AuthorID: author.AuthorID,
		TagIDs:   []string{tag.TagID},
		PubDate:  time.Now().Add(-time.Hour).UTC().Format(time.RFC3339),
		Content:  "World",
	}
	payload, err := json.Marshal(articleReq)
	require.NoError(t, err)

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/admin/api/v1/articles", bytes.NewReader(payload))
		req.Header.Set("Idempotency-Key", "create-hello")
		req.SetBasicAuth(staffUser, staffPassword)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		return rec
	}
	first := post()
	require.Equal(t, http.StatusCreated, first.Code)
	created := decode[httptransport.AdminArticleResponse](t, first)
	assert.True(t, created.Article.Published)

	replay := post()
	require.Equal(t, http.StatusOK, replay.Code)
	assert.True(t, decode[httptransport.AdminArticleResponse](t, replay).Replayed)

	rec = do(t, srv, http.MethodGet, "/api/v1/articles", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[httptransport.ListArticlesResponse](t, rec)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "go", list.Items[0].TagsAsStr)

	rec = do(t, srv, http.MethodGet, "/api/v1/articles/"+created.Article.ArticleID, nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodDelete, "/admin/api/v1/tags/"+tag.TagID, nil, true)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/v1/articles/"+created.Article.ArticleID, nil, false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "article_not_found", decode[httptransport.ErrorResponse](t, rec).Code)
}

func TestRequestValidationErrors(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	rec := do(t, srv, http.MethodGet, "/api/v1/articles?limit=ten", nil, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_limit", decode[httptransport.ErrorResponse](t, rec).Code)

	rec = do(t, srv, http.MethodPost, "/admin/api/v1/tags", map[string]string{"name": "x", "colour": "red"}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_json", decode[httptransport.ErrorResponse](t, rec).Code)

	rec = do(t, srv, http.MethodPost, "/admin/api/v1/articles", httptransport.ArticleRequest{Title: "No date"}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_article", decode[httptransport.ErrorResponse](t, rec).Code)

	rec = do(t, srv, http.MethodPost, "/admin/api/v1/authors", httptransport.CreateAuthorRequest{
		Username: "longpass",
		IsStaff:  true,
		Password: strings.Repeat("p", 80),
	}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_author", decode[httptransport.ErrorResponse](t, rec).Code)

	rec = do(t, srv, http.MethodGet, "/admin/api/v1/articles?pub_date=someday", nil, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/v1/tags/unknown/articles", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[httptransport.ListTagArticlesResponse](t, rec).Items)
}

func TestHealthAndPages(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	rec := do(t, srv, http.MethodGet, "/healthz", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodGet, "/", nil, false)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/articles/", rec.Header().Get("Location"))

	rec = do(t, srv, http.MethodGet, "/articles/", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	rec = do(t, srv, http.MethodGet, "/metrics", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "library_http_requests_total")

	unhealthy, _ := newTestServer(t, Options{HealthCheck: func(context.Context) error {
		return errors.New("database unreachable")
	}})
	rec = do(t, unhealthy, http.MethodGet, "/healthz", nil, false)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
