package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentRecordsStatusByRoute(t *testing.T) {
	m := New()
	handler := m.Instrument("GET /api/v1/articles/{article_id}", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/articles/a1", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/articles/a2", nil))

	count := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET /api/v1/articles/{article_id}", http.MethodGet, "404"))
	assert.Equal(t, 2.0, count)
}

func TestWorkerCountersAndExposition(t *testing.T) {
	m := New()
	m.ObserveAnnounced(3)
	m.ObserveRelayed(5)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ArticlesAnnounced))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.OutboxRelayed))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "library_outbox_relayed_total 5"))
}
