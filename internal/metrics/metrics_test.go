package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestOutcomeFor(t *testing.T) {
	assert.Equal(t, OutcomeSuccess, OutcomeFor(http.StatusCreated))
	assert.Equal(t, OutcomeClientError, OutcomeFor(http.StatusBadRequest))
	assert.Equal(t, OutcomeServerError, OutcomeFor(http.StatusInternalServerError))
}

func TestObserveAndExpose(t *testing.T) {
	r := NewRegistry()
	r.Observe("login", http.StatusOK)
	r.Observe("login", http.StatusOK)
	r.Observe("login", http.StatusBadRequest)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.authRequests.WithLabelValues("login", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.authRequests.WithLabelValues("login", OutcomeClientError)))

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `authapi_auth_requests_total{operation="login",outcome="success"} 2`))
}

func TestNilRegistryObserve(t *testing.T) {
	var r *Registry
	assert.NotPanics(t, func() { r.Observe("login", http.StatusOK) })
}
