package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInstrumentHandlerUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(InstrumentHandler)
	r.Get("/api/customers/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/customers/{id}", "404"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/customers/17", nil))

	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/customers/{id}", "404"))
	assert.Equal(t, before+1, after)
}

func TestRecordJobRun(t *testing.T) {
	RecordJobRun("cleanup", 0, true)
	assert.Equal(t, 1.0, testutil.ToFloat64(jobRuns.WithLabelValues("cleanup", "true")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	RecordEmail("contact", "sent")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "hvac_email_deliveries_total"))
}
