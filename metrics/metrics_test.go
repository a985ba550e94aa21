package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddlewareUsesRoutePattern(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Metrics)
	router.Get("/v1/stores/id/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(HTTPRequestTotals.WithLabelValues(http.MethodGet, "/v1/stores/id/{id}", "404"))

	for _, id := range []string{"a", "b", "c"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/stores/id/"+id, nil))
		if rr.Code != http.StatusNotFound {
			t.Fatalf("Expected status 404, got %d", rr.Code)
		}
	}

	after := testutil.ToFloat64(HTTPRequestTotals.WithLabelValues(http.MethodGet, "/v1/stores/id/{id}", "404"))
	if after-before != 3 {
		t.Errorf("Expected 3 requests on the route pattern series, got %v", after-before)
	}
	if inFlight := testutil.ToFloat64(HTTPRequestInFlight); inFlight != 0 {
		t.Errorf("Expected no in-flight requests, got %v", inFlight)
	}
}

func TestMetricsMiddlewareWithoutRouter(t *testing.T) {
	handler := Metrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	before := testutil.ToFloat64(HTTPRequestTotals.WithLabelValues(http.MethodGet, "unmatched", "200"))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/anything", nil))
	after := testutil.ToFloat64(HTTPRequestTotals.WithLabelValues(http.MethodGet, "unmatched", "200"))

	if after-before != 1 {
		t.Errorf("Expected unmatched series to increase by 1, got %v", after-before)
	}
}

func TestObserveSearch(t *testing.T) {
	okBefore := testutil.ToFloat64(SearchRequestsTotal.WithLabelValues(OutcomeOK))
	invalidBefore := testutil.ToFloat64(SearchRequestsTotal.WithLabelValues(OutcomeInvalid))

	ObserveSearch(OutcomeOK, 3)
	ObserveSearch(OutcomeInvalid, 0)

	if got := testutil.ToFloat64(SearchRequestsTotal.WithLabelValues(OutcomeOK)) - okBefore; got != 1 {
		t.Errorf("Expected ok counter +1, got %v", got)
	}
	if got := testutil.ToFloat64(SearchRequestsTotal.WithLabelValues(OutcomeInvalid)) - invalidBefore; got != 1 {
		t.Errorf("Expected invalid counter +1, got %v", got)
	}
}

func TestObserveRefresh(t *testing.T) {
	ObserveRefresh(RefreshSuccess, 42)
	if got := testutil.ToFloat64(CatalogStores); got != 42 {
		t.Errorf("Expected catalog_stores 42, got %v", got)
	}

	ObserveRefresh(RefreshFailure, 0)
	if got := testutil.ToFloat64(CatalogStores); got != 42 {
		t.Errorf("Expected failed refresh to keep catalog_stores at 42, got %v", got)
	}
}
