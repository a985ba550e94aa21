package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/beinghadibadami/medinexus-connect/data"
	"github.com/beinghadibadami/medinexus-connect/entities"
	"github.com/beinghadibadami/medinexus-connect/health"
	"github.com/beinghadibadami/medinexus-connect/search"
	"github.com/beinghadibadami/medinexus-connect/validation"
	"github.com/go-chi/chi/v5"
)

var mumbai = entities.Coordinate{Latitude: 19.0760, Longitude: 72.8777}

func testStores() []entities.Store {
	return []entities.Store{
		{
			ID:            "store-near",
			Name:          "Apollo Pharmacy",
			Address:       "Bandra West",
			ContactNumber: "+91 22 1234 5678",
			Location:      entities.Coordinate{Latitude: 19.0790, Longitude: 72.8777},
			Medicines: []entities.Medicine{
				{ID: "m1", Name: "Paracetamol 500mg", Price: 20, Stock: 0},
				{ID: "m2", Name: "Ibuprofen 200mg", Price: 35, Stock: 12},
			},
		},
		{
			ID:       "store-far",
			Name:     "Far Away Chemist",
			Location: entities.Coordinate{Latitude: 18.5204, Longitude: 73.8567},
			Medicines: []entities.Medicine{
				{ID: "m3", Name: "PARACETAMOL syrup", Price: 55, Stock: 3},
			},
		},
		{
			ID:       "store-mid",
			Name:     "Wellness Forever",
			Location: entities.Coordinate{Latitude: 19.0860, Longitude: 72.8777},
			Medicines: []entities.Medicine{
				{ID: "m4", Name: "Crocin (paracetamol)", Price: 30, Stock: 8},
			},
		},
	}
}

// stubSearcher returns a fixed error, for the failure paths
type stubSearcher struct {
	err error
}

func (s stubSearcher) Search(ctx context.Context, q entities.SearchQuery, c []entities.Store) ([]entities.SearchResult, error) {
	return nil, s.err
}

func newTestHandler(t *testing.T, loaded bool) (*HTTPHandlerImpl, *data.DataContainer) {
	t.Helper()
	dc := data.NewDataContainer()
	if loaded {
		dc.UpdateData(testStores(), nil)
	}
	h := NewHTTPHandler(dc, validation.NewQueryValidator(100), search.NewOrchestrator(), health.NewHealthChecker(dc, 15*time.Minute))
	return h, dc
}

func newRouter(h *HTTPHandlerImpl) http.Handler {
	r := chi.NewRouter()
	r.Get("/v1/search", h.SearchStores)
	r.Get("/v1/search/validate", h.ValidateSearch)
	r.Get("/v1/stores/{pageNumber}", h.ServePagedStores)
	r.Get("/v1/stores/id/{id}", h.FindStoreByID)
	r.Get("/health", h.HealthCheck)
	return r
}

func doGet(handler http.Handler, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal error response: %v (%s)", err, rr.Body.String())
	}
	return resp
}

func TestSearchStoresReturnsRankedResults(t *testing.T) {
	h, _ := newTestHandler(t, true)
	router := newRouter(h)

	rr := doGet(router, "/v1/search?medicineName=paracetamol&latitude=19.0760&longitude=72.8777&maxDistance=5000", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Expected JSON content type, got %s", ct)
	}

	var results []entities.SearchResult
	if err := json.Unmarshal(rr.Body.Bytes(), &results); err != nil {
		t.Fatalf("Failed to unmarshal results: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 results within 5km, got %d", len(results))
	}
	if results[0].Store.ID != "store-near" || results[1].Store.ID != "store-mid" {
		t.Errorf("Expected store-near then store-mid, got %s then %s", results[0].Store.ID, results[1].Store.ID)
	}
	if results[0].DistanceMeters > results[1].DistanceMeters {
		t.Error("Expected results sorted by ascending distance")
	}
	if len(results[0].MatchedMedicines) != 1 || results[0].MatchedMedicines[0].ID != "m1" {
		t.Errorf("Expected only the zero-stock paracetamol to match, got %+v", results[0].MatchedMedicines)
	}
}

func TestSearchStoresEmptyResultIsArray(t *testing.T) {
	h, _ := newTestHandler(t, true)

	rr := doGet(newRouter(h), "/v1/search?medicineName=insulin&latitude=19.0760&longitude=72.8777&maxDistance=5000", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if body := strings.TrimSpace(rr.Body.String()); body != "[]" {
		t.Errorf("Expected empty JSON array, got %s", body)
	}
}

func TestSearchStoresValidationErrors(t *testing.T) {
	h, _ := newTestHandler(t, true)
	router := newRouter(h)

	tests := []struct {
		name           string
		query          string
		expectedFields []string
	}{
		{
			name:           "all fields invalid",
			query:          "medicineName=%20%20&latitude=abc&longitude=200&maxDistance=-1",
			expectedFields: []string{validation.FieldMedicineName, validation.FieldLatitude, validation.FieldLongitude, validation.FieldMaxDistance},
		},
		{
			name:           "missing coordinates",
			query:          "medicineName=paracetamol&maxDistance=100",
			expectedFields: []string{validation.FieldLatitude, validation.FieldLongitude},
		},
		{
			name:           "zero distance",
			query:          "medicineName=paracetamol&latitude=19&longitude=72&maxDistance=0",
			expectedFields: []string{validation.FieldMaxDistance},
		},
		{
			name:           "name over transport limit",
			query:          "medicineName=" + strings.Repeat("a", 101) + "&latitude=19&longitude=72&maxDistance=10",
			expectedFields: []string{validation.FieldMedicineName},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doGet(router, "/v1/search?"+tt.query, nil)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("Expected status 400, got %d", rr.Code)
			}

			resp := decodeError(t, rr)
			if resp.Code != http.StatusBadRequest || resp.Error != "Bad Request" {
				t.Errorf("Unexpected envelope: %+v", resp)
			}
			if len(resp.Fields) != len(tt.expectedFields) {
				t.Fatalf("Expected %d field errors, got %+v", len(tt.expectedFields), resp.Fields)
			}
			for i, field := range tt.expectedFields {
				if resp.Fields[i].Field != field {
					t.Errorf("Expected field %s at %d, got %s", field, i, resp.Fields[i].Field)
				}
			}
		})
	}
}

func TestSearchStoresCatalogUnavailable(t *testing.T) {
	h, _ := newTestHandler(t, false)

	rr := doGet(newRouter(h), "/v1/search?medicineName=paracetamol&latitude=19&longitude=72&maxDistance=100", nil)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected status 503, got %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Error("Expected Retry-After header")
	}
	if resp := decodeError(t, rr); resp.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected code 503 in envelope, got %d", resp.Code)
	}
}

func TestSearchStoresSearcherErrors(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
	}{
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dc := data.NewDataContainer()
			dc.UpdateData(testStores(), nil)
			h := NewHTTPHandler(dc, validation.NewQueryValidator(0), stubSearcher{err: tt.err}, health.NewHealthChecker(dc, time.Minute))

			rr := doGet(newRouter(h), "/v1/search?medicineName=x&latitude=19&longitude=72&maxDistance=100", nil)
			if rr.Code != tt.expectedCode {
				t.Errorf("Expected status %d, got %d", tt.expectedCode, rr.Code)
			}
		})
	}
}

func TestSearchStoresCancelledRequest(t *testing.T) {
	h, _ := newTestHandler(t, true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/v1/search?medicineName=para&latitude=19&longitude=72&maxDistance=100", nil).WithContext(ctx)
	rr := httptest.NewRecorder()

	h.SearchStores(rr, req)

	if rr.Body.Len() != 0 {
		t.Errorf("Expected no body for a cancelled request, got %s", rr.Body.String())
	}
}

func TestValidateSearch(t *testing.T) {
	h, _ := newTestHandler(t, false)
	router := newRouter(h)

	rr := doGet(router, "/v1/search/validate?medicineName=%20Crocin%20&latitude=19.07&longitude=72.87&maxDistance=2500", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp ValidateResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if !resp.Valid || resp.Query.MedicineName != "Crocin" || resp.Query.MaxDistanceMeters != 2500 {
		t.Errorf("Unexpected validate response: %+v", resp)
	}

	rr = doGet(router, "/v1/search/validate?medicineName=Crocin&latitude=91&longitude=72.87&maxDistance=2500", nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for out of range latitude, got %d", rr.Code)
	}
}

func TestServePagedStores(t *testing.T) {
	h, dc := newTestHandler(t, true)
	router := newRouter(h)

	many := make([]entities.Store, 0, 25)
	for i := range 25 {
		s := testStores()[i%3]
		s.ID = s.ID + "-" + string(rune('a'+i))
		many = append(many, s)
	}
	dc.UpdateData(many, nil)

	tests := []struct {
		name         string
		page         string
		expectedCode int
		expectedLen  int
	}{
		{"first page", "1", http.StatusOK, 10},
		{"last partial page", "3", http.StatusOK, 5},
		{"past the end", "4", http.StatusNotFound, 0},
		{"zero", "0", http.StatusBadRequest, 0},
		{"not a number", "abc", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doGet(router, "/v1/stores/"+tt.page, nil)
			if rr.Code != tt.expectedCode {
				t.Fatalf("Expected status %d, got %d", tt.expectedCode, rr.Code)
			}
			if tt.expectedCode != http.StatusOK {
				return
			}

			var resp PagedStoresResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("Failed to unmarshal: %v", err)
			}
			if len(resp.Data) != tt.expectedLen {
				t.Errorf("Expected %d stores, got %d", tt.expectedLen, len(resp.Data))
			}
			if resp.TotalItems != 25 || resp.MaxPage != 3 || resp.PageSize != 10 {
				t.Errorf("Unexpected paging metadata: %+v", resp)
			}
			if strings.Contains(rr.Body.String(), "medicines") {
				t.Error("Paged stores should not include inventory")
			}
		})
	}
}

func TestFindStoreByID(t *testing.T) {
	h, _ := newTestHandler(t, true)
	router := newRouter(h)

	rr := doGet(router, "/v1/stores/id/store-mid", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var store entities.Store
	if err := json.Unmarshal(rr.Body.Bytes(), &store); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if store.Name != "Wellness Forever" || len(store.Medicines) != 1 {
		t.Errorf("Unexpected store: %+v", store)
	}

	etag := rr.Header().Get("ETag")
	if etag == "" {
		t.Fatal("ETag header should be present")
	}
	if rr.Header().Get("Cache-Control") != "public, max-age=300" {
		t.Errorf("Unexpected Cache-Control: %s", rr.Header().Get("Cache-Control"))
	}
	if rr.Header().Get("Last-Modified") == "" {
		t.Error("Expected Last-Modified header")
	}

	rr = doGet(router, "/v1/stores/id/store-mid", map[string]string{"If-None-Match": etag})
	if rr.Code != http.StatusNotModified {
		t.Errorf("Expected 304 for matching ETag, got %d", rr.Code)
	}

	if rr = doGet(router, "/v1/stores/id/unknown", nil); rr.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown store, got %d", rr.Code)
	}
	if rr = doGet(router, "/v1/stores/id/bad%20id", nil); rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed id, got %d", rr.Code)
	}
}

func TestHealthCheckHandler(t *testing.T) {
	tests := []struct {
		name           string
		loaded         bool
		expectedCode   int
		expectedStatus string
	}{
		{"no catalog", false, http.StatusServiceUnavailable, "unhealthy"},
		{"fresh catalog", true, http.StatusOK, "healthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler(t, tt.loaded)
			rr := doGet(newRouter(h), "/health", nil)

			if rr.Code != tt.expectedCode {
				t.Fatalf("Expected status %d, got %d", tt.expectedCode, rr.Code)
			}

			var resp HealthResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("Failed to unmarshal: %v", err)
			}
			if resp.Status != tt.expectedStatus {
				t.Errorf("Expected status %s, got %s", tt.expectedStatus, resp.Status)
			}
			if _, ok := resp.System["goroutines"]; !ok {
				t.Error("System should contain goroutines count")
			}
			if resp.Uptime == "" {
				t.Error("Uptime should be set")
			}
		})
	}
}

func TestGenerateETag(t *testing.T) {
	for _, input := range [][]byte{{}, []byte("hello world"), {0x00, 0xFF}} {
		etag := GenerateETag(input)
		if !strings.HasPrefix(etag, `"`) || !strings.HasSuffix(etag, `"`) {
			t.Errorf("ETag should be quoted, got %s", etag)
		}
		if len(etag) != 18 {
			t.Errorf("ETag should hold 16 hex characters, got %s", etag)
		}
	}

	if GenerateETag([]byte("a")) == GenerateETag([]byte("b")) {
		t.Error("Different payloads should produce different ETags")
	}
	if GenerateETag([]byte("same")) != GenerateETag([]byte("same")) {
		t.Error("ETag should be deterministic")
	}
}

func TestFormatUptimeHuman(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{30 * time.Second, "30s"},
		{5*time.Minute + 3*time.Second, "5m 3s"},
		{2*time.Hour + 5*time.Second, "2h 0m 5s"},
		{49*time.Hour + 61*time.Second, "2d 1h 1m 1s"},
	}

	for _, tt := range tests {
		if got := formatUptimeHuman(tt.duration); got != tt.expected {
			t.Errorf("formatUptimeHuman(%v) = %s, expected %s", tt.duration, got, tt.expected)
		}
	}
}
