package health

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/beinghadibadami/medinexus-connect/entities"
	"github.com/beinghadibadami/medinexus-connect/interfaces"
)

// MockHealthDataStore is a DataStore with a settable snapshot age
type MockHealthDataStore struct {
	stores      []entities.Store
	lastUpdated time.Time
	isUpdating  bool
	hasData     bool
	report      *interfaces.DataQualityReport
}

var _ interfaces.DataStore = (*MockHealthDataStore)(nil)

func (m *MockHealthDataStore) GetStores() []entities.Store { return m.stores }

func (m *MockHealthDataStore) GetStoresMap() map[string]entities.Store {
	return make(map[string]entities.Store)
}

func (m *MockHealthDataStore) GetLastUpdated() time.Time { return m.lastUpdated }

func (m *MockHealthDataStore) GetQualityReport() *interfaces.DataQualityReport { return m.report }

func (m *MockHealthDataStore) IsUpdating() bool { return m.isUpdating }

func (m *MockHealthDataStore) HasData() bool { return m.hasData }

func (m *MockHealthDataStore) Catalog(ctx context.Context) ([]entities.Store, error) {
	return m.stores, nil
}

func (m *MockHealthDataStore) UpdateData(stores []entities.Store, report *interfaces.DataQualityReport) {
}

func (m *MockHealthDataStore) BeginUpdate() bool { return true }

func (m *MockHealthDataStore) EndUpdate() {}

func fixedChecker(store *MockHealthDataStore, interval time.Duration, now time.Time) *HealthCheckerImpl {
	h := NewHealthChecker(store, interval)
	h.now = func() time.Time { return now }
	return h
}

func sampleStores() []entities.Store {
	return []entities.Store{
		{ID: "s1", Medicines: []entities.Medicine{{ID: "m1", Name: "Paracetamol"}, {ID: "m2", Name: "Ibuprofen"}}},
		{ID: "s2", Medicines: []entities.Medicine{{ID: "m3", Name: "Cetirizine"}}},
	}
}

func TestHealthCheckStatus(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	interval := 15 * time.Minute

	tests := []struct {
		name           string
		store          *MockHealthDataStore
		expectedStatus string
		expectedCode   int
	}{
		{
			name:           "never loaded",
			store:          &MockHealthDataStore{},
			expectedStatus: "unhealthy",
			expectedCode:   http.StatusServiceUnavailable,
		},
		{
			name:           "fresh snapshot",
			store:          &MockHealthDataStore{stores: sampleStores(), hasData: true, lastUpdated: now.Add(-5 * time.Minute)},
			expectedStatus: "healthy",
			expectedCode:   http.StatusOK,
		},
		{
			name:           "loaded empty catalog",
			store:          &MockHealthDataStore{hasData: true, lastUpdated: now.Add(-time.Minute)},
			expectedStatus: "healthy",
			expectedCode:   http.StatusOK,
		},
		{
			name:           "missed a few refreshes",
			store:          &MockHealthDataStore{stores: sampleStores(), hasData: true, lastUpdated: now.Add(-time.Hour)},
			expectedStatus: "degraded",
			expectedCode:   http.StatusServiceUnavailable,
		},
		{
			name:           "long stale",
			store:          &MockHealthDataStore{stores: sampleStores(), hasData: true, lastUpdated: now.Add(-3 * time.Hour)},
			expectedStatus: "unhealthy",
			expectedCode:   http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _, code := fixedChecker(tt.store, interval, now).HealthCheck()
			if status != tt.expectedStatus {
				t.Errorf("Expected status %s, got %s", tt.expectedStatus, status)
			}
			if code != tt.expectedCode {
				t.Errorf("Expected HTTP status %d, got %d", tt.expectedCode, code)
			}
		})
	}
}

func TestHealthCheckData(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	store := &MockHealthDataStore{
		stores:      sampleStores(),
		hasData:     true,
		isUpdating:  true,
		lastUpdated: now.Add(-90 * time.Second),
		report:      &interfaces.DataQualityReport{StoresWithInvalidLocation: 2, ExpiredMedicines: 1},
	}

	_, data, _ := fixedChecker(store, 15*time.Minute, now).HealthCheck()

	if data["stores"] != 2 {
		t.Errorf("Expected 2 stores, got %v", data["stores"])
	}
	if data["medicines"] != 3 {
		t.Errorf("Expected 3 medicines, got %v", data["medicines"])
	}
	if data["is_updating"] != true {
		t.Errorf("Expected is_updating true, got %v", data["is_updating"])
	}
	if data["data_age_minutes"] != 1.5 {
		t.Errorf("Expected data_age_minutes 1.5, got %v", data["data_age_minutes"])
	}
	if data["last_update"] != "2026-10-19T11:58:30Z" {
		t.Errorf("Expected last_update 2026-10-19T11:58:30Z, got %v", data["last_update"])
	}
	if data["invalid_location_stores"] != 2 {
		t.Errorf("Expected 2 invalid location stores, got %v", data["invalid_location_stores"])
	}
	if data["expired_medicines"] != 1 {
		t.Errorf("Expected 1 expired medicine, got %v", data["expired_medicines"])
	}
}

func TestHealthCheckNoSnapshotOmitsAge(t *testing.T) {
	_, data, _ := NewHealthChecker(&MockHealthDataStore{}, time.Minute).HealthCheck()

	if _, ok := data["last_update"]; ok {
		t.Error("last_update should be omitted before the first load")
	}
	if _, ok := data["data_age_minutes"]; ok {
		t.Error("data_age_minutes should be omitted before the first load")
	}
}

func TestCalculateNextUpdate(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	interval := 15 * time.Minute

	tests := []struct {
		name        string
		lastUpdated time.Time
		expected    time.Time
	}{
		{"never loaded", time.Time{}, now},
		{"within interval", now.Add(-5 * time.Minute), now.Add(10 * time.Minute)},
		{"missed refreshes", now.Add(-40 * time.Minute), now.Add(5 * time.Minute)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := fixedChecker(&MockHealthDataStore{lastUpdated: tt.lastUpdated}, interval, now)
			if got := h.CalculateNextUpdate(); !got.Equal(tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestNewHealthCheckerDefaultsInterval(t *testing.T) {
	h := NewHealthChecker(&MockHealthDataStore{}, 0)
	if h.refreshInterval != 15*time.Minute {
		t.Errorf("Expected default interval 15m, got %v", h.refreshInterval)
	}
}
