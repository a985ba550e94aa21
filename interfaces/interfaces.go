// Package interfaces defines the contracts between the catalog, search and HTTP
// layers so each can be tested against lightweight fakes.
package interfaces

import (
	"context"
	"net/http"
	"time"

	"github.com/beinghadibadami/medinexus-connect/entities"
)

// DataQualityReport summarizes issues found in a catalog snapshot
type DataQualityReport struct {
	TotalStores               int
	ValidStores               int
	TotalMedicines            int
	StoresWithInvalidLocation int
	UnnamedMedicines          int
	ZeroStockMedicines        int
	ExpiredMedicines          int
	DuplicateStoreIDs         []string
	InvalidLocationStoreIDs   []string // first 10 only
	DuplicateMedicineIDs      []string
	UnnamedMedicineStoreIDs   []string
	NegativeStockMedicineIDs  []string
	InvalidPriceMedicineIDs   []string
}

// RawQuery is a search query as received from a transport, before validation
type RawQuery struct {
	MedicineName string
	Latitude     string
	Longitude    string
	MaxDistance  string
}

// CatalogSource reads the full store catalog from the external collaborator.
// Failures are reported as catalog unavailability; retries are the caller's concern.
type CatalogSource interface {
	Name() string
	FetchStores(ctx context.Context) ([]entities.Store, error)
}

// DataStore provides thread-safe access to the current catalog snapshot
// with atomic swaps for zero-downtime refreshes.
type DataStore interface {
	// Data retrieval methods
	GetStores() []entities.Store
	GetStoresMap() map[string]entities.Store
	GetLastUpdated() time.Time
	GetQualityReport() *DataQualityReport
	IsUpdating() bool
	HasData() bool

	// Catalog returns the stores to search, or a catalog unavailable error
	// when no snapshot has been loaded yet
	Catalog(ctx context.Context) ([]entities.Store, error)

	// Data update methods
	UpdateData(stores []entities.Store, report *DataQualityReport)
	BeginUpdate() bool
	EndUpdate()
}

// Searcher runs a validated query over a catalog
type Searcher interface {
	Search(ctx context.Context, query entities.SearchQuery, catalog []entities.Store) ([]entities.SearchResult, error)
}

// QueryValidator turns raw query fields into a SearchQuery, reporting all violations at once
type QueryValidator interface {
	ValidateQuery(raw RawQuery) (entities.SearchQuery, error)
}

// Scheduler manages periodic catalog refreshes
type Scheduler interface {
	Start() error
	Stop()
}

// HTTPHandler defines the API endpoints
type HTTPHandler interface {
	SearchStores(w http.ResponseWriter, r *http.Request)
	ValidateSearch(w http.ResponseWriter, r *http.Request)
	ServePagedStores(w http.ResponseWriter, r *http.Request)
	FindStoreByID(w http.ResponseWriter, r *http.Request)
	HealthCheck(w http.ResponseWriter, r *http.Request)
}

// HealthChecker evaluates the health of the catalog snapshot
type HealthChecker interface {
	HealthCheck() (status string, data map[string]any, httpStatus int)
}
