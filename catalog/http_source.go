package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/beinghadibadami/medinexus-connect/entities"
	"github.com/beinghadibadami/medinexus-connect/interfaces"
	"github.com/beinghadibadami/medinexus-connect/logging"
	"github.com/google/uuid"
)

// Compile-time check to ensure HTTPSource implements CatalogSource
var _ interfaces.CatalogSource = (*HTTPSource)(nil)

// maxCatalogBytes bounds the collaborator response we are willing to decode
const maxCatalogBytes = 64 * 1024 * 1024

// HTTPSource reads stores from the store/medicine REST collaborator
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSource creates a source fetching <baseURL>/stores
func NewHTTPSource(baseURL string, client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (s *HTTPSource) Name() string {
	return "http"
}

// FetchStores downloads the full store list with embedded medicines
func (s *HTTPSource) FetchStores(ctx context.Context) ([]entities.Store, error) {
	url := s.baseURL + "/stores"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, Unavailable(s.Name(), fmt.Errorf("failed to build request: %w", err))
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	response, err := s.client.Do(req)
	if err != nil {
		return nil, Unavailable(s.Name(), fmt.Errorf("failed to fetch %s: %w", url, err))
	}
	defer func() {
		if err := response.Body.Close(); err != nil {
			logging.Warn("Failed to close response body", "error", err)
		}
	}()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, Unavailable(s.Name(), fmt.Errorf("unexpected status %d from %s", response.StatusCode, url))
	}

	var stores []entities.Store
	if err := json.NewDecoder(io.LimitReader(response.Body, maxCatalogBytes)).Decode(&stores); err != nil {
		return nil, Unavailable(s.Name(), fmt.Errorf("failed to decode catalog: %w", err))
	}

	logging.Debug("Catalog fetched", "source", s.Name(), "request_id", requestID, "stores", len(stores))
	return stores, nil
}
