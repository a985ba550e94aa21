// Package health evaluates whether the catalog snapshot is fit to serve searches.
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/beinghadibadami/medinexus-connect/interfaces"
)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	dataStore       interfaces.DataStore
	refreshInterval time.Duration
	now             func() time.Time
}

// NewHealthChecker creates a health checker whose staleness thresholds scale
// with the catalog refresh interval
func NewHealthChecker(dataStore interfaces.DataStore, refreshInterval time.Duration) *HealthCheckerImpl {
	if refreshInterval <= 0 {
		refreshInterval = 15 * time.Minute
	}
	return &HealthCheckerImpl{
		dataStore:       dataStore,
		refreshInterval: refreshInterval,
		now:             time.Now,
	}
}

// HealthCheck returns the status, response body and HTTP code for /health.
// Missing a couple of refreshes degrades the service; missing many, or never
// having loaded a catalog, makes it unhealthy.
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	stores := h.dataStore.GetStores()
	lastUpdate := h.dataStore.GetLastUpdated()
	isUpdating := h.dataStore.IsUpdating()
	hasData := h.dataStore.HasData()

	dataAge := h.now().Sub(lastUpdate)

	switch {
	case !hasData:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case dataAge > 8*h.refreshInterval:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case dataAge > 3*h.refreshInterval:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	medicines := 0
	for _, s := range stores {
		medicines += len(s.Medicines)
	}

	data = map[string]any{
		"stores":      len(stores),
		"medicines":   medicines,
		"is_updating": isUpdating,
	}
	if hasData {
		data["last_update"] = lastUpdate.Format(time.RFC3339)
		data["data_age_minutes"] = math.Round(dataAge.Minutes()*10) / 10
		data["next_refresh"] = h.CalculateNextUpdate().Format(time.RFC3339)
	}
	if report := h.dataStore.GetQualityReport(); report != nil {
		data["invalid_location_stores"] = report.StoresWithInvalidLocation
		data["expired_medicines"] = report.ExpiredMedicines
	}

	return status, data, httpStatus
}

// CalculateNextUpdate returns when the next scheduled refresh is due
func (h *HealthCheckerImpl) CalculateNextUpdate() time.Time {
	lastUpdate := h.dataStore.GetLastUpdated()
	now := h.now()
	if lastUpdate.IsZero() {
		return now
	}

	next := lastUpdate.Add(h.refreshInterval)
	for next.Before(now) {
		next = next.Add(h.refreshInterval)
	}
	return next
}
