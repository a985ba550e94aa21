// Package data provides thread-safe storage of the catalog snapshot used by
// the search endpoints. Snapshots are swapped atomically so readers never see a
// half-applied refresh.
package data

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/beinghadibadami/medinexus-connect/catalog"
	"github.com/beinghadibadami/medinexus-connect/entities"
	"github.com/beinghadibadami/medinexus-connect/interfaces"
	"github.com/beinghadibadami/medinexus-connect/logging"
)

// Compile-time check to ensure DataContainer implements DataStore
var _ interfaces.DataStore = (*DataContainer)(nil)

var errNoSnapshot = errors.New("no catalog snapshot loaded yet")

// DataContainer holds the catalog with atomic pointers for zero-downtime updates
type DataContainer struct {
	stores          atomic.Value // []entities.Store
	storesMap       atomic.Value // map[string]entities.Store
	qualityReport   atomic.Value // *interfaces.DataQualityReport
	lastUpdated     atomic.Value // time.Time
	updating        atomic.Bool
	loaded          atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewDataContainer creates a new DataContainer with empty data
func NewDataContainer() *DataContainer {
	dc := &DataContainer{}
	dc.stores.Store(make([]entities.Store, 0))
	dc.storesMap.Store(make(map[string]entities.Store))
	dc.qualityReport.Store(&interfaces.DataQualityReport{})
	dc.lastUpdated.Store(time.Time{})
	dc.serverStartTime.Store(time.Time{})
	return dc
}

// Thread-safe getters with type check

// GetStores returns the current store list in catalog order
func (dc *DataContainer) GetStores() []entities.Store {
	if v := dc.stores.Load(); v != nil {
		if stores, ok := v.([]entities.Store); ok {
			return stores
		}
	}

	logging.Warn("Stores list is empty or invalid")
	return []entities.Store{}
}

// GetStoresMap returns the stores keyed by id for O(1) lookups
func (dc *DataContainer) GetStoresMap() map[string]entities.Store {
	if v := dc.storesMap.Load(); v != nil {
		if storesMap, ok := v.(map[string]entities.Store); ok {
			return storesMap
		}
	}

	logging.Warn("StoresMap is empty or invalid")
	return make(map[string]entities.Store)
}

// GetQualityReport returns the data quality report of the current snapshot
func (dc *DataContainer) GetQualityReport() *interfaces.DataQualityReport {
	if v := dc.qualityReport.Load(); v != nil {
		if report, ok := v.(*interfaces.DataQualityReport); ok {
			return report
		}
	}
	return &interfaces.DataQualityReport{}
}

// GetLastUpdated returns the timestamp of the last data update
func (dc *DataContainer) GetLastUpdated() time.Time {
	if v := dc.lastUpdated.Load(); v != nil {
		if lastUpdated, ok := v.(time.Time); ok {
			return lastUpdated
		}
	}

	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

// IsUpdating returns true if a data update is currently in progress
func (dc *DataContainer) IsUpdating() bool {
	return dc.updating.Load()
}

// HasData reports whether a snapshot has been loaded at least once.
// An empty catalog still counts as loaded.
func (dc *DataContainer) HasData() bool {
	return dc.loaded.Load()
}

// Catalog returns the stores to search, or a catalog unavailable error if
// nothing has been loaded yet
func (dc *DataContainer) Catalog(ctx context.Context) ([]entities.Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !dc.HasData() {
		return nil, catalog.Unavailable("snapshot", errNoSnapshot)
	}
	return dc.GetStores(), nil
}

// SetServerStartTime sets the server start time
func (dc *DataContainer) SetServerStartTime(startTime time.Time) {
	dc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (dc *DataContainer) GetServerStartTime() time.Time {
	if v := dc.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}
	return time.Time{}
}

// UpdateData atomically replaces the catalog snapshot
func (dc *DataContainer) UpdateData(stores []entities.Store, report *interfaces.DataQualityReport) {
	storesMap := make(map[string]entities.Store, len(stores))
	for _, s := range stores {
		// First occurrence wins, matching catalog order
		if _, exists := storesMap[s.ID]; !exists {
			storesMap[s.ID] = s
		}
	}

	if report == nil {
		report = &interfaces.DataQualityReport{}
	}

	// Atomic swap (zero downtime replacement)
	dc.stores.Store(stores)
	dc.storesMap.Store(storesMap)
	dc.qualityReport.Store(report)
	dc.lastUpdated.Store(time.Now())
	dc.loaded.Store(true)
}

// BeginUpdate marks the start of a data update operation
// Returns true if update can proceed, false if another update is in progress
func (dc *DataContainer) BeginUpdate() bool {
	return dc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of a data update operation
func (dc *DataContainer) EndUpdate() {
	dc.updating.Store(false)
}
