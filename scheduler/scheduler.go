// Package scheduler keeps the catalog snapshot fresh. It loads the catalog at
// start-up, refreshes it from the configured source on a fixed interval and
// warns when the snapshot goes stale.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/beinghadibadami/medinexus-connect/interfaces"
	"github.com/beinghadibadami/medinexus-connect/logging"
	"github.com/beinghadibadami/medinexus-connect/metrics"
	"github.com/beinghadibadami/medinexus-connect/validation"
	"github.com/go-co-op/gocron"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

const (
	defaultRefreshTimeout  = 2 * time.Minute
	defaultMonitorInterval = time.Hour
)

// Scheduler refreshes the data store from a catalog source
type Scheduler struct {
	dataStore       interfaces.DataStore
	source          interfaces.CatalogSource
	validator       *validation.CatalogValidator
	scheduler       *gocron.Scheduler
	interval        time.Duration
	refreshTimeout  time.Duration
	monitorInterval time.Duration
	ctx             context.Context
	cancel          context.CancelFunc
}

// NewScheduler creates a scheduler that refreshes dataStore from source every interval
func NewScheduler(dataStore interfaces.DataStore, source interfaces.CatalogSource, interval time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		dataStore:       dataStore,
		source:          source,
		validator:       validation.NewCatalogValidator(),
		scheduler:       gocron.NewScheduler(time.Local),
		interval:        interval,
		refreshTimeout:  defaultRefreshTimeout,
		monitorInterval: defaultMonitorInterval,
		ctx:             ctx,
		cancel:          cancel,
	}
}

// Start performs the initial load and schedules periodic refreshes. A failed
// initial load is logged and the service keeps running; searches report the
// catalog as unavailable until a later refresh succeeds.
func (s *Scheduler) Start() error {
	if err := s.refreshWithTimeout(); err != nil {
		logging.Error("Failed to perform initial catalog load", "source", s.source.Name(), "error", err)
	}

	minutes := int(s.interval / time.Minute)
	if minutes < 1 {
		minutes = 1
	}

	_, err := s.scheduler.Every(minutes).Minutes().WaitForSchedule().SingletonMode().Do(func() {
		if err := s.refreshWithTimeout(); err != nil {
			logging.Error("Failed to refresh catalog", "source", s.source.Name(), "error", err)
		}
	})
	if err != nil {
		logging.Error("Failed to schedule catalog refresh", "error", err)
		return fmt.Errorf("failed to schedule catalog refresh: %w", err)
	}

	_, err = s.scheduler.Every(s.monitorInterval).WaitForSchedule().Do(s.checkStaleness)
	if err != nil {
		logging.Error("Failed to schedule staleness monitor", "error", err)
		return fmt.Errorf("failed to schedule staleness monitor: %w", err)
	}

	s.scheduler.StartAsync()
	logging.Info("Catalog scheduler started", "source", s.source.Name(), "interval", s.interval.String())

	return nil
}

// Stop cancels any in-flight refresh and stops the scheduler
func (s *Scheduler) Stop() {
	s.cancel()
	s.scheduler.Stop()
}

func (s *Scheduler) refreshWithTimeout() error {
	ctx, cancel := context.WithTimeout(s.ctx, s.refreshTimeout)
	defer cancel()
	return s.Refresh(ctx)
}

// Refresh fetches the catalog, drops unusable records and swaps the snapshot.
// A refresh already in progress makes this call a no-op.
func (s *Scheduler) Refresh(ctx context.Context) error {
	if !s.dataStore.BeginUpdate() {
		logging.Info("Catalog refresh already in progress, skipping...")
		metrics.ObserveRefresh(metrics.RefreshSkipped, 0)
		return nil
	}
	defer s.dataStore.EndUpdate()

	start := time.Now()

	stores, err := s.source.FetchStores(ctx)
	if err != nil {
		metrics.ObserveRefresh(metrics.RefreshFailure, 0)
		return fmt.Errorf("failed to fetch catalog from %s: %w", s.source.Name(), err)
	}

	clean, report := s.validator.Sanitize(stores)
	logReport(report)

	s.dataStore.UpdateData(clean, report)
	metrics.ObserveRefresh(metrics.RefreshSuccess, len(clean))

	logging.Info("Catalog refresh completed",
		"source", s.source.Name(),
		"duration", time.Since(start).String(),
		"store_count", len(clean),
		"medicine_count", report.TotalMedicines,
	)

	return nil
}

func logReport(report *interfaces.DataQualityReport) {
	if len(report.DuplicateStoreIDs) > 0 {
		logging.Warn("Duplicate store IDs detected",
			"total", len(report.DuplicateStoreIDs),
			"store_ids", report.DuplicateStoreIDs,
		)
	}

	if report.StoresWithInvalidLocation > 0 {
		logging.Warn("Stores with out-of-range coordinates dropped",
			"count", report.StoresWithInvalidLocation,
			"store_ids", report.InvalidLocationStoreIDs,
		)
	}

	if report.UnnamedMedicines > 0 {
		logging.Warn("Medicines without a name dropped",
			"count", report.UnnamedMedicines,
			"store_ids", report.UnnamedMedicineStoreIDs,
		)
	}

	if len(report.NegativeStockMedicineIDs) > 0 || len(report.InvalidPriceMedicineIDs) > 0 {
		logging.Warn("Medicines with suspicious stock or price",
			"negative_stock", report.NegativeStockMedicineIDs,
			"invalid_price", report.InvalidPriceMedicineIDs,
		)
	}

	if report.ZeroStockMedicines > 0 || report.ExpiredMedicines > 0 {
		logging.Debug("Catalog stock summary",
			"zero_stock", report.ZeroStockMedicines,
			"expired", report.ExpiredMedicines,
		)
	}
}

// checkStaleness warns once the snapshot is several refresh intervals old
func (s *Scheduler) checkStaleness() {
	if !s.dataStore.HasData() {
		logging.Warn("No catalog snapshot loaded yet", "source", s.source.Name())
		return
	}

	age := time.Since(s.dataStore.GetLastUpdated())
	if age > 3*s.interval {
		logging.Warn("Catalog hasn't been refreshed recently",
			"age", age.Round(time.Second).String(),
			"interval", s.interval.String(),
		)
	}
}
