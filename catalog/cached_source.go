package catalog

import (
	"context"

	"github.com/beinghadibadami/medinexus-connect/entities"
	"github.com/beinghadibadami/medinexus-connect/interfaces"
	"github.com/beinghadibadami/medinexus-connect/logging"
)

// Compile-time check to ensure CachedSource implements CatalogSource
var _ interfaces.CatalogSource = (*CachedSource)(nil)

// SnapshotCache keeps the last catalog successfully read from a source
type SnapshotCache interface {
	Save(ctx context.Context, stores []entities.Store) error
	Load(ctx context.Context) ([]entities.Store, bool, error)
}

// CachedSource serves the last saved snapshot when its source is down.
// Only a failure with no snapshot to fall back on is reported.
type CachedSource struct {
	source interfaces.CatalogSource
	cache  SnapshotCache
}

// NewCachedSource decorates source with a snapshot cache
func NewCachedSource(source interfaces.CatalogSource, cache SnapshotCache) *CachedSource {
	return &CachedSource{source: source, cache: cache}
}

func (s *CachedSource) Name() string {
	return s.source.Name() + "+cache"
}

func (s *CachedSource) FetchStores(ctx context.Context) ([]entities.Store, error) {
	stores, err := s.source.FetchStores(ctx)
	if err == nil {
		if saveErr := s.cache.Save(ctx, stores); saveErr != nil {
			logging.Warn("Failed to save catalog snapshot", "source", s.source.Name(), "error", saveErr)
		}
		return stores, nil
	}

	cached, ok, loadErr := s.cache.Load(ctx)
	if loadErr != nil {
		logging.Warn("Failed to load catalog snapshot", "source", s.source.Name(), "error", loadErr)
	}
	if !ok || loadErr != nil {
		return nil, err
	}

	logging.Warn("Catalog source failed, serving cached snapshot",
		"source", s.source.Name(),
		"error", err,
		"stores", len(cached),
	)
	return cached, nil
}
