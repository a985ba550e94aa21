package search

import (
	"context"
	"runtime"
	"sync"

	"github.com/beinghadibadami/medinexus-connect/entities"
	"github.com/beinghadibadami/medinexus-connect/interfaces"
)

// DefaultParallelThreshold is the catalog size below which a search runs on
// the calling goroutine
const DefaultParallelThreshold = 512

// Compile-time check to ensure Orchestrator implements Searcher
var _ interfaces.Searcher = (*Orchestrator)(nil)

// Orchestrator runs a query over a store catalog. It holds no state between
// calls and never mutates the catalog.
type Orchestrator struct {
	workers           int
	parallelThreshold int
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithWorkers sets the number of goroutines used for large catalogs
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithParallelThreshold sets the minimum catalog size that is split across workers
func WithParallelThreshold(n int) Option {
	return func(o *Orchestrator) {
		if n >= 0 {
			o.parallelThreshold = n
		}
	}
}

// NewOrchestrator creates an orchestrator using one worker per CPU by default
func NewOrchestrator(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		workers:           runtime.NumCPU(),
		parallelThreshold: DefaultParallelThreshold,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.workers < 1 {
		o.workers = 1
	}
	return o
}

// Search returns every store within query.MaxDistanceMeters (inclusive) that
// stocks a medicine matching query.MedicineName, nearest first. An empty catalog
// or no match gives an empty slice. The context is checked between stores; once
// it is done the search stops and returns its error.
func (o *Orchestrator) Search(ctx context.Context, query entities.SearchQuery, catalog []entities.Store) ([]entities.SearchResult, error) {
	slots := make([]*entities.SearchResult, len(catalog))

	if o.workers == 1 || len(catalog) < o.parallelThreshold {
		if err := evaluateRange(ctx, query, catalog, slots, 0, len(catalog)); err != nil {
			return nil, err
		}
	} else if err := o.evaluateParallel(ctx, query, catalog, slots); err != nil {
		return nil, err
	}

	results := make([]entities.SearchResult, 0, len(catalog))
	for _, r := range slots {
		if r != nil {
			results = append(results, *r)
		}
	}

	return Rank(results), nil
}

// evaluateParallel splits the catalog in contiguous chunks, one per worker.
// Each worker only writes the slots of its own chunk.
func (o *Orchestrator) evaluateParallel(ctx context.Context, query entities.SearchQuery, catalog []entities.Store, slots []*entities.SearchResult) error {
	total := len(catalog)
	chunkSize := (total + o.workers - 1) / o.workers

	var wg sync.WaitGroup
	errs := make([]error, o.workers)

	for i := 0; i < o.workers; i++ {
		start := i * chunkSize
		if start >= total {
			break
		}
		end := min(start+chunkSize, total)

		wg.Add(1)
		go func(worker, s, e int) {
			defer wg.Done()
			errs[worker] = evaluateRange(ctx, query, catalog, slots, s, e)
		}(i, start, end)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// evaluateRange applies the distance and name filters to catalog[start:end]
func evaluateRange(ctx context.Context, query entities.SearchQuery, catalog []entities.Store, slots []*entities.SearchResult, start, end int) error {
	m := newMatcher(query.MedicineName)

	for idx := start; idx < end; idx++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		store := catalog[idx]

		d := Distance(query.Origin, store.Location)
		if d > query.MaxDistanceMeters {
			continue
		}

		matched := m.matches(store)
		if len(matched) == 0 {
			continue
		}

		slots[idx] = &entities.SearchResult{
			Store:            store.Summary(),
			MatchedMedicines: matched,
			DistanceMeters:   d,
		}
	}

	return nil
}
