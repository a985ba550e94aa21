package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/beinghadibadami/medinexus-connect/catalog"
	"github.com/beinghadibadami/medinexus-connect/entities"
	"github.com/beinghadibadami/medinexus-connect/interfaces"
	"github.com/beinghadibadami/medinexus-connect/logging"
	"github.com/beinghadibadami/medinexus-connect/metrics"
	"github.com/beinghadibadami/medinexus-connect/validation"
)

// ValidateResponse is returned by the query pre-check endpoint
type ValidateResponse struct {
	Valid bool                 `json:"valid"`
	Query entities.SearchQuery `json:"query"`
}

func rawQueryFromRequest(r *http.Request) interfaces.RawQuery {
	q := r.URL.Query()
	return interfaces.RawQuery{
		MedicineName: q.Get("medicineName"),
		Latitude:     q.Get("latitude"),
		Longitude:    q.Get("longitude"),
		MaxDistance:  q.Get("maxDistance"),
	}
}

// validate runs the query validator and writes the 400 reply itself on failure
func (h *HTTPHandlerImpl) validate(w http.ResponseWriter, r *http.Request) (entities.SearchQuery, bool) {
	query, err := h.validator.ValidateQuery(rawQueryFromRequest(r))
	if err == nil {
		return query, true
	}

	var verr *validation.ValidationError
	if errors.As(err, &verr) {
		h.RespondWithValidationError(w, verr)
		return entities.SearchQuery{}, false
	}

	logging.Error("Query validator failed", "error", err)
	h.RespondWithError(w, http.StatusInternalServerError, "Could not validate query")
	return entities.SearchQuery{}, false
}

// SearchStores finds stores within maxDistance meters of the given point that
// carry a medicine whose name contains medicineName. Results are ordered by
// distance; an empty array means nothing matched.
func (h *HTTPHandlerImpl) SearchStores(w http.ResponseWriter, r *http.Request) {
	query, ok := h.validate(w, r)
	if !ok {
		metrics.ObserveSearch(metrics.OutcomeInvalid, 0)
		return
	}

	ctx := r.Context()

	stores, err := h.dataStore.Catalog(ctx)
	if err == nil {
		var results []entities.SearchResult
		results, err = h.searcher.Search(ctx, query, stores)
		if err == nil {
			metrics.ObserveSearch(metrics.OutcomeOK, len(results))
			h.RespondWithJSON(w, http.StatusOK, results)
			return
		}
	}

	switch {
	case errors.Is(err, catalog.ErrCatalogUnavailable):
		metrics.ObserveSearch(metrics.OutcomeUnavailable, 0)
		logging.Warn("Search rejected, catalog unavailable", "error", err)
		w.Header().Set("Retry-After", "30")
		h.RespondWithError(w, http.StatusServiceUnavailable, "Store catalog is temporarily unavailable")

	case errors.Is(err, context.DeadlineExceeded):
		metrics.ObserveSearch(metrics.OutcomeCancelled, 0)
		h.RespondWithError(w, http.StatusGatewayTimeout, "Search timed out")

	case errors.Is(err, context.Canceled):
		// Client went away, nobody is left to read a reply
		metrics.ObserveSearch(metrics.OutcomeCancelled, 0)
		logging.Debug("Search cancelled by client", "medicine", query.MedicineName)

	default:
		logging.Error("Search failed", "error", err)
		h.RespondWithError(w, http.StatusInternalServerError, "Search failed")
	}
}

// ValidateSearch reports whether a query would be accepted by SearchStores,
// echoing the normalized query
func (h *HTTPHandlerImpl) ValidateSearch(w http.ResponseWriter, r *http.Request) {
	query, ok := h.validate(w, r)
	if !ok {
		return
	}
	h.RespondWithJSON(w, http.StatusOK, ValidateResponse{Valid: true, Query: query})
}
