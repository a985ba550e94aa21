package handlers

import (
	"net/http"
	"regexp"
	"strconv"

	"github.com/beinghadibadami/medinexus-connect/entities"
	"github.com/beinghadibadami/medinexus-connect/logging"
	"github.com/go-chi/chi/v5"
)

const storesPageSize = 10

var storeIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// PagedStoresResponse is one page of store summaries
type PagedStoresResponse struct {
	Data       []entities.StoreSummary `json:"data"`
	Page       int                     `json:"page"`
	PageSize   int                     `json:"pageSize"`
	TotalItems int                     `json:"totalItems"`
	MaxPage    int                     `json:"maxPage"`
}

// ServePagedStores returns store summaries in catalog order, ten per page
func (h *HTTPHandlerImpl) ServePagedStores(w http.ResponseWriter, r *http.Request) {
	pageNumber := chi.URLParam(r, "pageNumber")
	page, err := strconv.Atoi(pageNumber)
	if err != nil || page < 1 {
		logging.Warn("Unusual user input", "pageNumber", pageNumber)
		h.RespondWithError(w, http.StatusBadRequest, "Invalid page number")
		return
	}

	stores := h.dataStore.GetStores()
	start := (page - 1) * storesPageSize
	if start >= len(stores) {
		h.RespondWithError(w, http.StatusNotFound, "Page not found")
		return
	}
	end := min(start+storesPageSize, len(stores))

	summaries := make([]entities.StoreSummary, 0, end-start)
	for _, s := range stores[start:end] {
		summaries = append(summaries, s.Summary())
	}

	h.RespondWithJSONAndETag(w, r, PagedStoresResponse{
		Data:       summaries,
		Page:       page,
		PageSize:   storesPageSize,
		TotalItems: len(stores),
		MaxPage:    (len(stores) + storesPageSize - 1) / storesPageSize,
	})
}

// FindStoreByID returns one store with its full inventory
func (h *HTTPHandlerImpl) FindStoreByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !storeIDPattern.MatchString(id) {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid store ID")
		return
	}

	store, exists := h.dataStore.GetStoresMap()[id]
	if !exists {
		h.RespondWithError(w, http.StatusNotFound, "Store not found")
		return
	}

	h.RespondWithJSONAndETag(w, r, store)
}
