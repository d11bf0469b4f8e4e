package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/BerkanHRGL/schadeautos/internal/core/domain"
	"github.com/BerkanHRGL/schadeautos/internal/core/port"
)

// DigestFlusher is the slice of the digest buckets this surface needs.
type DigestFlusher interface {
	Flush(ctx context.Context, frequency domain.NotificationFrequency) (int, error)
}

type Handlers struct {
	runs     port.RunStorePort
	listings port.ListingStorePort
	digests  DigestFlusher
}

func NewHandlers(runs port.RunStorePort, listings port.ListingStorePort, digests DigestFlusher) *Handlers {
	return &Handlers{runs: runs, listings: listings, digests: digests}
}

func (h *Handlers) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "ListRuns: invalid limit value")
		return
	}

	runs, err := h.runs.List(r.Context(), intOrDefault(limit, 50))
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("ListRuns: %v", err))
		return
	}

	response := make([]runResponse, len(runs))
	for i, run := range runs {
		response[i] = toRunResponse(run)
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) LatestRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.runs.Latest(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("LatestRuns: %v", err))
		return
	}

	response := make([]runResponse, len(runs))
	for i, run := range runs {
		response[i] = toRunResponse(run)
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) QueryListings(w http.ResponseWriter, r *http.Request) {
	filters, sort, page, err := parseListingQuery(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("QueryListings: %v", err))
		return
	}

	listings, err := h.listings.Query(r.Context(), filters, sort, page)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("QueryListings: %v", err))
		return
	}

	response := make([]listingResponse, len(listings))
	for i, listing := range listings {
		response[i] = toListingResponse(listing)
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) GetListing(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "GetListing: invalid listing id")
		return
	}

	listing, err := h.listings.GetByID(r.Context(), id)
	if errors.Is(err, domain.ErrListingNotFound) {
		writeJSONError(w, http.StatusNotFound, "GetListing: listing not found")
		return
	}
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("GetListing: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, toListingResponse(listing))
}

func (h *Handlers) FlushDigests(w http.ResponseWriter, r *http.Request) {
	frequency := domain.NotificationFrequency(r.URL.Query().Get("frequency"))
	if frequency != domain.FrequencyDaily && frequency != domain.FrequencyWeekly {
		writeJSONError(w, http.StatusBadRequest, "FlushDigests: frequency must be daily or weekly")
		return
	}

	flushed, err := h.digests.Flush(r.Context(), frequency)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("FlushDigests: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, flushResponse{Frequency: string(frequency), Flushed: flushed})
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func parseListingQuery(r *http.Request) (domain.ListingFilters, domain.ListingSort, domain.Pagination, error) {
	var filters domain.ListingFilters
	var sort domain.ListingSort
	var page domain.Pagination

	q := r.URL.Query()
	filters.Site = q.Get("site")
	filters.Make = q.Get("make")
	filters.Search = q.Get("search")

	var err error
	if filters.MinPrice, err = queryFloat(r, "minPrice"); err != nil {
		return filters, sort, page, fmt.Errorf("invalid minPrice")
	}
	if filters.MaxPrice, err = queryFloat(r, "maxPrice"); err != nil {
		return filters, sort, page, fmt.Errorf("invalid maxPrice")
	}
	if filters.MinYear, err = queryInt(r, "minYear"); err != nil {
		return filters, sort, page, fmt.Errorf("invalid minYear")
	}
	if filters.MaxYear, err = queryInt(r, "maxYear"); err != nil {
		return filters, sort, page, fmt.Errorf("invalid maxYear")
	}
	if filters.MaxMileage, err = queryInt(r, "maxMileage"); err != nil {
		return filters, sort, page, fmt.Errorf("invalid maxMileage")
	}
	if filters.CosmeticOnly, err = queryBool(r, "cosmeticOnly"); err != nil {
		return filters, sort, page, fmt.Errorf("invalid cosmeticOnly")
	}

	switch q.Get("sort") {
	case "", "firstSeen":
		sort.Key = domain.SortByFirstSeen
	case "price":
		sort.Key = domain.SortByPrice
	case "mileage":
		sort.Key = domain.SortByMileage
	case "year":
		sort.Key = domain.SortByYear
	default:
		return filters, sort, page, fmt.Errorf("invalid sort key")
	}
	sort.Descending = q.Get("order") == "desc"

	limit, err := queryInt(r, "limit")
	if err != nil {
		return filters, sort, page, fmt.Errorf("invalid limit")
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		return filters, sort, page, fmt.Errorf("invalid offset")
	}
	page.Limit = intOrDefault(limit, 50)
	page.Offset = intOrDefault(offset, 0)

	return filters, sort, page, nil
}
