package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gridtrade/exchange/internal/api/middleware"
	"github.com/gridtrade/exchange/internal/api/types"
	"github.com/gridtrade/exchange/internal/services"
	appErr "github.com/gridtrade/exchange/pkg/errors"
)

type ListingsHandler struct {
	listings services.ListingService
}

func NewListingsHandler(listings services.ListingService) *ListingsHandler {
	return &ListingsHandler{listings: listings}
}

// List returns listings in store order, optionally filtered by the type and
// source query parameters ("all" means unfiltered).
func (h *ListingsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.listings.ListListings(r.Context(), services.ListingFilters{
		Type:   q.Get("type"),
		Source: q.Get("source"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ListingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.PostEnergyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.UserEmail == "" {
		req.UserEmail = middleware.GetUserEmail(r.Context())
	}

	l, err := h.listings.CreateListing(r.Context(), &services.CreateListingInput{
		Type:      req.Type,
		Amount:    string(req.Amount),
		Price:     string(req.Price),
		UserEmail: req.UserEmail,
		Source:    req.Source,
		Duration:  string(req.Duration),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, types.ListingResponse{Message: "Listing created successfully!", Listing: l})
}

func (h *ListingsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "listing_id"))
	if err != nil {
		writeError(w, appErr.New(appErr.CodeNotFound, "Listing not found"))
		return
	}

	// The body may be absent; a missing email simply fails the owner check.
	var req types.DeleteEnergyRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.UserEmail == "" {
		req.UserEmail = middleware.GetUserEmail(r.Context())
	}

	if err := h.listings.DeleteListing(r.Context(), id, req.UserEmail); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, types.MessageResponse{Message: "Listing deleted successfully"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, types.StatusForError(err), types.ErrorResponse{Error: types.MessageForError(err)})
}

func writeErrorStr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.ErrorResponse{Error: msg})
}
