package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gridtrade/exchange/internal/api/middleware"
	"github.com/gridtrade/exchange/internal/api/types"
	"github.com/gridtrade/exchange/internal/services"
)

type TransactionsHandler struct {
	transactions services.TransactionService
}

func NewTransactionsHandler(transactions services.TransactionService) *TransactionsHandler {
	return &TransactionsHandler{transactions: transactions}
}

// Buy purchases the fixed quantity from a listing and returns the updated
// listing alongside the recorded transaction.
func (h *TransactionsHandler) Buy(w http.ResponseWriter, r *http.Request) {
	var req types.BuyEnergyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.UserEmail == "" {
		req.UserEmail = middleware.GetUserEmail(r.Context())
	}

	t, l, err := h.transactions.BuyEnergy(r.Context(), req.ListingID, req.UserEmail)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, types.PurchaseResponse{
		Message:     "Successfully purchased 10 kWh!",
		Listing:     l,
		Transaction: t,
	})
}

// MyEnergy returns the caller's purchase history as a bare array.
func (h *TransactionsHandler) MyEnergy(w http.ResponseWriter, r *http.Request) {
	var req types.MyEnergyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.UserEmail == "" {
		req.UserEmail = middleware.GetUserEmail(r.Context())
	}

	items, err := h.transactions.TransactionsForUser(r.Context(), req.UserEmail)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}
