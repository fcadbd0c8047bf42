package types

import "github.com/gridtrade/exchange/internal/models"

type LoginResponse struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
	Token   string       `json:"token,omitempty"`
}

type ListingResponse struct {
	Message string          `json:"message"`
	Listing *models.Listing `json:"listing"`
}

type PurchaseResponse struct {
	Message     string              `json:"message"`
	Listing     *models.Listing     `json:"listing"`
	Transaction *models.Transaction `json:"transaction,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
