package types

import (
	"encoding/json"
	"fmt"
)

// Scalar accepts a JSON string or number and preserves its raw text. Clients
// send numeric listing fields either way, so coercion happens in the service
// layer from this text form.
type Scalar string

func (s *Scalar) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = Scalar(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return fmt.Errorf("expected string or number, got %s", string(b))
	}
	*s = Scalar(num.String())
	return nil
}

type LoginRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Name  string `json:"name"`
}

type PostEnergyRequest struct {
	Type      string `json:"type"`
	Amount    Scalar `json:"amount"`
	Price     Scalar `json:"price"`
	UserEmail string `json:"user_email"`
	Source    string `json:"source"`
	Duration  Scalar `json:"duration"`
}

type BuyEnergyRequest struct {
	ListingID int    `json:"listing_id"`
	UserEmail string `json:"user_email"`
}

type DeleteEnergyRequest struct {
	UserEmail string `json:"user_email"`
}

type MyEnergyRequest struct {
	UserEmail string `json:"user_email"`
}
