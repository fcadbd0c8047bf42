package store

import (
	"context"

	"github.com/gridtrade/exchange/internal/models"
)

// Store owns all marketplace state: users, listings, transactions, and id
// counters. Services mutate state only through these operations. Listing and
// transaction order is insertion order; ids are assigned monotonically by the
// store.
type Store interface {
	// GetUser returns the user for email, or a not_found error.
	GetUser(ctx context.Context, email string) (*models.User, error)
	// PutUser inserts or replaces the user keyed by its email.
	PutUser(ctx context.Context, u *models.User) error

	// Listings returns all listings in insertion order.
	Listings(ctx context.Context) ([]models.Listing, error)
	// GetListing returns the listing with the given id, or a not_found error.
	GetListing(ctx context.Context, id int) (*models.Listing, error)
	// InsertListing assigns the next listing id and appends the listing.
	InsertListing(ctx context.Context, l *models.Listing) error
	// DeleteListing removes the listing with the given id, preserving the
	// order of the rest. Returns a not_found error if absent.
	DeleteListing(ctx context.Context, id int) error
	// DecrementListingAmount atomically checks that the listing has at least
	// qty remaining and subtracts it, returning the updated listing. Returns
	// not_found if the listing is absent and insufficient_supply if the
	// remaining amount is below qty. The check and the decrement are a single
	// step so concurrent purchases cannot oversell.
	DecrementListingAmount(ctx context.Context, id int, qty float64) (*models.Listing, error)

	// InsertTransaction assigns the next transaction id and appends the record.
	InsertTransaction(ctx context.Context, t *models.Transaction) error
	// TransactionsByBuyer returns the buyer's transactions in insertion order.
	TransactionsByBuyer(ctx context.Context, email string) ([]models.Transaction, error)
}

// SeedListings returns the three fixed listings every fresh store starts with.
// Their ids are 1-3, so the listing counter starts at 4.
func SeedListings() []models.Listing {
	return []models.Listing{
		{ID: 1, Producer: "Solar Farm A", Type: "Solar", Amount: 150, Price: 0.12, Location: "North District", Source: "Renewable", Duration: 24},
		{ID: 2, Producer: "Wind Turbine #3", Type: "Wind", Amount: 300, Price: 0.10, Location: "West Hills", Source: "Renewable", Duration: 48},
		{ID: 3, Producer: "Rooftop Solar B", Type: "Solar", Amount: 25, Price: 0.15, Location: "City Center", Source: "Renewable", Duration: 12},
	}
}
