package store

import (
	"context"
	"sync"

	"github.com/gridtrade/exchange/internal/models"
	appErr "github.com/gridtrade/exchange/pkg/errors"
)

// Memory is the in-process Store. All state is lost on restart. A single
// mutex serializes every operation, so check-and-mutate sequences like
// DecrementListingAmount are safe under concurrent requests.
type Memory struct {
	mu                sync.RWMutex
	users             map[string]models.User
	listings          []models.Listing
	transactions      []models.Transaction
	nextListingID     int
	nextTransactionID int
}

var _ Store = (*Memory)(nil)

// NewMemory returns a Memory store seeded with the fixed example listings.
func NewMemory() *Memory {
	seed := SeedListings()
	return &Memory{
		users:             map[string]models.User{},
		listings:          seed,
		nextListingID:     seed[len(seed)-1].ID + 1,
		nextTransactionID: 1,
	}
}

func (m *Memory) GetUser(ctx context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[email]
	if !ok {
		return nil, appErr.New(appErr.CodeNotFound, "user not found")
	}
	return &u, nil
}

func (m *Memory) PutUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.Email] = *u
	return nil
}

func (m *Memory) Listings(ctx context.Context) ([]models.Listing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Listing, len(m.listings))
	copy(out, m.listings)
	return out, nil
}

func (m *Memory) GetListing(ctx context.Context, id int) (*models.Listing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.listings {
		if m.listings[i].ID == id {
			l := m.listings[i]
			return &l, nil
		}
	}
	return nil, appErr.New(appErr.CodeNotFound, "Listing not found")
}

func (m *Memory) InsertListing(ctx context.Context, l *models.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.ID = m.nextListingID
	m.nextListingID++
	m.listings = append(m.listings, *l)
	return nil
}

func (m *Memory) DeleteListing(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.listings {
		if m.listings[i].ID == id {
			m.listings = append(m.listings[:i], m.listings[i+1:]...)
			return nil
		}
	}
	return appErr.New(appErr.CodeNotFound, "Listing not found")
}

func (m *Memory) DecrementListingAmount(ctx context.Context, id int, qty float64) (*models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.listings {
		if m.listings[i].ID != id {
			continue
		}
		if m.listings[i].Amount < qty {
			return nil, appErr.New(appErr.CodeInsufficientSupply, "Not enough energy available in this listing")
		}
		m.listings[i].Amount -= qty
		l := m.listings[i]
		return &l, nil
	}
	return nil, appErr.New(appErr.CodeNotFound, "Listing not found")
}

func (m *Memory) InsertTransaction(ctx context.Context, t *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = m.nextTransactionID
	m.nextTransactionID++
	m.transactions = append(m.transactions, *t)
	return nil
}

func (m *Memory) TransactionsByBuyer(ctx context.Context, email string) ([]models.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Transaction{}
	for _, t := range m.transactions {
		if t.BuyerEmail == email {
			out = append(out, t)
		}
	}
	return out, nil
}
