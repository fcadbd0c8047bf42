package services

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/gridtrade/exchange/internal/models"
	"github.com/gridtrade/exchange/internal/store"
	appErr "github.com/gridtrade/exchange/pkg/errors"
	"github.com/gridtrade/exchange/pkg/logger"
)

// FilterAll is the sentinel filter value meaning "no filter".
const FilterAll = "all"

// userListingLocation is the location stamped on every user-created listing.
const userListingLocation = "User Location"

type ListingFilters struct {
	Type   string
	Source string
}

// CreateListingInput carries raw field values; amount, price, and duration are
// coerced here so callers can pass numbers or numeric strings through.
type CreateListingInput struct {
	Type      string
	Amount    string
	Price     string
	UserEmail string
	Source    string
	Duration  string
}

type ListingService interface {
	// ListListings returns listings in store order, filtered by type and
	// source when those are set and not the "all" sentinel. Matching is
	// case-insensitive.
	ListListings(ctx context.Context, filters ListingFilters) ([]models.Listing, error)
	// CreateListing publishes an offer. The producer identity is the
	// local-part of the creator's email.
	CreateListing(ctx context.Context, input *CreateListingInput) (*models.Listing, error)
	// DeleteListing removes an offer after checking that the requester's
	// derived producer name matches the listing's.
	DeleteListing(ctx context.Context, listingID int, userEmail string) error
}

type listingService struct {
	store store.Store
}

func NewListingService(st store.Store) ListingService {
	return &listingService{store: st}
}

var _ ListingService = (*listingService)(nil)

// producerName derives the producer identity from an email: the substring
// before the first '@'. This is a weak authorization proxy kept for
// compatibility with existing clients.
func producerName(email string) string {
	return strings.SplitN(email, "@", 2)[0]
}

func matchesFilter(value, filter string) bool {
	if filter == "" || strings.EqualFold(filter, FilterAll) {
		return true
	}
	return strings.EqualFold(value, filter)
}

func (s *listingService) ListListings(ctx context.Context, filters ListingFilters) ([]models.Listing, error) {
	all, err := s.store.Listings(ctx)
	if err != nil {
		return nil, err
	}

	out := []models.Listing{}
	for _, l := range all {
		if matchesFilter(l.Type, filters.Type) && matchesFilter(l.Source, filters.Source) {
			out = append(out, l)
		}
	}

	logger.L().Info("listings queried",
		zap.String("type", filters.Type),
		zap.String("source", filters.Source),
		zap.Int("count", len(out)),
	)
	return out, nil
}

func (s *listingService) CreateListing(ctx context.Context, input *CreateListingInput) (*models.Listing, error) {
	if input.Type == "" || input.Amount == "" || input.Price == "" ||
		input.UserEmail == "" || input.Source == "" || input.Duration == "" {
		return nil, appErr.New(appErr.CodeInvalid, "Missing data")
	}

	amount, err := strconv.ParseFloat(input.Amount, 64)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInvalid, "invalid amount")
	}
	price, err := strconv.ParseFloat(input.Price, 64)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInvalid, "invalid price")
	}
	duration, err := strconv.Atoi(input.Duration)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInvalid, "invalid duration")
	}

	l := &models.Listing{
		Producer: producerName(input.UserEmail),
		Type:     input.Type,
		Amount:   amount,
		Price:    price,
		Location: userListingLocation,
		Source:   input.Source,
		Duration: duration,
	}
	if err := s.store.InsertListing(ctx, l); err != nil {
		return nil, err
	}

	logger.L().Info("listing created",
		zap.Int("listing_id", l.ID),
		zap.String("producer", l.Producer),
		zap.String("type", l.Type),
	)
	return l, nil
}

func (s *listingService) DeleteListing(ctx context.Context, listingID int, userEmail string) error {
	l, err := s.store.GetListing(ctx, listingID)
	if err != nil {
		return err
	}

	if l.Producer != producerName(userEmail) {
		return appErr.New(appErr.CodeForbidden, "You are not authorized to delete this listing")
	}

	if err := s.store.DeleteListing(ctx, listingID); err != nil {
		return err
	}

	logger.L().Info("listing deleted", zap.Int("listing_id", listingID), zap.String("producer", l.Producer))
	return nil
}
