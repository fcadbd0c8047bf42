package services

import (
	"context"
	"math"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/gridtrade/exchange/internal/models"
	"github.com/gridtrade/exchange/internal/queue/tasks"
	"github.com/gridtrade/exchange/internal/store"
	appErr "github.com/gridtrade/exchange/pkg/errors"
	"github.com/gridtrade/exchange/pkg/logger"
)

// PurchaseQuantity is the fixed number of kWh bought per purchase.
const PurchaseQuantity = 10.0

type TransactionService interface {
	// BuyEnergy purchases the fixed quantity from a listing, decrementing its
	// remaining amount and recording an immutable transaction. Returns the
	// transaction together with the updated listing.
	BuyEnergy(ctx context.Context, listingID int, userEmail string) (*models.Transaction, *models.Listing, error)
	// TransactionsForUser returns the buyer's purchase history in store order.
	TransactionsForUser(ctx context.Context, userEmail string) ([]models.Transaction, error)
}

type transactionService struct {
	store       store.Store
	asynqClient *asynq.Client
}

// NewTransactionService builds the service. client may be nil, in which case
// receipt tasks are skipped.
func NewTransactionService(st store.Store, client *asynq.Client) TransactionService {
	return &transactionService{store: st, asynqClient: client}
}

var _ TransactionService = (*transactionService)(nil)

func (s *transactionService) BuyEnergy(ctx context.Context, listingID int, userEmail string) (*models.Transaction, *models.Listing, error) {
	if listingID == 0 || userEmail == "" {
		return nil, nil, appErr.New(appErr.CodeInvalid, "Listing ID and User Email are required")
	}

	// The amount check and decrement are a single store operation; the
	// transaction record is only written once the decrement succeeded.
	l, err := s.store.DecrementListingAmount(ctx, listingID, PurchaseQuantity)
	if err != nil {
		return nil, nil, err
	}

	t := &models.Transaction{
		BuyerEmail: userEmail,
		Producer:   l.Producer,
		Amount:     PurchaseQuantity,
		Cost:       math.Round(PurchaseQuantity*l.Price*100) / 100,
		Type:       l.Type,
	}
	if err := s.store.InsertTransaction(ctx, t); err != nil {
		return nil, nil, err
	}

	logger.L().Info("energy purchased",
		zap.Int("transaction_id", t.ID),
		zap.Int("listing_id", l.ID),
		zap.String("buyer_email", userEmail),
		zap.Float64("cost", t.Cost),
	)

	s.enqueueReceipt(ctx, t)
	return t, l, nil
}

// enqueueReceipt hands the transaction to the receipt worker, best-effort.
func (s *transactionService) enqueueReceipt(ctx context.Context, t *models.Transaction) {
	if s.asynqClient == nil {
		logger.L().Debug("asynq client not configured, skipping receipt enqueue", zap.Int("transaction_id", t.ID))
		return
	}
	task, err := tasks.NewReceiptTask(t)
	if err != nil {
		logger.L().Warn("build receipt task failed", zap.Int("transaction_id", t.ID), zap.Error(err))
		return
	}
	if _, err := s.asynqClient.EnqueueContext(ctx, task); err != nil {
		logger.L().Warn("enqueue receipt task failed", zap.Int("transaction_id", t.ID), zap.Error(err))
	}
}

func (s *transactionService) TransactionsForUser(ctx context.Context, userEmail string) ([]models.Transaction, error) {
	if userEmail == "" {
		return nil, appErr.New(appErr.CodeInvalid, "User email is required")
	}
	return s.store.TransactionsByBuyer(ctx, userEmail)
}
