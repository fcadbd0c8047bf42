package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/gridtrade/exchange/internal/models"
	appErr "github.com/gridtrade/exchange/pkg/errors"
	"github.com/gridtrade/exchange/pkg/logger"
)

// TypeTransactionReceipt is the task type for purchase receipt rendering.
const TypeTransactionReceipt = "transaction:receipt"

// receiptTTL bounds how long rendered receipts are retained.
const receiptTTL = 30 * 24 * time.Hour

// ReceiptPayload is the task payload enqueued after a successful purchase.
type ReceiptPayload struct {
	TransactionID int     `json:"transaction_id"`
	BuyerEmail    string  `json:"buyer_email"`
	Producer      string  `json:"producer"`
	Amount        float64 `json:"amount"`
	Cost          float64 `json:"cost"`
	Type          string  `json:"type"`
}

// NewReceiptTask builds the asynq task for a recorded transaction.
func NewReceiptTask(t *models.Transaction) (*asynq.Task, error) {
	pb, err := json.Marshal(ReceiptPayload{
		TransactionID: t.ID,
		BuyerEmail:    t.BuyerEmail,
		Producer:      t.Producer,
		Amount:        t.Amount,
		Cost:          t.Cost,
		Type:          t.Type,
	})
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "marshal receipt payload failed")
	}
	return asynq.NewTask(TypeTransactionReceipt, pb), nil
}

// ReceiptSink persists rendered receipts.
type ReceiptSink interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// RedisSink stores receipts in Redis.
type RedisSink struct {
	Client *redis.Client
}

func (s RedisSink) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.Client.Set(ctx, key, value, ttl).Err()
}

// ReceiptTaskHandler renders purchase receipts and hands them to a sink.
type ReceiptTaskHandler struct {
	sink ReceiptSink
}

func NewReceiptTaskHandler(sink ReceiptSink) *ReceiptTaskHandler {
	return &ReceiptTaskHandler{sink: sink}
}

func (h *ReceiptTaskHandler) HandleReceipt(ctx context.Context, t *asynq.Task) error {
	var p ReceiptPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		logger.L().Error("invalid receipt task payload", zap.Error(err))
		return err
	}

	logger.L().Info("handling receipt task",
		zap.Int("transaction_id", p.TransactionID),
		zap.String("buyer_email", p.BuyerEmail),
	)

	line := fmt.Sprintf("receipt #%d: %s bought %g kWh of %s from %s for $%.2f",
		p.TransactionID, p.BuyerEmail, p.Amount, p.Type, p.Producer, p.Cost)

	key := fmt.Sprintf("receipt:%d", p.TransactionID)
	if err := h.sink.Set(ctx, key, line, receiptTTL); err != nil {
		logger.L().Error("store receipt failed", zap.String("key", key), zap.Error(err))
		return appErr.Wrap(err, appErr.CodeUnavailable, "store receipt failed")
	}
	return nil
}
