package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridtrade/exchange/internal/store"
	appErr "github.com/gridtrade/exchange/pkg/errors"
)

func TestBuyEnergy(t *testing.T) {
	st := store.NewMemory()
	svc := NewTransactionService(st, nil)
	ctx := context.Background()

	// Seeded listing 2: Wind Turbine #3, 300 kWh at 0.10/kWh.
	txn, l, err := svc.BuyEnergy(ctx, 2, "a@b.com")
	require.NoError(t, err)
	require.Equal(t, 1, txn.ID)
	require.Equal(t, "a@b.com", txn.BuyerEmail)
	require.Equal(t, "Wind Turbine #3", txn.Producer)
	require.Equal(t, 10.0, txn.Amount)
	require.Equal(t, 1.0, txn.Cost)
	require.Equal(t, "Wind", txn.Type)
	require.Equal(t, 290.0, l.Amount)

	stored, err := st.GetListing(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, 290.0, stored.Amount)
}

func TestBuyEnergyValidation(t *testing.T) {
	svc := NewTransactionService(store.NewMemory(), nil)
	ctx := context.Background()

	_, _, err := svc.BuyEnergy(ctx, 0, "a@b.com")
	require.True(t, appErr.IsCode(err, appErr.CodeInvalid))

	_, _, err = svc.BuyEnergy(ctx, 2, "")
	require.True(t, appErr.IsCode(err, appErr.CodeInvalid))

	_, _, err = svc.BuyEnergy(ctx, 99, "a@b.com")
	require.True(t, appErr.IsCode(err, appErr.CodeNotFound))
}

func TestBuyEnergyInsufficientSupply(t *testing.T) {
	st := store.NewMemory()
	svc := NewTransactionService(st, nil)
	ctx := context.Background()

	// Listing 3 starts at 25 kWh: two purchases drain it to 5, then every
	// further attempt is rejected and the amount stays put.
	for i := 0; i < 2; i++ {
		_, _, err := svc.BuyEnergy(ctx, 3, "a@b.com")
		require.NoError(t, err)
	}
	_, _, err := svc.BuyEnergy(ctx, 3, "a@b.com")
	require.True(t, appErr.IsCode(err, appErr.CodeInsufficientSupply))

	l, err := st.GetListing(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, 5.0, l.Amount)
	require.GreaterOrEqual(t, l.Amount, 0.0)

	// The failed attempt did not record a transaction.
	txns, err := svc.TransactionsForUser(ctx, "a@b.com")
	require.NoError(t, err)
	require.Len(t, txns, 2)
}

func TestBuyEnergyCostRounding(t *testing.T) {
	st := store.NewMemory()
	lsvc := NewListingService(st)
	svc := NewTransactionService(st, nil)
	ctx := context.Background()

	l, err := lsvc.CreateListing(ctx, &CreateListingInput{
		Type: "Solar", Amount: "100", Price: "0.1234",
		UserEmail: "carol@x.com", Source: "Renewable", Duration: "6",
	})
	require.NoError(t, err)

	txn, _, err := svc.BuyEnergy(ctx, l.ID, "a@b.com")
	require.NoError(t, err)
	require.Equal(t, 1.23, txn.Cost)
}

func TestTransactionsForUser(t *testing.T) {
	svc := NewTransactionService(store.NewMemory(), nil)
	ctx := context.Background()

	_, err := svc.TransactionsForUser(ctx, "")
	require.True(t, appErr.IsCode(err, appErr.CodeInvalid))

	_, _, err = svc.BuyEnergy(ctx, 1, "a@b.com")
	require.NoError(t, err)
	_, _, err = svc.BuyEnergy(ctx, 2, "c@d.com")
	require.NoError(t, err)
	_, _, err = svc.BuyEnergy(ctx, 2, "a@b.com")
	require.NoError(t, err)

	mine, err := svc.TransactionsForUser(ctx, "a@b.com")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	require.Equal(t, "Solar Farm A", mine[0].Producer)
	require.Equal(t, "Wind Turbine #3", mine[1].Producer)

	empty, err := svc.TransactionsForUser(ctx, "nobody@x.com")
	require.NoError(t, err)
	require.Empty(t, empty)
}
