package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/francisco-dev-ao/angohost-api/pkg/errors"
)

func TestWalletService_TopUpAndDebit(t *testing.T) {
	svc := NewWalletService(newMockWalletRepo(), NopFeed{}, zap.NewNop())
	userID := uuid.New()

	w, err := svc.TopUp(context.Background(), userID, decimal.NewFromInt(5000), "carregamento")
	require.NoError(t, err)
	assert.True(t, w.Balance.Equal(decimal.NewFromInt(5000)))

	w, err = svc.Debit(context.Background(), userID, decimal.NewFromInt(1500), "fatura")
	require.NoError(t, err)
	assert.True(t, w.Balance.Equal(decimal.NewFromInt(3500)))

	history, err := svc.History(context.Background(), userID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestWalletService_DebitBeyondBalance(t *testing.T) {
	svc := NewWalletService(newMockWalletRepo(), NopFeed{}, zap.NewNop())
	userID := uuid.New()

	_, err := svc.TopUp(context.Background(), userID, decimal.NewFromInt(1000), "carregamento")
	require.NoError(t, err)

	_, err = svc.Debit(context.Background(), userID, decimal.NewFromInt(1001), "fatura")
	var insufficient *apperrors.ErrInsufficientFunds
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "1000", insufficient.Balance)

	// Balance untouched after the rejected debit.
	w, err := svc.Balance(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, w.Balance.Equal(decimal.NewFromInt(1000)))
}

func TestWalletService_RejectsNonPositiveAmounts(t *testing.T) {
	svc := NewWalletService(newMockWalletRepo(), NopFeed{}, zap.NewNop())
	userID := uuid.New()

	var validation *apperrors.ErrValidation

	_, err := svc.TopUp(context.Background(), userID, decimal.Zero, "x")
	require.ErrorAs(t, err, &validation)

	_, err = svc.Debit(context.Background(), userID, decimal.NewFromInt(-5), "x")
	require.ErrorAs(t, err, &validation)
}

func TestWalletService_BalanceCreatesWalletOnFirstAccess(t *testing.T) {
	svc := NewWalletService(newMockWalletRepo(), NopFeed{}, zap.NewNop())

	w, err := svc.Balance(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.True(t, w.Balance.IsZero())
}
