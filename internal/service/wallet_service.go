package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/francisco-dev-ao/angohost-api/internal/domain"
	apperrors "github.com/francisco-dev-ao/angohost-api/pkg/errors"
)

type WalletService struct {
	wallets WalletRepo
	feed    ChangeFeed
	logger  *zap.Logger
}

// NewWalletService creates a new wallet service
func NewWalletService(wallets WalletRepo, feed ChangeFeed, logger *zap.Logger) *WalletService {
	return &WalletService{wallets: wallets, feed: feed, logger: logger}
}

// Balance returns the wallet for a user, creating it on first access.
func (s *WalletService) Balance(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	return s.wallets.GetOrCreateByUser(ctx, userID)
}

// TopUp credits the wallet.
func (s *WalletService) TopUp(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string) (*domain.Wallet, error) {
	return s.apply(ctx, userID, "credit", amount, description)
}

// Debit charges the wallet. The repository rejects the transaction when the
// balance would go negative.
func (s *WalletService) Debit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string) (*domain.Wallet, error) {
	return s.apply(ctx, userID, "debit", amount, description)
}

func (s *WalletService) apply(ctx context.Context, userID uuid.UUID, kind string, amount decimal.Decimal, description string) (*domain.Wallet, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, &apperrors.ErrValidation{Field: "amount", Message: "amount must be positive"}
	}

	wallet, err := s.wallets.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	txn := &domain.WalletTransaction{
		WalletID:    wallet.ID,
		Kind:        kind,
		Amount:      amount,
		Description: description,
	}
	if err := s.wallets.ApplyTransaction(ctx, wallet.ID, txn); err != nil {
		return nil, err
	}

	s.feed.Publish(ctx, "wallets", wallet.ID.String(), "update")

	// Re-read for the post-transaction balance.
	return s.wallets.GetOrCreateByUser(ctx, userID)
}

// History lists ledger entries, newest first.
func (s *WalletService) History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.WalletTransaction, error) {
	wallet, err := s.wallets.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.wallets.ListTransactions(ctx, wallet.ID, limit, offset)
}
