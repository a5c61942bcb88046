package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/francisco-dev-ao/angohost-api/internal/domain"
	apperrors "github.com/francisco-dev-ao/angohost-api/pkg/errors"
)

type walletRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *sql.DB, logger *zap.Logger) *walletRepository {
	return &walletRepository{db: db, logger: logger}
}

// GetOrCreateByUser returns the user's wallet, creating an empty one on
// first access.
func (r *walletRepository) GetOrCreateByUser(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	var w domain.Wallet
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, balance, created_at, updated_at FROM wallets WHERE user_id = $1`,
		userID,
	).Scan(&w.ID, &w.UserID, &w.Balance, &w.CreatedAt, &w.UpdatedAt)
	if err == nil {
		return &w, nil
	}
	if err != sql.ErrNoRows {
		r.logger.Error("Failed to get wallet", zap.Error(err))
		return nil, err
	}

	now := time.Now()
	w = domain.Wallet{ID: uuid.New(), UserID: userID, Balance: decimal.Zero, CreatedAt: now, UpdatedAt: now}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO wallets (id, user_id, balance, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		w.ID, w.UserID, w.Balance, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create wallet", zap.Error(err))
		return nil, err
	}
	return &w, nil
}

// ApplyTransaction adjusts the balance and writes the ledger row in one
// transaction. A debit below zero fails with ErrInsufficientFunds.
func (r *walletRepository) ApplyTransaction(ctx context.Context, walletID uuid.UUID, txn *domain.WalletTransaction) error {
	delta := txn.Amount
	if txn.Kind == "debit" {
		delta = delta.Neg()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var balance decimal.Decimal
	err = tx.QueryRowContext(ctx,
		`SELECT balance FROM wallets WHERE id = $1 FOR UPDATE`, walletID,
	).Scan(&balance)
	if err == sql.ErrNoRows {
		return &apperrors.ErrNotFound{Resource: "wallet", ID: walletID.String()}
	}
	if err != nil {
		return fmt.Errorf("lock wallet: %w", err)
	}

	next := balance.Add(delta)
	if next.IsNegative() {
		return &apperrors.ErrInsufficientFunds{
			Balance:   balance.String(),
			Requested: txn.Amount.String(),
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE wallets SET balance = $2, updated_at = $3 WHERE id = $1`,
		walletID, next, time.Now(),
	); err != nil {
		return fmt.Errorf("update balance: %w", err)
	}

	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	txn.WalletID = walletID
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now()
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO wallet_transactions (id, wallet_id, kind, amount, description, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		txn.ID, txn.WalletID, txn.Kind, txn.Amount, txn.Description, txn.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert wallet transaction: %w", err)
	}

	return tx.Commit()
}

// ListTransactions returns the ledger newest first.
func (r *walletRepository) ListTransactions(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*domain.WalletTransaction, error) {
	query := `
		SELECT id, wallet_id, kind, amount, description, created_at
		FROM wallet_transactions
		WHERE wallet_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, walletID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list wallet transactions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var txns []*domain.WalletTransaction
	for rows.Next() {
		var t domain.WalletTransaction
		if err := rows.Scan(&t.ID, &t.WalletID, &t.Kind, &t.Amount, &t.Description, &t.CreatedAt); err != nil {
			return nil, err
		}
		txns = append(txns, &t)
	}
	return txns, rows.Err()
}
