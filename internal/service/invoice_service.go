package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/francisco-dev-ao/angohost-api/internal/domain"
	apperrors "github.com/francisco-dev-ao/angohost-api/pkg/errors"
)

type InvoiceService struct {
	invoices InvoiceRepo
	wallets  WalletRepo
	feed     ChangeFeed
	logger   *zap.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(invoices InvoiceRepo, wallets WalletRepo, feed ChangeFeed, logger *zap.Logger) *InvoiceService {
	return &InvoiceService{invoices: invoices, wallets: wallets, feed: feed, logger: logger}
}

// PayFromWallet settles a pending invoice with wallet balance. The wallet
// debit and the status flip are two writes; the debit goes first so a
// failure leaves the invoice payable.
func (s *InvoiceService) PayFromWallet(ctx context.Context, invoiceID, userID uuid.UUID) error {
	inv, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return err
	}
	if inv.UserID != userID {
		return &apperrors.ErrForbidden{Message: "invoice belongs to another account"}
	}
	if !inv.Status.CanTransitionTo(domain.InvoiceStatusPaid) {
		return &apperrors.ErrInvalidStateTransition{
			Entity: "invoice",
			From:   inv.Status,
			To:     domain.InvoiceStatusPaid,
		}
	}

	wallet, err := s.wallets.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return err
	}
	txn := &domain.WalletTransaction{
		WalletID:    wallet.ID,
		Kind:        "debit",
		Amount:      inv.Amount,
		Description: "Pagamento da fatura " + inv.InvoiceNumber,
	}
	if err := s.wallets.ApplyTransaction(ctx, wallet.ID, txn); err != nil {
		return err
	}

	now := time.Now()
	if err := s.invoices.UpdateStatus(ctx, invoiceID, domain.InvoiceStatusPaid, &now); err != nil {
		s.logger.Error("invoice flip failed after wallet debit",
			zap.String("invoice_id", invoiceID.String()), zap.Error(err))
		return err
	}

	s.feed.Publish(ctx, "wallets", wallet.ID.String(), "update")
	s.feed.Publish(ctx, "invoices", invoiceID.String(), "update")
	return nil
}

// MarkPaid is the staff-side settlement for offline payments (bank
// transfer, Multicaixa reference).
func (s *InvoiceService) MarkPaid(ctx context.Context, invoiceID uuid.UUID) error {
	return s.transition(ctx, invoiceID, domain.InvoiceStatusPaid)
}

// Cancel voids a pending invoice.
func (s *InvoiceService) Cancel(ctx context.Context, invoiceID uuid.UUID) error {
	return s.transition(ctx, invoiceID, domain.InvoiceStatusCanceled)
}

// Refund reverses a paid invoice.
func (s *InvoiceService) Refund(ctx context.Context, invoiceID uuid.UUID) error {
	return s.transition(ctx, invoiceID, domain.InvoiceStatusRefunded)
}

func (s *InvoiceService) transition(ctx context.Context, invoiceID uuid.UUID, to domain.InvoiceStatus) error {
	inv, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return err
	}
	if !inv.Status.CanTransitionTo(to) {
		return &apperrors.ErrInvalidStateTransition{
			Entity: "invoice",
			From:   inv.Status,
			To:     to,
		}
	}

	var paymentDate *time.Time
	if to == domain.InvoiceStatusPaid {
		now := time.Now()
		paymentDate = &now
	}
	if err := s.invoices.UpdateStatus(ctx, invoiceID, to, paymentDate); err != nil {
		return err
	}

	s.feed.Publish(ctx, "invoices", invoiceID.String(), "update")
	return nil
}
