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

type invoiceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *sql.DB, logger *zap.Logger) *invoiceRepository {
	return &invoiceRepository{db: db, logger: logger}
}

func generateInvoiceNumber() string {
	return fmt.Sprintf("INV-%d", time.Now().UnixNano())
}

func (r *invoiceRepository) Create(ctx context.Context, inv *domain.Invoice) error {
	now := time.Now()
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	if inv.InvoiceNumber == "" {
		inv.InvoiceNumber = generateInvoiceNumber()
	}
	inv.CreatedAt = now
	inv.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO invoices (id, invoice_number, order_id, user_id, amount, status, due_date, payment_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		inv.ID, inv.InvoiceNumber, inv.OrderID, inv.UserID, inv.Amount, inv.Status,
		inv.DueDate, inv.PaymentDate, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create invoice", zap.Error(err))
	}
	return err
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	query := `
		SELECT id, invoice_number, order_id, user_id, amount, status, due_date, payment_date, created_at, updated_at
		FROM invoices
		WHERE id = $1
	`

	var inv domain.Invoice
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.OrderID, &inv.UserID, &inv.Amount, &inv.Status,
		&inv.DueDate, &inv.PaymentDate, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, &apperrors.ErrNotFound{Resource: "invoice", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get invoice", zap.Error(err))
		return nil, err
	}

	return &inv, nil
}

// UpdateStatus sets the status and, when paying, stamps the payment date.
func (r *invoiceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.InvoiceStatus, paymentDate *time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE invoices SET status = $2, payment_date = COALESCE($3, payment_date), updated_at = $4 WHERE id = $1`,
		id, status, paymentDate, time.Now(),
	)
	if err != nil {
		r.logger.Error("Failed to update invoice status", zap.Error(err))
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return &apperrors.ErrNotFound{Resource: "invoice", ID: id.String()}
	}
	return nil
}

func (r *invoiceRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Invoice, error) {
	query := `
		SELECT id, invoice_number, order_id, user_id, amount, status, due_date, payment_date, created_at, updated_at
		FROM invoices
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list invoices", zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	return scanInvoices(rows)
}

func (r *invoiceRepository) ListAll(ctx context.Context, limit, offset int) ([]*domain.Invoice, error) {
	query := `
		SELECT id, invoice_number, order_id, user_id, amount, status, due_date, payment_date, created_at, updated_at
		FROM invoices
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list invoices", zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	return scanInvoices(rows)
}

func scanInvoices(rows *sql.Rows) ([]*domain.Invoice, error) {
	var invoices []*domain.Invoice
	for rows.Next() {
		var inv domain.Invoice
		if err := rows.Scan(&inv.ID, &inv.InvoiceNumber, &inv.OrderID, &inv.UserID, &inv.Amount,
			&inv.Status, &inv.DueDate, &inv.PaymentDate, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, err
		}
		invoices = append(invoices, &inv)
	}
	return invoices, rows.Err()
}

// PaidRevenue sums paid invoice amounts, for the dashboard.
func (r *invoiceRepository) PaidRevenue(ctx context.Context) (decimal.Decimal, error) {
	var raw sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT SUM(amount) FROM invoices WHERE status = $1`, domain.InvoiceStatusPaid,
	).Scan(&raw)
	if err != nil {
		return decimal.Zero, err
	}
	if !raw.Valid {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw.String)
}
