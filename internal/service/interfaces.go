package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/francisco-dev-ao/angohost-api/internal/domain"
)

// ChangeFeed is the realtime publish side. Mutating services publish after
// every commit; consumers re-fetch.
type ChangeFeed interface {
	Publish(ctx context.Context, table, rowID, action string)
}

// NopFeed is a ChangeFeed that drops everything, for tests and CLIs.
type NopFeed struct{}

func (NopFeed) Publish(context.Context, string, string, string) {}

// OrderRepo is the slice of the order repository the services need.
type OrderRepo interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
	CreateEvent(ctx context.Context, event *domain.OrderEvent) error
}

// InvoiceRepo is the invoice persistence surface.
type InvoiceRepo interface {
	Create(ctx context.Context, inv *domain.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.InvoiceStatus, paymentDate *time.Time) error
}

// TicketRepo is the ticket persistence surface.
type TicketRepo interface {
	Create(ctx context.Context, t *domain.Ticket) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TicketStatus) error
	CreateMessage(ctx context.Context, m *domain.TicketMessage) error
	ListMessages(ctx context.Context, ticketID uuid.UUID) ([]*domain.TicketMessage, error)
}

// WalletRepo is the wallet persistence surface.
type WalletRepo interface {
	GetOrCreateByUser(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error)
	ApplyTransaction(ctx context.Context, walletID uuid.UUID, txn *domain.WalletTransaction) error
	ListTransactions(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*domain.WalletTransaction, error)
}

// DomainRepo is the hosted-domain persistence surface.
type DomainRepo interface {
	Create(ctx context.Context, d *domain.HostedDomain) error
	IsAvailable(ctx context.Context, name string) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.DomainStatus) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.HostedDomain, error)
}

// UserRepo is the user persistence surface.
type UserRepo interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	VerifyCredentials(ctx context.Context, email, password string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PaymentMethodRepo resolves payment method codes.
type PaymentMethodRepo interface {
	GetByCode(ctx context.Context, code string) (*domain.PaymentMethod, error)
}

// StatsSource is everything the dashboard aggregates.
type StatsSource interface {
	CountByStatus(ctx context.Context) (map[domain.OrderStatus]int, error)
}

// RevenueSource sums paid invoices.
type RevenueSource interface {
	PaidRevenue(ctx context.Context) (decimal.Decimal, error)
}

// TicketCounter counts open tickets.
type TicketCounter interface {
	CountOpen(ctx context.Context) (int, error)
}

// DomainCounter counts active domains.
type DomainCounter interface {
	CountActive(ctx context.Context) (int, error)
}
