package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User is a portal account. Role is either "client" or "admin".
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ServicePlan is a purchasable hosting plan.
type ServicePlan struct {
	ID          uuid.UUID
	Name        string
	Description string
	Category    string
	BasePrice   decimal.Decimal // unit price per user per year
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CartItemType classifies a cart line.
type CartItemType string

const (
	CartItemDomain  CartItemType = "domain"
	CartItemService CartItemType = "service"
	CartItemOther   CartItemType = "other"
)

// CartItem is one line of a cart. Repeated adds of the same plan create
// separate lines; a line can carry a different duration, seat count and
// attached domain than its siblings.
type CartItem struct {
	ID               uuid.UUID
	Title            string
	Type             CartItemType
	Quantity         int
	Years            int
	BasePrice        decimal.Decimal
	Price            decimal.Decimal // computed line total
	Domain           string
	ContactProfileID *uuid.UUID
}

// DomainOption selects between registering a new domain and reusing one the
// client already owns.
type DomainOption string

const (
	DomainOptionNew      DomainOption = "new"
	DomainOptionExisting DomainOption = "existing"
)

// CheckoutConfig is the transient per-dialog configuration. It is fully
// reset when the dialog closes.
type CheckoutConfig struct {
	UserCount        int
	Period           int
	DomainOption     DomainOption
	NewDomainName    string
	ExistingDomain   string
	ContactProfileID *uuid.UUID
}

// OwnershipProfile is the registrant/contact record required for domain
// registration and billing identity. UserID is nil while the profile only
// exists on the local device.
type OwnershipProfile struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Document  string
	Phone     string
	Address   string
	UserID    *uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Order is a submitted cart.
type Order struct {
	ID          uuid.UUID
	OrderNumber string
	UserID      uuid.UUID
	Status      OrderStatus
	TotalAmount decimal.Decimal
	Items       []OrderItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrderItem is a cart line frozen at submission time.
type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	Title     string
	Type      CartItemType
	Quantity  int
	Years     int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
	Domain    string
	CreatedAt time.Time
}

// OrderEvent is an audit row written on every order mutation.
type OrderEvent struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	EventType string
	EventData map[string]interface{} // JSONB
	CreatedAt time.Time
}

// Invoice has a lifecycle independent from its order.
type Invoice struct {
	ID            uuid.UUID
	InvoiceNumber string
	OrderID       *uuid.UUID
	UserID        uuid.UUID
	Amount        decimal.Decimal
	Status        InvoiceStatus
	DueDate       time.Time
	PaymentDate   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HostedDomain is a domain registered or transferred through the portal.
type HostedDomain struct {
	ID               uuid.UUID
	Name             string
	UserID           uuid.UUID
	Status           DomainStatus
	ContactProfileID *uuid.UUID
	ExpiresAt        *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Ticket is a support request.
type Ticket struct {
	ID           uuid.UUID
	TicketNumber string
	UserID       uuid.UUID
	Subject      string
	Priority     TicketPriority
	Department   string
	Status       TicketStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TicketMessage is one entry in a ticket conversation, ordered by CreatedAt.
type TicketMessage struct {
	ID        uuid.UUID
	TicketID  uuid.UUID
	AuthorID  uuid.UUID
	FromStaff bool
	Content   string
	CreatedAt time.Time
}

// Wallet holds prepaid balance for a user.
type Wallet struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WalletTransaction is one ledger entry. Kind is "credit" or "debit".
type WalletTransaction struct {
	ID          uuid.UUID
	WalletID    uuid.UUID
	Kind        string
	Amount      decimal.Decimal
	Description string
	CreatedAt   time.Time
}

// PaymentMethod is a way to settle an order (bank transfer, Multicaixa,
// wallet balance). Managed by admins, selected during checkout.
type PaymentMethod struct {
	ID        uuid.UUID
	Name      string
	Code      string
	IsActive  bool
	CreatedAt time.Time
}

// EmailTemplate is an admin-editable mail body rendered with text/template.
type EmailTemplate struct {
	ID        uuid.UUID
	Code      string
	Subject   string
	Body      string
	UpdatedAt time.Time
}

// Setting is one admin key/value configuration row.
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// ChangeEvent is published on the realtime feed after every mutation.
// Consumers re-fetch the whole collection; no diffs are shipped.
type ChangeEvent struct {
	Table  string    `json:"table"`
	RowID  string    `json:"row_id"`
	Action string    `json:"action"`
	At     time.Time `json:"at"`
}
