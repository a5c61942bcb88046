package domain

// OrderStatus represents the status of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCanceled   OrderStatus = "canceled"
)

func (s OrderStatus) String() string { return string(s) }

// IsValid checks if the order status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCanceled:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if a status transition is valid. Completed and
// canceled are terminal; cancel is reachable from any non-terminal state.
func (s OrderStatus) CanTransitionTo(newStatus OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return newStatus == OrderStatusProcessing || newStatus == OrderStatusCanceled
	case OrderStatusProcessing:
		return newStatus == OrderStatusCompleted || newStatus == OrderStatusCanceled
	case OrderStatusCompleted, OrderStatusCanceled:
		return false // Terminal states
	default:
		return false
	}
}

// InvoiceStatus represents the status of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusPending  InvoiceStatus = "pending"
	InvoiceStatusPaid     InvoiceStatus = "paid"
	InvoiceStatusCanceled InvoiceStatus = "canceled"
	InvoiceStatusRefunded InvoiceStatus = "refunded"
)

func (s InvoiceStatus) String() string { return string(s) }

// IsValid checks if the invoice status is valid
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusCanceled, InvoiceStatusRefunded:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if an invoice status transition is valid.
func (s InvoiceStatus) CanTransitionTo(newStatus InvoiceStatus) bool {
	switch s {
	case InvoiceStatusPending:
		return newStatus == InvoiceStatusPaid || newStatus == InvoiceStatusCanceled
	case InvoiceStatusPaid:
		return newStatus == InvoiceStatusRefunded
	case InvoiceStatusCanceled, InvoiceStatusRefunded:
		return false // Terminal states
	default:
		return false
	}
}

// TicketStatus represents the status of a support ticket.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in-progress"
	TicketStatusClosed     TicketStatus = "closed"
)

func (s TicketStatus) String() string { return string(s) }

// IsValid checks if the ticket status is valid
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusClosed:
		return true
	default:
		return false
	}
}

// TicketPriority represents how urgent a ticket is.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// IsValid checks if the ticket priority is valid
func (p TicketPriority) IsValid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	default:
		return false
	}
}

// DomainStatus represents the lifecycle state of a hosted domain.
type DomainStatus string

const (
	DomainStatusPending DomainStatus = "pending"
	DomainStatusActive  DomainStatus = "active"
	DomainStatusExpired DomainStatus = "expired"
)

func (s DomainStatus) String() string { return string(s) }

// IsValid checks if the domain status is valid
func (s DomainStatus) IsValid() bool {
	switch s {
	case DomainStatusPending, DomainStatusActive, DomainStatusExpired:
		return true
	default:
		return false
	}
}

// UserRole values accepted by the role gate on /admin routes.
const (
	RoleClient = "client"
	RoleAdmin  = "admin"
)
