package cart

import (
	"github.com/google/uuid"

	"github.com/francisco-dev-ao/angohost-api/internal/domain"
)

// Action is one cart mutation. All mutations go through Reducer.Apply so
// the whole cart lifecycle is a pure, testable transition function.
type Action interface {
	isAction()
}

// AddItem appends a line. Duplicate plans are NOT merged: two lines of the
// same plan can carry different durations, seat counts and domains.
type AddItem struct {
	Item domain.CartItem
}

// RemoveItem drops a line by ID. Removing an absent line is a no-op.
type RemoveItem struct {
	ID uuid.UUID
}

// UpdateQuantity changes the seat count of a line and reprices it.
type UpdateQuantity struct {
	ID       uuid.UUID
	Quantity int
}

// UpdateYears changes the contract duration of a line and reprices it.
type UpdateYears struct {
	ID    uuid.UUID
	Years int
}

// AttachDomain associates a domain name and ownership profile with a line.
type AttachDomain struct {
	ID               uuid.UUID
	Domain           string
	ContactProfileID *uuid.UUID
}

// SetCheckout replaces the transient per-dialog checkout configuration.
type SetCheckout struct {
	Config domain.CheckoutConfig
}

// ResetCheckout clears the dialog configuration (dialog closed).
type ResetCheckout struct{}

// Clear empties the cart and resets the checkout configuration.
type Clear struct{}

func (AddItem) isAction()        {}
func (RemoveItem) isAction()     {}
func (UpdateQuantity) isAction() {}
func (UpdateYears) isAction()    {}
func (AttachDomain) isAction()   {}
func (SetCheckout) isAction()    {}
func (ResetCheckout) isAction()  {}
func (Clear) isAction()          {}
