// Package checkout implements the linear purchase wizard:
// client → domain → service → payment.
package checkout

import (
	"time"

	"github.com/francisco-dev-ao/angohost-api/internal/domain"
	apperrors "github.com/francisco-dev-ao/angohost-api/pkg/errors"
)

// Step names one stage of the wizard.
type Step string

const (
	StepClient  Step = "client"
	StepDomain  Step = "domain"
	StepService Step = "service"
	StepPayment Step = "payment"
)

// Steps is the fixed wizard order.
var Steps = []Step{StepClient, StepDomain, StepService, StepPayment}

// DomainAutoSkipDelay is how long the UI lingers on the domain step before
// auto-advancing when nothing is left to fill in.
const DomainAutoSkipDelay = 600 * time.Millisecond

// Context carries the facts the completion predicates look at.
type Context struct {
	Authenticated         bool
	ProfileSelected       bool
	DomainsChosen         int
	PaymentMethodSelected bool
}

// Flow is the wizard state for one checkout dialog.
type Flow struct {
	current   int
	completed map[Step]bool
}

// NewFlow starts a wizard at the client step.
func NewFlow() *Flow {
	return &Flow{completed: make(map[Step]bool)}
}

// Current returns the active step.
func (f *Flow) Current() Step {
	return Steps[f.current]
}

// Completed reports whether a step's completion flag is set.
func (f *Flow) Completed(s Step) bool {
	return f.completed[s]
}

// Evaluate recomputes the completion flags from the current facts. The
// service step has no predicate and is always passable.
func (f *Flow) Evaluate(ctx Context) {
	f.completed[StepClient] = ctx.ProfileSelected || ctx.Authenticated
	f.completed[StepDomain] = ctx.DomainsChosen > 0
	f.completed[StepService] = true
	f.completed[StepPayment] = ctx.PaymentMethodSelected
}

// Next advances one step. Entering the domain step auto-advances when every
// domain line in the cart already carries ownership data, so the client is
// not prompted for information that exists.
func (f *Flow) Next(items []domain.CartItem) Step {
	if f.current < len(Steps)-1 {
		f.current++
	}
	if f.Current() == StepDomain && DomainStepSatisfied(items) {
		f.completed[StepDomain] = true
		if f.current < len(Steps)-1 {
			f.current++
		}
	}
	return f.Current()
}

// Prev moves one step back.
func (f *Flow) Prev() Step {
	if f.current > 0 {
		f.current--
	}
	return f.Current()
}

// Goto jumps directly to a step. Indicator navigation is free: no gating on
// completion, forward or backward.
func (f *Flow) Goto(s Step) error {
	for i, step := range Steps {
		if step == s {
			f.current = i
			return nil
		}
	}
	return &apperrors.ErrValidation{Field: "step", Message: "unknown step " + string(s)}
}

// DomainStepSatisfied reports whether every domain-type line already has an
// ownership profile attached. Carts without domain lines are satisfied.
func DomainStepSatisfied(items []domain.CartItem) bool {
	for _, it := range items {
		if it.Type != domain.CartItemDomain {
			continue
		}
		if it.ContactProfileID == nil {
			return false
		}
	}
	return true
}

// SubmitPreconditions is the synchronous gate in front of submission: an
// authenticated user and a selected payment method. Failures here are not
// network errors and are never retried.
func SubmitPreconditions(authenticated, paymentMethodSelected bool) error {
	if !authenticated {
		return &apperrors.ErrPreconditionFailed{Message: "sign in to finish your order"}
	}
	if !paymentMethodSelected {
		return &apperrors.ErrPreconditionFailed{Message: "select a payment method"}
	}
	return nil
}
