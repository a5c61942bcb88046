package errors

import "fmt"

// ErrNotFound indicates a resource does not exist.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthorized indicates missing or invalid credentials.
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	return e.Message
}

// ErrForbidden indicates the caller lacks the role required for the action.
type ErrForbidden struct {
	Message string
}

func (e *ErrForbidden) Error() string {
	return e.Message
}

// ErrValidation indicates the request failed local validation before any
// remote work was attempted.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// ErrInvalidStateTransition indicates a status change the state machine
// does not allow.
type ErrInvalidStateTransition struct {
	Entity string
	From   fmt.Stringer
	To     fmt.Stringer
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid %s transition from %s to %s", e.Entity, e.From, e.To)
}

// ErrInsufficientFunds indicates a wallet debit larger than the balance.
type ErrInsufficientFunds struct {
	Balance   string
	Requested string
}

func (e *ErrInsufficientFunds) Error() string {
	return fmt.Sprintf("insufficient funds: balance %s, requested %s", e.Balance, e.Requested)
}

// ErrPreconditionFailed indicates a synchronous precondition check failed,
// e.g. submitting checkout without a payment method. It is never retried.
type ErrPreconditionFailed struct {
	Message string
}

func (e *ErrPreconditionFailed) Error() string {
	return e.Message
}
