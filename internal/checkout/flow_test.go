package checkout

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/francisco-dev-ao/angohost-api/internal/domain"
	apperrors "github.com/francisco-dev-ao/angohost-api/pkg/errors"
)

func TestFlow_LinearNavigation(t *testing.T) {
	f := NewFlow()
	assert.Equal(t, StepClient, f.Current())

	// a cart with an unsatisfied domain line does not auto-skip
	items := []domain.CartItem{{Type: domain.CartItemDomain}}
	assert.Equal(t, StepDomain, f.Next(items))
	assert.Equal(t, StepService, f.Next(items))
	assert.Equal(t, StepPayment, f.Next(items))
	assert.Equal(t, StepPayment, f.Next(items), "stays on last step")

	assert.Equal(t, StepService, f.Prev())
	assert.Equal(t, StepDomain, f.Prev())
	assert.Equal(t, StepClient, f.Prev())
	assert.Equal(t, StepClient, f.Prev(), "stays on first step")
}

func TestFlow_GotoIsUngated(t *testing.T) {
	f := NewFlow()

	require.NoError(t, f.Goto(StepPayment))
	assert.Equal(t, StepPayment, f.Current())

	// backward jumps are free too
	require.NoError(t, f.Goto(StepClient))
	assert.Equal(t, StepClient, f.Current())

	err := f.Goto(Step("billing"))
	var verr *apperrors.ErrValidation
	require.ErrorAs(t, err, &verr)
}

func TestFlow_Evaluate(t *testing.T) {
	f := NewFlow()

	f.Evaluate(Context{})
	assert.False(t, f.Completed(StepClient))
	assert.False(t, f.Completed(StepDomain))
	assert.True(t, f.Completed(StepService), "service step has no predicate")
	assert.False(t, f.Completed(StepPayment))

	// authenticated alone completes the client step
	f.Evaluate(Context{Authenticated: true})
	assert.True(t, f.Completed(StepClient))

	// so does a selected profile without a session
	f.Evaluate(Context{ProfileSelected: true})
	assert.True(t, f.Completed(StepClient))

	f.Evaluate(Context{DomainsChosen: 1, PaymentMethodSelected: true})
	assert.True(t, f.Completed(StepDomain))
	assert.True(t, f.Completed(StepPayment))
}

func TestFlow_DomainStepAutoSkips(t *testing.T) {
	profileID := uuid.New()
	items := []domain.CartItem{
		{Type: domain.CartItemDomain, Domain: "empresa.ao", ContactProfileID: &profileID},
		{Type: domain.CartItemService},
	}

	f := NewFlow()
	// every domain line carries ownership data: client → (domain skipped) → service
	assert.Equal(t, StepService, f.Next(items))
	assert.True(t, f.Completed(StepDomain))
}

func TestFlow_DomainStepDoesNotSkipWhenProfileMissing(t *testing.T) {
	items := []domain.CartItem{
		{Type: domain.CartItemDomain, Domain: "empresa.ao"},
	}

	f := NewFlow()
	assert.Equal(t, StepDomain, f.Next(items))
	assert.False(t, f.Completed(StepDomain))
}

func TestDomainStepSatisfied(t *testing.T) {
	profileID := uuid.New()

	assert.True(t, DomainStepSatisfied(nil))
	assert.True(t, DomainStepSatisfied([]domain.CartItem{{Type: domain.CartItemService}}))
	assert.True(t, DomainStepSatisfied([]domain.CartItem{
		{Type: domain.CartItemDomain, ContactProfileID: &profileID},
	}))
	assert.False(t, DomainStepSatisfied([]domain.CartItem{
		{Type: domain.CartItemDomain, ContactProfileID: &profileID},
		{Type: domain.CartItemDomain},
	}))
}

func TestSubmitPreconditions(t *testing.T) {
	var pre *apperrors.ErrPreconditionFailed

	require.ErrorAs(t, SubmitPreconditions(false, true), &pre)
	require.ErrorAs(t, SubmitPreconditions(true, false), &pre)
	require.ErrorAs(t, SubmitPreconditions(false, false), &pre)
	assert.NoError(t, SubmitPreconditions(true, true))
}
