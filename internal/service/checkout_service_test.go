package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/francisco-dev-ao/angohost-api/internal/cart"
	"github.com/francisco-dev-ao/angohost-api/internal/domain"
	"github.com/francisco-dev-ao/angohost-api/internal/pricing"
	apperrors "github.com/francisco-dev-ao/angohost-api/pkg/errors"
)

func newCheckoutFixture() (*CheckoutService, *mockOrderRepo, *mockInvoiceRepo, *mockDomainRepo, *cart.Store) {
	orders := newMockOrderRepo()
	invoices := newMockInvoiceRepo()
	domains := newMockDomainRepo()
	methods := newMockMethodRepo("bank_transfer", "wallet")
	svc := NewCheckoutService(orders, invoices, methods, domains, pricing.DefaultConfig(), NopFeed{}, zap.NewNop())
	store := cart.NewStore("test-session", cart.Reducer{Pricing: pricing.DefaultConfig()}, nil, zap.NewNop())
	return svc, orders, invoices, domains, store
}

func emailPlan() *domain.ServicePlan {
	return &domain.ServicePlan{
		ID:        uuid.New(),
		Name:      "Email Corporativo",
		BasePrice: decimal.NewFromInt(1000),
		IsActive:  true,
	}
}

func TestCheckoutService_AddPlanWithNewDomainCreatesTwoLines(t *testing.T) {
	svc, _, _, _, store := newCheckoutFixture()

	state, err := svc.AddPlanToCart(store, emailPlan(), domain.CheckoutConfig{
		UserCount:     1,
		Period:        3,
		DomainOption:  domain.DomainOptionNew,
		NewDomainName: "exemplo.ao",
	})
	require.NoError(t, err)
	require.Len(t, state.Items, 2)

	// 1000 × 1 × 3 at 10% off = 2700, plus a separate 2000 domain line.
	assert.Equal(t, domain.CartItemService, state.Items[0].Type)
	assert.True(t, state.Items[0].Price.Equal(decimal.NewFromInt(2700)),
		"service line priced %s", state.Items[0].Price)
	assert.Equal(t, domain.CartItemDomain, state.Items[1].Type)
	assert.True(t, state.Items[1].Price.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, "exemplo.ao", state.Items[1].Domain)
}

func TestCheckoutService_AddPlanWithExistingDomain(t *testing.T) {
	svc, _, _, _, store := newCheckoutFixture()

	state, err := svc.AddPlanToCart(store, emailPlan(), domain.CheckoutConfig{
		UserCount:      2,
		Period:         1,
		DomainOption:   domain.DomainOptionExisting,
		ExistingDomain: "meusite.ao",
	})
	require.NoError(t, err)
	require.Len(t, state.Items, 1)
	assert.Equal(t, "meusite.ao", state.Items[0].Domain)
	assert.True(t, state.Items[0].Price.Equal(decimal.NewFromInt(2000)),
		"2 users × 1 year × 1000, no discount")
}

func TestCheckoutService_SubmitRequiresSession(t *testing.T) {
	svc, _, _, _, store := newCheckoutFixture()

	_, err := svc.Submit(context.Background(), store, SubmitInput{
		User:              nil,
		PaymentMethodCode: "bank_transfer",
	})
	var precondition *apperrors.ErrPreconditionFailed
	require.ErrorAs(t, err, &precondition)
}

func TestCheckoutService_SubmitRequiresPaymentMethod(t *testing.T) {
	svc, _, _, _, store := newCheckoutFixture()

	_, err := svc.Submit(context.Background(), store, SubmitInput{
		User: &domain.User{ID: uuid.New()},
	})
	var precondition *apperrors.ErrPreconditionFailed
	require.ErrorAs(t, err, &precondition)
}

func TestCheckoutService_SubmitRejectsEmptyCart(t *testing.T) {
	svc, _, _, _, store := newCheckoutFixture()

	_, err := svc.Submit(context.Background(), store, SubmitInput{
		User:              &domain.User{ID: uuid.New()},
		PaymentMethodCode: "bank_transfer",
	})
	var validation *apperrors.ErrValidation
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "cart", validation.Field)
}

func TestCheckoutService_SubmitCreatesOrderInvoiceAndClearsCart(t *testing.T) {
	svc, orders, invoices, domains, store := newCheckoutFixture()
	user := &domain.User{ID: uuid.New()}

	_, err := svc.AddPlanToCart(store, emailPlan(), domain.CheckoutConfig{
		UserCount:     1,
		Period:        3,
		DomainOption:  domain.DomainOptionNew,
		NewDomainName: "exemplo.ao",
	})
	require.NoError(t, err)

	order, err := svc.Submit(context.Background(), store, SubmitInput{
		User:              user,
		PaymentMethodCode: "bank_transfer",
	})
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Len(t, order.Items, 2)

	// (2700 + 2000) + 14% tax = 5358.
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(5358)),
		"total was %s", order.TotalAmount)

	require.Len(t, invoices.invoices, 1)
	for _, inv := range invoices.invoices {
		assert.Equal(t, domain.InvoiceStatusPending, inv.Status)
		assert.True(t, inv.Amount.Equal(order.TotalAmount))
		assert.Equal(t, order.ID, *inv.OrderID)
	}

	// New-domain line produced a pending registry row.
	require.Len(t, domains.domains, 1)
	for _, d := range domains.domains {
		assert.Equal(t, "exemplo.ao", d.Name)
		assert.Equal(t, domain.DomainStatusPending, d.Status)
		assert.Equal(t, user.ID, d.UserID)
	}

	assert.Empty(t, store.State().Items, "cart should be cleared after submit")
	require.NotEmpty(t, orders.events)
	assert.Equal(t, "order_created", orders.events[0].EventType)
}

func TestCheckoutService_SubmitSurvivesEventWriteFailure(t *testing.T) {
	svc, orders, invoices, _, store := newCheckoutFixture()
	orders.eventErr = assert.AnError

	_, err := svc.AddPlanToCart(store, emailPlan(), domain.CheckoutConfig{UserCount: 1, Period: 1})
	require.NoError(t, err)

	order, err := svc.Submit(context.Background(), store, SubmitInput{
		User:              &domain.User{ID: uuid.New()},
		PaymentMethodCode: "bank_transfer",
	})
	require.NoError(t, err, "a failed audit row must not fail the submit")
	require.NotNil(t, order)
	assert.Len(t, invoices.invoices, 1)
	assert.Empty(t, store.State().Items)
}

func TestCheckoutService_SubmitAcceptsSeededMethods(t *testing.T) {
	// codes seeded by the migrations
	for _, code := range []string{"bank_transfer", "multicaixa_ref", "wallet"} {
		orders := newMockOrderRepo()
		methods := newMockMethodRepo("bank_transfer", "multicaixa_ref", "wallet")
		svc := NewCheckoutService(orders, newMockInvoiceRepo(), methods, newMockDomainRepo(),
			pricing.DefaultConfig(), NopFeed{}, zap.NewNop())
		store := cart.NewStore("seed-"+code, cart.Reducer{Pricing: pricing.DefaultConfig()}, nil, zap.NewNop())

		_, err := svc.AddPlanToCart(store, emailPlan(), domain.CheckoutConfig{UserCount: 1, Period: 1})
		require.NoError(t, err)

		_, err = svc.Submit(context.Background(), store, SubmitInput{
			User:              &domain.User{ID: uuid.New()},
			PaymentMethodCode: code,
		})
		require.NoError(t, err, "method %s", code)
	}
}

func TestCheckoutService_SubmitUnknownPaymentMethod(t *testing.T) {
	svc, _, _, _, store := newCheckoutFixture()

	_, err := svc.AddPlanToCart(store, emailPlan(), domain.CheckoutConfig{UserCount: 1, Period: 1})
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), store, SubmitInput{
		User:              &domain.User{ID: uuid.New()},
		PaymentMethodCode: "crypto",
	})
	var notFound *apperrors.ErrNotFound
	require.ErrorAs(t, err, &notFound)
}
