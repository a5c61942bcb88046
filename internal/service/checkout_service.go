package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/francisco-dev-ao/angohost-api/internal/cart"
	"github.com/francisco-dev-ao/angohost-api/internal/checkout"
	"github.com/francisco-dev-ao/angohost-api/internal/domain"
	"github.com/francisco-dev-ao/angohost-api/internal/pricing"
	apperrors "github.com/francisco-dev-ao/angohost-api/pkg/errors"
)

const invoiceDueDays = 7

type CheckoutService struct {
	orders   OrderRepo
	invoices InvoiceRepo
	methods  PaymentMethodRepo
	domains  DomainRepo
	pricing  pricing.Config
	feed     ChangeFeed
	logger   *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	orders OrderRepo,
	invoices InvoiceRepo,
	methods PaymentMethodRepo,
	domains DomainRepo,
	pricingCfg pricing.Config,
	feed ChangeFeed,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		orders:   orders,
		invoices: invoices,
		methods:  methods,
		domains:  domains,
		pricing:  pricingCfg,
		feed:     feed,
		logger:   logger,
	}
}

// AddPlanToCart prices a plan with the dialog configuration and appends the
// resulting lines: one service line, plus a separate domain line when a new
// domain is being registered (the flat fee stays its own line so repricing
// a service never touches it).
func (s *CheckoutService) AddPlanToCart(store *cart.Store, plan *domain.ServicePlan, cfg domain.CheckoutConfig) (cart.State, error) {
	quote := s.pricing.Quote(pricing.QuoteInput{
		BasePrice: plan.BasePrice,
		UserCount: cfg.UserCount,
		Period:    cfg.Period,
	})

	serviceItem := domain.CartItem{
		Title:            plan.Name,
		Type:             domain.CartItemService,
		Quantity:         quote.UserCount,
		Years:            quote.Period,
		BasePrice:        plan.BasePrice,
		Price:            quote.Total,
		ContactProfileID: cfg.ContactProfileID,
	}
	if cfg.DomainOption == domain.DomainOptionExisting {
		serviceItem.Domain = cfg.ExistingDomain
	}

	state, err := store.Dispatch(cart.AddItem{Item: serviceItem})
	if err != nil {
		return state, err
	}

	if cfg.DomainOption == domain.DomainOptionNew && cfg.NewDomainName != "" {
		domainItem := domain.CartItem{
			Title:            "Registro de domínio " + cfg.NewDomainName,
			Type:             domain.CartItemDomain,
			Quantity:         1,
			Years:            quote.Period,
			BasePrice:        s.pricing.NewDomainFee,
			Price:            s.pricing.NewDomainFee,
			Domain:           cfg.NewDomainName,
			ContactProfileID: cfg.ContactProfileID,
		}
		state, err = store.Dispatch(cart.AddItem{Item: domainItem})
		if err != nil {
			return state, err
		}
	}

	return state, nil
}

// SubmitInput is everything submission needs.
type SubmitInput struct {
	User              *domain.User
	PaymentMethodCode string
}

// Submit converts the cart into an order. The precondition gate (session +
// payment method) is synchronous and never retried; passing it leads to the
// order write, an invoice with a due date, pending rows for any new
// domains, and a cleared cart.
func (s *CheckoutService) Submit(ctx context.Context, store *cart.Store, in SubmitInput) (*domain.Order, error) {
	if err := checkout.SubmitPreconditions(in.User != nil, in.PaymentMethodCode != ""); err != nil {
		return nil, err
	}

	method, err := s.methods.GetByCode(ctx, in.PaymentMethodCode)
	if err != nil {
		return nil, err
	}
	if !method.IsActive {
		return nil, &apperrors.ErrPreconditionFailed{Message: "payment method unavailable"}
	}

	state := store.State()
	if len(state.Items) == 0 {
		return nil, &apperrors.ErrValidation{Field: "cart", Message: "cart is empty"}
	}

	summary := s.pricing.Summarize(state.Items)

	order := &domain.Order{
		UserID:      in.User.ID,
		Status:      domain.OrderStatusPending,
		TotalAmount: summary.Total,
	}
	for _, it := range state.Items {
		order.Items = append(order.Items, domain.OrderItem{
			Title:     it.Title,
			Type:      it.Type,
			Quantity:  it.Quantity,
			Years:     it.Years,
			UnitPrice: it.BasePrice,
			Subtotal:  it.Price,
			Domain:    it.Domain,
		})
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	if err := s.orders.CreateEvent(ctx, &domain.OrderEvent{
		OrderID:   order.ID,
		EventType: "order_created",
		EventData: map[string]interface{}{
			"order_number":   order.OrderNumber,
			"payment_method": method.Code,
			"total":          summary.Total.String(),
		},
	}); err != nil {
		s.logger.Error("order event write failed",
			zap.String("order_id", order.ID.String()), zap.Error(err))
	}

	invoice := &domain.Invoice{
		OrderID: &order.ID,
		UserID:  in.User.ID,
		Amount:  summary.Total,
		Status:  domain.InvoiceStatusPending,
		DueDate: time.Now().AddDate(0, 0, invoiceDueDays),
	}
	if err := s.invoices.Create(ctx, invoice); err != nil {
		// order exists, invoice can be re-issued from the admin screen
		s.logger.Error("invoice creation failed after order submit",
			zap.String("order_id", order.ID.String()), zap.Error(err))
	}

	s.registerDomains(ctx, in.User.ID, state.Items)

	if _, err := store.Dispatch(cart.Clear{}); err != nil {
		s.logger.Warn("cart clear failed after submit", zap.Error(err))
	}

	s.feed.Publish(ctx, "orders", order.ID.String(), "insert")
	s.feed.Publish(ctx, "invoices", invoice.ID.String(), "insert")

	return order, nil
}

// registerDomains writes pending rows for new-domain lines. Activation
// happens when the order completes.
func (s *CheckoutService) registerDomains(ctx context.Context, userID uuid.UUID, items []domain.CartItem) {
	for _, it := range items {
		if it.Type != domain.CartItemDomain || it.Domain == "" {
			continue
		}
		expires := time.Now().AddDate(it.Years, 0, 0)
		d := &domain.HostedDomain{
			Name:             it.Domain,
			UserID:           userID,
			Status:           domain.DomainStatusPending,
			ContactProfileID: it.ContactProfileID,
			ExpiresAt:        &expires,
		}
		if err := s.domains.Create(ctx, d); err != nil {
			s.logger.Warn("domain registration row failed",
				zap.String("domain", it.Domain), zap.Error(err))
			continue
		}
		s.feed.Publish(ctx, "domains", d.ID.String(), "insert")
	}
}
