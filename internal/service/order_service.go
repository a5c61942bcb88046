package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/francisco-dev-ao/angohost-api/internal/domain"
	apperrors "github.com/francisco-dev-ao/angohost-api/pkg/errors"
)

type OrderService struct {
	orders  OrderRepo
	domains DomainRepo
	feed    ChangeFeed
	logger  *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(orders OrderRepo, domains DomainRepo, feed ChangeFeed, logger *zap.Logger) *OrderService {
	return &OrderService{orders: orders, domains: domains, feed: feed, logger: logger}
}

// Approve moves a pending order into processing.
func (s *OrderService) Approve(ctx context.Context, orderID uuid.UUID) error {
	return s.transition(ctx, orderID, domain.OrderStatusProcessing, nil)
}

// Complete finishes a processing order and activates any domains it
// registered.
func (s *OrderService) Complete(ctx context.Context, orderID uuid.UUID) error {
	if err := s.transition(ctx, orderID, domain.OrderStatusCompleted, nil); err != nil {
		return err
	}
	s.activateDomains(ctx, orderID)
	return nil
}

// activateDomains flips the pending rows created at submission to active.
// Failures are logged; the admin domain screen can activate manually.
func (s *OrderService) activateDomains(ctx context.Context, orderID uuid.UUID) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		s.logger.Warn("domain activation lookup failed", zap.Error(err))
		return
	}

	names := map[string]bool{}
	for _, it := range order.Items {
		if it.Type == domain.CartItemDomain && it.Domain != "" {
			names[it.Domain] = true
		}
	}
	if len(names) == 0 {
		return
	}

	owned, err := s.domains.ListByUser(ctx, order.UserID)
	if err != nil {
		s.logger.Warn("domain activation list failed", zap.Error(err))
		return
	}
	for _, d := range owned {
		if d.Status != domain.DomainStatusPending || !names[d.Name] {
			continue
		}
		if err := s.domains.UpdateStatus(ctx, d.ID, domain.DomainStatusActive); err != nil {
			s.logger.Warn("domain activation failed",
				zap.String("domain", d.Name), zap.Error(err))
			continue
		}
		s.feed.Publish(ctx, "domains", d.ID.String(), "update")
	}
}

// Cancel cancels an order from any non-terminal state.
func (s *OrderService) Cancel(ctx context.Context, orderID uuid.UUID, reason string) error {
	extra := map[string]interface{}{}
	if reason != "" {
		extra["reason"] = reason
	}
	return s.transition(ctx, orderID, domain.OrderStatusCanceled, extra)
}

func (s *OrderService) transition(ctx context.Context, orderID uuid.UUID, to domain.OrderStatus, extra map[string]interface{}) error {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	// Validate state transition
	if !order.Status.CanTransitionTo(to) {
		return &apperrors.ErrInvalidStateTransition{
			Entity: "order",
			From:   order.Status,
			To:     to,
		}
	}

	if err := s.orders.UpdateStatus(ctx, orderID, to); err != nil {
		return err
	}

	// Log event
	data := map[string]interface{}{
		"from": order.Status,
		"to":   to,
	}
	for k, v := range extra {
		data[k] = v
	}
	event := &domain.OrderEvent{
		OrderID:   orderID,
		EventType: "status_change",
		EventData: data,
	}
	if err := s.orders.CreateEvent(ctx, event); err != nil {
		s.logger.Error("order event write failed",
			zap.String("order_id", orderID.String()), zap.Error(err))
	}

	s.feed.Publish(ctx, "orders", orderID.String(), "update")
	return nil
}
