package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/francisco-dev-ao/angohost-api/internal/api/middleware"
	"github.com/francisco-dev-ao/angohost-api/internal/domain"
)

// OrderResponse is the public shape of an order.
type OrderResponse struct {
	ID          string              `json:"id"`
	OrderNumber string              `json:"order_number"`
	Status      string              `json:"status"`
	Total       string              `json:"total"`
	Items       []OrderItemResponse `json:"items,omitempty"`
	CreatedAt   string              `json:"created_at"`
}

type OrderItemResponse struct {
	Title    string `json:"title"`
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
	Years    int    `json:"years"`
	Subtotal string `json:"subtotal"`
	Domain   string `json:"domain,omitempty"`
}

func toOrderResponse(o *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemResponse{
			Title:    it.Title,
			Type:     string(it.Type),
			Quantity: it.Quantity,
			Years:    it.Years,
			Subtotal: it.Subtotal.StringFixed(2),
			Domain:   it.Domain,
		}
	}
	return OrderResponse{
		ID:          o.ID.String(),
		OrderNumber: o.OrderNumber,
		Status:      string(o.Status),
		Total:       o.TotalAmount.StringFixed(2),
		Items:       items,
		CreatedAt:   o.CreatedAt.Format(time.RFC3339),
	}
}

// HandleListMyOrders handles GET /v1/client/orders
func HandleListMyOrders(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.GetUserFromContext(c)
		limit, offset := pagination(c)

		orders, err := d.Repos.Order.ListByUser(c.Request.Context(), user.ID, limit, offset)
		if err != nil {
			respondError(c, d.Logger, err)
			return
		}
		out := make([]OrderResponse, len(orders))
		for i, o := range orders {
			out[i] = toOrderResponse(o)
		}
		c.JSON(http.StatusOK, gin.H{"orders": out})
	}
}

// HandleGetMyOrder handles GET /v1/client/orders/:id
func HandleGetMyOrder(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.GetUserFromContext(c)

		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
			return
		}

		order, err := d.Repos.Order.GetByID(c.Request.Context(), orderID)
		if err != nil {
			respondError(c, d.Logger, err)
			return
		}
		if order.UserID != user.ID {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		c.JSON(http.StatusOK, toOrderResponse(order))
	}
}

// HandleAdminListOrders handles GET /v1/admin/orders with an optional
// status filter.
func HandleAdminListOrders(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := pagination(c)

		var (
			orders []*domain.Order
			err    error
		)
		if status := c.Query("status"); status != "" {
			s := domain.OrderStatus(status)
			if !s.IsValid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
				return
			}
			orders, err = d.Repos.Order.ListByStatus(c.Request.Context(), s, limit, offset)
		} else {
			orders, err = d.Repos.Order.ListAll(c.Request.Context(), limit, offset)
		}
		if err != nil {
			respondError(c, d.Logger, err)
			return
		}

		out := make([]OrderResponse, len(orders))
		for i, o := range orders {
			out[i] = toOrderResponse(o)
		}
		c.JSON(http.StatusOK, gin.H{"orders": out})
	}
}

// HandleApproveOrder handles POST /v1/admin/orders/:id/approve
func HandleApproveOrder(d *Deps) gin.HandlerFunc {
	return orderTransition(d, func(c *gin.Context, id uuid.UUID) error {
		return d.Orders.Approve(c.Request.Context(), id)
	})
}

// HandleCompleteOrder handles POST /v1/admin/orders/:id/complete
func HandleCompleteOrder(d *Deps) gin.HandlerFunc {
	return orderTransition(d, func(c *gin.Context, id uuid.UUID) error {
		return d.Orders.Complete(c.Request.Context(), id)
	})
}

// HandleCancelOrder handles POST /v1/admin/orders/:id/cancel
func HandleCancelOrder(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
			return
		}

		var req struct {
			Reason string `json:"reason"`
		}
		c.ShouldBindJSON(&req) // reason is optional

		if err := d.Orders.Cancel(c.Request.Context(), orderID, req.Reason); err != nil {
			respondError(c, d.Logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "canceled"})
	}
}

func orderTransition(d *Deps, fn func(*gin.Context, uuid.UUID) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
			return
		}
		if err := fn(c, orderID); err != nil {
			respondError(c, d.Logger, err)
			return
		}
		order, err := d.Repos.Order.GetByID(c.Request.Context(), orderID)
		if err != nil {
			respondError(c, d.Logger, err)
			return
		}
		c.JSON(http.StatusOK, toOrderResponse(order))
	}
}

func pagination(c *gin.Context) (limit, offset int) {
	limit = intQuery(c, "limit", 50)
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset = intQuery(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
