package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/francisco-dev-ao/angohost-api/internal/api/middleware"
	"github.com/francisco-dev-ao/angohost-api/internal/cart"
	"github.com/francisco-dev-ao/angohost-api/internal/checkout"
	"github.com/francisco-dev-ao/angohost-api/internal/domain"
	"github.com/francisco-dev-ao/angohost-api/internal/pricing"
	"github.com/francisco-dev-ao/angohost-api/internal/service"
)

func flowPayload(f *checkout.Flow) gin.H {
	completed := make(map[string]bool, len(checkout.Steps))
	for _, s := range checkout.Steps {
		completed[string(s)] = f.Completed(s)
	}
	steps := make([]string, len(checkout.Steps))
	for i, s := range checkout.Steps {
		steps[i] = string(s)
	}
	return gin.H{
		"current":   string(f.Current()),
		"steps":     steps,
		"completed": completed,
		// how long the UI lingers on the domain step before an auto-skip
		"auto_skip_delay_ms": checkout.DomainAutoSkipDelay.Milliseconds(),
	}
}

func evaluateFlow(c *gin.Context, d *Deps, f *checkout.Flow) {
	store := d.Carts.Get(middleware.SessionKey(c))
	state := store.State()

	domains := 0
	for _, it := range state.Items {
		if it.Domain != "" {
			domains++
		}
	}
	_, authenticated := middleware.GetUserFromContext(c)

	f.Evaluate(checkout.Context{
		Authenticated:         authenticated,
		ProfileSelected:       state.Checkout.ContactProfileID != nil,
		DomainsChosen:         domains,
		PaymentMethodSelected: c.Query("payment_method") != "",
	})
}

// HandleGetCheckout handles GET /v1/checkout
func HandleGetCheckout(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := middleware.SessionKey(c)
		if key == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing " + middleware.SessionHeader + " header"})
			return
		}
		f := d.Flows.Get(key)
		evaluateFlow(c, d, f)
		c.JSON(http.StatusOK, flowPayload(f))
	}
}

// HandleCheckoutNext handles POST /v1/checkout/next. Entering the domain
// step auto-advances when every domain line already carries ownership data.
func HandleCheckoutNext(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := middleware.SessionKey(c)
		if key == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing " + middleware.SessionHeader + " header"})
			return
		}
		f := d.Flows.Get(key)
		f.Next(d.Carts.Get(key).State().Items)
		evaluateFlow(c, d, f)
		c.JSON(http.StatusOK, flowPayload(f))
	}
}

// HandleCheckoutPrev handles POST /v1/checkout/prev
func HandleCheckoutPrev(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := middleware.SessionKey(c)
		if key == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing " + middleware.SessionHeader + " header"})
			return
		}
		f := d.Flows.Get(key)
		f.Prev()
		evaluateFlow(c, d, f)
		c.JSON(http.StatusOK, flowPayload(f))
	}
}

// HandleCheckoutGoto handles POST /v1/checkout/goto. Step indicator
// navigation is free in both directions.
func HandleCheckoutGoto(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := middleware.SessionKey(c)
		if key == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing " + middleware.SessionHeader + " header"})
			return
		}

		var req struct {
			Step string `json:"step"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		f := d.Flows.Get(key)
		if err := f.Goto(checkout.Step(req.Step)); err != nil {
			respondError(c, d.Logger, err)
			return
		}
		evaluateFlow(c, d, f)
		c.JSON(http.StatusOK, flowPayload(f))
	}
}

// HandleSetCheckoutConfig handles PUT /v1/checkout/config. The dialog
// pushes its configuration here on every change so step completion can be
// evaluated server-side, including profile selection for guests.
func HandleSetCheckoutConfig(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := sessionStore(c, d)
		if store == nil {
			return
		}

		var req struct {
			UserCount        int    `json:"user_count"`
			Period           int    `json:"period"`
			DomainOption     string `json:"domain_option"`
			NewDomainName    string `json:"new_domain_name"`
			ExistingDomain   string `json:"existing_domain"`
			ContactProfileID string `json:"contact_profile_id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		cfg := domain.CheckoutConfig{
			UserCount:      req.UserCount,
			Period:         req.Period,
			DomainOption:   domain.DomainOption(req.DomainOption),
			NewDomainName:  req.NewDomainName,
			ExistingDomain: req.ExistingDomain,
		}
		if req.ContactProfileID != "" {
			profileID, err := uuid.Parse(req.ContactProfileID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact profile ID"})
				return
			}
			cfg.ContactProfileID = &profileID
		}

		if _, err := store.Dispatch(cart.SetCheckout{Config: cfg}); err != nil {
			respondError(c, d.Logger, err)
			return
		}

		key := middleware.SessionKey(c)
		f := d.Flows.Get(key)
		evaluateFlow(c, d, f)
		c.JSON(http.StatusOK, flowPayload(f))
	}
}

// HandleClearCheckoutConfig handles DELETE /v1/checkout/config. Closing
// the dialog discards the transient configuration; the cart lines stay.
func HandleClearCheckoutConfig(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := sessionStore(c, d)
		if store == nil {
			return
		}
		if _, err := store.Dispatch(cart.ResetCheckout{}); err != nil {
			respondError(c, d.Logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "reset"})
	}
}

// HandleCheckoutSubmit handles POST /v1/checkout/submit
func HandleCheckoutSubmit(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := middleware.SessionKey(c)
		if key == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing " + middleware.SessionHeader + " header"})
			return
		}

		var req struct {
			PaymentMethod string `json:"payment_method"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		user, _ := middleware.GetUserFromContext(c)
		order, err := d.Checkout.Submit(c.Request.Context(), d.Carts.Get(key), service.SubmitInput{
			User:              user,
			PaymentMethodCode: req.PaymentMethod,
		})
		if err != nil {
			respondError(c, d.Logger, err)
			return
		}

		d.Flows.Drop(key)

		// Confirmation mail is best-effort; the order stands either way.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := d.Mailer.Send(ctx, user.Email, "order_created", map[string]string{
				"Name":        user.Name,
				"OrderNumber": order.OrderNumber,
				"Total":       pricing.FormatKwanza(order.TotalAmount),
			}); err != nil {
				d.Logger.Warn("order confirmation mail failed",
					zap.String("order_number", order.OrderNumber), zap.Error(err))
			}
		}()

		c.JSON(http.StatusCreated, gin.H{
			"order_id":     order.ID.String(),
			"order_number": order.OrderNumber,
			"status":       string(order.Status),
			"total":        order.TotalAmount.StringFixed(2),
		})
	}
}
