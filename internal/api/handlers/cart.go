package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/francisco-dev-ao/angohost-api/internal/api/middleware"
	"github.com/francisco-dev-ao/angohost-api/internal/cart"
	"github.com/francisco-dev-ao/angohost-api/internal/domain"
)

// CartItemResponse is one cart line as the client sees it.
type CartItemResponse struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
	Years    int    `json:"years"`
	Price    string `json:"price"`
	Domain   string `json:"domain,omitempty"`
}

func cartPayload(d *Deps, state cart.State) gin.H {
	items := make([]CartItemResponse, len(state.Items))
	for i, it := range state.Items {
		items[i] = CartItemResponse{
			ID:       it.ID.String(),
			Title:    it.Title,
			Type:     string(it.Type),
			Quantity: it.Quantity,
			Years:    it.Years,
			Price:    it.Price.StringFixed(2),
			Domain:   it.Domain,
		}
	}

	summary := d.Pricing.Summarize(state.Items)
	return gin.H{
		"items": items,
		"summary": gin.H{
			"subtotal": summary.Subtotal.StringFixed(2),
			"tax":      summary.Tax.StringFixed(2),
			"total":    summary.Total.StringFixed(2),
			"display":  summary.Display,
		},
	}
}

// sessionStore resolves the caller's cart store, or writes a 400 and
// returns nil when no session key is present.
func sessionStore(c *gin.Context, d *Deps) *cart.Store {
	key := middleware.SessionKey(c)
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing " + middleware.SessionHeader + " header"})
		return nil
	}
	return d.Carts.Get(key)
}

// HandleGetCart handles GET /v1/cart
func HandleGetCart(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := sessionStore(c, d)
		if store == nil {
			return
		}
		c.JSON(http.StatusOK, cartPayload(d, store.State()))
	}
}

// HandleAddToCart handles POST /v1/cart/items. The body carries the plan
// and the dialog configuration captured at add time.
func HandleAddToCart(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := sessionStore(c, d)
		if store == nil {
			return
		}

		var req struct {
			PlanID           string `json:"plan_id"`
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

		planID, err := uuid.Parse(req.PlanID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan ID"})
			return
		}
		plan, err := d.Repos.Plan.GetByID(c.Request.Context(), planID)
		if err != nil {
			respondError(c, d.Logger, err)
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

		state, err := d.Checkout.AddPlanToCart(store, plan, cfg)
		if err != nil {
			respondError(c, d.Logger, err)
			return
		}
		c.JSON(http.StatusCreated, cartPayload(d, state))
	}
}

// HandleRemoveCartItem handles DELETE /v1/cart/items/:id. Removing an
// absent line is a no-op, not an error.
func HandleRemoveCartItem(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := sessionStore(c, d)
		if store == nil {
			return
		}

		itemID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item ID"})
			return
		}

		state, err := store.Dispatch(cart.RemoveItem{ID: itemID})
		if err != nil {
			respondError(c, d.Logger, err)
			return
		}
		c.JSON(http.StatusOK, cartPayload(d, state))
	}
}

// HandleUpdateCartItem handles PATCH /v1/cart/items/:id. Quantity and
// years can be changed independently; each change reprices the line.
func HandleUpdateCartItem(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := sessionStore(c, d)
		if store == nil {
			return
		}

		itemID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item ID"})
			return
		}

		var req struct {
			Quantity *int `json:"quantity"`
			Years    *int `json:"years"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		state := store.State()
		if req.Quantity != nil {
			if state, err = store.Dispatch(cart.UpdateQuantity{ID: itemID, Quantity: *req.Quantity}); err != nil {
				respondError(c, d.Logger, err)
				return
			}
		}
		if req.Years != nil {
			if state, err = store.Dispatch(cart.UpdateYears{ID: itemID, Years: *req.Years}); err != nil {
				respondError(c, d.Logger, err)
				return
			}
		}
		c.JSON(http.StatusOK, cartPayload(d, state))
	}
}

// HandleAttachDomain handles POST /v1/cart/items/:id/domain
func HandleAttachDomain(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := sessionStore(c, d)
		if store == nil {
			return
		}

		itemID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item ID"})
			return
		}

		var req struct {
			Domain           string `json:"domain"`
			ContactProfileID string `json:"contact_profile_id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		action := cart.AttachDomain{ID: itemID, Domain: req.Domain}
		if req.ContactProfileID != "" {
			profileID, err := uuid.Parse(req.ContactProfileID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact profile ID"})
				return
			}
			action.ContactProfileID = &profileID
		}

		state, err := store.Dispatch(action)
		if err != nil {
			respondError(c, d.Logger, err)
			return
		}
		c.JSON(http.StatusOK, cartPayload(d, state))
	}
}

// HandleClearCart handles POST /v1/cart/clear
func HandleClearCart(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := sessionStore(c, d)
		if store == nil {
			return
		}
		state, err := store.Dispatch(cart.Clear{})
		if err != nil {
			respondError(c, d.Logger, err)
			return
		}
		c.JSON(http.StatusOK, cartPayload(d, state))
	}
}
