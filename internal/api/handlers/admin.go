package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/francisco-dev-ao/angohost-api/internal/domain"
)

// HandleAdminStats handles GET /v1/admin/stats
func HandleAdminStats(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := d.Stats.Dashboard(c.Request.Context())
		if err != nil {
			respondError(c, d.Logger, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// HandleAdminListUsers handles GET /v1/admin/users
func HandleAdminListUsers(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := pagination(c)
		users, err := d.Repos.User.List(c.Request.Context(), limit, offset)
		if err != nil {
			respondError(c, d.Logger, err)
			return
		}
		out := make([]UserResponse, len(users))
		for i, u := range users {
			out[i] = toUserResponse(u)
		}
		c.JSON(http.StatusOK, gin.H{"users": out})
	}
}

// HandleAdminListPlans handles GET /v1/admin/plans (inactive included)
func HandleAdminListPlans(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		plans, err := d.Repos.Plan.ListAll(c.Request.Context())
		if err != nil {
			respondError(c, d.Logger, err)
			return
		}
		out := make([]gin.H, len(plans))
		for i, p := range plans {
			out[i] = gin.H{
				"id":         p.ID.String(),
				"name":       p.Name,
				"category":   p.Category,
				"base_price": p.BasePrice.StringFixed(2),
				"is_active":  p.IsActive,
			}
		}
		c.JSON(http.StatusOK, gin.H{"plans": out})
	}
}

type planRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	BasePrice   string `json:"base_price"`
	IsActive    *bool  `json:"is_active"`
}

func (r planRequest) apply(p *domain.ServicePlan) error {
	if r.Name != "" {
		p.Name = r.Name
	}
	if r.Description != "" {
		p.Description = r.Description
	}
	if r.Category != "" {
		p.Category = r.Category
	}
	if r.BasePrice != "" {
		price, err := decimal.NewFromString(r.BasePrice)
		if err != nil {
			return err
		}
		p.BasePrice = price
	}
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
	return nil
}

// HandleCreatePlan handles POST /v1/admin/plans
func HandleCreatePlan(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req planRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if req.Name == "" || req.BasePrice == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and base_price are required"})
			return
		}

		plan := &domain.ServicePlan{IsActive: true}
		if err := req.apply(plan); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid base_price"})
			return
		}
		if err := d.Repos.Plan.Create(c.Request.Context(), plan); err != nil {
			respondError(c, d.Logger, err)
			return
		}
		d.Feed.Publish(c.Request.Context(), "service_plans", plan.ID.String(), "insert")
		c.JSON(http.StatusCreated, toPlanResponse(plan))
	}
}

// HandleUpdatePlan handles PATCH /v1/admin/plans/:id
func HandleUpdatePlan(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		planID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan ID"})
			return
		}
		plan, err := d.Repos.Plan.GetByID(c.Request.Context(), planID)
		if err != nil {
			respondError(c, d.Logger, err)
			return
		}

		var req planRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := req.apply(plan); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid base_price"})
			return
		}
		if err := d.Repos.Plan.Update(c.Request.Context(), plan); err != nil {
			respondError(c, d.Logger, err)
			return
		}
		d.Feed.Publish(c.Request.Context(), "service_plans", plan.ID.String(), "update")
		c.JSON(http.StatusOK, toPlanResponse(plan))
	}
}

// HandleDeletePlan handles DELETE /v1/admin/plans/:id
func HandleDeletePlan(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		planID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan ID"})
			return
		}
		if err := d.Repos.Plan.Delete(c.Request.Context(), planID); err != nil {
			respondError(c, d.Logger, err)
			return
		}
		d.Feed.Publish(c.Request.Context(), "service_plans", planID.String(), "delete")
		c.JSON(http.StatusOK, gin.H{"status": "deleted"})
	}
}

// HandleListSettings handles GET /v1/admin/settings
func HandleListSettings(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		settings, err := d.Repos.Setting.List(c.Request.Context())
		if err != nil {
			respondError(c, d.Logger, err)
			return
		}
		out := make([]gin.H, len(settings))
		for i, s := range settings {
			out[i] = gin.H{"key": s.Key, "value": s.Value}
		}
		c.JSON(http.StatusOK, gin.H{"settings": out})
	}
}

// HandleSetSetting handles PUT /v1/admin/settings/:key
func HandleSetSetting(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Value string `json:"value"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		key := c.Param("key")
		if err := d.Repos.Setting.Set(c.Request.Context(), key, req.Value); err != nil {
			respondError(c, d.Logger, err)
			return
		}
		d.Feed.Publish(c.Request.Context(), "admin_settings", key, "update")
		c.JSON(http.StatusOK, gin.H{"key": key, "value": req.Value})
	}
}

// HandleListEmailTemplates handles GET /v1/admin/email-templates
func HandleListEmailTemplates(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		templates, err := d.Repos.EmailTemplate.List(c.Request.Context())
		if err != nil {
			respondError(c, d.Logger, err)
			return
		}
		out := make([]gin.H, len(templates))
		for i, t := range templates {
			out[i] = gin.H{
				"code":    t.Code,
				"subject": t.Subject,
				"body":    t.Body,
			}
		}
		c.JSON(http.StatusOK, gin.H{"templates": out})
	}
}

// HandleUpsertEmailTemplate handles PUT /v1/admin/email-templates/:code
func HandleUpsertEmailTemplate(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Subject string `json:"subject"`
			Body    string `json:"body"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		tmpl := &domain.EmailTemplate{
			Code:    c.Param("code"),
			Subject: req.Subject,
			Body:    req.Body,
		}
		if err := d.Repos.EmailTemplate.Upsert(c.Request.Context(), tmpl); err != nil {
			respondError(c, d.Logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": tmpl.Code})
	}
}

// HandleProbes handles GET /v1/admin/probes. Checks outbound
// connectivity: SMTP relay and the payment gateway.
func HandleProbes(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		probes := gin.H{}

		if err := d.Mailer.Probe(c.Request.Context()); err != nil {
			probes["smtp"] = gin.H{"ok": false, "error": err.Error()}
		} else {
			probes["smtp"] = gin.H{"ok": true}
		}

		if err := d.Gateway.Ping(c.Request.Context()); err != nil {
			probes["gateway"] = gin.H{"ok": false, "error": err.Error()}
		} else {
			probes["gateway"] = gin.H{"ok": true}
		}

		c.JSON(http.StatusOK, probes)
	}
}

// HandleListPaymentMethods handles GET /v1/payment-methods
func HandleListPaymentMethods(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		methods, err := d.Repos.PaymentMethod.ListActive(c.Request.Context())
		if err != nil {
			respondError(c, d.Logger, err)
			return
		}
		out := make([]gin.H, len(methods))
		for i, m := range methods {
			out[i] = gin.H{"code": m.Code, "name": m.Name}
		}
		c.JSON(http.StatusOK, gin.H{"payment_methods": out})
	}
}
