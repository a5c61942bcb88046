package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/francisco-dev-ao/angohost-api/internal/domain"
	"github.com/francisco-dev-ao/angohost-api/internal/pricing"
)

// PlanResponse is the public shape of a service plan.
type PlanResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	BasePrice   string `json:"base_price"`
	Display     string `json:"display"`
}

func toPlanResponse(p *domain.ServicePlan) PlanResponse {
	return PlanResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		BasePrice:   p.BasePrice.StringFixed(2),
		Display:     pricing.FormatKwanza(p.BasePrice),
	}
}

// HandleListPlans handles GET /v1/plans
func HandleListPlans(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		plans, err := d.Repos.Plan.ListActive(c.Request.Context())
		if err != nil {
			respondError(c, d.Logger, err)
			return
		}

		out := make([]PlanResponse, len(plans))
		for i, p := range plans {
			out[i] = toPlanResponse(p)
		}
		c.JSON(http.StatusOK, gin.H{"plans": out})
	}
}

// HandleQuotePlan handles GET /v1/plans/:id/quote. Query params: users,
// years, new_domain. Out-of-range values are clamped, never rejected, so
// the price preview always renders.
func HandleQuotePlan(d *Deps) gin.HandlerFunc {
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

		users := pricing.ParseUserCount(c.Query("users"), pricing.MinUserCount)
		years, _ := strconv.Atoi(c.DefaultQuery("years", "1"))
		newDomain := c.Query("new_domain") == "true"

		quote := d.Pricing.Quote(pricing.QuoteInput{
			BasePrice: plan.BasePrice,
			UserCount: users,
			Period:    years,
			NewDomain: newDomain,
		})

		c.JSON(http.StatusOK, gin.H{
			"plan_id":   plan.ID.String(),
			"users":     quote.UserCount,
			"years":     quote.Period,
			"gross":     quote.Gross.StringFixed(2),
			"discount":  quote.Discount.StringFixed(2),
			"addon_fee": quote.AddonFee.StringFixed(2),
			"total":     quote.Total.StringFixed(2),
			"display":   quote.Display,
		})
	}
}
