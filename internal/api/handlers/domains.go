package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/francisco-dev-ao/angohost-api/internal/api/middleware"
	"github.com/francisco-dev-ao/angohost-api/internal/domain"
)

// DomainResponse is the public shape of a hosted domain.
type DomainResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

func toDomainResponse(d *domain.HostedDomain) DomainResponse {
	out := DomainResponse{
		ID:     d.ID.String(),
		Name:   d.Name,
		Status: string(d.Status),
	}
	if d.ExpiresAt != nil {
		out.ExpiresAt = d.ExpiresAt.Format(time.RFC3339)
	}
	return out
}

// HandleCheckDomain handles GET /v1/domains/availability?name=
func HandleCheckDomain(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Query("name")
		available, err := d.Domains.CheckAvailability(c.Request.Context(), name)
		if err != nil {
			respondError(c, d.Logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"name":      name,
			"available": available,
		})
	}
}

// HandleListMyDomains handles GET /v1/client/domains
func HandleListMyDomains(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.GetUserFromContext(c)

		domains, err := d.Domains.ListByUser(c.Request.Context(), user.ID)
		if err != nil {
			respondError(c, d.Logger, err)
			return
		}
		out := make([]DomainResponse, len(domains))
		for i, dom := range domains {
			out[i] = toDomainResponse(dom)
		}
		c.JSON(http.StatusOK, gin.H{"domains": out})
	}
}

// HandleAdminListDomains handles GET /v1/admin/domains
func HandleAdminListDomains(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := pagination(c)
		domains, err := d.Repos.Domain.ListAll(c.Request.Context(), limit, offset)
		if err != nil {
			respondError(c, d.Logger, err)
			return
		}
		out := make([]DomainResponse, len(domains))
		for i, dom := range domains {
			out[i] = toDomainResponse(dom)
		}
		c.JSON(http.StatusOK, gin.H{"domains": out})
	}
}

// HandleUpdateDomainStatus handles POST /v1/admin/domains/:id/status
func HandleUpdateDomainStatus(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		domainID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid domain ID"})
			return
		}

		var req struct {
			Status string `json:"status"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		if err := d.Domains.UpdateStatus(c.Request.Context(), domainID, domain.DomainStatus(req.Status)); err != nil {
			respondError(c, d.Logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": req.Status})
	}
}
