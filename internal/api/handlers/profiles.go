package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/francisco-dev-ao/angohost-api/internal/api/middleware"
	"github.com/francisco-dev-ao/angohost-api/internal/domain"
)

// ProfileResponse is the public shape of an ownership profile.
type ProfileResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Document string `json:"document,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	Synced   bool   `json:"synced"`
}

func toProfileResponse(p domain.OwnershipProfile) ProfileResponse {
	return ProfileResponse{
		ID:       p.ID.String(),
		Name:     p.Name,
		Email:    p.Email,
		Document: p.Document,
		Phone:    p.Phone,
		Address:  p.Address,
		Synced:   p.UserID != nil,
	}
}

// HandleListProfiles handles GET /v1/profiles
func HandleListProfiles(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		profiles, err := d.Profiles.List()
		if err != nil {
			respondError(c, d.Logger, err)
			return
		}
		out := make([]ProfileResponse, len(profiles))
		for i, p := range profiles {
			out[i] = toProfileResponse(p)
		}
		c.JSON(http.StatusOK, gin.H{"profiles": out})
	}
}

// HandleSaveProfile handles POST /v1/profiles. Works without a session:
// the profile is stored locally and synced after sign-in.
func HandleSaveProfile(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			Email    string `json:"email"`
			Document string `json:"document"`
			Phone    string `json:"phone"`
			Address  string `json:"address"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		p := domain.OwnershipProfile{
			Name:     req.Name,
			Email:    req.Email,
			Document: req.Document,
			Phone:    req.Phone,
			Address:  req.Address,
		}
		if req.ID != "" {
			id, err := uuid.Parse(req.ID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile ID"})
				return
			}
			p.ID = id
			if existing, err := d.Profiles.Get(id); err == nil {
				p.UserID = existing.UserID
				p.CreatedAt = existing.CreatedAt
			}
		}

		var sessionUserID *uuid.UUID
		if user, ok := middleware.GetUserFromContext(c); ok {
			sessionUserID = &user.ID
		}

		saved, err := d.Profiles.Save(c.Request.Context(), p, sessionUserID)
		if err != nil {
			respondError(c, d.Logger, err)
			return
		}
		c.JSON(http.StatusOK, toProfileResponse(saved))
	}
}

// HandleDeleteProfile handles DELETE /v1/profiles/:id
func HandleDeleteProfile(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile ID"})
			return
		}
		if err := d.Profiles.Delete(id); err != nil {
			respondError(c, d.Logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "deleted"})
	}
}

// HandleProfileSyncStatus handles GET /v1/profiles/sync. Lists writes that
// failed to reach the backend and need reconciliation.
func HandleProfileSyncStatus(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries := d.Profiles.NeedsReconciliation()
		out := make([]gin.H, len(entries))
		for i, e := range entries {
			out[i] = gin.H{
				"profile_id": e.Profile.ID.String(),
				"attempts":   e.Attempts,
				"last_error": e.LastError,
				"queued_at":  e.QueuedAt,
			}
		}
		c.JSON(http.StatusOK, gin.H{"pending": out})
	}
}

// HandleProfileSyncRetry handles POST /v1/profiles/:id/sync
func HandleProfileSyncRetry(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile ID"})
			return
		}
		if err := d.Profiles.Retry(c.Request.Context(), id); err != nil {
			respondError(c, d.Logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "retried"})
	}
}
