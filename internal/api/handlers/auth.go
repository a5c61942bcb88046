package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/francisco-dev-ao/angohost-api/internal/api/middleware"
	"github.com/francisco-dev-ao/angohost-api/internal/domain"
	"github.com/francisco-dev-ao/angohost-api/internal/service"
)

// UserResponse is the public shape of an account.
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:    u.ID.String(),
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

// HandleSignUp handles POST /v1/auth/signup
func HandleSignUp(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		user, token, err := d.Auth.SignUp(c.Request.Context(), service.SignUpInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			respondError(c, d.Logger, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"user":  toUserResponse(user),
			"token": token,
		})
	}
}

// HandleSignIn handles POST /v1/auth/signin
func HandleSignIn(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		user, token, err := d.Auth.SignIn(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, d.Logger, err)
			return
		}

		// A guest session key in the header means the client had a cart
		// before signing in; flush any local-only profiles now that a
		// session exists.
		d.Profiles.Flush(c.Request.Context())

		c.JSON(http.StatusOK, gin.H{
			"user":  toUserResponse(user),
			"token": token,
		})
	}
}

// HandleSignOut handles POST /v1/client/auth/signout
func HandleSignOut(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := middleware.GetTokenFromContext(c)
		if err := d.Auth.SignOut(c.Request.Context(), token); err != nil {
			respondError(c, d.Logger, err)
			return
		}
		d.Carts.Drop(token)
		d.Flows.Drop(token)
		c.JSON(http.StatusOK, gin.H{"status": "signed out"})
	}
}

// HandleMe handles GET /v1/client/auth/me
func HandleMe(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.GetUserFromContext(c)
		c.JSON(http.StatusOK, toUserResponse(user))
	}
}

// HandleChangePassword handles POST /v1/client/auth/password
func HandleChangePassword(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.GetUserFromContext(c)

		var req struct {
			CurrentPassword string `json:"current_password"`
			NewPassword     string `json:"new_password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		if err := d.Auth.ChangePassword(c.Request.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
			respondError(c, d.Logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "password changed"})
	}
}

// HandleDeleteAccount handles POST /v1/client/auth/delete
func HandleDeleteAccount(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.GetUserFromContext(c)
		token, _ := middleware.GetTokenFromContext(c)

		var req struct {
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		if err := d.Auth.DeleteAccount(c.Request.Context(), user.ID, req.Password, token); err != nil {
			respondError(c, d.Logger, err)
			return
		}
		d.Carts.Drop(token)
		d.Flows.Drop(token)
		c.JSON(http.StatusOK, gin.H{"status": "account deleted"})
	}
}
