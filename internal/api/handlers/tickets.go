package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/francisco-dev-ao/angohost-api/internal/api/middleware"
	"github.com/francisco-dev-ao/angohost-api/internal/domain"
	"github.com/francisco-dev-ao/angohost-api/internal/service"
)

// TicketResponse is the public shape of a support ticket.
type TicketResponse struct {
	ID           string `json:"id"`
	TicketNumber string `json:"ticket_number"`
	Subject      string `json:"subject"`
	Department   string `json:"department,omitempty"`
	Priority     string `json:"priority"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

type TicketMessageResponse struct {
	ID        string `json:"id"`
	FromStaff bool   `json:"from_staff"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

func toTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:           t.ID.String(),
		TicketNumber: t.TicketNumber,
		Subject:      t.Subject,
		Department:   t.Department,
		Priority:     string(t.Priority),
		Status:       string(t.Status),
		CreatedAt:    t.CreatedAt.Format(time.RFC3339),
	}
}

// HandleOpenTicket handles POST /v1/client/tickets
func HandleOpenTicket(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.GetUserFromContext(c)

		var req struct {
			Subject    string `json:"subject"`
			Department string `json:"department"`
			Priority   string `json:"priority"`
			Content    string `json:"content"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		ticket, err := d.Tickets.Open(c.Request.Context(), user.ID, service.OpenInput{
			Subject:    req.Subject,
			Department: req.Department,
			Priority:   domain.TicketPriority(req.Priority),
			Content:    req.Content,
		})
		if err != nil {
			respondError(c, d.Logger, err)
			return
		}
		c.JSON(http.StatusCreated, toTicketResponse(ticket))
	}
}

// HandleListMyTickets handles GET /v1/client/tickets
func HandleListMyTickets(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.GetUserFromContext(c)

		tickets, err := d.Repos.Ticket.ListByUser(c.Request.Context(), user.ID)
		if err != nil {
			respondError(c, d.Logger, err)
			return
		}
		out := make([]TicketResponse, len(tickets))
		for i, t := range tickets {
			out[i] = toTicketResponse(t)
		}
		c.JSON(http.StatusOK, gin.H{"tickets": out})
	}
}

// HandleTicketMessages handles GET /v1/client/tickets/:id/messages
func HandleTicketMessages(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.GetUserFromContext(c)

		ticketID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket ID"})
			return
		}

		msgs, err := d.Tickets.Messages(c.Request.Context(), ticketID, user.ID, user.Role == domain.RoleAdmin)
		if err != nil {
			respondError(c, d.Logger, err)
			return
		}

		out := make([]TicketMessageResponse, len(msgs))
		for i, m := range msgs {
			out[i] = TicketMessageResponse{
				ID:        m.ID.String(),
				FromStaff: m.FromStaff,
				Content:   m.Content,
				CreatedAt: m.CreatedAt.Format(time.RFC3339),
			}
		}
		c.JSON(http.StatusOK, gin.H{"messages": out})
	}
}

// HandlePostTicketMessage handles POST /v1/client/tickets/:id/messages.
// A customer message on a closed ticket reopens it.
func HandlePostTicketMessage(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.GetUserFromContext(c)

		ticketID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket ID"})
			return
		}

		var req struct {
			Content string `json:"content"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		fromStaff := user.Role == domain.RoleAdmin
		msg, err := d.Tickets.AddMessage(c.Request.Context(), ticketID, user.ID, req.Content, fromStaff)
		if err != nil {
			respondError(c, d.Logger, err)
			return
		}
		c.JSON(http.StatusCreated, TicketMessageResponse{
			ID:        msg.ID.String(),
			FromStaff: msg.FromStaff,
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt.Format(time.RFC3339),
		})
	}
}

// HandleAdminListTickets handles GET /v1/admin/tickets
func HandleAdminListTickets(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := pagination(c)
		tickets, err := d.Repos.Ticket.ListAll(c.Request.Context(), limit, offset)
		if err != nil {
			respondError(c, d.Logger, err)
			return
		}
		out := make([]TicketResponse, len(tickets))
		for i, t := range tickets {
			out[i] = toTicketResponse(t)
		}
		c.JSON(http.StatusOK, gin.H{"tickets": out})
	}
}

// HandleUpdateTicketStatus handles POST /v1/admin/tickets/:id/status
func HandleUpdateTicketStatus(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ticketID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket ID"})
			return
		}

		var req struct {
			Status string `json:"status"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		if err := d.Tickets.UpdateStatus(c.Request.Context(), ticketID, domain.TicketStatus(req.Status)); err != nil {
			respondError(c, d.Logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": req.Status})
	}
}
