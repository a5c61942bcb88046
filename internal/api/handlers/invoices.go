package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/francisco-dev-ao/angohost-api/internal/api/middleware"
	"github.com/francisco-dev-ao/angohost-api/internal/domain"
	"github.com/francisco-dev-ao/angohost-api/internal/gateway"
	"github.com/francisco-dev-ao/angohost-api/internal/pricing"
)

// InvoiceResponse is the public shape of an invoice.
type InvoiceResponse struct {
	ID            string `json:"id"`
	InvoiceNumber string `json:"invoice_number"`
	OrderID       string `json:"order_id,omitempty"`
	Amount        string `json:"amount"`
	Display       string `json:"display"`
	Status        string `json:"status"`
	DueDate       string `json:"due_date"`
	PaymentDate   string `json:"payment_date,omitempty"`
}

func toInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	out := InvoiceResponse{
		ID:            inv.ID.String(),
		InvoiceNumber: inv.InvoiceNumber,
		Amount:        inv.Amount.StringFixed(2),
		Display:       pricing.FormatKwanza(inv.Amount),
		Status:        string(inv.Status),
		DueDate:       inv.DueDate.Format(time.RFC3339),
	}
	if inv.OrderID != nil {
		out.OrderID = inv.OrderID.String()
	}
	if inv.PaymentDate != nil {
		out.PaymentDate = inv.PaymentDate.Format(time.RFC3339)
	}
	return out
}

// HandleListMyInvoices handles GET /v1/client/invoices
func HandleListMyInvoices(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.GetUserFromContext(c)
		limit, offset := pagination(c)

		invoices, err := d.Repos.Invoice.ListByUser(c.Request.Context(), user.ID, limit, offset)
		if err != nil {
			respondError(c, d.Logger, err)
			return
		}
		out := make([]InvoiceResponse, len(invoices))
		for i, inv := range invoices {
			out[i] = toInvoiceResponse(inv)
		}
		c.JSON(http.StatusOK, gin.H{"invoices": out})
	}
}

// HandlePayInvoiceFromWallet handles POST /v1/client/invoices/:id/pay
func HandlePayInvoiceFromWallet(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.GetUserFromContext(c)

		invoiceID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice ID"})
			return
		}

		if err := d.Invoices.PayFromWallet(c.Request.Context(), invoiceID, user.ID); err != nil {
			respondError(c, d.Logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "paid"})
	}
}

// HandleInvoiceReference handles POST /v1/client/invoices/:id/reference.
// Requests a Multicaixa payment reference from the gateway so the client
// can pay offline.
func HandleInvoiceReference(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.GetUserFromContext(c)

		invoiceID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice ID"})
			return
		}

		inv, err := d.Repos.Invoice.GetByID(c.Request.Context(), invoiceID)
		if err != nil {
			respondError(c, d.Logger, err)
			return
		}
		if inv.UserID != user.ID {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		if inv.Status != domain.InvoiceStatusPending {
			c.JSON(http.StatusConflict, gin.H{"error": "invoice is not payable"})
			return
		}

		ref, err := d.Gateway.CreateReference(c.Request.Context(), gateway.ReferenceRequest{
			InvoiceNumber: inv.InvoiceNumber,
			Amount:        inv.Amount,
		})
		if err != nil {
			d.Logger.Error("gateway reference failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "payment provider unavailable"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"entity":     ref.Entity,
			"reference":  ref.Reference,
			"expires_at": ref.ExpiresAt.Format(time.RFC3339),
		})
	}
}

// HandleAdminListInvoices handles GET /v1/admin/invoices
func HandleAdminListInvoices(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := pagination(c)
		invoices, err := d.Repos.Invoice.ListAll(c.Request.Context(), limit, offset)
		if err != nil {
			respondError(c, d.Logger, err)
			return
		}
		out := make([]InvoiceResponse, len(invoices))
		for i, inv := range invoices {
			out[i] = toInvoiceResponse(inv)
		}
		c.JSON(http.StatusOK, gin.H{"invoices": out})
	}
}

// HandleMarkInvoicePaid handles POST /v1/admin/invoices/:id/pay
func HandleMarkInvoicePaid(d *Deps) gin.HandlerFunc {
	return invoiceTransition(d, func(c *gin.Context, id uuid.UUID) error {
		return d.Invoices.MarkPaid(c.Request.Context(), id)
	})
}

// HandleCancelInvoice handles POST /v1/admin/invoices/:id/cancel
func HandleCancelInvoice(d *Deps) gin.HandlerFunc {
	return invoiceTransition(d, func(c *gin.Context, id uuid.UUID) error {
		return d.Invoices.Cancel(c.Request.Context(), id)
	})
}

// HandleRefundInvoice handles POST /v1/admin/invoices/:id/refund
func HandleRefundInvoice(d *Deps) gin.HandlerFunc {
	return invoiceTransition(d, func(c *gin.Context, id uuid.UUID) error {
		return d.Invoices.Refund(c.Request.Context(), id)
	})
}

func invoiceTransition(d *Deps, fn func(*gin.Context, uuid.UUID) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		invoiceID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice ID"})
			return
		}
		if err := fn(c, invoiceID); err != nil {
			respondError(c, d.Logger, err)
			return
		}
		inv, err := d.Repos.Invoice.GetByID(c.Request.Context(), invoiceID)
		if err != nil {
			respondError(c, d.Logger, err)
			return
		}
		c.JSON(http.StatusOK, toInvoiceResponse(inv))
	}
}
