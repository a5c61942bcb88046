package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/francisco-dev-ao/angohost-api/internal/api/middleware"
	"github.com/francisco-dev-ao/angohost-api/internal/gateway"
	"github.com/francisco-dev-ao/angohost-api/internal/pricing"
)

// HandleGetWallet handles GET /v1/client/wallet
func HandleGetWallet(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.GetUserFromContext(c)

		wallet, err := d.Wallets.Balance(c.Request.Context(), user.ID)
		if err != nil {
			respondError(c, d.Logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"balance": wallet.Balance.StringFixed(2),
			"display": pricing.FormatKwanza(wallet.Balance),
		})
	}
}

// HandleWalletTopUp handles POST /v1/client/wallet/topup. With
// method "reference" the provider issues a Multicaixa reference and the
// balance is credited out of band once the payment confirms; any other
// method credits immediately.
func HandleWalletTopUp(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.GetUserFromContext(c)

		var req struct {
			Amount string `json:"amount"`
			Method string `json:"method"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		amount, err := decimal.NewFromString(req.Amount)
		if err != nil || !amount.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
			return
		}

		if req.Method == "reference" {
			ref, err := d.Gateway.CreateReference(c.Request.Context(), gateway.ReferenceRequest{
				InvoiceNumber: "TOPUP-" + user.ID.String(),
				Amount:        amount,
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
			return
		}

		wallet, err := d.Wallets.TopUp(c.Request.Context(), user.ID, amount, "Carregamento de saldo")
		if err != nil {
			respondError(c, d.Logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"balance": wallet.Balance.StringFixed(2),
			"display": pricing.FormatKwanza(wallet.Balance),
		})
	}
}

// HandleWalletHistory handles GET /v1/client/wallet/history
func HandleWalletHistory(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.GetUserFromContext(c)
		limit, offset := pagination(c)

		txns, err := d.Wallets.History(c.Request.Context(), user.ID, limit, offset)
		if err != nil {
			respondError(c, d.Logger, err)
			return
		}

		out := make([]gin.H, len(txns))
		for i, txn := range txns {
			out[i] = gin.H{
				"id":          txn.ID.String(),
				"kind":        txn.Kind,
				"amount":      txn.Amount.StringFixed(2),
				"description": txn.Description,
				"created_at":  txn.CreatedAt.Format(time.RFC3339),
			}
		}
		c.JSON(http.StatusOK, gin.H{"transactions": out})
	}
}
