package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/francisco-dev-ao/angohost-api/internal/api/handlers"
	"github.com/francisco-dev-ao/angohost-api/internal/api/middleware"
)

// NewRouter creates and configures the Gin router
func NewRouter(d *handlers.Deps) *gin.Engine {
	if d.Cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(d.Logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/v1")
	{
		// Public routes
		v1.GET("/plans", handlers.HandleListPlans(d))
		v1.GET("/plans/:id/quote", handlers.HandleQuotePlan(d))
		v1.GET("/domains/availability", handlers.HandleCheckDomain(d))
		v1.GET("/payment-methods", handlers.HandleListPaymentMethods(d))
		v1.POST("/auth/signup", handlers.HandleSignUp(d))
		v1.POST("/auth/signin", handlers.HandleSignIn(d))

		// Session routes: work for guests and signed-in clients alike.
		// Guest state is keyed by the X-Session-ID header.
		sessionRoutes := v1.Group("")
		sessionRoutes.Use(middleware.OptionalAuthMiddleware(d.Auth, d.Logger))
		{
			sessionRoutes.GET("/cart", handlers.HandleGetCart(d))
			sessionRoutes.POST("/cart/items", handlers.HandleAddToCart(d))
			sessionRoutes.PATCH("/cart/items/:id", handlers.HandleUpdateCartItem(d))
			sessionRoutes.DELETE("/cart/items/:id", handlers.HandleRemoveCartItem(d))
			sessionRoutes.POST("/cart/items/:id/domain", handlers.HandleAttachDomain(d))
			sessionRoutes.POST("/cart/clear", handlers.HandleClearCart(d))

			sessionRoutes.GET("/checkout", handlers.HandleGetCheckout(d))
			sessionRoutes.PUT("/checkout/config", handlers.HandleSetCheckoutConfig(d))
			sessionRoutes.DELETE("/checkout/config", handlers.HandleClearCheckoutConfig(d))
			sessionRoutes.POST("/checkout/next", handlers.HandleCheckoutNext(d))
			sessionRoutes.POST("/checkout/prev", handlers.HandleCheckoutPrev(d))
			sessionRoutes.POST("/checkout/goto", handlers.HandleCheckoutGoto(d))
			sessionRoutes.POST("/checkout/submit", handlers.HandleCheckoutSubmit(d))

			sessionRoutes.GET("/profiles", handlers.HandleListProfiles(d))
			sessionRoutes.POST("/profiles", handlers.HandleSaveProfile(d))
			sessionRoutes.DELETE("/profiles/:id", handlers.HandleDeleteProfile(d))
			sessionRoutes.GET("/profiles/sync", handlers.HandleProfileSyncStatus(d))
			sessionRoutes.POST("/profiles/:id/sync", handlers.HandleProfileSyncRetry(d))
		}

		// Client routes (require authentication)
		clientRoutes := v1.Group("/client")
		clientRoutes.Use(middleware.AuthMiddleware(d.Auth, d.Logger))
		{
			clientRoutes.GET("/auth/me", handlers.HandleMe(d))
			clientRoutes.POST("/auth/signout", handlers.HandleSignOut(d))
			clientRoutes.POST("/auth/password", handlers.HandleChangePassword(d))
			clientRoutes.POST("/auth/delete", handlers.HandleDeleteAccount(d))

			clientRoutes.GET("/orders", handlers.HandleListMyOrders(d))
			clientRoutes.GET("/orders/:id", handlers.HandleGetMyOrder(d))

			clientRoutes.GET("/invoices", handlers.HandleListMyInvoices(d))
			clientRoutes.POST("/invoices/:id/pay", handlers.HandlePayInvoiceFromWallet(d))
			clientRoutes.POST("/invoices/:id/reference", handlers.HandleInvoiceReference(d))

			clientRoutes.GET("/tickets", handlers.HandleListMyTickets(d))
			clientRoutes.POST("/tickets", handlers.HandleOpenTicket(d))
			clientRoutes.GET("/tickets/:id/messages", handlers.HandleTicketMessages(d))
			clientRoutes.POST("/tickets/:id/messages", handlers.HandlePostTicketMessage(d))

			clientRoutes.GET("/wallet", handlers.HandleGetWallet(d))
			clientRoutes.POST("/wallet/topup", handlers.HandleWalletTopUp(d))
			clientRoutes.GET("/wallet/history", handlers.HandleWalletHistory(d))

			clientRoutes.GET("/domains", handlers.HandleListMyDomains(d))

			clientRoutes.GET("/events", handlers.HandleEvents(d))
		}

		// Admin routes (require the admin role)
		adminRoutes := v1.Group("/admin")
		adminRoutes.Use(middleware.AuthMiddleware(d.Auth, d.Logger))
		adminRoutes.Use(middleware.AdminOnly())
		{
			adminRoutes.GET("/stats", handlers.HandleAdminStats(d))
			adminRoutes.GET("/probes", handlers.HandleProbes(d))

			adminRoutes.GET("/orders", handlers.HandleAdminListOrders(d))
			adminRoutes.POST("/orders/:id/approve", handlers.HandleApproveOrder(d))
			adminRoutes.POST("/orders/:id/complete", handlers.HandleCompleteOrder(d))
			adminRoutes.POST("/orders/:id/cancel", handlers.HandleCancelOrder(d))

			adminRoutes.GET("/invoices", handlers.HandleAdminListInvoices(d))
			adminRoutes.POST("/invoices/:id/pay", handlers.HandleMarkInvoicePaid(d))
			adminRoutes.POST("/invoices/:id/cancel", handlers.HandleCancelInvoice(d))
			adminRoutes.POST("/invoices/:id/refund", handlers.HandleRefundInvoice(d))

			adminRoutes.GET("/tickets", handlers.HandleAdminListTickets(d))
			adminRoutes.POST("/tickets/:id/status", handlers.HandleUpdateTicketStatus(d))

			adminRoutes.GET("/domains", handlers.HandleAdminListDomains(d))
			adminRoutes.POST("/domains/:id/status", handlers.HandleUpdateDomainStatus(d))

			adminRoutes.GET("/users", handlers.HandleAdminListUsers(d))

			adminRoutes.GET("/plans", handlers.HandleAdminListPlans(d))
			adminRoutes.POST("/plans", handlers.HandleCreatePlan(d))
			adminRoutes.PATCH("/plans/:id", handlers.HandleUpdatePlan(d))
			adminRoutes.DELETE("/plans/:id", handlers.HandleDeletePlan(d))

			adminRoutes.GET("/settings", handlers.HandleListSettings(d))
			adminRoutes.PUT("/settings/:key", handlers.HandleSetSetting(d))

			adminRoutes.GET("/email-templates", handlers.HandleListEmailTemplates(d))
			adminRoutes.PUT("/email-templates/:code", handlers.HandleUpsertEmailTemplate(d))
		}
	}

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
