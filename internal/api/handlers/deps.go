package handlers

import (
	"go.uber.org/zap"

	"github.com/francisco-dev-ao/angohost-api/internal/cart"
	"github.com/francisco-dev-ao/angohost-api/internal/checkout"
	"github.com/francisco-dev-ao/angohost-api/internal/config"
	"github.com/francisco-dev-ao/angohost-api/internal/gateway"
	"github.com/francisco-dev-ao/angohost-api/internal/mailer"
	"github.com/francisco-dev-ao/angohost-api/internal/pricing"
	"github.com/francisco-dev-ao/angohost-api/internal/profile"
	"github.com/francisco-dev-ao/angohost-api/internal/realtime"
	"github.com/francisco-dev-ao/angohost-api/internal/repository/postgres"
	"github.com/francisco-dev-ao/angohost-api/internal/service"
)

// Deps bundles everything the handlers close over.
type Deps struct {
	Cfg      *config.Config
	Repos    *postgres.Repositories
	Carts    *cart.Manager
	Flows    *checkout.Manager
	Pricing  pricing.Config
	Profiles *profile.Service
	Auth     *service.AuthService
	Checkout *service.CheckoutService
	Orders   *service.OrderService
	Invoices *service.InvoiceService
	Tickets  *service.TicketService
	Wallets  *service.WalletService
	Domains  *service.DomainService
	Stats    *service.StatsService
	Feed     *realtime.Feed
	Mailer   *mailer.Mailer
	Gateway  *gateway.Client
	Logger   *zap.Logger
}
