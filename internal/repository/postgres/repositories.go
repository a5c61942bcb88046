package postgres

import (
	"database/sql"

	"go.uber.org/zap"
)

// Repositories bundles every postgres repository for injection.
type Repositories struct {
	User          *userRepository
	Profile       *profileRepository
	Plan          *planRepository
	Order         *orderRepository
	Invoice       *invoiceRepository
	Domain        *domainRepository
	Ticket        *ticketRepository
	Wallet        *walletRepository
	PaymentMethod *paymentMethodRepository
	Setting       *settingRepository
	EmailTemplate *emailTemplateRepository
}

// NewRepositories creates all repositories over one connection pool.
func NewRepositories(db *sql.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		User:          NewUserRepository(db, logger),
		Profile:       NewProfileRepository(db, logger),
		Plan:          NewPlanRepository(db, logger),
		Order:         NewOrderRepository(db, logger),
		Invoice:       NewInvoiceRepository(db, logger),
		Domain:        NewDomainRepository(db, logger),
		Ticket:        NewTicketRepository(db, logger),
		Wallet:        NewWalletRepository(db, logger),
		PaymentMethod: NewPaymentMethodRepository(db, logger),
		Setting:       NewSettingRepository(db, logger),
		EmailTemplate: NewEmailTemplateRepository(db, logger),
	}
}
