package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/francisco-dev-ao/angohost-api/internal/domain"
	apperrors "github.com/francisco-dev-ao/angohost-api/pkg/errors"
)

type mockOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*domain.Order
	events []*domain.OrderEvent

	createErr error
	updateErr error
	eventErr  error
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[uuid.UUID]*domain.Order)}
}

func (m *mockOrderRepo) Create(_ context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.OrderNumber = "ORD-TEST"
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, &apperrors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	cp := *order
	return &cp, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	order, ok := m.orders[id]
	if !ok {
		return &apperrors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	order.Status = status
	return nil
}

func (m *mockOrderRepo) CreateEvent(_ context.Context, event *domain.OrderEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.eventErr != nil {
		return m.eventErr
	}
	m.events = append(m.events, event)
	return nil
}

type mockInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[uuid.UUID]*domain.Invoice

	createErr error
	updateErr error
}

func newMockInvoiceRepo() *mockInvoiceRepo {
	return &mockInvoiceRepo{invoices: make(map[uuid.UUID]*domain.Invoice)}
}

func (m *mockInvoiceRepo) Create(_ context.Context, inv *domain.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	inv.InvoiceNumber = "INV-TEST"
	m.invoices[inv.ID] = inv
	return nil
}

func (m *mockInvoiceRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[id]
	if !ok {
		return nil, &apperrors.ErrNotFound{Resource: "invoice", ID: id.String()}
	}
	cp := *inv
	return &cp, nil
}

func (m *mockInvoiceRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.InvoiceStatus, paymentDate *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	inv, ok := m.invoices[id]
	if !ok {
		return &apperrors.ErrNotFound{Resource: "invoice", ID: id.String()}
	}
	inv.Status = status
	if paymentDate != nil {
		inv.PaymentDate = paymentDate
	}
	return nil
}

type mockTicketRepo struct {
	mu       sync.Mutex
	tickets  map[uuid.UUID]*domain.Ticket
	messages []*domain.TicketMessage
}

func newMockTicketRepo() *mockTicketRepo {
	return &mockTicketRepo{tickets: make(map[uuid.UUID]*domain.Ticket)}
}

func (m *mockTicketRepo) Create(_ context.Context, t *domain.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.TicketNumber = "TKT-TEST"
	m.tickets[t.ID] = t
	return nil
}

func (m *mockTicketRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[id]
	if !ok {
		return nil, &apperrors.ErrNotFound{Resource: "ticket", ID: id.String()}
	}
	cp := *t
	return &cp, nil
}

func (m *mockTicketRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.TicketStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[id]
	if !ok {
		return &apperrors.ErrNotFound{Resource: "ticket", ID: id.String()}
	}
	t.Status = status
	return nil
}

func (m *mockTicketRepo) CreateMessage(_ context.Context, msg *domain.TicketMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	msg.CreatedAt = time.Now()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockTicketRepo) ListMessages(_ context.Context, ticketID uuid.UUID) ([]*domain.TicketMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.TicketMessage
	for _, msg := range m.messages {
		if msg.TicketID == ticketID {
			out = append(out, msg)
		}
	}
	return out, nil
}

type mockWalletRepo struct {
	mu      sync.Mutex
	wallets map[uuid.UUID]*domain.Wallet // keyed by user id
	ledger  []*domain.WalletTransaction
}

func newMockWalletRepo() *mockWalletRepo {
	return &mockWalletRepo{wallets: make(map[uuid.UUID]*domain.Wallet)}
}

func (m *mockWalletRepo) GetOrCreateByUser(_ context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wallets[userID]
	if !ok {
		w = &domain.Wallet{ID: uuid.New(), UserID: userID, Balance: decimal.Zero}
		m.wallets[userID] = w
	}
	cp := *w
	return &cp, nil
}

func (m *mockWalletRepo) ApplyTransaction(_ context.Context, walletID uuid.UUID, txn *domain.WalletTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.wallets {
		if w.ID != walletID {
			continue
		}
		delta := txn.Amount
		if txn.Kind == "debit" {
			delta = delta.Neg()
		}
		next := w.Balance.Add(delta)
		if next.IsNegative() {
			return &apperrors.ErrInsufficientFunds{Balance: w.Balance.String(), Requested: txn.Amount.String()}
		}
		w.Balance = next
		txn.ID = uuid.New()
		txn.WalletID = walletID
		m.ledger = append(m.ledger, txn)
		return nil
	}
	return &apperrors.ErrNotFound{Resource: "wallet", ID: walletID.String()}
}

func (m *mockWalletRepo) ListTransactions(_ context.Context, walletID uuid.UUID, limit, offset int) ([]*domain.WalletTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.WalletTransaction
	for _, txn := range m.ledger {
		if txn.WalletID == walletID {
			out = append(out, txn)
		}
	}
	return out, nil
}

type mockDomainRepo struct {
	mu      sync.Mutex
	domains map[uuid.UUID]*domain.HostedDomain
	taken   map[string]bool
}

func newMockDomainRepo() *mockDomainRepo {
	return &mockDomainRepo{
		domains: make(map[uuid.UUID]*domain.HostedDomain),
		taken:   make(map[string]bool),
	}
}

func (m *mockDomainRepo) Create(_ context.Context, d *domain.HostedDomain) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	m.domains[d.ID] = d
	m.taken[d.Name] = true
	return nil
}

func (m *mockDomainRepo) IsAvailable(_ context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.taken[name], nil
}

func (m *mockDomainRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.DomainStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.domains[id]
	if !ok {
		return &apperrors.ErrNotFound{Resource: "domain", ID: id.String()}
	}
	d.Status = status
	return nil
}

func (m *mockDomainRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*domain.HostedDomain, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.HostedDomain
	for _, d := range m.domains {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

type mockMethodRepo struct {
	methods map[string]*domain.PaymentMethod
}

func newMockMethodRepo(codes ...string) *mockMethodRepo {
	m := &mockMethodRepo{methods: make(map[string]*domain.PaymentMethod)}
	for _, code := range codes {
		m.methods[code] = &domain.PaymentMethod{
			ID:       uuid.New(),
			Name:     code,
			Code:     code,
			IsActive: true,
		}
	}
	return m
}

func (m *mockMethodRepo) GetByCode(_ context.Context, code string) (*domain.PaymentMethod, error) {
	pm, ok := m.methods[code]
	if !ok {
		return nil, &apperrors.ErrNotFound{Resource: "payment method", ID: code}
	}
	return pm, nil
}

type mockUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, &apperrors.ErrNotFound{Resource: "user", ID: id.String()}
	}
	cp := *user
	return &cp, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, &apperrors.ErrNotFound{Resource: "user", ID: email}
}

func (m *mockUserRepo) VerifyCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := m.GetByEmail(ctx, email)
	if err != nil {
		return nil, &apperrors.ErrUnauthorized{Message: "invalid email or password"}
	}
	// The mock stores the plaintext in PasswordHash.
	if user.PasswordHash != password {
		return nil, &apperrors.ErrUnauthorized{Message: "invalid email or password"}
	}
	return user, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return &apperrors.ErrNotFound{Resource: "user", ID: user.ID.String()}
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	return nil
}

type mockSessions struct {
	mu     sync.Mutex
	tokens map[string]uuid.UUID
}

func newMockSessions() *mockSessions {
	return &mockSessions{tokens: make(map[string]uuid.UUID)}
}

func (m *mockSessions) Create(_ context.Context, userID uuid.UUID) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token := uuid.New().String()
	m.tokens[token] = userID
	return token, nil
}

func (m *mockSessions) Resolve(_ context.Context, token string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	userID, ok := m.tokens[token]
	if !ok {
		return uuid.Nil, &apperrors.ErrUnauthorized{Message: "session expired or invalid"}
	}
	return userID, nil
}

func (m *mockSessions) Destroy(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, token)
	return nil
}

type recordingFeed struct {
	mu     sync.Mutex
	events []string
}

func (f *recordingFeed) Publish(_ context.Context, table, rowID, action string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, table+":"+action)
}

func (f *recordingFeed) has(event string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.events {
		if e == event {
			return true
		}
	}
	return false
}
