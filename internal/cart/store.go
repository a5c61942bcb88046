package cart

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/francisco-dev-ao/angohost-api/internal/domain"
	"github.com/francisco-dev-ao/angohost-api/internal/pricing"
	apperrors "github.com/francisco-dev-ao/angohost-api/pkg/errors"
)

// State is the full cart state for one session.
type State struct {
	Items    []domain.CartItem     `json:"items"`
	Checkout domain.CheckoutConfig `json:"checkout"`
}

// Reducer applies actions to cart state. Repricing on quantity/duration
// changes goes through the pricing calculator; the new-domain registration
// fee is carried as its own domain-type line, never folded into a service
// line.
type Reducer struct {
	Pricing pricing.Config
}

// Apply is the pure transition function. The input state is never mutated.
func (r Reducer) Apply(s State, a Action) (State, error) {
	next := clone(s)

	switch act := a.(type) {
	case AddItem:
		if act.Item.Title == "" {
			return s, &apperrors.ErrValidation{Field: "title", Message: "required"}
		}
		item := act.Item
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.Quantity = pricing.ClampUserCount(item.Quantity)
		item.Years = pricing.ClampPeriod(item.Years)
		next.Items = append(next.Items, item)

	case RemoveItem:
		for i, it := range next.Items {
			if it.ID == act.ID {
				next.Items = append(next.Items[:i], next.Items[i+1:]...)
				break
			}
		}

	case UpdateQuantity:
		i, err := indexOf(next.Items, act.ID)
		if err != nil {
			return s, err
		}
		next.Items[i].Quantity = pricing.ClampUserCount(act.Quantity)
		next.Items[i].Price = r.reprice(next.Items[i])

	case UpdateYears:
		i, err := indexOf(next.Items, act.ID)
		if err != nil {
			return s, err
		}
		next.Items[i].Years = pricing.ClampPeriod(act.Years)
		next.Items[i].Price = r.reprice(next.Items[i])

	case AttachDomain:
		i, err := indexOf(next.Items, act.ID)
		if err != nil {
			return s, err
		}
		next.Items[i].Domain = act.Domain
		next.Items[i].ContactProfileID = act.ContactProfileID

	case SetCheckout:
		next.Checkout = act.Config

	case ResetCheckout:
		next.Checkout = domain.CheckoutConfig{}

	case Clear:
		next.Items = nil
		next.Checkout = domain.CheckoutConfig{}

	default:
		return s, fmt.Errorf("unknown cart action %T", a)
	}

	return next, nil
}

func (r Reducer) reprice(it domain.CartItem) decimal.Decimal {
	// One-time fee lines (domain registration) keep their flat price; the
	// tier discount only ever applies to service lines.
	if it.Type != domain.CartItemService {
		return it.BasePrice
	}
	q := r.Pricing.Quote(pricing.QuoteInput{
		BasePrice: it.BasePrice,
		UserCount: it.Quantity,
		Period:    it.Years,
	})
	return q.Total
}

func indexOf(items []domain.CartItem, id uuid.UUID) (int, error) {
	for i, it := range items {
		if it.ID == id {
			return i, nil
		}
	}
	return 0, &apperrors.ErrNotFound{Resource: "cart item", ID: id.String()}
}

func clone(s State) State {
	out := s
	out.Items = make([]domain.CartItem, len(s.Items))
	copy(out.Items, s.Items)
	return out
}

// SnapshotStore persists cart snapshots so a session restart restores the
// cart. The bolt-backed device store implements it.
type SnapshotStore interface {
	PutCart(key string, data []byte) error
	GetCart(key string) ([]byte, error)
	DeleteCart(key string) error
}

// Store owns the current state for one session key. Every dispatch runs the
// reducer, persists a snapshot best-effort and notifies subscribers.
type Store struct {
	mu      sync.Mutex
	key     string
	reducer Reducer
	state   State
	snaps   SnapshotStore
	logger  *zap.Logger
	subs    []chan State
}

// NewStore creates a store for a session key, restoring any snapshot the
// device store holds for it.
func NewStore(key string, reducer Reducer, snaps SnapshotStore, logger *zap.Logger) *Store {
	st := &Store{key: key, reducer: reducer, snaps: snaps, logger: logger}

	if snaps != nil {
		if data, err := snaps.GetCart(key); err == nil && len(data) > 0 {
			var restored State
			if err := json.Unmarshal(data, &restored); err != nil {
				logger.Warn("discarding unreadable cart snapshot", zap.String("key", key), zap.Error(err))
			} else {
				st.state = restored
			}
		}
	}

	return st
}

// Dispatch applies an action and returns the new state. Snapshot failures
// are logged, not surfaced: the in-memory copy stays authoritative.
func (st *Store) Dispatch(a Action) (State, error) {
	st.mu.Lock()
	next, err := st.reducer.Apply(st.state, a)
	if err != nil {
		st.mu.Unlock()
		return st.state, err
	}
	st.state = next
	subs := make([]chan State, len(st.subs))
	copy(subs, st.subs)
	st.mu.Unlock()

	if st.snaps != nil {
		if data, err := json.Marshal(next); err == nil {
			if err := st.snaps.PutCart(st.key, data); err != nil {
				st.logger.Warn("cart snapshot write failed", zap.String("key", st.key), zap.Error(err))
			}
		}
	}

	for _, ch := range subs {
		select {
		case ch <- next:
		default: // slow subscriber, drop
		}
	}

	return next, nil
}

// State returns a copy of the current state.
func (st *Store) State() State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return clone(st.state)
}

// Subscribe returns a channel receiving every new state. Slow consumers
// miss intermediate states, never block dispatch.
func (st *Store) Subscribe() <-chan State {
	ch := make(chan State, 8)
	st.mu.Lock()
	st.subs = append(st.subs, ch)
	st.mu.Unlock()
	return ch
}

// Manager hands out one Store per session key.
type Manager struct {
	mu      sync.Mutex
	reducer Reducer
	snaps   SnapshotStore
	logger  *zap.Logger
	stores  map[string]*Store
}

// NewManager creates a session-keyed store manager.
func NewManager(reducer Reducer, snaps SnapshotStore, logger *zap.Logger) *Manager {
	return &Manager{
		reducer: reducer,
		snaps:   snaps,
		logger:  logger,
		stores:  make(map[string]*Store),
	}
}

// Get returns the store for a session key, creating it on first use.
func (m *Manager) Get(key string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := m.stores[key]; ok {
		return st
	}
	st := NewStore(key, m.reducer, m.snaps, m.logger)
	m.stores[key] = st
	return st
}

// Drop forgets a session's store and its snapshot (sign-out, session expiry).
func (m *Manager) Drop(key string) {
	m.mu.Lock()
	delete(m.stores, key)
	m.mu.Unlock()

	if m.snaps != nil {
		if err := m.snaps.DeleteCart(key); err != nil {
			m.logger.Warn("cart snapshot delete failed", zap.String("key", key), zap.Error(err))
		}
	}
}
