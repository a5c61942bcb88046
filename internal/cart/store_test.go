package cart

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/francisco-dev-ao/angohost-api/internal/domain"
	"github.com/francisco-dev-ao/angohost-api/internal/pricing"
	apperrors "github.com/francisco-dev-ao/angohost-api/pkg/errors"
)

type mockSnapshots struct {
	m    sync.Mutex
	data map[string][]byte
	err  error
}

func newMockSnapshots() *mockSnapshots {
	return &mockSnapshots{data: make(map[string][]byte)}
}

func (m *mockSnapshots) PutCart(key string, data []byte) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = data
	return nil
}

func (m *mockSnapshots) GetCart(key string) ([]byte, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.data[key], nil
}

func (m *mockSnapshots) DeleteCart(key string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.data, key)
	return nil
}

func testReducer() Reducer {
	return Reducer{Pricing: pricing.DefaultConfig()}
}

func serviceItem(title string) domain.CartItem {
	return domain.CartItem{
		Title:     title,
		Type:      domain.CartItemService,
		Quantity:  1,
		Years:     1,
		BasePrice: decimal.NewFromInt(1000),
		Price:     decimal.NewFromInt(1000),
	}
}

func TestApply_AddItemAppendsWithoutMerging(t *testing.T) {
	r := testReducer()
	s := State{}

	var err error
	for i := 0; i < 3; i++ {
		s, err = r.Apply(s, AddItem{Item: serviceItem("Plano Corporativo")})
		require.NoError(t, err)
	}

	// same plan three times stays three lines
	require.Len(t, s.Items, 3)
	seen := map[uuid.UUID]bool{}
	for _, it := range s.Items {
		assert.False(t, seen[it.ID], "line IDs must stay distinct")
		seen[it.ID] = true
	}
}

func TestApply_AddItemValidation(t *testing.T) {
	r := testReducer()
	s := State{}

	_, err := r.Apply(s, AddItem{Item: domain.CartItem{}})
	var verr *apperrors.ErrValidation
	require.ErrorAs(t, err, &verr)
}

func TestApply_AddItemClampsQuantity(t *testing.T) {
	r := testReducer()
	item := serviceItem("Email Pro")
	item.Quantity = 5000
	item.Years = 99

	s, err := r.Apply(State{}, AddItem{Item: item})
	require.NoError(t, err)
	assert.Equal(t, 1000, s.Items[0].Quantity)
	assert.Equal(t, 5, s.Items[0].Years)
}

func TestApply_RemoveItem(t *testing.T) {
	r := testReducer()
	s, _ := r.Apply(State{}, AddItem{Item: serviceItem("a")})
	s, _ = r.Apply(s, AddItem{Item: serviceItem("b")})

	s, err := r.Apply(s, RemoveItem{ID: s.Items[0].ID})
	require.NoError(t, err)
	require.Len(t, s.Items, 1)
	assert.Equal(t, "b", s.Items[0].Title)

	// removing an absent line is a no-op
	s, err = r.Apply(s, RemoveItem{ID: uuid.New()})
	require.NoError(t, err)
	assert.Len(t, s.Items, 1)
}

func TestApply_UpdateYearsReprices(t *testing.T) {
	r := testReducer()
	s, _ := r.Apply(State{}, AddItem{Item: serviceItem("Plano Base")})

	s, err := r.Apply(s, UpdateYears{ID: s.Items[0].ID, Years: 3})
	require.NoError(t, err)
	// 1000 × 1 × 3 × 0.90 = 2700
	assert.True(t, s.Items[0].Price.Equal(decimal.NewFromInt(2700)), "got %s", s.Items[0].Price)
}

func TestApply_FeeLineKeepsFlatPrice(t *testing.T) {
	r := testReducer()
	fee := domain.CartItem{
		Title:     "Registro de domínio empresa.ao",
		Type:      domain.CartItemDomain,
		Quantity:  1,
		Years:     1,
		BasePrice: decimal.NewFromInt(2000),
		Price:     decimal.NewFromInt(2000),
		Domain:    "empresa.ao",
	}
	s, err := r.Apply(State{}, AddItem{Item: fee})
	require.NoError(t, err)

	// duration changes affect the registration period, never the flat fee
	s, err = r.Apply(s, UpdateYears{ID: s.Items[0].ID, Years: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, s.Items[0].Years)
	assert.True(t, s.Items[0].Price.Equal(decimal.NewFromInt(2000)), "got %s", s.Items[0].Price)

	s, err = r.Apply(s, UpdateQuantity{ID: s.Items[0].ID, Quantity: 4})
	require.NoError(t, err)
	assert.True(t, s.Items[0].Price.Equal(decimal.NewFromInt(2000)), "got %s", s.Items[0].Price)
}

func TestApply_UpdateQuantityUnknownItem(t *testing.T) {
	r := testReducer()
	s, _ := r.Apply(State{}, AddItem{Item: serviceItem("a")})

	_, err := r.Apply(s, UpdateQuantity{ID: uuid.New(), Quantity: 2})
	var nf *apperrors.ErrNotFound
	require.ErrorAs(t, err, &nf)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	r := testReducer()
	s0, _ := r.Apply(State{}, AddItem{Item: serviceItem("a")})

	_, err := r.Apply(s0, UpdateQuantity{ID: s0.Items[0].ID, Quantity: 9})
	require.NoError(t, err)
	assert.Equal(t, 1, s0.Items[0].Quantity, "input state must stay untouched")
}

func TestApply_AttachDomainAndClear(t *testing.T) {
	r := testReducer()
	item := serviceItem("dominio .ao")
	item.Type = domain.CartItemDomain
	s, _ := r.Apply(State{}, AddItem{Item: item})

	profileID := uuid.New()
	s, err := r.Apply(s, AttachDomain{ID: s.Items[0].ID, Domain: "empresa.ao", ContactProfileID: &profileID})
	require.NoError(t, err)
	assert.Equal(t, "empresa.ao", s.Items[0].Domain)
	require.NotNil(t, s.Items[0].ContactProfileID)
	assert.Equal(t, profileID, *s.Items[0].ContactProfileID)

	s, err = r.Apply(s, Clear{})
	require.NoError(t, err)
	assert.Empty(t, s.Items)
	assert.Equal(t, domain.CheckoutConfig{}, s.Checkout)
}

func TestApply_CheckoutConfigLifecycle(t *testing.T) {
	r := testReducer()
	cfg := domain.CheckoutConfig{UserCount: 10, Period: 2, DomainOption: domain.DomainOptionNew, NewDomainName: "empresa.ao"}

	s, err := r.Apply(State{}, SetCheckout{Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, cfg, s.Checkout)

	s, err = r.Apply(s, ResetCheckout{})
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutConfig{}, s.Checkout)
}

func TestStore_DispatchPersistsSnapshot(t *testing.T) {
	snaps := newMockSnapshots()
	st := NewStore("sess-1", testReducer(), snaps, zap.NewNop())

	_, err := st.Dispatch(AddItem{Item: serviceItem("Plano Base")})
	require.NoError(t, err)

	raw := snaps.data["sess-1"]
	require.NotEmpty(t, raw)
	var stored State
	require.NoError(t, json.Unmarshal(raw, &stored))
	assert.Len(t, stored.Items, 1)
}

func TestStore_RestoresFromSnapshot(t *testing.T) {
	snaps := newMockSnapshots()
	first := NewStore("sess-2", testReducer(), snaps, zap.NewNop())
	_, err := first.Dispatch(AddItem{Item: serviceItem("Plano Base")})
	require.NoError(t, err)

	// new store for the same key sees the persisted cart
	second := NewStore("sess-2", testReducer(), snaps, zap.NewNop())
	assert.Len(t, second.State().Items, 1)
}

func TestStore_SnapshotFailureKeepsMemoryAuthoritative(t *testing.T) {
	snaps := newMockSnapshots()
	snaps.err = assert.AnError
	st := NewStore("sess-3", testReducer(), snaps, zap.NewNop())

	_, err := st.Dispatch(AddItem{Item: serviceItem("Plano Base")})
	require.NoError(t, err)
	assert.Len(t, st.State().Items, 1)
}

func TestManager_SeparateSessions(t *testing.T) {
	snaps := newMockSnapshots()
	m := NewManager(testReducer(), snaps, zap.NewNop())

	a := m.Get("sess-a")
	b := m.Get("sess-b")
	_, err := a.Dispatch(AddItem{Item: serviceItem("x")})
	require.NoError(t, err)

	assert.Len(t, a.State().Items, 1)
	assert.Empty(t, b.State().Items)
	assert.Same(t, a, m.Get("sess-a"))

	m.Drop("sess-a")
	assert.NotSame(t, a, m.Get("sess-a"))

	// dropping also clears the persisted snapshot
	assert.Empty(t, snaps.data["sess-a"])
	assert.Empty(t, m.Get("sess-a").State().Items)
}
