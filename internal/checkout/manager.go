package checkout

import "sync"

// Manager hands out one Flow per session key, mirroring the cart store
// manager.
type Manager struct {
	mu    sync.Mutex
	flows map[string]*Flow
}

// NewManager creates a session-keyed flow manager.
func NewManager() *Manager {
	return &Manager{flows: make(map[string]*Flow)}
}

// Get returns the flow for a session key, creating it on first use.
func (m *Manager) Get(key string) *Flow {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.flows[key]; ok {
		return f
	}
	f := NewFlow()
	m.flows[key] = f
	return f
}

// Drop forgets a session's flow (dialog closed, session expired).
func (m *Manager) Drop(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.flows, key)
}
