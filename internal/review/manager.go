package review

import (
	"sync"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Manager holds the live review sessions, one per invoice, and serializes
// all mutation through a single lock. Sessions are in-memory only; a restart
// drops them and the reviewer reloads from the persisted draft.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	log      *zap.Logger
}

func NewManager(log *zap.Logger) *Manager {
	return &Manager{
		sessions: map[string]*Session{},
		log:      log.Named("review"),
	}
}

// Open creates (or replaces) the session for an invoice and returns it in
// the loading state.
func (m *Manager) Open(invoiceID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	session := NewSession(invoiceID)
	m.sessions[invoiceID] = session
	m.log.Debug("review session opened", zap.String("invoice_id", invoiceID))
	return session
}

// Get returns the session for an invoice, or nil when none is open.
func (m *Manager) Get(invoiceID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[invoiceID]
}

// Close drops the session for an invoice.
func (m *Manager) Close(invoiceID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, invoiceID)
}

// Update runs fn against the session under the manager lock. Returns false
// when no session is open for the invoice.
func (m *Manager) Update(invoiceID string, fn func(*Session) error) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[invoiceID]
	if !ok {
		return false, nil
	}
	return true, fn(session)
}

// Module wires the review session manager.
var Module = fx.Module("review",
	fx.Provide(NewManager),
)
