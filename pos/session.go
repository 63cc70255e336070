package pos

import "sync"

// Session is one cashier's cart guarded by a lock
type Session struct {
	mu   sync.Mutex
	cart *Cart
}

// Do runs fn with exclusive access to the session's cart
func (s *Session) Do(fn func(*Cart) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.cart)
}

// Registry hands out one Session per cashier
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Session returns the session for cashier, creating it on first use
func (r *Registry) Session(cashier string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[cashier]
	if !ok {
		s = &Session{cart: NewCart()}
		r.sessions[cashier] = s
	}
	return s
}

// Drop discards the session for cashier
func (r *Registry) Drop(cashier string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, cashier)
}
