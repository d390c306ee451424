package cart

import "sync"

// Store keeps one cart per browsing session, keyed by an opaque session id.
// Each cart is single-writer as far as its own methods are concerned; the
// store serialises access so concurrent requests for the same session
// cannot interleave.
type Store struct {
	mutex sync.Mutex
	carts map[string]*Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[string]*Cart)}
}

// With runs fn against the session's cart, creating the cart on first use.
// The cart must not be retained after fn returns.
func (s *Store) With(sessionID string, fn func(c *Cart) error) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	c, ok := s.carts[sessionID]
	if !ok {
		c = New()
		s.carts[sessionID] = c
	}
	return fn(c)
}

// Drop discards the session's cart entirely.
func (s *Store) Drop(sessionID string) {
	s.mutex.Lock()
	delete(s.carts, sessionID)
	s.mutex.Unlock()
}
