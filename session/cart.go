package session

import (
	"net/http"

	"solar-store/cart"
)

// CartStore keeps the cart inside the visitor's session cookie.
type CartStore struct {
	m *Manager
}

var _ cart.Store = (*CartStore)(nil)

func (m *Manager) Carts() *CartStore {
	return &CartStore{m: m}
}

func (s *CartStore) Load(r *http.Request) (cart.Cart, error) {
	stored, _ := s.m.Get(r).Values[keyCart].(map[string]int)
	c := make(cart.Cart, len(stored))
	for k, v := range stored {
		c[k] = v
	}
	return c, nil
}

// Save writes the whole session, so flashes added earlier in the request go out with it.
func (s *CartStore) Save(w http.ResponseWriter, r *http.Request, c cart.Cart) error {
	sess := s.m.Get(r)
	if len(c) == 0 {
		delete(sess.Values, keyCart)
	} else {
		sess.Values[keyCart] = map[string]int(c)
	}
	return sess.Save(r, w)
}

func (s *CartStore) Clear(w http.ResponseWriter, r *http.Request) error {
	sess := s.m.Get(r)
	delete(sess.Values, keyCart)
	return sess.Save(r, w)
}
