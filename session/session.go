// Package session keeps per-visitor state in a signed cookie: the logged-in user id,
// the shopping cart, flash messages and the pending OAuth state nonce.
package session

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	Name = "solar-session"

	keyUserID     = "user_id"
	keyCart       = "cart"
	keyOAuthState = "oauth_state"
)

// Register types for gob encoding (used by sessions)
func init() {
	gob.Register(FlashMessage{})
	gob.Register(map[string]int{})
}

// FlashMessage is a one-shot notice shown on the next rendered page. Type is one of
// success, info, warning, danger.
type FlashMessage struct {
	Type    string
	Message string
}

type Manager struct {
	store sessions.Store
}

func NewManager(store sessions.Store) *Manager {
	return &Manager{store: store}
}

// NewCookieStore returns a cookie store signed with key.
func NewCookieStore(key []byte, secure bool, domain string) *sessions.CookieStore {
	store := sessions.NewCookieStore(key)
	store.Options.HttpOnly = true
	store.Options.Secure = secure
	store.Options.SameSite = http.SameSiteLaxMode
	store.Options.Path = "/"
	store.Options.MaxAge = 14 * 24 * 3600
	if domain != "" {
		store.Options.Domain = domain
	}
	return store
}

// Get returns the visitor's session. A cookie that fails verification yields a fresh
// session rather than an error.
func (m *Manager) Get(r *http.Request) *sessions.Session {
	s, _ := m.store.Get(r, Name)
	return s
}

func (m *Manager) Save(w http.ResponseWriter, r *http.Request) error {
	return m.Get(r).Save(r, w)
}

func (m *Manager) AddFlash(r *http.Request, kind, message string) {
	m.Get(r).AddFlash(FlashMessage{Type: kind, Message: message})
}

// Flashes consumes pending flash messages; the session must be saved afterwards.
func (m *Manager) Flashes(r *http.Request) []FlashMessage {
	var messages []FlashMessage
	for _, f := range m.Get(r).Flashes() {
		if fm, ok := f.(FlashMessage); ok {
			messages = append(messages, fm)
		}
	}
	return messages
}

func (m *Manager) UserID(r *http.Request) (uint, bool) {
	id, ok := m.Get(r).Values[keyUserID].(uint)
	return id, ok && id != 0
}

func (m *Manager) SetUser(r *http.Request, id uint) {
	m.Get(r).Values[keyUserID] = id
}

// ClearUser forgets the logged-in identity; the cart survives.
func (m *Manager) ClearUser(r *http.Request) {
	delete(m.Get(r).Values, keyUserID)
}

func (m *Manager) SetOAuthState(r *http.Request, nonce string) {
	m.Get(r).Values[keyOAuthState] = nonce
}

// PopOAuthState returns and forgets the pending OAuth nonce.
func (m *Manager) PopOAuthState(r *http.Request) string {
	s := m.Get(r)
	nonce, _ := s.Values[keyOAuthState].(string)
	delete(s.Values, keyOAuthState)
	return nonce
}
