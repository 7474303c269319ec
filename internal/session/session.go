// Package session is the explicit "who is acting" value threaded through
// the SDK. It replaces the web client's ambient localStorage reads: the
// token and user snapshot live in a store.Store, and every component that
// needs an actor receives a *Session instead of reaching for globals.
package session

import (
	"encoding/json"

	"github.com/golang-jwt/jwt/v5"

	"github.com/d60-Lab/doremi/internal/store"
)

// User is the persisted snapshot of the logged-in user, mirroring the login
// response fields.
type User struct {
	UserID   string `json:"USER_ID"`
	Name     string `json:"NAME"`
	Sex      string `json:"SEX"`
	BirthStr string `json:"BIRTHSTR"`
}

// Session reads and writes identity state. All failures degrade to the
// logged-out state; a broken store and an absent login look the same.
type Session struct {
	store store.Store
}

// New wraps a store.
func New(st store.Store) *Session {
	return &Session{store: st}
}

// Token implements client.TokenSource.
func (s *Session) Token() (string, bool) {
	return s.store.Get(store.KeyToken)
}

// Clear drops the token and user snapshot. Used on logout and on a 401.
func (s *Session) Clear() {
	s.store.Remove(store.KeyToken)
	s.store.Remove(store.KeyUser)
}

// SetToken persists a fresh token.
func (s *Session) SetToken(tok string) bool {
	return s.store.Set(store.KeyToken, tok)
}

// SetUser persists the user snapshot.
func (s *Session) SetUser(u User) bool {
	b, err := json.Marshal(u)
	if err != nil {
		return false
	}
	return s.store.Set(store.KeyUser, string(b))
}

// User returns the stored snapshot, if any.
func (s *Session) User() (User, bool) {
	raw, ok := s.store.Get(store.KeyUser)
	if !ok {
		return User{}, false
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return User{}, false
	}
	return u, true
}

// ActorID is the acting user's id, or "" when unauthenticated. The id comes
// from the token's subject claim; the stored user snapshot is the fallback
// for tokens without one. The token is not verified here — the server is the
// authority, the client only needs the identity for request shaping.
func (s *Session) ActorID() string {
	if tok, ok := s.Token(); ok && tok != "" {
		var claims jwt.RegisteredClaims
		if _, _, err := jwt.NewParser().ParseUnverified(tok, &claims); err == nil && claims.Subject != "" {
			return claims.Subject
		}
	}
	if u, ok := s.User(); ok {
		return u.UserID
	}
	return ""
}
