package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/doremi/internal/store"
)

func signedToken(t *testing.T, sub string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestActorIDFromToken(t *testing.T) {
	s := New(store.NewMemory())
	assert.Equal(t, "", s.ActorID(), "logged out means no actor")

	s.SetToken(signedToken(t, "alice"))
	assert.Equal(t, "alice", s.ActorID())

	s.Clear()
	assert.Equal(t, "", s.ActorID())
}

func TestActorIDFallsBackToUserSnapshot(t *testing.T) {
	s := New(store.NewMemory())
	s.SetUser(User{UserID: "bob", Name: "Bob"})
	assert.Equal(t, "bob", s.ActorID())

	u, ok := s.User()
	require.True(t, ok)
	assert.Equal(t, "Bob", u.Name)
}

func TestGarbageTokenIsLoggedOut(t *testing.T) {
	s := New(store.NewMemory())
	s.SetToken("not-a-jwt")
	assert.Equal(t, "", s.ActorID())
}
