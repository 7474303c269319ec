package store

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func exercise(t *testing.T, s Store) {
	t.Helper()

	_, ok := s.Get("missing")
	assert.False(t, ok)

	assert.True(t, s.Set(KeyToken, "abc"))
	v, ok := s.Get(KeyToken)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	assert.True(t, s.Set(KeyToken, "def"))
	v, _ = s.Get(KeyToken)
	assert.Equal(t, "def", v)

	assert.True(t, s.Remove(KeyToken))
	_, ok = s.Get(KeyToken)
	assert.False(t, ok)
}

func TestMemoryStore(t *testing.T) {
	exercise(t, NewMemory())
}

func TestDBStore(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	exercise(t, NewDB(db))
}

func TestDBStoreUnavailable(t *testing.T) {
	s := NewDB(nil)
	// Broken backend and absent value are indistinguishable.
	_, ok := s.Get(KeyToken)
	assert.False(t, ok)
	assert.False(t, s.Set(KeyToken, "x"))
	assert.False(t, s.Remove(KeyToken))
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	exercise(t, s)
}

func TestRedisStoreUnavailableProbedOnce(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	s := NewRedis(redis.NewClient(&redis.Options{Addr: addr}))
	assert.False(t, s.Set(KeyToken, "x"))
	_, ok := s.Get(KeyToken)
	assert.False(t, ok)
}
