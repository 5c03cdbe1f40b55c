package session

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisStore(rdb)
}

func TestRedisRoundtrip(t *testing.T) {
	s := newRedisStore(t)

	sess := s.Get("whatsapp:+911111111111")
	require.NotNil(t, sess)
	assert.Equal(t, 0, sess.Step)

	sess.Step = 3
	sess.Department = "Water"
	sess.History = []int{0, 1}
	s.Put("whatsapp:+911111111111", sess)

	got := s.Get("whatsapp:+911111111111")
	assert.Equal(t, 3, got.Step)
	assert.Equal(t, "Water", got.Department)
	assert.Equal(t, []int{0, 1}, got.History)
}

func TestRedisClear(t *testing.T) {
	s := newRedisStore(t)

	sess := s.Get("whatsapp:+911111111111")
	sess.Department = "Roads"
	s.Put("whatsapp:+911111111111", sess)
	s.Clear("whatsapp:+911111111111")

	got := s.Get("whatsapp:+911111111111")
	assert.Empty(t, got.Department)
}

func TestRedisSessionsExpire(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	s := NewRedisStore(rdb)
	s.TTL = time.Minute

	sess := s.Get("whatsapp:+911111111111")
	sess.Step = 5
	s.Put("whatsapp:+911111111111", sess)

	mr.FastForward(2 * time.Minute)

	got := s.Get("whatsapp:+911111111111")
	assert.Equal(t, 0, got.Step, "expired session must come back fresh")
}

func TestRedisCorruptValueFallsBackToFresh(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	s := NewRedisStore(rdb)
	require.NoError(t, mr.Set(s.Prefix+"bad", "not-json"))

	got := s.Get("bad")
	assert.Equal(t, 0, got.Step)
}
