package session

import (
	"context"
	"encoding/json"
	"time"

	"NagarSeva/logger"

	"github.com/redis/go-redis/v9"
)

const defaultTTL = 24 * time.Hour

// RedisStore keeps sessions as JSON values so multiple instances can share
// intake state. Errors degrade to a fresh session rather than failing the
// webhook: losing progress beats losing the message.
type RedisStore struct {
	Rdb    *redis.Client
	Prefix string
	TTL    time.Duration
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{Rdb: rdb, Prefix: "intake:session:", TTL: defaultTTL}
}

func (r *RedisStore) key(conversantID string) string {
	return r.Prefix + conversantID
}

func (r *RedisStore) Get(conversantID string) *Session {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	raw, err := r.Rdb.Get(ctx, r.key(conversantID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warnf("session get %s: %v", conversantID, err)
		}
		return &Session{}
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		logger.Warnf("session decode %s: %v", conversantID, err)
		return &Session{}
	}
	return &s
}

func (r *RedisStore) Put(conversantID string, s *Session) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	raw, err := json.Marshal(s)
	if err != nil {
		logger.Errorf("session encode %s: %v", conversantID, err)
		return
	}
	ttl := r.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if err := r.Rdb.Set(ctx, r.key(conversantID), raw, ttl).Err(); err != nil {
		logger.Warnf("session put %s: %v", conversantID, err)
	}
}

func (r *RedisStore) Clear(conversantID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := r.Rdb.Del(ctx, r.key(conversantID)).Err(); err != nil {
		logger.Warnf("session clear %s: %v", conversantID, err)
	}
}
