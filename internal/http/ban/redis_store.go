package ban

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	strikesKeyPrefix = "login:strikes:"
	banKeyPrefix     = "login:ban:"
)

type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) AddStrike(ctx context.Context, key string, window time.Duration) (int, error) {
	k := strikesKeyPrefix + key

	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return int(incr.Val()), nil
}

func (s *RedisStore) ClearStrikes(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, strikesKeyPrefix+key).Err()
}

func (s *RedisStore) Ban(ctx context.Context, key string, d time.Duration) error {
	return s.rdb.Set(ctx, banKeyPrefix+key, time.Now().Add(d).Unix(), d).Err()
}

func (s *RedisStore) BannedFor(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := s.rdb.PTTL(ctx, banKeyPrefix+key).Result()
	if err != nil {
		return 0, err
	}
	// -2 for a missing key, -1 for a key without expiry.
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}
