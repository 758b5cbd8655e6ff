package kvstore

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const defaultRedisUpdateRetries = 10

var _ Backend = (*RedisBackend)(nil)

// RedisBackend stores every item under "<namespace>::<key>".
// The client is owned by the caller.
type RedisBackend struct {
	client     *redis.Client
	namespace  string
	maxRetries int
}

func NewRedisBackend(client *redis.Client, namespace string) *RedisBackend {
	return &RedisBackend{
		client:     client,
		namespace:  namespace,
		maxRetries: defaultRedisUpdateRetries,
	}
}

func (r *RedisBackend) key(key string) string {
	if r.namespace == "" {
		return key
	}
	return r.namespace + "::" + key
}

func (r *RedisBackend) GetItem(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (r *RedisBackend) SetItem(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.key(key), value, 0).Err()
}

func (r *RedisBackend) RemoveItem(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

// Update runs fn inside WATCH/MULTI and retries when another writer touched the key in between.
func (r *RedisBackend) Update(ctx context.Context, key string, fn UpdateFunc) error {
	redisKey := r.key(key)

	txFunc := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, redisKey).Result()
		exists := true
		if errors.Is(err, redis.Nil) {
			exists = false
		} else if err != nil {
			return err
		}

		next, err := fn(current, exists)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, redisKey, next, 0)
			return nil
		})
		return err
	}

	for i := 0; i < r.maxRetries; i++ {
		err := r.client.Watch(ctx, txFunc, redisKey)
		switch {
		case err == nil, errors.Is(err, ErrUnchanged):
			return nil
		case errors.Is(err, redis.TxFailedErr):
			log.Debugf("redis update of %s lost a race, attempt %d", redisKey, i+1)
			continue
		default:
			return err
		}
	}

	return ErrConflict
}
