package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// maxUpdateAttempts bounds the optimistic retries of RedisStore.Update.
const maxUpdateAttempts = 10

// RedisStore keeps the list as a JSON array under a single key.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

func NewRedisStore(client *redis.Client, keyPrefix string) *RedisStore {
	if client == nil {
		panic("redis client cannot be nil for RedisStore")
	}
	if keyPrefix == "" {
		keyPrefix = "blockfall:"
	}
	return &RedisStore{client: client, keyPrefix: keyPrefix}
}

func (r *RedisStore) key() string {
	return r.keyPrefix + "leaderboard"
}

// Load reads the list. A missing key is an empty list.
func (r *RedisStore) Load(ctx context.Context) ([]int, error) {
	return r.get(ctx, r.client)
}

func (r *RedisStore) get(ctx context.Context, c interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}) ([]int, error) {
	data, err := c.Get(ctx, r.key()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get %s: %w", r.key(), err)
	}

	var scores []int
	if err := json.Unmarshal(data, &scores); err != nil {
		return nil, fmt.Errorf("redis: decode %s: %w", r.key(), err)
	}
	return scores, nil
}

func encode(scores []int) ([]byte, error) {
	if scores == nil {
		scores = []int{}
	}
	data, err := json.Marshal(scores)
	if err != nil {
		return nil, fmt.Errorf("redis: encode: %w", err)
	}
	return data, nil
}

func (r *RedisStore) Save(ctx context.Context, scores []int) error {
	data, err := encode(scores)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(), data, 0).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", r.key(), err)
	}
	return nil
}

// Update watches the key, applies fn and writes the result in a MULTI
// block. A write by another client between the read and the EXEC aborts
// the transaction, which is then retried from a fresh read.
func (r *RedisStore) Update(ctx context.Context, fn func([]int) ([]int, bool)) ([]int, error) {
	var out []int
	txf := func(tx *redis.Tx) error {
		scores, err := r.get(ctx, tx)
		if err != nil {
			return err
		}
		next, write := fn(scores)
		out = next
		if !write {
			return nil
		}
		data, err := encode(next)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.key(), data, 0)
			return nil
		})
		return err
	}

	for range maxUpdateAttempts {
		err := r.client.Watch(ctx, txf, r.key())
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("redis: update %s: %w", r.key(), err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("redis: update %s: %w", r.key(), redis.TxFailedErr)
}
