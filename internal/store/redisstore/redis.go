package redisstore

import (
	"context"
	"errors"
	"strconv"

	redis "github.com/redis/go-redis/v9"

	"bankai/backend/internal/store"
)

// Store keeps each blob under <prefix><key> and its version counter under
// <prefix><key>:version. Writes run inside WATCH/MULTI on both keys, so a
// concurrent writer aborts the transaction instead of overwriting.
type Store struct {
	client *redis.Client
	prefix string
}

var _ store.BlobStore = (*Store)(nil)

func New(addr string, password string, db int, prefix string) *Store {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &Store{client: client, prefix: prefix}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, string, error) {
	dataKey, versionKey := s.keys(key)
	values, err := s.client.MGet(ctx, dataKey, versionKey).Result()
	if err != nil {
		return nil, "", err
	}
	data, ok := values[0].(string)
	if !ok {
		return nil, "", nil
	}
	version, _ := values[1].(string)
	return []byte(data), version, nil
}

func (s *Store) Put(ctx context.Context, key string, data []byte, expected string) (string, error) {
	dataKey, versionKey := s.keys(key)
	var next string

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, dataKey).Result()
		if err != nil {
			return err
		}
		current := ""
		if exists > 0 {
			current, err = tx.Get(ctx, versionKey).Result()
			if err != nil && err != redis.Nil {
				return err
			}
		}
		if current != expected {
			return &store.ConflictError{Key: key}
		}

		// The counter lives outside the watched pair so it keeps growing
		// across deletes.
		seq, err := tx.Incr(ctx, s.prefix+"versions").Result()
		if err != nil {
			return err
		}
		next = strconv.FormatInt(seq, 10)

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, dataKey, data, 0)
			pipe.Set(ctx, versionKey, next, 0)
			return nil
		})
		return err
	}, dataKey, versionKey)
	if err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			return "", &store.ConflictError{Key: key}
		}
		return "", err
	}
	return next, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	dataKey, versionKey := s.keys(key)
	return s.client.Del(ctx, dataKey, versionKey).Err()
}

func (s *Store) keys(key string) (string, string) {
	dataKey := s.prefix + key
	return dataKey, dataKey + ":version"
}
