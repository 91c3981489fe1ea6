package store

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisStore implements DocumentStore backed by Redis. Profile
// documents are stored as JSON string values without expiry.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(redisURL string) (s *RedisStore, err error) {
	var opts *redis.Options
	opts, err = redis.ParseURL(redisURL)
	if err != nil {
		err = errors.Wrap(err, "failed to parse redis url")
		return s, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = client.Ping(ctx).Err()
	if err != nil {
		err = errors.Wrap(err, "failed to connect to redis")
		return s, err
	}

	s = &RedisStore{client: client}
	return s, err
}

// NewRedisStoreWithClient wraps an existing Redis client.
func NewRedisStoreWithClient(client *redis.Client) (s *RedisStore) {
	s = &RedisStore{client: client}
	return s
}

// Get fetches the document for key. Returns ErrNotFound when absent.
func (s *RedisStore) Get(ctx context.Context, key string) (doc []byte, err error) {
	var value string
	value, err = s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		err = ErrNotFound
		return doc, err
	}
	if err != nil {
		err = errors.Wrapf(err, "failed to get document: %s", key)
		return doc, err
	}

	doc = []byte(value)
	return doc, err
}

// Set upserts the document for key, replacing any existing value.
func (s *RedisStore) Set(ctx context.Context, key string, doc []byte) (err error) {
	err = s.client.Set(ctx, key, doc, 0).Err()
	if err != nil {
		err = errors.Wrapf(err, "failed to set document: %s", key)
		return err
	}
	return err
}

// LoadPosition returns the persisted step index for identity, or 0
// when none has been saved.
func (s *RedisStore) LoadPosition(ctx context.Context, identity string) (index int, err error) {
	var doc []byte
	doc, err = s.Get(ctx, PositionKey(identity))
	if errors.Is(err, ErrNotFound) {
		err = nil
		return index, err
	}
	if err != nil {
		return index, err
	}

	index, err = strconv.Atoi(string(doc))
	if err != nil {
		err = errors.Wrapf(err, "corrupt step position for %s", identity)
		return index, err
	}
	return index, err
}

// SavePosition persists the step index for identity.
func (s *RedisStore) SavePosition(ctx context.Context, identity string, index int) (err error) {
	err = s.Set(ctx, PositionKey(identity), []byte(strconv.Itoa(index)))
	return err
}

// Ping checks if Redis is reachable.
func (s *RedisStore) Ping(ctx context.Context) (err error) {
	err = s.client.Ping(ctx).Err()
	return err
}

// Close closes the Redis connection.
func (s *RedisStore) Close() (err error) {
	err = s.client.Close()
	return err
}
