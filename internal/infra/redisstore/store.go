// Package redisstore implements the cache's durable storage contract on
// Redis.
package redisstore

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Store implements domain.BlobStore using Redis. It provides plain
// key-value storage with prefix-based namespacing; entry lifetime is the
// analysis cache's concern, so no Redis TTL is applied.
type Store struct {
	client    *redis.Client
	logger    *zap.Logger
	keyPrefix string
}

// NewStore creates a Redis-backed blob store. keyPrefix namespaces all keys
// to prevent collisions with other applications on the same instance.
func NewStore(client *redis.Client, logger *zap.Logger, keyPrefix string) *Store {
	return &Store{
		client:    client,
		logger:    logger,
		keyPrefix: keyPrefix,
	}
}

// Get retrieves a value by key. Returns nil, nil when the key is absent.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.buildKey(key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("store get failed",
			zap.String("key", key),
			zap.Error(err),
		)

		return nil, err
	}

	return data, nil
}

// Set stores a value under key without expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.buildKey(key), value, 0).Err(); err != nil {
		s.logger.Error("store set failed",
			zap.String("key", key),
			zap.Int("bytes", len(value)),
			zap.Error(err),
		)

		return err
	}

	s.logger.Debug("store set",
		zap.String("key", key),
		zap.Int("bytes", len(value)),
	)

	return nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.buildKey(key)).Err(); err != nil {
		s.logger.Error("store delete failed",
			zap.String("key", key),
			zap.Error(err),
		)

		return err
	}

	return nil
}

func (s *Store) buildKey(key string) string {
	return s.keyPrefix + ":" + key
}
