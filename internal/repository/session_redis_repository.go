package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/course-portal/internal/models"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
)

const sessionKeyPrefix = "portal:session:"

// RedisSessionRepository stores the identity record in Redis without expiry.
type RedisSessionRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisSessionRepository constructs a redis-backed session repository.
func NewRedisSessionRepository(client *redis.Client, logger *zap.Logger) *RedisSessionRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSessionRepository{client: client, logger: logger}
}

// Get loads the identity stored under key.
func (r *RedisSessionRepository) Get(ctx context.Context, key string) (*models.Student, error) {
	if r.client == nil {
		return nil, appErrors.ErrSessionMiss
	}
	raw, err := r.client.Get(ctx, sessionKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, appErrors.ErrSessionMiss
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	var student models.Student
	if err := json.Unmarshal(raw, &student); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", key, err)
	}
	return &student, nil
}

// Put overwrites the identity stored under key.
func (r *RedisSessionRepository) Put(ctx context.Context, key string, student models.Student) error {
	if r.client == nil {
		return fmt.Errorf("redis session backend not configured")
	}
	payload, err := json.Marshal(student)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", key, err)
	}
	if err := r.client.Set(ctx, sessionKeyPrefix+key, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes the identity stored under key.
func (r *RedisSessionRepository) Delete(ctx context.Context, key string) error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Del(ctx, sessionKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying Redis connection if present.
func (r *RedisSessionRepository) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
