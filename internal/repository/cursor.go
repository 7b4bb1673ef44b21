package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	errs "chess_analyse/internal/errors"
)

// CursorStorage keeps the last cursor token of every analysis session so a
// reloaded board reopens where it was left.
type CursorStorage struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCursorRedisStorage(redis *redis.Client, ttl time.Duration) *CursorStorage {
	return &CursorStorage{
		client: redis,
		ttl:    ttl,
	}
}

func cursorKey(analysisID string) string {
	return "analysis:cursor:" + analysisID
}

func (c *CursorStorage) GetCursor(ctx context.Context, analysisID string) (string, error) {
	v, err := c.client.Get(ctx, cursorKey(analysisID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", errs.ErrCursorNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (c *CursorStorage) StoreCursor(ctx context.Context, analysisID string, token string) error {
	return c.client.Set(ctx, cursorKey(analysisID), token, c.ttl).Err()
}
