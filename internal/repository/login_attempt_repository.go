package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginAttemptRepository counts login attempts per throttle key in Redis
// using a fixed window: INCR plus an expiry set when the counter is created.
// A nil client degrades to a zero count so logins keep working without Redis.
type LoginAttemptRepository struct {
	client *redis.Client
}

// NewLoginAttemptRepository constructs a login attempt counter store.
func NewLoginAttemptRepository(client *redis.Client) *LoginAttemptRepository {
	return &LoginAttemptRepository{client: client}
}

// Increment consumes one unit of quota for the key and returns the attempt
// count inside the current window. The INCR/EXPIRE pair runs in a single
// pipeline so concurrent attempts on the same key never lose updates.
func (r *LoginAttemptRepository) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	if r.client == nil {
		return 0, nil
	}

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("increment login attempts %s: %w", key, err)
	}

	return incr.Val(), nil
}
