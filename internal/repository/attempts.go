package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shenikar/fire_command_center/internal/service"
)

// LoginAttemptRepository считает попытки входа в Redis
type LoginAttemptRepository struct {
	redisClient *redis.Client
}

func NewLoginAttemptRepository(redisClient *redis.Client) service.AttemptCounter {
	return &LoginAttemptRepository{redisClient: redisClient}
}

// Incr увеличивает счетчик ключа. Окно отсчитывается от первой попытки.
func (r *LoginAttemptRepository) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := r.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count attempt %s: %w", key, err)
	}
	return incr.Val(), nil
}
