package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// decrement is a no-op for an absent key and deletes the key at zero,
// run as a script so concurrent readers never observe a negative count
var decrementScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
local value = redis.call('DECR', KEYS[1])
if value <= 0 then
	redis.call('DEL', KEYS[1])
	return 0
end
return value`)

type RedisCounters struct {
	cli    redis.UniversalClient
	window time.Duration
}

func NewRedisCounters(cli redis.UniversalClient, window time.Duration) RedisCounters {
	return RedisCounters{
		cli:    cli,
		window: window,
	}
}

func (r RedisCounters) Get(ctx context.Context, key string) (int, error) {
	value, err := r.cli.Get(ctx, r.key(key)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.WithMessage(err, "redis get")
	}
	return value, nil
}

func (r RedisCounters) Increment(ctx context.Context, key string) (int, error) {
	value, err := r.cli.Incr(ctx, r.key(key)).Result()
	if err != nil {
		return 0, errors.WithMessage(err, "redis incr")
	}

	err = r.cli.PExpire(ctx, r.key(key), r.window).Err()
	if err != nil {
		return 0, errors.WithMessage(err, "redis pexpire")
	}

	return int(value), nil
}

func (r RedisCounters) Decrement(ctx context.Context, key string) error {
	err := decrementScript.Run(ctx, r.cli, []string{r.key(key)}).Err()
	if err != nil {
		return errors.WithMessage(err, "redis run decrement script")
	}
	return nil
}

func (r RedisCounters) key(clientKey string) string {
	return fmt.Sprintf("throttling:%s", clientKey)
}
