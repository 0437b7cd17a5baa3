package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrBusy = errors.New("LOCK_BUSY")

type Config struct {
	Enabled bool          `mapstructure:"enabled"`
	URL     string        `mapstructure:"url"`
	TTL     time.Duration `mapstructure:"ttl"`
	Prefix  string        `mapstructure:"prefix"`
}

type Locker interface {
	// Acquire returns ErrBusy when another holder owns key.
	Acquire(ctx context.Context, key string) (Lease, error)
}

type Lease interface {
	Release(ctx context.Context) error
}

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisLocker struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewLocker returns a Redis backed locker, or a locker that always succeeds
// when locking is disabled.
func NewLocker(cfg Config) (Locker, error) {
	if !cfg.Enabled {
		return noopLocker{}, nil
	}

	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	return NewRedisLocker(redis.NewClient(opt), cfg.TTL, cfg.Prefix), nil
}

func NewRedisLocker(client *redis.Client, ttl time.Duration, prefix string) Locker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if prefix == "" {
		prefix = "paygw:lock:"
	}

	return &redisLocker{client: client, ttl: ttl, prefix: prefix}
}

func (l *redisLocker) Acquire(ctx context.Context, key string) (Lease, error) {
	token := uuid.NewString()
	fullKey := l.prefix + key

	ok, err := l.client.SetNX(ctx, fullKey, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire %s: %w", fullKey, err)
	}

	if !ok {
		return nil, ErrBusy
	}

	return &redisLease{client: l.client, key: fullKey, token: token}, nil
}

type redisLease struct {
	client *redis.Client
	key    string
	token  string
}

func (l *redisLease) Release(ctx context.Context) error {
	return releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Err()
}

type noopLocker struct{}

func (noopLocker) Acquire(context.Context, string) (Lease, error) { return noopLease{}, nil }

type noopLease struct{}

func (noopLease) Release(context.Context) error { return nil }
