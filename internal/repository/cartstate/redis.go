package cartstate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"rocketshoes-cart/internal/domain"

	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
)

const redisConnectAttempts = 10

// Redis stores each cart snapshot as a plain string value.
type Redis struct {
	client *redis.Client
	logger *log.Logger
}

// NewRedis accepts either a redis:// URL or a bare host:port address.
func NewRedis(addr string, logger *log.Logger) *Redis {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	client := redis.NewClient(redisOptions(addr))
	client.AddHook(redisotel.NewTracingHook())

	return &Redis{client: client, logger: logger}
}

// redisOptions parses addr and fills every pool and timeout setting the URL
// left unset.
func redisOptions(addr string) *redis.Options {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{Addr: addr}
	}
	if opts.MinIdleConns == 0 {
		opts.MinIdleConns = 1
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 5 * time.Second
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 3 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 3 * time.Second
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = 10
	}
	if opts.PoolTimeout == 0 {
		opts.PoolTimeout = 4 * time.Second
	}
	if opts.IdleTimeout == 0 {
		opts.IdleTimeout = 180 * time.Second
	}
	return opts
}

// Initialize waits for Redis to answer PING, backing off between attempts.
func (r *Redis) Initialize(ctx context.Context) error {
	for i := 0; i < redisConnectAttempts; i++ {
		err := r.Ping(ctx)
		if err == nil {
			r.logger.Printf("cartstate redis: connected after %d attempt(s)", i+1)
			return nil
		}
		r.logger.Printf("cartstate redis: ping attempt %d/%d failed: %v", i+1, redisConnectAttempts, err)

		backoff := time.Duration(250*(1<<uint(i))) * time.Millisecond
		if backoff > 10*time.Second {
			backoff = 10 * time.Second
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("redis not reachable after %d attempts", redisConnectAttempts)
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("cartstate redis: get key=%s error=%v", key, err)
		return nil, err
	}
	return raw, nil
}

func (r *Redis) Set(ctx context.Context, key string, payload []byte) error {
	if err := r.client.Set(ctx, key, payload, 0).Err(); err != nil {
		r.logger.Printf("cartstate redis: set key=%s error=%v", key, err)
		return err
	}
	return nil
}

func (r *Redis) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.client.Ping(pingCtx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
