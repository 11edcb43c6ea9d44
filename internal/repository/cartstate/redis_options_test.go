package cartstate

import (
	"testing"
	"time"
)

func TestRedisOptionsTuning(t *testing.T) {
	for _, addr := range []string{"localhost:6379", "redis://:secret@cache:6380/2"} {
		opts := redisOptions(addr)
		if opts.DialTimeout != 5*time.Second || opts.ReadTimeout != 3*time.Second || opts.WriteTimeout != 3*time.Second {
			t.Fatalf("%s: timeouts not applied: %+v", addr, opts)
		}
		if opts.PoolSize != 10 || opts.MinIdleConns != 1 || opts.MaxRetries != 3 {
			t.Fatalf("%s: pool settings not applied: %+v", addr, opts)
		}
	}

	opts := redisOptions("redis://:secret@cache:6380/2")
	if opts.Addr != "cache:6380" || opts.DB != 2 || opts.Password != "secret" {
		t.Fatalf("url fields lost: addr=%s db=%d", opts.Addr, opts.DB)
	}
}
