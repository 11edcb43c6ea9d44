package cartstate

import "context"

// Repository stores serialized carts by key. Get returns domain.ErrNotFound
// when the key was never written.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, payload []byte) error
	Ping(ctx context.Context) error
}
