package cartstate

import (
	"context"
	"errors"
	"os"
	"testing"

	"rocketshoes-cart/internal/domain"
	"rocketshoes-cart/internal/migrate"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestPostgres_SetAndGet(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE cart_snapshots`); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	repo := NewPostgres(pool, nil)
	if _, err := repo.Get(ctx, "@RocketShoes:cart:s1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	first := []byte(`{"version":1,"items":[]}`)
	second := []byte(`{"version":1,"items":[{"id":1,"title":"T","price":1,"image":"","amount":2}]}`)
	for _, payload := range [][]byte{first, second} {
		if err := repo.Set(ctx, "@RocketShoes:cart:s1", payload); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}

	got, err := repo.Get(ctx, "@RocketShoes:cart:s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	assertSameJSON(t, second, got)
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}
