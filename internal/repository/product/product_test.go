package product

import (
	"context"
	"errors"
	"os"
	"testing"

	"rocketshoes-cart/internal/domain"
	"rocketshoes-cart/internal/migrate"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestPostgres_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	_, err := repo.Upsert(ctx, domain.Product{ID: 1, Title: "Tênis de Caminhada", Price: 179.9, Image: "a.jpg"}, 3)
	if err != nil {
		t.Fatalf("Upsert insert: %v", err)
	}
	_, err = repo.Upsert(ctx, domain.Product{ID: 1, Title: "Tênis de Caminhada Leve", Price: 139.9, Image: "b.jpg"}, 5)
	if err != nil {
		t.Fatalf("Upsert update: %v", err)
	}

	got, err := repo.GetProduct(ctx, 1)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if got.Title != "Tênis de Caminhada Leve" || got.Price != 139.9 || got.Image != "b.jpg" {
		t.Fatalf("unexpected product %+v", got)
	}

	stock, err := repo.GetStock(ctx, 1)
	if err != nil {
		t.Fatalf("GetStock: %v", err)
	}
	if stock.Amount != 5 {
		t.Fatalf("unexpected stock %+v", stock)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 product, got %d", len(list))
	}
}

func TestPostgres_NotFound(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	if _, err := repo.GetProduct(ctx, 42); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found product, got %v", err)
	}
	if _, err := repo.GetStock(ctx, 42); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found stock, got %v", err)
	}
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

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE stock, products, cart_snapshots RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}
