package backend

import (
	"context"
	"fmt"
	"io"
	"log"

	"rocketshoes-cart/internal/config"
	"rocketshoes-cart/internal/db"
	"rocketshoes-cart/internal/inventory"
	"rocketshoes-cart/internal/repository/cartstate"
	"rocketshoes-cart/internal/repository/product"
	cartsvc "rocketshoes-cart/internal/service/cart"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreRedis    = "redis"

	InventoryHTTP     = "http"
	InventoryPostgres = "postgres"
)

// Backends holds the cart state sink and the inventory source selected by
// configuration.
type Backends struct {
	CartState cartstate.Repository
	Inventory cartsvc.Inventory

	pool    *pgxpool.Pool
	closers []func()
}

// Open builds the configured backends. A PostgreSQL pool is only opened when
// one of them needs it.
func Open(ctx context.Context, cfg config.Config, logger *log.Logger) (*Backends, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	b := &Backends{}

	needsDB := cfg.CartStore == StorePostgres || cfg.InventorySource == InventoryPostgres
	if needsDB {
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			return nil, fmt.Errorf("connect db: %w", err)
		}
		b.pool = pool
		b.closers = append(b.closers, pool.Close)
	}

	state, err := b.openCartState(ctx, cfg, logger)
	if err != nil {
		b.Close()
		return nil, err
	}
	b.CartState = state

	inv, err := b.openInventory(cfg, logger)
	if err != nil {
		b.Close()
		return nil, err
	}
	b.Inventory = inv

	logger.Printf("backend: cart_store=%s inventory=%s", cfg.CartStore, cfg.InventorySource)
	return b, nil
}

func (b *Backends) openCartState(ctx context.Context, cfg config.Config, logger *log.Logger) (cartstate.Repository, error) {
	switch cfg.CartStore {
	case StoreMemory:
		return cartstate.NewMemory(), nil
	case StoreFile:
		return cartstate.NewFile(cfg.CartDir)
	case StorePostgres:
		return cartstate.NewPostgres(b.pool, logger), nil
	case StoreRedis:
		r := cartstate.NewRedis(cfg.RedisAddr, logger)
		if err := r.Initialize(ctx); err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("redis %s: %w", cfg.RedisAddr, err)
		}
		b.closers = append(b.closers, func() { _ = r.Close() })
		return r, nil
	default:
		return nil, fmt.Errorf("unknown CART_STORE %q", cfg.CartStore)
	}
}

func (b *Backends) openInventory(cfg config.Config, logger *log.Logger) (cartsvc.Inventory, error) {
	switch cfg.InventorySource {
	case InventoryHTTP:
		return inventory.NewClient(cfg.InventoryURL, cfg.InventoryTimeout), nil
	case InventoryPostgres:
		return product.NewPostgres(b.pool, logger), nil
	default:
		return nil, fmt.Errorf("unknown INVENTORY_SOURCE %q", cfg.InventorySource)
	}
}

// Close releases connections in reverse order of opening.
func (b *Backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}
