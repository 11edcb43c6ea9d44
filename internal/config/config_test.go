package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("CART_STORE", "")
	t.Setenv("CART_NAMESPACE", "")
	t.Setenv("INVENTORY_TIMEOUT_SECONDS", "")
	cfg := FromEnv()
	if cfg.CartStore != "memory" {
		t.Fatalf("unexpected cart store %q", cfg.CartStore)
	}
	if cfg.CartNamespace != "@RocketShoes:cart" {
		t.Fatalf("unexpected namespace %q", cfg.CartNamespace)
	}
	if cfg.InventoryTimeout != 10*time.Second {
		t.Fatalf("unexpected inventory timeout %s", cfg.InventoryTimeout)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("CART_STORE", "redis")
	t.Setenv("SESSION_TTL_SECONDS", "60")
	t.Setenv("INVENTORY_TIMEOUT_SECONDS", "not-a-number")
	cfg := FromEnv()
	if cfg.CartStore != "redis" {
		t.Fatalf("unexpected cart store %q", cfg.CartStore)
	}
	if cfg.SessionTTL != time.Minute {
		t.Fatalf("unexpected session ttl %s", cfg.SessionTTL)
	}
	if cfg.InventoryTimeout != 10*time.Second {
		t.Fatalf("invalid duration should fall back to default, got %s", cfg.InventoryTimeout)
	}
}

func TestEnvList(t *testing.T) {
	t.Setenv("CORS_ORIGINS", " http://localhost:3000, ,https://shop.example ")
	cfg := FromEnv()
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[0] != "http://localhost:3000" || cfg.AllowedOrigins[1] != "https://shop.example" {
		t.Fatalf("unexpected origins %q", cfg.AllowedOrigins)
	}

	t.Setenv("CORS_ORIGINS", "")
	if got := FromEnv().AllowedOrigins; len(got) != 0 {
		t.Fatalf("expected no origins, got %q", got)
	}
}
