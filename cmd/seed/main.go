package main

import (
	"context"
	"log"
	"os"

	"rocketshoes-cart/internal/config"
	"rocketshoes-cart/internal/db"
	"rocketshoes-cart/internal/repository/product"
	"rocketshoes-cart/internal/seed"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if err := seed.Apply(ctx, product.NewPostgres(pool, logger)); err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Printf("seed applied: %d products", len(seed.Catalog))
}
