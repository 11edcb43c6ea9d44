package product

import (
	"context"

	"rocketshoes-cart/internal/domain"
)

// Repository is the catalog stored in PostgreSQL: product display data and
// the stock level of each product.
type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int) (domain.Product, error)
	GetStock(ctx context.Context, id int) (domain.Stock, error)
	Upsert(ctx context.Context, product domain.Product, stock int) (*domain.Product, error)
}
