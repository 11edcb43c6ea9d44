package seed

import (
	"context"
	"fmt"

	"rocketshoes-cart/internal/domain"
)

const imageBase = "https://rocketseat-cdn.s3-sa-east-1.amazonaws.com/modulo-redux/"

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product, stock int) (*domain.Product, error)
}

type productSeed struct {
	Product domain.Product
	Stock   int
}

// Catalog is the demo storefront: six shoes with their stock levels.
var Catalog = []productSeed{
	{domain.Product{ID: 1, Title: "Tênis de Caminhada Leve Confortável", Price: 179.9, Image: imageBase + "tenis1.jpg"}, 3},
	{domain.Product{ID: 2, Title: "Tênis VR Caminhada Confortável Detalhes Couro Masculino", Price: 139.9, Image: imageBase + "tenis2.jpg"}, 5},
	{domain.Product{ID: 3, Title: "Tênis Adidas Duramo Lite 2.0", Price: 219.9, Image: imageBase + "tenis3.jpg"}, 2},
	{domain.Product{ID: 4, Title: "Tênis VR Caminhada Confortável Detalhes Couro Masculino", Price: 139.9, Image: imageBase + "tenis2.jpg"}, 1},
	{domain.Product{ID: 5, Title: "Tênis VR Caminhada Confortável Detalhes Couro Masculino", Price: 139.9, Image: imageBase + "tenis2.jpg"}, 5},
	{domain.Product{ID: 6, Title: "Tênis Adidas Duramo Lite 2.0", Price: 219.9, Image: imageBase + "tenis3.jpg"}, 10},
}

// Apply upserts the demo catalog. It is idempotent.
func Apply(ctx context.Context, repo ProductWriter) error {
	for _, p := range Catalog {
		if _, err := repo.Upsert(ctx, p.Product, p.Stock); err != nil {
			return fmt.Errorf("upsert product %d: %w", p.Product.ID, err)
		}
	}
	return nil
}
