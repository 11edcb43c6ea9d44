package product

import (
	"context"
	"fmt"

	"rocketshoes-cart/internal/domain"
	productrepo "rocketshoes-cart/internal/repository/product"
)

// Service is the read side of the catalog served by the inventory API.
type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetProduct(ctx context.Context, id int) (domain.Product, error) {
	if id <= 0 {
		return domain.Product{}, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
	}
	return s.repo.GetProduct(ctx, id)
}

// GetStock never reports a negative amount.
func (s *Service) GetStock(ctx context.Context, id int) (domain.Stock, error) {
	if id <= 0 {
		return domain.Stock{}, fmt.Errorf("stock %d: %w", id, domain.ErrNotFound)
	}
	stock, err := s.repo.GetStock(ctx, id)
	if err != nil {
		return domain.Stock{}, err
	}
	if stock.Amount < 0 {
		stock.Amount = 0
	}
	return stock, nil
}
