package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"rocketshoes-cart/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	const q = `
SELECT id, title, price::float8, image
FROM products
ORDER BY id ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	result := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Title, &p.Price, &p.Image); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	r.logger.Printf("product repo: list count=%d", len(result))
	return result, nil
}

func (r *postgresRepo) GetProduct(ctx context.Context, id int) (domain.Product, error) {
	const q = `
SELECT id, title, price::float8, image
FROM products
WHERE id = $1
`
	var p domain.Product
	err := r.pool.QueryRow(ctx, q, id).Scan(&p.ID, &p.Title, &p.Price, &p.Image)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("product repo: get id=%d not found", id)
			return domain.Product{}, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%d error=%v", id, err)
		return domain.Product{}, err
	}
	return p, nil
}

func (r *postgresRepo) GetStock(ctx context.Context, id int) (domain.Stock, error) {
	const q = `
SELECT product_id, amount
FROM stock
WHERE product_id = $1
`
	var s domain.Stock
	err := r.pool.QueryRow(ctx, q, id).Scan(&s.ProductID, &s.Amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("product repo: stock id=%d not found", id)
			return domain.Stock{}, domain.ErrNotFound
		}
		r.logger.Printf("product repo: stock id=%d error=%v", id, err)
		return domain.Stock{}, err
	}
	return s, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product, stock int) (*domain.Product, error) {
	if product.ID <= 0 {
		return nil, fmt.Errorf("product repo: id required for title=%q", product.Title)
	}
	if stock < 0 {
		return nil, fmt.Errorf("product repo: negative stock %d for id=%d", stock, product.ID)
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
INSERT INTO products (id, title, price, image)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET
    title = EXCLUDED.title,
    price = EXCLUDED.price,
    image = EXCLUDED.image
`, product.ID, product.Title, product.Price, product.Image); err != nil {
		r.logger.Printf("product repo: upsert id=%d error=%v", product.ID, err)
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO stock (product_id, amount, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (product_id) DO UPDATE SET
    amount = EXCLUDED.amount,
    updated_at = now()
`, product.ID, stock); err != nil {
		r.logger.Printf("product repo: upsert stock id=%d error=%v", product.ID, err)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("product repo: upserted id=%d stock=%d", product.ID, stock)
	res := product
	return &res, nil
}
