package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rocketshoes-cart/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
)

type stubCatalog struct {
	products map[int]domain.Product
	stock    map[int]int
	err      error
}

func (s *stubCatalog) List(context.Context) ([]domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]domain.Product, 0, len(s.products))
	for i := 1; i <= len(s.products); i++ {
		out = append(out, s.products[i])
	}
	return out, nil
}

func (s *stubCatalog) GetProduct(_ context.Context, id int) (domain.Product, error) {
	if s.err != nil {
		return domain.Product{}, s.err
	}
	p, ok := s.products[id]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, nil
}

func (s *stubCatalog) GetStock(_ context.Context, id int) (domain.Stock, error) {
	if s.err != nil {
		return domain.Stock{}, s.err
	}
	amount, ok := s.stock[id]
	if !ok {
		return domain.Stock{}, domain.ErrNotFound
	}
	return domain.Stock{ProductID: id, Amount: amount}, nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.Out = io.Discard
	return l
}

func newCatalog() *stubCatalog {
	return &stubCatalog{
		products: map[int]domain.Product{
			1: {ID: 1, Title: "Tênis de Caminhada Leve Confortável", Price: 179.9, Image: "1.jpg"},
			2: {ID: 2, Title: "Tênis Adidas Duramo Lite 2.0", Price: 219.9, Image: "3.jpg"},
		},
		stock: map[int]int{1: 3, 2: 0},
	}
}

func TestClientAgainstRouter(t *testing.T) {
	catalog := newCatalog()
	srv := httptest.NewServer(NewRouter("inventory-test", catalog, quietLogger()))
	defer srv.Close()
	client := NewClient(srv.URL, time.Second)
	ctx := context.Background()

	product, err := client.GetProduct(ctx, 1)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if !cmp.Equal(product, catalog.products[1]) {
		t.Fatalf("product mismatch: %s", cmp.Diff(catalog.products[1], product))
	}

	stock, err := client.GetStock(ctx, 2)
	if err != nil {
		t.Fatalf("GetStock: %v", err)
	}
	if stock != (domain.Stock{ProductID: 2, Amount: 0}) {
		t.Fatalf("unexpected stock %+v", stock)
	}

	if _, err := client.GetStock(ctx, 7); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListProducts(t *testing.T) {
	router := NewRouter("inventory-test", newCatalog(), quietLogger())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var products []domain.Product
	if err := json.Unmarshal(rec.Body.Bytes(), &products); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(products) != 2 || products[0].ID != 1 {
		t.Fatalf("unexpected products %+v", products)
	}
}

func TestRouterErrors(t *testing.T) {
	catalog := newCatalog()
	catalog.err = errors.New("db down")
	router := NewRouter("inventory-test", catalog, quietLogger())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stock/1", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stock/abc", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for non-numeric id, got %d", rec.Code)
	}
}
