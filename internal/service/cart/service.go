package cart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"rocketshoes-cart/internal/domain"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	opAdd    = "add"
	opRemove = "remove"
	opUpdate = "update"

	outcomeOK            = "ok"
	outcomeOutOfStock    = "out_of_stock"
	outcomeNotFound      = "not_found"
	outcomeInvalidAmount = "invalid_amount"
	outcomeError         = "error"
)

var tracer = otel.Tracer("rocketshoes-cart/service/cart")

// Inventory answers stock and product lookups. Both calls may fail; a missing
// product is reported as domain.ErrNotFound.
type Inventory interface {
	GetStock(ctx context.Context, productID int) (domain.Stock, error)
	GetProduct(ctx context.Context, productID int) (domain.Product, error)
}

// Sink persists serialized carts under a key. Get returns domain.ErrNotFound
// when nothing was stored yet.
type Sink interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, payload []byte) error
}

// Notifier receives human-readable failure messages. It must not block.
type Notifier interface {
	NotifyError(ctx context.Context, message string)
}

type Metrics interface {
	ObserveMutation(op, outcome string)
}

// Deps groups the collaborators of a Store. Inventory and Sink are required.
type Deps struct {
	Inventory Inventory
	Sink      Sink
	Notifier  Notifier
	Messages  Messages
	Logger    *log.Logger
	Metrics   Metrics
}

// UpdateProductAmount is the input of Store.UpdateProductAmount.
type UpdateProductAmount struct {
	ProductID int `json:"productId"`
	Amount    int `json:"amount"`
}

// Store owns one cart. Mutations are serialized: each one runs its whole
// read-validate-commit-persist sequence under mu, so concurrent callers never
// overwrite each other's result.
type Store struct {
	key       string
	inventory Inventory
	sink      Sink
	notifier  Notifier
	messages  Messages
	logger    *log.Logger
	metrics   Metrics

	mu      sync.Mutex
	stateMu sync.RWMutex
	cart    domain.Cart

	obsMu     sync.Mutex
	observers map[int]func(domain.Cart)
	nextObs   int
}

// Open builds a Store for key and loads its persisted cart. A missing,
// unreadable or unsupported snapshot yields an empty cart.
func Open(ctx context.Context, key string, deps Deps) *Store {
	s := newStore(key, deps)
	c, err := s.load(ctx)
	if err != nil {
		s.logger.Printf("cart: load key=%s error=%v, starting empty", s.key, err)
		c = domain.Cart{}
	}
	s.cart = c
	return s
}

// Load is Open without the read-error fallback: when the sink fails for any
// reason other than a missing key, no Store is returned. A snapshot that
// cannot be decoded still yields an empty cart.
func Load(ctx context.Context, key string, deps Deps) (*Store, error) {
	s := newStore(key, deps)
	c, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.cart = c
	return s, nil
}

func newStore(key string, deps Deps) *Store {
	s := &Store{
		key:       key,
		inventory: deps.Inventory,
		sink:      deps.Sink,
		notifier:  deps.Notifier,
		messages:  deps.Messages,
		logger:    deps.Logger,
		metrics:   deps.Metrics,
		observers: make(map[int]func(domain.Cart)),
	}
	if s.notifier == nil {
		s.notifier = nopNotifier{}
	}
	if s.messages == (Messages{}) {
		s.messages = EnglishMessages
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard, "", 0)
	}
	if s.metrics == nil {
		s.metrics = nopMetrics{}
	}
	return s
}

// load returns an error only when the sink could not be read.
func (s *Store) load(ctx context.Context) (domain.Cart, error) {
	raw, err := s.sink.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Cart{}, nil
		}
		return nil, fmt.Errorf("load cart %s: %w", s.key, err)
	}
	c, err := Decode(raw)
	if err != nil {
		s.logger.Printf("cart: decode key=%s error=%v, starting empty", s.key, err)
		return domain.Cart{}, nil
	}
	s.logger.Printf("cart: loaded key=%s items=%d", s.key, len(c))
	return c, nil
}

// Key returns the persistence key of the cart.
func (s *Store) Key() string {
	return s.key
}

// Cart returns a copy of the current cart.
func (s *Store) Cart() domain.Cart {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.cart.Clone()
}

// Subscribe registers fn to receive a copy of the cart after every committed
// mutation. Observers run synchronously on the mutating goroutine and must not
// start another mutation on the same Store.
func (s *Store) Subscribe(fn func(domain.Cart)) (unsubscribe func()) {
	s.obsMu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}

// AddProduct adds one unit of productID, creating the line on first add.
func (s *Store) AddProduct(ctx context.Context, productID int) error {
	ctx, span := tracer.Start(ctx, "cart.AddProduct", trace.WithAttributes(attribute.Int("product.id", productID)))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.Cart()
	idx := working.Index(productID)

	stock, err := s.inventory.GetStock(ctx, productID)
	if err != nil {
		return s.fail(ctx, span, opAdd, s.messages.AddFailed, fmt.Errorf("get stock for product %d: %w", productID, err))
	}

	requested := 1
	if idx >= 0 {
		requested = working[idx].Amount + 1
	}
	if requested > stock.Amount {
		return s.fail(ctx, span, opAdd, s.messages.OutOfStock,
			fmt.Errorf("product %d: requested %d, stock %d: %w", productID, requested, stock.Amount, domain.ErrOutOfStock))
	}

	if idx >= 0 {
		working[idx].Amount = requested
	} else {
		product, err := s.inventory.GetProduct(ctx, productID)
		if err != nil {
			return s.fail(ctx, span, opAdd, s.messages.AddFailed, fmt.Errorf("get product %d: %w", productID, err))
		}
		// the line is keyed by the requested id, whatever the catalog echoes back
		product.ID = productID
		working = append(working, domain.LineItem{Product: product, Amount: 1})
	}

	return s.commit(ctx, span, opAdd, s.messages.AddFailed, working)
}

// RemoveProduct deletes the line for productID.
func (s *Store) RemoveProduct(ctx context.Context, productID int) error {
	ctx, span := tracer.Start(ctx, "cart.RemoveProduct", trace.WithAttributes(attribute.Int("product.id", productID)))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.Cart()
	idx := working.Index(productID)
	if idx < 0 {
		return s.fail(ctx, span, opRemove, s.messages.RemoveFailed, fmt.Errorf("remove product %d: %w", productID, domain.ErrNotFound))
	}
	working = append(working[:idx], working[idx+1:]...)

	return s.commit(ctx, span, opRemove, s.messages.RemoveFailed, working)
}

// UpdateProductAmount sets the amount of an existing line.
func (s *Store) UpdateProductAmount(ctx context.Context, in UpdateProductAmount) error {
	ctx, span := tracer.Start(ctx, "cart.UpdateProductAmount", trace.WithAttributes(
		attribute.Int("product.id", in.ProductID),
		attribute.Int("product.amount", in.Amount),
	))
	defer span.End()

	if in.Amount <= 0 {
		return s.fail(ctx, span, opUpdate, s.messages.UpdateFailed,
			fmt.Errorf("product %d amount %d: %w", in.ProductID, in.Amount, domain.ErrInvalidAmount))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.Cart()
	idx := working.Index(in.ProductID)
	if idx < 0 {
		return s.fail(ctx, span, opUpdate, s.messages.UpdateFailed, fmt.Errorf("update product %d: %w", in.ProductID, domain.ErrNotFound))
	}

	stock, err := s.inventory.GetStock(ctx, in.ProductID)
	if err != nil {
		return s.fail(ctx, span, opUpdate, s.messages.UpdateFailed, fmt.Errorf("get stock for product %d: %w", in.ProductID, err))
	}
	if stock.Amount < in.Amount {
		return s.fail(ctx, span, opUpdate, s.messages.OutOfStock,
			fmt.Errorf("product %d: requested %d, stock %d: %w", in.ProductID, in.Amount, stock.Amount, domain.ErrOutOfStock))
	}

	working[idx].Amount = in.Amount

	return s.commit(ctx, span, opUpdate, s.messages.UpdateFailed, working)
}

// commit installs next as the current cart and writes it to the sink. The
// in-memory state is kept even when the write fails.
func (s *Store) commit(ctx context.Context, span trace.Span, op, failMessage string, next domain.Cart) error {
	s.stateMu.Lock()
	s.cart = next
	s.stateMu.Unlock()

	s.publish(next)

	payload, err := Encode(next)
	if err == nil {
		err = s.sink.Set(ctx, s.key, payload)
	}
	if err != nil {
		return s.fail(ctx, span, op, failMessage, fmt.Errorf("persist cart %s: %w", s.key, err))
	}

	s.logger.Printf("cart: %s key=%s items=%d units=%d", op, s.key, next.Size(), next.Units())
	s.metrics.ObserveMutation(op, outcomeOK)
	return nil
}

func (s *Store) fail(ctx context.Context, span trace.Span, op, message string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.logger.Printf("cart: %s key=%s error=%v", op, s.key, err)
	s.notifier.NotifyError(ctx, message)
	s.metrics.ObserveMutation(op, outcomeOf(err))
	return err
}

func (s *Store) publish(c domain.Cart) {
	s.obsMu.Lock()
	fns := make([]func(domain.Cart), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.obsMu.Unlock()

	for _, fn := range fns {
		fn(c.Clone())
	}
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrOutOfStock):
		return outcomeOutOfStock
	case errors.Is(err, domain.ErrNotFound):
		return outcomeNotFound
	case errors.Is(err, domain.ErrInvalidAmount):
		return outcomeInvalidAmount
	default:
		return outcomeError
	}
}

type nopNotifier struct{}

func (nopNotifier) NotifyError(context.Context, string) {}

type nopMetrics struct{}

func (nopMetrics) ObserveMutation(string, string) {}
