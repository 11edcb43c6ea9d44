package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"rocketshoes-cart/internal/domain"
	"rocketshoes-cart/internal/notify"
	"rocketshoes-cart/internal/service/cart"

	"github.com/google/uuid"
)

var ErrUnknownSession = errors.New("unknown session")

const (
	DefaultTTL  = 24 * time.Hour
	loadTimeout = 10 * time.Second
)

// Options configures a Service. Cart supplies the collaborators shared by
// every session store; its Notifier, if set, receives messages from all
// sessions. Keyed, if set, builds an additional notifier per cart key.
// Observe, if set, is subscribed to every session store.
type Options struct {
	Namespace string
	TTL       time.Duration
	Cart      cart.Deps
	Keyed     func(key string) cart.Notifier
	Observe   func(domain.Cart)
	Logger    *log.Logger
}

type session struct {
	expiresAt time.Time
	recorder  *notify.Recorder

	openMu sync.Mutex
	store  *cart.Store
}

// Service hands out session ids and owns one cart store per session.
type Service struct {
	opts   Options
	logger *log.Logger
	now    func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
}

func New(opts Options) *Service {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		opts:     opts,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// Issue registers a new session and returns its id.
func (s *Service) Issue(ctx context.Context) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("session id: %w", err)
	}
	s.register(id.String())
	s.logger.Printf("session: issued id=%s", id)
	return id.String(), nil
}

// Resume registers a previously issued id again, so a client keeps its
// persisted cart across API restarts. Resuming a live session only refreshes
// its expiry.
func (s *Service) Resume(ctx context.Context, id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("resume %q: %w", id, ErrUnknownSession)
	}
	if _, err := s.lookup(parsed.String()); err == nil {
		return nil
	}
	s.register(parsed.String())
	s.logger.Printf("session: resumed id=%s", parsed)
	return nil
}

func (s *Service) register(id string) {
	s.mu.Lock()
	s.sessions[id] = &session{
		expiresAt: s.now().Add(s.opts.TTL),
		recorder:  notify.NewRecorder(notify.DefaultRecorderSize),
	}
	s.mu.Unlock()
}

// Key returns the persistence key of the cart that belongs to id.
func (s *Service) Key(id string) string {
	return s.opts.Namespace + ":" + id
}

// Store returns the cart store of a live session, loading it on first use.
// A failed load is not cached, so the next call retries it instead of
// serving an empty cart over the persisted one.
func (s *Service) Store(ctx context.Context, id string) (*cart.Store, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	sess.openMu.Lock()
	defer sess.openMu.Unlock()
	if sess.store != nil {
		return sess.store, nil
	}

	key := s.Key(id)
	deps := s.opts.Cart
	targets := []notify.Notifier{sess.recorder}
	if deps.Notifier != nil {
		targets = append(targets, deps.Notifier)
	}
	if s.opts.Keyed != nil {
		targets = append(targets, s.opts.Keyed(key))
	}
	deps.Notifier = notify.NewMulti(targets...)

	// the store outlives the request that opened it
	loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
	defer cancel()
	store, err := cart.Load(loadCtx, key, deps)
	if err != nil {
		s.logger.Printf("session: open id=%s error=%v", id, err)
		return nil, err
	}
	if s.opts.Observe != nil {
		store.Subscribe(s.opts.Observe)
	}
	sess.store = store
	return store, nil
}

// Recorder returns the pending notifications buffer of a live session.
func (s *Service) Recorder(id string) (*notify.Recorder, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return sess.recorder, nil
}

// lookup finds a live session and extends its expiry.
func (s *Service) lookup(id string) (*session, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrUnknownSession
	}
	if now.After(sess.expiresAt) {
		delete(s.sessions, id)
		return nil, ErrUnknownSession
	}
	sess.expiresAt = now.Add(s.opts.TTL)
	return sess, nil
}

// Sweep drops expired sessions and reports how many were removed.
func (s *Service) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Run sweeps expired sessions every interval until ctx is done.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Printf("session: expired count=%d remaining=%d", n, s.Len())
			}
		}
	}
}
