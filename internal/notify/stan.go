package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	stan "github.com/nats-io/stan.go"
)

// Event is the payload published for every cart failure message.
type Event struct {
	Key     string    `json:"key,omitempty"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

type publisher interface {
	Publish(subject string, data []byte) error
}

// Stan publishes cart failure messages to a NATS Streaming subject.
type Stan struct {
	conn    publisher
	closer  io.Closer
	subject string
	key     string
	logger  *log.Logger
	now     func() time.Time
}

// StanConfig describes the streaming connection.
type StanConfig struct {
	URL       string
	ClusterID string
	ClientID  string
	Subject   string
}

// DialStan connects to the streaming cluster.
func DialStan(cfg StanConfig, logger *log.Logger) (*Stan, error) {
	sc, err := stan.Connect(cfg.ClusterID, cfg.ClientID,
		stan.NatsURL(cfg.URL),
		stan.SetConnectionLostHandler(func(_ stan.Conn, reason error) {
			if logger != nil {
				logger.Printf("notify stan: connection lost: %v", reason)
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("stan connect %s: %w", cfg.URL, err)
	}
	n := newStan(sc, cfg.Subject, logger)
	n.closer = closerFunc(sc.Close)
	return n, nil
}

func newStan(conn publisher, subject string, logger *log.Logger) *Stan {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Stan{conn: conn, subject: subject, logger: logger, now: time.Now}
}

// WithKey returns a notifier sharing the connection that tags events with key.
func (s *Stan) WithKey(key string) *Stan {
	cp := *s
	cp.key = key
	cp.closer = nil
	return &cp
}

func (s *Stan) NotifyError(_ context.Context, message string) {
	payload, err := json.Marshal(Event{Key: s.key, Message: message, At: s.now().UTC()})
	if err != nil {
		s.logger.Printf("notify stan: marshal error=%v", err)
		return
	}
	if err := s.conn.Publish(s.subject, payload); err != nil {
		s.logger.Printf("notify stan: publish subject=%s error=%v", s.subject, err)
	}
}

func (s *Stan) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
