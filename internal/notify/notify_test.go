package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestRecorderDrain(t *testing.T) {
	r := NewRecorder(2)
	r.NotifyError(context.Background(), "a")
	r.NotifyError(context.Background(), "b")
	r.NotifyError(context.Background(), "c")

	if got := r.Drain(); !cmp.Equal(got, []string{"b", "c"}) {
		t.Fatalf("unexpected messages: %s", cmp.Diff([]string{"b", "c"}, got))
	}
	if got := r.Drain(); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice after drain, got %#v", got)
	}
}

func TestRecorderConcurrent(t *testing.T) {
	r := NewRecorder(100)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.NotifyError(context.Background(), "x")
		}()
	}
	wg.Wait()
	if r.Len() != 50 {
		t.Fatalf("expected 50 messages, got %d", r.Len())
	}
}

func TestMultiAndFunc(t *testing.T) {
	var got []string
	rec := NewRecorder(0)
	var buf bytes.Buffer
	m := NewMulti(rec, nil, NewLogger(log.New(&buf, "", 0)), Func(func(_ context.Context, msg string) {
		got = append(got, msg)
	}))
	if len(m) != 3 {
		t.Fatalf("nil notifier should be skipped, got %d targets", len(m))
	}

	m.NotifyError(context.Background(), "Requested quantity out of stock")

	if rec.Len() != 1 || len(got) != 1 {
		t.Fatalf("message not fanned out: recorder=%d func=%d", rec.Len(), len(got))
	}
	if !strings.Contains(buf.String(), "notify: Requested quantity out of stock") {
		t.Fatalf("unexpected log output %q", buf.String())
	}
}

type stubPublisher struct {
	subject string
	data    []byte
	err     error
}

func (p *stubPublisher) Publish(subject string, data []byte) error {
	p.subject = subject
	p.data = data
	return p.err
}

func TestStanPublishesEvent(t *testing.T) {
	pub := &stubPublisher{}
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	n := newStan(pub, "cart.notifications", nil)
	n.now = func() time.Time { return at }

	n.WithKey("@RocketShoes:cart:abc").NotifyError(context.Background(), "Error adding product")

	if pub.subject != "cart.notifications" {
		t.Fatalf("unexpected subject %q", pub.subject)
	}
	var ev Event
	if err := json.Unmarshal(pub.data, &ev); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	want := Event{Key: "@RocketShoes:cart:abc", Message: "Error adding product", At: at}
	if !cmp.Equal(ev, want) {
		t.Fatalf("unexpected event: %s", cmp.Diff(want, ev))
	}
}

func TestStanPublishErrorIsLogged(t *testing.T) {
	var buf bytes.Buffer
	n := newStan(&stubPublisher{err: errors.New("nats down")}, "s", log.New(&buf, "", 0))

	n.NotifyError(context.Background(), "x")

	if !strings.Contains(buf.String(), "nats down") {
		t.Fatalf("expected publish error in log, got %q", buf.String())
	}
	if err := n.Close(); err != nil {
		t.Fatalf("close without connection: %v", err)
	}
}
