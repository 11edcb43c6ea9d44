package cart

import (
	"errors"
	"testing"

	"rocketshoes-cart/internal/domain"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeLegacyArray(t *testing.T) {
	raw := []byte(`[{"id":1,"title":"Tênis","price":179.9,"image":"a.jpg","amount":2}]`)
	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := domain.Cart{{Product: domain.Product{ID: 1, Title: "Tênis", Price: 179.9, Image: "a.jpg"}, Amount: 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("decode mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeWritesVersionedEnvelope(t *testing.T) {
	raw, err := Encode(nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(raw) != `{"version":1,"items":[]}` {
		t.Fatalf("unexpected payload %s", raw)
	}
}

func TestDecodeRejectsUntrustedPayloads(t *testing.T) {
	for _, raw := range []string{
		"",
		"   ",
		`"cart"`,
		`{"version":0,"items":[]}`,
		`[{"id":1,"amount":1},{"id":1,"amount":2}]`,
	} {
		if _, err := Decode([]byte(raw)); !errors.Is(err, ErrUnsupportedSnapshot) {
			t.Fatalf("payload %q: expected unsupported snapshot, got %v", raw, err)
		}
	}
}
