package cart

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"rocketshoes-cart/internal/domain"
)

const snapshotVersion = 1

// ErrUnsupportedSnapshot is returned by Decode for payloads that cannot be
// trusted as a cart.
var ErrUnsupportedSnapshot = errors.New("unsupported cart snapshot")

type snapshot struct {
	Version int         `json:"version"`
	Items   domain.Cart `json:"items"`
}

// Encode serializes c as a versioned snapshot.
func Encode(c domain.Cart) ([]byte, error) {
	if c == nil {
		c = domain.Cart{}
	}
	return json.Marshal(snapshot{Version: snapshotVersion, Items: c})
}

// Decode parses a snapshot written by Encode. A bare JSON array of line items,
// the unversioned layout older storefront builds wrote, is accepted as well.
func Decode(raw []byte) (domain.Cart, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty payload: %w", ErrUnsupportedSnapshot)
	}

	var items domain.Cart
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode legacy cart: %w", err)
		}
	case '{':
		var snap snapshot
		if err := json.Unmarshal(trimmed, &snap); err != nil {
			return nil, fmt.Errorf("decode cart snapshot: %w", err)
		}
		if snap.Version != snapshotVersion {
			return nil, fmt.Errorf("snapshot version %d: %w", snap.Version, ErrUnsupportedSnapshot)
		}
		items = snap.Items
	default:
		return nil, fmt.Errorf("unexpected payload: %w", ErrUnsupportedSnapshot)
	}

	if items == nil {
		items = domain.Cart{}
	}
	if !items.Valid() {
		return nil, fmt.Errorf("invalid line items: %w", ErrUnsupportedSnapshot)
	}
	return items, nil
}
