package domain

// LineItem is one product in a cart together with the requested amount.
// It encodes flat: the product fields followed by "amount".
type LineItem struct {
	Product
	Amount int `json:"amount"`
}

// Cart is an insertion-ordered list of line items with unique product ids.
type Cart []LineItem

// Index returns the position of the line for productID, or -1.
func (c Cart) Index(productID int) int {
	for i, item := range c {
		if item.ID == productID {
			return i
		}
	}
	return -1
}

// Clone returns a copy that shares no backing array with c.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

// Size is the number of distinct products.
func (c Cart) Size() int {
	return len(c)
}

func (c Cart) Units() int {
	total := 0
	for _, item := range c {
		total += item.Amount
	}
	return total
}

func (c Cart) Subtotal() float64 {
	var total float64
	for _, item := range c {
		total += item.Price * float64(item.Amount)
	}
	return total
}

// Valid reports whether every amount is positive and product ids are unique.
func (c Cart) Valid() bool {
	seen := make(map[int]struct{}, len(c))
	for _, item := range c {
		if item.Amount < 1 {
			return false
		}
		if _, dup := seen[item.ID]; dup {
			return false
		}
		seen[item.ID] = struct{}{}
	}
	return true
}
