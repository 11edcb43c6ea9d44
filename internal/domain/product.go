package domain

// Product is the display data the storefront shows for a catalog entry.
type Product struct {
	ID    int     `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

// Stock is the available quantity of a product as reported by the inventory.
type Stock struct {
	ProductID int `json:"id"`
	Amount    int `json:"amount"`
}
