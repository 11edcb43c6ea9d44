package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrOutOfStock indicates the requested quantity exceeds the available stock.
	ErrOutOfStock = errors.New("requested quantity out of stock")
	// ErrInvalidAmount indicates a quantity below one.
	ErrInvalidAmount = errors.New("invalid amount")
)
