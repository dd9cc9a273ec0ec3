package errors

import "errors"

// Cart errors are user feedback, not failures: the cart is left unchanged.
var (
	ErrDuplicateItem      = errors.New("this product version is already in your cart")
	ErrItemNotFound       = errors.New("item is not in your cart")
	ErrPeriodNotFound     = errors.New("subscription period not offered for this item")
	ErrProductUnavailable = errors.New("product is not available")
)
