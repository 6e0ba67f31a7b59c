package domain

import "errors"

var (
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrMissingPaymentFields = errors.New("missing payment fields")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidPaymentState  = errors.New("invalid payment state")
	ErrCheckoutFailed       = errors.New("checkout failed")
	ErrNotAuthorized        = errors.New("not authorized")
	ErrNotFound             = errors.New("not found")
)
