package domain

import "errors"

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrQuoteNotFound       = errors.New("quote not found")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInvalidRole         = errors.New("invalid role")
	ErrInvalidName         = errors.New("name is required")
	ErrInvalidStatus       = errors.New("invalid quote status")
	ErrInvalidEstimate     = errors.New("estimated total must not be negative")
	ErrInvalidAvailability = errors.New("invalid availability")
	ErrInvalidCustomer     = errors.New("customer name and email are required")
)

var (
	ErrArchiveDisabled   = errors.New("quote archive is not configured")
	ErrInquiriesDisabled = errors.New("inquiry counter is not configured")
)
