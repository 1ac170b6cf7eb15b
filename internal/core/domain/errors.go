package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("session expired")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrDuplicateBarcode   = errors.New("barcode already in use")
	ErrDuplicateReceipt   = errors.New("receipt number already in use")
	ErrForbidden          = errors.New("forbidden")
)
