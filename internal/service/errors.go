package service

import "errors"

// Sentinel errors the handlers map to HTTP statuses. Anything else that
// escapes a service is a persistence failure and surfaces as a generic
// server error.
var (
	ErrValidation         = errors.New("invalid request")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrMobileTaken        = errors.New("mobile number already registered")
	// ErrPriceChanged rejects a placement whose submitted price no longer
	// matches the catalog price.
	ErrPriceChanged = errors.New("product price has changed")
)
