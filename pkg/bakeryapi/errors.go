package bakeryapi

import "errors"

var (
	// ErrInvalidRequest is returned when the request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCartNotFound is returned when the backend knows no cart for the user
	ErrCartNotFound = errors.New("cart not found")

	// ErrItemNotFound is returned when the referenced cart item does not exist
	ErrItemNotFound = errors.New("cart item not found")

	// ErrNetworkError is returned when there's a network communication error
	ErrNetworkError = errors.New("network error")

	// ErrUnauthorized is returned when the API key or user token is rejected
	ErrUnauthorized = errors.New("unauthorized")

	// ErrBackendError is returned for any other backend failure
	ErrBackendError = errors.New("bakery backend error")
)
