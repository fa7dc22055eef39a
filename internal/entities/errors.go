package entities

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrConflict       = errors.New("already exists")
	ErrPersistence    = errors.New("persistence failure")
	ErrDelivery       = errors.New("delivery failure")
	ErrMalformedEvent = errors.New("malformed event")
)
