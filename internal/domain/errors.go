package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound         = errors.New("not found")
	ErrUnknownStore     = errors.New("unknown store")
	ErrUnknownAction    = errors.New("unknown basket action")
	ErrEmptyBasket      = errors.New("basket is empty")
	ErrNoStoreSelected  = errors.New("no store selected")
	ErrInvalidAddress   = errors.New("invalid delivery address")
	ErrOrderComplete    = errors.New("order already confirmed")
	ErrAgentUnavailable = errors.New("agent unavailable")
)
