package board

import "errors"

var (
	ErrInvalidReference    = errors.New("invalid item reference")
	ErrUnknownItemType     = errors.New("unknown item type")
	ErrInvalidItem         = errors.New("invalid item")
	ErrInvalidDimensions   = errors.New("invalid item dimensions")
	ErrImmutableDimensions = errors.New("item dimensions are immutable")
	ErrDuplicateID         = errors.New("duplicate item id")
)
