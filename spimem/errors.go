package spimem

import "errors"

// Transport level errors.
var (
	// ErrInvalidParameter indicates a nil or empty input.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrUnsupported indicates that the transport cannot realize the
	// requested wire operation, or that the chip lacks the feature.
	ErrUnsupported = errors.New("not supported")
)
