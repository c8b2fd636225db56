package part

import "errors"

var (
	// ErrPartNotFound indicates that no catalog entry matches an ID or a
	// name, or that a reprobe target does not exist.
	ErrPartNotFound = errors.New("part not found")

	// ErrReprobeLimit indicates a chain of reprobes deeper than allowed.
	ErrReprobeLimit = errors.New("reprobe limit reached")
)
