package wp

import (
	"errors"
	"fmt"
)

// Protection table errors.
var (
	// ErrNoMatchingRange indicates a register value that no table entry
	// describes.
	ErrNoMatchingRange = errors.New("no matching protection range")

	// ErrNotFound indicates a region that no table entry produces.
	ErrNotFound = errors.New("protection region not found")

	// ErrInvalidRange indicates a malformed table entry.
	ErrInvalidRange = errors.New("invalid protection range")

	// ErrRollbackFailed indicates that the protect bits could not be
	// cleared after a failed write.
	ErrRollbackFailed = errors.New("protection rollback failed")
)

// RangeError describes a malformed table entry.
type RangeError struct {
	SRVal  uint32
	Reason string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("protection range 0x%04X: %s", e.SRVal, e.Reason)
}

// Is reports ErrInvalidRange as a match.
func (e *RangeError) Is(target error) bool {
	return target == ErrInvalidRange
}
