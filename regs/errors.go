package regs

import (
	"errors"
	"fmt"
)

// ErrDeviceMismatch indicates that a register did not read back the value
// that was written.
var ErrDeviceMismatch = errors.New("device mismatch")

// DeviceMismatchError reports a register read back that differs from the
// written value under Mask.
type DeviceMismatchError struct {
	Register string
	Mask     uint32
	Wrote    uint32
	Read     uint32
}

func (e *DeviceMismatchError) Error() string {
	return fmt.Sprintf("device mismatch: %s wrote 0x%X, read back 0x%X (mask 0x%X)",
		e.Register, e.Wrote, e.Read, e.Mask)
}

// Is reports ErrDeviceMismatch as a match.
func (e *DeviceMismatchError) Is(target error) bool {
	return target == ErrDeviceMismatch
}
