package spimem

import "fmt"

// Transport executes SPI memory operations on an attached chip.
//
// Lock and Unlock implement the bus lock (sync.Locker). Execute does not take
// the lock itself; callers that need several ops to be atomic with respect to
// other users of the bus hold it around the sequence.
type Transport interface {
	// Execute runs op as one chip-select framed transaction. For DirIn ops
	// the data phase is written into op.Data.Buf.
	Execute(op *Op) error

	// Supports reports whether the controller can realize op.
	Supports(op *Op) bool

	// Lock acquires the bus lock.
	Lock()

	// Unlock releases the bus lock.
	Unlock()
}

// ExecuteChecked executes op after checking that the transport supports it.
// An unsupported op returns an error wrapping ErrUnsupported.
func ExecuteChecked(t Transport, op *Op) error {
	if t == nil || op == nil {
		return ErrInvalidParameter
	}
	if !t.Supports(op) {
		return fmt.Errorf("%s: %w", op, ErrUnsupported)
	}
	return t.Execute(op)
}

// ReadID reads n bytes of JEDEC ID using the 0x9F opcode.
func ReadID(t Transport, n int) ([]byte, error) {
	if n <= 0 {
		return nil, ErrInvalidParameter
	}
	id := make([]byte, n)
	if err := ExecuteChecked(t, NewRegReadOp(OpReadID, 0, 0, 0, id)); err != nil {
		return nil, fmt.Errorf("read id: %w", err)
	}
	return id, nil
}

// WriteEnable issues the write enable opcode.
func WriteEnable(t Transport) error {
	return ExecuteChecked(t, NewCmdOp(OpWriteEnable))
}

// SupportsSingle is a Supports helper for controllers that only do 1-1-1
// transfers with byte-aligned dummy phases. maxLen bounds the whole
// transaction in bytes; 0 means unbounded.
func SupportsSingle(op *Op, maxLen int) bool {
	if op == nil {
		return false
	}
	for _, w := range []uint8{op.Cmd.Width, op.Addr.Width, op.Dummy.Width, op.Data.Width} {
		if w > 1 {
			return false
		}
	}
	if op.Addr.Len > MaxAddrLen {
		return false
	}
	n, ok := op.DummyBytes()
	if !ok {
		return false
	}
	if maxLen > 0 && 1+int(op.Addr.Len)+n+len(op.Data.Buf) > maxLen {
		return false
	}
	return true
}
