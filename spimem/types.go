package spimem

import "fmt"

// DataDir is the direction of the data phase of an Op.
type DataDir uint8

// Data phase directions.
const (
	DirNone DataDir = iota // no data phase
	DirIn                  // device to host
	DirOut                 // host to device
)

// String returns a human-readable direction name.
func (d DataDir) String() string {
	switch d {
	case DirIn:
		return "in"
	case DirOut:
		return "out"
	default:
		return "none"
	}
}

// Cmd is the opcode phase of an Op.
type Cmd struct {
	// Opcode is the instruction byte
	Opcode uint8

	// Width is the bus width of the opcode phase (1, 2 or 4)
	Width uint8
}

// Addr is the address phase of an Op.
type Addr struct {
	// Len is the number of address bytes (0 = no address phase)
	Len uint8

	// Value is the address, sent most significant byte first
	Value uint32

	// Width is the bus width of the address phase
	Width uint8
}

// Dummy is the dummy-cycle phase of an Op.
type Dummy struct {
	// Cycles is the number of dummy clock cycles
	Cycles uint8

	// Width is the bus width during the dummy phase
	Width uint8
}

// Data is the data phase of an Op.
type Data struct {
	// Dir is the transfer direction
	Dir DataDir

	// Width is the bus width of the data phase
	Width uint8

	// Buf holds the bytes to send (DirOut) or receives them (DirIn)
	Buf []byte
}

// Op is a single chip-select framed SPI memory operation.
type Op struct {
	Cmd   Cmd
	Addr  Addr
	Dummy Dummy
	Data  Data
}

// DummyBytes returns the dummy phase length in bytes at the dummy bus width.
// The second result is false if the cycle count is not byte aligned.
func (op *Op) DummyBytes() (int, bool) {
	if op.Dummy.Cycles == 0 {
		return 0, true
	}
	w := op.Dummy.Width
	if w == 0 {
		w = 1
	}
	bits := int(op.Dummy.Cycles) * int(w)
	return bits / 8, bits%8 == 0
}

// String returns a short description of the op for logs and errors.
func (op *Op) String() string {
	return fmt.Sprintf("op 0x%02X addr=%d/0x%X dummy=%d data=%s/%d",
		op.Cmd.Opcode, op.Addr.Len, op.Addr.Value, op.Dummy.Cycles, op.Data.Dir, len(op.Data.Buf))
}

// NewCmdOp builds an opcode-only 1-1-1 op (write enable, mode switches).
func NewCmdOp(opcode uint8) *Op {
	return &Op{Cmd: Cmd{Opcode: opcode, Width: 1}}
}

// NewRegReadOp builds a 1-1-1 read op with an optional address phase and
// dummy cycles. The result is read into buf.
func NewRegReadOp(opcode uint8, addrLen uint8, addr uint32, dummy uint8, buf []byte) *Op {
	return &Op{
		Cmd:   Cmd{Opcode: opcode, Width: 1},
		Addr:  Addr{Len: addrLen, Value: addr, Width: 1},
		Dummy: Dummy{Cycles: dummy, Width: 1},
		Data:  Data{Dir: DirIn, Width: 1, Buf: buf},
	}
}

// NewRegWriteOp builds a 1-1-1 write op with an optional address phase and
// dummy cycles, sending buf.
func NewRegWriteOp(opcode uint8, addrLen uint8, addr uint32, dummy uint8, buf []byte) *Op {
	return &Op{
		Cmd:   Cmd{Opcode: opcode, Width: 1},
		Addr:  Addr{Len: addrLen, Value: addr, Width: 1},
		Dummy: Dummy{Cycles: dummy, Width: 1},
		Data:  Data{Dir: DirOut, Width: 1, Buf: buf},
	}
}

// Header returns the opcode, address and dummy bytes of a 1-1-1 op as they
// appear on the wire. Dummy bytes are sent as 0xFF.
func (op *Op) Header() []byte {
	n, _ := op.DummyBytes()
	hdr := make([]byte, 0, 1+int(op.Addr.Len)+n)
	hdr = append(hdr, op.Cmd.Opcode)
	for i := int(op.Addr.Len) - 1; i >= 0; i-- {
		hdr = append(hdr, byte(op.Addr.Value>>(8*uint(i))))
	}
	for i := 0; i < n; i++ {
		hdr = append(hdr, 0xFF)
	}
	return hdr
}
