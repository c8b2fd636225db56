// Package regs reads and writes SPI-NOR status and configuration registers
// through one uniform contract, whatever their physical layout.
//
// A logical register is described by an Access: a kind, up to four wire
// descriptors and a few flags. A Normal access is one register behind one
// read/write opcode pair. A ReadManyWriteOnce access reads several physical
// registers independently and stacks them into one value (descriptor 0 in
// the low bits) but writes them all through descriptor 0's write opcode:
//
//	// SR1 (0x05) + SR2 (0x35), written together by 0x01
//	v, err := regs.Read(bus, regs.SRCR)
//	err = regs.Update(bus, regs.SRCR, 0x407c, 0x0020, false)
//
// The layer makes one attempt per operation. Callers that must know the
// device accepted a value use UpdateVerify, which reads back and compares.
package regs

import (
	"fmt"

	"github.com/moffa90/go-spinor/spimem"
)

// Kind selects how the descriptors of an Access are combined.
type Kind uint8

// Access kinds.
const (
	// Normal is one logical register behind one opcode pair.
	Normal Kind = iota

	// ReadManyWriteOnce reads each descriptor separately and writes the
	// combined value through descriptor 0.
	ReadManyWriteOnce
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Normal:
		return "normal"
	case ReadManyWriteOnce:
		return "read-many-write-once"
	default:
		return "unknown"
	}
}

// Flags modify how an Access is driven.
type Flags uint32

// Access flags.
const (
	// NoWriteEnable skips the write enable opcode before writes.
	NoWriteEnable Flags = 1 << iota

	// BigEndian decodes multi-byte data phases most significant byte first.
	// The default puts byte 0 in the low bits.
	BigEndian

	// VolatileWriteEnable issues 0x50 instead of 0x06 before volatile writes.
	VolatileWriteEnable

	// SRWriteOpcode writes through the canonical 0x01 status register write
	// opcode instead of the descriptor's own write opcode.
	SRWriteOpcode
)

// MaxDescs is the maximum number of descriptors of an Access.
const MaxDescs = 4

// Descriptor describes one physical register on the wire.
type Descriptor struct {
	// ReadOpcode reads the register
	ReadOpcode uint8

	// WriteOpcode writes the register
	WriteOpcode uint8

	// VolatileWriteOpcode, if non-zero, writes the register's volatile copy
	VolatileWriteOpcode uint8

	// AddrLen is the address phase length (0 for legacy registers)
	AddrLen uint8

	// Addr is the register address for address-mapped registers
	Addr uint32

	// ReadDummy is the number of dummy cycles after the read address
	ReadDummy uint8

	// WriteDummy is the number of dummy cycles after the write address
	WriteDummy uint8

	// Width is the data width in bytes (1-4)
	Width uint8
}

// Access is a logical register made of one or more descriptors.
type Access struct {
	// Name is used in errors and logs
	Name string

	Kind  Kind
	Descs []Descriptor
	Flags Flags
}

// Width returns the logical register width in bytes.
func (a *Access) Width() int {
	if a.Kind == ReadManyWriteOnce {
		n := 0
		for _, d := range a.Descs {
			n += int(descWidth(d))
		}
		return n
	}
	if len(a.Descs) == 0 {
		return 0
	}
	return int(descWidth(a.Descs[0]))
}

// Mask returns a mask covering all bits of the logical register.
func (a *Access) Mask() uint32 {
	w := a.Width()
	if w >= 4 {
		return 0xFFFFFFFF
	}
	return uint32(1)<<(8*uint(w)) - 1
}

// Validate checks descriptor count and widths.
func (a *Access) Validate() error {
	if a == nil {
		return spimem.ErrInvalidParameter
	}
	if len(a.Descs) == 0 || len(a.Descs) > MaxDescs {
		return fmt.Errorf("register %s: %d descriptors: %w", a.Name, len(a.Descs), spimem.ErrInvalidParameter)
	}
	if a.Kind == Normal && len(a.Descs) != 1 {
		return fmt.Errorf("register %s: normal access with %d descriptors: %w", a.Name, len(a.Descs), spimem.ErrInvalidParameter)
	}
	for i, d := range a.Descs {
		if d.Width > 4 || d.AddrLen > spimem.MaxAddrLen {
			return fmt.Errorf("register %s: descriptor %d: %w", a.Name, i, spimem.ErrInvalidParameter)
		}
	}
	if a.Width() > 4 {
		return fmt.Errorf("register %s: %d bytes wide: %w", a.Name, a.Width(), spimem.ErrInvalidParameter)
	}
	return nil
}

func (a *Access) String() string {
	if a == nil {
		return "<nil>"
	}
	if a.Name != "" {
		return a.Name
	}
	if len(a.Descs) > 0 {
		return fmt.Sprintf("reg 0x%02X", a.Descs[0].ReadOpcode)
	}
	return "reg"
}

func descWidth(d Descriptor) uint8 {
	if d.Width == 0 {
		return 1
	}
	return d.Width
}
