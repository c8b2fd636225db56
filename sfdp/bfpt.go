package sfdp

import (
	"fmt"

	"github.com/moffa90/go-spinor/spimem"
)

// BFPT dword indexes (0-based; JESD216 numbers them from 1).
const (
	DwordFastRead  = 0
	DwordDensity   = 1
	DwordEraseType = 7
)

// AddressBytes is the address mode field of BFPT dword 1.
type AddressBytes uint8

// Address modes.
const (
	Addr3B     AddressBytes = 0 // 3-byte only
	Addr3Or4B  AddressBytes = 1 // 3-byte by default, 4-byte switchable
	Addr4BOnly AddressBytes = 2
)

func (a AddressBytes) String() string {
	switch a {
	case Addr3B:
		return "3B"
	case Addr3Or4B:
		return "3B/4B"
	case Addr4BOnly:
		return "4B"
	default:
		return fmt.Sprintf("AddressBytes(%d)", uint8(a))
	}
}

// EraseType is one of the four BFPT erase types.
type EraseType struct {
	Size   uint32
	Opcode uint8
}

// BFPT is the basic flash parameter table.
type BFPT struct {
	MinorRev uint8
	MajorRev uint8
	Dwords   []uint32
}

// Dword returns dword n (0-based).
func (b *BFPT) Dword(n int) (uint32, error) {
	if n < 0 || n >= len(b.Dwords) {
		return 0, fmt.Errorf("bfpt dword %d: %w", n+1, ErrOutOfRange)
	}
	return b.Dwords[n], nil
}

// Size returns the chip size in bytes.
func (b *BFPT) Size() (uint64, error) {
	d, err := b.Dword(DwordDensity)
	if err != nil {
		return 0, err
	}
	if d&0x80000000 == 0 {
		return (uint64(d) + 1) / 8, nil
	}
	n := d & 0x7FFFFFFF
	if n < 3 || n > 63 {
		return 0, fmt.Errorf("bfpt density 2^%d bits: %w", n, ErrOutOfRange)
	}
	return uint64(1) << (n - 3), nil
}

// Erase4KOpcode returns the 4 KiB erase opcode, if the chip has one.
func (b *BFPT) Erase4KOpcode() (uint8, bool) {
	d, err := b.Dword(DwordFastRead)
	if err != nil || d&0x3 != 0x1 {
		return 0, false
	}
	op := uint8(d >> 8)
	return op, op != 0xFF
}

// AddressBytes returns the address mode field.
func (b *BFPT) AddressBytes() AddressBytes {
	d, _ := b.Dword(DwordFastRead)
	return AddressBytes((d >> 17) & 0x3)
}

// SupportsIO reports whether the chip declares the fast read class io.
// 1-1-1 is always supported. 2-2-2 and 4-4-4 are not decoded.
func (b *BFPT) SupportsIO(io spimem.IO) bool {
	d, _ := b.Dword(DwordFastRead)
	switch io {
	case spimem.IO111:
		return true
	case spimem.IO112:
		return d&(1<<16) != 0
	case spimem.IO122:
		return d&(1<<20) != 0
	case spimem.IO144:
		return d&(1<<21) != 0
	case spimem.IO114:
		return d&(1<<22) != 0
	}
	return false
}

// EraseTypes returns the four erase types of dwords 8 and 9. Unused types
// have Size 0.
func (b *BFPT) EraseTypes() [4]EraseType {
	var out [4]EraseType
	for i := range out {
		d, err := b.Dword(DwordEraseType + i/2)
		if err != nil {
			break
		}
		v := d >> (16 * uint(i%2))
		n := uint8(v)
		if n == 0 {
			continue
		}
		out[i] = EraseType{Size: 1 << n, Opcode: uint8(v >> 8)}
	}
	return out
}

// VolatileSR decodes dword 1 bits 3 and 4: whether the block protect bits
// are volatile, and if so whether volatile status register writes are
// enabled by 0x50 rather than 0x06.
func (b *BFPT) VolatileSR() (volatile, wren50h bool) {
	d, _ := b.Dword(DwordFastRead)
	volatile = d&(1<<3) != 0
	return volatile, volatile && d&(1<<4) == 0
}
