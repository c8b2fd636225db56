package part

import "github.com/moffa90/go-spinor/spimem"

// Opcode is a read or program opcode for one I/O class.
type Opcode struct {
	Op uint8

	// Dummy is the number of dummy cycles
	Dummy uint8

	// Mode is the number of mode-bit cycles
	Mode uint8

	Valid bool
}

// OpcodeTable holds one opcode per I/O class.
type OpcodeTable [spimem.IOCount]Opcode

// Empty reports whether no entry is valid.
func (t *OpcodeTable) Empty() bool {
	for _, op := range t {
		if op.Valid {
			return false
		}
	}
	return true
}

// EraseSector is an erase granularity and its opcode.
type EraseSector struct {
	Size   uint32
	Opcode uint8
}

// EraseInfo holds up to four erase granularities, smallest first.
type EraseInfo [4]EraseSector

// Empty reports whether no sector size is set.
func (e *EraseInfo) Empty() bool {
	for _, s := range e {
		if s.Size != 0 {
			return false
		}
	}
	return true
}

// Smallest returns the smallest erase granularity.
func (e *EraseInfo) Smallest() (EraseSector, bool) {
	var best EraseSector
	for _, s := range e {
		if s.Size != 0 && (best.Size == 0 || s.Size < best.Size) {
			best = s
		}
	}
	return best, best.Size != 0
}

// Family default tables.
var (
	DefaultRead3B = OpcodeTable{
		spimem.IO111: {Op: spimem.OpFastRead, Dummy: 8, Valid: true},
		spimem.IO112: {Op: spimem.OpFastReadDual, Dummy: 8, Valid: true},
		spimem.IO122: {Op: spimem.OpFastReadDualIO, Dummy: 4, Valid: true},
		spimem.IO114: {Op: spimem.OpFastReadQuad, Dummy: 8, Valid: true},
		spimem.IO144: {Op: spimem.OpFastReadQuadIO, Dummy: 6, Valid: true},
	}

	DefaultRead4B = OpcodeTable{
		spimem.IO111: {Op: spimem.OpFastRead4B, Dummy: 8, Valid: true},
		spimem.IO112: {Op: spimem.OpFastReadDual4B, Dummy: 8, Valid: true},
		spimem.IO122: {Op: spimem.OpFastReadDualIO4B, Dummy: 4, Valid: true},
		spimem.IO114: {Op: spimem.OpFastReadQuad4B, Dummy: 8, Valid: true},
		spimem.IO144: {Op: spimem.OpFastReadQuadIO4B, Dummy: 6, Valid: true},
	}

	DefaultProg3B = OpcodeTable{
		spimem.IO111: {Op: spimem.OpPageProgram, Valid: true},
		spimem.IO114: {Op: spimem.OpPageProgramQuad, Valid: true},
	}

	DefaultProg4B = OpcodeTable{
		spimem.IO111: {Op: spimem.OpPageProgram4B, Valid: true},
		spimem.IO114: {Op: spimem.OpPageProgramQuad4B, Valid: true},
	}

	DefaultErase3B = EraseInfo{
		{Size: 4 * spimem.KiB, Opcode: spimem.OpErase4K},
		{Size: 32 * spimem.KiB, Opcode: spimem.OpErase32K},
		{Size: 64 * spimem.KiB, Opcode: spimem.OpErase64K},
	}

	DefaultErase4B = EraseInfo{
		{Size: 4 * spimem.KiB, Opcode: spimem.OpErase4K4B},
		{Size: 32 * spimem.KiB, Opcode: spimem.OpErase32K4B},
		{Size: 64 * spimem.KiB, Opcode: spimem.OpErase64K4B},
	}
)

// ioAllowed reports whether flags permit I/O class io.
func ioAllowed(f Flags, io spimem.IO) bool {
	switch io {
	case spimem.IO111:
		return true
	case spimem.IO112, spimem.IO122:
		return f&Dual != 0
	case spimem.IO114, spimem.IO144:
		return f&Quad != 0
	case spimem.IO222:
		return f&Dual != 0 && f&QPI != 0
	case spimem.IO444:
		return f&QPI != 0
	}
	return false
}

// fillOpcodes copies the default entries of the I/O classes f allows.
func fillOpcodes(dst *OpcodeTable, def *OpcodeTable, f Flags) {
	for io := spimem.IO(0); io < spimem.IOCount; io++ {
		if def[io].Valid && ioAllowed(f, io) {
			dst[io] = def[io]
		}
	}
}

// fillErase copies the default sectors f declares, or all of them if f
// declares none.
func fillErase(dst *EraseInfo, def *EraseInfo, f Flags) {
	want := f & (Erase4K | Erase32K | Erase64K)
	n := 0
	for _, s := range def {
		var bit Flags
		switch s.Size {
		case 4 * spimem.KiB:
			bit = Erase4K
		case 32 * spimem.KiB:
			bit = Erase32K
		case 64 * spimem.KiB:
			bit = Erase64K
		}
		if s.Size == 0 || (want != 0 && want&bit == 0) {
			continue
		}
		dst[n] = s
		n++
	}
}
