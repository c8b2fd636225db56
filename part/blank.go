package part

import (
	"github.com/moffa90/go-spinor/spimem"
	"github.com/moffa90/go-spinor/wp"
)

// DefaultPageSize is the page size of parts that do not declare one.
const DefaultPageSize = 256

// Blank is the mutable working copy of a catalog entry for one probe.
type Blank struct {
	p *Part
}

// NewBlank copies src into a new blank. Slices are deep-copied so that
// fixups never reach the catalog entry.
func NewBlank(src *Part) *Blank {
	b := &Blank{}
	b.reset(src)
	return b
}

// Wrap makes a blank that edits p in place. It is used for the fixup stage
// that runs on committed parameters.
func Wrap(p *Part) *Blank {
	return &Blank{p: p}
}

func (b *Blank) reset(src *Part) {
	b.p = clonePart(src)
}

func clonePart(src *Part) *Part {
	cp := *src
	cp.Aliases = append([]Alias(nil), src.Aliases...)
	cp.ID = append([]byte(nil), src.ID...)
	if src.IDMask != nil {
		cp.IDMask = append([]byte(nil), src.IDMask...)
	}
	if src.Regs != nil {
		cp.Regs = append(cp.Regs[:0:0], src.Regs...)
	}
	if src.OTP != nil {
		otp := *src.OTP
		cp.OTP = &otp
	}
	return &cp
}

// Part returns the working copy. Changes through it stay in the blank.
func (b *Blank) Part() *Part {
	return b.p
}

// Commit returns a copy of the working parameters that later blank edits
// do not affect.
func (b *Blank) Commit() *Part {
	return clonePart(b.p)
}

// FillDefaults copies the family defaults into every empty opcode and erase
// table. Populated tables are left alone, so calling it again changes
// nothing.
//
// 4-byte tables are filled only when the part is larger than 16 MiB and
// declares opcode-based 4-byte addressing. Parts that reach the upper half
// through a bank or extended address register keep empty 4-byte tables.
func (b *Blank) FillDefaults() {
	p := b.p
	if p.Read3B.Empty() {
		fillOpcodes(&p.Read3B, &DefaultRead3B, p.Flags)
	}
	if p.Prog3B.Empty() {
		fillOpcodes(&p.Prog3B, &DefaultProg3B, p.Flags)
	}
	if p.Erase3B.Empty() {
		fillErase(&p.Erase3B, &DefaultErase3B, p.Flags)
	}

	if p.Needs4B() && p.Uses4BOpcodes() {
		if p.Read4B.Empty() {
			fillOpcodes(&p.Read4B, &DefaultRead4B, p.Flags)
		}
		if p.Prog4B.Empty() {
			fillOpcodes(&p.Prog4B, &DefaultProg4B, p.Flags)
		}
		if p.Erase4B.Empty() {
			fillErase(&p.Erase4B, &DefaultErase4B, p.Flags)
		}
	}

	if p.PageSize == 0 {
		p.PageSize = DefaultPageSize
	}
	if p.Dies == 0 {
		p.Dies = 1
	}
}

// SetModel renames the part.
func (b *Blank) SetModel(model string) {
	b.p.Model = model
}

// SetSize sets the chip size in bytes.
func (b *Blank) SetSize(size uint64) {
	b.p.Size = size
}

// SetFlags sets flags.
func (b *Blank) SetFlags(f Flags) {
	b.p.Flags |= f
}

// ClearFlags clears flags.
func (b *Blank) ClearFlags(f Flags) {
	b.p.Flags &^= f
}

// SetWP installs a write protection table.
func (b *Blank) SetWP(info *wp.Info) {
	b.p.WP = info
}

// SetReadOpcode replaces the read opcode of an I/O class in the 3-byte or
// 4-byte table.
func (b *Blank) SetReadOpcode(io spimem.IO, fourByte bool, op Opcode) {
	if io >= spimem.IOCount {
		return
	}
	if fourByte {
		b.p.Read4B[io] = op
	} else {
		b.p.Read3B[io] = op
	}
}

// SetReadDummy changes the dummy cycles of every valid read opcode.
func (b *Blank) SetReadDummy(io spimem.IO, dummy uint8) {
	if io >= spimem.IOCount {
		return
	}
	if b.p.Read3B[io].Valid {
		b.p.Read3B[io].Dummy = dummy
	}
	if b.p.Read4B[io].Valid {
		b.p.Read4B[io].Dummy = dummy
	}
}

// SetOTPOps installs OTP lock operations.
func (b *Blank) SetOTPOps(ops OTPOps) {
	b.p.OTPOps = ops
}
