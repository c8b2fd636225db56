package part

import (
	"fmt"

	"github.com/moffa90/go-spinor/regs"
	"github.com/moffa90/go-spinor/spimem"
	"github.com/moffa90/go-spinor/wp"
)

// FourByteThreshold is the size above which parts need 4-byte addressing.
const FourByteThreshold = 16 * spimem.MiB

// MaxIDLen is the longest JEDEC ID a part can declare.
const MaxIDLen = 6

// Alias is an alternative model name. A non-empty Vendor names the vendor
// (by Vendor.ID) that sells the part under this name.
type Alias struct {
	Vendor string
	Model  string
}

// OTPInfo describes the OTP security regions.
type OTPInfo struct {
	// Start is the address of region 0
	Start uint32

	// Stride is the address distance between regions
	Stride uint32

	Count int
	Size  uint32
}

// OTPOps locks OTP regions. Vendors differ in how lock bits are laid out,
// so fixups install the variant matching the silicon.
type OTPOps interface {
	Lock(t spimem.Transport, index int) error
	Locked(t spimem.Transport, index int) (bool, error)
}

// Part is a catalog entry. Catalog entries are never mutated after start up.
type Part struct {
	Model   string
	Aliases []Alias

	// ID is the JEDEC ID, manufacturer byte first
	ID []byte

	// IDMask is ANDed with both IDs before comparing. A nil mask compares
	// bytes exactly; a short mask compares the remaining bytes exactly.
	IDMask []byte

	Flags     Flags
	AddrModes AddrMode

	Size     uint64
	PageSize uint32
	Dies     uint8

	// MaxSpeed is the maximum clock in MHz per I/O class
	MaxSpeed [spimem.IOCount]uint32

	Read3B  OpcodeTable
	Read4B  OpcodeTable
	Prog3B  OpcodeTable
	Prog4B  OpcodeTable
	Erase3B EraseInfo
	Erase4B EraseInfo

	// Regs lists the registers of the part, e.g. for dumping
	Regs []*regs.Access

	OTP    *OTPInfo
	OTPOps OTPOps

	WP *wp.Info

	// Fixups implements any of PreParamSetup, PostParamSetup and
	// PreChipSetup
	Fixups any
}

// Needs4B reports whether the part needs 4-byte addressing at all.
func (p *Part) Needs4B() bool {
	return p.Size > FourByteThreshold
}

// Uses4BOpcodes reports whether the part switches to 4-byte addressing
// through dedicated opcodes.
func (p *Part) Uses4BOpcodes() bool {
	return p.Flags&FourByteOpcodes != 0 || p.AddrModes&Addr4BOpcodes != 0
}

// Validate checks the static consistency of the entry.
func (p *Part) Validate() error {
	if p.Model == "" {
		return fmt.Errorf("part: empty model: %w", spimem.ErrInvalidParameter)
	}
	if len(p.ID) > MaxIDLen {
		return fmt.Errorf("part %s: id longer than %d bytes: %w", p.Model, MaxIDLen, spimem.ErrInvalidParameter)
	}
	if len(p.IDMask) > len(p.ID) {
		return fmt.Errorf("part %s: id mask longer than id: %w", p.Model, spimem.ErrInvalidParameter)
	}
	for _, a := range p.Regs {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("part %s: %w", p.Model, err)
		}
	}
	if p.WP != nil {
		if err := p.WP.Validate(); err != nil {
			return fmt.Errorf("part %s: %w", p.Model, err)
		}
	}
	return nil
}

func (p *Part) String() string {
	return fmt.Sprintf("%s (id %s, %d KiB)", p.Model, FormatID(p.ID), p.Size/spimem.KiB)
}

// Vendor is a manufacturer and its parts, in match precedence order.
type Vendor struct {
	// ID is the short vendor key aliases refer to, e.g. "winbond"
	ID   string
	Name string

	// MfrID is the JEDEC manufacturer byte
	MfrID uint8

	Parts []Part

	// Fixups implements any of PreParamSetup, PostParamSetup and
	// PreChipSetup, run before the part's own hook
	Fixups any
}
