package vendors

import (
	"github.com/moffa90/go-spinor/part"
	"github.com/moffa90/go-spinor/regs"
	"github.com/moffa90/go-spinor/spimem"
)

// Winbond status register 2 lock bits LB1-LB3.
const (
	winbondLBFirst     = 3
	winbondLBFirstSRCR = 8 + winbondLBFirst
)

var (
	winbondWP      = schemeBP3SEC.info(regs.SRCR, false)
	winbondWP256   = schemeBP4TB.info(regs.SRCR, false)
	winbondWPX     = schemeBP2TB.info(regs.SR, false)
	winbondRegs    = []*regs.Access{regs.SR, regs.CR, regs.SR3}
	winbondOTP     = &part.OTPInfo{Start: 0x1000, Stride: 0x1000, Count: 3, Size: 256}
	winbondQuadMHz = [spimem.IOCount]uint32{
		spimem.IO111: 133, spimem.IO112: 133, spimem.IO122: 133, spimem.IO114: 133, spimem.IO144: 133,
	}
)

// winbondFixups applies to every Winbond part.
type winbondFixups struct{}

// PreParamSetup picks up volatile status register support from SFDP.
func (winbondFixups) PreParamSetup(ctx *part.FixupContext, bp *part.Blank) error {
	if ctx.SFDP == nil {
		return nil
	}
	b, err := ctx.SFDP.Basic()
	if err != nil {
		return nil
	}
	volatile, wren50h := b.VolatileSR()
	if volatile {
		bp.SetFlags(part.SRVolatile)
	}
	if wren50h {
		bp.SetFlags(part.SRVolatileWREN50h)
	}
	return nil
}

// PreChipSetup installs the lock-bit OTP variant. Parts with volatile
// status register bits take a standalone SR2 write (0x31); older parts only
// take SR2 as the second byte of 0x01.
//
// Parts whose volatile status register copy is enabled by 0x50 get a
// protection table writing through regs.SRCRVolatile.
func (winbondFixups) PreChipSetup(ctx *part.FixupContext, bp *part.Blank) error {
	p := bp.Part()
	if p.Flags.Has(part.SRVolatile|part.SRVolatileWREN50h) && p.WP != nil && p.WP.Access == regs.SRCR {
		info := *p.WP
		info.Access = regs.SRCRVolatile
		bp.SetWP(&info)
	}

	if p.OTP == nil || p.OTPOps != nil {
		return nil
	}
	if p.Flags&part.SRVolatile != 0 {
		bp.SetOTPOps(lockBitOTP{access: regs.CR, first: winbondLBFirst})
	} else {
		bp.SetOTPOps(lockBitOTP{access: regs.SRCR, first: winbondLBFirstSRCR})
	}
	return nil
}

// sfdpRevision resolves a generic part by the minor revision of its basic
// parameter table.
type sfdpRevision struct {
	minRev uint8
	newer  string
	older  string
}

func (f sfdpRevision) PreParamSetup(ctx *part.FixupContext, bp *part.Blank) error {
	rev, ok := ctx.BasicMinorRev()
	if !ok {
		return nil
	}
	if rev >= f.minRev {
		return ctx.Reprobe(bp, f.newer)
	}
	return ctx.Reprobe(bp, f.older)
}

// Winbond is the Winbond catalog.
var Winbond = &part.Vendor{
	ID:     "winbond",
	Name:   "Winbond",
	MfrID:  0xEF,
	Fixups: winbondFixups{},
	Parts: []part.Part{
		{
			Model:    "W25X20",
			ID:       []byte{0xEF, 0x30, 0x12},
			IDMask:   []byte{0xFF, 0xFE, 0xFF},
			Flags:    part.Erase4K | part.Erase64K | part.Dual,
			Size:     256 * spimem.KiB,
			Regs:     []*regs.Access{regs.SR},
			WP:       winbondWPX,
			MaxSpeed: [spimem.IOCount]uint32{spimem.IO111: 75, spimem.IO112: 75},
		},
		{
			Model:    "W25Q64JV",
			Aliases:  []part.Alias{{Model: "W25Q64JVSIQ"}, {Model: "W25Q64JVSSIQ"}},
			ID:       []byte{0xEF, 0x40, 0x17},
			Flags:    part.SFDP | part.Erase4K | part.Erase32K | part.Erase64K | part.UniqueID | part.Dual | part.Quad | part.SRVolatile | part.SRVolatileWREN50h,
			Size:     8 * spimem.MiB,
			Regs:     winbondRegs,
			OTP:      winbondOTP,
			WP:       winbondWP,
			MaxSpeed: winbondQuadMHz,
		},
		{
			// generic entry; the SFDP revision tells FV and JV apart
			Model:  "W25Q128",
			ID:     []byte{0xEF, 0x40, 0x18},
			Flags:  part.Meta | part.SFDP,
			Size:   16 * spimem.MiB,
			Regs:   winbondRegs,
			WP:     winbondWP,
			Fixups: sfdpRevision{minRev: 5, newer: "W25Q128JV", older: "W25Q128FV"},
		},
		{
			Model:    "W25Q128JV",
			ID:       []byte{0xEF, 0x40, 0x18},
			Flags:    part.SFDP | part.Erase4K | part.Erase32K | part.Erase64K | part.UniqueID | part.Dual | part.Quad | part.SRVolatile | part.SRVolatileWREN50h,
			Size:     16 * spimem.MiB,
			Regs:     winbondRegs,
			OTP:      winbondOTP,
			WP:       winbondWP,
			MaxSpeed: winbondQuadMHz,
		},
		{
			Model:    "W25Q128FV",
			ID:       []byte{0xEF, 0x40, 0x18},
			Flags:    part.SFDP | part.Erase4K | part.Erase32K | part.Erase64K | part.UniqueID | part.Dual | part.Quad | part.QPI,
			Size:     16 * spimem.MiB,
			Regs:     winbondRegs,
			OTP:      winbondOTP,
			WP:       winbondWP,
			MaxSpeed: [spimem.IOCount]uint32{spimem.IO111: 104, spimem.IO112: 104, spimem.IO122: 104, spimem.IO114: 104, spimem.IO144: 104, spimem.IO444: 104},
		},
		{
			Model:     "W25Q256JV",
			ID:        []byte{0xEF, 0x40, 0x19},
			Flags:     part.SFDP | part.Erase4K | part.Erase32K | part.Erase64K | part.UniqueID | part.Dual | part.Quad | part.FourByteOpcodes,
			AddrModes: part.AddrB7h | part.AddrEAR | part.Addr4BOpcodes,
			Size:      32 * spimem.MiB,
			Regs:      winbondRegs,
			OTP:       winbondOTP,
			WP:        winbondWP256,
			MaxSpeed:  winbondQuadMHz,
		},
	},
}
