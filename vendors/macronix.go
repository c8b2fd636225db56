package vendors

import (
	"github.com/moffa90/go-spinor/part"
	"github.com/moffa90/go-spinor/regs"
	"github.com/moffa90/go-spinor/spimem"
	"github.com/moffa90/go-spinor/wp"
)

// Macronix configuration register bits, as seen in the upper byte of
// regs.MacronixSRCR.
const (
	mxCRShift  = 8
	mxCRTB     = 1 << 3
	mxCRDCMask = 0xC0
	mxCRDCPos  = 6
)

// Dummy cycles per CR DC1:DC0 value.
var (
	mxDummy144 = [4]uint8{6, 4, 8, 10}
	mxDummy114 = [4]uint8{8, 6, 8, 10}
)

var (
	mxScheme128 = bpScheme{bp0: 2, nbp: 4, levels: 8, tb: noBit, sec: noBit, cmp: noBit}
	mxScheme256 = bpScheme{bp0: 2, nbp: 4, levels: 9, tb: noBit, sec: noBit, cmp: noBit}
	mxRegs      = []*regs.Access{regs.MacronixSRCR}
)

// macronixConfig reads the configuration register to choose the protection
// table (TB is a one-time bit) and the quad read dummy cycles.
type macronixConfig struct {
	top    *wp.Info
	bottom *wp.Info
}

func (f macronixConfig) PreParamSetup(ctx *part.FixupContext, bp *part.Blank) error {
	v, err := regs.Read(ctx.Bus, regs.MacronixSRCR)
	if err != nil {
		return err
	}
	cr := uint8(v >> mxCRShift)

	if cr&mxCRTB != 0 {
		bp.SetWP(f.bottom)
	} else {
		bp.SetWP(f.top)
	}

	dc := (cr & mxCRDCMask) >> mxCRDCPos
	bp.SetReadDummy(spimem.IO144, mxDummy144[dc])
	bp.SetReadDummy(spimem.IO114, mxDummy114[dc])
	return nil
}

func newMacronixConfig(s bpScheme) macronixConfig {
	return macronixConfig{
		top:    s.info(regs.MacronixSRCR, false),
		bottom: s.info(regs.MacronixSRCR, true),
	}
}

var (
	mx128Config = newMacronixConfig(mxScheme128)
	mx256Config = newMacronixConfig(mxScheme256)
)

// Macronix is the Macronix catalog.
var Macronix = &part.Vendor{
	ID:    "macronix",
	Name:  "Macronix",
	MfrID: 0xC2,
	Parts: []part.Part{
		{
			Model:    "MX25L12835F",
			Aliases:  []part.Alias{{Model: "MX25L12833F"}},
			ID:       []byte{0xC2, 0x20, 0x18},
			Flags:    part.SFDP | part.Erase4K | part.Erase32K | part.Erase64K | part.Dual | part.Quad | part.QPI,
			Size:     16 * spimem.MiB,
			Regs:     mxRegs,
			WP:       mx128Config.top,
			Fixups:   mx128Config,
			MaxSpeed: [spimem.IOCount]uint32{spimem.IO111: 133, spimem.IO112: 133, spimem.IO122: 133, spimem.IO114: 133, spimem.IO144: 133, spimem.IO444: 104},
		},
		{
			Model:     "MX25L25645G",
			ID:        []byte{0xC2, 0x20, 0x19},
			Flags:     part.SFDP | part.Erase4K | part.Erase32K | part.Erase64K | part.Dual | part.Quad | part.QPI | part.FourByteOpcodes,
			AddrModes: part.AddrB7h | part.Addr4BOpcodes,
			Size:      32 * spimem.MiB,
			Regs:      mxRegs,
			WP:        mx256Config.top,
			Fixups:    mx256Config,
			MaxSpeed:  [spimem.IOCount]uint32{spimem.IO111: 133, spimem.IO112: 133, spimem.IO122: 133, spimem.IO114: 133, spimem.IO144: 133, spimem.IO444: 133},
		},
	},
}
