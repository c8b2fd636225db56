package vendors

import (
	"github.com/moffa90/go-spinor/part"
	"github.com/moffa90/go-spinor/regs"
	"github.com/moffa90/go-spinor/spimem"
)

// gdWPS is the write protect selection bit of SR3. When clear, protection
// is selected by the BP bits as a whole and there are no individual block
// locks to unlock.
const gdWPS = 1 << 2

// gigadeviceFixups applies to every GigaDevice part.
type gigadeviceFixups struct{}

func (gigadeviceFixups) PreParamSetup(ctx *part.FixupContext, bp *part.Blank) error {
	if bp.Part().Flags&part.GlobalUnlock == 0 {
		return nil
	}
	v, err := regs.Read(ctx.Bus, regs.SR3)
	if err != nil {
		return err
	}
	if v&gdWPS == 0 {
		bp.ClearFlags(part.GlobalUnlock)
	}
	return nil
}

// GigaDevice is the GigaDevice catalog.
var GigaDevice = &part.Vendor{
	ID:     "gigadevice",
	Name:   "GigaDevice",
	MfrID:  0xC8,
	Fixups: gigadeviceFixups{},
	Parts: []part.Part{
		{
			Model:    "GD25Q64C",
			Aliases:  []part.Alias{{Model: "GD25Q64"}, {Model: "GD25Q64CSIG"}},
			ID:       []byte{0xC8, 0x40, 0x17},
			Flags:    part.SFDP | part.Erase4K | part.Erase32K | part.Erase64K | part.UniqueID | part.Dual | part.Quad | part.GlobalUnlock,
			Size:     8 * spimem.MiB,
			Regs:     []*regs.Access{regs.SR, regs.CR, regs.SR3},
			OTP:      &part.OTPInfo{Start: 0x1000, Stride: 0x1000, Count: 3, Size: 256},
			OTPOps:   lockBitOTP{access: regs.CR, first: winbondLBFirst},
			WP:       schemeBP3SEC.info(regs.SRCR, false),
			MaxSpeed: [spimem.IOCount]uint32{spimem.IO111: 120, spimem.IO112: 120, spimem.IO122: 120, spimem.IO114: 120, spimem.IO144: 120},
		},
	},
}
