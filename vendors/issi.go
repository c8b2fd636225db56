package vendors

import (
	"github.com/moffa90/go-spinor/part"
	"github.com/moffa90/go-spinor/regs"
	"github.com/moffa90/go-spinor/spimem"
)

// issiFR is the ISSI function register. IRL3:0 at bits 4-7 lock the
// information rows.
var issiFR = &regs.Access{
	Name:  "FR",
	Kind:  regs.Normal,
	Descs: []regs.Descriptor{{ReadOpcode: 0x48, WriteOpcode: 0x42, Width: 1}},
}

const issiIRLFirst = 4

// BP3:0 at SR bits 2-5, 64 KiB blocks, TB in the function register.
var issiScheme = bpScheme{bp0: 2, nbp: 4, levels: 7, unit: 64 * spimem.KiB, tb: noBit, sec: noBit, cmp: noBit}

// ISSI is the ISSI catalog. Its parts are also sold under PMC names.
var ISSI = &part.Vendor{
	ID:    "issi",
	Name:  "ISSI",
	MfrID: 0x9D,
	Parts: []part.Part{
		{
			Model:    "IS25LP064",
			Aliases:  []part.Alias{{Model: "IS25LP064A"}, {Vendor: "pmc", Model: "Pm25LQ064"}},
			ID:       []byte{0x9D, 0x60, 0x17},
			Flags:    part.SFDP | part.Erase4K | part.Erase32K | part.Erase64K | part.UniqueID | part.Dual | part.Quad | part.QPI,
			Size:     8 * spimem.MiB,
			Regs:     []*regs.Access{regs.SR, issiFR},
			OTP:      &part.OTPInfo{Start: 0x0000, Stride: 0x100, Count: 4, Size: 256},
			OTPOps:   lockBitOTP{access: issiFR, first: issiIRLFirst},
			WP:       issiScheme.info(regs.SR, false),
			MaxSpeed: [spimem.IOCount]uint32{spimem.IO111: 133, spimem.IO112: 133, spimem.IO122: 133, spimem.IO114: 133, spimem.IO144: 133, spimem.IO444: 133},
		},
	},
}

// PMC owns no parts of its own here; its names are aliases of ISSI parts.
var PMC = &part.Vendor{
	ID:    "pmc",
	Name:  "PMC",
	MfrID: 0x7F,
}
