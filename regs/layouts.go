package regs

import "github.com/moffa90/go-spinor/spimem"

// Well-known register layouts shared by many parts.
var (
	// SR is status register 1.
	SR = &Access{
		Name:  "SR",
		Kind:  Normal,
		Descs: []Descriptor{{ReadOpcode: spimem.OpReadSR, WriteOpcode: spimem.OpWriteSR, Width: 1}},
	}

	// CR is status register 2 / configuration register, written alone by 0x31.
	CR = &Access{
		Name:  "CR",
		Kind:  Normal,
		Descs: []Descriptor{{ReadOpcode: spimem.OpReadCR, WriteOpcode: spimem.OpWriteSR2, Width: 1}},
	}

	// SR3 is status register 3, written alone by 0x11.
	SR3 = &Access{
		Name:  "SR3",
		Kind:  Normal,
		Descs: []Descriptor{{ReadOpcode: spimem.OpReadSR3, WriteOpcode: spimem.OpWriteSR3, Width: 1}},
	}

	// SRCR is SR1 (0x05) and SR2 (0x35) written together by a 2-byte 0x01.
	SRCR = &Access{
		Name: "SR1+SR2",
		Kind: ReadManyWriteOnce,
		Descs: []Descriptor{
			{ReadOpcode: spimem.OpReadSR, WriteOpcode: spimem.OpWriteSR, Width: 1},
			{ReadOpcode: spimem.OpReadCR, Width: 1},
		},
	}

	// SRCRVolatile is SRCR with 0x50 volatile write enable.
	SRCRVolatile = &Access{
		Name: "SR1+SR2",
		Kind: ReadManyWriteOnce,
		Descs: []Descriptor{
			{ReadOpcode: spimem.OpReadSR, WriteOpcode: spimem.OpWriteSR, Width: 1},
			{ReadOpcode: spimem.OpReadCR, Width: 1},
		},
		Flags: VolatileWriteEnable,
	}

	// MacronixSRCR is SR (0x05) and the Macronix configuration register
	// (0x15) written together by a 2-byte 0x01.
	MacronixSRCR = &Access{
		Name: "SR+CR",
		Kind: ReadManyWriteOnce,
		Descs: []Descriptor{
			{ReadOpcode: spimem.OpReadSR, WriteOpcode: spimem.OpWriteSR, Width: 1},
			{ReadOpcode: spimem.OpReadSR3, Width: 1},
		},
	}
)
