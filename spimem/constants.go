package spimem

// IO identifies an I/O width class as cmd-addr-data bus widths.
type IO uint8

// I/O width classes.
const (
	IO111 IO = iota // 1-1-1 (standard SPI)
	IO112           // 1-1-2 (dual output)
	IO122           // 1-2-2 (dual I/O)
	IO222           // 2-2-2 (DPI)
	IO114           // 1-1-4 (quad output)
	IO144           // 1-4-4 (quad I/O)
	IO444           // 4-4-4 (QPI)

	// IOCount is the number of I/O classes. Tables indexed by IO have this
	// many entries.
	IOCount
)

var ioNames = [IOCount]string{
	IO111: "1-1-1",
	IO112: "1-1-2",
	IO122: "1-2-2",
	IO222: "2-2-2",
	IO114: "1-1-4",
	IO144: "1-4-4",
	IO444: "4-4-4",
}

var ioWidths = [IOCount][3]uint8{
	IO111: {1, 1, 1},
	IO112: {1, 1, 2},
	IO122: {1, 2, 2},
	IO222: {2, 2, 2},
	IO114: {1, 1, 4},
	IO144: {1, 4, 4},
	IO444: {4, 4, 4},
}

// String returns the cmd-addr-data notation of the class.
func (io IO) String() string {
	if io >= IOCount {
		return "unknown"
	}
	return ioNames[io]
}

// Widths returns the command, address and data bus widths of the class.
func (io IO) Widths() (cmd, addr, data uint8) {
	if io >= IOCount {
		return 1, 1, 1
	}
	w := ioWidths[io]
	return w[0], w[1], w[2]
}

// Standard SPI-NOR opcodes shared by most vendors.
const (
	// OpReadID reads the JEDEC manufacturer and device ID
	OpReadID = 0x9F

	// OpReadSFDP reads the SFDP address space (3-byte address, 8 dummy cycles)
	OpReadSFDP = 0x5A

	// OpReadUID reads the factory unique ID
	OpReadUID = 0x4B

	// OpWriteEnable sets the write enable latch
	OpWriteEnable = 0x06

	// OpWriteDisable clears the write enable latch
	OpWriteDisable = 0x04

	// OpVolatileSRWriteEnable enables a volatile status register write
	OpVolatileSRWriteEnable = 0x50

	// OpReadSR reads status register 1
	OpReadSR = 0x05

	// OpWriteSR writes status register 1 (and the following registers on
	// parts that accept a longer data phase)
	OpWriteSR = 0x01

	// OpReadCR reads the configuration register / status register 2
	OpReadCR = 0x35

	// OpWriteSR2 writes status register 2 alone
	OpWriteSR2 = 0x31

	// OpReadSR3 reads status register 3 (Macronix: configuration register)
	OpReadSR3 = 0x15

	// OpWriteSR3 writes status register 3 alone
	OpWriteSR3 = 0x11

	// OpEnter4B enters 4-byte address mode
	OpEnter4B = 0xB7

	// OpExit4B exits 4-byte address mode
	OpExit4B = 0xE9

	// OpReadEAR reads the extended address register
	OpReadEAR = 0xC8

	// OpWriteEAR writes the extended address register
	OpWriteEAR = 0xC5
)

// Read opcodes.
const (
	OpRead           = 0x03
	OpFastRead       = 0x0B
	OpFastReadDual   = 0x3B
	OpFastReadDualIO = 0xBB
	OpFastReadQuad   = 0x6B
	OpFastReadQuadIO = 0xEB

	OpRead4B           = 0x13
	OpFastRead4B       = 0x0C
	OpFastReadDual4B   = 0x3C
	OpFastReadDualIO4B = 0xBC
	OpFastReadQuad4B   = 0x6C
	OpFastReadQuadIO4B = 0xEC
)

// Program opcodes.
const (
	OpPageProgram       = 0x02
	OpPageProgramQuad   = 0x32
	OpPageProgram4B     = 0x12
	OpPageProgramQuad4B = 0x34
)

// Erase opcodes.
const (
	OpErase4K    = 0x20
	OpErase32K   = 0x52
	OpErase64K   = 0xD8
	OpErase4K4B  = 0x21
	OpErase32K4B = 0x5C
	OpErase64K4B = 0xDC
	OpEraseChip  = 0xC7
)

// Address lengths in bytes.
const (
	AddrLen3B = 3
	AddrLen4B = 4

	// MaxAddrLen is the longest address phase an Op may carry.
	MaxAddrLen = 4
)

// SFDPDummyCycles is the number of dummy cycles of the SFDP read opcode.
const SFDPDummyCycles = 8

// Size units.
const (
	KiB = 1 << 10
	MiB = 1 << 20
)
