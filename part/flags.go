package part

import "strings"

// Flags are part capability flags.
type Flags uint32

// Capability flags.
const (
	SFDP              Flags = 1 << iota // has SFDP
	Erase4K                             // 4 KiB sector erase
	Erase32K                            // 32 KiB block erase
	Erase64K                            // 64 KiB block erase
	UniqueID                            // factory unique ID
	Dual                                // dual I/O reads
	Quad                                // quad I/O reads
	QPI                                 // 4-4-4 mode
	FourByteOpcodes                     // dedicated 4-byte address opcodes
	GlobalUnlock                        // global block unlock (0x98)
	Meta                                // placeholder resolved by a fixup
	SRVolatile                          // status register has a volatile copy
	SRVolatileWREN50h                   // volatile SR write enable is 0x50
	NoSFDPOverride                      // catalog values win over SFDP
)

var flagNames = []struct {
	f    Flags
	name string
}{
	{SFDP, "sfdp"},
	{Erase4K, "4k"},
	{Erase32K, "32k"},
	{Erase64K, "64k"},
	{UniqueID, "uid"},
	{Dual, "dual"},
	{Quad, "quad"},
	{QPI, "qpi"},
	{FourByteOpcodes, "4b-opcodes"},
	{GlobalUnlock, "global-unlock"},
	{Meta, "meta"},
	{SRVolatile, "sr-volatile"},
	{SRVolatileWREN50h, "sr-wren-50h"},
	{NoSFDPOverride, "no-sfdp-override"},
}

// Has reports whether every flag of x is set.
func (f Flags) Has(x Flags) bool {
	return f&x == x
}

func (f Flags) String() string {
	var names []string
	for _, n := range flagNames {
		if f&n.f != 0 {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// AddrMode is the set of ways a part enters 4-byte addressing.
type AddrMode uint8

// 4-byte address enable types.
const (
	AddrB7h       AddrMode = 1 << iota // enter with 0xB7, exit with 0xE9
	AddrBankReg                        // bank register bit 7
	AddrEAR                            // extended address register
	Addr4BOpcodes                      // dedicated 4-byte opcodes
	AddrAlways4B                       // always in 4-byte mode
)

// Has reports whether every mode of x is set.
func (m AddrMode) Has(x AddrMode) bool {
	return m&x == x
}
