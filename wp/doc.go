// Package wp maps SPI-NOR block-protect status bits to protected address
// ranges and back.
//
// A part's protection scheme is declared as an Info: the register that holds
// the protect bits, the mask of those bits and an ordered table of Ranges.
// Each Range pairs a masked register value with a size rule (a Scale) and
// placement flags:
//
//	info := &wp.Info{
//	    Access: regs.SRCR,
//	    Mask:   0x407C, // CMP SEC TB BP2 BP1 BP0
//	    Ranges: []wp.Range{
//	        {SRVal: 0x0000, Scale: wp.None{}},
//	        {SRVal: 0x0004, Scale: wp.LeftShift{Granularity: 64 * spimem.KiB, Shift: 0}},
//	        {SRVal: 0x0024, Scale: wp.LeftShift{Granularity: 64 * spimem.KiB, Shift: 0}, Lower: true},
//	        // ...
//	    },
//	}
//
// Decode turns a register value into a Region; Lookup is the inverse and
// SetRegion writes the bits, verifies them and rolls back to an unprotected
// state if the device did not take the whole pattern. A rollback that does
// not read back clear is reported as ErrRollbackFailed.
//
// # Size rules
//
//   - None protects nothing, All protects the whole chip.
//   - LeftShift protects Granularity << Shift bytes.
//   - RightShift protects chipSize >> Shift bytes.
//   - Multiply protects Granularity * Factor bytes.
//
// Computed sizes saturate at the chip size. Complement protects everything
// except the computed size. With plain Complement a size that already covers
// the chip stays whole-chip; ComplementFull complements it to nothing. Lower
// anchors the final region at address 0, otherwise it ends at the top of the
// chip. A whole-chip region always has base 0.
package wp
