// Package spimem defines the wire-level contract between the SPI-NOR core
// and the SPI controller that carries its transactions.
//
// # Operations
//
// Every register access, ID read and SFDP read is compiled down to a single
// Op: an opcode phase, an optional address phase, optional dummy cycles and
// an optional data phase:
//
//	[OPCODE][ADDR(0-4 bytes)][DUMMY cycles][DATA in|out]
//
// Each phase carries its own bus width so that dual/quad transactions can be
// described, even though the register layer only ever issues 1-1-1 ops.
//
// # Transports
//
// A Transport executes ops and reports whether it can execute a given op at
// all. Callers that are not sure an attached controller can realize an op
// (long addresses, wide data phases, odd dummy counts) use ExecuteChecked,
// which turns an unsupported op into ErrUnsupported instead of sending
// garbage on the bus:
//
//	op := spimem.NewRegReadOp(spimem.OpReadSR, 0, 0, 0, buf)
//	if err := spimem.ExecuteChecked(bus, op); err != nil {
//	    return err
//	}
//
// Transports also expose a bus lock. The core never takes it on its own for
// single ops; read-modify-write sequences that must not interleave with other
// writers (write protection updates) hold it for their whole duration.
//
// Implementations live in sub-packages: mock (simulated chip for tests),
// periphspi (periph.io spi.Conn) and spidev (Linux spidev ioctls).
package spimem
