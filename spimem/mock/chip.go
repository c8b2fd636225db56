// Package mock provides a simulated SPI-NOR chip implementing
// spimem.Transport, for tests and examples.
//
// The chip answers JEDEC ID and SFDP reads, keeps a small byte-addressed
// register file and models the write enable latch. Registers are declared
// by name and bound to the opcodes that read and write them:
//
//	c := mock.New([]byte{0xEF, 0x40, 0x18})
//	c.AddRegister("SR1", spimem.OpReadSR, 0x00)
//	c.AddRegister("SR2", spimem.OpReadCR, 0x02)
//	c.MapWrite(spimem.OpWriteSR, "SR1", "SR2")
//
// WriteFilter lets a test model bits that do not stick, which is how write
// verification and rollback paths are exercised.
package mock

import (
	"fmt"
	"sync"

	"github.com/moffa90/go-spinor/spimem"
)

// Record is one executed op, kept in Chip.History.
type Record struct {
	Opcode uint8
	Addr   uint32
	Dir    spimem.DataDir
	Data   []byte

	// Locked is true if the bus lock was held while the op ran
	Locked bool
}

type regKey struct {
	opcode uint8
	addr   uint32
}

type register struct {
	name string
	val  byte
}

type writeMap struct {
	regs    []*register
	needWEL bool
}

// Chip is a simulated SPI-NOR chip.
type Chip struct {
	mu     sync.Mutex
	locked bool

	id   []byte
	sfdp []byte

	regs   map[string]*register
	reads  map[regKey][]*register
	writes map[regKey]*writeMap

	wel         bool
	volatileWEL bool

	// MaxAddrLen is the longest address phase Supports accepts.
	MaxAddrLen uint8

	// Reject, if set, makes Supports return false for matching ops.
	Reject func(op *spimem.Op) bool

	// WriteFilter, if set, decides the value a register actually takes when
	// written. It receives the register name, the old and the requested value.
	WriteFilter func(name string, old, requested byte) byte

	// ExecErr, if set, is returned by Execute for the given opcode.
	ExecErr map[uint8]error

	// History lists every executed op in order.
	History []Record
}

var _ spimem.Transport = (*Chip)(nil)

// New creates a chip answering id to JEDEC ID reads.
func New(id []byte) *Chip {
	return &Chip{
		id:         append([]byte(nil), id...),
		regs:       make(map[string]*register),
		reads:      make(map[regKey][]*register),
		writes:     make(map[regKey]*writeMap),
		MaxAddrLen: spimem.MaxAddrLen,
	}
}

// SetSFDP installs the SFDP image answered to 0x5A reads.
func (c *Chip) SetSFDP(image []byte) {
	c.sfdp = append([]byte(nil), image...)
}

// AddRegister declares a one-byte register read by opcode.
func (c *Chip) AddRegister(name string, readOpcode uint8, init byte) {
	c.AddRegisterAt(name, readOpcode, 0, init)
}

// AddRegisterAt declares a one-byte address-mapped register read by opcode
// at addr. A register may be added several times under different opcodes.
func (c *Chip) AddRegisterAt(name string, readOpcode uint8, addr uint32, init byte) {
	r, ok := c.regs[name]
	if !ok {
		r = &register{name: name, val: init}
		c.regs[name] = r
	}
	k := regKey{readOpcode, addr}
	c.reads[k] = append(c.reads[k], r)
}

// MapWrite binds a write opcode to registers. Successive data bytes of the
// write go to the listed registers in order. The write needs the write
// enable latch.
func (c *Chip) MapWrite(opcode uint8, names ...string) {
	c.mapWrite(regKey{opcode, 0}, true, names)
}

// MapWriteAt is MapWrite for an address-mapped write.
func (c *Chip) MapWriteAt(opcode uint8, addr uint32, names ...string) {
	c.mapWrite(regKey{opcode, addr}, true, names)
}

// MapWriteNoWEL binds a write opcode that does not need write enable.
func (c *Chip) MapWriteNoWEL(opcode uint8, names ...string) {
	c.mapWrite(regKey{opcode, 0}, false, names)
}

func (c *Chip) mapWrite(k regKey, needWEL bool, names []string) {
	wm := &writeMap{needWEL: needWEL}
	for _, n := range names {
		r, ok := c.regs[n]
		if !ok {
			panic(fmt.Sprintf("mock: write mapped to unknown register %q", n))
		}
		wm.regs = append(wm.regs, r)
	}
	c.writes[k] = wm
}

// Register returns the current value of a register.
func (c *Chip) Register(name string) byte {
	if r, ok := c.regs[name]; ok {
		return r.val
	}
	return 0xFF
}

// SetRegister sets a register value directly, bypassing the write path.
func (c *Chip) SetRegister(name string, v byte) {
	if r, ok := c.regs[name]; ok {
		r.val = v
	}
}

// WriteEnabled reports the write enable latch state.
func (c *Chip) WriteEnabled() bool {
	return c.wel
}

// Opcodes returns the opcodes of History in order.
func (c *Chip) Opcodes() []uint8 {
	ops := make([]uint8, len(c.History))
	for i, r := range c.History {
		ops[i] = r.Opcode
	}
	return ops
}

// ResetHistory clears History.
func (c *Chip) ResetHistory() {
	c.History = nil
}

// Lock implements spimem.Transport.
func (c *Chip) Lock() {
	c.mu.Lock()
	c.locked = true
}

// Unlock implements spimem.Transport.
func (c *Chip) Unlock() {
	c.locked = false
	c.mu.Unlock()
}

// Supports implements spimem.Transport.
func (c *Chip) Supports(op *spimem.Op) bool {
	if op.Addr.Len > c.MaxAddrLen {
		return false
	}
	if c.Reject != nil && c.Reject(op) {
		return false
	}
	return true
}

// Execute implements spimem.Transport.
func (c *Chip) Execute(op *spimem.Op) error {
	rec := Record{
		Opcode: op.Cmd.Opcode,
		Addr:   op.Addr.Value,
		Dir:    op.Data.Dir,
		Locked: c.locked,
	}
	defer func() { c.History = append(c.History, rec) }()

	if err, ok := c.ExecErr[op.Cmd.Opcode]; ok {
		return err
	}

	switch op.Cmd.Opcode {
	case spimem.OpReadID:
		fill(op.Data.Buf, c.id, 0)
		rec.Data = append([]byte(nil), op.Data.Buf...)
		return nil
	case spimem.OpReadSFDP:
		fill(op.Data.Buf, c.sfdp, int(op.Addr.Value))
		rec.Data = append([]byte(nil), op.Data.Buf...)
		return nil
	case spimem.OpWriteEnable:
		c.wel = true
		return nil
	case spimem.OpVolatileSRWriteEnable:
		c.volatileWEL = true
		return nil
	case spimem.OpWriteDisable:
		c.wel = false
		c.volatileWEL = false
		return nil
	}

	k := regKey{op.Cmd.Opcode, 0}
	if op.Addr.Len > 0 {
		k.addr = op.Addr.Value
	}

	switch op.Data.Dir {
	case spimem.DirIn:
		regs, ok := c.reads[k]
		if !ok {
			for i := range op.Data.Buf {
				op.Data.Buf[i] = 0xFF
			}
		} else {
			for i := range op.Data.Buf {
				op.Data.Buf[i] = regs[i%len(regs)].val
			}
		}
		rec.Data = append([]byte(nil), op.Data.Buf...)
	case spimem.DirOut:
		rec.Data = append([]byte(nil), op.Data.Buf...)
		wm, ok := c.writes[k]
		if !ok {
			return nil
		}
		if wm.needWEL && !c.wel && !c.volatileWEL {
			return nil
		}
		for i, b := range op.Data.Buf {
			if i >= len(wm.regs) {
				break
			}
			r := wm.regs[i]
			if c.WriteFilter != nil {
				b = c.WriteFilter(r.name, r.val, b)
			}
			r.val = b
		}
		c.wel = false
		c.volatileWEL = false
	}
	return nil
}

// fill copies src[off:] into dst, padding with 0xFF past the end of src.
func fill(dst, src []byte, off int) {
	for i := range dst {
		if off+i < len(src) {
			dst[i] = src[off+i]
		} else {
			dst[i] = 0xFF
		}
	}
}
