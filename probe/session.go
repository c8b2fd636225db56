package probe

import (
	"fmt"

	"github.com/moffa90/go-spinor/part"
	"github.com/moffa90/go-spinor/regs"
	"github.com/moffa90/go-spinor/sfdp"
	"github.com/moffa90/go-spinor/spimem"
	"github.com/moffa90/go-spinor/wp"
)

// Session is a probed chip with its committed parameters.
//
// The region list is computed from the committed write protection table on
// first use and cached for the life of the session.
type Session struct {
	// Params are the committed part parameters
	Params *part.Part

	// Vendor is the vendor whose catalog the part came from
	Vendor *part.Vendor

	// AliasVendor is set when the part was matched by another vendor's
	// alias
	AliasVendor *part.Vendor

	// ID is the JEDEC ID read from the chip
	ID []byte

	// SFDP is the parsed SFDP space, or nil
	SFDP *sfdp.SFDP

	bus     spimem.Transport
	regions wp.RegionCache
	logSink
}

// Bus returns the transport of the session.
func (s *Session) Bus() spimem.Transport {
	return s.bus
}

// Size returns the chip size in bytes.
func (s *Session) Size() uint64 {
	return s.Params.Size
}

// Regions returns the distinct write protection regions of the part.
func (s *Session) Regions() ([]wp.Region, error) {
	if s.Params.WP == nil {
		return nil, fmt.Errorf("%s: no write protection table: %w", s.Params.Model, spimem.ErrUnsupported)
	}
	return s.regions.Get(s.Params.WP, s.Params.Size), nil
}

// CurrentRegion reads and decodes the protection state.
func (s *Session) CurrentRegion() (wp.Region, error) {
	s.bus.Lock()
	defer s.bus.Unlock()
	return wp.CurrentRegion(s.bus, s.Params.WP, s.Params.Size)
}

// SetRegion protects region. The bus lock is held for the whole
// read-modify-write-verify sequence.
func (s *Session) SetRegion(region wp.Region) error {
	return s.setRegion(region, false)
}

// SetRegionVolatile protects region until the next power cycle. It needs a
// part with volatile status register bits.
func (s *Session) SetRegionVolatile(region wp.Region) error {
	if !s.Params.Flags.Has(part.SRVolatile) {
		return fmt.Errorf("%s: no volatile status register: %w", s.Params.Model, spimem.ErrUnsupported)
	}
	return s.setRegion(region, true)
}

func (s *Session) setRegion(region wp.Region, volatile bool) error {
	s.bus.Lock()
	defer s.bus.Unlock()

	set := wp.SetRegion
	if volatile {
		set = wp.SetRegionVolatile
	}
	if err := set(s.bus, s.Params.WP, s.Params.Size, region); err != nil {
		s.logError("set protection failed", "region", region.String(), "volatile", volatile, "error", err)
		return err
	}
	s.logInfo("protection set", "region", region.String(), "volatile", volatile)
	return nil
}

// ReadRegister reads a register under the bus lock.
func (s *Session) ReadRegister(a *regs.Access) (uint32, error) {
	s.bus.Lock()
	defer s.bus.Unlock()
	return regs.Read(s.bus, a)
}

// WriteRegister writes a register under the bus lock.
func (s *Session) WriteRegister(a *regs.Access, v uint32, volatile bool) error {
	s.bus.Lock()
	defer s.bus.Unlock()
	return regs.Write(s.bus, a, v, volatile)
}

// UpdateRegister clears and sets bits of a register. The read and the write
// happen under one bus lock.
func (s *Session) UpdateRegister(a *regs.Access, clear, set uint32, volatile bool) error {
	s.bus.Lock()
	defer s.bus.Unlock()
	return regs.Update(s.bus, a, clear, set, volatile)
}

// ReadOpcode returns the read opcode for io in the addressing mode the part
// operates in.
func (s *Session) ReadOpcode(io spimem.IO) (part.Opcode, bool) {
	if io >= spimem.IOCount {
		return part.Opcode{}, false
	}
	p := s.Params
	if p.Needs4B() && p.Uses4BOpcodes() {
		op := p.Read4B[io]
		return op, op.Valid
	}
	op := p.Read3B[io]
	return op, op.Valid
}

// OTPLock locks OTP region index.
func (s *Session) OTPLock(index int) error {
	if err := s.checkOTP(index); err != nil {
		return err
	}
	s.bus.Lock()
	defer s.bus.Unlock()
	return s.Params.OTPOps.Lock(s.bus, index)
}

// OTPLocked reports whether OTP region index is locked.
func (s *Session) OTPLocked(index int) (bool, error) {
	if err := s.checkOTP(index); err != nil {
		return false, err
	}
	s.bus.Lock()
	defer s.bus.Unlock()
	return s.Params.OTPOps.Locked(s.bus, index)
}

func (s *Session) checkOTP(index int) error {
	if s.Params.OTP == nil || s.Params.OTPOps == nil {
		return fmt.Errorf("%s: no otp: %w", s.Params.Model, spimem.ErrUnsupported)
	}
	if index < 0 || index >= s.Params.OTP.Count {
		return fmt.Errorf("otp region %d of %d: %w", index, s.Params.OTP.Count, spimem.ErrInvalidParameter)
	}
	return nil
}
