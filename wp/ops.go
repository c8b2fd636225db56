package wp

import (
	"fmt"

	"github.com/moffa90/go-spinor/regs"
	"github.com/moffa90/go-spinor/spimem"
)

// CurrentRegion reads the protect bits and decodes them.
func CurrentRegion(t spimem.Transport, info *Info, chipSize uint64) (Region, error) {
	if info == nil {
		return Region{}, spimem.ErrUnsupported
	}
	v, err := regs.Read(t, info.Access)
	if err != nil {
		return Region{}, err
	}
	return Decode(info, chipSize, v)
}

// SetRegion writes the protect bits selecting region and reads them back.
//
// If the read back differs, the protect bits are cleared (unprotected) and
// read back again before the *regs.DeviceMismatchError is returned. If the
// bits cannot be cleared either, the error also matches ErrRollbackFailed
// and the device state is unknown. The caller holds the bus lock.
func SetRegion(t spimem.Transport, info *Info, chipSize uint64, region Region) error {
	return setRegion(t, info, chipSize, region, false)
}

// SetRegionVolatile is SetRegion on the volatile copy of the protect bits.
// The setting lasts until the next power cycle and does not wear the
// non-volatile register.
func SetRegionVolatile(t spimem.Transport, info *Info, chipSize uint64, region Region) error {
	return setRegion(t, info, chipSize, region, true)
}

func setRegion(t spimem.Transport, info *Info, chipSize uint64, region Region, volatile bool) error {
	r, err := Lookup(info, chipSize, region)
	if err != nil {
		return err
	}

	set := r.SRVal & info.Mask
	if err := regs.Update(t, info.Access, info.Mask, set, volatile); err != nil {
		return fmt.Errorf("set protection %s: %w", region, err)
	}

	verr := regs.Verify(t, info.Access, info.Mask, set)
	if verr == nil {
		return nil
	}

	if err := rollback(t, info, volatile); err != nil {
		return fmt.Errorf("set protection %s: %w; %w: %w", region, verr, ErrRollbackFailed, err)
	}
	return fmt.Errorf("set protection %s: %w", region, verr)
}

// rollback clears the protect bits and checks that they read back clear.
func rollback(t spimem.Transport, info *Info, volatile bool) error {
	if err := regs.Update(t, info.Access, info.Mask, 0, volatile); err != nil {
		return err
	}
	return regs.Verify(t, info.Access, info.Mask, 0)
}
