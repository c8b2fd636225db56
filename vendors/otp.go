package vendors

import (
	"github.com/moffa90/go-spinor/part"
	"github.com/moffa90/go-spinor/regs"
	"github.com/moffa90/go-spinor/spimem"
)

// lockBitOTP locks OTP regions with one-time lock bits in a register.
// Region n is locked by bit first+n.
type lockBitOTP struct {
	access *regs.Access
	first  uint
}

var _ part.OTPOps = lockBitOTP{}

func (o lockBitOTP) bit(index int) uint32 {
	return 1 << (o.first + uint(index))
}

// Lock sets the lock bit of region index and verifies it stuck.
func (o lockBitOTP) Lock(t spimem.Transport, index int) error {
	return regs.UpdateVerify(t, o.access, 0, o.bit(index), false)
}

// Locked reports the lock bit of region index.
func (o lockBitOTP) Locked(t spimem.Transport, index int) (bool, error) {
	v, err := regs.Read(t, o.access)
	if err != nil {
		return false, err
	}
	return v&o.bit(index) != 0, nil
}
