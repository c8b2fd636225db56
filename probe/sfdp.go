package probe

import (
	"github.com/moffa90/go-spinor/sfdp"
	"github.com/moffa90/go-spinor/spimem"
)

// sfdpChunk bounds the data phase of one SFDP read.
const sfdpChunk = 64

// busSFDP reads the SFDP space with the 0x5A opcode.
type busSFDP struct {
	bus spimem.Transport
}

var _ sfdp.ReaderAt = busSFDP{}

// SFDPReadAt implements sfdp.ReaderAt.
func (r busSFDP) SFDPReadAt(offset uint32, out []byte) error {
	for len(out) > 0 {
		n := len(out)
		if n > sfdpChunk {
			n = sfdpChunk
		}
		op := spimem.NewRegReadOp(spimem.OpReadSFDP, spimem.AddrLen3B, offset&0x00FFFFFF,
			spimem.SFDPDummyCycles, out[:n])
		if err := spimem.ExecuteChecked(r.bus, op); err != nil {
			return err
		}
		out = out[n:]
		offset += uint32(n)
	}
	return nil
}
