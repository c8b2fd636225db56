package regs

import (
	"fmt"

	"github.com/moffa90/go-spinor/spimem"
)

// Read reads the logical register value.
func Read(t spimem.Transport, a *Access) (uint32, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	if t == nil {
		return 0, spimem.ErrInvalidParameter
	}

	if a.Kind == Normal {
		return readDesc(t, a, a.Descs[0])
	}

	var val uint32
	shift := uint(0)
	for _, d := range a.Descs {
		v, err := readDesc(t, a, d)
		if err != nil {
			return 0, err
		}
		val |= v << shift
		shift += 8 * uint(descWidth(d))
	}
	return val, nil
}

// Write writes v to the logical register. A volatile write uses the
// descriptor's volatile write opcode and the 0x50 write enable where the
// access declares them.
func Write(t spimem.Transport, a *Access, v uint32, volatile bool) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if t == nil {
		return spimem.ErrInvalidParameter
	}

	d := a.Descs[0]
	opcode := d.WriteOpcode
	if a.Flags&SRWriteOpcode != 0 {
		opcode = spimem.OpWriteSR
	}
	if volatile && d.VolatileWriteOpcode != 0 {
		opcode = d.VolatileWriteOpcode
	}

	buf := encodeAccess(a, v)
	op := spimem.NewRegWriteOp(opcode, d.AddrLen, d.Addr, d.WriteDummy, buf)
	if !t.Supports(op) {
		return fmt.Errorf("write %s: %s: %w", a, op, spimem.ErrUnsupported)
	}

	if a.Flags&NoWriteEnable == 0 {
		wren := uint8(spimem.OpWriteEnable)
		if volatile && a.Flags&VolatileWriteEnable != 0 {
			wren = spimem.OpVolatileSRWriteEnable
		}
		if err := spimem.ExecuteChecked(t, spimem.NewCmdOp(wren)); err != nil {
			return fmt.Errorf("write %s: write enable: %w", a, err)
		}
	}

	if err := t.Execute(op); err != nil {
		return fmt.Errorf("write %s: %w", a, err)
	}
	return nil
}

// Update reads the register, clears the bits of clear, sets the bits of set
// and writes the result back.
func Update(t spimem.Transport, a *Access, clear, set uint32, volatile bool) error {
	v, err := Read(t, a)
	if err != nil {
		return err
	}
	return Write(t, a, (v&^clear)|set, volatile)
}

// UpdateVerify is Update followed by a read back. If the bits covered by
// clear|set do not hold the requested value, it returns a
// *DeviceMismatchError.
func UpdateVerify(t spimem.Transport, a *Access, clear, set uint32, volatile bool) error {
	if err := Update(t, a, clear, set, volatile); err != nil {
		return err
	}
	return Verify(t, a, clear|set, set)
}

// Verify reads the register and checks that the bits of mask equal want.
func Verify(t spimem.Transport, a *Access, mask, want uint32) error {
	got, err := Read(t, a)
	if err != nil {
		return err
	}
	if got&mask != want&mask {
		return &DeviceMismatchError{
			Register: a.String(),
			Mask:     mask,
			Wrote:    want & mask,
			Read:     got & mask,
		}
	}
	return nil
}

func readDesc(t spimem.Transport, a *Access, d Descriptor) (uint32, error) {
	buf := make([]byte, descWidth(d))
	op := spimem.NewRegReadOp(d.ReadOpcode, d.AddrLen, d.Addr, d.ReadDummy, buf)
	if err := spimem.ExecuteChecked(t, op); err != nil {
		return 0, fmt.Errorf("read %s: %w", a, err)
	}
	return decode(buf, a.Flags&BigEndian != 0), nil
}

func decode(buf []byte, bigEndian bool) uint32 {
	var v uint32
	for i, b := range buf {
		if bigEndian {
			v = v<<8 | uint32(b)
		} else {
			v |= uint32(b) << (8 * uint(i))
		}
	}
	return v
}

// encodeAccess lays out v as the data phase of a write. A ReadManyWriteOnce
// access sends its descriptors in order, each in the access byte order, the
// same way Read stacks them.
func encodeAccess(a *Access, v uint32) []byte {
	bigEndian := a.Flags&BigEndian != 0
	if a.Kind != ReadManyWriteOnce {
		return encode(v, a.Width(), bigEndian)
	}
	buf := make([]byte, 0, a.Width())
	shift := uint(0)
	for _, d := range a.Descs {
		w := int(descWidth(d))
		buf = append(buf, encode(v>>shift, w, bigEndian)...)
		shift += 8 * uint(w)
	}
	return buf
}

func encode(v uint32, width int, bigEndian bool) []byte {
	buf := make([]byte, width)
	for i := range buf {
		if bigEndian {
			buf[width-1-i] = byte(v >> (8 * uint(i)))
		} else {
			buf[i] = byte(v >> (8 * uint(i)))
		}
	}
	return buf
}
