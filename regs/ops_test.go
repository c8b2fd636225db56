package regs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moffa90/go-spinor/spimem"
	"github.com/moffa90/go-spinor/spimem/mock"
)

func newChip() *mock.Chip {
	c := mock.New([]byte{0xEF, 0x40, 0x18})
	c.AddRegister("SR1", spimem.OpReadSR, 0x00)
	c.AddRegister("SR2", spimem.OpReadCR, 0x00)
	c.AddRegister("SR3", spimem.OpReadSR3, 0x00)
	c.MapWrite(spimem.OpWriteSR, "SR1", "SR2")
	c.MapWrite(spimem.OpWriteSR2, "SR2")
	c.MapWrite(spimem.OpWriteSR3, "SR3")
	return c
}

func TestRead(t *testing.T) {
	c := newChip()
	c.SetRegister("SR1", 0x1C)
	c.SetRegister("SR2", 0x42)

	v, err := Read(c, SR)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x1C), v)

	v, err = Read(c, SRCR)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x421C), v, "descriptor 0 occupies the low bits")
	assert.Equal(t, []uint8{spimem.OpReadSR, spimem.OpReadCR}, c.Opcodes()[1:])
}

func TestRead_Endianness(t *testing.T) {
	c := mock.New(nil)
	c.AddRegister("A", 0x65, 0x12)
	c.AddRegister("B", 0x65, 0x34)

	le := &Access{Kind: Normal, Descs: []Descriptor{{ReadOpcode: 0x65, Width: 2}}}
	v, err := Read(c, le)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x3412), v)

	be := &Access{Kind: Normal, Descs: []Descriptor{{ReadOpcode: 0x65, Width: 2}}, Flags: BigEndian}
	v, err = Read(c, be)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x1234), v)
}

func TestUpdate_BigEndianStack(t *testing.T) {
	c := mock.New(nil)
	c.AddRegister("SR1", spimem.OpReadSR, 0x1C)
	c.AddRegister("SR2", spimem.OpReadCR, 0x42)
	c.MapWrite(spimem.OpWriteSR, "SR1", "SR2")

	a := &Access{
		Name:  "SR1+SR2",
		Kind:  ReadManyWriteOnce,
		Flags: BigEndian,
		Descs: []Descriptor{
			{ReadOpcode: spimem.OpReadSR, WriteOpcode: spimem.OpWriteSR, Width: 1},
			{ReadOpcode: spimem.OpReadCR, Width: 1},
		},
	}

	v, err := Read(c, a)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x421C), v)

	require.NoError(t, Update(c, a, 0, 0, false))
	assert.Equal(t, byte(0x1C), c.Register("SR1"))
	assert.Equal(t, byte(0x42), c.Register("SR2"))

	require.NoError(t, Update(c, a, 0xFF00, 0x0100, false))
	assert.Equal(t, byte(0x1C), c.Register("SR1"))
	assert.Equal(t, byte(0x01), c.Register("SR2"))

	v, err = Read(c, a)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x011C), v)
}

func TestWrite(t *testing.T) {
	tests := []struct {
		name     string
		access   *Access
		value    uint32
		volatile bool
		wantOps  []uint8
		wantSR1  byte
		wantSR2  byte
	}{
		{
			name:    "normal",
			access:  SR,
			value:   0x1C,
			wantOps: []uint8{spimem.OpWriteEnable, spimem.OpWriteSR},
			wantSR1: 0x1C,
		},
		{
			name:    "read many write once",
			access:  SRCR,
			value:   0x421C,
			wantOps: []uint8{spimem.OpWriteEnable, spimem.OpWriteSR},
			wantSR1: 0x1C,
			wantSR2: 0x42,
		},
		{
			name:     "volatile write enable",
			access:   SRCRVolatile,
			value:    0x0204,
			volatile: true,
			wantOps:  []uint8{spimem.OpVolatileSRWriteEnable, spimem.OpWriteSR},
			wantSR1:  0x04,
			wantSR2:  0x02,
		},
		{
			name:     "non-volatile write ignores 0x50",
			access:   SRCRVolatile,
			value:    0x0204,
			volatile: false,
			wantOps:  []uint8{spimem.OpWriteEnable, spimem.OpWriteSR},
			wantSR1:  0x04,
			wantSR2:  0x02,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newChip()
			require.NoError(t, Write(c, tt.access, tt.value, tt.volatile))
			assert.Equal(t, tt.wantOps, c.Opcodes())
			assert.Equal(t, tt.wantSR1, c.Register("SR1"))
			assert.Equal(t, tt.wantSR2, c.Register("SR2"))
		})
	}
}

func TestWrite_NoWriteEnable(t *testing.T) {
	c := mock.New(nil)
	c.AddRegister("EAR", spimem.OpReadEAR, 0x00)
	c.MapWriteNoWEL(spimem.OpWriteEAR, "EAR")

	ear := &Access{
		Kind:  Normal,
		Descs: []Descriptor{{ReadOpcode: spimem.OpReadEAR, WriteOpcode: spimem.OpWriteEAR, Width: 1}},
		Flags: NoWriteEnable,
	}
	require.NoError(t, Write(c, ear, 0x01, false))
	assert.Equal(t, []uint8{spimem.OpWriteEAR}, c.Opcodes())
	assert.Equal(t, byte(0x01), c.Register("EAR"))
}

func TestWrite_VolatileOpcode(t *testing.T) {
	c := mock.New(nil)
	c.AddRegister("NV", 0xB5, 0xFF)
	c.AddRegister("V", 0x85, 0xFF)
	c.MapWrite(0xB1, "NV")
	c.MapWrite(0x81, "V")

	cfg := &Access{
		Kind:  Normal,
		Descs: []Descriptor{{ReadOpcode: 0x85, WriteOpcode: 0xB1, VolatileWriteOpcode: 0x81, Width: 1}},
	}
	require.NoError(t, Write(c, cfg, 0x7F, true))
	assert.Equal(t, byte(0x7F), c.Register("V"))
	assert.Equal(t, byte(0xFF), c.Register("NV"))
}

func TestWrite_SRWriteOpcode(t *testing.T) {
	c := newChip()
	a := &Access{
		Kind:  Normal,
		Descs: []Descriptor{{ReadOpcode: spimem.OpReadSR, WriteOpcode: 0x99, Width: 1}},
		Flags: SRWriteOpcode,
	}
	require.NoError(t, Write(c, a, 0x0C, false))
	assert.Equal(t, []uint8{spimem.OpWriteEnable, spimem.OpWriteSR}, c.Opcodes())
}

func TestUpdate(t *testing.T) {
	c := newChip()
	c.SetRegister("SR1", 0xFC)
	c.SetRegister("SR2", 0x02)

	require.NoError(t, Update(c, SRCR, 0x001C, 0x0008, false))
	assert.Equal(t, byte(0xE8), c.Register("SR1"))
	assert.Equal(t, byte(0x02), c.Register("SR2"))
}

func TestUpdateVerify(t *testing.T) {
	c := newChip()
	require.NoError(t, UpdateVerify(c, SR, 0x1C, 0x0C, false))
	assert.Equal(t, byte(0x0C), c.Register("SR1"))

	// SRP bit is hardwired to zero
	c.WriteFilter = func(name string, old, requested byte) byte {
		return requested &^ 0x80
	}
	err := UpdateVerify(c, SR, 0x80, 0x80, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDeviceMismatch))

	var mismatch *DeviceMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, uint32(0x80), mismatch.Wrote)
	assert.Equal(t, uint32(0x00), mismatch.Read)
}

func TestUnsupported(t *testing.T) {
	c := newChip()
	c.MaxAddrLen = 3

	mapped := &Access{
		Name:  "CR2",
		Kind:  Normal,
		Descs: []Descriptor{{ReadOpcode: 0x71, WriteOpcode: 0x72, AddrLen: 4, Addr: 0x00800003, ReadDummy: 8, Width: 1}},
	}
	_, err := Read(c, mapped)
	assert.ErrorIs(t, err, spimem.ErrUnsupported)

	err = Write(c, mapped, 0x01, false)
	assert.ErrorIs(t, err, spimem.ErrUnsupported)
	assert.Empty(t, c.History, "nothing may reach the bus")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		access *Access
	}{
		{"nil", nil},
		{"no descriptors", &Access{Kind: Normal}},
		{"normal with two descriptors", &Access{Kind: Normal, Descs: []Descriptor{{}, {}}}},
		{"five descriptors", &Access{Kind: ReadManyWriteOnce, Descs: make([]Descriptor, 5)}},
		{"too wide", &Access{Kind: ReadManyWriteOnce, Descs: []Descriptor{{Width: 4}, {Width: 1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.access.Validate(), spimem.ErrInvalidParameter)
		})
	}

	for _, a := range []*Access{SR, CR, SR3, SRCR, SRCRVolatile, MacronixSRCR} {
		assert.NoError(t, a.Validate(), a.Name)
	}
}

func TestMask(t *testing.T) {
	assert.Equal(t, uint32(0xFF), SR.Mask())
	assert.Equal(t, uint32(0xFFFF), SRCR.Mask())
}
