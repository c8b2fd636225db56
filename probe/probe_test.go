package probe

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moffa90/go-spinor/part"
	"github.com/moffa90/go-spinor/regs"
	"github.com/moffa90/go-spinor/sfdp"
	"github.com/moffa90/go-spinor/spimem"
	"github.com/moffa90/go-spinor/spimem/mock"
	"github.com/moffa90/go-spinor/vendors"
	"github.com/moffa90/go-spinor/wp"
)

// recordLogger keeps every message for inspection.
type recordLogger struct {
	lines []string
}

func (l *recordLogger) Debug(msg string, kv ...interface{}) { l.add("DEBUG", msg) }
func (l *recordLogger) Info(msg string, kv ...interface{})  { l.add("INFO", msg) }
func (l *recordLogger) Error(msg string, kv ...interface{}) { l.add("ERROR", msg) }

func (l *recordLogger) add(level, msg string) {
	l.lines = append(l.lines, fmt.Sprintf("%s %s", level, msg))
}

func sfdpImage(minor uint8, dword1, density uint32) []byte {
	return sfdp.Build(minor, sfdp.Table{
		ID:       sfdp.BasicTableID,
		MinorRev: minor,
		MajorRev: 1,
		Dwords:   []uint32{dword1, density, 0x6B08EB44, 0xBB423B08, 0xFFFFFFFE, 0x0000FFFF, 0xEB40FFFF, 0x520F200C, 0x0000D810},
	})
}

// winbondChip simulates a Winbond-style part with SR1-SR3.
func winbondChip(id []byte, image []byte) *mock.Chip {
	c := mock.New(id)
	c.SetSFDP(image)
	c.AddRegister("SR1", spimem.OpReadSR, 0x00)
	c.AddRegister("SR2", spimem.OpReadCR, 0x02)
	c.AddRegister("SR3", spimem.OpReadSR3, 0x60)
	c.MapWrite(spimem.OpWriteSR, "SR1", "SR2")
	c.MapWrite(spimem.OpWriteSR2, "SR2")
	c.MapWrite(spimem.OpWriteSR3, "SR3")
	return c
}

func TestProbe_W25Q64JV(t *testing.T) {
	c := winbondChip([]byte{0xEF, 0x40, 0x17}, sfdpImage(6, 0xFFF920E5, 0x03FFFFFF))
	log := &recordLogger{}

	s, err := New(c, vendors.Default(), WithLogger(log)).Probe(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "W25Q64JV", s.Params.Model)
	assert.Equal(t, "Winbond", s.Vendor.Name)
	assert.Equal(t, []byte{0xEF, 0x40, 0x17, 0xFF, 0xFF, 0xFF}, s.ID)
	assert.Equal(t, uint64(8*spimem.MiB), s.Size())
	require.NotNil(t, s.SFDP)
	assert.Same(t, c, s.Bus())

	op, ok := s.ReadOpcode(spimem.IO144)
	require.True(t, ok)
	assert.Equal(t, uint8(spimem.OpFastReadQuadIO), op.Op)
	_, ok = s.ReadOpcode(spimem.IO444)
	assert.False(t, ok)

	for _, r := range c.History {
		assert.True(t, r.Locked, "op 0x%02X ran without the bus lock", r.Opcode)
	}
	assert.Contains(t, log.lines, "INFO probe complete")

	// the catalog entry is untouched
	assert.Nil(t, vendors.Winbond.Parts[1].OTPOps)
	assert.NotNil(t, s.Params.OTPOps)
}

func TestProbe_ResolvesGenericPart(t *testing.T) {
	tests := []struct {
		name  string
		minor uint8
		model string
		qpi   bool
	}{
		{"JESD216B", 6, "W25Q128JV", false},
		{"JESD216", 0, "W25Q128FV", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := winbondChip([]byte{0xEF, 0x40, 0x18}, sfdpImage(tt.minor, 0xFFF920E5, 0x07FFFFFF))
			s, err := New(c, vendors.Default()).Probe(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.model, s.Params.Model)
			assert.False(t, s.Params.Flags.Has(part.Meta))
			assert.Equal(t, tt.qpi, s.Params.Flags.Has(part.QPI))
		})
	}
}

func TestProbe_GenericPartNeedsSFDP(t *testing.T) {
	c := winbondChip([]byte{0xEF, 0x40, 0x18}, nil)
	_, err := New(c, vendors.Default()).Probe(context.Background())
	assert.ErrorIs(t, err, sfdp.ErrNotSupported)

	// with SFDP disabled the generic entry is kept
	s, err := New(c, vendors.Default(), WithSFDP(false)).Probe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "W25Q128", s.Params.Model)
	assert.Nil(t, s.SFDP)
}

func TestProbe_MissingSFDPIsNotFatal(t *testing.T) {
	c := winbondChip([]byte{0xEF, 0x40, 0x17}, nil)
	s, err := New(c, vendors.Default()).Probe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "W25Q64JV", s.Params.Model)
	assert.Nil(t, s.SFDP)
}

func TestProbe_UnknownID(t *testing.T) {
	c := mock.New([]byte{0x01, 0x02, 0x03})
	_, err := New(c, vendors.Default()).Probe(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, part.ErrPartNotFound)
	assert.True(t, IsUnknownID(err))
	assert.Contains(t, err.Error(), "010203")
}

func TestProbe_IDReadError(t *testing.T) {
	c := mock.New(nil)
	c.ExecErr = map[uint8]error{spimem.OpReadID: errors.New("bus fault")}
	_, err := New(c, vendors.Default()).Probe(context.Background())
	assert.EqualError(t, err, "read id: bus fault")
}

func TestProbe_ForcePart(t *testing.T) {
	c := mock.New([]byte{0x9D, 0x60, 0x17})
	s, err := New(c, vendors.Default(), WithForcePart("pm25lq064"), WithSFDP(false)).Probe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "IS25LP064", s.Params.Model)
	assert.Equal(t, "ISSI", s.Vendor.Name)
	require.NotNil(t, s.AliasVendor)
	assert.Equal(t, "PMC", s.AliasVendor.Name)

	_, err = New(c, vendors.Default(), WithForcePart("nope")).Probe(context.Background())
	assert.ErrorIs(t, err, part.ErrPartNotFound)
}

func TestForcePart_AliasVendorAfterReprobe(t *testing.T) {
	other := &part.Vendor{ID: "other", Name: "Other"}
	reg := part.NewRegistry(
		&part.Vendor{ID: "test", Name: "Test", Parts: []part.Part{
			{Model: "A", ID: []byte{0x01}, Aliases: []part.Alias{{Vendor: "other", Model: "X"}}, Fixups: loop{target: "B"}},
			{Model: "B", Size: spimem.MiB},
		}},
		other,
	)

	s, err := New(mock.New([]byte{0x01}), reg, WithForcePart("x"), WithSFDP(false)).Probe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "B", s.Params.Model)
	assert.Equal(t, "Test", s.Vendor.Name)
	assert.Nil(t, s.AliasVendor)
}

func TestProbe_IDLength(t *testing.T) {
	c := winbondChip([]byte{0xEF, 0x40, 0x17}, nil)
	s, err := New(c, vendors.Default(), WithIDLength(3), WithIDLength(9)).Probe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte{0xEF, 0x40, 0x17}, s.ID)
}

func macronixChip(cr byte) *mock.Chip {
	c := mock.New([]byte{0xC2, 0x20, 0x18})
	c.SetSFDP(sfdpImage(6, 0xFFF920E5, 0x07FFFFFF))
	c.AddRegister("SR", spimem.OpReadSR, 0x00)
	c.AddRegister("CR", spimem.OpReadSR3, cr)
	c.MapWrite(spimem.OpWriteSR, "SR", "CR")
	return c
}

func TestProbe_TableSubstitutionBeforeCache(t *testing.T) {
	c := macronixChip(0x08 | 0x40)
	s, err := New(c, vendors.Default()).Probe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "MX25L12835F", s.Params.Model)

	regions, err := s.Regions()
	require.NoError(t, err)
	require.Greater(t, len(regions), 2)
	assert.Equal(t, wp.Region{Base: 0, Size: 0x10000}, regions[1], "bottom table is cached")

	op, ok := s.ReadOpcode(spimem.IO144)
	require.True(t, ok)
	assert.Equal(t, uint8(4), op.Dummy)

	// set the lowest 128 KiB and read it back
	require.NoError(t, s.SetRegion(wp.Region{Base: 0, Size: 0x20000}))
	assert.Equal(t, byte(0x08), c.Register("SR"))
	assert.Equal(t, byte(0x48), c.Register("CR"))

	cur, err := s.CurrentRegion()
	require.NoError(t, err)
	assert.Equal(t, wp.Region{Base: 0, Size: 0x20000}, cur)
}

func TestProbe_FixupErrorAborts(t *testing.T) {
	c := macronixChip(0)
	failure := errors.New("bus fault")
	c.ExecErr = map[uint8]error{spimem.OpReadSR3: failure}

	s, err := New(c, vendors.Default()).Probe(context.Background())
	assert.ErrorIs(t, err, failure)
	assert.Nil(t, s)
}

func TestProbe_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := winbondChip([]byte{0xEF, 0x40, 0x17}, nil)
	_, err := New(c, vendors.Default()).Probe(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

// loop reprobes to its target forever.
type loop struct{ target string }

func (l loop) PreParamSetup(ctx *part.FixupContext, bp *part.Blank) error {
	return ctx.Reprobe(bp, l.target)
}

// late reprobes after commit.
type late struct{}

func (late) PreChipSetup(ctx *part.FixupContext, bp *part.Blank) error {
	return ctx.Reprobe(bp, "B")
}

// postParam reprobes from the post-param stage once.
type postParam struct{}

func (postParam) PostParamSetup(ctx *part.FixupContext, bp *part.Blank) error {
	return ctx.Reprobe(bp, "B")
}

func TestProbe_ReprobeLimit(t *testing.T) {
	reg := part.NewRegistry(&part.Vendor{Name: "Test", Parts: []part.Part{
		{Model: "A", ID: []byte{0x01}, Fixups: loop{target: "B"}},
		{Model: "B", Fixups: loop{target: "A"}},
	}})
	c := mock.New([]byte{0x01})

	_, err := New(c, reg, WithMaxReprobe(2)).Probe(context.Background())
	assert.ErrorIs(t, err, part.ErrReprobeLimit)
}

func TestProbe_AltRegistry(t *testing.T) {
	alt := part.NewRegistry(&part.Vendor{Name: "Alt", Parts: []part.Part{{Model: "B", Size: spimem.MiB}}})
	reg := part.NewRegistry(&part.Vendor{Name: "Test", Parts: []part.Part{
		{Model: "A", ID: []byte{0x01}, Fixups: loop{target: "B"}},
	}})
	c := mock.New([]byte{0x01})

	s, err := New(c, reg, WithAltRegistry(alt)).Probe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "B", s.Params.Model)
	assert.Equal(t, "Alt", s.Vendor.Name)
}

func TestProbe_PostParamReprobe(t *testing.T) {
	reg := part.NewRegistry(&part.Vendor{Name: "Test", Parts: []part.Part{
		{Model: "A", ID: []byte{0x01}, Fixups: postParam{}},
		{Model: "B", Size: 2 * spimem.MiB},
	}})
	s, err := New(mock.New([]byte{0x01}), reg).Probe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "B", s.Params.Model)
}

func TestProbe_LateReprobe(t *testing.T) {
	reg := part.NewRegistry(&part.Vendor{Name: "Test", Parts: []part.Part{
		{Model: "A", ID: []byte{0x01}, Fixups: late{}},
		{Model: "B"},
	}})
	_, err := New(mock.New([]byte{0x01}), reg).Probe(context.Background())
	assert.ErrorIs(t, err, ErrLateReprobe)
}

func TestProbe_SFDPFillsSize(t *testing.T) {
	reg := part.NewRegistry(&part.Vendor{Name: "Test", Parts: []part.Part{
		{Model: "BIG", ID: []byte{0x01}, Flags: part.SFDP | part.FourByteOpcodes | part.Erase4K},
	}})
	c := mock.New([]byte{0x01})
	// 256 Mbit, 4K erase opcode 0x20
	c.SetSFDP(sfdpImage(6, 0xFFF920E5, 0x0FFFFFFF))

	s, err := New(c, reg).Probe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(32*spimem.MiB), s.Params.Size)
	assert.False(t, s.Params.Read4B.Empty(), "4-byte tables follow the SFDP size")

	op, ok := s.ReadOpcode(spimem.IO111)
	require.True(t, ok)
	assert.Equal(t, uint8(spimem.OpFastRead4B), op.Op)
}

func TestSession_SetRegionRollback(t *testing.T) {
	c := winbondChip([]byte{0xEF, 0x40, 0x17}, nil)
	log := &recordLogger{}
	s, err := New(c, vendors.Default(), WithLogger(log)).Probe(context.Background())
	require.NoError(t, err)

	// CMP never sticks
	c.WriteFilter = func(name string, old, requested byte) byte {
		if name == "SR2" {
			return requested &^ 0x40
		}
		return requested
	}
	err = s.SetRegion(wp.Region{Base: 0, Size: 0x7E0000})
	require.Error(t, err)
	assert.ErrorIs(t, err, regs.ErrDeviceMismatch)
	assert.Zero(t, c.Register("SR1")&0x7C)
	assert.Zero(t, c.Register("SR2")&0x40)
	assert.Contains(t, log.lines, "ERROR set protection failed")

	cur, err := s.CurrentRegion()
	require.NoError(t, err)
	assert.Equal(t, wp.Region{}, cur)
}

func TestSession_RegionsCachedOnce(t *testing.T) {
	c := winbondChip([]byte{0xEF, 0x40, 0x17}, nil)
	s, err := New(c, vendors.Default()).Probe(context.Background())
	require.NoError(t, err)

	first, err := s.Regions()
	require.NoError(t, err)
	s.Params.WP = &wp.Info{Access: regs.SR, Mask: 0x1C, Ranges: []wp.Range{{Scale: wp.None{}}}}
	again, err := s.Regions()
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestSession_NoProtection(t *testing.T) {
	reg := part.NewRegistry(&part.Vendor{Name: "Test", Parts: []part.Part{{Model: "A", ID: []byte{0x01}}}})
	s, err := New(mock.New([]byte{0x01}), reg).Probe(context.Background())
	require.NoError(t, err)

	_, err = s.Regions()
	assert.ErrorIs(t, err, spimem.ErrUnsupported)
	_, err = s.CurrentRegion()
	assert.ErrorIs(t, err, spimem.ErrUnsupported)
	assert.ErrorIs(t, s.SetRegion(wp.Region{}), spimem.ErrUnsupported)
	assert.ErrorIs(t, s.SetRegionVolatile(wp.Region{}), spimem.ErrUnsupported)
	assert.ErrorIs(t, s.OTPLock(0), spimem.ErrUnsupported)
}

func TestSession_SetRegionVolatile(t *testing.T) {
	tests := []struct {
		name    string
		id      []byte
		wren    uint8
		wantErr error
	}{
		{"0x50 latch", []byte{0xEF, 0x40, 0x17}, spimem.OpVolatileSRWriteEnable, nil},
		{"no volatile bits", []byte{0xEF, 0x30, 0x12}, 0, spimem.ErrUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := winbondChip(tt.id, nil)
			s, err := New(c, vendors.Default()).Probe(context.Background())
			require.NoError(t, err)
			c.ResetHistory()

			want := wp.Region{Base: s.Size() - 0x20000, Size: 0x20000}
			err = s.SetRegionVolatile(want)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, c.History, "nothing reaches the bus")
				return
			}
			require.NoError(t, err)

			ops := c.Opcodes()
			assert.Contains(t, ops, tt.wren)
			assert.NotContains(t, ops, uint8(spimem.OpWriteEnable))

			cur, err := s.CurrentRegion()
			require.NoError(t, err)
			assert.Equal(t, want, cur)
		})
	}
}

func TestSession_OTP(t *testing.T) {
	c := winbondChip([]byte{0xEF, 0x40, 0x17}, nil)
	s, err := New(c, vendors.Default()).Probe(context.Background())
	require.NoError(t, err)

	locked, err := s.OTPLocked(2)
	require.NoError(t, err)
	assert.False(t, locked)

	require.NoError(t, s.OTPLock(2))
	assert.Equal(t, byte(0x22), c.Register("SR2"))

	locked, err = s.OTPLocked(2)
	require.NoError(t, err)
	assert.True(t, locked)

	assert.ErrorIs(t, s.OTPLock(3), spimem.ErrInvalidParameter)
	_, err = s.OTPLocked(-1)
	assert.ErrorIs(t, err, spimem.ErrInvalidParameter)
}

func TestSession_Registers(t *testing.T) {
	c := winbondChip([]byte{0xEF, 0x40, 0x17}, nil)
	s, err := New(c, vendors.Default()).Probe(context.Background())
	require.NoError(t, err)

	v, err := s.ReadRegister(regs.SR3)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x60), v)

	require.NoError(t, s.UpdateRegister(regs.SR3, 0x60, 0x20, false))
	assert.Equal(t, byte(0x20), c.Register("SR3"))

	require.NoError(t, s.WriteRegister(regs.SRCR, 0x0200, false))
	assert.Equal(t, byte(0x00), c.Register("SR1"))
}

func TestSession_RegistersHoldBusLock(t *testing.T) {
	c := winbondChip([]byte{0xEF, 0x40, 0x17}, nil)
	s, err := New(c, vendors.Default()).Probe(context.Background())
	require.NoError(t, err)

	tests := []struct {
		name string
		call func() error
	}{
		{"read", func() error { _, err := s.ReadRegister(regs.SR3); return err }},
		{"write", func() error { return s.WriteRegister(regs.SR3, 0x60, false) }},
		{"update", func() error { return s.UpdateRegister(regs.SRCR, 0x0200, 0, false) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.ResetHistory()
			require.NoError(t, tt.call())
			require.NotEmpty(t, c.History)
			for _, r := range c.History {
				assert.True(t, r.Locked, "opcode 0x%02X", r.Opcode)
			}
		})
	}
}
