package periphspi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spitest"

	"github.com/moffa90/go-spinor/regs"
	"github.com/moffa90/go-spinor/spimem"
)

func playback(ops ...conntest.IO) *spitest.Playback {
	return &spitest.Playback{Playback: conntest.Playback{Ops: ops, DontPanic: true}}
}

func TestReadID(t *testing.T) {
	port := playback(conntest.IO{
		W: []byte{0x9F, 0x00, 0x00, 0x00},
		R: []byte{0xFF, 0xEF, 0x40, 0x18},
	})
	bus, err := Connect(port, 0, spi.Mode0)
	require.NoError(t, err)

	id, err := spimem.ReadID(bus, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xEF, 0x40, 0x18}, id)
	assert.NoError(t, port.Close())
}

func TestAddressedRead(t *testing.T) {
	port := playback(conntest.IO{
		W: []byte{0x5A, 0x00, 0x00, 0x10, 0xFF, 0x00, 0x00},
		R: []byte{0, 0, 0, 0, 0, 0x53, 0x46},
	})
	bus, err := Connect(port, 0, spi.Mode0)
	require.NoError(t, err)

	buf := make([]byte, 2)
	require.NoError(t, bus.Execute(spimem.NewRegReadOp(spimem.OpReadSFDP, 3, 0x10, 8, buf)))
	assert.Equal(t, []byte{0x53, 0x46}, buf)
}

func TestRegisterWrite(t *testing.T) {
	port := playback(
		conntest.IO{W: []byte{0x05, 0x00}, R: []byte{0x00, 0x00}},
		conntest.IO{W: []byte{0x35, 0x00}, R: []byte{0x00, 0x02}},
		conntest.IO{W: []byte{0x06}, R: []byte{0x00}},
		conntest.IO{W: []byte{0x01, 0x24, 0x02}, R: []byte{0x00, 0x00, 0x00}},
	)
	bus, err := Connect(port, 0, spi.Mode0)
	require.NoError(t, err)

	bus.Lock()
	defer bus.Unlock()
	require.NoError(t, regs.Update(bus, regs.SRCR, 0x7C, 0x24, false))
	assert.NoError(t, port.Close())
}

func TestSupports(t *testing.T) {
	bus, err := Connect(playback(), 0, spi.Mode0)
	require.NoError(t, err)

	assert.True(t, bus.Supports(spimem.NewCmdOp(spimem.OpWriteEnable)))

	quad := spimem.NewRegReadOp(spimem.OpFastReadQuadIO, 3, 0, 6, make([]byte, 4))
	quad.Addr.Width = 4
	quad.Data.Width = 4
	assert.False(t, bus.Supports(quad))

	err = bus.Execute(quad)
	assert.ErrorIs(t, err, spimem.ErrUnsupported)
}

func TestTxError(t *testing.T) {
	bus, err := Connect(playback(), 0, spi.Mode0)
	require.NoError(t, err)

	err = bus.Execute(spimem.NewCmdOp(spimem.OpWriteEnable))
	assert.Error(t, err)
}

func TestConnectError(t *testing.T) {
	port := playback()
	_, err := Connect(port, 0, spi.Mode0)
	require.NoError(t, err)

	_, err = Connect(port, 0, spi.Mode0)
	assert.Error(t, err)
}

func TestNewNilPanics(t *testing.T) {
	assert.Panics(t, func() { New(nil) })
}
