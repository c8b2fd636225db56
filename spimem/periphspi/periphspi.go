// Package periphspi adapts a periph.io SPI connection to spimem.Transport.
//
// Every op is sent as a single full-duplex transfer: opcode, address and
// dummy bytes followed by the data phase. Only 1-1-1 ops are supported,
// which is what generic SPI controllers (spidev, FT232H, CH341) do.
//
//	port, err := spireg.Open("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	bus, err := periphspi.Connect(port, 10*physic.MegaHertz, spi.Mode0)
//	if err != nil {
//	    log.Fatal(err)
//	}
package periphspi

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/moffa90/go-spinor/spimem"
)

// DefaultFrequency is the clock used when Connect is given 0.
const DefaultFrequency = 10 * physic.MegaHertz

// Transport runs SPI memory ops over a spi.Conn.
type Transport struct {
	mu    sync.Mutex
	conn  spi.Conn
	maxTx int
}

var _ spimem.Transport = (*Transport)(nil)

// New wraps an already connected spi.Conn.
func New(c spi.Conn) *Transport {
	if c == nil {
		panic("conn cannot be nil")
	}
	t := &Transport{conn: c}
	if l, ok := c.(conn.Limits); ok {
		t.maxTx = l.MaxTxSize()
	}
	return t
}

// Connect connects to port at frequency f in mode with 8 bit words.
func Connect(port spi.Port, f physic.Frequency, mode spi.Mode) (*Transport, error) {
	if f == 0 {
		f = DefaultFrequency
	}
	c, err := port.Connect(f, mode, 8)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", port, err)
	}
	return New(c), nil
}

// String returns the name of the underlying connection.
func (t *Transport) String() string {
	return t.conn.String()
}

// MaxTxSize returns the largest transfer the connection accepts, or 0 if
// unbounded.
func (t *Transport) MaxTxSize() int {
	return t.maxTx
}

// Lock implements spimem.Transport.
func (t *Transport) Lock() {
	t.mu.Lock()
}

// Unlock implements spimem.Transport.
func (t *Transport) Unlock() {
	t.mu.Unlock()
}

// Supports implements spimem.Transport.
func (t *Transport) Supports(op *spimem.Op) bool {
	return spimem.SupportsSingle(op, t.maxTx)
}

// Execute implements spimem.Transport.
func (t *Transport) Execute(op *spimem.Op) error {
	if !t.Supports(op) {
		return fmt.Errorf("%s: %w", op, spimem.ErrUnsupported)
	}

	hdr := op.Header()
	n := len(hdr) + len(op.Data.Buf)
	w := make([]byte, n)
	r := make([]byte, n)
	copy(w, hdr)
	if op.Data.Dir == spimem.DirOut {
		copy(w[len(hdr):], op.Data.Buf)
	}

	if err := t.conn.Tx(w, r); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if op.Data.Dir == spimem.DirIn {
		copy(op.Data.Buf, r[len(hdr):])
	}
	return nil
}
