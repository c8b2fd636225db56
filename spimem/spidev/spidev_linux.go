//go:build linux

package spidev

import (
	"encoding/binary"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/moffa90/go-spinor/spimem"
)

// See include/uapi/linux/spi/spidev.h.
const (
	iocWrMode32      = 0x40046b05
	iocWrBitsPerWord = 0x40016b03
	iocWrMaxSpeedHz  = 0x40046b04
)

const bufSizeParam = "/sys/module/spidev/parameters/bufsiz"

// iocTransfer is struct spi_ioc_transfer.
type iocTransfer struct {
	TxBuf          uint64
	RxBuf          uint64
	Length         uint32
	SpeedHz        uint32
	DelayUsecs     uint16
	BitsPerWord    uint8
	CSChange       uint8
	TxNBits        uint8
	RxNBits        uint8
	WordDelayUsecs uint8
	Pad            uint8
}

// iocMessage is the SPI_IOC_MESSAGE(n) ioctl number.
func iocMessage(n int) uint32 {
	const (
		sizeBits  = 14
		sizeShift = 16
	)
	size := uint32(n * binary.Size(iocTransfer{}))
	if n < 0 || size >= 1<<sizeBits {
		return iocMessage(0)
	}
	return 0x40006b00 | size<<sizeShift
}

// Device is an open spidev character device.
type Device struct {
	mu     sync.Mutex
	f      *os.File
	config Config
}

var _ spimem.Transport = (*Device)(nil)

// Open opens dev, a path such as "/dev/spidev0.0", and applies the mode,
// word size and clock rate.
func Open(dev string, opts ...Option) (*Device, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	f, err := os.OpenFile(dev, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	d := &Device{f: f, config: cfg}

	mode := uint32(cfg.Mode)
	bits := uint8(8)
	speed := cfg.SpeedHz
	for _, s := range []struct {
		name string
		req  uintptr
		arg  unsafe.Pointer
	}{
		{"mode", iocWrMode32, unsafe.Pointer(&mode)},
		{"bits per word", iocWrBitsPerWord, unsafe.Pointer(&bits)},
		{"speed", iocWrMaxSpeedHz, unsafe.Pointer(&speed)},
	} {
		if err := d.ioctl(s.req, s.arg); err != nil {
			f.Close()
			return nil, fmt.Errorf("%s: set %s: %w", dev, s.name, err)
		}
	}
	return d, nil
}

// Close closes the device.
func (d *Device) Close() error {
	return d.f.Close()
}

// String returns the device path.
func (d *Device) String() string {
	return d.f.Name()
}

// Lock implements spimem.Transport.
func (d *Device) Lock() {
	d.mu.Lock()
}

// Unlock implements spimem.Transport.
func (d *Device) Unlock() {
	d.mu.Unlock()
}

// Supports implements spimem.Transport.
func (d *Device) Supports(op *spimem.Op) bool {
	return spimem.SupportsSingle(op, d.config.MaxTxSize)
}

// Execute implements spimem.Transport.
func (d *Device) Execute(op *spimem.Op) error {
	if !d.Supports(op) {
		return fmt.Errorf("%s: %w", op, spimem.ErrUnsupported)
	}

	hdr := op.Header()
	n := len(hdr) + len(op.Data.Buf)

	// the transfer carries raw addresses, so the buffers live outside the
	// Go heap
	buf, err := unix.Mmap(-1, 0, 2*n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return err
	}
	defer unix.Munmap(buf)

	tx, rx := buf[:n], buf[n:]
	copy(tx, hdr)
	if op.Data.Dir == spimem.DirOut {
		copy(tx[len(hdr):], op.Data.Buf)
	}

	xfer := iocTransfer{
		TxBuf:       uint64(uintptr(unsafe.Pointer(&tx[0]))),
		RxBuf:       uint64(uintptr(unsafe.Pointer(&rx[0]))),
		Length:      uint32(n),
		SpeedHz:     d.config.SpeedHz,
		BitsPerWord: 8,
	}
	if err := d.ioctl(uintptr(iocMessage(1)), unsafe.Pointer(&xfer)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if op.Data.Dir == spimem.DirIn {
		copy(op.Data.Buf, rx[len(hdr):])
	}
	return nil
}

func (d *Device) ioctl(req uintptr, arg unsafe.Pointer) error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, d.f.Fd(), req, uintptr(arg)); errno != 0 {
		return errno
	}
	return nil
}

// bufSize reads the spidev transfer limit from sysfs.
func bufSize() int {
	b, err := os.ReadFile(bufSizeParam)
	if err != nil {
		return DefaultBufSize
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil || n <= 0 {
		return DefaultBufSize
	}
	return n
}
