//go:build !linux

package spidev

import (
	"errors"

	"github.com/moffa90/go-spinor/spimem"
)

// ErrNotLinux is returned by Open on systems without spidev.
var ErrNotLinux = errors.New("spidev is only available on linux")

// Device is an open spidev character device.
type Device struct {
	spimem.Transport
}

// Open always fails outside linux.
func Open(dev string, opts ...Option) (*Device, error) {
	return nil, ErrNotLinux
}

// Close implements io.Closer.
func (d *Device) Close() error {
	return nil
}

func bufSize() int {
	return DefaultBufSize
}
