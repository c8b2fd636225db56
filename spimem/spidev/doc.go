// Package spidev implements spimem.Transport over the Linux spidev
// character device (/dev/spidevB.C).
//
// Each op is one SPI_IOC_MESSAGE transfer: the opcode, address and dummy
// bytes followed by the data phase, with chip select held for the whole
// transfer.
//
//	bus, err := spidev.Open("/dev/spidev0.0", spidev.WithSpeed(10000000))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer bus.Close()
//
//	s, err := probe.New(bus, vendors.Default()).Probe(ctx)
//
// The kernel limits a transfer to the spidev bufsiz module parameter
// (4096 bytes by default). Ops longer than that are reported unsupported.
package spidev
