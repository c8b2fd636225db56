// Package vendors is a small built-in SPI-NOR catalog.
//
// It covers a handful of Winbond, Macronix, GigaDevice and ISSI parts and
// their fixups: generic parts resolved by SFDP revision, top/bottom
// protection tables chosen from a configuration register, dummy cycles
// read back from the chip, and lock-bit OTP variants.
//
//	s, err := probe.New(bus, vendors.Default()).Probe(ctx)
package vendors
