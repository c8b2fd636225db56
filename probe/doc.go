// Package probe resolves the SPI-NOR part attached to a transport and keeps
// its committed parameters in a Session.
//
// # Overview
//
// Probing runs the following sequence with the bus lock held:
//   - Reading the JEDEC ID and matching it against a part.Registry
//   - Reading SFDP for parts that declare it
//   - Building a blank part and running the pre-param fixups, which may
//     reprobe to a different named part
//   - Applying SFDP-derived parameters and running the post-param fixups
//   - Committing the blank into the session
//   - Running the pre-chip-setup fixups on the committed parameters
//
// # Basic Usage
//
//	p := probe.New(bus, vendors.Default())
//	s, err := p.Probe(context.Background())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(s.Params.Model, s.Params.Size)
//
// # Configuration Options
//
//	p := probe.New(bus, vendors.Default(),
//	    probe.WithLogger(slog.Default()),
//	    probe.WithAltRegistry(extra),
//	    probe.WithMaxReprobe(2),
//	    probe.WithSFDP(false),
//	    probe.WithIDLength(3),
//	)
//
// # Write Protection
//
// A Session exposes the write protection table of the part:
//
//	regions, _ := s.Regions()
//	cur, err := s.CurrentRegion()
//	err = s.SetRegion(regions[1])
//
// SetRegion reads back the protect bits after writing them. If the chip did
// not take the value, the protect bits are cleared and the returned error
// matches regs.ErrDeviceMismatch.
//
// # Error Handling
//
// The package provides structured error types:
//   - UnknownIDError: no catalog entry matches the ID (matches part.ErrPartNotFound)
//   - part.ErrReprobeLimit: fixups reprobed too often
//   - ErrLateReprobe: a pre-chip-setup fixup tried to reprobe
//   - spimem.ErrUnsupported: the part has no protection table or OTP
package probe
