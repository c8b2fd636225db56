package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/moffa90/go-spinor/part"
	"github.com/moffa90/go-spinor/probe"
	"github.com/moffa90/go-spinor/spimem"
	"github.com/moffa90/go-spinor/spimem/periphspi"
	"github.com/moffa90/go-spinor/spimem/spidev"
	"github.com/moffa90/go-spinor/vendors"
)

type probeFlags struct {
	dev    string
	spidev string
	hz     int64
	part   string
	noSFDP bool
}

func newProbeCmd(g *globalFlags) *cobra.Command {
	var f probeFlags

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Identify the part on an SPI port and show its parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), g)
			if err != nil {
				return err
			}

			bus, closer, err := openBus(&f)
			if err != nil {
				return err
			}
			defer closer.Close()

			opts := []probe.Option{probe.WithLogger(logger), probe.WithSFDP(!f.noSFDP)}
			if f.part != "" {
				opts = append(opts, probe.WithForcePart(f.part))
			}
			s, err := probe.New(bus, vendors.Default(), opts...).Probe(cmd.Context())
			if err != nil {
				return err
			}
			return printSession(cmd.OutOrStdout(), s)
		},
	}
	cmd.Flags().StringVar(&f.dev, "dev", "", "periph SPI port name (e.g. SPI0.0); empty selects the first")
	cmd.Flags().StringVar(&f.spidev, "spidev", "", "use a Linux spidev node directly (e.g. /dev/spidev0.0)")
	cmd.Flags().Int64Var(&f.hz, "hz", 10000000, "SPI clock in Hz")
	cmd.Flags().StringVar(&f.part, "part", "", "skip ID matching and use this part")
	cmd.Flags().BoolVar(&f.noSFDP, "no-sfdp", false, "do not read SFDP")
	return cmd
}

// openBus opens the transport selected by the flags.
func openBus(f *probeFlags) (spimem.Transport, io.Closer, error) {
	if f.hz <= 0 {
		return nil, nil, fmt.Errorf("invalid clock %d Hz", f.hz)
	}

	if f.spidev != "" {
		d, err := spidev.Open(f.spidev, spidev.WithSpeed(uint32(f.hz)))
		if err != nil {
			return nil, nil, err
		}
		return d, d, nil
	}

	if _, err := host.Init(); err != nil {
		return nil, nil, fmt.Errorf("host initialization failed: %w", err)
	}
	port, err := spireg.Open(f.dev)
	if err != nil {
		return nil, nil, fmt.Errorf("open spi port %q: %w", f.dev, err)
	}
	bus, err := periphspi.Connect(port, physic.Frequency(f.hz)*physic.Hertz, spi.Mode0)
	if err != nil {
		port.Close()
		return nil, nil, err
	}
	return bus, port, nil
}

func printSession(w io.Writer, s *probe.Session) error {
	p := s.Params
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "vendor:\t%s\n", s.Vendor.Name)
	if s.AliasVendor != nil {
		fmt.Fprintf(tw, "alias of:\t%s\n", s.AliasVendor.Name)
	}
	fmt.Fprintf(tw, "model:\t%s\n", p.Model)
	fmt.Fprintf(tw, "id:\t%s\n", part.FormatID(s.ID))
	fmt.Fprintf(tw, "size:\t%s\n", human(p.Size))
	fmt.Fprintf(tw, "page size:\t%d\n", p.PageSize)
	fmt.Fprintf(tw, "flags:\t%s\n", p.Flags)
	if s.SFDP != nil {
		fmt.Fprintf(tw, "sfdp:\trev %d.%d, %d tables\n", s.SFDP.MajorRev, s.SFDP.MinorRev, len(s.SFDP.Parameters))
	}
	for c := spimem.IO(0); c < spimem.IOCount; c++ {
		if op, ok := s.ReadOpcode(c); ok {
			fmt.Fprintf(tw, "read %s:\t0x%02X, %d dummy\n", c, op.Op, op.Dummy)
		}
	}
	if es, ok := p.Erase3B.Smallest(); ok {
		fmt.Fprintf(tw, "erase:\t%s with 0x%02X\n", human(uint64(es.Size)), es.Opcode)
	}

	if p.WP != nil {
		r, err := s.CurrentRegion()
		if err != nil {
			fmt.Fprintf(tw, "protected:\tunknown (%v)\n", err)
		} else {
			fmt.Fprintf(tw, "protected:\t%s\n", r)
		}
	}
	if p.OTP != nil && p.OTPOps != nil {
		for i := 0; i < p.OTP.Count; i++ {
			locked, err := s.OTPLocked(i)
			if err != nil {
				return err
			}
			fmt.Fprintf(tw, "otp %d:\tlocked=%t\n", i, locked)
		}
	}
	return tw.Flush()
}
