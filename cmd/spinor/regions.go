package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-spinor/vendors"
	"github.com/moffa90/go-spinor/wp"
)

func newRegionsCmd() *cobra.Command {
	var size string

	cmd := &cobra.Command{
		Use:   "regions <part>",
		Short: "Print the write protection regions of a catalog part",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := vendors.Default().FindByName(args[0])
			if err != nil {
				return err
			}
			p := m.Part
			if p.WP == nil {
				return fmt.Errorf("%s has no write protection table", p.Model)
			}

			chipSize := p.Size
			if size != "" {
				if chipSize, err = parseSize(size); err != nil {
					return err
				}
			}
			if chipSize == 0 {
				return fmt.Errorf("%s: size unknown until probed, use --size", p.Model)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s, %s, register %s, mask 0x%04X\n",
				p.Model, human(chipSize), p.WP.Access, p.WP.Mask)
			return printRegions(cmd.OutOrStdout(), p.WP, chipSize)
		},
	}
	cmd.Flags().StringVar(&size, "size", "", "chip size override (e.g. 16m)")
	return cmd
}

func printRegions(w io.Writer, info *wp.Info, chipSize uint64) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "REGION\tSIZE\tRANGE")
	for _, r := range wp.Regions(info, chipSize) {
		rng, err := wp.Lookup(info, chipSize, r)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r, human(r.Size), rng)
	}
	return tw.Flush()
}
