package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-spinor/part"
	"github.com/moffa90/go-spinor/vendors"
)

func newPartsCmd() *cobra.Command {
	var vendor string

	cmd := &cobra.Command{
		Use:   "parts",
		Short: "List the built-in part catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := vendors.Default()
			list := reg.Vendors()
			if vendor != "" {
				v := reg.Vendor(vendor)
				if v == nil {
					return fmt.Errorf("unknown vendor %q", vendor)
				}
				list = []*part.Vendor{v}
			}
			return printParts(cmd.OutOrStdout(), list)
		},
	}
	cmd.Flags().StringVar(&vendor, "vendor", "", "only list parts of this vendor (e.g. winbond)")
	return cmd
}

func printParts(w io.Writer, list []*part.Vendor) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VENDOR\tMODEL\tID\tSIZE\tFLAGS\tALIASES")
	for _, v := range list {
		for i := range v.Parts {
			p := &v.Parts[i]
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				v.Name, p.Model, part.FormatID(p.ID), human(p.Size), p.Flags, aliases(p))
		}
	}
	return tw.Flush()
}

func aliases(p *part.Part) string {
	if len(p.Aliases) == 0 {
		return "-"
	}
	names := make([]string, len(p.Aliases))
	for i, a := range p.Aliases {
		names[i] = a.Model
		if a.Vendor != "" {
			names[i] = a.Vendor + ":" + a.Model
		}
	}
	return strings.Join(names, ",")
}
