// Command spinor inspects SPI-NOR flash parts: the built-in catalog, the
// write protection regions of a part, and the part attached to an SPI port.
//
//	spinor parts --vendor winbond
//	spinor regions W25Q128JV
//	spinor probe --dev SPI0.0 --hz 10000000
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

type globalFlags struct {
	logLevel string
	logJSON  bool
}

func newRootCmd() *cobra.Command {
	var g globalFlags

	root := &cobra.Command{
		Use:           "spinor",
		Short:         "SPI-NOR flash part resolution and write protection",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "log level: debug|info|warn|error")
	root.PersistentFlags().BoolVar(&g.logJSON, "log-json", false, "log in JSON")

	root.AddCommand(
		newPartsCmd(),
		newRegionsCmd(),
		newProbeCmd(&g),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// newLogger builds the slog logger selected by the global flags.
func newLogger(w io.Writer, g *globalFlags) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(g.logLevel)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", g.logLevel, err)
	}
	opts := &slog.HandlerOptions{Level: level}
	if g.logJSON {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// parseSize parses a byte count with an optional k/m suffix (powers of 2).
func parseSize(s string) (uint64, error) {
	ss := strings.TrimSpace(strings.ToLower(s))
	if ss == "" {
		return 0, fmt.Errorf("empty size")
	}
	mult := uint64(1)
	switch {
	case strings.HasSuffix(ss, "k"):
		mult = 1 << 10
		ss = strings.TrimSuffix(ss, "k")
	case strings.HasSuffix(ss, "m"):
		mult = 1 << 20
		ss = strings.TrimSuffix(ss, "m")
	}
	v, err := strconv.ParseUint(ss, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("size %q: %w", s, err)
	}
	return v * mult, nil
}

func human(b uint64) string {
	switch {
	case b >= 1<<20 && b%(1<<20) == 0:
		return fmt.Sprintf("%dM", b>>20)
	case b >= 1<<10 && b%(1<<10) == 0:
		return fmt.Sprintf("%dK", b>>10)
	}
	return fmt.Sprintf("%dB", b)
}
