package probe

import "github.com/moffa90/go-spinor/part"

// Default configuration values.
const (
	// DefaultIDLength is the number of JEDEC ID bytes read
	DefaultIDLength = 6

	// DefaultMaxReprobe bounds the reprobes of one probe
	DefaultMaxReprobe = part.DefaultMaxReprobe
)

// Config holds the prober configuration.
type Config struct {
	// Logger is used for logging probe milestones (optional)
	Logger Logger

	// AltRegistry is searched by reprobes after the matched vendor (optional)
	AltRegistry *part.Registry

	// MaxReprobe bounds the chain of reprobes
	MaxReprobe int

	// SFDP enables reading the SFDP space of parts that declare it
	SFDP bool

	// IDLength is the number of JEDEC ID bytes to read
	IDLength int

	// ForcePart skips ID matching and resolves the part by name
	ForcePart string
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		MaxReprobe: DefaultMaxReprobe,
		SFDP:       true,
		IDLength:   DefaultIDLength,
	}
}

// Option is a functional option for configuring the Prober.
type Option func(*Config)

// WithLogger sets a logger for probe operations. *slog.Logger satisfies
// Logger.
//
// Example:
//
//	p := probe.New(bus, vendors.Default(), probe.WithLogger(slog.Default()))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithAltRegistry sets a second catalog searched when a fixup reprobes to a
// part its own vendor does not list.
func WithAltRegistry(r *part.Registry) Option {
	return func(c *Config) {
		c.AltRegistry = r
	}
}

// WithMaxReprobe sets the maximum number of reprobes. Values below 1 are
// ignored.
func WithMaxReprobe(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MaxReprobe = n
		}
	}
}

// WithSFDP enables or disables reading SFDP. Default is true.
func WithSFDP(enable bool) Option {
	return func(c *Config) {
		c.SFDP = enable
	}
}

// WithIDLength sets the number of JEDEC ID bytes to read, 1 to 6.
func WithIDLength(n int) Option {
	return func(c *Config) {
		if n > 0 && n <= part.MaxIDLen {
			c.IDLength = n
		}
	}
}

// WithForcePart resolves the part by name instead of by the ID it reports.
//
// Example:
//
//	p := probe.New(bus, vendors.Default(), probe.WithForcePart("W25Q128JV"))
func WithForcePart(name string) Option {
	return func(c *Config) {
		c.ForcePart = name
	}
}
