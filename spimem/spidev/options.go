package spidev

// Mode bits of SPI_IOC_WR_MODE32.
type Mode uint32

// Mode flags.
const (
	CPHA Mode = 1 << iota
	CPOL
	CSHigh
	LSBFirst
	ThreeWire
	Loop
	NoCS
	Ready
)

// SPI modes 0-3.
const (
	Mode0 Mode = 0
	Mode1      = CPHA
	Mode2      = CPOL
	Mode3      = CPOL | CPHA
)

// DefaultSpeedHz is the clock set when no speed is given.
const DefaultSpeedHz = 10000000

// DefaultBufSize is the kernel's default spidev transfer limit.
const DefaultBufSize = 4096

// Config holds the device settings applied by Open.
type Config struct {
	// SpeedHz is the maximum clock rate
	SpeedHz uint32

	// Mode is the clock polarity and phase
	Mode Mode

	// MaxTxSize bounds a single transfer in bytes
	MaxTxSize int
}

func defaultConfig() Config {
	return Config{
		SpeedHz:   DefaultSpeedHz,
		Mode:      Mode0,
		MaxTxSize: bufSize(),
	}
}

// Option configures Open.
type Option func(*Config)

// WithSpeed sets the clock rate in Hz.
func WithSpeed(hz uint32) Option {
	return func(c *Config) {
		if hz > 0 {
			c.SpeedHz = hz
		}
	}
}

// WithMode sets the SPI mode.
func WithMode(m Mode) Option {
	return func(c *Config) {
		c.Mode = m
	}
}

// WithMaxTxSize overrides the transfer limit read from the spidev module.
func WithMaxTxSize(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MaxTxSize = n
		}
	}
}
