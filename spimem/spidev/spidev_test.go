package spidev

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptions(t *testing.T) {
	cfg := defaultConfig()
	assert.Equal(t, uint32(DefaultSpeedHz), cfg.SpeedHz)
	assert.Equal(t, Mode0, cfg.Mode)
	assert.Positive(t, cfg.MaxTxSize)

	for _, opt := range []Option{WithSpeed(1000000), WithSpeed(0), WithMode(Mode3), WithMaxTxSize(64), WithMaxTxSize(-1)} {
		opt(&cfg)
	}
	assert.Equal(t, uint32(1000000), cfg.SpeedHz)
	assert.Equal(t, CPOL|CPHA, cfg.Mode)
	assert.Equal(t, 64, cfg.MaxTxSize)
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open("/dev/spidev-does-not-exist")
	assert.Error(t, err)
}
