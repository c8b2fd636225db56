//go:build linux

package spidev

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/moffa90/go-spinor/spimem"
)

func TestIocMessage(t *testing.T) {
	assert.Equal(t, uint32(0x40006b00), iocMessage(0))
	assert.Equal(t, uint32(0x40206b00), iocMessage(1))
	assert.Equal(t, uint32(0x40406b00), iocMessage(2))
	assert.Equal(t, iocMessage(0), iocMessage(1024))
}

func TestSupports(t *testing.T) {
	d := &Device{config: Config{MaxTxSize: 8}}

	assert.True(t, d.Supports(spimem.NewRegReadOp(spimem.OpReadID, 0, 0, 0, make([]byte, 6))))
	assert.False(t, d.Supports(spimem.NewRegReadOp(spimem.OpReadSFDP, 3, 0, 8, make([]byte, 8))))

	err := d.Execute(spimem.NewRegReadOp(spimem.OpReadSFDP, 3, 0, 8, make([]byte, 8)))
	assert.ErrorIs(t, err, spimem.ErrUnsupported)
}
