package vendors

import (
	"github.com/moffa90/go-spinor/regs"
	"github.com/moffa90/go-spinor/spimem"
	"github.com/moffa90/go-spinor/wp"
)

// noBit marks a modifier bit a scheme does not have.
const noBit = -1

// bpScheme describes a block protect layout: nbp BP bits starting at bp0
// plus optional TB, SEC and CMP modifier bits (logical register bits).
//
// BP values 1..levels protect a growing part of the chip; larger values
// protect all of it. With unit set, level n protects unit<<(n-1) bytes,
// otherwise chipSize>>(levels+1-n).
type bpScheme struct {
	bp0    uint
	nbp    uint
	levels int
	unit   uint64
	tb     int
	sec    int
	cmp    int
}

func (s bpScheme) mask() uint32 {
	m := uint32(1)<<s.nbp - 1
	m <<= s.bp0
	for _, b := range []int{s.tb, s.sec, s.cmp} {
		if b != noBit {
			m |= 1 << uint(b)
		}
	}
	return m
}

func bits(b int) []uint32 {
	if b == noBit {
		return []uint32{0}
	}
	return []uint32{0, 1}
}

func bit(v uint32, b int) uint32 {
	if b == noBit {
		return 0
	}
	return v << uint(b)
}

// info expands the scheme into a table over access. lower anchors every
// region at address 0 for schemes whose TB bit lives outside access.
func (s bpScheme) info(access *regs.Access, lower bool) *wp.Info {
	maxBP := uint32(1)<<s.nbp - 1
	info := &wp.Info{Access: access, Mask: s.mask()}

	for _, cmp := range bits(s.cmp) {
		for _, sec := range bits(s.sec) {
			for _, tb := range bits(s.tb) {
				for bp := uint32(0); bp <= maxBP; bp++ {
					r := wp.Range{SRVal: bp<<s.bp0 | bit(tb, s.tb) | bit(sec, s.sec) | bit(cmp, s.cmp)}
					r.Scale = s.scale(bp, maxBP, sec == 1)
					atBottom := lower || tb == 1

					switch r.Scale.(type) {
					case wp.None:
						if cmp == 1 {
							r.Scale = wp.All{}
						}
					case wp.All:
						if cmp == 1 {
							r.Scale = wp.None{}
						}
					default:
						if cmp == 1 {
							r.Complement = true
							r.ComplementFull = true
							r.Lower = !atBottom
						} else {
							r.Lower = atBottom
						}
					}
					info.Ranges = append(info.Ranges, r)
				}
			}
		}
	}
	return info
}

func (s bpScheme) scale(bp, maxBP uint32, sec bool) wp.Scale {
	switch {
	case bp == 0:
		return wp.None{}
	case sec && bp < maxBP:
		shift := uint(bp - 1)
		if shift > 3 {
			shift = 3
		}
		return wp.LeftShift{Granularity: 4 * spimem.KiB, Shift: shift}
	case int(bp) > s.levels || sec:
		return wp.All{}
	case s.unit != 0:
		return wp.LeftShift{Granularity: s.unit, Shift: uint(bp - 1)}
	default:
		return wp.RightShift{Shift: uint(s.levels + 1 - int(bp))}
	}
}

// Block protect schemes.
var (
	// BP2:0 at SR1 bits 2-4, TB bit 5, SEC bit 6, CMP at SR2 bit 6
	schemeBP3SEC = bpScheme{bp0: 2, nbp: 3, levels: 6, tb: 5, sec: 6, cmp: 14}

	// BP3:0 at SR1 bits 2-5, TB bit 6, CMP at SR2 bit 6
	schemeBP4TB = bpScheme{bp0: 2, nbp: 4, levels: 9, tb: 6, sec: noBit, cmp: 14}

	// BP1:0 at SR bits 2-3, TB bit 5
	schemeBP2TB = bpScheme{bp0: 2, nbp: 2, levels: 2, tb: 5, sec: noBit, cmp: noBit}
)
