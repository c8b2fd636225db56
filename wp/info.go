package wp

import (
	"fmt"
	"sync"

	"github.com/moffa90/go-spinor/regs"
	"github.com/moffa90/go-spinor/spimem"
)

// Info is the protection scheme of a part.
type Info struct {
	// Access is the register holding the protect bits
	Access *regs.Access

	// Mask covers every protect bit of the register
	Mask uint32

	// Ranges is the lookup table; the first masked match wins
	Ranges []Range
}

// Validate checks every range and the uniqueness of the masked values.
func (info *Info) Validate() error {
	if info == nil {
		return spimem.ErrInvalidParameter
	}
	if err := info.Access.Validate(); err != nil {
		return err
	}
	seen := make(map[uint32]bool, len(info.Ranges))
	for _, r := range info.Ranges {
		if err := r.Validate(); err != nil {
			return err
		}
		if r.SRVal&^info.Mask != 0 {
			return &RangeError{SRVal: r.SRVal, Reason: fmt.Sprintf("bits outside mask 0x%X", info.Mask)}
		}
		v := r.SRVal & info.Mask
		if seen[v] {
			return &RangeError{SRVal: r.SRVal, Reason: "duplicate register value"}
		}
		seen[v] = true
	}
	return nil
}

// Match returns the first range selected by the register value srval.
func (info *Info) Match(srval uint32) (Range, bool) {
	v := srval & info.Mask
	for _, r := range info.Ranges {
		if r.SRVal&info.Mask == v {
			return r, true
		}
	}
	return Range{}, false
}

// Decode returns the region selected by the register value srval.
func Decode(info *Info, chipSize uint64, srval uint32) (Region, error) {
	if info == nil {
		return Region{}, spimem.ErrUnsupported
	}
	r, ok := info.Match(srval)
	if !ok {
		return Region{}, fmt.Errorf("register value 0x%X: %w", srval&info.Mask, ErrNoMatchingRange)
	}
	return RangeRegion(r, chipSize), nil
}

// Regions returns the distinct regions of the table in table order. The
// empty and the whole-chip region are listed once, at their first
// occurrence; runs of identical regions collapse to one entry.
func Regions(info *Info, chipSize uint64) []Region {
	if info == nil {
		return nil
	}
	var (
		out               []Region
		seenNone, seenAll bool
	)
	for _, r := range info.Ranges {
		reg := RangeRegion(r, chipSize)
		switch {
		case reg.Size == 0:
			if seenNone {
				continue
			}
			seenNone = true
		case reg.Size == chipSize:
			if seenAll {
				continue
			}
			seenAll = true
		case len(out) > 0 && out[len(out)-1] == reg:
			continue
		}
		out = append(out, reg)
	}
	return out
}

// Lookup returns the first range producing region on a chip of chipSize
// bytes.
func Lookup(info *Info, chipSize uint64, region Region) (Range, error) {
	if info == nil {
		return Range{}, spimem.ErrUnsupported
	}
	want := region.normalize(chipSize)
	for _, r := range info.Ranges {
		if RangeRegion(r, chipSize) == want {
			return r, nil
		}
	}
	return Range{}, fmt.Errorf("region %s: %w", want, ErrNotFound)
}

// RegionCache holds a region list computed at most once.
type RegionCache struct {
	once    sync.Once
	regions []Region
}

// Get returns the cached region list, computing it from info on first use.
// Later calls return the first result whatever info they pass.
func (c *RegionCache) Get(info *Info, chipSize uint64) []Region {
	c.once.Do(func() {
		c.regions = Regions(info, chipSize)
	})
	return c.regions
}
