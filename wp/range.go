package wp

import (
	"fmt"
	"strings"
)

// Scale is the size rule of a Range. It is one of None, All, LeftShift,
// RightShift or Multiply.
type Scale interface {
	// size returns the protected size before flags, saturated at chipSize.
	size(chipSize uint64) uint64
	String() string
}

// None protects nothing.
type None struct{}

// All protects the whole chip.
type All struct{}

// LeftShift protects Granularity << Shift bytes.
type LeftShift struct {
	Granularity uint64
	Shift       uint
}

// RightShift protects chipSize >> Shift bytes.
type RightShift struct {
	Shift uint
}

// Multiply protects Granularity * Factor bytes.
type Multiply struct {
	Granularity uint64
	Factor      uint64
}

func (None) size(uint64) uint64 { return 0 }

func (None) String() string { return "none" }

func (All) size(chipSize uint64) uint64 { return chipSize }

func (All) String() string { return "all" }

func (s LeftShift) size(chipSize uint64) uint64 {
	if s.Shift >= 64 || s.Granularity > chipSize>>s.Shift {
		return chipSize
	}
	return s.Granularity << s.Shift
}

func (s LeftShift) String() string {
	return fmt.Sprintf("0x%X<<%d", s.Granularity, s.Shift)
}

func (s RightShift) size(chipSize uint64) uint64 {
	if s.Shift >= 64 {
		return 0
	}
	return chipSize >> s.Shift
}

func (s RightShift) String() string {
	return fmt.Sprintf("size>>%d", s.Shift)
}

func (s Multiply) size(chipSize uint64) uint64 {
	if s.Factor != 0 && s.Granularity > chipSize/s.Factor {
		return chipSize
	}
	return s.Granularity * s.Factor
}

func (s Multiply) String() string {
	return fmt.Sprintf("0x%X*%d", s.Granularity, s.Factor)
}

// Range is one entry of a protection table.
type Range struct {
	// SRVal is the register value, under the table mask, that selects this
	// range
	SRVal uint32

	// Scale is the size rule
	Scale Scale

	// Lower anchors the region at address 0
	Lower bool

	// Complement protects everything but the computed size
	Complement bool

	// ComplementFull additionally complements a whole-chip size to nothing.
	// It requires Complement.
	ComplementFull bool
}

// Validate rejects flag combinations that have no meaning.
func (r Range) Validate() error {
	if r.Scale == nil {
		return &RangeError{SRVal: r.SRVal, Reason: "missing scale"}
	}
	if r.ComplementFull && !r.Complement {
		return &RangeError{SRVal: r.SRVal, Reason: "complement-full without complement"}
	}
	switch s := r.Scale.(type) {
	case None, All:
		if r.Lower || r.Complement {
			return &RangeError{SRVal: r.SRVal, Reason: fmt.Sprintf("flags on %s range", s)}
		}
	case LeftShift:
		if s.Granularity == 0 {
			return &RangeError{SRVal: r.SRVal, Reason: "zero granularity"}
		}
	case Multiply:
		if s.Granularity == 0 || s.Factor == 0 {
			return &RangeError{SRVal: r.SRVal, Reason: "zero granularity or factor"}
		}
	}
	return nil
}

// String returns the range in table notation, e.g. "0x0024 0x10000<<0 lower".
func (r Range) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "0x%04X %s", r.SRVal, r.Scale)
	if r.Lower {
		b.WriteString(" lower")
	}
	if r.ComplementFull {
		b.WriteString(" cmp-full")
	} else if r.Complement {
		b.WriteString(" cmp")
	}
	return b.String()
}

// Region is a protected byte range.
type Region struct {
	Base uint64
	Size uint64
}

// End returns the first address past the region.
func (r Region) End() uint64 {
	return r.Base + r.Size
}

// String returns "none" or the inclusive address range.
func (r Region) String() string {
	if r.Size == 0 {
		return "none"
	}
	return fmt.Sprintf("0x%08X-0x%08X", r.Base, r.End()-1)
}

// normalize puts empty and whole-chip regions at base 0.
func (r Region) normalize(chipSize uint64) Region {
	if r.Size == 0 {
		return Region{}
	}
	if r.Size >= chipSize {
		return Region{Base: 0, Size: chipSize}
	}
	return r
}

// RangeRegion computes the region a range protects on a chip of chipSize
// bytes.
func RangeRegion(r Range, chipSize uint64) Region {
	switch r.Scale.(type) {
	case nil, None:
		return Region{}
	case All:
		return Region{Base: 0, Size: chipSize}
	}

	raw := r.Scale.size(chipSize)
	if raw > chipSize {
		raw = chipSize
	}

	size := raw
	if r.Complement {
		switch {
		case raw < chipSize:
			size = chipSize - raw
		case r.ComplementFull:
			size = 0
		default:
			size = chipSize
		}
	}

	if size == 0 || size >= chipSize {
		return Region{Size: size}.normalize(chipSize)
	}
	if r.Lower {
		return Region{Base: 0, Size: size}
	}
	return Region{Base: chipSize - size, Size: size}
}
