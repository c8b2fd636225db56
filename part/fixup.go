package part

import (
	"fmt"

	"github.com/moffa90/go-spinor/sfdp"
	"github.com/moffa90/go-spinor/spimem"
)

// DefaultMaxReprobe bounds the reprobes of one probe.
const DefaultMaxReprobe = 3

// Stage is a fixup stage.
type Stage int

// Fixup stages, in the order a probe runs them.
const (
	StagePreParam Stage = iota
	StagePostParam
	StagePreChipSetup
)

func (s Stage) String() string {
	switch s {
	case StagePreParam:
		return "pre-param"
	case StagePostParam:
		return "post-param"
	case StagePreChipSetup:
		return "pre-chip-setup"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// PreParamSetup runs before parameters are finalized. It may rename the
// part, reprobe, toggle flags or substitute tables.
type PreParamSetup interface {
	PreParamSetup(ctx *FixupContext, bp *Blank) error
}

// PostParamSetup runs after SFDP-derived parameters are applied.
type PostParamSetup interface {
	PostParamSetup(ctx *FixupContext, bp *Blank) error
}

// PreChipSetup runs on the committed parameters before the chip is put into
// its operating mode.
type PreChipSetup interface {
	PreChipSetup(ctx *FixupContext, bp *Blank) error
}

// FixupContext is what fixup hooks see of the probe.
type FixupContext struct {
	// Bus is the transport of the chip being probed
	Bus spimem.Transport

	// SFDP is the parsed SFDP space, or nil
	SFDP *sfdp.SFDP

	// ID is the JEDEC ID that was read
	ID []byte

	// Vendor is the vendor of the current blank
	Vendor *Vendor

	// Alt is searched by Reprobe after Vendor
	Alt *Registry

	// MaxReprobe bounds Reprobe; 0 means DefaultMaxReprobe
	MaxReprobe int

	reprobes int
	restart  bool
}

// BasicMinorRev returns the minor revision of the SFDP basic parameter
// table, or false if the chip has none.
func (c *FixupContext) BasicMinorRev() (uint8, bool) {
	if c.SFDP == nil {
		return 0, false
	}
	b, err := c.SFDP.Basic()
	if err != nil {
		return 0, false
	}
	return b.MinorRev, true
}

// Reprobe replaces the blank with the part named name, looked up in the
// current vendor and then in Alt. The new blank has its defaults filled.
// The caller must restart the current stage, see Restart.
func (c *FixupContext) Reprobe(bp *Blank, name string) error {
	limit := c.MaxReprobe
	if limit <= 0 {
		limit = DefaultMaxReprobe
	}
	if name == "" {
		return fmt.Errorf("reprobe: empty name: %w", spimem.ErrInvalidParameter)
	}
	if c.reprobes >= limit {
		return fmt.Errorf("reprobe %s: %w", name, ErrReprobeLimit)
	}
	c.reprobes++

	var p *Part
	if c.Vendor != nil {
		p, _ = FindPartByName(c.Vendor.Parts, name)
	}
	if p == nil && c.Alt != nil {
		if m, err := c.Alt.FindByName(name); err == nil {
			p = m.Part
			c.Vendor = m.Vendor
		}
	}
	if p == nil {
		return fmt.Errorf("reprobe %s: %w", name, ErrPartNotFound)
	}

	bp.reset(p)
	bp.FillDefaults()
	c.restart = true
	return nil
}

// Restart reports whether a reprobe happened since the last call, and
// clears the indication.
func (c *FixupContext) Restart() bool {
	r := c.restart
	c.restart = false
	return r
}

// Reprobes returns the number of reprobes so far.
func (c *FixupContext) Reprobes() int {
	return c.reprobes
}

// RunFixups runs the vendor hook and then the part hook of stage. If a hook
// reprobes, the remaining hook is skipped and ctx.Restart reports true.
func RunFixups(ctx *FixupContext, bp *Blank, stage Stage) error {
	if ctx == nil || bp == nil {
		return spimem.ErrInvalidParameter
	}

	if ctx.Vendor != nil {
		if err := runHook(ctx, ctx.Vendor.Fixups, bp, stage); err != nil {
			return fmt.Errorf("%s %s fixup: %w", ctx.Vendor.Name, stage, err)
		}
		if ctx.restart {
			return nil
		}
	}

	if err := runHook(ctx, bp.Part().Fixups, bp, stage); err != nil {
		return fmt.Errorf("%s %s fixup: %w", bp.Part().Model, stage, err)
	}
	return nil
}

func runHook(ctx *FixupContext, hook any, bp *Blank, stage Stage) error {
	if hook == nil {
		return nil
	}
	switch stage {
	case StagePreParam:
		if h, ok := hook.(PreParamSetup); ok {
			return h.PreParamSetup(ctx, bp)
		}
	case StagePostParam:
		if h, ok := hook.(PostParamSetup); ok {
			return h.PostParamSetup(ctx, bp)
		}
	case StagePreChipSetup:
		if h, ok := hook.(PreChipSetup); ok {
			return h.PreChipSetup(ctx, bp)
		}
	}
	return nil
}
