package probe

import (
	"context"
	"errors"
	"fmt"

	"github.com/moffa90/go-spinor/part"
	"github.com/moffa90/go-spinor/sfdp"
	"github.com/moffa90/go-spinor/spimem"
)

// Prober resolves the part attached to a transport.
type Prober struct {
	bus      spimem.Transport
	registry *part.Registry
	config   Config
	logSink
}

// New creates a Prober for the chip on bus, matched against registry.
//
// Example:
//
//	p := probe.New(bus, vendors.Default(),
//	    probe.WithLogger(logger),
//	    probe.WithMaxReprobe(2),
//	)
func New(bus spimem.Transport, registry *part.Registry, opts ...Option) *Prober {
	if bus == nil {
		panic("bus cannot be nil")
	}
	if registry == nil {
		panic("registry cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Prober{
		bus:      bus,
		registry: registry,
		config:   cfg,
		logSink:  logSink{logger: cfg.Logger},
	}
}

// Probe runs the probe sequence and returns the session of the resolved
// part:
//  1. Read the JEDEC ID and match it (or match the forced part by name)
//  2. Read SFDP if the part declares it
//  3. Build the blank part and fill family defaults
//  4. Run pre-param fixups, restarting after every reprobe
//  5. Apply SFDP-derived parameters to fields the catalog left empty
//  6. Run post-param fixups
//  7. Commit the parameters into the session
//  8. Run pre-chip-setup fixups on the committed parameters
//
// The bus lock is held for the whole sequence. No state reaches the
// session unless every fixup up to the commit succeeds.
func (p *Prober) Probe(ctx context.Context) (*Session, error) {
	p.bus.Lock()
	defer p.bus.Unlock()

	id, m, err := p.identify()
	if err != nil {
		p.logError("identify failed", "error", err)
		return nil, err
	}
	p.logInfo("part matched",
		"id", part.FormatID(id),
		"vendor", m.Vendor.Name,
		"model", m.Part.Model,
	)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("cancelled: %w", err)
	}

	tbl, err := p.readSFDP(m.Part)
	if err != nil {
		return nil, err
	}

	fctx := &part.FixupContext{
		Bus:        p.bus,
		SFDP:       tbl,
		ID:         id,
		Vendor:     m.Vendor,
		Alt:        p.config.AltRegistry,
		MaxReprobe: p.config.MaxReprobe,
	}
	bp := part.NewBlank(m.Part)
	bp.FillDefaults()

	if err := p.runParamFixups(ctx, fctx, bp); err != nil {
		p.logError("fixups failed", "model", bp.Part().Model, "error", err)
		return nil, err
	}

	// the alias names the part first matched, not the one reprobed into
	aliasVendor := m.AliasVendor
	if fctx.Reprobes() > 0 {
		aliasVendor = nil
	}

	s := &Session{
		Params:      bp.Commit(),
		Vendor:      fctx.Vendor,
		AliasVendor: aliasVendor,
		ID:          id,
		SFDP:        tbl,
		bus:         p.bus,
		logSink:     p.logSink,
	}
	if s.Params.Flags&part.Meta != 0 {
		p.logInfo("generic part not resolved", "model", s.Params.Model)
	}
	p.logDebug("parameters committed",
		"model", s.Params.Model,
		"size", s.Params.Size,
		"flags", s.Params.Flags.String(),
		"reprobes", fctx.Reprobes(),
	)

	if err := part.RunFixups(fctx, part.Wrap(s.Params), part.StagePreChipSetup); err != nil {
		p.logError("pre-chip-setup failed", "model", s.Params.Model, "error", err)
		return nil, err
	}
	if fctx.Restart() {
		return nil, fmt.Errorf("%s: %w", s.Params.Model, ErrLateReprobe)
	}

	p.logInfo("probe complete", "model", s.Params.Model, "vendor", s.Vendor.Name)
	return s, nil
}

// identify reads the ID and finds the catalog entry.
func (p *Prober) identify() ([]byte, part.Match, error) {
	id, err := spimem.ReadID(p.bus, p.config.IDLength)
	if err != nil {
		if p.config.ForcePart == "" {
			return nil, part.Match{}, err
		}
		p.logDebug("id read failed, using forced part", "error", err)
		id = nil
	} else {
		p.logDebug("id read", "id", part.FormatID(id))
	}

	if p.config.ForcePart != "" {
		m, err := p.registry.FindByName(p.config.ForcePart)
		if err != nil {
			return id, part.Match{}, err
		}
		return id, m, nil
	}

	m, err := p.registry.FindByID(id)
	if err != nil {
		return id, part.Match{}, &UnknownIDError{ID: id}
	}
	return id, m, nil
}

// readSFDP reads and parses SFDP for parts that declare it. A failure only
// aborts the probe for generic parts, which need it to be resolved.
func (p *Prober) readSFDP(cat *part.Part) (*sfdp.SFDP, error) {
	if !p.config.SFDP || cat.Flags&(part.SFDP|part.Meta) == 0 {
		return nil, nil
	}

	tbl, err := sfdp.Parse(busSFDP{bus: p.bus})
	if err != nil {
		if cat.Flags&part.Meta != 0 {
			return nil, fmt.Errorf("read sfdp of %s: %w", cat.Model, err)
		}
		p.logDebug("sfdp unavailable", "model", cat.Model, "error", err)
		return nil, nil
	}

	if b, err := tbl.Basic(); err == nil {
		p.logDebug("sfdp read",
			"rev", fmt.Sprintf("%d.%d", tbl.MajorRev, tbl.MinorRev),
			"bfpt_rev", fmt.Sprintf("%d.%d", b.MajorRev, b.MinorRev),
			"tables", len(tbl.Parameters),
		)
	}
	return tbl, nil
}

// runParamFixups runs the pre-param and post-param stages. A reprobe in
// either stage restarts from pre-param with the new blank.
func (p *Prober) runParamFixups(ctx context.Context, fctx *part.FixupContext, bp *part.Blank) error {
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("cancelled: %w", err)
		}

		if err := part.RunFixups(fctx, bp, part.StagePreParam); err != nil {
			return err
		}
		if fctx.Restart() {
			p.logInfo("reprobed", "model", bp.Part().Model, "vendor", fctx.Vendor.Name)
			continue
		}

		applySFDP(bp, fctx.SFDP)

		if err := part.RunFixups(fctx, bp, part.StagePostParam); err != nil {
			return err
		}
		if fctx.Restart() {
			p.logInfo("reprobed", "model", bp.Part().Model, "vendor", fctx.Vendor.Name)
			continue
		}
		return nil
	}
}

// applySFDP fills parameters the catalog left empty from the basic
// parameter table.
func applySFDP(bp *part.Blank, tbl *sfdp.SFDP) {
	if tbl == nil {
		return
	}
	p := bp.Part()
	if p.Flags&part.NoSFDPOverride != 0 {
		return
	}
	b, err := tbl.Basic()
	if err != nil {
		return
	}

	if p.Size == 0 {
		if size, err := b.Size(); err == nil {
			bp.SetSize(size)
		}
	}
	if op, ok := b.Erase4KOpcode(); ok {
		for i := range p.Erase3B {
			if p.Erase3B[i].Size == 4*spimem.KiB && p.Erase3B[i].Opcode == 0 {
				p.Erase3B[i].Opcode = op
			}
		}
	}

	// size may have crossed the 4-byte threshold
	bp.FillDefaults()
}

// IsUnknownID reports whether err is an UnknownIDError.
func IsUnknownID(err error) bool {
	var u *UnknownIDError
	return errors.As(err, &u)
}
