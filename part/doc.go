// Package part holds the SPI-NOR part catalog model, the ID and name
// matcher, and the blank-part builder that fixup hooks work on.
//
// # Catalog
//
// A Registry is an ordered list of vendors, each with an ordered list of
// parts. Order is precedence: the first entry whose masked ID matches wins,
// so specific entries must come before the generic Meta placeholders that a
// fixup later replaces.
//
//	m, err := reg.FindByID([]byte{0xEF, 0x40, 0x18})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(m.Vendor.Name, m.Part.Model)
//
// Name lookup is case-insensitive and also searches aliases. An alias may
// name another vendor by ID, in which case the match reports that vendor in
// AliasVendor.
//
// # Blank parts
//
// A Blank is the per-probe working copy of a catalog entry. The catalog is
// never mutated; everything a fixup changes lands in the blank:
//
//	bp := part.NewBlank(m.Part)
//	bp.FillDefaults()
//	if err := part.RunFixups(ctx, bp, part.StagePreParam); err != nil {
//	    return err
//	}
//
// FillDefaults copies the family-default opcode and erase tables into every
// empty table. 4-byte tables are only filled for parts larger than 16 MiB
// that switch to 4-byte addressing through dedicated opcodes.
//
// # Fixups
//
// Vendors and parts carry an optional Fixups value implementing any of
// PreParamSetup, PostParamSetup and PreChipSetup. RunFixups calls the vendor
// hook first, then the part hook. A hook may call FixupContext.Reprobe to
// replace the blank with another named part; the caller then restarts the
// stage.
package part
