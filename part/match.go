package part

import (
	"fmt"
	"strings"

	"github.com/moffa90/go-spinor/spimem"
)

// IDMatch reports whether id matches the catalog ID want under mask.
// Only the len(want) leading bytes are compared; an empty want never
// matches.
func IDMatch(id, want, mask []byte) bool {
	if len(want) == 0 || len(id) < len(want) {
		return false
	}
	for i, w := range want {
		m := byte(0xFF)
		if i < len(mask) {
			m = mask[i]
		}
		if id[i]&m != w&m {
			return false
		}
	}
	return true
}

// FindPartByID returns the first part of parts matching id, or nil.
func FindPartByID(parts []Part, id []byte) *Part {
	for i := range parts {
		p := &parts[i]
		if IDMatch(id, p.ID, p.IDMask) {
			return p
		}
	}
	return nil
}

// FindPartByName returns the first part whose model or alias equals name,
// ignoring case. The second result is the vendor ID of a matching alias
// that belongs to another vendor, or "".
func FindPartByName(parts []Part, name string) (*Part, string) {
	if name == "" {
		return nil, ""
	}
	for i := range parts {
		p := &parts[i]
		if strings.EqualFold(p.Model, name) {
			return p, ""
		}
		for _, a := range p.Aliases {
			if strings.EqualFold(a.Model, name) {
				return p, a.Vendor
			}
		}
	}
	return nil, ""
}

// Match is a catalog lookup result.
type Match struct {
	Part   *Part
	Vendor *Vendor

	// AliasVendor is the vendor the matched name is attributed to, if it
	// differs from Vendor
	AliasVendor *Vendor
}

// Registry is an ordered, read-only set of vendors.
type Registry struct {
	vendors []*Vendor
}

// NewRegistry creates a registry searching vendors in the given order.
func NewRegistry(vendors ...*Vendor) *Registry {
	return &Registry{vendors: vendors}
}

// Vendors returns the vendors in precedence order.
func (r *Registry) Vendors() []*Vendor {
	return r.vendors
}

// Vendor returns the vendor with the given ID, or nil.
func (r *Registry) Vendor(id string) *Vendor {
	for _, v := range r.vendors {
		if strings.EqualFold(v.ID, id) {
			return v
		}
	}
	return nil
}

// FindByID returns the first part matching id.
func (r *Registry) FindByID(id []byte) (Match, error) {
	if len(id) == 0 {
		return Match{}, fmt.Errorf("find part: empty id: %w: %w", spimem.ErrInvalidParameter, ErrPartNotFound)
	}
	for _, v := range r.vendors {
		if p := FindPartByID(v.Parts, id); p != nil {
			return Match{Part: p, Vendor: v}, nil
		}
	}
	return Match{}, fmt.Errorf("id %s: %w", FormatID(id), ErrPartNotFound)
}

// FindByName returns the first part named name.
func (r *Registry) FindByName(name string) (Match, error) {
	if name == "" {
		return Match{}, fmt.Errorf("find part: empty name: %w: %w", spimem.ErrInvalidParameter, ErrPartNotFound)
	}
	for _, v := range r.vendors {
		if m, ok := r.findInVendor(v, name); ok {
			return m, nil
		}
	}
	return Match{}, fmt.Errorf("name %q: %w", name, ErrPartNotFound)
}

func (r *Registry) findInVendor(v *Vendor, name string) (Match, bool) {
	p, aliasVendor := FindPartByName(v.Parts, name)
	if p == nil {
		return Match{}, false
	}
	m := Match{Part: p, Vendor: v}
	if aliasVendor != "" && !strings.EqualFold(aliasVendor, v.ID) {
		m.AliasVendor = r.Vendor(aliasVendor)
	}
	return m, true
}
