package vendors

import "github.com/moffa90/go-spinor/part"

// All lists the built-in vendors in match precedence order.
var All = []*part.Vendor{Winbond, Macronix, GigaDevice, ISSI, PMC}

// Default returns a registry of the built-in vendors.
func Default() *part.Registry {
	return part.NewRegistry(All...)
}
