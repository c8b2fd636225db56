package probe

import (
	"errors"
	"fmt"

	"github.com/moffa90/go-spinor/part"
)

// ErrLateReprobe indicates a reprobe requested after the parameters were
// committed.
var ErrLateReprobe = errors.New("reprobe after commit")

// UnknownIDError indicates that no catalog entry matches the JEDEC ID the
// chip reported.
type UnknownIDError struct {
	ID []byte
}

func (e *UnknownIDError) Error() string {
	return fmt.Sprintf("unknown flash id %s", part.FormatID(e.ID))
}

// Is reports part.ErrPartNotFound as a match.
func (e *UnknownIDError) Is(target error) bool {
	return target == part.ErrPartNotFound
}
