package part

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/moffa90/go-spinor/spimem"
)

// ParseID parses a JEDEC ID written as hex, e.g. "ef4018", "0xEF4018" or
// "EF 40 18". Bytes may be separated by spaces, colons or dashes.
func ParseID(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	s = strings.NewReplacer(" ", "", ":", "", "-", "").Replace(s)
	if s == "" {
		return nil, fmt.Errorf("empty id: %w", spimem.ErrInvalidParameter)
	}

	id, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid id: %w: %w", spimem.ErrInvalidParameter, err)
	}
	if len(id) > MaxIDLen {
		return nil, fmt.Errorf("invalid id: %d bytes, maximum is %d: %w", len(id), MaxIDLen, spimem.ErrInvalidParameter)
	}
	return id, nil
}

// FormatID returns id as upper-case hex.
func FormatID(id []byte) string {
	if len(id) == 0 {
		return "-"
	}
	return strings.ToUpper(hex.EncodeToString(id))
}
