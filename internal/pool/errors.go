package pool

import (
	"errors"
	"fmt"
)

// Errors.
var (
	ErrDNAsEmpty   = errors.New("no DNAs provided")
	ErrDNAMismatch = errors.New("DNA does not match archetype")
	ErrNullPool    = errors.New("pool is empty")
	ErrCorrupt     = errors.New("corrupt section data")
)

// MismatchError reports the first variant that disagrees with the archetype.
type MismatchError struct {
	Index int    // variant index
	Field string // mismatched property
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("DNA %d does not match archetype: %s", e.Index, e.Field)
}

// Unwrap makes errors.Is(err, ErrDNAMismatch) hold.
func (e *MismatchError) Unwrap() error {
	return ErrDNAMismatch
}
